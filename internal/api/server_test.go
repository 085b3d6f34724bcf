package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"anaviz/domain/table"
	"anaviz/internal/config"
	"anaviz/internal/errors"
	"anaviz/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "a,b,c\n1,2,x\n2,4,y\n3,6,z\n4,8,w\n"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{AllowedOrigin: "http://localhost:3000"},
		Upload: config.UploadConfig{MaxUploadMB: 1, PreviewRows: 2, MaxConcurrentParses: 2},
	}
}

func newTestServer(t *testing.T) (*Server, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	return NewServer(testConfig(), store), store
}

func seed(t *testing.T, store session.Store) session.ID {
	t.Helper()
	tbl := table.New([]string{"a", "b", "c"}, [][]string{
		{"1", "2", "x"},
		{"2", "4", "y"},
		{"3", "6", "z"},
		{"4", "8", "w"},
	})
	id, err := store.Save(context.Background(), session.Dataset{Filename: "sample.csv", Table: tbl})
	require.NoError(t, err)
	return id
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestUpload_ThenTrialAndFullData(t *testing.T) {
	s, store := newTestServer(t)

	body, contentType := multipartBody(t, "sample.csv", sampleCSV, nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := do(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	uploaded := decode(t, rec)
	assert.Equal(t, "sample.csv", uploaded["filename"])
	assert.Len(t, uploaded["preview"], 3)
	assert.Equal(t, 1, store.Len())

	id := uploaded["sessionId"].(string)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/trial?sessionId="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	trial := decode(t, rec)
	assert.Equal(t, []interface{}{"a", "b", "c"}, trial["columns"])
	assert.Len(t, trial["preview"], 3)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/full-data?sessionId="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 5)
}

func TestUpload_Rejections(t *testing.T) {
	s, _ := newTestServer(t)

	body, contentType := multipartBody(t, "notes.pdf", "hello", nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := do(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.CodeUnsupportedFile, decode(t, rec)["code"])

	body, contentType = multipartBody(t, "", "", map[string]string{"xKey": "a"})
	req = httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec = do(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.CodeInvalidInput, decode(t, rec)["code"])

	big := "a,b\n" + strings.Repeat("1,2\n", 300_000)
	body, contentType = multipartBody(t, "big.csv", big, nil)
	req = httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec = do(s, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, errors.CodePayloadTooLarge, decode(t, rec)["code"])
}

func TestSessionLookupErrors(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/statistical-summary", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/statistical-summary?sessionId="+session.NewID().String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.CodeNotFound, decode(t, rec)["code"])
}

func TestAnalysisViews(t *testing.T) {
	s, store := newTestServer(t)
	id := seed(t, store).String()

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/statistical-summary?sessionId="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode(t, rec)["summary"].(map[string]interface{})
	assert.Equal(t, 2.5, summary["a"].(map[string]interface{})["mean"])
	assert.Equal(t, float64(4), summary["c"].(map[string]interface{})["unique"])

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/correlation-matrix?sessionId="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	matrix := decode(t, rec)["matrix"].(map[string]interface{})
	assert.Equal(t, float64(1), matrix["a"].(map[string]interface{})["b"])
	assert.NotContains(t, matrix, "c")

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/missing-data-overview?sessionId="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decode(t, rec)["overview"].(map[string]interface{})
	assert.Equal(t, float64(0), overview["a"].(map[string]interface{})["Missing Values"])

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/outlier-detection?sessionId="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	outliers := decode(t, rec)["outliers"].(map[string]interface{})
	assert.Equal(t, float64(0), outliers["b"].(map[string]interface{})["Outlier Count"])
}

func TestChartFromSession(t *testing.T) {
	s, store := newTestServer(t)
	id := seed(t, store).String()

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/bar-chart?sessionId="+id+"&xKey=c&yKey=b", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "c", body["xKey"])
	assert.NotContains(t, body, "valueKey")
	data := body["data"].([]interface{})
	require.Len(t, data, 4)
	assert.Equal(t, map[string]interface{}{"c": "x", "b": float64(2)}, data[0])

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/heatmap?sessionId="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "a", body["xKey"])
	assert.Equal(t, "b", body["yKey"])
	assert.Equal(t, "c", body["valueKey"])
}

func TestChartFromUpload(t *testing.T) {
	s, store := newTestServer(t)

	body, contentType := multipartBody(t, "sample.csv", sampleCSV, map[string]string{"xKey": "a", "yKey": "b"})
	req := httptest.NewRequest(http.MethodPost, "/api/scatter-plot", body)
	req.Header.Set("Content-Type", contentType)
	rec := do(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decode(t, rec)["data"].([]interface{})
	require.Len(t, data, 4)
	assert.Equal(t, map[string]interface{}{"a": "4", "b": float64(8)}, data[3])
	assert.Equal(t, 0, store.Len())
}

func TestAnalyze(t *testing.T) {
	s, store := newTestServer(t)
	id := seed(t, store).String()

	req := httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader(`{"sessionId":"`+id+`","analysisType":"statistical_summary","params":{}}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "table", body["type"])
	assert.Contains(t, body["data"], "a")

	req = httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader(`{"sessionId":"`+id+`","analysisType":"regression"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = do(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	rec = do(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFullAnalysis(t *testing.T) {
	s, store := newTestServer(t)
	id := seed(t, store).String()

	payload := `{
		"sessionId": "` + id + `",
		"analyses": ["outliers", "bogus", "summary"],
		"visualizations": ["line-graph"],
		"columns": {"line-graph": {"xKey": "c", "yKey": "a"}}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/full-analysis", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := do(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	results := decode(t, rec)["results"].([]interface{})
	require.Len(t, results, 3)
	assert.Equal(t, "outlier_table", results[0].(map[string]interface{})["type"])
	assert.Equal(t, "table", results[1].(map[string]interface{})["type"])
	line := results[2].(map[string]interface{})
	assert.Equal(t, "line_graph", line["type"])
	assert.Equal(t, "c", line["xKey"])
	assert.Equal(t, "a", line["yKey"])
}

func TestReport(t *testing.T) {
	s, store := newTestServer(t)
	id := seed(t, store).String()

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/report?sessionId="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "# Analysis report: sample.csv")
	assert.Contains(t, rec.Body.String(), "## Outlier Detection")

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/report?format=html&sessionId="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<table>")

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/report?format=pdf&sessionId="+id, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReport_HTMLEscapesDatasetText(t *testing.T) {
	s, store := newTestServer(t)
	tbl := table.New([]string{"<script>alert(1)</script>"}, [][]string{{"1"}, {"2"}})
	id, err := store.Save(context.Background(), session.Dataset{Filename: "<img src=x onerror=alert(2)>.csv", Table: tbl})
	require.NoError(t, err)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/report?format=html&sessionId="+id.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script")
	assert.NotContains(t, rec.Body.String(), "<img")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestAnalysisViews_ExtremeValues(t *testing.T) {
	s, store := newTestServer(t)
	tbl := table.New([]string{"a", "b"}, [][]string{{"1e200", "1e308"}, {"-1e200", "1e308"}, {"3e200", "1"}})
	id, err := store.Save(context.Background(), session.Dataset{Filename: "big.csv", Table: tbl})
	require.NoError(t, err)

	for _, path := range []string{"/api/statistical-summary", "/api/correlation-matrix"} {
		rec := do(s, httptest.NewRequest(http.MethodGet, path+"?sessionId="+id.String(), nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, decode(t, rec), path)
	}
}

func TestOptions(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/options", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["analyses"], 4)
	assert.Len(t, body["visualizations"], 4)
}

func TestDeleteSession(t *testing.T) {
	s, store := newTestServer(t)
	id := seed(t, store).String()

	rec := do(s, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, store.Len())

	rec = do(s, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := do(s, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(errors.CodeNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(errors.CodeUnsupportedFile))
	assert.Equal(t, http.StatusRequestEntityTooLarge, statusFor(errors.CodePayloadTooLarge))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.CodeDatabaseError))
}

func TestProfilingHandler(t *testing.T) {
	h := NewProfilingHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/vars", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, ds session.Dataset) (session.ID, error) {
	args := m.Called(ctx, ds)
	return args.Get(0).(session.ID), args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, id session.ID) (*session.Dataset, error) {
	args := m.Called(ctx, id)
	ds, _ := args.Get(0).(*session.Dataset)
	return ds, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id session.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

func TestStoreFailuresAreInternal(t *testing.T) {
	store := new(mockStore)
	s := NewServer(testConfig(), store)
	id := session.NewID()

	store.On("Get", mock.Anything, id).Return(nil, errors.DatabaseError("failed to load dataset", context.DeadlineExceeded))
	store.On("Save", mock.Anything, mock.AnythingOfType("session.Dataset")).Return(session.ID(""), errors.DatabaseError("failed to save dataset", nil))

	rec := do(s, httptest.NewRequest(http.MethodGet, "/full-data?sessionId="+id.String(), nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, errors.CodeDatabaseError, body["code"])
	assert.Equal(t, "internal server error", body["error"])

	upload, contentType := multipartBody(t, "sample.csv", sampleCSV, nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", upload)
	req.Header.Set("Content-Type", contentType)
	rec = do(s, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	store.AssertExpectations(t)
}
