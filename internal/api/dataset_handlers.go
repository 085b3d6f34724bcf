package api

import (
	stderrors "errors"
	"log"
	"mime/multipart"
	"net/http"

	"anaviz/adapters/excel"
	"anaviz/domain/table"
	"anaviz/internal/errors"
	"anaviz/internal/session"

	"github.com/gin-gonic/gin"
)

// handleUpload parses an uploaded CSV or XLSX file and stores it under a new session
func (s *Server) handleUpload(c *gin.Context) {
	t, filename, err := s.readUploadedTable(c)
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := s.store.Save(c.Request.Context(), session.Dataset{Filename: filename, Table: t})
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[Upload] Stored %s as session %s (%d columns, %d rows)", filename, id, t.NumCols(), t.NumRows())

	c.JSON(http.StatusOK, gin.H{
		"sessionId": id.String(),
		"filename":  filename,
		"preview":   excel.Preview(t, s.upload.PreviewRows),
	})
}

// handleFullData returns the whole dataset, header row first
func (s *Server) handleFullData(c *gin.Context) {
	ds, err := s.datasetFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ds.Table.Records()})
}

// handleTrial returns the headers and a short preview for the trial space
func (s *Server) handleTrial(c *gin.Context) {
	ds, err := s.datasetFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"columns": ds.Table.Headers(),
		"preview": excel.Preview(ds.Table, s.upload.PreviewRows),
	})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	id, err := session.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id.String()})
}

// datasetFromQuery loads the dataset named by the sessionId query parameter
func (s *Server) datasetFromQuery(c *gin.Context) (*session.Dataset, error) {
	return s.loadDataset(c, c.Query("sessionId"))
}

func (s *Server) loadDataset(c *gin.Context, rawID string) (*session.Dataset, error) {
	id, err := session.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.Get(c.Request.Context(), id)
}

// readUploadedTable parses the multipart "file" field
func (s *Server) readUploadedTable(c *gin.Context) (*table.Table, string, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return nil, "", errors.PayloadTooLarge(maxErr.Limit)
		}
		return nil, "", errors.InvalidInput("no file uploaded")
	}
	defer file.Close()

	if header.Size > s.upload.MaxBytes() {
		return nil, "", errors.PayloadTooLarge(s.upload.MaxBytes())
	}

	weight := header.Size
	if weight < 1 {
		weight = 1
	}
	if err := s.parseBudget.Acquire(c.Request.Context(), weight); err != nil {
		return nil, "", errors.Wrap(err, "upload cancelled while waiting to be parsed")
	}
	defer s.parseBudget.Release(weight)

	t, err := readTable(header, file)
	if err != nil {
		log.Printf("[Upload] Failed to parse %s: %v", header.Filename, err)
		return nil, "", err
	}
	return t, header.Filename, nil
}

func readTable(header *multipart.FileHeader, file multipart.File) (*table.Table, error) {
	reader, err := excel.NewDataReader(header.Filename)
	if err != nil {
		return nil, err
	}
	return reader.ReadFrom(file)
}
