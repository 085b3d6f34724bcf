// Package session keeps uploaded datasets addressable by a session id between the
// upload request and the analysis requests that follow it.
package session

import (
	"context"
	"log"
	"strings"
	"time"

	"anaviz/domain/table"
	"anaviz/internal/errors"

	"github.com/google/uuid"
)

// ID identifies an uploaded dataset
type ID string

// NewID creates a time-ordered UUID v7 identifier, falling back to v4
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// ParseID validates a client-supplied session id
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.InvalidInput("sessionId is required")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", errors.InvalidInput("sessionId is not a valid id")
	}
	return ID(id.String()), nil
}

func (id ID) String() string {
	return string(id)
}

// Dataset is an uploaded table and where it came from
type Dataset struct {
	ID        ID
	Filename  string
	Table     *table.Table
	CreatedAt time.Time
}

// Store persists datasets by id. Implementations are safe for concurrent use.
type Store interface {
	// Save stores ds, assigning an id and creation time when unset
	Save(ctx context.Context, ds Dataset) (ID, error)
	Get(ctx context.Context, id ID) (*Dataset, error)
	Delete(ctx context.Context, id ID) error
	// Sweep removes datasets created more than olderThan ago and reports how many
	Sweep(ctx context.Context, olderThan time.Duration) (int, error)
}

func prepare(ds Dataset, now time.Time) Dataset {
	if ds.ID == "" {
		ds.ID = NewID()
	}
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = now
	}
	if ds.Table == nil {
		ds.Table = table.New(nil, nil)
	}
	return ds
}

// RunSweeper removes expired datasets every interval until ctx is done
func RunSweeper(ctx context.Context, store Store, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.Sweep(ctx, ttl)
			if err != nil {
				log.Printf("[SessionStore] Sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("[SessionStore] Removed %d expired datasets", removed)
			}
		}
	}
}
