package health

import (
	"context"
	"time"

	"portfolio-backend/internal/tempstore"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// StoreStats is satisfied by *tempstore.Store.
type StoreStats interface {
	Stats() tempstore.Stats
	Running() bool
}

// SessionCounter is satisfied by *cvgen.Registry.
type SessionCounter interface {
	Len() int
}

// Service encapsulates health-related checks.
type Service struct {
	DB       Pinger
	Store    StoreStats
	Sessions SessionCounter
}

// Report is the health payload.
type Report struct {
	OK       bool             `json:"ok"`
	Database string           `json:"database"`
	Store    *tempstore.Stats `json:"store,omitempty"`
	Sweeping bool             `json:"sweeping"`
	Sessions int              `json:"sessions"`
}

// NewService constructs a new health service. db may be nil when the
// portfolio content is served from memory.
func NewService(db Pinger, store StoreStats, sessions SessionCounter) *Service {
	return &Service{DB: db, Store: store, Sessions: sessions}
}

// Status checks the database and summarizes the temporary store.
func (s *Service) Status(ctx context.Context) Report {
	report := Report{OK: true, Database: "memory"}
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			report.OK = false
			report.Database = "unreachable"
		} else {
			report.Database = "ok"
		}
	}
	if s.Store != nil {
		stats := s.Store.Stats()
		report.Store = &stats
		report.Sweeping = s.Store.Running()
	}
	if s.Sessions != nil {
		report.Sessions = s.Sessions.Len()
	}
	return report
}
