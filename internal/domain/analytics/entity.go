package analytics

import (
	"database/sql"
	"time"
)

// EventType is the tracked user action.
type EventType string

const (
	EventPageView         EventType = "page_view"
	EventDocumentDownload EventType = "document_download"
	EventServiceAccess    EventType = "service_access"
	EventNewsView         EventType = "news_view"
	EventSearch           EventType = "search"
	EventContactSubmit    EventType = "contact_submit"
)

func (e EventType) Valid() bool {
	switch e {
	case EventPageView, EventDocumentDownload, EventServiceAccess,
		EventNewsView, EventSearch, EventContactSubmit:
		return true
	}
	return false
}

// Metadata is the free-form context attached to an event.
type Metadata struct {
	Path        string `json:"path,omitempty"`
	Referrer    string `json:"referrer,omitempty"`
	UserAgent   string `json:"user_agent,omitempty"`
	IP          string `json:"ip,omitempty"`
	ResourceID  string `json:"resource_id,omitempty"`
	SearchQuery string `json:"search_query,omitempty"`
}

// Event is append-only; rows are never updated.
type Event struct {
	ID        int64         `json:"id" db:"id"`
	TenantID  sql.NullInt64 `json:"tenant_id,omitempty" db:"tenant_id"`
	Event     EventType     `json:"event" db:"event"`
	Metadata  Metadata      `json:"metadata" db:"metadata"`
	SessionID string        `json:"session_id,omitempty" db:"session_id"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}
