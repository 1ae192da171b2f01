package content

import (
	"database/sql"
	"time"
)

// Kind is the collection a content entry belongs to.
type Kind string

const (
	KindNews         Kind = "news"
	KindDocument     Kind = "document"
	KindService      Kind = "service"
	KindAgenda       Kind = "agenda"
	KindLegal        Kind = "legal"
	KindProfile      Kind = "profile"
	KindStatistic    Kind = "statistic"
	KindTransparency Kind = "transparency"
	KindProgram      Kind = "program"
)

func (k Kind) Valid() bool {
	switch k {
	case KindNews, KindDocument, KindService, KindAgenda, KindLegal,
		KindProfile, KindStatistic, KindTransparency, KindProgram:
		return true
	}
	return false
}

type Entry struct {
	ID        int64        `json:"id" db:"id"`
	TenantID  int64        `json:"tenant_id" db:"tenant_id"`
	Kind      Kind         `json:"kind" db:"kind"`
	Title     string       `json:"title" db:"title"`
	Slug      string       `json:"slug" db:"slug"`
	Body      string       `json:"body,omitempty" db:"body"`
	FileURL   string       `json:"file_url,omitempty" db:"file_url"`
	EventDate sql.NullTime `json:"event_date,omitempty" db:"event_date"`
	Published bool         `json:"published" db:"published"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}
