package tenant

import (
	"database/sql"
	"regexp"
	"strings"
	"time"
)

// Type is the kind of government unit a tenant represents.
type Type string

const (
	TypeProvinsi  Type = "provinsi"
	TypeKabupaten Type = "kabupaten"
	TypeOPD       Type = "opd"
	TypeDPR       Type = "dpr"
	TypeDistrik   Type = "distrik"
	TypeDesa      Type = "desa"
)

func (t Type) Valid() bool {
	switch t {
	case TypeProvinsi, TypeKabupaten, TypeOPD, TypeDPR, TypeDistrik, TypeDesa:
		return true
	}
	return false
}

// SubscriptionStatus is the tenant-level billing state. It is always derived
// from the most recent subscription record (see service/subscription).
type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionSuspended SubscriptionStatus = "suspended"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

type Tenant struct {
	ID             int64              `json:"id" db:"id"`
	Name           string             `json:"name" db:"name"`
	Slug           string             `json:"slug" db:"slug"`
	Type           Type               `json:"type" db:"type"`
	ContactAddress string             `json:"contact_address,omitempty" db:"contact_address"`
	ContactPhone   string             `json:"contact_phone,omitempty" db:"contact_phone"`
	ContactEmail   string             `json:"contact_email,omitempty" db:"contact_email"`
	ContactWebsite string             `json:"contact_website,omitempty" db:"contact_website"`
	Status         SubscriptionStatus `json:"subscription_status" db:"subscription_status"`
	SubscriptionID sql.NullInt64      `json:"subscription_id,omitempty" db:"subscription_id"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a name into a URL-safe slug
// (e.g. "Diskominfo Jayapura" -> "diskominfo-jayapura").
func Slugify(s string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}
