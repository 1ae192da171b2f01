package template

import (
	"database/sql"
	"time"

	"egovpapua-service/internal/domain/tenant"
)

// TargetUniversal marks a template usable by every tenant type.
const TargetUniversal = "universal"

// ValidTarget reports whether s is a tenant type or the universal marker.
func ValidTarget(s string) bool {
	if s == TargetUniversal {
		return true
	}
	return tenant.Type(s).Valid()
}

// Colors is the color scheme a template ships with and a tenant can override.
type Colors struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Background string `json:"background,omitempty"`
	Text       string `json:"text,omitempty"`
}

// Template is a catalog entry maintained by super admins. Tenants pick one
// through their theme settings.
type Template struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Slug             string    `json:"slug" db:"slug"`
	Description      string    `json:"description,omitempty" db:"description"`
	TargetTenantType string    `json:"target_tenant_type" db:"target_tenant_type"`
	DemoURL          string    `json:"demo_url,omitempty" db:"demo_url"`
	DefaultColors    Colors    `json:"default_colors" db:"default_colors"`
	Features         []string  `json:"features" db:"features"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	IsDefault        bool      `json:"is_default" db:"is_default"`
	IsPremium        bool      `json:"is_premium" db:"is_premium"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ThemeSettings is the single per-tenant customization row. The tenant id is
// unique; saving again overwrites the existing row.
type ThemeSettings struct {
	ID              int64         `json:"id" db:"id"`
	TenantID        int64         `json:"tenant_id" db:"tenant_id"`
	TemplateID      sql.NullInt64 `json:"template_id,omitempty" db:"template_id"`
	Colors          Colors        `json:"colors" db:"colors"`
	LogoURL         string        `json:"logo_url,omitempty" db:"logo_url"`
	CustomCSS       string        `json:"custom_css,omitempty" db:"custom_css"`
	MetaTitle       string        `json:"meta_title,omitempty" db:"meta_title"`
	MetaDescription string        `json:"meta_description,omitempty" db:"meta_description"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}
