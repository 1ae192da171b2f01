package plan

import "time"

// Interval is the billing period of a plan.
type Interval string

const (
	IntervalMonthly Interval = "monthly"
	IntervalYearly  Interval = "yearly"
)

func (i Interval) Valid() bool {
	return i == IntervalMonthly || i == IntervalYearly
}

// Label is the invoice line-item label for the interval.
func (i Interval) Label() string {
	if i == IntervalMonthly {
		return "Bulanan"
	}
	return "Tahunan"
}

// Limits caps what a tenant on this plan can create.
// Zero means unlimited.
type Limits struct {
	MaxPages  int `json:"max_pages"`
	MaxPosts  int `json:"max_posts"`
	MaxUsers  int `json:"max_users"`
	StorageGB int `json:"storage_gb"`
}

type Plan struct {
	ID               int64    `json:"id" db:"id"`
	Name             string   `json:"name" db:"name"`
	Slug             string   `json:"slug" db:"slug"`
	Description      string   `json:"description,omitempty" db:"description"`
	Price            int64    `json:"price" db:"price"` // IDR, minor units
	Interval         Interval `json:"interval" db:"interval"`
	TargetTenantType string   `json:"target_tenant_type,omitempty" db:"target_tenant_type"`
	Features         []string `json:"features,omitempty" db:"features"`
	Limits           Limits   `json:"limits" db:"limits"`
	IsActive         bool     `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
