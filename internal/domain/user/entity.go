package user

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64         `json:"id" db:"id"`
	Email        string        `json:"email" db:"email"`
	PasswordHash string        `json:"-" db:"password_hash"`
	FullName     string        `json:"full_name" db:"full_name"`
	Role         string        `json:"role" db:"role"`
	TenantID     sql.NullInt64 `json:"tenant_id,omitempty" db:"tenant_id"`
	IsActive     bool          `json:"is_active" db:"is_active"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}
