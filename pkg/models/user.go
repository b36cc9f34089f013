package models

import (
	"github.com/uptrace/bun"
)

// User is a device-local identity. All timestamps across the schema are Unix
// epoch seconds stored as integers, matching the on-device database format.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          string `bun:",pk" json:"id"`
	CreatedAt   int64  `bun:"created_at" json:"created_at"`
	UpdatedAt   int64  `bun:"updated_at" json:"updated_at"`
	LastLoginAt *int64 `bun:"last_login_at" json:"last_login_at,omitempty"`
}
