package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Session is the single-row pointer to the currently-logged-in username.
// Absence of the row means "logged out".
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        int64     `bun:"id,pk"`
	Username  string    `bun:"username,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// CurrentSessionID is the fixed key of the session pointer row.
const CurrentSessionID int64 = 1
