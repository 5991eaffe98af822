package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the identity and progression record. Username is the primary key;
// the password hash never leaves the repository layer in API results.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	Username     string `bun:"username,pk"`
	PasswordHash string `bun:"password_hash,notnull" json:"-"`
	Email        string `bun:"email"`
	IsAdmin      bool   `bun:"is_admin,notnull,default:false"`

	Balance int64 `bun:"balance,notnull,default:0"`
	Exp     int64 `bun:"exp,notnull,default:0"`
	Level   int   `bun:"level,notnull,default:1"`

	AvatarURL     string `bun:"avatar_url"`
	BackgroundURL string `bun:"background_url"`
	TwoFactor     bool   `bun:"two_factor,notnull,default:false"`

	// Ordered, duplicates allowed.
	Collection StringList `bun:"collection,type:text"`

	// Grow-only sets.
	Achievements      StringList `bun:"achievements,type:text"`
	CompletedChapters StringList `bun:"completed_chapters,type:text"`

	Friends StringList `bun:"friends,type:text"`

	CompletedTraining bool `bun:"completed_training,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Sanitized returns a copy safe to hand to callers, with the credential
// stripped.
func (u *User) Sanitized() *User {
	out := *u
	out.PasswordHash = ""
	return &out
}

// LevelForExp computes the derived level for an experience total.
func LevelForExp(exp int64) int {
	return int(exp/100) + 1
}
