package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash, never the plaintext.
type User struct {
	ID        int64
	Username  string
	Password  string
	Email     string
	CreatedAt time.Time
}
