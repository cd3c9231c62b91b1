package domain

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID        int64  `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"first_name" validate:"notblank,min=2,max=50"`
	LastName  string `json:"lastName" db:"last_name" validate:"notblank,min=2,max=50"`
	Email     string `json:"email" db:"email" validate:"notblank,email,max=255"`
	Username  string `json:"username" db:"username" validate:"max=50"`
	// Password is synced from the identity provider; it is accepted on
	// writes and never serialized back out (see Public).
	Password    string    `json:"password,omitempty" db:"password" validate:"max=255"`
	Role        string    `json:"role" db:"role" validate:"omitempty,oneof=USER ADMIN"`
	Enabled     *bool     `json:"enabled" db:"enabled"`
	Country     string    `json:"country" db:"country" validate:"notblank,max=255"`
	Preferences string    `json:"preferences" db:"preferences" validate:"max=1000"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Public returns a copy safe to hand back to clients.
func (u User) Public() User {
	u.Password = ""
	return u
}
