package domain

import "time"

// User is a registered account. Profile fields are optional and empty when
// unset.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // argon2id PHC string
	Nickname     string

	Activated    bool
	ReadOnly     bool
	CanLogin     bool
	ShadowBanned bool

	AvatarURL string
	Bio       string
	Birth     string // YYYY-MM-DD
	Website   string
	Phone     string

	JoinedAt  time.Time
	UpdatedAt time.Time
}
