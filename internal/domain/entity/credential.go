package entity

import "time"

// Credential is an issued bearer token. It is never stored; validity is
// recomputed from its times and the subject on every verification.
type Credential struct {
	SubjectID string
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ValidAt reports whether the token is inside its lifetime at now.
func (c Credential) ValidAt(now time.Time) bool {
	return !now.Before(c.IssuedAt) && now.Before(c.ExpiresAt)
}
