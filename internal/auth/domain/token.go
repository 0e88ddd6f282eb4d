package domain

import "time"

// Token is a signed access token and the instant it stops verifying.
type Token struct {
	Value     string
	ExpiresAt time.Time
}
