package templates

import (
	"fmt"
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithURL(url string) Option     { return func(d *EmailData) { d.URL = url } }
func WithBrand(brand string) Option { return func(d *EmailData) { d.Brand = brand } }

// WithExpiresIn sets a human readable validity window, e.g. "10 minutes".
func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		d.ExpiresIn = HumanDuration(dur)
		d.ExpiresAt = time.Now().Add(dur).UTC()
	}
}

// NewEmailData fills the recipient fields and applies opts.
func NewEmailData(firstName, email string, opts ...Option) EmailData {
	d := EmailData{
		FirstName: strings.TrimSpace(firstName),
		Email:     email,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// HumanDuration renders whole hours or minutes in words and falls back to
// time.Duration's format otherwise.
func HumanDuration(d time.Duration) string {
	plural := func(n int64, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s", unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int64(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int64(d/time.Minute), "minute")
	}
	return d.String()
}
