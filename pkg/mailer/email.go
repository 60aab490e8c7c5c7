package mailer

import (
	"time"

	"github.com/1010nishant/BookMyTrip/pkg/mailer/templates"
)

// Email builds the account emails for one recipient.
type Email struct {
	From      string
	To        string
	FirstName string
	Brand     string
	URL       string
}

func NewEmail(from, brand, to, firstName, url string) *Email {
	return &Email{From: from, Brand: brand, To: to, FirstName: firstName, URL: url}
}

func (e *Email) Welcome() (Message, error) {
	return e.render(templates.Welcome)
}

// PasswordReset carries the reset URL and states how long it is valid.
func (e *Email) PasswordReset(ttl time.Duration) (Message, error) {
	return e.render(templates.PasswordReset, templates.WithExpiresIn(ttl))
}

func (e *Email) render(name string, opts ...templates.Option) (Message, error) {
	opts = append([]templates.Option{templates.WithURL(e.URL), templates.WithBrand(e.Brand)}, opts...)
	data := templates.NewEmailData(e.FirstName, e.To, opts...)
	subject, text, html, err := templates.Render(name, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: e.To, From: e.From, Subject: subject, Text: text, HTML: html}, nil
}
