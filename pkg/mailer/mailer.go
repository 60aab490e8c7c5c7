package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Message is a fully rendered email.
type Message struct {
	To      string `json:"to"`
	From    string `json:"from,omitempty"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// Sender delivers a message or reports why it could not.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them. It is the
// development transport.
type LogSender struct {
	Logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{Logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.Logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"from":    msg.From,
		"subject": msg.Subject,
	}).Info("email (log transport)")
	s.Logger.Debug(msg.Text)
	return nil
}
