package mailer

import (
	"context"
	"time"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
type EmailJob struct {
	Message
	Attempt    int       `json:"attempt,omitempty"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// Publisher is satisfied by helpers.RabbitQueue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueSender hands messages to the email worker. A nil error means the
// broker accepted the job, not that it was delivered.
type QueueSender struct {
	Pub Publisher
	Now func() time.Time
}

func NewQueueSender(pub Publisher) *QueueSender {
	return &QueueSender{Pub: pub, Now: time.Now}
}

func (q *QueueSender) Send(ctx context.Context, msg Message) error {
	now := time.Now
	if q.Now != nil {
		now = q.Now
	}
	return q.Pub.PublishJSON(ctx, EmailJob{Message: msg, EnqueuedAt: now().UTC()})
}
