package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/1010nishant/BookMyTrip/config"
	"github.com/1010nishant/BookMyTrip/pkg/helpers"
	"github.com/1010nishant/BookMyTrip/pkg/mailer"
)

const (
	// maxAttempts bounds redelivery of a job whose send keeps failing.
	maxAttempts = 5
	sendTimeout = 15 * time.Second
	prefetch    = 16
)

func main() {
	_ = godotenv.Load("config.env", ".env")
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
		logger.Fatal("Mailgun not configured")
	}

	q, err := helpers.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		logger.WithError(err).Fatal("amqp connect")
	}
	defer q.Close()

	deliveries, err := q.Consume(prefetch)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	w := &worker{
		Sender:  mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFrom()),
		Requeue: q,
		Logger:  logger,
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for d := range deliveries {
			w.handle(ctx, d)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down...")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

type worker struct {
	Sender  mailer.Sender
	Requeue mailer.Publisher
	Logger  *logrus.Logger
}

// handle sends one job. A failed send is republished with a bumped attempt
// counter until maxAttempts, then dropped.
func (w *worker) handle(ctx context.Context, d amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(d.Body, &job); err != nil || job.To == "" {
		w.Logger.WithError(err).Warn("dropping malformed email job")
		_ = d.Nack(false, false)
		return
	}
	entry := w.Logger.WithFields(logrus.Fields{"to": job.To, "subject": job.Subject, "attempt": job.Attempt})

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	err := w.Sender.Send(c, job.Message)
	cancel()
	if err == nil {
		entry.Info("email sent")
		_ = d.Ack(false)
		return
	}

	job.Attempt++
	if job.Attempt >= maxAttempts {
		entry.WithError(err).Error("email send failed; giving up")
		_ = d.Nack(false, false)
		return
	}
	if pubErr := w.Requeue.PublishJSON(ctx, job); pubErr != nil {
		entry.WithError(pubErr).Warn("requeue failed; returning job to broker")
		_ = d.Nack(false, true)
		return
	}
	entry.WithError(err).Warn("email send failed; requeued")
	_ = d.Ack(false)
}
