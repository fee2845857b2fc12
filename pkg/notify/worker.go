package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/db"
)

const (
	defaultPollTimeout = 5 * time.Second
	errorBackoff       = time.Second
)

// errDrop marks notifications that can never be delivered and are discarded without retrying
var errDrop = errors.New("notification cannot be delivered")

// Sender delivers a plain text email
type Sender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// WorkerStore defines the reads needed to address and render a notification
type WorkerStore interface {
	GetVolunteer(ctx context.Context, id string) (*model.Volunteer, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
}

// WorkerOptions configures the queue names and retry budget
type WorkerOptions struct {
	QueueKey      string
	DeadLetterKey string
	MaxAttempts   int
	PollTimeout   time.Duration
	Location      *time.Location
}

// Worker consumes the notification queue and sends emails.
// A failed send is pushed back with its attempt count raised; after MaxAttempts the
// notification moves to the dead-letter list.
type Worker struct {
	client queueClient
	store  WorkerStore
	sender Sender
	logger *zap.Logger
	opts   WorkerOptions
}

// NewWorker creates a worker reading the Redis lists named in opts
func NewWorker(client *redis.Client, store WorkerStore, sender Sender, logger *zap.Logger, opts WorkerOptions) *Worker {
	return newWorker(client, store, sender, logger, opts)
}

func newWorker(client queueClient, store WorkerStore, sender Sender, logger *zap.Logger, opts WorkerOptions) *Worker {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = defaultPollTimeout
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Worker{client: client, store: store, sender: sender, logger: logger, opts: opts}
}

// Run processes notifications until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Notification worker started",
		zap.String("queue", w.opts.QueueKey),
		zap.Int("max_attempts", w.opts.MaxAttempts))

	for {
		if ctx.Err() != nil {
			w.logger.Info("Notification worker stopped")
			return nil
		}

		result, err := w.client.BRPop(ctx, w.opts.PollTimeout, w.opts.QueueKey).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case ctx.Err() != nil:
			continue
		case err != nil:
			w.logger.Error("Failed to read notification queue", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(errorBackoff):
			}
			continue
		}

		// BRPOP returns the key followed by the value
		if len(result) != 2 {
			w.logger.Error("Unexpected queue reply", zap.Strings("reply", result))
			continue
		}
		w.Process(ctx, result[1])
	}
}

// Process handles one queued payload: deliver it, retry it, or move it to the dead-letter list
func (w *Worker) Process(ctx context.Context, payload string) {
	var n model.Notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		w.logger.Error("Malformed notification payload", zap.Error(err))
		w.deadLetterRaw(context.WithoutCancel(ctx), payload)
		return
	}

	logger := w.logger.With(
		zap.String("notification_id", n.ID),
		zap.String("kind", string(n.Kind)),
		zap.Int("attempt", n.Attempt))

	err := w.deliver(ctx, n)
	switch {
	case err == nil:
		logger.Info("Notification sent", zap.String("volunteer_id", n.Participant.VolunteerID))
		return
	case errors.Is(err, errDrop):
		logger.Warn("Notification dropped", zap.Error(err))
		return
	}

	// The job is already off the queue, so it must be pushed back even during shutdown
	pushCtx := context.WithoutCancel(ctx)
	n.Attempt++
	if n.Attempt >= w.opts.MaxAttempts {
		logger.Error("Notification failed permanently", zap.Error(err))
		if err := push(pushCtx, w.client, w.opts.DeadLetterKey, n, defaultEnqueueTimeout); err != nil {
			logger.Error("Failed to dead-letter notification", zap.Error(err))
		}
		return
	}

	logger.Warn("Notification failed, retrying", zap.Error(err))
	if err := push(pushCtx, w.client, w.opts.QueueKey, n, defaultEnqueueTimeout); err != nil {
		logger.Error("Failed to requeue notification", zap.Error(err))
	}
}

func (w *Worker) deliver(ctx context.Context, n model.Notification) error {
	ref := n.Participant

	volunteer, err := w.store.GetVolunteer(ctx, ref.VolunteerID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return fmt.Errorf("%w: volunteer %s not found", errDrop, ref.VolunteerID)
	case err != nil:
		return fmt.Errorf("failed to load volunteer %s: %w", ref.VolunteerID, err)
	case volunteer.IsDeleted():
		return fmt.Errorf("%w: volunteer %s was deleted", errDrop, ref.VolunteerID)
	case volunteer.Email == "":
		return fmt.Errorf("%w: volunteer %s has no email", errDrop, ref.VolunteerID)
	}

	project, err := w.store.GetProject(ctx, ref.ProjectID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return fmt.Errorf("%w: project %s not found", errDrop, ref.ProjectID)
	case err != nil:
		return fmt.Errorf("failed to load project %s: %w", ref.ProjectID, err)
	}

	subject, body, err := renderEmail(n, volunteer, project, w.opts.Location)
	if err != nil {
		return fmt.Errorf("%w: %v", errDrop, err)
	}

	return w.sender.SendEmail(ctx, volunteer.Email, subject, body)
}

func (w *Worker) deadLetterRaw(ctx context.Context, payload string) {
	ctx, cancel := context.WithTimeout(ctx, defaultEnqueueTimeout)
	defer cancel()
	if err := w.client.LPush(ctx, w.opts.DeadLetterKey, payload).Err(); err != nil {
		w.logger.Error("Failed to dead-letter payload", zap.Error(err))
	}
}
