package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/errs"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/db"
)

// Notifier hands accept/reject notifications to the delivery queue.
// Enqueue never reports failure to the caller.
type Notifier interface {
	Enqueue(ctx context.Context, n model.Notification)
}

// storeError converts a persistence error into a workflow error.
// Workflow errors returned from inside a transaction pass through unchanged.
func storeError(err error, format string, args ...any) error {
	if _, ok := errs.As(err); ok {
		return err
	}
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, db.ErrNotFound) {
		return errs.Wrap(errs.CodeNotFound, err, "cannot %s: not found", msg)
	}
	return errs.Wrap(errs.CodeInternal, err, "failed to %s", msg)
}

func newID() string {
	return uuid.New().String()
}
