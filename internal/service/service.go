package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("idea not found")
	ErrMissingMessage = errors.New("message is required")
	ErrInvalidID      = errors.New("invalid id")
)

// Option configures a service.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now as the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// stamp is the creation time stored for new records. Postgres timestamps keep
// microseconds, so anything finer would not survive a round trip.
func stamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Microsecond)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
