// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/crosswalk/pkg/types"
)

// Default confirmation bounds.
const (
	DefaultPollInterval   = time.Second
	DefaultConfirmTimeout = 2 * time.Minute
)

// Verifier is the part of a session Confirm needs.
type Verifier interface {
	Verify(ctx context.Context, library, table string) error
	Log() string
}

// ConfirmOptions bound the confirmation wait. Zero values take the defaults.
type ConfirmOptions struct {
	Marker   string
	Interval time.Duration
	Timeout  time.Duration
}

func (o ConfirmOptions) withDefaults() ConfirmOptions {
	if o.Marker == "" {
		o.Marker = DefaultMarker
	}
	if o.Interval <= 0 {
		o.Interval = DefaultPollInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultConfirmTimeout
	}
	return o
}

// Confirm polls v every Interval until Marker shows up in the part of the
// session log written after Confirm was called. It returns
// types.ErrConfirmTimeout once Timeout has passed, wrapping the last
// verification error if there was one, or ctx.Err() if ctx ends first.
func Confirm(ctx context.Context, v Verifier, library, table string, opts ConfirmOptions) error {
	opts = opts.withDefaults()
	offset := len(v.Log())
	deadline := time.NewTimer(opts.Timeout)
	defer deadline.Stop()

	var lastErr error
	for attempt := 1; ; attempt++ {
		lastErr = v.Verify(ctx, library, table)
		if strings.Contains(v.Log()[offset:], opts.Marker) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			if lastErr != nil {
				return fmt.Errorf("%w after %d attempts: %w", types.ErrConfirmTimeout, attempt, lastErr)
			}
			return fmt.Errorf("%w after %d attempts (%s)", types.ErrConfirmTimeout, attempt, opts.Timeout)
		case <-time.After(opts.Interval):
		}
	}
}
