// Copyright 2025 Baricodes
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package retry provides a reusable backoff policy for calls to external
// dependencies. The same policy value is applied uniformly to embedding,
// vector index, and generation calls.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Baricodes/AWS-AI-Assitant/core"
)

// ErrInvalidMaxAttempts is returned when a policy is configured with
// MaxAttempts <= 0.
var ErrInvalidMaxAttempts = errors.New("MaxAttempts must be greater than 0")

// Policy describes a bounded exponential backoff schedule.
// The zero value is not usable; construct with DefaultPolicy or explicitly.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the delay before the second attempt. It doubles on
	// each subsequent retry. Capacity failures wait twice as long at
	// every step, since quota replenishes slower than throttling clears.
	BaseDelay time.Duration
}

// DefaultPolicy returns the policy used when none is configured:
// 3 attempts with a 1 second base delay.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second}
}

// Do runs operation until it succeeds, fails permanently, exhausts the
// attempt budget, or the context is done. Only errors classified as
// retryable (transient, capacity) trigger another attempt; everything else
// is returned immediately from the first failing attempt.
func (p Policy) Do(ctx context.Context, operation func() error) error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return core.NewError(core.KindTimeout, "retry", ctx.Err())
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		if !core.IsRetryable(lastErr) {
			return lastErr
		}

		slog.Debug("operation failed, will retry", "attempt", attempt, "maxAttempts", p.MaxAttempts, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == p.MaxAttempts {
			break
		}

		// Exponential backoff: BaseDelay * 2^(attempt-1)
		delay := p.BaseDelay
		for i := 1; i < attempt; i++ {
			delay *= 2
		}
		if core.KindOf(lastErr) == core.KindCapacity {
			delay *= 2
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return core.NewError(core.KindTimeout, "retry", ctx.Err())
		case <-timer.C:
		}
	}

	return lastErr
}
