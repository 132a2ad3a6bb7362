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


package core

import (
	"context"
	"errors"
	"fmt"
)

// Domain errors
var (
	// ErrInvalidTransition indicates an illegal ingestion state change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrEmptySourceKey indicates a document was submitted without a source key.
	ErrEmptySourceKey = errors.New("source key cannot be empty")

	// ErrEmptyQuestion indicates an empty question was submitted.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrQuestionTooLong indicates a question over the accepted length.
	ErrQuestionTooLong = errors.New("question too long")

	// ErrDimensionMismatch indicates an embedding with the wrong dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Kind classifies a dependency failure so callers can decide whether to
// retry, surface, or take the fallback path.
type Kind int

const (
	// KindTransient covers throttling and timeouts on a single external
	// call. Retried with backoff up to a bounded attempt count.
	KindTransient Kind = iota + 1

	// KindPermanent covers malformed or unsupported input. Never retried;
	// reported per item or per request.
	KindPermanent

	// KindCapacity covers provider-side quota exhaustion. Retried with a
	// longer backoff before being surfaced.
	KindCapacity

	// KindNotFound means no stored content satisfied the request. Not a
	// failure; it triggers the deterministic fallback on the query path.
	KindNotFound

	// KindTimeout means the overall request deadline was exceeded.
	KindTimeout
)

var kindNames = map[Kind]string{
	KindTransient: "transient",
	KindPermanent: "permanent",
	KindCapacity:  "capacity",
	KindNotFound:  "not_found",
	KindTimeout:   "timeout",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a structured dependency failure carrying its classification and
// the operation that produced it. It never exposes raw provider payloads.
type Error struct {
	Kind Kind
	Op   string // The failing operation, e.g. "embed", "index.query"
	Err  error
}

// NewError wraps err as a classified failure of op.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure classification from an error chain.
// Unclassified errors are treated as permanent so they are never retried
// by accident; context deadline and cancellation errors map to KindTimeout.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}
	return KindPermanent
}

// IsRetryable reports whether the error classification warrants another
// attempt. Only transient and capacity failures are retried.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindTransient, KindCapacity:
		return true
	}
	return false
}
