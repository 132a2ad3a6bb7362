package openai

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/Baricodes/AWS-AI-Assitant/core"
)

// classify wraps a provider error as a structured core.Error for op.
// The langchaingo client surfaces HTTP failures as opaque errors, so the
// classification has to lean on status-code markers in the message.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return core.NewError(core.KindTimeout, op, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return core.NewError(core.KindTransient, op, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "quota"):
		return core.NewError(core.KindCapacity, op, err)
	case strings.Contains(msg, "500") || strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") || strings.Contains(msg, "504") ||
		strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") || strings.Contains(msg, "temporarily"):
		return core.NewError(core.KindTransient, op, err)
	}
	return core.NewError(core.KindPermanent, op, err)
}
