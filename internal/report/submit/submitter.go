// Package submit holds the submission collaborator boundary and its stub.
package submit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	reportdomain "altanto/app/internal/report/domain"
)

// ErrSubmissionFailed is the recoverable network-like fault. The workflow
// stays in Submitting and the user retries by repeating the action.
var ErrSubmissionFailed = errors.New("submission failed")

// Submitter is the submission collaborator. It consumes the Submitting
// payload and returns a receipt or a recoverable failure.
type Submitter interface {
	Submit(ctx context.Context, payload reportdomain.SubmissionPayload) (reportdomain.Receipt, error)
}

// Stub simulates submission: an artificial delay, then success. Failure is
// injected through FailWith; the stub has no retry policy of its own.
type Stub struct {
	Delay time.Duration
	// FailWith, when set and returning non-nil, makes the next submission
	// fail with that error after the delay.
	FailWith func() error
}

// Submit waits the artificial delay and returns a receipt stamped at
// completion time. Honors ctx cancellation during the delay.
func (s *Stub) Submit(ctx context.Context, payload reportdomain.SubmissionPayload) (reportdomain.Receipt, error) {
	if s.Delay > 0 {
		select {
		case <-ctx.Done():
			return reportdomain.Receipt{}, ctx.Err()
		case <-time.After(s.Delay):
		}
	}
	if s.FailWith != nil {
		if err := s.FailWith(); err != nil {
			return reportdomain.Receipt{}, err
		}
	}
	return reportdomain.Receipt{
		ReportID:     uuid.New().String(),
		CategoryName: payload.CategoryName,
		Coordinate:   payload.Coordinate,
		SubmittedAt:  time.Now().UTC(),
	}, nil
}
