package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	locdomain "altanto/app/internal/location/domain"
	reportdomain "altanto/app/internal/report/domain"
	"altanto/app/internal/report/submit"
)

// Validation and transition errors. Validation errors surface as inline user
// messages and are never fatal; ErrInvalidTransition flags a programming
// error in the calling screen.
var (
	ErrNoCategory        = errors.New("select a category before continuing")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrNoCoordinate      = errors.New("no coordinate resolved and no fallback configured")
	ErrEmptyDescription  = errors.New("description must not be empty")
	ErrInvalidTransition = errors.New("transition not allowed from current phase")
	// ErrStaleTransition reports a submission that resolved after the
	// workflow instance moved on; the result is discarded, not applied.
	ErrStaleTransition = errors.New("stale transition discarded")
)

// Archive is the minimal report archive needed by the workflow.
type Archive interface {
	Save(ctx context.Context, r *reportdomain.ArchivedReport) error
}

// Workflow is the multi-step machine carrying one report from category
// selection to submission confirmation. Transitions are strictly forward;
// fields are never edited after their collecting phase. Submitted is
// terminal: StartNew yields a fresh Idle instance, it does not mutate the
// terminal record.
type Workflow struct {
	submitter submit.Submitter
	archive   Archive               // optional
	fallback  *locdomain.Coordinate // optional default when no device fix

	mu          sync.Mutex
	epoch       uint64
	phase       reportdomain.Phase
	category    reportdomain.CategoryPayload
	coordinate  locdomain.Coordinate
	description string
	media       *reportdomain.MediaRef
	receipt     reportdomain.Receipt
}

// NewWorkflow returns an Idle workflow. archive may be nil (no local
// persistence); fallback may be nil (no default coordinate configured).
func NewWorkflow(submitter submit.Submitter, archive Archive, fallback *locdomain.Coordinate) *Workflow {
	return &Workflow{submitter: submitter, archive: archive, fallback: fallback}
}

// Phase returns the current phase.
func (w *Workflow) Phase() reportdomain.Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// Category returns the selected category payload, if past Idle.
func (w *Workflow) Category() (reportdomain.CategoryPayload, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.category, w.phase != reportdomain.Idle
}

// Location returns the captured coordinate, if past CategorySelected.
func (w *Workflow) Location() (locdomain.Coordinate, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.phase {
	case reportdomain.LocationCaptured, reportdomain.Submitting, reportdomain.Submitted:
		return w.coordinate, true
	default:
		return locdomain.Coordinate{}, false
	}
}

// Receipt returns the submission receipt, if Submitted.
func (w *Workflow) Receipt() (reportdomain.Receipt, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.receipt, w.phase == reportdomain.Submitted
}

// SelectCategory applies toggle semantics from Idle/CategorySelected:
// re-selecting the current category returns to Idle, selecting a different
// one replaces it.
func (w *Workflow) SelectCategory(id int) (reportdomain.Phase, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.phase {
	case reportdomain.Idle, reportdomain.CategorySelected:
	default:
		return w.phase, ErrInvalidTransition
	}

	if w.phase == reportdomain.CategorySelected && w.category.CategoryID == id {
		w.category = reportdomain.CategoryPayload{}
		w.phase = reportdomain.Idle
		return w.phase, nil
	}
	cat, ok := reportdomain.CategoryByID(id)
	if !ok {
		return w.phase, ErrUnknownCategory
	}
	w.category = cat.Payload()
	w.phase = reportdomain.CategorySelected
	return w.phase, nil
}

// CaptureLocation advances to LocationCaptured with the device coordinate,
// or the configured fallback when coord is nil. Advancing with no category
// selected is a validation failure, not a fatal error.
func (w *Workflow) CaptureLocation(coord *locdomain.Coordinate) (reportdomain.Phase, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.phase {
	case reportdomain.Idle:
		return w.phase, ErrNoCategory
	case reportdomain.CategorySelected:
	default:
		return w.phase, ErrInvalidTransition
	}

	c := coord
	if c == nil {
		c = w.fallback
	}
	if c == nil {
		return w.phase, ErrNoCoordinate
	}
	if err := c.Validate(); err != nil {
		return w.phase, err
	}
	w.coordinate = *c
	w.phase = reportdomain.LocationCaptured
	return w.phase, nil
}

// Submit advances LocationCaptured -> Submitting with the given description
// and optional media reference, then runs the submission collaborator. On a
// recoverable failure the workflow stays in Submitting with its data intact;
// calling Submit again re-submits the recorded payload (the arguments are
// ignored on re-submission — fields are not editable past their collecting
// phase). A result that arrives after the instance moved on is discarded.
func (w *Workflow) Submit(ctx context.Context, description string, media *reportdomain.MediaRef) (reportdomain.Receipt, error) {
	w.mu.Lock()
	switch w.phase {
	case reportdomain.LocationCaptured:
		description = strings.TrimSpace(description)
		if description == "" {
			w.mu.Unlock()
			return reportdomain.Receipt{}, ErrEmptyDescription
		}
		w.description = description
		w.media = media
		w.phase = reportdomain.Submitting
	case reportdomain.Submitting:
		// Re-submission after a recoverable failure; recorded data stands.
	default:
		w.mu.Unlock()
		return reportdomain.Receipt{}, ErrInvalidTransition
	}
	payload := reportdomain.SubmissionPayload{
		LocationPayload: reportdomain.LocationPayload{
			CategoryPayload: w.category,
			Coordinate:      w.coordinate,
		},
		Description: w.description,
		Media:       w.media,
	}
	epoch := w.epoch
	w.mu.Unlock()

	receipt, err := w.submitter.Submit(ctx, payload)

	w.mu.Lock()
	if w.epoch != epoch || w.phase != reportdomain.Submitting {
		w.mu.Unlock()
		return reportdomain.Receipt{}, ErrStaleTransition
	}
	if err != nil {
		// Recoverable: stay in Submitting, keep entered data.
		w.mu.Unlock()
		return reportdomain.Receipt{}, err
	}
	w.receipt = receipt
	w.phase = reportdomain.Submitted
	w.mu.Unlock()

	if w.archive != nil {
		mediaType := ""
		if payload.Media != nil {
			mediaType = payload.Media.ContentType
		}
		_ = w.archive.Save(ctx, &reportdomain.ArchivedReport{
			ID:           receipt.ReportID,
			CategoryID:   payload.CategoryID,
			CategoryName: payload.CategoryName,
			Coordinate:   payload.Coordinate,
			Description:  payload.Description,
			MediaType:    mediaType,
			SubmittedAt:  receipt.SubmittedAt,
		})
	}
	return receipt, nil
}

// StartNew discards the terminal state and begins a fresh report. Only valid
// from Submitted; abandoning an unfinished report is done by dropping the
// instance, not by rewinding it.
func (w *Workflow) StartNew() (reportdomain.Phase, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != reportdomain.Submitted {
		return w.phase, ErrInvalidTransition
	}
	w.epoch++
	w.phase = reportdomain.Idle
	w.category = reportdomain.CategoryPayload{}
	w.coordinate = locdomain.Coordinate{}
	w.description = ""
	w.media = nil
	w.receipt = reportdomain.Receipt{}
	return w.phase, nil
}
