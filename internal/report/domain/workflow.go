package domain

import (
	"time"

	locdomain "altanto/app/internal/location/domain"
)

// Phase is the workflow's position between category selection and confirmation.
type Phase int

const (
	Idle Phase = iota
	CategorySelected
	LocationCaptured
	Submitting
	// Submitted is terminal; a new report starts a fresh Idle instance.
	Submitted
)

// String returns the phase name for logs and tests.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case CategorySelected:
		return "category-selected"
	case LocationCaptured:
		return "location-captured"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// CategoryPayload carries the selected category across the screen boundary.
// Only serializable data: id, name, and the color tokens the form re-renders
// the category chip with.
type CategoryPayload struct {
	CategoryID   int
	CategoryName string
	Color        string
	IconColor    string
}

// LocationPayload extends the category payload with the captured coordinate.
type LocationPayload struct {
	CategoryPayload
	Coordinate locdomain.Coordinate
}

// MediaRef is the serializable reference to an attached media file. Live
// preview handles never cross a transition.
type MediaRef struct {
	ContentType string
}

// SubmissionPayload is everything the submission collaborator consumes.
type SubmissionPayload struct {
	LocationPayload
	Description string
	Media       *MediaRef // nil when no media attached
}

// Receipt confirms a completed submission.
type Receipt struct {
	ReportID     string
	CategoryName string
	Coordinate   locdomain.Coordinate
	SubmittedAt  time.Time
}

// ArchivedReport is a submitted report as persisted in the local archive.
type ArchivedReport struct {
	ID           string
	CategoryID   int
	CategoryName string
	Coordinate   locdomain.Coordinate
	Description  string
	MediaType    string // empty when no media was attached
	SubmittedAt  time.Time
}
