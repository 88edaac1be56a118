package model

import "time"

// ContentStatus is the evaluation state of a single content entry.
//
// State machine:
//
//	awaiting_review --pass--> passed (terminal)
//	awaiting_review --fail--> failed
//	failed --edit with new content--> revised
//	revised --pass--> passed (terminal)
//	revised --fail--> failed
type ContentStatus string

const (
	ContentStatusAwaitingReview ContentStatus = "awaiting_review"
	ContentStatusPassed         ContentStatus = "passed"
	ContentStatusFailed         ContentStatus = "failed"
	ContentStatusRevised        ContentStatus = "revised"
)

// Valid reports whether the status is a known value.
func (s ContentStatus) Valid() bool {
	switch s {
	case ContentStatusAwaitingReview, ContentStatusPassed, ContentStatusFailed, ContentStatusRevised:
		return true
	}
	return false
}

// ContentEntry is one submitted piece of justification under a request.
// An entry must carry a non-empty body or a file; each entry holds at most
// one file reference, replaced in place on edit.
type ContentEntry struct {
	ID          string        `json:"id"`
	RequestID   string        `json:"request_id"`
	Body        string        `json:"body"`
	FileName    string        `json:"file_name,omitempty"`
	StoragePath string        `json:"storage_path,omitempty"`
	FileURL     string        `json:"file_url,omitempty"`
	Status      ContentStatus `json:"status"`
	ReviewerID  string        `json:"reviewer_id,omitempty"`
	ReviewedAt  *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// HasFile checks if the entry carries a file reference.
func (e *ContentEntry) HasFile() bool {
	return e.StoragePath != ""
}

// IsAwaitingReview checks if the entry has not been evaluated yet.
func (e *ContentEntry) IsAwaitingReview() bool {
	return e.Status == ContentStatusAwaitingReview
}

// IsPassed checks if the entry reached its terminal state.
func (e *ContentEntry) IsPassed() bool {
	return e.Status == ContentStatusPassed
}

// IsFailed checks if the entry was rejected by a reviewer.
func (e *ContentEntry) IsFailed() bool {
	return e.Status == ContentStatusFailed
}
