package model

import "time"

// RequestStatus is the overall state of an explanation request.
type RequestStatus string

const (
	// RequestStatusPending means the request is open and awaiting responses.
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusCompleted is terminal; no transition leads out of it.
	RequestStatusCompleted RequestStatus = "completed"

	// RequestStatusApproved and RequestStatusRejected are reserved display
	// states. No transition currently produces them; they exist so stored
	// rows from a future reviewer-approval step remain representable.
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// Valid reports whether the status is a known stored value, reserved
// display states included.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusCompleted, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// Assignable reports whether a write may set the status. The reserved
// display states are representable but never accepted as input.
func (s RequestStatus) Assignable() bool {
	return s == RequestStatusPending || s == RequestStatusCompleted
}

// ExplanationRequest is a formal ask for justification directed at a
// responder, scoped to exactly one plan. A plan has at most one live request.
type ExplanationRequest struct {
	ID          string        `json:"id"`
	PlanID      string        `json:"plan_id"`
	RequesterID string        `json:"requester_id"`
	ResponderID string        `json:"responder_id"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	Files       []RequestFile `json:"files,omitempty"`
}

// IsPending checks if the request is still open.
func (r *ExplanationRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsCompleted checks if the request reached its terminal state.
func (r *ExplanationRequest) IsCompleted() bool {
	return r.Status == RequestStatusCompleted
}

// RequestFile is a file attached to an explanation request.
// It is owned by exactly one request and removed by the DB cascade when the
// owning request is deleted.
type RequestFile struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	FileName    string    `json:"file_name"`
	StoragePath string    `json:"storage_path"`
	FileURL     string    `json:"file_url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
