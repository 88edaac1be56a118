package policy

import "auditapi/internal/model"

// Package policy is the single capability table gating every workflow
// mutation. It is pure: no I/O, no state. Call sites consult the table and
// never compare role strings directly.

// Capabilities is the set of actions an actor may perform against an
// explanation request and its content entries.
type Capabilities struct {
	CanCreateRequest     bool `json:"can_create_request"`
	CanEditRequestStatus bool `json:"can_edit_request_status"`
	CanUploadRequestFile bool `json:"can_upload_request_file"`
	CanDeleteRequestFile bool `json:"can_delete_request_file"`
	CanDeleteRequest     bool `json:"can_delete_request"`
	CanEvaluateContent   bool `json:"can_evaluate_content"`
	CanAddOrEditContent  bool `json:"can_add_or_edit_content"`
	CanDeleteContent     bool `json:"can_delete_content"`
}

// For resolves the capability set for a role and an ownership fact.
// isOwner means the actor is the designated responder of the request under
// inspection. Identical inputs always yield identical outputs.
func For(role model.Role, isOwner bool) Capabilities {
	lead := role == model.RoleLead
	staff := lead || role == model.RoleMember

	return Capabilities{
		CanCreateRequest:     staff,
		CanEditRequestStatus: staff,
		CanUploadRequestFile: staff,
		CanDeleteRequestFile: staff,
		CanDeleteRequest:     lead,
		CanEvaluateContent:   lead,
		CanAddOrEditContent:  lead || (isOwner && (role == model.RoleUnit || role == model.RoleMember)),
		// Content deletion is lead-level authority, same bar as deleting
		// the whole request.
		CanDeleteContent: lead,
	}
}
