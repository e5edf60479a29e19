package models

// SubmissionState tracks one booking/quote submission through the pipeline:
// Idle -> Validating -> (Invalid | Submitting) ->
// (Persisted -> Notifying -> Done) | PersistFailed | RateLimited.
type SubmissionState string

const (
	SubmissionIdle          SubmissionState = "idle"
	SubmissionValidating    SubmissionState = "validating"
	SubmissionInvalid       SubmissionState = "invalid"
	SubmissionSubmitting    SubmissionState = "submitting"
	SubmissionPersisted     SubmissionState = "persisted"
	SubmissionNotifying     SubmissionState = "notifying"
	SubmissionDone          SubmissionState = "done"
	SubmissionPersistFailed SubmissionState = "persist_failed"
	SubmissionRateLimited   SubmissionState = "rate_limited"
)

// SubmissionResult is the terminal outcome handed back to the caller.
// FieldErrors is populated only for Invalid; Message always carries the
// user-facing text for the reached state.
type SubmissionResult struct {
	State       SubmissionState   `json:"state"`
	RecordID    string            `json:"record_id,omitempty"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	FirstError  string            `json:"first_error,omitempty"`
}
