package models

// Course is one catalog entry. Code is unique and immutable; Capacity is
// fixed at creation. EnrolledCount never exceeds Capacity and is mutated
// only by the admission engine's allocation step.
type Course struct {
	Code          string `json:"code"`
	Title         string `json:"title"`
	Capacity      int    `json:"capacity"`
	EnrolledCount int    `json:"enrolledCount"`
}

// RequestStatus is the lifecycle state of an enrollment request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusGranted  RequestStatus = "GRANTED"
	RequestStatusRejected RequestStatus = "REJECTED"
	RequestStatusSkipped  RequestStatus = "SKIPPED"
)

// EnrollmentRequest is a queued admission request, unique per
// (course, student) pair while PENDING or SKIPPED. Sequence is a per-course
// monotonic counter used for deterministic FIFO ordering instead of
// wall-clock time.
type EnrollmentRequest struct {
	CourseCode string        `json:"courseCode"`
	StudentID  string        `json:"studentId"`
	Status     RequestStatus `json:"status"`
	Sequence   uint64        `json:"sequence"`
}

// WaitlistEntry is the read-only positioned view of a queued request.
type WaitlistEntry struct {
	StudentID string        `json:"studentId"`
	Status    RequestStatus `json:"status"`
	Position  int           `json:"position"`
}

// Allocation outcome statuses reported by the admission engine.
const (
	AllocationGranted       = "granted"
	AllocationCourseFull    = "course_full"
	AllocationEmpty         = "empty"
	AllocationFeeNotCleared = "fee_not_cleared"
)

// AllocationResult describes the outcome of a single allocation attempt.
type AllocationResult struct {
	Status    string `json:"status"`
	StudentID string `json:"studentId,omitempty"`
	Course    string `json:"course,omitempty"`
}

// WaitlistSnapshot is the serializable per-course admission state, used to
// recover waitlists across process restarts.
type WaitlistSnapshot struct {
	CourseCode string              `json:"courseCode"`
	Sequence   uint64              `json:"sequence"`
	Requests   []EnrollmentRequest `json:"requests"`
}
