package models

import "time"

// AllocationAudit is one persisted allocation decision, kept for offline
// reconciliation of seat grants against the ledger.
type AllocationAudit struct {
	ID         string    `db:"id" json:"id"`
	CourseCode string    `db:"course_code" json:"courseCode"`
	StudentID  string    `db:"student_id" json:"studentId"`
	Outcome    string    `db:"outcome" json:"outcome"`
	RecordedAt time.Time `db:"recorded_at" json:"recordedAt"`
}
