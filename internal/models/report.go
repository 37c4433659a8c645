package models

import "time"

// ReportStatus tracks an export job through the queue.
type ReportStatus string

const (
	ReportStatusQueued    ReportStatus = "QUEUED"
	ReportStatusCompleted ReportStatus = "COMPLETED"
	ReportStatusFailed    ReportStatus = "FAILED"
)

// Report types and formats accepted by the export API.
const (
	ReportTypeWaitlist  = "waitlist"
	ReportTypeOccupancy = "occupancy"

	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

// Report is one queued export of registry state.
type Report struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	CourseCode  string       `json:"courseCode,omitempty"`
	Format      string       `json:"format"`
	Status      ReportStatus `json:"status"`
	File        string       `json:"file,omitempty"`
	Error       string       `json:"error,omitempty"`
	RequestedAt time.Time    `json:"requestedAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}
