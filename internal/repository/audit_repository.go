package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-registry-api/internal/models"
)

// AuditRepository persists allocation decisions to Postgres.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record inserts one allocation decision.
func (r *AuditRepository) Record(ctx context.Context, entry models.AllocationAudit) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO allocation_audit (id, course_code, student_id, outcome, recorded_at) VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.CourseCode, entry.StudentID, entry.Outcome, entry.RecordedAt,
	)
	return err
}

// ListByCourse returns decisions for a course in recorded order.
func (r *AuditRepository) ListByCourse(ctx context.Context, courseCode string) ([]models.AllocationAudit, error) {
	var entries []models.AllocationAudit
	err := r.db.SelectContext(ctx, &entries,
		`SELECT id, course_code, student_id, outcome, recorded_at FROM allocation_audit WHERE course_code = $1 ORDER BY recorded_at`,
		courseCode,
	)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
