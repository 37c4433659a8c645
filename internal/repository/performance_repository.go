package repository

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/noah-isme/campus-registry-api/internal/models"
)

const performanceFile = "performance.json"

// PerformanceRepository holds recorded scores consumed by analytics.
// Scores are loaded from the data dir and read-only at runtime.
type PerformanceRepository struct {
	mu      sync.RWMutex
	records []models.PerformanceRecord
}

// NewPerformanceRepository constructs an empty score store.
func NewPerformanceRepository() *PerformanceRepository {
	return &PerformanceRepository{}
}

// List returns all recorded scores.
func (r *PerformanceRepository) List(ctx context.Context) []models.PerformanceRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.PerformanceRecord(nil), r.records...)
}

// Restore replaces the score contents.
func (r *PerformanceRepository) Restore(records []models.PerformanceRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]models.PerformanceRecord(nil), records...)
}

// LoadPerformanceData reads recorded scores from the data dir.
func LoadPerformanceData(dir string) ([]models.PerformanceRecord, error) {
	var records []models.PerformanceRecord
	if err := readJSONFile(filepath.Join(dir, performanceFile), &records); err != nil {
		return nil, err
	}
	return records, nil
}
