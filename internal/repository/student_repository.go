package repository

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/noah-isme/campus-registry-api/internal/models"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

const studentsFile = "students.json"

// StudentRepository owns the student directory records.
type StudentRepository struct {
	mu       sync.RWMutex
	students map[string]models.Student
}

// NewStudentRepository constructs an empty directory.
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{students: make(map[string]models.Student)}
}

// Add registers a new student.
func (r *StudentRepository) Add(ctx context.Context, student models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.students[student.ID]; exists {
		return appErrors.ErrDuplicateStudent
	}
	r.students[student.ID] = student
	return nil
}

// Find returns the student record for the id.
func (r *StudentRepository) Find(ctx context.Context, id string) (models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	student, ok := r.students[id]
	if !ok {
		return models.Student{}, appErrors.ErrStudentNotFound
	}
	return student, nil
}

// Exists resolves an id to directory membership.
func (r *StudentRepository) Exists(ctx context.Context, id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.students[id]
	return ok
}

// Search matches the query as a case-insensitive substring of id or name.
// An empty query returns the full directory.
func (r *StudentRepository) Search(ctx context.Context, query string) []models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q := strings.ToLower(query)
	out := make([]models.Student, 0, len(r.students))
	for _, student := range r.students {
		if q == "" || strings.Contains(strings.ToLower(student.ID), q) || strings.Contains(strings.ToLower(student.Name), q) {
			out = append(out, student)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Remove deletes a student record, reporting whether it existed.
func (r *StudentRepository) Remove(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[id]; !ok {
		return false
	}
	delete(r.students, id)
	return true
}

// Count returns the directory size.
func (r *StudentRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.students)
}

// Snapshot returns all records for persistence.
func (r *StudentRepository) Snapshot() []models.Student {
	return r.Search(context.Background(), "")
}

// Restore replaces the directory contents.
func (r *StudentRepository) Restore(students []models.Student) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.students = make(map[string]models.Student, len(students))
	for _, student := range students {
		r.students[student.ID] = student
	}
}

// LoadStudentData reads the student directory from the data dir.
func LoadStudentData(dir string) ([]models.Student, error) {
	var students []models.Student
	if err := readJSONFile(filepath.Join(dir, studentsFile), &students); err != nil {
		return nil, err
	}
	return students, nil
}

// SaveStudentData writes the student directory to the data dir.
func SaveStudentData(dir string, students []models.Student) error {
	return writeJSONFile(filepath.Join(dir, studentsFile), students)
}
