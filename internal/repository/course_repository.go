package repository

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/noah-isme/campus-registry-api/internal/models"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

const coursesFile = "courses.json"

// CourseRepository owns the course records and their occupancy counters.
// IncrementOccupancy is a compare-and-increment under the store lock, so the
// enrolledCount <= capacity invariant holds no matter who calls it.
type CourseRepository struct {
	mu      sync.RWMutex
	courses map[string]*models.Course
}

// NewCourseRepository constructs an empty course store.
func NewCourseRepository() *CourseRepository {
	return &CourseRepository{courses: make(map[string]*models.Course)}
}

// Create registers a new course with zero occupancy.
func (r *CourseRepository) Create(ctx context.Context, course models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.courses[course.Code]; exists {
		return appErrors.ErrDuplicateCourse
	}
	course.EnrolledCount = 0
	r.courses[course.Code] = &course
	return nil
}

// Find returns a copy of the course record.
func (r *CourseRepository) Find(ctx context.Context, code string) (models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	course, ok := r.courses[code]
	if !ok {
		return models.Course{}, appErrors.ErrCourseNotFound
	}
	return *course, nil
}

// List returns all courses ordered by code.
func (r *CourseRepository) List(ctx context.Context) []models.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Course, 0, len(r.courses))
	for _, course := range r.courses {
		out = append(out, *course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// HasFreeSeat reports whether occupancy is below capacity.
func (r *CourseRepository) HasFreeSeat(ctx context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	course, ok := r.courses[code]
	if !ok {
		return false, appErrors.ErrCourseNotFound
	}
	return course.EnrolledCount < course.Capacity, nil
}

// IncrementOccupancy bumps enrolledCount by one, refusing at capacity.
func (r *CourseRepository) IncrementOccupancy(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[code]
	if !ok {
		return appErrors.ErrCourseNotFound
	}
	if course.EnrolledCount >= course.Capacity {
		return appErrors.ErrCourseFull
	}
	course.EnrolledCount++
	return nil
}

// Snapshot returns all courses for persistence.
func (r *CourseRepository) Snapshot() []models.Course {
	return r.List(context.Background())
}

// Restore replaces the store contents, clamping occupancy into range.
func (r *CourseRepository) Restore(courses []models.Course) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courses = make(map[string]*models.Course, len(courses))
	for _, course := range courses {
		c := course
		if c.EnrolledCount > c.Capacity {
			c.EnrolledCount = c.Capacity
		}
		if c.EnrolledCount < 0 {
			c.EnrolledCount = 0
		}
		r.courses[c.Code] = &c
	}
}

// courseFileShape is the on-disk layout of courses.json: the catalog plus
// the engine's waitlist state, so both recover together.
type courseFileShape struct {
	Courses   []models.Course           `json:"courses"`
	Waitlists []models.WaitlistSnapshot `json:"waitlists"`
}

// LoadCourseData reads courses and waitlist snapshots from the data dir.
func LoadCourseData(dir string) ([]models.Course, []models.WaitlistSnapshot, error) {
	var shape courseFileShape
	if err := readJSONFile(filepath.Join(dir, coursesFile), &shape); err != nil {
		return nil, nil, err
	}
	return shape.Courses, shape.Waitlists, nil
}

// SaveCourseData writes courses and waitlist snapshots to the data dir.
func SaveCourseData(dir string, courses []models.Course, waitlists []models.WaitlistSnapshot) error {
	return writeJSONFile(filepath.Join(dir, coursesFile), courseFileShape{Courses: courses, Waitlists: waitlists})
}
