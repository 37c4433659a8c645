package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/models"
)

type catalogReader interface {
	List(ctx context.Context) []models.Course
}

type waitlistReader interface {
	PeekWaitlist(ctx context.Context, courseCode string) ([]models.WaitlistEntry, error)
}

type ledgerTotals interface {
	TotalCollected(ctx context.Context) float64
}

type performanceReader interface {
	List(ctx context.Context) []models.PerformanceRecord
}

type directoryReader interface {
	Get(ctx context.Context, id string) (models.Student, error)
	Count(ctx context.Context) int
}

// AnalyticsService is the reporting adapter: read-only summaries over
// catalog, engine, ledger and recorded scores. It never mutates engine
// state. Payloads are cached when a cache backend is configured.
type AnalyticsService struct {
	catalog     catalogReader
	waitlists   waitlistReader
	fees        ledgerTotals
	performance performanceReader
	students    directoryReader
	cache       *CacheService
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewAnalyticsService constructs AnalyticsService. cache may be nil.
func NewAnalyticsService(catalog catalogReader, waitlists waitlistReader, fees ledgerTotals, performance performanceReader, students directoryReader, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		catalog:     catalog,
		waitlists:   waitlists,
		fees:        fees,
		performance: performance,
		students:    students,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Overview aggregates registry-wide counts, occupancy and waitlist depth.
// The second return reports a cache hit.
func (s *AnalyticsService) Overview(ctx context.Context) (models.AnalyticsOverview, bool, error) {
	const key = "analytics:overview"
	var cached models.AnalyticsOverview
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}

	courses := s.catalog.List(ctx)
	overview := models.AnalyticsOverview{
		Students:    s.students.Count(ctx),
		Courses:     len(courses),
		GeneratedAt: time.Now().UTC(),
	}
	for _, course := range courses {
		overview.SeatsGranted += course.EnrolledCount
		overview.SeatsCapacity += course.Capacity
		entries, err := s.waitlists.PeekWaitlist(ctx, course.Code)
		if err != nil {
			return models.AnalyticsOverview{}, false, err
		}
		overview.WaitlistDepth += len(entries)
	}
	if overview.SeatsCapacity > 0 {
		overview.OccupancyRatio = float64(overview.SeatsGranted) / float64(overview.SeatsCapacity)
	}
	overview.FeesCollected = s.fees.TotalCollected(ctx)

	_ = s.cache.Set(ctx, key, overview, s.cacheTTL)
	return overview, false, nil
}

// TopPerformers ranks students by average recorded score.
func (s *AnalyticsService) TopPerformers(ctx context.Context, limit int) ([]models.TopPerformer, bool, error) {
	if limit <= 0 {
		limit = 10
	}

	type agg struct {
		total float64
		count int
	}
	byStudent := make(map[string]*agg)
	for _, record := range s.performance.List(ctx) {
		a, ok := byStudent[record.StudentID]
		if !ok {
			a = &agg{}
			byStudent[record.StudentID] = a
		}
		a.total += record.Score
		a.count++
	}

	performers := make([]models.TopPerformer, 0, len(byStudent))
	for id, a := range byStudent {
		p := models.TopPerformer{StudentID: id, AverageScore: a.total / float64(a.count), Records: a.count}
		if student, err := s.students.Get(ctx, id); err == nil {
			p.Name = student.Name
		}
		performers = append(performers, p)
	}
	sort.Slice(performers, func(i, j int) bool {
		if performers[i].AverageScore != performers[j].AverageScore {
			return performers[i].AverageScore > performers[j].AverageScore
		}
		return performers[i].StudentID < performers[j].StudentID
	})
	if len(performers) > limit {
		performers = performers[:limit]
	}
	return performers, false, nil
}

// CourseAverages produces the per-course score and occupancy graph.
func (s *AnalyticsService) CourseAverages(ctx context.Context) ([]models.CourseAverage, bool, error) {
	const key = "analytics:graph"
	var cached []models.CourseAverage
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}

	type agg struct {
		total float64
		count int
	}
	byCourse := make(map[string]*agg)
	for _, record := range s.performance.List(ctx) {
		a, ok := byCourse[record.CourseCode]
		if !ok {
			a = &agg{}
			byCourse[record.CourseCode] = a
		}
		a.total += record.Score
		a.count++
	}

	courses := s.catalog.List(ctx)
	averages := make([]models.CourseAverage, 0, len(courses))
	for _, course := range courses {
		avg := models.CourseAverage{
			CourseCode: course.Code,
			Title:      course.Title,
			Enrolled:   course.EnrolledCount,
		}
		if a, ok := byCourse[course.Code]; ok && a.count > 0 {
			avg.AverageScore = a.total / float64(a.count)
		}
		entries, err := s.waitlists.PeekWaitlist(ctx, course.Code)
		if err != nil {
			return nil, false, err
		}
		avg.Waitlisted = len(entries)
		averages = append(averages, avg)
	}

	_ = s.cache.Set(ctx, key, averages, s.cacheTTL)
	return averages, false, nil
}
