package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/models"
	"github.com/noah-isme/campus-registry-api/internal/repository"
)

func newAnalyticsFixture(t *testing.T) (*AnalyticsService, *AdmissionService, *FeeService) {
	t.Helper()
	ctx := context.Background()

	courseRepo := repository.NewCourseRepository()
	catalog := NewCatalogService(courseRepo, validator.New(), nil, zap.NewNop())
	_, err := catalog.Create(ctx, CreateCourseRequest{Code: "CS101", Title: "Intro", Capacity: 2})
	require.NoError(t, err)
	_, err = catalog.Create(ctx, CreateCourseRequest{Code: "MA201", Title: "Calculus", Capacity: 4})
	require.NoError(t, err)

	studentRepo := repository.NewStudentRepository()
	students := NewStudentService(studentRepo, validator.New(), nil, zap.NewNop())
	for _, req := range []AddStudentRequest{
		{ID: "s1", Name: "Ana"},
		{ID: "s2", Name: "Budi"},
	} {
		_, err := students.Add(ctx, req)
		require.NoError(t, err)
	}

	fees := NewFeeService(repository.NewFeeRepository(), students, 1000, time.Second, validator.New(), nil, zap.NewNop())
	admission := NewAdmissionService(catalog, students, fees, nil, nil, nil, zap.NewNop())

	performance := repository.NewPerformanceRepository()
	performance.Restore([]models.PerformanceRecord{
		{StudentID: "s1", CourseCode: "CS101", Score: 90},
		{StudentID: "s1", CourseCode: "MA201", Score: 70},
		{StudentID: "s2", CourseCode: "CS101", Score: 85},
	})

	analytics := NewAnalyticsService(catalog, admission, fees, performance, students, nil, time.Minute, zap.NewNop())
	return analytics, admission, fees
}

func TestAnalyticsOverview(t *testing.T) {
	analytics, admission, fees := newAnalyticsFixture(t)
	ctx := context.Background()

	_, err := fees.RecordPayment(ctx, RecordPaymentRequest{StudentID: "s1", Amount: 1000})
	require.NoError(t, err)
	_, err = admission.Submit(ctx, "CS101", "s1")
	require.NoError(t, err)
	_, err = admission.Submit(ctx, "CS101", "s2")
	require.NoError(t, err)
	res, err := admission.AllocateNext(ctx, "CS101")
	require.NoError(t, err)
	require.Equal(t, models.AllocationGranted, res.Status)

	overview, hit, err := analytics.Overview(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, overview.Students)
	assert.Equal(t, 2, overview.Courses)
	assert.Equal(t, 1, overview.SeatsGranted)
	assert.Equal(t, 6, overview.SeatsCapacity)
	assert.Equal(t, 1, overview.WaitlistDepth)
	assert.Equal(t, 1000.0, overview.FeesCollected)
	assert.InDelta(t, 1.0/6.0, overview.OccupancyRatio, 1e-9)
}

func TestAnalyticsTopPerformers(t *testing.T) {
	analytics, _, _ := newAnalyticsFixture(t)

	performers, _, err := analytics.TopPerformers(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, performers, 1)
	assert.Equal(t, "s2", performers[0].StudentID)
	assert.Equal(t, "Budi", performers[0].Name)
	assert.InDelta(t, 85.0, performers[0].AverageScore, 1e-9)

	all, _, err := analytics.TopPerformers(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "s1", all[1].StudentID)
	assert.Equal(t, 2, all[1].Records)
}

func TestAnalyticsCourseAverages(t *testing.T) {
	analytics, admission, _ := newAnalyticsFixture(t)
	ctx := context.Background()

	_, err := admission.Submit(ctx, "MA201", "s2")
	require.NoError(t, err)

	averages, _, err := analytics.CourseAverages(ctx)
	require.NoError(t, err)
	require.Len(t, averages, 2)
	assert.Equal(t, "CS101", averages[0].CourseCode)
	assert.InDelta(t, 87.5, averages[0].AverageScore, 1e-9)
	assert.Equal(t, "MA201", averages[1].CourseCode)
	assert.Equal(t, 1, averages[1].Waitlisted)
	assert.InDelta(t, 70.0, averages[1].AverageScore, 1e-9)
}
