package service

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-registry-api/internal/models"
	"github.com/noah-isme/campus-registry-api/internal/repository"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

type stubDirectory struct {
	known map[string]bool
}

func (s *stubDirectory) Exists(ctx context.Context, id string) bool {
	return s.known[id]
}

type stubLedger struct {
	mu      sync.Mutex
	cleared map[string]bool
	err     error
	calls   int
}

func (s *stubLedger) IsCleared(ctx context.Context, studentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.cleared[studentID], nil
}

func (s *stubLedger) clear(studentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared[studentID] = true
}

type stubRecorder struct {
	mu      sync.Mutex
	entries []models.AllocationAudit
}

func (s *stubRecorder) Record(ctx context.Context, entry models.AllocationAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func newAdmissionFixture(t *testing.T, courses []models.Course, students []string, cleared []string) (*AdmissionService, *repository.CourseRepository, *stubLedger) {
	t.Helper()
	repo := repository.NewCourseRepository()
	for _, course := range courses {
		require.NoError(t, repo.Create(context.Background(), course))
	}
	dir := &stubDirectory{known: make(map[string]bool)}
	for _, id := range students {
		dir.known[id] = true
	}
	ledger := &stubLedger{cleared: make(map[string]bool)}
	for _, id := range cleared {
		ledger.cleared[id] = true
	}
	svc := NewAdmissionService(repo, dir, ledger, nil, nil, nil, zap.NewNop())
	return svc, repo, ledger
}

func TestAdmissionSubmitQueuesInOrder(t *testing.T) {
	svc, _, _ := newAdmissionFixture(t,
		[]models.Course{{Code: "CS101", Title: "Intro", Capacity: 2}},
		[]string{"s1", "s2", "s3"}, nil)
	ctx := context.Background()

	for i, id := range []string{"s1", "s2", "s3"} {
		res, err := svc.Submit(ctx, "CS101", id)
		require.NoError(t, err)
		assert.Equal(t, "queued", res.Status)
		assert.Equal(t, i+1, res.Position)
	}

	entries, err := svc.PeekWaitlist(ctx, "CS101")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "s1", entries[0].StudentID)
	assert.Equal(t, "s2", entries[1].StudentID)
	assert.Equal(t, "s3", entries[2].StudentID)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, models.RequestStatusPending, entries[0].Status)
}

func TestAdmissionSubmitUnknownCourse(t *testing.T) {
	svc, _, _ := newAdmissionFixture(t, nil, []string{"s1"}, nil)

	_, err := svc.Submit(context.Background(), "GHOST", "s1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrCourseNotFound))
}

func TestAdmissionSubmitUnknownStudent(t *testing.T) {
	svc, _, _ := newAdmissionFixture(t,
		[]models.Course{{Code: "CS101", Capacity: 1}}, nil, nil)

	_, err := svc.Submit(context.Background(), "CS101", "nobody")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrStudentNotFound))
}

func TestAdmissionSubmitDuplicate(t *testing.T) {
	svc, _, _ := newAdmissionFixture(t,
		[]models.Course{{Code: "CS101", Capacity: 1}}, []string{"s1"}, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "CS101", "s1")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "CS101", "s1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateRequest))

	entries, err := svc.PeekWaitlist(ctx, "CS101")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAdmissionSubmitDuplicateAfterSkip(t *testing.T) {
	svc, _, _ := newAdmissionFixture(t,
		[]models.Course{{Code: "CS101", Capacity: 1}}, []string{"s1"}, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "CS101", "s1")
	require.NoError(t, err)

	res, err := svc.AllocateNext(ctx, "CS101")
	require.NoError(t, err)
	require.Equal(t, models.AllocationFeeNotCleared, res.Status)

	_, err = svc.Submit(ctx, "CS101", "s1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateRequest))
}

func TestAdmissionAllocateEmptyIdempotent(t *testing.T) {
	svc, repo, _ := newAdmissionFixture(t,
		[]models.Course{{Code: "CS101", Capacity: 3}}, nil, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res, err := svc.AllocateNext(ctx, "CS101")
		require.NoError(t, err)
		assert.Equal(t, models.AllocationEmpty, res.Status)
	}

	course, err := repo.Find(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, 0, course.EnrolledCount)
}

func TestAdmissionAllocateCapacityOne(t *testing.T) {
	svc, repo, _ := newAdmissionFixture(t,
		[]models.Course{{Code: "CS101", Capacity: 1}},
		[]string{"a", "b"}, []string{"a", "b"})
	ctx := context.Background()

	_, err := svc.Submit(ctx, "CS101", "a")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "CS101", "b")
	require.NoError(t, err)

	res, err := svc.AllocateNext(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, models.AllocationGranted, res.Status)
	assert.Equal(t, "a", res.StudentID)
	assert.Equal(t, "CS101", res.Course)

	course, err := repo.Find(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, 1, course.EnrolledCount)

	res, err = svc.AllocateNext(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, models.AllocationCourseFull, res.Status)

	entries, err := svc.PeekWaitlist(ctx, "CS101")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].StudentID)
	assert.Equal(t, models.RequestStatusPending, entries[0].Status)
}

func TestAdmissionAllocateSkipThenPay(t *testing.T) {
	svc, repo, ledger := newAdmissionFixture(t,
		[]models.Course{{Code: "CS101", Capacity: 2}},
		[]string{"a"}, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "CS101", "a")
	require.NoError(t, err)

	res, err := svc.AllocateNext(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, models.AllocationFeeNotCleared, res.Status)
	assert.Equal(t, "a", res.StudentID)

	entries, err := svc.PeekWaitlist(ctx, "CS101")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.RequestStatusSkipped, entries[0].Status)

	course, err := repo.Find(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, 0, course.EnrolledCount)

	ledger.clear("a")

	res, err = svc.AllocateNext(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, models.AllocationGranted, res.Status)
	assert.Equal(t, "a", res.StudentID)

	course, err = repo.Find(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, 1, course.EnrolledCount)
}

func TestAdmissionFIFOAcrossClearance(t *testing.T) {
	svc, _, ledger := newAdmissionFixture(t,
		[]models.Course{{Code: "CS101", Capacity: 3}},
		[]string{"a", "b"}, []string{"b"})
	ctx := context.Background()

	_, err := svc.Submit(ctx, "CS101", "a")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "CS101", "b")
	require.NoError(t, err)

	// Head is uncleared, so one attempt skips it. The skipped head stays in
	// place and is retried before anyone behind it once it clears.
	res, err := svc.AllocateNext(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, models.AllocationFeeNotCleared, res.Status)
	assert.Equal(t, "a", res.StudentID)

	ledger.clear("a")

	res, err = svc.AllocateNext(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, models.AllocationGranted, res.Status)
	assert.Equal(t, "a", res.StudentID)

	res, err = svc.AllocateNext(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, models.AllocationGranted, res.Status)
	assert.Equal(t, "b", res.StudentID)
}

func TestAdmissionLedgerOutageLeavesQueueUntouched(t *testing.T) {
	svc, repo, ledger := newAdmissionFixture(t,
		[]models.Course{{Code: "CS101", Capacity: 1}},
		[]string{"a"}, []string{"a"})
	ctx := context.Background()

	_, err := svc.Submit(ctx, "CS101", "a")
	require.NoError(t, err)

	ledger.err = appErrors.ErrLedgerUnavailable
	_, err = svc.AllocateNext(ctx, "CS101")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrLedgerUnavailable))

	entries, err := svc.PeekWaitlist(ctx, "CS101")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.RequestStatusPending, entries[0].Status)

	course, err := repo.Find(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, 0, course.EnrolledCount)

	// Recovery: the same request is reconsidered once the ledger answers.
	ledger.err = nil
	res, err := svc.AllocateNext(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, models.AllocationGranted, res.Status)
}

func TestAdmissionReject(t *testing.T) {
	svc, _, _ := newAdmissionFixture(t,
		[]models.Course{{Code: "CS101", Capacity: 1}},
		[]string{"a", "b"}, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "CS101", "a")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "CS101", "b")
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, "CS101", "a"))

	entries, err := svc.PeekWaitlist(ctx, "CS101")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].StudentID)
	assert.Equal(t, 1, entries[0].Position)

	err = svc.Reject(ctx, "CS101", "a")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestAdmissionConcurrentAllocateSingleSeat(t *testing.T) {
	svc, repo, _ := newAdmissionFixture(t,
		[]models.Course{{Code: "CS101", Capacity: 1}},
		[]string{"a", "b"}, []string{"a", "b"})
	ctx := context.Background()

	_, err := svc.Submit(ctx, "CS101", "a")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "CS101", "b")
	require.NoError(t, err)

	const attempts = 16
	results := make(chan models.AllocationResult, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.AllocateNext(ctx, "CS101")
			if err == nil {
				results <- res
			}
		}()
	}
	wg.Wait()
	close(results)

	granted := 0
	for res := range results {
		if res.Status == models.AllocationGranted {
			granted++
		}
	}
	assert.Equal(t, 1, granted)

	course, err := repo.Find(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, 1, course.EnrolledCount)

	entries, err := svc.PeekWaitlist(ctx, "CS101")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestAdmissionOccupancyNeverExceedsCapacity(t *testing.T) {
	courses := []models.Course{
		{Code: "CS101", Capacity: 2},
		{Code: "MA201", Capacity: 1},
		{Code: "PH301", Capacity: 4},
	}
	students := make([]string, 0, 20)
	cleared := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		id := string(rune('a' + i))
		students = append(students, id)
		if i%3 != 0 {
			cleared = append(cleared, id)
		}
	}
	svc, repo, _ := newAdmissionFixture(t, courses, students, cleared)
	ctx := context.Background()

	rng := rand.New(rand.NewSource(42))
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		seed := rng.Int63()
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			local := rand.New(rand.NewSource(seed))
			for i := 0; i < 50; i++ {
				course := courses[local.Intn(len(courses))].Code
				if local.Intn(2) == 0 {
					_, _ = svc.Submit(ctx, course, students[local.Intn(len(students))])
				} else {
					_, _ = svc.AllocateNext(ctx, course)
				}
			}
		}(seed)
	}
	wg.Wait()

	for _, c := range courses {
		got, err := repo.Find(ctx, c.Code)
		require.NoError(t, err)
		assert.LessOrEqual(t, got.EnrolledCount, got.Capacity, "course %s overshot", c.Code)
		assert.GreaterOrEqual(t, got.EnrolledCount, 0)
	}
}

type fullOnIncrementCatalog struct {
	*repository.CourseRepository
	failNext bool
}

func (c *fullOnIncrementCatalog) IncrementOccupancy(ctx context.Context, code string) error {
	if c.failNext {
		c.failNext = false
		return appErrors.ErrCourseFull
	}
	return c.CourseRepository.IncrementOccupancy(ctx, code)
}

func TestAdmissionRollbackOnLostSeat(t *testing.T) {
	repo := repository.NewCourseRepository()
	require.NoError(t, repo.Create(context.Background(), models.Course{Code: "CS101", Capacity: 1}))
	catalog := &fullOnIncrementCatalog{CourseRepository: repo, failNext: true}
	dir := &stubDirectory{known: map[string]bool{"a": true}}
	ledger := &stubLedger{cleared: map[string]bool{"a": true}}
	svc := NewAdmissionService(catalog, dir, ledger, nil, nil, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Submit(ctx, "CS101", "a")
	require.NoError(t, err)

	res, err := svc.AllocateNext(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, models.AllocationCourseFull, res.Status)

	// The rolled-back request is still head of the queue and still PENDING.
	entries, err := svc.PeekWaitlist(ctx, "CS101")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].StudentID)
	assert.Equal(t, models.RequestStatusPending, entries[0].Status)

	res, err = svc.AllocateNext(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, models.AllocationGranted, res.Status)
}

func TestAdmissionAuditRecorded(t *testing.T) {
	repo := repository.NewCourseRepository()
	require.NoError(t, repo.Create(context.Background(), models.Course{Code: "CS101", Capacity: 1}))
	dir := &stubDirectory{known: map[string]bool{"a": true}}
	ledger := &stubLedger{cleared: map[string]bool{"a": true}}
	recorder := &stubRecorder{}
	svc := NewAdmissionService(repo, dir, ledger, recorder, nil, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Submit(ctx, "CS101", "a")
	require.NoError(t, err)
	_, err = svc.AllocateNext(ctx, "CS101")
	require.NoError(t, err)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, "CS101", recorder.entries[0].CourseCode)
	assert.Equal(t, "a", recorder.entries[0].StudentID)
	assert.Equal(t, models.AllocationGranted, recorder.entries[0].Outcome)
	assert.NotEmpty(t, recorder.entries[0].ID)
}

func TestAdmissionSnapshotRestore(t *testing.T) {
	svc, _, _ := newAdmissionFixture(t,
		[]models.Course{{Code: "CS101", Capacity: 1}},
		[]string{"a", "b"}, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "CS101", "a")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "CS101", "b")
	require.NoError(t, err)

	res, err := svc.AllocateNext(ctx, "CS101")
	require.NoError(t, err)
	require.Equal(t, models.AllocationFeeNotCleared, res.Status)

	snaps := svc.Snapshot()
	require.Len(t, snaps, 1)
	assert.Equal(t, "CS101", snaps[0].CourseCode)
	require.Len(t, snaps[0].Requests, 2)

	restored, _, _ := newAdmissionFixture(t,
		[]models.Course{{Code: "CS101", Capacity: 1}},
		[]string{"a", "b", "c"}, nil)
	restored.Restore(snaps)

	entries, err := restored.PeekWaitlist(ctx, "CS101")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].StudentID)
	assert.Equal(t, models.RequestStatusSkipped, entries[0].Status)
	assert.Equal(t, "b", entries[1].StudentID)

	// Sequence continues past the restored requests.
	out, err := restored.Submit(ctx, "CS101", "c")
	require.NoError(t, err)
	assert.Equal(t, 3, out.Position)
}
