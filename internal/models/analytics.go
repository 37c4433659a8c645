package models

import "time"

// PerformanceRecord is one recorded score for a student in a course.
type PerformanceRecord struct {
	StudentID  string  `json:"studentId"`
	CourseCode string  `json:"courseCode"`
	Score      float64 `json:"score"`
}

// AnalyticsOverview aggregates registry-wide counts and occupancy.
type AnalyticsOverview struct {
	Students       int       `json:"students"`
	Courses        int       `json:"courses"`
	SeatsGranted   int       `json:"seatsGranted"`
	SeatsCapacity  int       `json:"seatsCapacity"`
	WaitlistDepth  int       `json:"waitlistDepth"`
	FeesCollected  float64   `json:"feesCollected"`
	OccupancyRatio float64   `json:"occupancyRatio"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

// TopPerformer is one row of the top-performers ranking.
type TopPerformer struct {
	StudentID    string  `json:"studentId"`
	Name         string  `json:"name"`
	AverageScore float64 `json:"averageScore"`
	Records      int     `json:"records"`
}

// CourseAverage is one point of the per-course averages graph.
type CourseAverage struct {
	CourseCode   string  `json:"courseCode"`
	Title        string  `json:"title"`
	AverageScore float64 `json:"averageScore"`
	Enrolled     int     `json:"enrolled"`
	Waitlisted   int     `json:"waitlisted"`
}
