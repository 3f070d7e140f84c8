package feedback

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nutriswap/backend/internal/domain"
	"github.com/nutriswap/backend/internal/logger"
)

// MemorySink keeps nutrition feedback in memory for the life of the process
type MemorySink struct {
	mu      sync.Mutex
	entries []domain.NutritionFeedback
	log     *slog.Logger
	now     func() time.Time
}

// NewMemorySink creates an empty in-memory feedback sink
func NewMemorySink(log *slog.Logger) *MemorySink {
	return &MemorySink{
		log: logger.Component(log, "feedback"),
		now: time.Now,
	}
}

// Submit stores the feedback, stamping it when no timestamp was given
func (s *MemorySink) Submit(ctx context.Context, fb domain.NutritionFeedback) error {
	if fb.FoodName == "" {
		return &domain.ValidationError{Field: "foodName", Reason: "is required"}
	}
	if fb.ReportedCalories < 0 || fb.ActualCalories < 0 {
		return &domain.ValidationError{Field: "calories", Reason: "must not be negative"}
	}
	if fb.Timestamp.IsZero() {
		fb.Timestamp = s.now()
	}

	s.mu.Lock()
	s.entries = append(s.entries, fb)
	s.mu.Unlock()

	s.log.Info("feedback received",
		"food", fb.FoodName,
		"reportedCalories", fb.ReportedCalories,
		"actualCalories", fb.ActualCalories)

	return nil
}

// Entries returns a copy of everything submitted so far
func (s *MemorySink) Entries() []domain.NutritionFeedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.NutritionFeedback(nil), s.entries...)
}
