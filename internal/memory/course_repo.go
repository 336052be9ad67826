package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cwrk-planet/course-relay/internal/domain"

	"github.com/google/uuid"
)

// CourseRepository keeps courses in insertion order.
type CourseRepository struct {
	mu      sync.RWMutex
	courses []domain.Course
	index   map[string]int // ID -> position in courses
}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{index: make(map[string]int)}
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	if c == nil {
		return domain.ErrInvalidInput
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	r.index[c.ID] = len(r.courses)
	r.courses = append(r.courses, *c)
	r.mu.Unlock()

	return nil
}

func (r *CourseRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.courses)
}

// List returns up to limit courses following the cursor. A non-positive
// limit returns everything after the cursor.
func (r *CourseRepository) List(ctx context.Context, limit int, cursorStr string) ([]domain.Course, string, error) {
	cur, err := DecodeCursor(cursorStr)
	if err != nil {
		return nil, "", err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	start := 0
	if cur != nil {
		pos, ok := r.index[cur.ID]
		if !ok || !r.courses[pos].CreatedAt.Equal(cur.CreatedAt) {
			return nil, "", domain.ErrInvalidCursor
		}
		start = pos + 1
	}

	end := len(r.courses)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	out := make([]domain.Course, end-start)
	copy(out, r.courses[start:end])

	var next string
	if end < len(r.courses) && len(out) > 0 {
		last := out[len(out)-1]
		next, _ = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return out, next, nil
}
