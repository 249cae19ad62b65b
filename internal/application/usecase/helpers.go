package usecase

import (
	"fmt"
	"time"

	"github.com/jhoicas/erp-api/internal/domain"
)

const dateLayout = "2006-01-02"

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseDate interpreta YYYY-MM-DD; con endOfDay devuelve el último instante de ese día.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q, formato esperado %s", domain.ErrInvalidInput, s, dateLayout)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
