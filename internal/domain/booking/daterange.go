package booking

import (
	"fmt"
	"time"

	"github.com/shravastee-thakur/stayease/internal/domain"
)

// DateLayout is the wire format for stay dates.
const DateLayout = "2006-01-02"

// DateRange is a half-open interval of calendar nights: [Start, End).
// A guest checking out on day N frees the room for a check-in on day N.
// Construction guarantees Start < End, so overlap checks never see a
// zero-length or inverted range.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange builds a validated range. Times are truncated to date-only
// precision in UTC. Returns an invalid-range error unless start < end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	s := truncateToDate(start)
	e := truncateToDate(end)
	if !s.Before(e) {
		return DateRange{}, domain.NewInvalidRangeError("start date must be before end date")
	}
	return DateRange{start: s, end: e}, nil
}

// ParseDateRange builds a range from YYYY-MM-DD strings.
func ParseDateRange(startStr, endStr string) (DateRange, error) {
	start, err := time.Parse(DateLayout, startStr)
	if err != nil {
		return DateRange{}, domain.NewValidationError(fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", startStr))
	}
	end, err := time.Parse(DateLayout, endStr)
	if err != nil {
		return DateRange{}, domain.NewValidationError(fmt.Sprintf("invalid end date %q, expected YYYY-MM-DD", endStr))
	}
	return NewDateRange(start, end)
}

// ParseDate parses a single YYYY-MM-DD string into a UTC date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
	}
	return t, nil
}

// Start returns the check-in date (inclusive).
func (r DateRange) Start() time.Time { return r.start }

// End returns the check-out date (exclusive).
func (r DateRange) End() time.Time { return r.end }

// Overlaps reports whether two ranges share at least one night.
// Boundaries are exclusive on both sides: a stay ending on day N does not
// conflict with a stay starting on day N.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && r.end.After(other.start)
}

// Nights returns the number of nights covered by the range.
func (r DateRange) Nights() int {
	return int(r.end.Sub(r.start).Hours() / 24)
}

// String renders the range for logging.
func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.start.Format(DateLayout), r.end.Format(DateLayout))
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
