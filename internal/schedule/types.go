package schedule

import "time"

// Activity types with special meaning for priority scoring.
const (
	ActivityHealthcare = "healthcare"
	ActivityVisits     = "visits"
)

// Sources record where an entry came from.
const (
	SourceManual   = "manual"
	SourceImported = "imported"
)

// Occupant is the minimal occupant view the core needs.
type Occupant struct {
	ID             string  `json:"id"`
	HomeLocationID *string `json:"home_location_id,omitempty"`
}

// Home returns the home location ID, or "" when none is set.
func (o Occupant) Home() string {
	if o.HomeLocationID == nil {
		return ""
	}
	return *o.HomeLocationID
}

// Entry places an occupant at a location for a time window on one weekday.
type Entry struct {
	ID            string  `json:"id"`
	OccupantID    string  `json:"occupant_id"`
	LocationID    string  `json:"location_id"`
	DayOfWeek     int     `json:"day_of_week"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	ActivityType  string  `json:"activity_type"`
	IsRecurring   bool    `json:"is_recurring"`
	EffectiveDate *string `json:"effective_date,omitempty"`
	Source        string  `json:"source"`
}

// Slot is a point in the weekly schedule. Date may be empty, in which case
// one-off entries match on weekday alone.
type Slot struct {
	DayOfWeek int    `json:"day_of_week"`
	Clock     string `json:"time"`
	Date      string `json:"date,omitempty"`
}

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

// DayOfWeek converts a time.Weekday (Sunday = 0) to Monday = 0 numbering.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// SlotAt returns the Slot for t in t's own location.
func SlotAt(t time.Time) Slot {
	return Slot{
		DayOfWeek: DayOfWeek(t),
		Clock:     t.Format(clockLayout),
		Date:      t.Format(dateLayout),
	}
}

// ActiveAt reports whether the entry covers slot:
// same weekday, StartTime <= clock < EndTime, and for one-off entries with
// an effective date, the same calendar date.
func (e *Entry) ActiveAt(s Slot) bool {
	if e.DayOfWeek != s.DayOfWeek {
		return false
	}
	if !(e.StartTime <= s.Clock && s.Clock < e.EndTime) {
		return false
	}
	return e.appliesOn(s.Date)
}

// appliesOn reports whether the entry applies on date ("" matches any).
func (e *Entry) appliesOn(date string) bool {
	if e.IsRecurring || e.EffectiveDate == nil || *e.EffectiveDate == "" || date == "" {
		return true
	}
	return *e.EffectiveDate == date
}

// LaterToday reports whether the entry starts strictly after slot on the
// same day.
func (e *Entry) LaterToday(s Slot) bool {
	return e.DayOfWeek == s.DayOfWeek && e.StartTime > s.Clock && e.appliesOn(s.Date)
}

// MinutesUntilStart returns the whole minutes from slot's clock to the
// entry's start. Unparsable times yield ok = false.
func (e *Entry) MinutesUntilStart(s Slot) (minutes int, ok bool) {
	start, err := time.Parse(clockLayout, e.StartTime)
	if err != nil {
		return 0, false
	}
	now, err := time.Parse(clockLayout, s.Clock)
	if err != nil {
		return 0, false
	}
	return int(start.Sub(now) / time.Minute), true
}
