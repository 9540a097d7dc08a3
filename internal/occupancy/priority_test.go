package occupancy

import (
	"testing"

	"github.com/nerrad567/rollcall-core/internal/infrastructure/config"
	"github.com/nerrad567/rollcall-core/internal/schedule"
)

func TestPriorityPolicy_Score(t *testing.T) {
	p := DefaultPriorityPolicy()
	slot := schedule.Slot{DayOfWeek: 0, Clock: "10:00"}

	appt := func(start, activity string) *schedule.Entry {
		return &schedule.Entry{DayOfWeek: 0, StartTime: start, EndTime: "23:00", ActivityType: activity}
	}

	tests := []struct {
		name string
		next *schedule.Entry
		want int
	}{
		{"no appointment", nil, 50},
		{"under 15 minutes", appt("10:14", "education"), 100},
		{"exactly 15 minutes falls to next band", appt("10:15", "education"), 90},
		{"under 30 with visits", appt("10:20", "visits"), 95},
		{"under 60", appt("10:45", "gym"), 70},
		{"over an hour", appt("11:30", "gym"), 50},
		{"healthcare far away", appt("13:00", "healthcare"), 60},
		{"capped at max", appt("10:05", "healthcare"), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Score(tt.next, slot); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewPriorityPolicy_FromConfig(t *testing.T) {
	p := NewPriorityPolicy(config.PriorityConfig{
		Base:          10,
		Max:           30,
		Bands:         []config.PriorityBand{{WithinMinutes: 5, Bonus: 25}},
		ActivityBonus: map[string]int{"court": 3},
	})
	slot := schedule.Slot{DayOfWeek: 0, Clock: "10:00"}

	if got := p.Score(&schedule.Entry{StartTime: "10:02", ActivityType: "court"}, slot); got != 30 {
		t.Errorf("Score() = %d, want 30 (10+25+3 capped)", got)
	}
	if got := p.Score(&schedule.Entry{StartTime: "10:30", ActivityType: "court"}, slot); got != 13 {
		t.Errorf("Score() = %d, want 13", got)
	}
}
