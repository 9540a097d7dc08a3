package schedule

import (
	"errors"
	"testing"
)

func TestValidateEntry(t *testing.T) {
	valid := func() *Entry {
		return &Entry{OccupantID: "o1", LocationID: "gym", DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"}
	}

	tests := []struct {
		name    string
		mutate  func(e *Entry)
		wantErr bool
	}{
		{"valid", func(*Entry) {}, false},
		{"missing occupant", func(e *Entry) { e.OccupantID = "" }, true},
		{"missing location", func(e *Entry) { e.LocationID = "" }, true},
		{"day too high", func(e *Entry) { e.DayOfWeek = 7 }, true},
		{"negative day", func(e *Entry) { e.DayOfWeek = -1 }, true},
		{"unpadded time", func(e *Entry) { e.StartTime = "9:00" }, true},
		{"garbage time", func(e *Entry) { e.EndTime = "25:99" }, true},
		{"start equals end", func(e *Entry) { e.EndTime = "09:00" }, true},
		{"spans midnight", func(e *Entry) { e.StartTime, e.EndTime = "23:00", "01:00" }, true},
		{"bad effective date", func(e *Entry) { e.EffectiveDate = strPtr("04/03/2026") }, true},
		{"good effective date", func(e *Entry) { e.EffectiveDate = strPtr("2026-03-04") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(e)
			err := ValidateEntry(e)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEntry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("error %v does not wrap ErrInvalidEntry", err)
			}
		})
	}
}

func TestCheckOverlap(t *testing.T) {
	existing := []Entry{
		{ID: "e1", OccupantID: "o1", DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00", IsRecurring: true},
		{ID: "e2", OccupantID: "o1", DayOfWeek: 0, StartTime: "14:00", EndTime: "15:00", EffectiveDate: strPtr("2026-03-02")},
	}

	tests := []struct {
		name      string
		candidate Entry
		wantErr   bool
	}{
		{"back to back is fine", Entry{OccupantID: "o1", DayOfWeek: 0, StartTime: "10:00", EndTime: "11:00"}, false},
		{"overlaps start", Entry{OccupantID: "o1", DayOfWeek: 0, StartTime: "08:30", EndTime: "09:01"}, true},
		{"contained", Entry{OccupantID: "o1", DayOfWeek: 0, StartTime: "09:15", EndTime: "09:45"}, true},
		{"other occupant", Entry{OccupantID: "o2", DayOfWeek: 0, StartTime: "09:15", EndTime: "09:45"}, false},
		{"other day", Entry{OccupantID: "o1", DayOfWeek: 1, StartTime: "09:15", EndTime: "09:45"}, false},
		{"one-offs on different dates", Entry{OccupantID: "o1", DayOfWeek: 0, StartTime: "14:30", EndTime: "15:30", EffectiveDate: strPtr("2026-03-09")}, false},
		{"recurring hits one-off", Entry{OccupantID: "o1", DayOfWeek: 0, StartTime: "14:30", EndTime: "15:30", IsRecurring: true}, true},
		{"same id is an update", Entry{ID: "e1", OccupantID: "o1", DayOfWeek: 0, StartTime: "09:00", EndTime: "09:30"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOverlap(&tt.candidate, existing)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckOverlap() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrOverlap) {
				t.Errorf("error %v does not wrap ErrOverlap", err)
			}
		})
	}
}
