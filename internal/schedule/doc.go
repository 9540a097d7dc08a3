// Package schedule holds occupants and their weekly or one-off schedule
// entries, the input to occupancy resolution.
//
// Weekdays are numbered Monday = 0 through Sunday = 6. Times are "HH:MM"
// strings compared lexicographically; an entry covers [StartTime, EndTime)
// on a single day and never spans midnight. A [Slot] captures the weekday,
// clock and calendar date of a query timestamp.
//
// The package only validates on the write path (CreateEntry). Readers trust
// the stored rows and never detect or repair overlaps.
package schedule
