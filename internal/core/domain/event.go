package domain

import "time"

// StartDateLayout is the wire format for event start dates.
const StartDateLayout = "2006-01-02 15:04:05"

// Event is a time-bounded catalog entry owned by exactly one host.
type Event struct {
	ID        int64
	HostID    int64
	Name      string
	StartDate time.Time
}

// EventWithAttendance is the host view of an event.
type EventWithAttendance struct {
	Event
	AttendeeCount int64
}
