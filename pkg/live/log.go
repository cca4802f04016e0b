package live

// LogCapacity bounds the recent activity log.
const LogCapacity = 20

// Log is a bounded FIFO of recent events, newest first.
type Log struct {
	capacity int
	items    []Event
}

// NewLog returns a log holding at most capacity events (LogCapacity when
// capacity is not positive).
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = LogCapacity
	}
	return &Log{capacity: capacity}
}

// Add prepends ev, evicting the oldest entries beyond capacity.
func (l *Log) Add(ev Event) {
	l.items = append(l.items, Event{})
	copy(l.items[1:], l.items)
	l.items[0] = ev
	if len(l.items) > l.capacity {
		l.items = l.items[:l.capacity]
	}
}

// Items returns a copy of the log, newest first.
func (l *Log) Items() []Event {
	return append([]Event(nil), l.items...)
}

// Len returns the number of logged events.
func (l *Log) Len() int {
	return len(l.items)
}
