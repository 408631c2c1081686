package ecs

// Event is a generic world event payload.
type Event struct {
	Type string
	Data any
}

// Event types emitted by the weld and drag subsystems. External
// collaborators (UI, spawners) drain these each step.
const (
	EventWelded   = "welded"
	EventUnwelded = "unwelded"
	EventGrabbed  = "grabbed"
	EventReleased = "released"
)

// WeldEvent is emitted when weld-group membership changes.
type WeldEvent struct {
	A Entity
	B Entity // zero for unweld events
}

// DragEvent is emitted on drag lifecycle transitions.
type DragEvent struct {
	Entity Entity
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
