package engine

import "container/heap"

// eventQueue implements heap.Interface and orders events by timestamp,
// breaking ties by insertion sequence — the same shape as the
// teacher's EventHeap (sim/cluster/event_heap.go), minus the type-
// priority tier the teacher uses for its own event kinds (the park
// domain has no analogous cross-kind priority; FIFO-at-equal-time is
// the whole tie-break rule per spec).
type eventQueue struct {
	events []Event
}

func newEventQueue() *eventQueue {
	q := &eventQueue{events: make([]Event, 0)}
	heap.Init(q)
	return q
}

func (q *eventQueue) Len() int { return len(q.events) }

func (q *eventQueue) Less(i, j int) bool {
	ei, ej := q.events[i], q.events[j]
	if ei.Time != ej.Time {
		return ei.Time < ej.Time
	}
	return ei.seq < ej.seq
}

func (q *eventQueue) Swap(i, j int) { q.events[i], q.events[j] = q.events[j], q.events[i] }

func (q *eventQueue) Push(x any) {
	q.events = append(q.events, x.(Event))
}

func (q *eventQueue) Pop() any {
	old := q.events
	n := len(old)
	item := old[n-1]
	q.events = old[:n-1]
	return item
}

// schedule adds an event to the queue.
func (q *eventQueue) schedule(e Event) {
	heap.Push(q, e)
}

// peek returns the earliest-timestamped event without removing it, or
// false if the queue is empty.
func (q *eventQueue) peek() (Event, bool) {
	if q.Len() == 0 {
		return Event{}, false
	}
	return q.events[0], true
}

// popNext removes and returns the earliest-timestamped event.
func (q *eventQueue) popNext() Event {
	return heap.Pop(q).(Event)
}
