// Package scheduler implements the tagged-event timing queue the GPU's
// asynchronous engines (memory-fill, display-transfer, command-list DMA,
// vblank) post completion callbacks to, per spec.md §9's redesign note:
// a min-heap of (fire_time, event_kind, param) rather than a scatter of
// ad hoc callback closures.
package scheduler

import "container/heap"

// Kind tags what an event means to the component draining it.
type Kind int

const (
	KindMemoryFillDone Kind = iota
	KindTransferDone
	KindCommandListDone
	KindVBlank
)

// Event is one scheduled completion; Param carries an engine index or
// other small payload the handler needs to identify which instance
// completed (e.g. which of the two memory-fill engines).
type Event struct {
	Time  uint64
	Kind  Kind
	Param uint64

	index int // heap bookkeeping
}

type eventHeap []*Event

func (h eventHeap) Len() int            { return len(h) }
func (h eventHeap) Less(i, j int) bool  { return h[i].Time < h[j].Time }
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index, h[j].index = i, j }
func (h *eventHeap) Push(x interface{}) {
	e := x.(*Event)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Queue is a time-ordered event queue. Not safe for concurrent use: the
// core loop is single-threaded (spec.md §5).
type Queue struct {
	now   uint64
	heap  eventHeap
}

// New returns an empty queue with the clock at time 0.
func New() *Queue {
	q := &Queue{}
	heap.Init(&q.heap)
	return q
}

// Now returns the queue's current time.
func (q *Queue) Now() uint64 { return q.now }

// Post schedules an event to fire delay ticks from now.
func (q *Queue) Post(kind Kind, param uint64, delay uint64) {
	heap.Push(&q.heap, &Event{Time: q.now + delay, Kind: kind, Param: param})
}

// Advance moves the clock forward by delta ticks without draining.
func (q *Queue) Advance(delta uint64) {
	q.now += delta
}

// NextEventTime reports the fire time of the earliest pending event and
// whether one exists.
func (q *Queue) NextEventTime() (uint64, bool) {
	if len(q.heap) == 0 {
		return 0, false
	}
	return q.heap[0].Time, true
}

// Drain advances the clock to the time of every event at or before
// upTo, popping and returning them in fire order, earliest first.
func (q *Queue) Drain(upTo uint64) []Event {
	var fired []Event
	for len(q.heap) > 0 && q.heap[0].Time <= upTo {
		e := heap.Pop(&q.heap).(*Event)
		fired = append(fired, *e)
	}
	if upTo > q.now {
		q.now = upTo
	}
	return fired
}

// Reset clears all pending events and resets the clock (spec.md §5:
// "a reset clears all pending events").
func (q *Queue) Reset() {
	q.now = 0
	q.heap = q.heap[:0]
}
