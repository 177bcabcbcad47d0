package park

import (
	"container/heap"

	"github.com/parksim/parksim/engine"
)

// pendingEntry is one not-yet-arrived customer in the dispatcher's
// heap, tagged with its insertion sequence for deterministic ordering
// among equal arrival times. Both fields are exported so the heap
// itself can be the serialized representation: encoding it directly,
// array order and seq included, is what makes a decoded dispatcher's
// pop order an exact match for the original's, including among
// customers that share an arrival_time.
type pendingEntry struct {
	Config CustomerConfig `json:"config"`
	Seq    int            `json:"seq"`
}

// pendingHeap orders customer configs by ArrivalTime ascending, ties
// broken by insertion order — the same shape as engine's eventQueue,
// applied here to future customer arrivals instead of engine events.
type pendingHeap []pendingEntry

func (h pendingHeap) Len() int { return len(h) }
func (h pendingHeap) Less(i, j int) bool {
	if h[i].Config.ArrivalTime != h[j].Config.ArrivalTime {
		return h[i].Config.ArrivalTime < h[j].Config.ArrivalTime
	}
	return h[i].Seq < h[j].Seq
}
func (h pendingHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *pendingHeap) Push(x any)   { *h = append(*h, x.(pendingEntry)) }
func (h *pendingHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// CustomerDispatcher injects customers into the park at their
// configured arrival times, one Tick at a time, holding a min-heap of
// not-yet-arrived customer configs keyed by arrival_time. Pending and
// NextSeq are exported so the snapshot codec can serialize the heap
// verbatim rather than reconstructing it from a lossy view.
type CustomerDispatcher struct {
	Carousels map[CarouselID]engine.Address `json:"carousels"`
	Pending   pendingHeap                   `json:"pending"`
	NextSeq   int                           `json:"next_seq"`
}

// NewCustomerDispatcher builds a dispatcher over the given carousel
// address table and the full list of customers it will inject over
// the run.
func NewCustomerDispatcher(carousels map[CarouselID]engine.Address, customers []CustomerConfig) *CustomerDispatcher {
	d := &CustomerDispatcher{Carousels: carousels}
	heap.Init(&d.Pending)
	for _, cfg := range customers {
		d.push(cfg)
	}
	return d
}

// restoreHeapInvariant re-establishes the heap invariant over Pending
// after a JSON decode. Pending was serialized in valid heap order, so
// this is a no-op against a well-formed snapshot; it only matters
// against a hand-edited one.
func (d *CustomerDispatcher) restoreHeapInvariant() {
	heap.Init(&d.Pending)
}

func (d *CustomerDispatcher) push(cfg CustomerConfig) {
	heap.Push(&d.Pending, pendingEntry{Config: cfg, Seq: d.NextSeq})
	d.NextSeq++
}

// Start schedules no effects besides a Tick to self at the first
// customer's arrival delay; a dispatcher with no customers produces no
// effects at all.
func (d *CustomerDispatcher) Start(info engine.StartInfo) *engine.Effector {
	if len(d.Pending) == 0 {
		return nil
	}
	eff := engine.NewEffector()
	first := d.Pending[0].Config.ArrivalTime
	eff.ScheduleInToSelf(first-info.Now, TickMsg{})
	return eff
}

// Handle injects every customer whose arrival_time matches now, then
// reschedules the next Tick at the new heap top, maintaining the
// invariant that exactly one Tick is ever pending while the heap is
// non-empty.
func (d *CustomerDispatcher) Handle(from engine.Address, now engine.Time, msg engine.Message) *engine.Effector {
	dispatcherMsg, ok := asDispatcherMessage(msg)
	if !ok {
		return nil
	}
	if _, ok := dispatcherMsg.(TickMsg); !ok {
		return nil
	}

	eff := engine.NewEffector()
	for len(d.Pending) > 0 && d.Pending[0].Config.ArrivalTime == now {
		entry := heap.Pop(&d.Pending).(pendingEntry)
		eff.InstantiateNewComponent(d.newCustomer(entry.Config))
	}

	if len(d.Pending) > 0 {
		eff.ScheduleInToSelf(d.Pending[0].Config.ArrivalTime-now, TickMsg{})
	}
	return eff
}

func (d *CustomerDispatcher) newCustomer(cfg CustomerConfig) *Customer {
	visits := make([]CarouselVisit, 0, len(cfg.Carousels))
	for _, id := range cfg.Carousels {
		addr, known := d.Carousels[id]
		if !known {
			panic("park: dispatcher holds customer referencing unknown carousel " + string(id))
		}
		visits = append(visits, CarouselVisit{ID: id, Address: addr})
	}
	return NewCustomer(cfg, visits)
}
