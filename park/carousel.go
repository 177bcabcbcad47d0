package park

import (
	"fmt"

	"github.com/parksim/parksim/engine"
)

// CarouselID identifies a carousel, unique across the configuration.
type CarouselID string

// CarouselConfig groups a carousel's capacity and timing parameters.
// min_capacity ∈ [1, capacity]; run_time, wait_time, extend_time ≥ 1 —
// enforced by ParkConfig.Validate, never by the carousel itself.
type CarouselConfig struct {
	ID         CarouselID  `json:"id"`
	MinCapacity int        `json:"min_capacity"`
	Capacity    int        `json:"capacity"`
	RunTime     engine.Time `json:"run_time"`
	WaitTime    engine.Time `json:"wait_time"`
	ExtendTime  engine.Time `json:"extend_time"`
}

// CarouselModeKind enumerates the five-state ride lifecycle.
type CarouselModeKind int

const (
	ModeIdle CarouselModeKind = iota
	ModeStandardWaiting
	ModeExtendedWaiting
	ModeStarting
	ModeRunning
)

// CarouselMode is a flattened representation of the mode union
// mode ∈ {Idle(next_mode), StandardWaiting, ExtendedWaiting,
// Starting(t0), Running}. NextMode is meaningful only when Kind is
// ModeIdle; StartTime is meaningful only when Kind is ModeStarting.
type CarouselMode struct {
	Kind      CarouselModeKind `json:"kind"`
	NextMode  CarouselModeKind `json:"next_mode,omitempty"`
	StartTime engine.Time      `json:"start_time,omitempty"`
}

// QueueEntry is one customer's record in an inner, outer, or on-ride
// queue.
type QueueEntry struct {
	CustomerAddress engine.Address `json:"customer_address"`
	ArrivalTime     engine.Time    `json:"arrival_time"`
}

// Carousel is the five-state ride state machine: the densest component
// in the system. It owns an inner queue bounded by Capacity, an
// unbounded outer overflow queue, and a cycle counter that lets it
// reject wait-timer events superseded by an early ride start.
type Carousel struct {
	Config CarouselConfig `json:"config"`
	Mode   CarouselMode   `json:"mode"`

	InnerQueue []QueueEntry `json:"inner_queue"`
	OuterQueue []QueueEntry `json:"outer_queue"`
	OnRide     []QueueEntry `json:"on_ride"`

	Cycle uint32 `json:"cycle"`

	Rides                int         `json:"rides"`
	AvgCustomersOnRide   float64     `json:"avg_customers_on_ride"`
	MaxCustomersQueueLen int         `json:"max_customers_queue_len"`
	IdleTime             engine.Time `json:"idle_time"`
	IdleStarted          engine.Time `json:"idle_started"`
}

// NewCarousel returns a carousel in its initial idle-toward-standard-
// wait mode, ready to register with an engine.
func NewCarousel(cfg CarouselConfig) *Carousel {
	return &Carousel{
		Config: cfg,
		Mode:   CarouselMode{Kind: ModeIdle, NextMode: ModeStandardWaiting},
	}
}

// Start produces no effects; a carousel is purely reactive until its
// first customer arrives.
func (c *Carousel) Start(info engine.StartInfo) *engine.Effector {
	return nil
}

// Handle implements the carousel's full behavior at every message
// delivery: metric refresh, intake, then dispatch on mode x message.
func (c *Carousel) Handle(from engine.Address, now engine.Time, msg engine.Message) *engine.Effector {
	carouselMsg, ok := asCarouselMessage(msg)
	if !ok {
		return nil
	}

	// 1. Metric refresh. Runs before intake, so it records the queue
	// length left by the previous handler entry, not the arrival being
	// processed right now; that arrival is folded in once some later
	// event refreshes again.
	if qlen := len(c.InnerQueue) + len(c.OuterQueue); qlen > c.MaxCustomersQueueLen {
		c.MaxCustomersQueueLen = qlen
	}

	// 2. Intake.
	if _, arrived := carouselMsg.(CustomerArrivedMsg); arrived {
		c.intake(from, now)
	}

	// 3. Dispatch on mode x message.
	eff := engine.NewEffector()
	switch c.Mode.Kind {
	case ModeIdle:
		if _, arrived := carouselMsg.(CustomerArrivedMsg); arrived {
			c.handleIdleArrival(now, eff)
		}
	case ModeStandardWaiting:
		if m, ok := carouselMsg.(StandardWaitEndedMsg); ok {
			c.handleStandardWaitEnded(now, m, eff)
		}
	case ModeExtendedWaiting:
		switch m := carouselMsg.(type) {
		case CustomerArrivedMsg:
			if len(c.InnerQueue) >= c.Config.MinCapacity {
				c.startRide(now, eff)
			}
		case ExtendedWaitEndedMsg:
			if m.Cycle == c.Cycle {
				c.startRide(now, eff)
			}
		}
	case ModeRunning:
		if _, ok := carouselMsg.(EndRideMsg); ok {
			c.endRide(now, eff)
		}
	case ModeStarting:
		if _, ok := carouselMsg.(StartMsg); ok {
			c.doRide(now, eff)
		}
	}
	return eff
}

// intake applies the queue-placement rule from the handler preamble:
// a customer goes to outer if the carousel committed to starting at an
// earlier tick (Starting(t0) with t0 strictly in the past) or if
// the inner queue is already full; otherwise to inner.
func (c *Carousel) intake(customer engine.Address, now engine.Time) {
	entry := QueueEntry{CustomerAddress: customer, ArrivalTime: now}
	pastStartingDecision := c.Mode.Kind == ModeStarting && c.Mode.StartTime != now
	if pastStartingDecision {
		c.OuterQueue = append(c.OuterQueue, entry)
		return
	}
	if len(c.InnerQueue) < c.Config.Capacity {
		c.InnerQueue = append(c.InnerQueue, entry)
	} else {
		c.OuterQueue = append(c.OuterQueue, entry)
	}
}

func (c *Carousel) handleIdleArrival(now engine.Time, eff *engine.Effector) {
	switch c.Mode.NextMode {
	case ModeStandardWaiting:
		c.IdleTime += now - c.IdleStarted
		c.startStandardWait(eff)
	case ModeExtendedWaiting:
		c.IdleTime += now - c.IdleStarted
		c.startExtendedWait(eff)
	default:
		panic(fmt.Sprintf("park: carousel %s idle with invalid next mode %v", c.Config.ID, c.Mode.NextMode))
	}
}

func (c *Carousel) handleStandardWaitEnded(now engine.Time, m StandardWaitEndedMsg, eff *engine.Effector) {
	if m.Cycle != c.Cycle {
		return // stale
	}
	switch {
	case len(c.InnerQueue) >= c.Config.MinCapacity:
		c.startRide(now, eff)
	case len(c.InnerQueue) == 0:
		c.IdleStarted = now
		c.Mode = CarouselMode{Kind: ModeIdle, NextMode: ModeExtendedWaiting}
	default:
		c.startExtendedWait(eff)
	}
}

// startRide transitions into Starting(t), bumps the cycle so pending
// wait timers from the superseded cycle read as stale, and defers
// Start one tick so the carousel still accepts CustomerArrived at the
// same simulated time the decision to start was made.
func (c *Carousel) startRide(t engine.Time, eff *engine.Effector) {
	c.Mode = CarouselMode{Kind: ModeStarting, StartTime: t}
	c.Cycle++
	eff.ScheduleInToSelf(1, StartMsg{})
}

// doRide boards the inner queue, refills it from the overflow queue,
// and schedules the ride's end.
func (c *Carousel) doRide(now engine.Time, eff *engine.Effector) {
	c.Mode = CarouselMode{Kind: ModeRunning}
	for _, entry := range c.InnerQueue {
		eff.ScheduleImmediately(entry.CustomerAddress, RideStartedMsg{CarouselID: c.Config.ID})
	}
	c.OnRide = c.InnerQueue
	c.InnerQueue = nil

	refill := min(c.Config.Capacity, len(c.OuterQueue))
	c.InnerQueue = append(c.InnerQueue, c.OuterQueue[:refill]...)
	c.OuterQueue = c.OuterQueue[refill:]

	eff.ScheduleInToSelf(c.Config.RunTime-1, EndRideMsg{})
}

// endRide closes out a ride: updates the running mean occupancy,
// notifies every on-ride customer, and returns to standard waiting.
func (c *Carousel) endRide(now engine.Time, eff *engine.Effector) {
	c.AvgCustomersOnRide = (float64(c.Rides)*c.AvgCustomersOnRide + float64(len(c.OnRide))) / float64(c.Rides+1)
	c.Rides++
	for _, entry := range c.OnRide {
		eff.ScheduleImmediately(entry.CustomerAddress, RideEndedMsg{CarouselID: c.Config.ID})
	}
	c.OnRide = nil
	c.startStandardWait(eff)
}

func (c *Carousel) startStandardWait(eff *engine.Effector) {
	c.Mode = CarouselMode{Kind: ModeStandardWaiting}
	eff.ScheduleInToSelf(c.Config.WaitTime, StandardWaitEndedMsg{Cycle: c.Cycle})
}

func (c *Carousel) startExtendedWait(eff *engine.Effector) {
	c.Mode = CarouselMode{Kind: ModeExtendedWaiting}
	eff.ScheduleInToSelf(c.Config.ExtendTime, ExtendedWaitEndedMsg{Cycle: c.Cycle})
}
