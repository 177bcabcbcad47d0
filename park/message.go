// Package park layers the amusement-park domain — carousels, customers,
// and a customer dispatcher — on top of the generic engine package,
// the same way the teacher's sim/cluster package layers multi-instance
// orchestration on top of the teacher's bare sim package.
package park

import "github.com/parksim/parksim/engine"

// Three disjoint message sub-enums, one per component kind, dispatched
// through the same engine.Message envelope. A component's Handle
// method type-asserts its own marker interface first; a message whose
// tag doesn't match the recipient's kind fails that assertion and is
// silently ignored, realizing the "Park envelope" total projection
// from a tagged union over dynamic dispatch.
type (
	// DispatcherMessage is implemented by messages the dispatcher
	// understands.
	DispatcherMessage interface{ isDispatcherMessage() }
	// CustomerMessage is implemented by messages a customer
	// understands.
	CustomerMessage interface{ isCustomerMessage() }
	// CarouselMessage is implemented by messages a carousel
	// understands.
	CarouselMessage interface{ isCarouselMessage() }
)

// TickMsg drives the dispatcher's periodic check of its pending-arrival
// heap.
type TickMsg struct{}

func (TickMsg) isDispatcherMessage() {}

// CustomerArrivedMsg is sent by a customer to the carousel it is about
// to queue at. The sender address (From on the envelope) identifies the
// customer; no payload is needed.
type CustomerArrivedMsg struct{}

func (CustomerArrivedMsg) isCarouselMessage() {}

// StandardWaitEndedMsg fires wait_time ticks after start_standard_wait.
// Cycle embeds the carousel's cycle counter at schedule time so a stale
// timer (superseded by an early start_ride) can be recognized and
// ignored.
type StandardWaitEndedMsg struct{ Cycle uint32 }

func (StandardWaitEndedMsg) isCarouselMessage() {}

// ExtendedWaitEndedMsg fires extend_time ticks after start_extended_wait,
// guarded by Cycle the same way StandardWaitEndedMsg is.
type ExtendedWaitEndedMsg struct{ Cycle uint32 }

func (ExtendedWaitEndedMsg) isCarouselMessage() {}

// StartMsg fires one tick after start_ride, triggering do_ride.
type StartMsg struct{}

func (StartMsg) isCarouselMessage() {}

// EndRideMsg fires run_time-1 ticks after do_ride, triggering end_ride.
type EndRideMsg struct{}

func (EndRideMsg) isCarouselMessage() {}

// RideStartedMsg is sent to every customer moved into a ride's on-ride
// set the instant the ride begins running.
type RideStartedMsg struct{ CarouselID CarouselID }

func (RideStartedMsg) isCustomerMessage() {}

// RideEndedMsg is sent to every customer who was on the ride the
// instant it ends.
type RideEndedMsg struct{ CarouselID CarouselID }

func (RideEndedMsg) isCustomerMessage() {}

// asDispatcherMessage projects an opaque engine message down to the
// dispatcher's sub-enum, or reports false if the tag doesn't match.
func asDispatcherMessage(msg engine.Message) (DispatcherMessage, bool) {
	m, ok := msg.(DispatcherMessage)
	return m, ok
}

// asCustomerMessage projects an opaque engine message down to the
// customer's sub-enum, or reports false if the tag doesn't match.
func asCustomerMessage(msg engine.Message) (CustomerMessage, bool) {
	m, ok := msg.(CustomerMessage)
	return m, ok
}

// asCarouselMessage projects an opaque engine message down to the
// carousel's sub-enum, or reports false if the tag doesn't match.
func asCarouselMessage(msg engine.Message) (CarouselMessage, bool) {
	m, ok := msg.(CarouselMessage)
	return m, ok
}
