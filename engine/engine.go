// Package engine implements the generic discrete-event core: a
// component registry, a time-ordered event queue, an effector-based
// side-effect protocol, and a deterministic tick loop. It knows
// nothing about carousels or customers — package park layers the park
// domain on top of this surface, the same way the teacher's sim
// package defines a bare simulation kernel that sim/cluster then
// orchestrates into multi-instance behavior.
package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Engine holds components, the time-ordered event queue, and drives
// the tick/run loop. The zero value is not ready for use; construct
// one with New.
type Engine struct {
	currentTime Time
	components  map[Address]Component
	order       []Address // registration order, for Start()
	queue       *eventQueue
	addrs       addressGenerator
	nextSeq     uint64
	started     bool
}

// New returns an empty, ready-to-use Engine.
func New() *Engine {
	return &Engine{
		components: make(map[Address]Component),
		queue:      newEventQueue(),
	}
}

// CurrentTime returns the engine's current simulated time.
func (e *Engine) CurrentTime() Time { return e.currentTime }

// HasEvents reports whether any event remains queued.
func (e *Engine) HasEvents() bool { return e.queue.Len() > 0 }

// RegisterComponent assigns a fresh address, stores the component, and
// returns the address. It does not call Start — callers that need the
// component live immediately should register it and apply its Start
// effector themselves (this is exactly what applyEffector does for
// components spawned mid-run).
func (e *Engine) RegisterComponent(c Component) Address {
	addr := e.addrs.nextAddress()
	e.components[addr] = c
	e.order = append(e.order, addr)
	return addr
}

// Component looks up a registered component by address.
func (e *Engine) Component(addr Address) (Component, bool) {
	c, ok := e.components[addr]
	return c, ok
}

// Addresses returns every currently-registered address in registration
// order, for callers (reporting, telemetry) that need to walk all live
// components.
func (e *Engine) Addresses() []Address {
	return append([]Address(nil), e.order...)
}

// Start calls Start on every currently-registered component in
// address (registration) order, applies each returned effector, then
// flushes any zero-delay startup events with one Tick call.
func (e *Engine) Start() {
	if e.started {
		return
	}
	e.started = true
	for _, addr := range e.order {
		c := e.components[addr]
		eff := c.Start(StartInfo{Self: addr, Now: e.currentTime})
		e.applyEffector(addr, eff)
	}
	if e.HasEvents() {
		if next, ok := e.queue.peek(); ok && next.Time == e.currentTime {
			e.Tick()
		}
	}
}

// Tick drains every event at the earliest queued timestamp, invoking
// Handle on each target in pop order, applying effectors between pops
// so same-timestamp cascades land in this same call. Returns the
// drained events for logging/telemetry. Returns nil if the queue was
// already empty.
func (e *Engine) Tick() []Event {
	if !e.HasEvents() {
		return nil
	}
	next, _ := e.queue.peek()
	e.currentTime = next.Time

	var drained []Event
	for {
		head, ok := e.queue.peek()
		if !ok || head.Time != e.currentTime {
			break
		}
		ev := e.queue.popNext()
		drained = append(drained, ev)

		target, known := e.components[ev.To]
		if !known {
			panic(fmt.Sprintf("engine: delivery to unknown address %d", ev.To))
		}
		eff := target.Handle(ev.From, e.currentTime, ev.Message)
		e.applyEffector(ev.To, eff)
		logrus.Debugf("tick %d: %d -> %d delivered", e.currentTime, ev.From, ev.To)
	}
	logrus.Infof("tick %d: drained %d event(s)", e.currentTime, len(drained))
	return drained
}

// Run calls Start, then Tick repeatedly until the queue empties.
func (e *Engine) Run() {
	e.Start()
	for e.HasEvents() {
		e.Tick()
	}
	logrus.Infof("run complete at time %d", e.currentTime)
}

// applyEffector reifies one handler's effector into queued events and
// registered, started components, attributing scheduled events to src
// as their From address. New components are registered and started in
// the order they appear in the effector, and a new component's own
// Start effector is applied recursively before the next new component
// is registered — mirroring how the engine bootstraps itself at
// Start(), just triggered mid-run.
func (e *Engine) applyEffector(src Address, eff *Effector) {
	if eff == nil {
		return
	}
	for _, se := range eff.Events {
		e.queue.schedule(Event{
			Time:    e.currentTime + se.Delay,
			From:    src,
			To:      se.Target.resolve(src),
			Message: se.Message,
			seq:     e.nextSeq,
		})
		e.nextSeq++
	}
	for _, c := range eff.NewComponents {
		addr := e.RegisterComponent(c)
		startEff := c.Start(StartInfo{Self: addr, Now: e.currentTime})
		e.applyEffector(addr, startEff)
	}
}
