package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pingMsg and echoComponent give the generic engine something concrete
// to route without pulling in the park domain.
type pingMsg struct{ n int }

type recorder struct {
	log []string
}

type echoComponent struct {
	name     string
	rec      *recorder
	onStart  func(self Address) *Effector
	onHandle func(from Address, now Time, msg Message) *Effector
}

func (c *echoComponent) Start(info StartInfo) *Effector {
	c.rec.log = append(c.rec.log, c.name+":start")
	if c.onStart != nil {
		return c.onStart(info.Self)
	}
	return nil
}

func (c *echoComponent) Handle(from Address, now Time, msg Message) *Effector {
	c.rec.log = append(c.rec.log, c.name+":handle")
	if c.onHandle != nil {
		return c.onHandle(from, now, msg)
	}
	return nil
}

// TestEngine_RegisterComponent_AssignsSequentialAddresses verifies C1's
// contract: addresses are assigned on registration, monotonically, and
// registration does not implicitly call Start.
func TestEngine_RegisterComponent_AssignsSequentialAddresses(t *testing.T) {
	e := New()
	rec := &recorder{}

	a1 := e.RegisterComponent(&echoComponent{name: "a", rec: rec})
	a2 := e.RegisterComponent(&echoComponent{name: "b", rec: rec})

	assert.Equal(t, Address(0), a1)
	assert.Equal(t, Address(1), a2)
	assert.Empty(t, rec.log, "RegisterComponent must not call Start")
}

// TestEngine_Start_RunsInRegistrationOrder verifies Start() calls every
// registered component's Start method in address order.
func TestEngine_Start_RunsInRegistrationOrder(t *testing.T) {
	e := New()
	rec := &recorder{}
	e.RegisterComponent(&echoComponent{name: "first", rec: rec})
	e.RegisterComponent(&echoComponent{name: "second", rec: rec})

	e.Start()

	assert.Equal(t, []string{"first:start", "second:start"}, rec.log)
}

// TestEngine_Tick_DrainsAllEventsAtEarliestTimestamp verifies the core
// tick contract: all events sharing the earliest timestamp drain in one
// Tick call, in FIFO (insertion) order among ties.
func TestEngine_Tick_DrainsAllEventsAtEarliestTimestamp(t *testing.T) {
	e := New()
	rec := &recorder{}
	target := &echoComponent{name: "target", rec: rec}
	addr := e.RegisterComponent(target)

	e.queue.schedule(Event{Time: 5, To: addr, Message: pingMsg{1}, seq: 0})
	e.queue.schedule(Event{Time: 5, To: addr, Message: pingMsg{2}, seq: 1})
	e.queue.schedule(Event{Time: 10, To: addr, Message: pingMsg{3}, seq: 2})

	drained := e.Tick()

	require.Len(t, drained, 2)
	assert.Equal(t, Time(5), e.CurrentTime())
	assert.True(t, e.HasEvents())
	assert.Equal(t, []string{"target:handle", "target:handle"}, rec.log)
}

// TestEngine_Run_DrainsUntilEmpty runs a self-rescheduling component to
// completion and checks the engine stops exactly when the queue empties.
func TestEngine_Run_DrainsUntilEmpty(t *testing.T) {
	e := New()
	rec := &recorder{}
	count := 0
	c := &echoComponent{name: "looper", rec: rec}
	c.onStart = func(self Address) *Effector {
		eff := NewEffector()
		eff.ScheduleToSelfImmediately(pingMsg{0})
		return eff
	}
	c.onHandle = func(from Address, now Time, msg Message) *Effector {
		count++
		if count >= 3 {
			return nil
		}
		eff := NewEffector()
		eff.ScheduleInToSelf(1, pingMsg{count})
		return eff
	}
	e.RegisterComponent(c)

	e.Run()

	assert.Equal(t, 3, count)
	assert.False(t, e.HasEvents())
}

// TestEngine_ApplyEffector_SelfAndRemoteTargets verifies effector
// application resolves self-targets to the source address and remote
// targets to the given address.
func TestEngine_ApplyEffector_SelfAndRemoteTargets(t *testing.T) {
	e := New()
	rec := &recorder{}
	a := e.RegisterComponent(&echoComponent{name: "a", rec: rec})
	b := e.RegisterComponent(&echoComponent{name: "b", rec: rec})

	eff := NewEffector()
	eff.ScheduleImmediately(b, pingMsg{1})
	eff.ScheduleToSelfImmediately(pingMsg{2})
	e.applyEffector(a, eff)

	require.Equal(t, 2, e.queue.Len())
	first := e.queue.popNext()
	second := e.queue.popNext()
	// both scheduled at time 0, FIFO by insertion order
	assert.Equal(t, a, first.From)
	assert.Equal(t, b, first.To)
	assert.Equal(t, a, second.From)
	assert.Equal(t, a, second.To)
}

// TestEngine_ApplyEffector_SpawnsAndStartsNewComponents verifies
// InstantiateNewComponent registers and immediately starts the new
// component, applying its own startup effector recursively.
func TestEngine_ApplyEffector_SpawnsAndStartsNewComponents(t *testing.T) {
	e := New()
	rec := &recorder{}
	parent := &echoComponent{name: "parent", rec: rec}
	parentAddr := e.RegisterComponent(parent)

	child := &echoComponent{name: "child", rec: rec}
	child.onStart = func(self Address) *Effector {
		eff := NewEffector()
		eff.ScheduleToSelfImmediately(pingMsg{9})
		return eff
	}

	eff := NewEffector()
	eff.InstantiateNewComponent(child)
	e.applyEffector(parentAddr, eff)

	assert.Equal(t, []string{"child:start"}, rec.log)
	assert.Equal(t, 1, e.queue.Len(), "child's own startup effector must be applied")
}

// TestEngine_Tick_UnknownAddressPanics verifies the programmer-error
// failure mode: delivering to an address the engine never registered.
func TestEngine_Tick_UnknownAddressPanics(t *testing.T) {
	e := New()
	e.queue.schedule(Event{Time: 1, To: Address(99)})

	assert.Panics(t, func() { e.Tick() })
}

// TestEngine_Tick_EmptyQueueReturnsNil verifies the no-op case.
func TestEngine_Tick_EmptyQueueReturnsNil(t *testing.T) {
	e := New()
	assert.Nil(t, e.Tick())
	assert.False(t, e.HasEvents())
}
