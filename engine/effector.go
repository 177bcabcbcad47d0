package engine

// Component is anything the engine can register, start, and route
// messages to. Start runs once, at registration time (or at engine
// start for components registered before Start()), and returns an
// effector describing the component's initial side effects. Handle
// runs once per delivered event and returns the effector produced by
// that single handler invocation.
//
// Implementations should never mutate the engine directly — every
// side effect goes through the returned Effector, which the engine
// applies atomically after the call returns.
type Component interface {
	Start(info StartInfo) *Effector
	Handle(from Address, now Time, msg Message) *Effector
}

// StartInfo is passed to a component's Start method: its own freshly
// assigned address and the simulated time at which Start runs.
type StartInfo struct {
	Self Address
	Now  Time
}

// Effector is the transient batch a handler returns: the scheduled
// events and newly spawned components produced by one invocation. The
// engine applies it atomically — nothing in it takes effect until the
// handler that built it has returned.
type Effector struct {
	Events        []ScheduledEvent
	NewComponents []Component
}

// NewEffector returns an empty effector ready for a handler to fill in.
func NewEffector() *Effector {
	return &Effector{}
}

// ScheduleIn queues a remote delivery of msg at now+delay.
func (e *Effector) ScheduleIn(target Address, delay Time, msg Message) {
	e.Events = append(e.Events, ScheduledEvent{Message: msg, Delay: delay, Target: RemoteTarget(target)})
}

// ScheduleImmediately is ScheduleIn with delay 0: still enqueued, not
// executed inline, but deliverable at the current simulated time.
func (e *Effector) ScheduleImmediately(target Address, msg Message) {
	e.ScheduleIn(target, 0, msg)
}

// ScheduleInToSelf queues a self-addressed delivery at now+delay. The
// symbolic self-target is resolved by the engine when the effector is
// applied, so the component need not know its own address in advance.
func (e *Effector) ScheduleInToSelf(delay Time, msg Message) {
	e.Events = append(e.Events, ScheduledEvent{Message: msg, Delay: delay, Target: SelfTarget()})
}

// ScheduleToSelfImmediately is ScheduleInToSelf with delay 0.
func (e *Effector) ScheduleToSelfImmediately(msg Message) {
	e.ScheduleInToSelf(0, msg)
}

// InstantiateNewComponent queues c for registration. Components are
// registered in the insertion order they were added to the effector.
func (e *Effector) InstantiateNewComponent(c Component) {
	e.NewComponents = append(e.NewComponents, c)
}
