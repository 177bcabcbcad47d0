package park

import "github.com/parksim/parksim/engine"

// CustomerID identifies a customer as given in configuration.
type CustomerID string

// CustomerConfig is the configuration-time description of a customer:
// when they arrive and which carousels, in order, they intend to ride.
type CustomerConfig struct {
	ID          CustomerID   `json:"id"`
	ArrivalTime engine.Time  `json:"arrival_time"`
	Carousels   []CarouselID `json:"carousels"`
}

// CarouselVisit pairs a carousel id with its resolved engine address,
// letting a customer address carousels directly instead of re-resolving
// ids through the dispatcher on every visit.
type CarouselVisit struct {
	ID      CarouselID     `json:"id"`
	Address engine.Address `json:"address"`
}

// CustomerModeKind enumerates a customer's three states.
type CustomerModeKind int

const (
	CustomerIdle CustomerModeKind = iota
	CustomerWaitingOnCarousel
	CustomerOnCarousel
)

// CustomerMode is the mode union mode ∈ {Idle, WaitingOnCarousel(id),
// OnCarousel(id)}. CarouselID is meaningful only when Kind is not
// CustomerIdle.
type CustomerMode struct {
	Kind       CustomerModeKind `json:"kind"`
	CarouselID CarouselID       `json:"carousel_id,omitempty"`
}

// Customer serially visits its configured carousels, queuing at each
// in turn and moving to the next the instant a ride ends.
type Customer struct {
	Config    CustomerConfig  `json:"config"`
	Carousels []CarouselVisit `json:"carousels"`
	Mode      CustomerMode    `json:"mode"`

	NumberOfRides    int         `json:"number_of_rides"`
	TotalWaitingTime engine.Time `json:"total_waiting_time"`
	TotalTime        engine.Time `json:"total_time"`
	StartedWaitingOn engine.Time `json:"started_waiting_on"`
}

// NewCustomer returns a customer ready to register with an engine.
// visits is the carousel list resolved to live addresses, in the order
// the customer intends to visit them.
func NewCustomer(cfg CustomerConfig, visits []CarouselVisit) *Customer {
	return &Customer{Config: cfg, Carousels: visits}
}

// Start calls nextRun at the customer's registration time — normally
// the instant the dispatcher spawns them, which per spec coincides
// with their configured arrival_time.
func (c *Customer) Start(info engine.StartInfo) *engine.Effector {
	eff := engine.NewEffector()
	c.nextRun(info.Now, eff)
	return eff
}

// Handle implements the two state transitions a customer reacts to;
// everything else — including messages whose mode guard fails — is
// ignored without state change.
func (c *Customer) Handle(from engine.Address, now engine.Time, msg engine.Message) *engine.Effector {
	customerMsg, ok := asCustomerMessage(msg)
	if !ok {
		return nil
	}

	switch customerMsg.(type) {
	case RideStartedMsg:
		if c.Mode.Kind != CustomerWaitingOnCarousel {
			return nil
		}
		c.Mode = CustomerMode{Kind: CustomerOnCarousel, CarouselID: c.Mode.CarouselID}
		// -1 compensates for the ride's one-tick Starting phase: from
		// the customer's perspective the ride began one tick earlier
		// than RideStarted was actually delivered.
		c.TotalWaitingTime += now - c.StartedWaitingOn - 1
		c.NumberOfRides++
		return nil
	case RideEndedMsg:
		if c.Mode.Kind != CustomerOnCarousel {
			return nil
		}
		eff := engine.NewEffector()
		c.nextRun(now, eff)
		return eff
	default:
		return nil
	}
}

// nextRun advances the customer to their next carousel, or to Idle if
// their visit list is exhausted.
func (c *Customer) nextRun(t engine.Time, eff *engine.Effector) {
	c.StartedWaitingOn = t
	c.TotalTime = t - c.Config.ArrivalTime
	if len(c.Carousels) == 0 {
		c.Mode = CustomerMode{Kind: CustomerIdle}
		return
	}
	next := c.Carousels[0]
	c.Carousels = c.Carousels[1:]
	eff.ScheduleImmediately(next.Address, CustomerArrivedMsg{})
	c.Mode = CustomerMode{Kind: CustomerWaitingOnCarousel, CarouselID: next.ID}
}
