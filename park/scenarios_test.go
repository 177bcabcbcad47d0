package park

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parksim/parksim/engine"
)

func carouselByID(t *testing.T, e *engine.Engine, id CarouselID) *Carousel {
	t.Helper()
	for _, addr := range e.Addresses() {
		c, _ := e.Component(addr)
		if car, ok := c.(*Carousel); ok && car.Config.ID == id {
			return car
		}
	}
	t.Fatalf("no carousel with id %q registered", id)
	return nil
}

func customers(e *engine.Engine) []*Customer {
	var out []*Customer
	for _, addr := range e.Addresses() {
		if c, ok := mustComponent(e, addr).(*Customer); ok {
			out = append(out, c)
		}
	}
	return out
}

func mustComponent(e *engine.Engine, addr engine.Address) engine.Component {
	c, _ := e.Component(addr)
	return c
}

// TestScenario_S1_SingleCustomerCapacityOne reproduces the single
// customer, capacity 1 walkthrough: a lone customer rides once, and
// the -1 tick compensation lands the waiting time at exactly 5.
func TestScenario_S1_SingleCustomerCapacityOne(t *testing.T) {
	cfg := &ParkConfig{
		Carousels: []CarouselConfig{{ID: "1", MinCapacity: 1, Capacity: 1, RunTime: 10, WaitTime: 5, ExtendTime: 3}},
		Customers: []CustomerConfig{{ID: "1", ArrivalTime: 0, Carousels: []CarouselID{"1"}}},
	}
	e, err := Bootstrap(cfg)
	require.NoError(t, err)

	e.Run()

	carousel := carouselByID(t, e, "1")
	assert.Equal(t, 1, carousel.Rides)

	custs := customers(e)
	require.Len(t, custs, 1)
	assert.Equal(t, 1, custs[0].NumberOfRides)
	assert.Equal(t, engine.Time(5), custs[0].TotalWaitingTime)
	assert.Equal(t, engine.Time(15), custs[0].TotalTime)
}

// TestScenario_S2_MinCapacityGate reproduces the min_capacity gate:
// two customers short of min_capacity ride only once standard and
// extended waiting both elapse.
func TestScenario_S2_MinCapacityGate(t *testing.T) {
	cfg := &ParkConfig{
		Carousels: []CarouselConfig{{ID: "1", MinCapacity: 3, Capacity: 5, RunTime: 10, WaitTime: 5, ExtendTime: 2}},
		Customers: []CustomerConfig{
			{ID: "1", ArrivalTime: 0, Carousels: []CarouselID{"1"}},
			{ID: "2", ArrivalTime: 1, Carousels: []CarouselID{"1"}},
		},
	}
	e, err := Bootstrap(cfg)
	require.NoError(t, err)

	e.Run()

	carousel := carouselByID(t, e, "1")
	assert.Equal(t, 1, carousel.Rides)
	assert.Equal(t, 2.0, carousel.AvgCustomersOnRide)
	for _, c := range customers(e) {
		assert.Equal(t, 1, c.NumberOfRides)
	}
}

// TestScenario_S3_EarlyStartDuringExtendedWait reproduces the early
// ride start triggered by an arrival during extended waiting, ahead of
// the extend timer.
func TestScenario_S3_EarlyStartDuringExtendedWait(t *testing.T) {
	cfg := &ParkConfig{
		Carousels: []CarouselConfig{{ID: "1", MinCapacity: 2, Capacity: 5, RunTime: 10, WaitTime: 5, ExtendTime: 2}},
		Customers: []CustomerConfig{
			{ID: "1", ArrivalTime: 0, Carousels: []CarouselID{"1"}},
			{ID: "2", ArrivalTime: 6, Carousels: []CarouselID{"1"}},
		},
	}
	e, err := Bootstrap(cfg)
	require.NoError(t, err)

	e.Run()

	carousel := carouselByID(t, e, "1")
	assert.Equal(t, 1, carousel.Rides, "exactly one ride, the stale extend timer must not trigger a second")
	assert.Equal(t, 2.0, carousel.AvgCustomersOnRide)
	for _, c := range customers(e) {
		assert.Equal(t, 1, c.NumberOfRides)
	}
}

// TestScenario_S4_OuterQueueOverflow reproduces the outer-queue
// overflow: three simultaneous arrivals against capacity 2 board two,
// overflow one, and the overflow customer refills the inner queue for
// the next cycle.
func TestScenario_S4_OuterQueueOverflow(t *testing.T) {
	cfg := &ParkConfig{
		Carousels: []CarouselConfig{{ID: "1", MinCapacity: 1, Capacity: 2, RunTime: 5, WaitTime: 2, ExtendTime: 2}},
		Customers: []CustomerConfig{
			{ID: "1", ArrivalTime: 0, Carousels: []CarouselID{"1"}},
			{ID: "2", ArrivalTime: 0, Carousels: []CarouselID{"1"}},
			{ID: "3", ArrivalTime: 0, Carousels: []CarouselID{"1"}},
		},
	}
	e, err := Bootstrap(cfg)
	require.NoError(t, err)

	e.Run()

	carousel := carouselByID(t, e, "1")
	assert.Equal(t, 2, carousel.Rides, "overflow customer completes a second cycle alone")
	for _, c := range customers(e) {
		assert.Equal(t, 1, c.NumberOfRides)
	}
}

// TestScenario_S5_DispatcherOrdering reproduces dispatcher ordering:
// customers configured out of order by arrival_time must materialize
// at their own simulated times, one Tick apiece.
func TestScenario_S5_DispatcherOrdering(t *testing.T) {
	cfg := &ParkConfig{
		Customers: []CustomerConfig{
			{ID: "mid", ArrivalTime: 5},
			{ID: "early", ArrivalTime: 2},
			{ID: "late", ArrivalTime: 8},
		},
	}
	e, err := Bootstrap(cfg)
	require.NoError(t, err)

	e.Start()
	var times []engine.Time
	for e.HasEvents() {
		e.Tick()
		times = append(times, e.CurrentTime())
	}

	assert.Equal(t, []engine.Time{2, 5, 8}, times)
	require.Len(t, customers(e), 3)
}

// TestScenario_S6_MultiCarouselTraversal reproduces serial traversal
// across two carousels: a customer rides A to completion, queues at B
// at the same RideEnded tick, and then rides B.
func TestScenario_S6_MultiCarouselTraversal(t *testing.T) {
	cfg := &ParkConfig{
		Carousels: []CarouselConfig{
			{ID: "A", MinCapacity: 1, Capacity: 1, RunTime: 3, WaitTime: 1, ExtendTime: 1},
			{ID: "B", MinCapacity: 1, Capacity: 1, RunTime: 3, WaitTime: 1, ExtendTime: 1},
		},
		Customers: []CustomerConfig{{ID: "1", ArrivalTime: 0, Carousels: []CarouselID{"A", "B"}}},
	}
	e, err := Bootstrap(cfg)
	require.NoError(t, err)

	e.Run()

	assert.Equal(t, 1, carouselByID(t, e, "A").Rides)
	assert.Equal(t, 1, carouselByID(t, e, "B").Rides)
	custs := customers(e)
	require.Len(t, custs, 1)
	assert.Equal(t, 2, custs[0].NumberOfRides)
	assert.Equal(t, CustomerMode{Kind: CustomerIdle}, custs[0].Mode)
}
