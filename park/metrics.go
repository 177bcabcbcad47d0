package park

import (
	"fmt"

	"github.com/parksim/parksim/engine"
	"gonum.org/v1/gonum/stat"
)

// CarouselSummary is one carousel's metrics as of the moment Summarize
// is called.
type CarouselSummary struct {
	ID                   CarouselID
	Rides                int
	AvgCustomersOnRide   float64
	MaxCustomersQueueLen int
	IdleTime             engine.Time
}

// CustomerSummary is one customer's metrics as of the moment Summarize
// is called.
type CustomerSummary struct {
	ID               CustomerID
	NumberOfRides    int
	TotalWaitingTime engine.Time
	TotalTime        engine.Time
}

// Report aggregates every carousel's and customer's metrics across a
// run. Grounded on the teacher's Metrics.Print (sim/metrics.go), but
// the cross-component means and standard deviations are computed with
// gonum/stat rather than by hand, since a park run spans many
// independent carousels and customers instead of the teacher's single
// running simulator.
type Report struct {
	Carousels []CarouselSummary
	Customers []CustomerSummary
}

// Summarize walks every component currently registered in e and
// collects their metrics into a Report.
func Summarize(e *engine.Engine) *Report {
	r := &Report{}
	for _, addr := range e.Addresses() {
		c, _ := e.Component(addr)
		switch v := c.(type) {
		case *Carousel:
			r.Carousels = append(r.Carousels, CarouselSummary{
				ID:                   v.Config.ID,
				Rides:                v.Rides,
				AvgCustomersOnRide:   v.AvgCustomersOnRide,
				MaxCustomersQueueLen: v.MaxCustomersQueueLen,
				IdleTime:             v.IdleTime,
			})
		case *Customer:
			r.Customers = append(r.Customers, CustomerSummary{
				ID:               v.Config.ID,
				NumberOfRides:    v.NumberOfRides,
				TotalWaitingTime: v.TotalWaitingTime,
				TotalTime:        v.TotalTime,
			})
		}
	}
	return r
}

// Print renders the report in the teacher's tabular style, with
// gonum/stat-computed cross-component mean and standard deviation
// where at least two samples exist (stat.StdDev on a single sample is
// not meaningful).
func (r *Report) Print() {
	fmt.Println("=== Park Simulation Metrics ===")
	fmt.Printf("Carousels            : %d\n", len(r.Carousels))
	fmt.Printf("Customers            : %d\n", len(r.Customers))

	if rides := ridesPerCarousel(r.Carousels); len(rides) > 0 {
		mean, stddev := meanStdDev(rides)
		fmt.Printf("Avg Rides/Carousel   : %.2f (stddev %.2f)\n", mean, stddev)
	}
	if waits := waitingTimes(r.Customers); len(waits) > 0 {
		mean, stddev := meanStdDev(waits)
		fmt.Printf("Avg Customer Wait    : %.2f ticks (stddev %.2f)\n", mean, stddev)
	}
	if totals := totalTimes(r.Customers); len(totals) > 0 {
		mean, stddev := meanStdDev(totals)
		fmt.Printf("Avg Customer Total   : %.2f ticks (stddev %.2f)\n", mean, stddev)
	}
}

func ridesPerCarousel(cs []CarouselSummary) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = float64(c.Rides)
	}
	return out
}

func waitingTimes(cs []CustomerSummary) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = float64(c.TotalWaitingTime)
	}
	return out
}

func totalTimes(cs []CustomerSummary) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = float64(c.TotalTime)
	}
	return out
}

func meanStdDev(samples []float64) (mean, stddev float64) {
	mean = stat.Mean(samples, nil)
	if len(samples) < 2 {
		return mean, 0
	}
	stddev = stat.StdDev(samples, nil)
	return mean, stddev
}
