// Package consolelog renders drained engine events in the one-line
// wire format the CLI's -console mode prints, grounded on the
// teacher's logrus call-site style in sim/event.go ("<< Arrival: %s at
// %dµs") but emitting the literal format the external interface
// mandates rather than a logrus-leveled line.
package consolelog

import (
	"fmt"
	"io"

	"github.com/parksim/parksim/engine"
)

// Labeler names an address for display. Domains that want readable
// names (carousel ids, customer ids) instead of raw addresses supply
// one; a nil Labeler falls back to the numeric address.
type Labeler func(addr engine.Address) string

// Printer writes one line per drained event to w, in the format
// "In <time> - <Src> sending to <Dst> - <message>".
type Printer struct {
	W     io.Writer
	Label Labeler
}

// NewPrinter returns a Printer writing to w with no address labeling.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{W: w}
}

// Print renders every event in drain order.
func (p *Printer) Print(events []engine.Event) {
	for _, ev := range events {
		fmt.Fprintf(p.W, "In %d - %s sending to %s - %T\n",
			ev.Time, p.label(ev.From), p.label(ev.To), ev.Message)
	}
}

func (p *Printer) label(addr engine.Address) string {
	if p.Label == nil {
		return fmt.Sprintf("%d", addr)
	}
	return p.Label(addr)
}
