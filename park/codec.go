package park

import (
	"encoding/json"
	"fmt"

	"github.com/parksim/parksim/engine"
)

const (
	kindDispatcher = "dispatcher"
	kindCustomer   = "customer"
	kindCarousel   = "carousel"

	kindTick              = "tick"
	kindCustomerArrived   = "customer_arrived"
	kindStandardWaitEnded = "standard_wait_ended"
	kindExtendedWaitEnded = "extended_wait_ended"
	kindStart             = "start"
	kindEndRide           = "end_ride"
	kindRideStarted       = "ride_started"
	kindRideEnded         = "ride_ended"
)

// Codec implements engine.TypeCodec for the park domain's three
// component kinds and eight message kinds, letting an *engine.Engine
// running a park simulation be snapshotted to and restored from JSON.
type Codec struct{}

var _ engine.TypeCodec = Codec{}

// EncodeComponent tags a component with its kind and marshals its
// exported fields.
func (Codec) EncodeComponent(c engine.Component) (string, json.RawMessage, error) {
	switch v := c.(type) {
	case *CustomerDispatcher:
		data, err := json.Marshal(v)
		return kindDispatcher, data, err
	case *Customer:
		data, err := json.Marshal(v)
		return kindCustomer, data, err
	case *Carousel:
		data, err := json.Marshal(v)
		return kindCarousel, data, err
	default:
		return "", nil, fmt.Errorf("park: codec cannot encode component of type %T", c)
	}
}

// DecodeComponent reconstructs a component from its kind tag and data.
// A decoded CustomerDispatcher gets its Pending heap back verbatim from
// the snapshot and then has the heap invariant re-established over it.
func (Codec) DecodeComponent(kind string, data json.RawMessage) (engine.Component, error) {
	switch kind {
	case kindDispatcher:
		var v CustomerDispatcher
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		v.restoreHeapInvariant()
		return &v, nil
	case kindCustomer:
		var v Customer
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case kindCarousel:
		var v Carousel
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &v, nil
	default:
		return nil, fmt.Errorf("park: codec cannot decode component kind %q", kind)
	}
}

// EncodeMessage tags a message with its kind and marshals its payload.
func (Codec) EncodeMessage(m engine.Message) (string, json.RawMessage, error) {
	switch v := m.(type) {
	case TickMsg:
		return kindTick, []byte(`{}`), nil
	case CustomerArrivedMsg:
		return kindCustomerArrived, []byte(`{}`), nil
	case StandardWaitEndedMsg:
		data, err := json.Marshal(v)
		return kindStandardWaitEnded, data, err
	case ExtendedWaitEndedMsg:
		data, err := json.Marshal(v)
		return kindExtendedWaitEnded, data, err
	case StartMsg:
		return kindStart, []byte(`{}`), nil
	case EndRideMsg:
		return kindEndRide, []byte(`{}`), nil
	case RideStartedMsg:
		data, err := json.Marshal(v)
		return kindRideStarted, data, err
	case RideEndedMsg:
		data, err := json.Marshal(v)
		return kindRideEnded, data, err
	default:
		return "", nil, fmt.Errorf("park: codec cannot encode message of type %T", m)
	}
}

// DecodeMessage reconstructs a message from its kind tag and payload.
func (Codec) DecodeMessage(kind string, data json.RawMessage) (engine.Message, error) {
	switch kind {
	case kindTick:
		return TickMsg{}, nil
	case kindCustomerArrived:
		return CustomerArrivedMsg{}, nil
	case kindStandardWaitEnded:
		var v StandardWaitEndedMsg
		err := json.Unmarshal(data, &v)
		return v, err
	case kindExtendedWaitEnded:
		var v ExtendedWaitEndedMsg
		err := json.Unmarshal(data, &v)
		return v, err
	case kindStart:
		return StartMsg{}, nil
	case kindEndRide:
		return EndRideMsg{}, nil
	case kindRideStarted:
		var v RideStartedMsg
		err := json.Unmarshal(data, &v)
		return v, err
	case kindRideEnded:
		var v RideEndedMsg
		err := json.Unmarshal(data, &v)
		return v, err
	default:
		return nil, fmt.Errorf("park: codec cannot decode message kind %q", kind)
	}
}
