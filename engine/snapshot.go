package engine

import "encoding/json"

// TypeCodec lets the generic engine serialize and deserialize the
// opaque Component and Message values it otherwise never inspects.
// The park package (or any other domain built on this engine) supplies
// one concrete implementation that knows its own tagged unions — the
// same separation of concerns the teacher's sim package describes in
// its package doc: "sub-packages register their implementations via
// init() functions that set package-level factory variables." Here the
// registration is explicit (passed to Marshal/Unmarshal) rather than
// via init()-time globals, so a process can snapshot multiple engines
// running different domains without global state.
type TypeCodec interface {
	EncodeComponent(c Component) (kind string, data json.RawMessage, err error)
	DecodeComponent(kind string, data json.RawMessage) (Component, error)
	EncodeMessage(m Message) (kind string, data json.RawMessage, err error)
	DecodeMessage(kind string, data json.RawMessage) (Message, error)
}

type componentEnvelope struct {
	Address Address         `json:"address"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

type eventEnvelope struct {
	Time Time            `json:"time"`
	From Address         `json:"from"`
	To   Address         `json:"to"`
	Seq  uint64          `json:"seq"`
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type engineSnapshot struct {
	CurrentTime Time                `json:"current_time"`
	NextAddress Address             `json:"next_address"`
	NextSeq     uint64              `json:"next_seq"`
	Order       []Address           `json:"order"`
	Components  []componentEnvelope `json:"components"`
	Events      []eventEnvelope     `json:"events"`
}

// Marshal serializes e to a self-describing JSON document using codec
// to encode every live component and queued event's message payload.
func Marshal(e *Engine, codec TypeCodec) ([]byte, error) {
	snap := engineSnapshot{
		CurrentTime: e.currentTime,
		NextAddress: e.addrs.next,
		NextSeq:     e.nextSeq,
		Order:       append([]Address(nil), e.order...),
	}
	for _, addr := range e.order {
		c := e.components[addr]
		kind, data, err := codec.EncodeComponent(c)
		if err != nil {
			return nil, err
		}
		snap.Components = append(snap.Components, componentEnvelope{Address: addr, Kind: kind, Data: data})
	}
	for _, ev := range e.queue.events {
		kind, data, err := codec.EncodeMessage(ev.Message)
		if err != nil {
			return nil, err
		}
		snap.Events = append(snap.Events, eventEnvelope{
			Time: ev.Time, From: ev.From, To: ev.To, Seq: ev.seq, Kind: kind, Data: data,
		})
	}
	return json.Marshal(snap)
}

// Unmarshal reconstructs an Engine from a document produced by Marshal.
// Re-heapifies the event queue on load: heap array order is not
// semantically meaningful across a serialization boundary, only the
// (time, seq) ordering it encodes is, so rebuilding via schedule()
// reproduces identical drain behavior.
func Unmarshal(data []byte, codec TypeCodec) (*Engine, error) {
	var snap engineSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	e := New()
	e.currentTime = snap.CurrentTime
	e.addrs.next = snap.NextAddress
	e.nextSeq = snap.NextSeq
	e.started = true // a snapshot is always mid-run or post-start
	e.order = append([]Address(nil), snap.Order...)

	for _, ce := range snap.Components {
		c, err := codec.DecodeComponent(ce.Kind, ce.Data)
		if err != nil {
			return nil, err
		}
		e.components[ce.Address] = c
	}
	for _, ee := range snap.Events {
		msg, err := codec.DecodeMessage(ee.Kind, ee.Data)
		if err != nil {
			return nil, err
		}
		e.queue.schedule(Event{Time: ee.Time, From: ee.From, To: ee.To, Message: msg, seq: ee.Seq})
	}
	return e, nil
}
