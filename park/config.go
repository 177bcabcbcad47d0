package park

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/parksim/parksim/engine"
)

// ConfigError wraps a configuration validation failure with a single
// human-readable message, distinguishing it from the programmer-error
// panics the engine and carousel raise for impossible states.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// ParkConfig is the JSON configuration document described in the
// external interfaces: a list of carousels and a list of customers.
// Grounded on the teacher's PolicyBundle (sim/bundle.go) but decoded
// as JSON, per spec, rather than YAML.
type ParkConfig struct {
	Carousels []CarouselConfig `json:"carousels"`
	Customers []CustomerConfig `json:"customers"`
}

// LoadConfig reads and strictly parses a JSON park configuration from
// r: unrecognized fields are rejected the same way the teacher's
// LoadPolicyBundle rejects unrecognized YAML keys via KnownFields(true).
func LoadConfig(r io.Reader) (*ParkConfig, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("reading park config: %w", err)
	}
	var cfg ParkConfig
	decoder := json.NewDecoder(bytes.NewReader(buf.Bytes()))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing park config: %w", err)
	}
	return &cfg, nil
}

// Validate checks every rule spec.md §6 mandates, returning the first
// violation as a *ConfigError.
func (c *ParkConfig) Validate() error {
	seen := make(map[CarouselID]bool, len(c.Carousels))
	for _, car := range c.Carousels {
		if seen[car.ID] {
			return configErrorf("duplicate carousel id %q", car.ID)
		}
		seen[car.ID] = true

		if car.RunTime < 1 {
			return configErrorf("carousel %q: run_time must be >= 1, got %d", car.ID, car.RunTime)
		}
		if car.WaitTime < 1 {
			return configErrorf("carousel %q: wait_time must be >= 1, got %d", car.ID, car.WaitTime)
		}
		if car.ExtendTime < 1 {
			return configErrorf("carousel %q: extend_time must be >= 1, got %d", car.ID, car.ExtendTime)
		}
		if car.Capacity < 1 {
			return configErrorf("carousel %q: capacity must be >= 1, got %d", car.ID, car.Capacity)
		}
		if car.MinCapacity < 1 || car.MinCapacity > car.Capacity {
			return configErrorf("carousel %q: min_capacity must be in [1, capacity=%d], got %d", car.ID, car.Capacity, car.MinCapacity)
		}
	}

	for _, cust := range c.Customers {
		for _, ref := range cust.Carousels {
			if !seen[ref] {
				return configErrorf("customer %q references unknown carousel %q", cust.ID, ref)
			}
		}
	}
	return nil
}

// Bootstrap validates cfg and, if valid, constructs and starts an
// *engine.Engine: one Carousel per configured carousel, and a
// CustomerDispatcher holding every configured customer. Customers
// themselves are not registered at Bootstrap time — the dispatcher
// spawns each one when the engine's clock reaches its arrival_time.
// The returned engine already has Start applied, so has_events/Tick
// work immediately without a separate start step.
func Bootstrap(cfg *ParkConfig) (*engine.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := engine.New()
	carouselAddrs := make(map[CarouselID]engine.Address, len(cfg.Carousels))
	for _, car := range cfg.Carousels {
		addr := e.RegisterComponent(NewCarousel(car))
		carouselAddrs[car.ID] = addr
	}

	dispatcher := NewCustomerDispatcher(carouselAddrs, cfg.Customers)
	e.RegisterComponent(dispatcher)

	e.Start()
	return e, nil
}
