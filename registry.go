package qdispatch

import (
	"fmt"
	"sort"
	"sync"

	"github.com/theapemachine/errnie"
)

// ProcessorFactory builds a processor from configuration.
type ProcessorFactory func(cfg *Config) (Processor, error)

// Registry maps target names to processor factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProcessorFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProcessorFactory)}
}

/*
DefaultRegistry knows the processors shipped with this package:
"simulator", "trace" (a trace over a simulator), and "null" / "nothing".
*/
func DefaultRegistry() *Registry {
	r := NewRegistry()

	null := func(*Config) (Processor, error) { return NewNullProcessor(), nil }
	r.Register("null", null)
	r.Register("nothing", null)

	r.Register("simulator", func(cfg *Config) (Processor, error) {
		return newConfiguredSimulator(cfg), nil
	})
	r.Register("trace", func(cfg *Config) (Processor, error) {
		return NewTraceProcessor(newConfiguredSimulator(cfg)), nil
	})

	return r
}

func newConfiguredSimulator(cfg *Config) *SimulatorProcessor {
	opts := []SimulatorOption{WithTolerance(cfg.Tolerance)}
	if cfg.Seed != 0 {
		opts = append(opts, WithSeed(cfg.Seed))
	}
	return NewSimulatorProcessor(opts...)
}

func (r *Registry) Register(name string, factory ProcessorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

func (r *Registry) Get(name string) (ProcessorFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

/*
NewProcessor builds the processor named by cfg.Target and, when the config
asks for it, wraps it in a GuardedProcessor.
*/
func (r *Registry) NewProcessor(cfg *Config) (Processor, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	factory, ok := r.Get(cfg.Target)
	if !ok {
		errnie.Error(fmt.Errorf("the target %q was not recognized", cfg.Target))
		return nil, fmt.Errorf("%q: %w", cfg.Target, ErrUnknownTarget)
	}

	processor, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("building %s processor: %w", cfg.Target, err)
	}

	var guards []GuardOption
	if cfg.MaxFailures > 0 {
		guards = append(guards, WithCircuitBreaker(
			NewCircuitBreaker(cfg.MaxFailures, cfg.ResetTimeout, cfg.HalfOpenMax),
		))
	}
	if cfg.RateLimit > 0 {
		guards = append(guards, WithRateLimiter(NewRateLimiter(cfg.RateLimit, cfg.RefillRate)))
	}
	if len(guards) > 0 {
		processor = NewGuardedProcessor(processor, guards...)
	}

	errnie.Info("processor ready - target %s, guards %d", cfg.Target, len(guards))
	return processor, nil
}
