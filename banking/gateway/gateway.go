// Package gateway is the single routing layer between tool execution and
// the domain services. It simulates network variance per call and injects
// transient failures at a configured rate; retry policy belongs to the
// caller, never to the gateway.
package gateway

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking/services"
)

// Config holds the simulation knobs. Latency bounds are milliseconds.
type Config struct {
	LatencyMinMS int     `envconfig:"LATENCY_MIN_MS" split_words:"true" default:"50"`
	LatencyMaxMS int     `envconfig:"LATENCY_MAX_MS" split_words:"true" default:"200"`
	FailureRate  float64 `envconfig:"FAILURE_RATE" split_words:"true" default:"0"`
}

func (c Config) Validate() error {
	if c.LatencyMinMS < 0 || c.LatencyMaxMS < 0 {
		return contract.NewError(contract.KindInvalidArgument, "latency bounds must be >= 0")
	}
	if c.LatencyMinMS > c.LatencyMaxMS {
		return contract.NewError(contract.KindInvalidArgument, "latency_min_ms must be <= latency_max_ms")
	}
	if c.FailureRate < 0 || c.FailureRate > 1 {
		return contract.NewError(contract.KindInvalidArgument, "failure_rate must be in [0,1]")
	}
	return nil
}

// Gateway routes (service, operation, args) triples to registered domain
// services and normalizes every outcome into an APIResult.
type Gateway struct {
	cfg      Config
	routes   map[string]map[string]services.Handler
	registry map[string]services.Service

	mu  sync.Mutex
	rng *rand.Rand
}

func New(cfg Config, svcs ...services.Service) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Gateway{
		cfg:      cfg,
		routes:   make(map[string]map[string]services.Handler, len(svcs)),
		registry: make(map[string]services.Service, len(svcs)),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, svc := range svcs {
		g.routes[svc.Name()] = svc.Operations()
		g.registry[svc.Name()] = svc
	}
	return g, nil
}

// Call dispatches one request. The simulated delay suspends only the
// calling goroutine; concurrent sessions are unaffected.
func (g *Gateway) Call(ctx context.Context, service, operation string, args map[string]any) contract.APIResult {
	requestID := uuid.NewString()
	start := time.Now()

	logger := log.With().
		Str("request_id", requestID).
		Str("service", service).
		Str("operation", operation).
		Logger()

	if err := g.simulateLatency(ctx); err != nil {
		logger.Warn().Err(err).Msg("gateway call canceled")
		return contract.ErrorResult(contract.KindTransientUnavailable, "request canceled", time.Since(start))
	}

	if g.shouldFail() {
		logger.Warn().Msg("injected transient failure")
		return contract.ErrorResult(contract.KindTransientUnavailable, "service temporarily unavailable", time.Since(start))
	}

	ops, ok := g.routes[service]
	if !ok {
		return contract.ErrorResult(contract.KindInvalidArgument, "unknown service: "+service, time.Since(start))
	}
	handler, ok := ops[operation]
	if !ok {
		return contract.ErrorResult(contract.KindInvalidArgument, "unknown operation: "+service+"."+operation, time.Since(start))
	}

	payload, err := handler(ctx, args)
	latency := time.Since(start)
	if err != nil {
		kind := contract.KindOf(err)
		if kind == contract.KindInternal {
			logger.Error().Err(err).Msg("domain service fault")
		} else {
			logger.Debug().Err(err).Msg("domain service rejected request")
		}
		return contract.ErrorResult(kind, err.Error(), latency)
	}

	logger.Debug().Dur("latency", latency).Msg("gateway call completed")
	return contract.OKResult(payload, latency)
}

func (g *Gateway) simulateLatency(ctx context.Context) error {
	g.mu.Lock()
	span := g.cfg.LatencyMaxMS - g.cfg.LatencyMinMS
	delayMS := g.cfg.LatencyMinMS
	if span > 0 {
		delayMS += g.rng.Intn(span + 1)
	}
	g.mu.Unlock()

	if delayMS <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(delayMS) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gateway) shouldFail() bool {
	if g.cfg.FailureRate <= 0 {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64() < g.cfg.FailureRate
}

// Stats reports per-service request counts, for the demo status output.
func (g *Gateway) Stats() map[string]int64 {
	out := make(map[string]int64, len(g.registry))
	for name, svc := range g.registry {
		out[name] = svc.RequestCount()
	}
	return out
}
