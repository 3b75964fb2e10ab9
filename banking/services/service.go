// Package services implements the six domain data services exposed to the
// gateway: customer, account, transaction, loan, card, and support. Each
// service is a thin operation table over the shared banking store.
package services

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
)

// Handler executes one named operation against the backing store.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Service is the contract a domain service exposes to the gateway: a stable
// name and its operation table.
type Service interface {
	Name() string
	Operations() map[string]Handler
	RequestCount() int64
}

// counter tracks served requests per service for the stats snapshot.
type counter struct {
	n atomic.Int64
}

func (c *counter) inc()         { c.n.Add(1) }
func (c *counter) value() int64 { return c.n.Load() }

func yearsSince(t time.Time) int {
	years := time.Now().Year() - t.Year()
	if years < 0 {
		return 0
	}
	return years
}

/* --------------------------- argument decoding --------------------------- */

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", contract.Errorf(contract.KindInvalidArgument, "missing argument %q", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", contract.Errorf(contract.KindInvalidArgument, "argument %q must be a non-empty string", key)
	}
	return s, nil
}

func optionalStringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// decimalArg accepts JSON numbers and numeric strings; tool arguments arrive
// through both paths depending on the decision capability in use.
func decimalArg(args map[string]any, key string) (decimal.Decimal, error) {
	v, ok := args[key]
	if !ok {
		return decimal.Zero, contract.Errorf(contract.KindInvalidArgument, "missing argument %q", key)
	}
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case string:
		dec, err := decimal.NewFromString(t)
		if err != nil {
			return decimal.Zero, contract.Errorf(contract.KindInvalidArgument, "argument %q is not a valid amount", key)
		}
		return dec, nil
	default:
		return decimal.Zero, contract.Errorf(contract.KindInvalidArgument, "argument %q must be numeric", key)
	}
}
