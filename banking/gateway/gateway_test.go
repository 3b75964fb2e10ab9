package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking/services"
)

func newTestGateway(t *testing.T, cfg Config) *Gateway {
	t.Helper()
	store := banking.NewSeededStore()
	gw, err := New(cfg,
		services.NewCustomerService(store),
		services.NewAccountService(store),
	)
	require.NoError(t, err)
	return gw
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{LatencyMinMS: 50, LatencyMaxMS: 200}, false},
		{"zero latency", Config{}, false},
		{"min above max", Config{LatencyMinMS: 10, LatencyMaxMS: 5}, true},
		{"negative latency", Config{LatencyMinMS: -1}, true},
		{"failure rate above one", Config{FailureRate: 1.5}, true},
		{"negative failure rate", Config{FailureRate: -0.1}, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.cfg.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCallRoutesToService(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, Config{})
	res := gw.Call(context.Background(), "customer", "get_customer_by_phone", map[string]any{
		"phone_number": "+1-555-0101",
	})
	require.Equal(t, contract.StatusOK, res.Status)

	info, ok := res.Payload.(services.CustomerInfo)
	require.True(t, ok)
	require.Equal(t, "CUST001", info.CustomerID)
}

func TestCallUnknownServiceAndOperation(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, Config{})

	res := gw.Call(context.Background(), "nonexistent", "get", nil)
	require.Equal(t, contract.StatusError, res.Status)
	require.Equal(t, contract.KindInvalidArgument, res.ErrorKind)

	res = gw.Call(context.Background(), "customer", "nonexistent_op", nil)
	require.Equal(t, contract.StatusError, res.Status)
	require.Equal(t, contract.KindInvalidArgument, res.ErrorKind)
}

func TestCallNormalizesDomainErrors(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, Config{})
	res := gw.Call(context.Background(), "customer", "get_customer", map[string]any{
		"customer_id": "CUST999",
	})
	require.Equal(t, contract.StatusError, res.Status)
	require.Equal(t, contract.KindNotFound, res.ErrorKind)
	require.NotEmpty(t, res.ErrorMsg)
}

func TestCallSimulatedLatencyWithinBounds(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, Config{LatencyMinMS: 20, LatencyMaxMS: 40})
	start := time.Now()
	res := gw.Call(context.Background(), "customer", "get_customer", map[string]any{
		"customer_id": "CUST001",
	})
	elapsed := time.Since(start)

	require.Equal(t, contract.StatusOK, res.Status)
	require.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	require.GreaterOrEqual(t, res.Latency, 20*time.Millisecond)
}

func TestCallInjectedFailure(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, Config{FailureRate: 1})
	res := gw.Call(context.Background(), "customer", "get_customer", map[string]any{
		"customer_id": "CUST001",
	})
	require.Equal(t, contract.StatusError, res.Status)
	require.Equal(t, contract.KindTransientUnavailable, res.ErrorKind)
}

func TestCallCancellationDuringLatency(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, Config{LatencyMinMS: 200, LatencyMaxMS: 200})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	res := gw.Call(ctx, "customer", "get_customer", map[string]any{"customer_id": "CUST001"})
	require.Equal(t, contract.StatusError, res.Status)
	require.Equal(t, contract.KindTransientUnavailable, res.ErrorKind)
}

func TestStatsCountsRequests(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, Config{})
	for i := 0; i < 3; i++ {
		gw.Call(context.Background(), "customer", "get_customer", map[string]any{"customer_id": "CUST001"})
	}
	require.EqualValues(t, 3, gw.Stats()["customer"])
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(Config{LatencyMinMS: 5, LatencyMaxMS: 1})
	require.Error(t, err)
}
