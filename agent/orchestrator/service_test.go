package orchestrator

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/decider"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/state"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/tool"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking/gateway"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking/services"
)

func newTestAgent(t *testing.T) (*Agent, *banking.Store) {
	t.Helper()
	store := banking.NewSeededStore()
	gw, err := gateway.New(gateway.Config{},
		services.NewCustomerService(store),
		services.NewAccountService(store),
		services.NewTransactionService(store),
		services.NewLoanService(store),
		services.NewCardService(store),
		services.NewSupportService(store),
	)
	require.NoError(t, err)

	agent, err := New(context.Background(), decider.NewRuleDecider(), tool.NewExecutor(gw, store), state.NewMemoryStore())
	require.NoError(t, err)
	return agent, store
}

func TestSubmitTurnValidatesInput(t *testing.T) {
	t.Parallel()

	agent, _ := newTestAgent(t)
	ctx := context.Background()

	_, err := agent.SubmitTurn(ctx, "", "hello")
	require.Error(t, err)

	_, err = agent.SubmitTurn(ctx, "s1", "   ")
	require.Error(t, err)
}

func TestIdentifyThenBalanceScenario(t *testing.T) {
	t.Parallel()

	agent, _ := newTestAgent(t)
	ctx := context.Background()

	reply, err := agent.SubmitTurn(ctx, "sess-balance", "Hi, my phone number is +1-555-0101")
	require.NoError(t, err)
	require.Contains(t, reply, "John Anderson")

	reply, err = agent.SubmitTurn(ctx, "sess-balance", "what's my balance")
	require.NoError(t, err)
	// ACC001 15432.67 + ACC002 52150.00
	require.Contains(t, reply, "67582.67")
	require.Contains(t, reply, "ACC001")
	require.Contains(t, reply, "15432.67")
	require.Contains(t, reply, "ACC002")
	require.Contains(t, reply, "52150.00")
}

func TestUnidentifiedBalanceAsksForIdentity(t *testing.T) {
	t.Parallel()

	agent, _ := newTestAgent(t)

	reply, err := agent.SubmitTurn(context.Background(), "sess-anon", "what's my balance")
	require.NoError(t, err)
	require.Contains(t, reply, "phone number or email")
}

func TestLostCardReportScenario(t *testing.T) {
	t.Parallel()

	agent, store := newTestAgent(t)
	ctx := context.Background()

	_, err := agent.SubmitTurn(ctx, "sess-card", "Hi, my phone number is +1-555-0101")
	require.NoError(t, err)

	reply, err := agent.SubmitTurn(ctx, "sess-card", "I lost my card ending in 4521")
	require.NoError(t, err)
	require.Contains(t, reply, "blocked")

	card, _ := store.Card("CARD001")
	require.Equal(t, banking.CardReportedLost, card.Status)
	require.True(t, card.ReplacementQueued)

	// Repeating the report in the same session succeeds without queueing
	// a second replacement.
	reply, err = agent.SubmitTurn(ctx, "sess-card", "I lost my card ending in 4521")
	require.NoError(t, err)
	require.Contains(t, reply, "already blocked")

	card, _ = store.Card("CARD001")
	require.Equal(t, banking.CardReportedLost, card.Status)
}

func TestStolenCardOpensFraudTicket(t *testing.T) {
	t.Parallel()

	agent, store := newTestAgent(t)
	ctx := context.Background()

	_, err := agent.SubmitTurn(ctx, "sess-stolen", "Hi, my phone number is +1-555-0101")
	require.NoError(t, err)

	reply, err := agent.SubmitTurn(ctx, "sess-stolen", "my card ending in 4521 was stolen")
	require.NoError(t, err)
	require.Contains(t, reply, "fraud ticket")

	tickets := store.CustomerTickets("CUST001", false)
	require.NotEmpty(t, tickets)
}

func TestTransferInsufficientFundsScenario(t *testing.T) {
	t.Parallel()

	agent, store := newTestAgent(t)
	ctx := context.Background()
	before, _ := store.Account("ACC001")

	_, err := agent.SubmitTurn(ctx, "sess-transfer", "Hi, my phone number is +1-555-0101")
	require.NoError(t, err)

	// The transfer is confirm gated: the first proposal suspends.
	reply, err := agent.SubmitTurn(ctx, "sess-transfer", "transfer $999999 from ACC001 to ACC002")
	require.NoError(t, err)
	require.Contains(t, reply, "confirm")

	reply, err = agent.SubmitTurn(ctx, "sess-transfer", "yes")
	require.NoError(t, err)
	require.Contains(t, reply, "insufficient funds")
	require.NotContains(t, reply, "BUSINESS_RULE_VIOLATION")

	after, _ := store.Account("ACC001")
	require.True(t, after.Balance.Equal(before.Balance), "a rejected transfer must not move money")
}

func TestTransferConfirmedSucceeds(t *testing.T) {
	t.Parallel()

	agent, store := newTestAgent(t)
	ctx := context.Background()
	before, _ := store.Account("ACC001")

	_, err := agent.SubmitTurn(ctx, "sess-xfer-ok", "Hi, my phone number is +1-555-0101")
	require.NoError(t, err)

	_, err = agent.SubmitTurn(ctx, "sess-xfer-ok", "transfer $250 from ACC001 to ACC002")
	require.NoError(t, err)

	reply, err := agent.SubmitTurn(ctx, "sess-xfer-ok", "yes")
	require.NoError(t, err)
	require.Contains(t, reply, "Transfer completed")

	after, _ := store.Account("ACC001")
	require.True(t, after.Balance.Equal(before.Balance.Sub(decimal.NewFromInt(250))))
}

func TestTransferDeclinedIsCancelled(t *testing.T) {
	t.Parallel()

	agent, store := newTestAgent(t)
	ctx := context.Background()
	before, _ := store.Account("ACC001")

	_, err := agent.SubmitTurn(ctx, "sess-xfer-no", "Hi, my phone number is +1-555-0101")
	require.NoError(t, err)

	_, err = agent.SubmitTurn(ctx, "sess-xfer-no", "transfer $250 from ACC001 to ACC002")
	require.NoError(t, err)

	reply, err := agent.SubmitTurn(ctx, "sess-xfer-no", "no")
	require.NoError(t, err)
	require.Contains(t, reply, "cancelled")

	after, _ := store.Account("ACC001")
	require.True(t, after.Balance.Equal(before.Balance), "a declined transfer must not move money")
}

func TestSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	agent, _ := newTestAgent(t)
	ctx := context.Background()

	_, err := agent.SubmitTurn(ctx, "sess-a", "Hi, my phone number is +1-555-0101")
	require.NoError(t, err)

	// A different session remains unidentified.
	reply, err := agent.SubmitTurn(ctx, "sess-b", "what's my balance")
	require.NoError(t, err)
	require.Contains(t, reply, "phone number or email")
}

// loopingDecider always proposes another tool call, exercising the round
// bound.
type loopingDecider struct{}

func (loopingDecider) Decide(context.Context, contract.Snapshot, string) (contract.Decision, error) {
	return contract.Decision{ToolCalls: []contract.ToolCall{
		{Name: tool.ToolCustomerAccounts, CorrelationID: "loop"},
	}}, nil
}

func TestToolRoundBoundForcesFallback(t *testing.T) {
	t.Parallel()

	store := banking.NewSeededStore()
	gw, err := gateway.New(gateway.Config{},
		services.NewCustomerService(store),
		services.NewAccountService(store),
	)
	require.NoError(t, err)

	agent, err := New(context.Background(), loopingDecider{}, tool.NewExecutor(gw, store), state.NewMemoryStore())
	require.NoError(t, err)

	reply, err := agent.SubmitTurn(context.Background(), "sess-loop", "anything at all")
	require.NoError(t, err)
	require.Equal(t, overflowReply, reply)
}

func TestEndSessionReportsStats(t *testing.T) {
	t.Parallel()

	agent, _ := newTestAgent(t)
	ctx := context.Background()

	_, err := agent.SubmitTurn(ctx, "sess-end", "Hi, my phone number is +1-555-0101")
	require.NoError(t, err)

	stats, err := agent.EndSession(ctx, "sess-end")
	require.NoError(t, err)
	require.Equal(t, "sess-end", stats.SessionID)
	require.True(t, stats.Identified)
	require.Greater(t, stats.Turns, 0)

	_, err = agent.EndSession(ctx, "sess-end")
	require.ErrorIs(t, err, state.ErrStateNotFound)
}
