package decider

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/tool"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking/services"
)

func anonymousSnap() contract.Snapshot {
	return contract.Snapshot{SessionID: "s1"}
}

func identifiedSnap() contract.Snapshot {
	return contract.Snapshot{SessionID: "s1", CustomerID: "CUST001", Verification: contract.VerificationBasic}
}

func decide(t *testing.T, snap contract.Snapshot, utterance string) contract.Decision {
	t.Helper()
	d, err := NewRuleDecider().Decide(context.Background(), snap, utterance)
	require.NoError(t, err)
	return d
}

func TestClassifyIntent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		utterance string
		want      string
	}{
		{"What's my balance?", "balance_inquiry"},
		{"I lost my card ending in 4521", "lost_card"},
		{"my card was stolen", "lost_card"},
		{"please freeze my debit card", "block_card"},
		{"show me my recent transactions", "transaction_history"},
		{"transfer $500 to savings", "transfer_funds"},
		{"when is my loan payment due", "loan_inquiry"},
		{"I have a problem with a charge", "support_ticket"},
		{"list my accounts", "account_info"},
		{"good morning", "general_inquiry"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, classify(tc.utterance), "utterance %q", tc.utterance)
	}
}

func TestExtractParameters(t *testing.T) {
	t.Parallel()

	p := extract("Hi, my phone number is +1-555-0101")
	require.Equal(t, "+1-555-0101", p.phone)

	p = extract("you can reach me at john.anderson@email.com")
	require.Equal(t, "john.anderson@email.com", p.email)

	p = extract("I lost my card ending in 4521")
	require.Equal(t, "4521", p.lastFour)

	p = extract("move $1,250.50 from ACC001 to ACC002")
	require.InDelta(t, 1250.50, p.amount, 0.001)
	require.Equal(t, []string{"ACC001", "ACC002"}, p.accounts)

	p = extract("born 1985-03-15, ssn ends 4521")
	require.Equal(t, "1985-03-15", p.dob)
}

func TestDecideIdentification(t *testing.T) {
	t.Parallel()

	d := decide(t, anonymousSnap(), "Hi, my phone number is +1-555-0101")
	require.False(t, d.IsReply())
	require.Len(t, d.ToolCalls, 1)
	require.Equal(t, tool.ToolIdentifyByPhone, d.ToolCalls[0].Name)
	require.Equal(t, "+1-555-0101", d.ToolCalls[0].Args["phone_number"])
	require.NotEmpty(t, d.ToolCalls[0].CorrelationID)
}

func TestDecideUnidentifiedGetsGreeting(t *testing.T) {
	t.Parallel()

	d := decide(t, anonymousSnap(), "what's my balance")
	require.True(t, d.IsReply())
	require.Contains(t, d.Reply, "phone number or email")
}

func TestDecideBalanceInquiry(t *testing.T) {
	t.Parallel()

	d := decide(t, identifiedSnap(), "what's my balance")
	require.Len(t, d.ToolCalls, 1)
	require.Equal(t, tool.ToolAllBalances, d.ToolCalls[0].Name)
}

func TestDecideLostCardWithLastFour(t *testing.T) {
	t.Parallel()

	d := decide(t, identifiedSnap(), "I lost my card ending in 4521")
	require.Len(t, d.ToolCalls, 1)
	require.Equal(t, tool.ToolReportCardLost, d.ToolCalls[0].Name)
	require.Equal(t, "4521", d.ToolCalls[0].Args["card_last_four"])
	require.Equal(t, false, d.ToolCalls[0].Args["is_stolen"])

	d = decide(t, identifiedSnap(), "my card ending in 4521 was stolen")
	require.Equal(t, true, d.ToolCalls[0].Args["is_stolen"])
}

func TestDecideTransferWithFullDetails(t *testing.T) {
	t.Parallel()

	d := decide(t, identifiedSnap(), "transfer $500 from ACC001 to ACC002")
	require.Len(t, d.ToolCalls, 1)
	require.Equal(t, tool.ToolTransferFunds, d.ToolCalls[0].Name)
	require.Equal(t, "ACC001", d.ToolCalls[0].Args["from_account_id"])
	require.Equal(t, "ACC002", d.ToolCalls[0].Args["to_account_id"])
	require.Equal(t, 500.0, d.ToolCalls[0].Args["amount"])
}

func TestDecideRendersToolResults(t *testing.T) {
	t.Parallel()

	snap := identifiedSnap()
	summary := services.BalanceSummary{
		CustomerID:   "CUST001",
		TotalBalance: decimal.RequireFromString("67582.67"),
		Accounts: []services.AccountInfo{
			{AccountID: "ACC001", Type: "checking", Balance: decimal.RequireFromString("15432.67")},
			{AccountID: "ACC002", Type: "savings", Balance: decimal.RequireFromString("52150.00")},
		},
	}
	res := contract.OKResult(summary, 0)
	snap.Turns = []contract.Turn{
		{Role: contract.RoleUser, Text: "what's my balance", Timestamp: time.Now()},
		{Role: contract.RoleTool, ToolName: tool.ToolAllBalances, Result: &res, Timestamp: time.Now()},
	}

	d := decide(t, snap, "what's my balance")
	require.True(t, d.IsReply())
	require.Contains(t, d.Reply, "67582.67")
	require.Contains(t, d.Reply, "ACC001")
	require.Contains(t, d.Reply, "15432.67")
	require.Contains(t, d.Reply, "52150.00")
}

func TestDecideHidesErrorTaxonomy(t *testing.T) {
	t.Parallel()

	snap := identifiedSnap()
	res := contract.ErrorResult(contract.KindNotAuthorized, "check_account_balance requires identity verification", 0)
	snap.Turns = []contract.Turn{
		{Role: contract.RoleUser, Text: "what's my balance"},
		{Role: contract.RoleTool, ToolName: tool.ToolAccountBalance, Result: &res},
	}

	d := decide(t, snap, "what's my balance")
	require.True(t, d.IsReply())
	require.NotContains(t, d.Reply, "NOT_AUTHORIZED")
	require.Contains(t, d.Reply, "confirm your identity")
}

func TestDecideRendersOnlyCurrentTurnResults(t *testing.T) {
	t.Parallel()

	snap := identifiedSnap()
	old := contract.OKResult(services.CustomerProfile{AccountsCount: 2}, 0)
	snap.Turns = []contract.Turn{
		{Role: contract.RoleUser, Text: "overview please"},
		{Role: contract.RoleTool, ToolName: tool.ToolCustomerProfile, Result: &old},
		{Role: contract.RoleAssistant, Text: "here is your overview"},
		{Role: contract.RoleUser, Text: "what's my balance"},
	}

	d := decide(t, snap, "what's my balance")
	require.False(t, d.IsReply(), "stale tool results must not short-circuit a new request")
	require.Equal(t, tool.ToolAllBalances, d.ToolCalls[0].Name)
}
