// Package decider provides decision capabilities that turn a session
// snapshot and the latest utterance into either a reply or a batch of
// tool calls. RuleDecider is the deterministic default; ModelDecider
// delegates to a tool-calling chat model.
package decider

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/tool"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking/services"
)

// RuleDecider maps utterances to tool calls with keyword intent matching
// and regex parameter extraction, then renders tool results into template
// replies. It is stateless and safe for concurrent use.
type RuleDecider struct{}

var _ contract.Decider = (*RuleDecider)(nil)

func NewRuleDecider() *RuleDecider { return &RuleDecider{} }

type intentRule struct {
	name     string
	keywords []string
}

// Order matters: the first rule with a matching keyword wins.
var intentRules = []intentRule{
	{"verify", []string{"verify", "date of birth", "ssn", "social security"}},
	{"balance_inquiry", []string{"balance", "how much", "available"}},
	{"lost_card", []string{"lost", "stolen", "missing card", "can't find my card"}},
	{"block_card", []string{"block", "freeze", "deactivate", "stop card"}},
	{"transaction_history", []string{"transactions", "history", "recent", "statement", "spending"}},
	{"transfer_funds", []string{"transfer", "send money", "move money"}},
	{"loan_inquiry", []string{"loan", "payment schedule", "payoff", "mortgage"}},
	{"support_ticket", []string{"complaint", "issue", "problem", "support ticket"}},
	{"account_info", []string{"accounts", "my accounts", "account details"}},
	{"card_info", []string{"cards", "credit card", "debit card", "card status"}},
	{"identify", []string{"my name", "identify", "phone", "email", "who am i"}},
}

var (
	phoneRe    = regexp.MustCompile(`\+?1[-.\s]\d{3}[-.\s]\d{4}|\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	emailRe    = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	lastFourRe = regexp.MustCompile(`(?:ending in |last four |card )(\d{4})`)
	amountRe   = regexp.MustCompile(`\$([\d,]+\.?\d*)`)
	accountRe  = regexp.MustCompile(`ACC\d+`)
	dobRe      = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	digitsRe   = regexp.MustCompile(`\b(\d{4})\b`)
)

type params struct {
	phone    string
	email    string
	lastFour string
	amount   float64
	accounts []string
	dob      string
}

func extract(utterance string) params {
	var p params
	if m := phoneRe.FindString(utterance); m != "" {
		p.phone = m
	}
	if m := emailRe.FindString(utterance); m != "" {
		p.email = m
	}
	if m := lastFourRe.FindStringSubmatch(utterance); m != nil {
		p.lastFour = m[1]
	}
	if m := amountRe.FindStringSubmatch(utterance); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			p.amount = v
		}
	}
	p.accounts = accountRe.FindAllString(utterance, -1)
	if m := dobRe.FindString(utterance); m != "" {
		p.dob = m
	}
	return p
}

func classify(utterance string) string {
	lower := strings.ToLower(utterance)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.name
			}
		}
	}
	return "general_inquiry"
}

func (d *RuleDecider) Decide(_ context.Context, snap contract.Snapshot, utterance string) (contract.Decision, error) {
	// Tool results recorded after the latest user turn belong to the turn
	// in flight; render them instead of planning another round.
	if results := currentTurnResults(snap.Turns); len(results) > 0 {
		return contract.Decision{Reply: renderResults(results)}, nil
	}

	p := extract(utterance)
	intent := classify(utterance)

	// An unidentified caller offering contact details is identifying,
	// whatever else the message says.
	if !snap.Identified() && (p.phone != "" || p.email != "") {
		intent = "identify"
	}

	calls := planCalls(snap, intent, utterance, p)
	if len(calls) == 0 {
		return contract.Decision{Reply: fallbackReply(snap)}, nil
	}
	return contract.Decision{ToolCalls: calls}, nil
}

func planCalls(snap contract.Snapshot, intent, utterance string, p params) []contract.ToolCall {
	identified := snap.Identified()

	switch intent {
	case "identify":
		if p.phone != "" {
			return []contract.ToolCall{call(tool.ToolIdentifyByPhone, map[string]any{"phone_number": p.phone})}
		}
		if p.email != "" {
			return []contract.ToolCall{call(tool.ToolIdentifyByEmail, map[string]any{"email": p.email})}
		}
		return nil

	case "verify":
		if !identified {
			return nil
		}
		ssn := p.lastFour
		if ssn == "" {
			if m := digitsRe.FindStringSubmatch(strings.ReplaceAll(utterance, p.dob, "")); m != nil {
				ssn = m[1]
			}
		}
		if ssn == "" || p.dob == "" {
			return nil
		}
		return []contract.ToolCall{call(tool.ToolVerifyIdentity, map[string]any{
			"ssn_last_four": ssn,
			"date_of_birth": p.dob,
		})}

	case "balance_inquiry":
		if identified {
			return []contract.ToolCall{call(tool.ToolAllBalances, nil)}
		}

	case "transaction_history":
		if identified {
			if len(p.accounts) > 0 {
				return []contract.ToolCall{call(tool.ToolRecentTxns, map[string]any{"account_id": p.accounts[0]})}
			}
			return []contract.ToolCall{call(tool.ToolCustomerAccounts, nil)}
		}

	case "account_info":
		if identified {
			return []contract.ToolCall{call(tool.ToolCustomerAccounts, nil)}
		}

	case "card_info":
		if identified {
			return []contract.ToolCall{call(tool.ToolCardSummary, nil)}
		}

	case "lost_card", "block_card":
		if identified {
			if p.lastFour != "" {
				return []contract.ToolCall{call(tool.ToolReportCardLost, map[string]any{
					"card_last_four": p.lastFour,
					"is_stolen":      strings.Contains(strings.ToLower(utterance), "stolen"),
				})}
			}
			return []contract.ToolCall{call(tool.ToolCardSummary, nil)}
		}

	case "loan_inquiry":
		if identified {
			return []contract.ToolCall{call(tool.ToolLoanSummary, nil)}
		}

	case "support_ticket":
		if identified {
			return []contract.ToolCall{call(tool.ToolOpenTickets, nil)}
		}

	case "transfer_funds":
		if identified {
			if len(p.accounts) >= 2 && p.amount > 0 {
				return []contract.ToolCall{call(tool.ToolTransferFunds, map[string]any{
					"from_account_id": p.accounts[0],
					"to_account_id":   p.accounts[1],
					"amount":          p.amount,
				})}
			}
			return []contract.ToolCall{call(tool.ToolCustomerAccounts, nil)}
		}

	default:
		if identified {
			return []contract.ToolCall{call(tool.ToolCustomerProfile, nil)}
		}
	}
	return nil
}

func call(name string, args map[string]any) contract.ToolCall {
	return contract.ToolCall{Name: name, Args: args, CorrelationID: uuid.NewString()}
}

// currentTurnResults collects the tool-result turns recorded since the
// latest user turn.
func currentTurnResults(turns []contract.Turn) []contract.Turn {
	var results []contract.Turn
	for i := len(turns) - 1; i >= 0; i-- {
		switch turns[i].Role {
		case contract.RoleUser:
			return results
		case contract.RoleTool:
			results = append([]contract.Turn{turns[i]}, results...)
		}
	}
	return results
}

func fallbackReply(snap contract.Snapshot) string {
	if !snap.Identified() {
		return "Hello! Welcome to SecureBank. To get started, could you please provide your phone number or email so I can look up your account?"
	}
	return "How can I assist you today? I can help with account balances, transactions, cards, loans, and support requests."
}

func renderResults(results []contract.Turn) string {
	parts := make([]string, 0, len(results))
	for _, turn := range results {
		if turn.Result == nil {
			continue
		}
		if text := renderResult(turn.ToolName, *turn.Result); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "I've processed your request. Is there anything else I can help you with?"
	}
	return strings.Join(parts, "\n\n")
}

func renderResult(toolName string, res contract.APIResult) string {
	if res.Status == contract.StatusError {
		return renderError(res)
	}

	switch payload := res.Payload.(type) {
	case services.CustomerInfo:
		return fmt.Sprintf("I found your account. Hello %s! You're registered as a %s customer. How can I assist you today?",
			payload.Name, payload.Segment)

	case services.VerificationOutcome:
		if payload.Verified {
			return "Thank you, your identity is fully verified. You now have access to all account services."
		}
		return "I'm sorry, those details don't match our records. Could you double-check your date of birth and the last four digits of your SSN?"

	case services.BalanceSummary:
		var b strings.Builder
		fmt.Fprintf(&b, "Your total balance across all accounts is $%s.\n\nHere's the breakdown:", payload.TotalBalance.StringFixed(2))
		for _, acc := range payload.Accounts {
			fmt.Fprintf(&b, "\n- %s (%s): $%s", titleCase(acc.Type), acc.AccountID, acc.Balance.StringFixed(2))
		}
		return b.String()

	case []services.AccountInfo:
		if len(payload) == 0 {
			return "You don't have any accounts on file."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "You have %d account(s):", len(payload))
		for _, acc := range payload {
			fmt.Fprintf(&b, "\n- %s (%s): $%s available - Status: %s",
				titleCase(acc.Type), acc.AccountID, acc.Balance.StringFixed(2), acc.Status)
		}
		return b.String()

	case []services.TransactionInfo:
		if len(payload) == 0 {
			return "No recent transactions found."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Here are your %d most recent transactions:", len(payload))
		for _, tx := range payload {
			fmt.Fprintf(&b, "\n- %s: %s - $%s (%s)",
				tx.Timestamp.Format("2006-01-02"), tx.Description, tx.Amount.Abs().StringFixed(2), tx.Type)
		}
		return b.String()

	case services.CardSummary:
		if len(payload.Cards) == 0 {
			return "You don't have any cards on file."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "You have %d card(s):", len(payload.Cards))
		for _, card := range payload.Cards {
			fmt.Fprintf(&b, "\n- %s card ending in %s: %s", titleCase(card.Type), card.LastFour, strings.ToUpper(card.Status))
			if card.CreditLimit.IsPositive() {
				fmt.Fprintf(&b, " (Credit limit: $%s, Balance: $%s)",
					card.CreditLimit.StringFixed(2), card.CreditUsed.StringFixed(2))
			}
		}
		return b.String()

	case services.LoanSummary:
		if len(payload.Loans) == 0 {
			return "You don't have any active loans."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "You have %d loan(s) with a total balance of $%s:", len(payload.Loans), payload.TotalBalance.StringFixed(2))
		for _, loan := range payload.Loans {
			fmt.Fprintf(&b, "\n- %s Loan (%s): $%s remaining", titleCase(loan.Type), loan.LoanID, loan.Balance.StringFixed(2))
			fmt.Fprintf(&b, "\n  Monthly payment: $%s - Next due: %s", loan.MonthlyPayment.StringFixed(2), loan.NextDueDate)
		}
		return b.String()

	case []services.TicketInfo:
		if len(payload) == 0 {
			return "You don't have any open support tickets."
		}
		var b strings.Builder
		fmt.Fprintf(&b, "You have %d open support ticket(s):", len(payload))
		for _, t := range payload {
			fmt.Fprintf(&b, "\n- %s: %s\n  Status: %s | Priority: %s", t.TicketID, t.Subject, t.Status, t.Priority)
		}
		return b.String()

	case services.TicketInfo:
		return fmt.Sprintf("I've updated ticket %s. Current status: %s.", payload.TicketID, payload.Status)

	case services.CustomerProfile:
		return fmt.Sprintf(
			"Here's your account overview:\n- Accounts: %d\n- Total value: $%s\n- Active loans: %d\n- Cards: %d\n- Open tickets: %d\n\nYou've been a valued customer for %d years.",
			payload.AccountsCount, payload.RelationshipValue.StringFixed(2), payload.ActiveLoansCount,
			payload.CardsCount, payload.OpenTicketsCount, payload.CustomerSinceYears)

	case services.TransferReceipt:
		return fmt.Sprintf(
			"Transfer completed successfully!\nReference number: %s\nAmount: $%s\nFrom account: %s\nTo account: %s",
			payload.Reference, payload.Amount.StringFixed(2), payload.FromAccount, payload.ToAccount)

	case []contract.SubResult:
		return renderFanOut(toolName, payload)
	}

	return "I've processed your request. Is there anything else I can help you with?"
}

func renderFanOut(toolName string, subs []contract.SubResult) string {
	if toolName != tool.ToolReportCardLost {
		return ""
	}
	var b strings.Builder
	b.WriteString("I've processed your card report.\n\nActions taken:")
	for _, sub := range subs {
		switch sub.Action {
		case "block_card":
			if sub.Status == contract.StatusOK {
				if outcome, ok := sub.Detail.(services.BlockOutcome); ok && outcome.AlreadyBlocked {
					b.WriteString("\n- The card was already blocked; no further block was needed")
				} else {
					b.WriteString("\n- The card has been blocked to prevent unauthorized use")
				}
			} else {
				fmt.Fprintf(&b, "\n- Blocking the card failed: %s", sub.Error)
			}
		case "recent_activity":
			if sub.Status == contract.StatusOK {
				if txs, ok := sub.Detail.([]services.TransactionInfo); ok {
					fmt.Fprintf(&b, "\n- Reviewed the last %d transactions on the linked account", len(txs))
				}
			} else {
				b.WriteString("\n- Recent activity could not be retrieved; please review your statement")
			}
		case "fraud_ticket":
			if sub.Status == contract.StatusOK {
				if t, ok := sub.Detail.(services.TicketInfo); ok {
					fmt.Fprintf(&b, "\n- Opened fraud ticket %s with urgent priority", t.TicketID)
				}
			} else {
				b.WriteString("\n- A fraud ticket could not be opened automatically; our team has been notified")
			}
		}
	}
	b.WriteString("\n\nA replacement card will arrive within 5-7 business days.")
	return b.String()
}

// renderError hides the raw error taxonomy from the user and turns each
// kind into a natural explanation.
func renderError(res contract.APIResult) string {
	switch res.ErrorKind {
	case contract.KindNotAuthorized:
		return "For your security, I need to confirm your identity before I can help with that. Could you provide your phone number or email on file?"
	case contract.KindNotFound:
		return "I couldn't find a matching record. Could you double-check the details and try again?"
	case contract.KindBusinessRuleViolation:
		return fmt.Sprintf("I wasn't able to complete that request: %s.", res.ErrorMsg)
	case contract.KindInvalidArgument:
		return "I'm missing some details to do that. Could you rephrase your request with the specific account or card?"
	case contract.KindTransientUnavailable:
		return "Our systems are a little busy right now. Please try that again in a moment."
	default:
		return "Something went wrong on our side while processing that. Our team has been notified; please try again shortly."
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ReplaceAll(s[1:], "_", " ")
}
