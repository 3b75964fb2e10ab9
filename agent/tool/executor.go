package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking"
)

const (
	maxRetries     = 2
	initialBackoff = 50 * time.Millisecond
)

// Executor validates tool calls and dispatches them to the gateway. The
// validation chain short-circuits on the first failure: schema check,
// authorization, referential check, business rules, then dispatch. A failed
// call never reaches the gateway.
//
// The executor reads the banking store directly for ownership and balance
// checks; mutations always go through the gateway so they pick up simulated
// latency and failure injection.
type Executor struct {
	gateway contract.Gateway
	store   *banking.Store
	catalog map[string]Spec
	retries int
	backoff time.Duration
}

var _ contract.ToolExecutor = (*Executor)(nil)

func NewExecutor(gateway contract.Gateway, store *banking.Store) *Executor {
	return &Executor{
		gateway: gateway,
		store:   store,
		catalog: Catalog(),
		retries: maxRetries,
		backoff: initialBackoff,
	}
}

// Spec returns the catalog entry for a tool name.
func (e *Executor) Spec(name string) (Spec, bool) {
	s, ok := e.catalog[name]
	return s, ok
}

// RequiresConfirmation reports whether a proposed call must be confirmed
// by the user before dispatch.
func (e *Executor) RequiresConfirmation(name string) bool {
	s, ok := e.catalog[name]
	return ok && s.NeedsConfirm
}

func (e *Executor) Execute(ctx context.Context, call contract.ToolCall, snap contract.Snapshot) contract.APIResult {
	spec, ok := e.catalog[call.Name]
	if !ok {
		return contract.ErrorResult(contract.KindInvalidArgument, fmt.Sprintf("unknown tool %q", call.Name), 0)
	}

	args := cloneArgs(call.Args)

	if kind, msg, ok := validateArgs(spec, args); !ok {
		log.Debug().Str("tool", call.Name).Str("reason", msg).Msg("tool call rejected before dispatch")
		return contract.ErrorResult(kind, msg, 0)
	}
	if kind, msg, ok := authorize(spec, snap); !ok {
		log.Debug().Str("tool", call.Name).Str("reason", msg).Msg("tool call rejected before dispatch")
		return contract.ErrorResult(kind, msg, 0)
	}
	if spec.InjectCustomer {
		args["customer_id"] = snap.CustomerID
	}
	if kind, msg, ok := e.checkReferences(spec, args, snap); !ok {
		log.Debug().Str("tool", call.Name).Str("reason", msg).Msg("tool call rejected before dispatch")
		return contract.ErrorResult(kind, msg, 0)
	}
	if kind, msg, ok := e.checkBusinessRules(spec, args); !ok {
		log.Debug().Str("tool", call.Name).Str("reason", msg).Msg("tool call rejected before dispatch")
		return contract.ErrorResult(kind, msg, 0)
	}

	if call.Name == ToolReportCardLost {
		return e.reportCardLostStolen(ctx, args, snap)
	}

	res := e.callWithRetry(ctx, spec.Service, spec.Operation, args)
	if spec.Identity {
		return guardRebind(res, snap)
	}
	return res
}

// authorize enforces the verification gate. Identification tools are
// exempt so an anonymous caller can establish who they are.
func authorize(spec Spec, snap contract.Snapshot) (contract.ErrorKind, string, bool) {
	if spec.Identity {
		return "", "", true
	}
	if !snap.Identified() {
		return contract.KindNotAuthorized, "customer must be identified first", false
	}
	if spec.Sensitive && snap.Verification < contract.VerificationBasic {
		return contract.KindNotAuthorized, fmt.Sprintf("%s requires identity verification", spec.Name), false
	}
	return "", "", true
}

// validateArgs checks that required arguments are present and every supplied
// argument has the declared type. Unknown extra arguments are ignored.
func validateArgs(spec Spec, args map[string]any) (contract.ErrorKind, string, bool) {
	for _, a := range spec.Args {
		v, present := args[a.Name]
		if !present {
			if a.Required {
				return contract.KindInvalidArgument, fmt.Sprintf("missing required argument %q", a.Name), false
			}
			continue
		}
		if !typeMatches(a.Type, v) {
			return contract.KindInvalidArgument, fmt.Sprintf("argument %q must be a %s", a.Name, typeName(a.Type)), false
		}
		if a.Required && a.Type == schema.String && v.(string) == "" {
			return contract.KindInvalidArgument, fmt.Sprintf("argument %q must not be empty", a.Name), false
		}
	}
	return "", "", true
}

func typeMatches(t schema.DataType, v any) bool {
	switch t {
	case schema.String:
		_, ok := v.(string)
		return ok
	case schema.Boolean:
		_, ok := v.(bool)
		return ok
	case schema.Number:
		switch v.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case schema.Integer:
		switch n := v.(type) {
		case int, int64:
			return true
		case float64:
			// JSON decoding yields float64 for every number.
			return n == float64(int64(n))
		}
		return false
	default:
		return true
	}
}

func typeName(t schema.DataType) string {
	switch t {
	case schema.Number:
		return "number"
	case schema.Integer:
		return "whole number"
	case schema.Boolean:
		return "boolean"
	default:
		return "string"
	}
}

// checkReferences verifies that every referenced entity belongs to the
// session's customer. Cross-customer access fails closed as NOT_FOUND so
// the existence of another customer's records is never revealed.
func (e *Executor) checkReferences(spec Spec, args map[string]any, snap contract.Snapshot) (contract.ErrorKind, string, bool) {
	for name, kind := range spec.Refs {
		id, ok := args[name].(string)
		if !ok {
			continue
		}
		owner, found := e.owner(kind, id)
		if !found || owner != snap.CustomerID {
			return contract.KindNotFound, fmt.Sprintf("%s %s not found", kind, id), false
		}
	}
	return "", "", true
}

func (e *Executor) owner(kind RefKind, id string) (string, bool) {
	switch kind {
	case RefAccount:
		if a, ok := e.store.Account(id); ok {
			return a.CustomerID, true
		}
	case RefCard:
		if c, ok := e.store.Card(id); ok {
			return c.CustomerID, true
		}
	case RefLoan:
		if l, ok := e.store.Loan(id); ok {
			return l.CustomerID, true
		}
	case RefTicket:
		if t, ok := e.store.Ticket(id); ok {
			return t.CustomerID, true
		}
	}
	return "", false
}

// checkBusinessRules applies pre-dispatch domain rules. The store enforces
// the same invariants atomically at mutation time; checking here names the
// violated rule before any gateway latency is paid.
func (e *Executor) checkBusinessRules(spec Spec, args map[string]any) (contract.ErrorKind, string, bool) {
	if spec.Name != ToolTransferFunds {
		return "", "", true
	}
	from, _ := args["from_account_id"].(string)
	to, _ := args["to_account_id"].(string)
	if from == to {
		return contract.KindBusinessRuleViolation, "transfer requires two distinct accounts", false
	}
	amount := numberArg(args, "amount")
	if !amount.IsPositive() {
		return contract.KindBusinessRuleViolation, "transfer amount must be positive", false
	}
	src, ok := e.store.Account(from)
	if ok && amount.GreaterThan(src.Balance) {
		return contract.KindBusinessRuleViolation, fmt.Sprintf("insufficient funds in %s", from), false
	}
	return "", "", true
}

// guardRebind rejects an identification result that resolves to a customer
// other than the one the session is already bound to.
func guardRebind(res contract.APIResult, snap contract.Snapshot) contract.APIResult {
	if res.Status != contract.StatusOK || !snap.Identified() {
		return res
	}
	id := payloadCustomerID(res.Payload)
	if id != "" && id != snap.CustomerID {
		return contract.ErrorResult(contract.KindBusinessRuleViolation,
			"session is already bound to a different customer", res.Latency)
	}
	return res
}

// reportCardLostStolen fans out into block, recent-activity, and, for a
// theft, a fraud ticket. Legs run sequentially in that order and already
// applied side effects are never rolled back; a failed leg is reported in
// the partial-failure payload instead.
func (e *Executor) reportCardLostStolen(ctx context.Context, args map[string]any, snap contract.Snapshot) contract.APIResult {
	lastFour, _ := args["card_last_four"].(string)
	stolen, _ := args["is_stolen"].(bool)

	card, ok := e.store.CustomerCardByLastFour(snap.CustomerID, lastFour)
	if !ok {
		return contract.ErrorResult(contract.KindNotFound, fmt.Sprintf("no card ending in %s found", lastFour), 0)
	}

	reason := "lost"
	if stolen {
		reason = "stolen"
	}

	start := time.Now()
	subs := make([]contract.SubResult, 0, 3)

	blockRes := e.callWithRetry(ctx, "card", "block_card", map[string]any{
		"card_id": card.ID,
		"reason":  reason,
	})
	subs = append(subs, subResult("block_card", blockRes))

	if card.AccountID != "" {
		activityRes := e.callWithRetry(ctx, "transaction", "get_recent_transactions", map[string]any{
			"account_id": card.AccountID,
			"limit":      5,
			"days":       7,
		})
		subs = append(subs, subResult("recent_activity", activityRes))
	}

	if stolen && blockRes.Status == contract.StatusOK {
		ticketRes := e.callWithRetry(ctx, "support", "create_ticket", map[string]any{
			"customer_id": snap.CustomerID,
			"subject":     fmt.Sprintf("Stolen card ending %s", lastFour),
			"description": fmt.Sprintf("Customer reported card %s stolen; card has been blocked pending fraud review.", card.Masked()),
			"category":    "fraud",
			"priority":    "urgent",
		})
		subs = append(subs, subResult("fraud_ticket", ticketRes))
	}

	return aggregate(subs, time.Since(start))
}

func subResult(action string, res contract.APIResult) contract.SubResult {
	sub := contract.SubResult{Action: action, Status: res.Status}
	if res.Status == contract.StatusOK {
		sub.Detail = res.Payload
	} else {
		sub.Error = res.ErrorMsg
	}
	return sub
}

// aggregate folds fan-out legs into one result. All legs OK means OK; a
// mixed outcome is an error carrying every leg so the caller can report
// exactly which sub-actions succeeded.
func aggregate(subs []contract.SubResult, elapsed time.Duration) contract.APIResult {
	failed := 0
	var firstKind contract.ErrorKind
	for _, sub := range subs {
		if sub.Status == contract.StatusError {
			failed++
			if firstKind == "" {
				firstKind = contract.KindInternal
			}
		}
	}
	if failed == 0 {
		return contract.OKResult(subs, elapsed)
	}
	res := contract.ErrorResult(contract.KindInternal,
		fmt.Sprintf("%d of %d sub-actions failed", failed, len(subs)), elapsed)
	res.Payload = subs
	return res
}

// callWithRetry dispatches one gateway request, retrying only transient
// failures with doubling backoff. Every other error kind is terminal for
// the call.
func (e *Executor) callWithRetry(ctx context.Context, service, operation string, args map[string]any) contract.APIResult {
	var res contract.APIResult
	delay := e.backoff
	for attempt := 0; ; attempt++ {
		res = e.gateway.Call(ctx, service, operation, args)
		if res.Status == contract.StatusOK || !res.ErrorKind.Retryable() || attempt >= e.retries {
			return res
		}
		log.Warn().
			Str("service", service).
			Str("operation", operation).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("transient gateway failure, retrying")
		select {
		case <-ctx.Done():
			return contract.ErrorResult(contract.KindTransientUnavailable, "request canceled during retry backoff", res.Latency)
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func cloneArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args)+1)
	for k, v := range args {
		out[k] = v
	}
	return out
}
