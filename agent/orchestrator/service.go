// Package orchestrator is the agent core: it drives the per-turn decision
// loop, executes proposed tool calls in order, and owns session state for
// the duration of each turn.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/state"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/tool"
)

// maxToolRounds bounds decision rounds per user turn so a misbehaving
// decision step cannot loop forever.
const maxToolRounds = 4

const overflowReply = "I'm sorry, I wasn't able to complete that request automatically. Please contact support or try rephrasing."

// executor is the slice of the tool executor the agent core needs.
type executor interface {
	contract.ToolExecutor
	RequiresConfirmation(name string) bool
}

var _ executor = (*tool.Executor)(nil)

// TurnRequest is one user utterance addressed to a session.
type TurnRequest struct {
	SessionID string
	Utterance string
}

// TurnResponse is the reply emitted when the turn reaches its terminal
// state.
type TurnResponse struct {
	SessionID string
	Reply     string
}

// Agent serializes turns per session and runs each through the compiled
// turn graph. Different sessions proceed concurrently.
type Agent struct {
	decider  contract.Decider
	executor executor
	sessions state.Store
	runner   compose.Runnable[TurnRequest, TurnResponse]

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

func New(ctx context.Context, decider contract.Decider, exec executor, sessions state.Store) (*Agent, error) {
	a := &Agent{
		decider:  decider,
		executor: exec,
		sessions: sessions,
		locks:    make(map[string]*sync.Mutex),
		now:      time.Now,
	}
	runner, err := compileTurnGraph(ctx, a)
	if err != nil {
		return nil, err
	}
	a.runner = runner
	return a, nil
}

// SubmitTurn processes one user utterance and returns the reply text. A
// session is created on the first turn with an unseen id.
func (a *Agent) SubmitTurn(ctx context.Context, sessionID, utterance string) (string, error) {
	lock := a.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	out, err := a.runner.Invoke(ctx, TurnRequest{SessionID: sessionID, Utterance: utterance})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

// EndSession tears the session down and returns its closing stats.
func (a *Agent) EndSession(ctx context.Context, sessionID string) (state.Stats, error) {
	lock := a.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := a.sessions.Load(ctx, sessionID)
	if err != nil {
		return state.Stats{}, err
	}
	stats := sess.Stats(a.now())
	if err := a.sessions.Delete(ctx, sessionID); err != nil {
		return state.Stats{}, err
	}
	log.Info().
		Str("session_id", sessionID).
		Int("turns", stats.Turns).
		Bool("identified", stats.Identified).
		Msg("session ended")
	return stats, nil
}

func (a *Agent) sessionLock(sessionID string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	lock, ok := a.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[sessionID] = lock
	}
	return lock
}

func (a *Agent) loadOrCreate(ctx context.Context, sessionID string) (*state.Session, error) {
	sess, err := a.sessions.Load(ctx, sessionID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, state.ErrStateNotFound) {
		return nil, err
	}
	sess, err = state.NewSession(sessionID, a.now())
	if err != nil {
		return nil, err
	}
	log.Info().Str("session_id", sessionID).Msg("session created")
	return sess, nil
}

// runTurn drives the state machine for one turn: decide, execute proposed
// tool calls in order, fold the results back into the session, and repeat
// until the decision step replies or the round bound trips.
func (a *Agent) runTurn(ctx context.Context, sess *state.Session, utterance string) string {
	sess.AppendTurn(contract.RoleUser, utterance, a.now())

	if pending := sess.Pending; pending != nil {
		if reply, done := a.resolveConfirmation(ctx, sess, pending, utterance); done {
			return reply
		}
	}

	for round := 0; round < maxToolRounds; round++ {
		decision, err := a.decider.Decide(ctx, sess.Snapshot(), utterance)
		if err != nil {
			log.Error().Err(err).Str("session_id", sess.ID).Msg("decision step failed")
			return overflowReply
		}
		if decision.IsReply() {
			return decision.Reply
		}
		if name, ok := a.confirmGated(decision.ToolCalls); ok {
			prompt := confirmationPrompt(decision.ToolCalls)
			sess.RecordPendingConfirmation(&contract.PendingConfirmation{
				ToolCalls: decision.ToolCalls,
				Prompt:    prompt,
				CreatedAt: a.now(),
			})
			log.Debug().Str("session_id", sess.ID).Str("tool", name).Msg("suspended on confirmation")
			return prompt
		}
		a.executeCalls(ctx, sess, decision.ToolCalls)
		if ctx.Err() != nil {
			return overflowReply
		}
	}

	log.Warn().Str("session_id", sess.ID).Msg("tool round bound exceeded")
	return overflowReply
}

// resolveConfirmation handles the one cross-turn suspension point. An
// affirmative dispatches the suspended calls; an explicit refusal cancels
// them; anything else cancels and lets the utterance be processed as a
// fresh request.
func (a *Agent) resolveConfirmation(ctx context.Context, sess *state.Session, pending *contract.PendingConfirmation, utterance string) (string, bool) {
	sess.RecordPendingConfirmation(nil)

	switch {
	case isAffirmative(utterance):
		a.executeCalls(ctx, sess, pending.ToolCalls)
		decision, err := a.decider.Decide(ctx, sess.Snapshot(), utterance)
		if err != nil || !decision.IsReply() {
			return overflowReply, true
		}
		return decision.Reply, true
	case isNegative(utterance):
		return "Okay, I've cancelled that request. Is there anything else I can help you with?", true
	default:
		return "", false
	}
}

func (a *Agent) confirmGated(calls []contract.ToolCall) (string, bool) {
	for _, call := range calls {
		if a.executor.RequiresConfirmation(call.Name) {
			return call.Name, true
		}
	}
	return "", false
}

// executeCalls dispatches tool calls sequentially in the proposed order.
// Identity results rebind the session; every result is folded into the
// history as a tool turn. Cancellation stops further dispatch but never
// undoes applied side effects.
func (a *Agent) executeCalls(ctx context.Context, sess *state.Session, calls []contract.ToolCall) {
	for _, call := range calls {
		if ctx.Err() != nil {
			log.Warn().Str("session_id", sess.ID).Str("tool", call.Name).Msg("turn cancelled before dispatch")
			return
		}
		res := a.executor.Execute(ctx, call, sess.Snapshot())
		if customerID, level, ok := tool.IdentityUpdate(call, res); ok {
			if err := sess.SetIdentified(customerID, level); err != nil {
				res = contract.ErrorResult(contract.KindBusinessRuleViolation,
					"this session is already assisting a different customer", res.Latency)
			}
		}
		sess.AppendToolTurn(call.Name, res, a.now())
		log.Info().
			Str("session_id", sess.ID).
			Str("tool", call.Name).
			Str("status", string(res.Status)).
			Dur("latency", res.Latency).
			Msg("tool executed")
	}
}

func confirmationPrompt(calls []contract.ToolCall) string {
	descriptions := make([]string, 0, len(calls))
	for _, call := range calls {
		descriptions = append(descriptions, describeCall(call))
	}
	return fmt.Sprintf("Before I proceed, please confirm: %s. Reply \"yes\" to continue or \"no\" to cancel.",
		strings.Join(descriptions, "; "))
}

func describeCall(call contract.ToolCall) string {
	switch call.Name {
	case tool.ToolTransferFunds:
		return fmt.Sprintf("transfer $%v from %v to %v",
			call.Args["amount"], call.Args["from_account_id"], call.Args["to_account_id"])
	case tool.ToolCloseTicket:
		return fmt.Sprintf("close support ticket %v", call.Args["ticket_id"])
	default:
		return strings.ReplaceAll(call.Name, "_", " ")
	}
}

var affirmatives = map[string]struct{}{
	"yes": {}, "y": {}, "yeah": {}, "yep": {}, "sure": {}, "ok": {}, "okay": {},
	"confirm": {}, "confirmed": {}, "go ahead": {}, "do it": {}, "proceed": {},
	"yes please": {}, "do both": {},
}

var negatives = map[string]struct{}{
	"no": {}, "n": {}, "nope": {}, "cancel": {}, "stop": {}, "don't": {}, "do not": {},
	"nevermind": {}, "never mind": {},
}

func normalizeAnswer(utterance string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(utterance)), ".!?")
}

func isAffirmative(utterance string) bool {
	_, ok := affirmatives[normalizeAnswer(utterance)]
	return ok
}

func isNegative(utterance string) bool {
	_, ok := negatives[normalizeAnswer(utterance)]
	return ok
}
