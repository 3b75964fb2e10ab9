// Package state holds per-conversation session state: who the caller is,
// what has been said, and any confirmation suspended between turns.
package state

import (
	"errors"
	"time"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
)

// maxTurns bounds the in-memory history per session. The session is the
// single owner of this truncation policy; the identification fact lives
// outside the turn list and always survives truncation.
const maxTurns = 30

var (
	ErrInvalidSession  = errors.New("session id is empty")
	ErrAlreadyBound    = errors.New("session already bound to a customer")
	ErrNilSessionState = errors.New("session state is nil")
)

// Session is the mutable per-conversation state. It is owned by the agent
// core for the session's lifetime; turns within a session are strictly
// sequential, so no internal locking is needed here.
type Session struct {
	ID           string
	CustomerID   string
	Verification contract.VerificationLevel
	Turns        []contract.Turn
	Pending      *contract.PendingConfirmation

	StartedAt      time.Time
	LastActivityAt time.Time
}

func NewSession(id string, now time.Time) (*Session, error) {
	if id == "" {
		return nil, ErrInvalidSession
	}
	return &Session{
		ID:             id,
		StartedAt:      now.UTC(),
		LastActivityAt: now.UTC(),
	}, nil
}

func (s *Session) Touch(now time.Time) {
	s.LastActivityAt = now.UTC()
}

// AppendTurn adds one entry to the history and applies the truncation
// policy: only the most recent maxTurns entries are kept.
func (s *Session) AppendTurn(role contract.TurnRole, text string, now time.Time) {
	s.appendTurn(contract.Turn{Role: role, Text: text, Timestamp: now.UTC()})
}

// AppendToolTurn folds one tool result into the history so the decision
// step can see it on the next round.
func (s *Session) AppendToolTurn(toolName string, result contract.APIResult, now time.Time) {
	res := result
	s.appendTurn(contract.Turn{
		Role:      contract.RoleTool,
		Text:      "tool " + toolName + " executed",
		ToolName:  toolName,
		Result:    &res,
		Timestamp: now.UTC(),
	})
}

func (s *Session) appendTurn(t contract.Turn) {
	s.Turns = append(s.Turns, t)
	if len(s.Turns) > maxTurns {
		s.Turns = s.Turns[len(s.Turns)-maxTurns:]
	}
	s.LastActivityAt = t.Timestamp
}

// SetIdentified binds the session to a customer. The binding is permanent
// for the session's lifetime: identifying as a different customer requires
// a fresh session. Re-identification as the same customer only upgrades
// the verification level, never downgrades it.
func (s *Session) SetIdentified(customerID string, level contract.VerificationLevel) error {
	if customerID == "" {
		return errors.New("customer id is empty")
	}
	if s.CustomerID != "" && s.CustomerID != customerID {
		return ErrAlreadyBound
	}
	s.CustomerID = customerID
	if level > s.Verification {
		s.Verification = level
	}
	return nil
}

// RecordPendingConfirmation installs or clears the cross-turn suspension
// record. Passing nil clears it.
func (s *Session) RecordPendingConfirmation(p *contract.PendingConfirmation) {
	s.Pending = p
}

// Snapshot returns the read-only view handed to the decision step.
func (s *Session) Snapshot() contract.Snapshot {
	turns := make([]contract.Turn, len(s.Turns))
	copy(turns, s.Turns)
	return contract.Snapshot{
		SessionID:         s.ID,
		CustomerID:        s.CustomerID,
		Verification:      s.Verification,
		Turns:             turns,
		HasPendingConfirm: s.Pending != nil,
	}
}

// Stats summarizes the session on teardown.
type Stats struct {
	SessionID  string        `json:"session_id"`
	Turns      int           `json:"turns"`
	Duration   time.Duration `json:"duration"`
	Identified bool          `json:"identified"`
}

func (s *Session) Stats(now time.Time) Stats {
	return Stats{
		SessionID:  s.ID,
		Turns:      len(s.Turns),
		Duration:   now.UTC().Sub(s.StartedAt),
		Identified: s.CustomerID != "",
	}
}
