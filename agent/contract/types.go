package contract

import "time"

// ToolCall is a single proposed invocation produced by the decision step.
// It is consumed exactly once by the tool executor and never outlives the
// turn that proposed it.
type ToolCall struct {
	Name          string         `json:"name"`
	Args          map[string]any `json:"args,omitempty"`
	CorrelationID string         `json:"correlation_id"`
}

// ResultStatus is the outcome of one executed tool call or gateway request.
type ResultStatus string

const (
	StatusOK    ResultStatus = "ok"
	StatusError ResultStatus = "error"
)

// APIResult is the uniform envelope returned by the gateway and, after
// aggregation, by the tool executor. Immutable once returned.
type APIResult struct {
	Status    ResultStatus  `json:"status"`
	Payload   any           `json:"payload,omitempty"`
	ErrorKind ErrorKind     `json:"error_kind,omitempty"`
	ErrorMsg  string        `json:"error_msg,omitempty"`
	Latency   time.Duration `json:"latency"`
}

func OKResult(payload any, latency time.Duration) APIResult {
	return APIResult{Status: StatusOK, Payload: payload, Latency: latency}
}

func ErrorResult(kind ErrorKind, msg string, latency time.Duration) APIResult {
	return APIResult{Status: StatusError, ErrorKind: kind, ErrorMsg: msg, Latency: latency}
}

// SubResult records the outcome of one leg of a fan-out tool. The executor
// reports partial failures as a list of these instead of rolling back
// already-applied side effects.
type SubResult struct {
	Action string       `json:"action"`
	Status ResultStatus `json:"status"`
	Detail any          `json:"detail,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Decision is the tagged output of the black-box decision capability:
// either a final reply for the turn, or a batch of tool calls to execute
// in order. Exactly one side is set.
type Decision struct {
	Reply     string     `json:"reply,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

func (d Decision) IsReply() bool {
	return len(d.ToolCalls) == 0
}

// VerificationLevel orders how strongly the caller's identity has been
// established within a session.
type VerificationLevel int

const (
	VerificationNone VerificationLevel = iota
	VerificationBasic
	VerificationStrong
)

func (v VerificationLevel) String() string {
	switch v {
	case VerificationBasic:
		return "basic"
	case VerificationStrong:
		return "strong"
	default:
		return "none"
	}
}

// TurnRole tags entries in the session history.
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
	RoleTool      TurnRole = "tool"
)

// Turn is one entry in a session's ordered history.
type Turn struct {
	Role      TurnRole   `json:"role"`
	Text      string     `json:"text"`
	ToolName  string     `json:"tool_name,omitempty"`
	Result    *APIResult `json:"result,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// PendingConfirmation suspends a confirmation-gated tool batch between
// turns. It is the only cross-turn suspension point in the engine.
type PendingConfirmation struct {
	ToolCalls []ToolCall `json:"tool_calls"`
	Prompt    string     `json:"prompt"`
	CreatedAt time.Time  `json:"created_at"`
}

// Snapshot is the read-only view of a session handed to the decision step.
type Snapshot struct {
	SessionID         string
	CustomerID        string
	Verification      VerificationLevel
	Turns             []Turn
	HasPendingConfirm bool
}

// Identified reports whether the session is bound to a customer.
func (s Snapshot) Identified() bool {
	return s.CustomerID != ""
}
