package contract

import "context"

// Decider is the black-box decision capability. Given the session snapshot
// and the latest utterance (plus any tool results folded in as tool turns),
// it yields either a final reply or a batch of tool calls.
type Decider interface {
	Decide(ctx context.Context, snap Snapshot, utterance string) (Decision, error)
}

// ToolExecutor validates and dispatches one tool call against the backend.
type ToolExecutor interface {
	Execute(ctx context.Context, call ToolCall, snap Snapshot) APIResult
}

// Gateway routes a (service, operation, args) triple to the matching domain
// service under simulated network conditions. It never retries.
type Gateway interface {
	Call(ctx context.Context, service, operation string, args map[string]any) APIResult
}
