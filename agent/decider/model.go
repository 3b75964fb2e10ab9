package decider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/tool"
)

const systemPrompt = `You are a banking assistant for SecureBank. You resolve customer requests by
calling the provided tools. Identify the customer before discussing any account
details. Never invent account data; always read it through a tool. When a tool
reports an error, apologize and explain in plain language without quoting
internal error codes. Reply concisely and professionally.`

// ModelDecider delegates the decision step to a tool-calling chat model
// bound to the banking tool catalog. The model sees the session history and
// either answers directly or requests tool calls, which the agent core
// executes before invoking the model again.
type ModelDecider struct {
	toolModel einomodel.ToolCallingChatModel
	allowed   map[string]struct{}
}

var _ contract.Decider = (*ModelDecider)(nil)

func NewModelDecider(chatModel einomodel.ToolCallingChatModel) (*ModelDecider, error) {
	infos := tool.Infos()
	toolModel, err := chatModel.WithTools(infos)
	if err != nil {
		return nil, fmt.Errorf("bind banking tools: %w", err)
	}
	allowed := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		allowed[info.Name] = struct{}{}
	}
	return &ModelDecider{toolModel: toolModel, allowed: allowed}, nil
}

func (d *ModelDecider) Decide(ctx context.Context, snap contract.Snapshot, utterance string) (contract.Decision, error) {
	msg, err := d.toolModel.Generate(ctx, buildMessages(snap, utterance))
	if err != nil {
		return contract.Decision{}, fmt.Errorf("model invoke: %w", err)
	}

	if len(msg.ToolCalls) == 0 {
		reply := strings.TrimSpace(msg.Content)
		if reply == "" {
			return contract.Decision{}, fmt.Errorf("model returned an empty reply")
		}
		return contract.Decision{Reply: reply}, nil
	}

	calls := make([]contract.ToolCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		name := tc.Function.Name
		if _, ok := d.allowed[name]; !ok {
			log.Warn().Str("tool", name).Msg("model requested a tool outside the catalog, dropping")
			continue
		}
		args := map[string]any{}
		if raw := strings.TrimSpace(tc.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return contract.Decision{}, fmt.Errorf("decode arguments for %s: %w", name, err)
			}
		}
		calls = append(calls, contract.ToolCall{Name: name, Args: args, CorrelationID: tc.ID})
	}
	if len(calls) == 0 {
		return contract.Decision{Reply: "I'm sorry, I couldn't determine how to help with that. Could you rephrase?"}, nil
	}
	return contract.Decision{ToolCalls: calls}, nil
}

// buildMessages renders the session history in chat form. Tool results are
// folded in as summarized tool messages so the model can ground its reply.
func buildMessages(snap contract.Snapshot, utterance string) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(snap.Turns)+2)
	msgs = append(msgs, schema.SystemMessage(systemPrompt+identityNote(snap)))

	for _, turn := range snap.Turns {
		switch turn.Role {
		case contract.RoleUser:
			msgs = append(msgs, schema.UserMessage(turn.Text))
		case contract.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(turn.Text, nil))
		case contract.RoleTool:
			msgs = append(msgs, schema.UserMessage(toolResultNote(turn)))
		}
	}

	if len(msgs) == 1 || msgs[len(msgs)-1].Role != schema.User || msgs[len(msgs)-1].Content != utterance {
		msgs = append(msgs, schema.UserMessage(utterance))
	}
	return msgs
}

func identityNote(snap contract.Snapshot) string {
	if !snap.Identified() {
		return "\n\nThe caller has not been identified yet."
	}
	return fmt.Sprintf("\n\nThe caller is identified as customer %s (verification: %s).",
		snap.CustomerID, snap.Verification)
}

func toolResultNote(turn contract.Turn) string {
	if turn.Result == nil {
		return fmt.Sprintf("[tool %s produced no result]", turn.ToolName)
	}
	if turn.Result.Status == contract.StatusError {
		return fmt.Sprintf("[tool %s failed: %s]", turn.ToolName, turn.Result.ErrorMsg)
	}
	payload, err := json.Marshal(turn.Result.Payload)
	if err != nil {
		return fmt.Sprintf("[tool %s succeeded]", turn.ToolName)
	}
	return fmt.Sprintf("[tool %s result: %s]", turn.ToolName, payload)
}
