package decider

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/require"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/tool"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int
	lastInput []*schema.Message
}

func (f *fakeToolCallingModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools([]*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

func TestModelDeciderPlainReply(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{responses: []*schema.Message{
		{Role: schema.Assistant, Content: "Hello! How can I help you today?"},
	}}
	d, err := NewModelDecider(fake)
	require.NoError(t, err)

	decision, err := d.Decide(context.Background(), contract.Snapshot{SessionID: "s1"}, "hi")
	require.NoError(t, err)
	require.True(t, decision.IsReply())
	require.Equal(t, "Hello! How can I help you today?", decision.Reply)

	// System prompt plus the utterance.
	require.Len(t, fake.lastInput, 2)
	require.Equal(t, schema.System, fake.lastInput[0].Role)
}

func TestModelDeciderToolCalls(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{responses: []*schema.Message{
		{
			Role: schema.Assistant,
			ToolCalls: []schema.ToolCall{
				{
					ID: "call-1",
					Function: schema.FunctionCall{
						Name:      tool.ToolIdentifyByPhone,
						Arguments: `{"phone_number":"+1-555-0101"}`,
					},
				},
			},
		},
	}}
	d, err := NewModelDecider(fake)
	require.NoError(t, err)

	decision, err := d.Decide(context.Background(), contract.Snapshot{SessionID: "s1"}, "my number is +1-555-0101")
	require.NoError(t, err)
	require.False(t, decision.IsReply())
	require.Len(t, decision.ToolCalls, 1)
	require.Equal(t, tool.ToolIdentifyByPhone, decision.ToolCalls[0].Name)
	require.Equal(t, "+1-555-0101", decision.ToolCalls[0].Args["phone_number"])
	require.Equal(t, "call-1", decision.ToolCalls[0].CorrelationID)
}

func TestModelDeciderDropsUnknownTools(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{responses: []*schema.Message{
		{
			Role: schema.Assistant,
			ToolCalls: []schema.ToolCall{
				{ID: "call-1", Function: schema.FunctionCall{Name: "delete_everything", Arguments: `{}`}},
			},
		},
	}}
	d, err := NewModelDecider(fake)
	require.NoError(t, err)

	decision, err := d.Decide(context.Background(), contract.Snapshot{SessionID: "s1"}, "do something")
	require.NoError(t, err)
	require.True(t, decision.IsReply(), "a decision with only unknown tools must degrade to a reply")
}

func TestModelDeciderPropagatesModelErrors(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{err: errors.New("rate limited")}
	d, err := NewModelDecider(fake)
	require.NoError(t, err)

	_, err = d.Decide(context.Background(), contract.Snapshot{SessionID: "s1"}, "hi")
	require.Error(t, err)
}
