package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/state"
)

type turnState struct {
	Req  TurnRequest
	Sess *state.Session
}

// compileTurnGraph wires the per-turn pipeline: validate the request, load
// or create the session, run the decision loop, then persist the session
// with the assistant reply appended.
func compileTurnGraph(ctx context.Context, a *Agent) (compose.Runnable[TurnRequest, TurnResponse], error) {
	graph := compose.NewGraph[TurnRequest, TurnResponse]()

	if err := graph.AddLambdaNode("validate",
		compose.InvokableLambda(func(ctx context.Context, req TurnRequest) (TurnRequest, error) {
			if strings.TrimSpace(req.SessionID) == "" {
				return TurnRequest{}, contract.ErrEmptySessionID
			}
			if strings.TrimSpace(req.Utterance) == "" {
				return TurnRequest{}, contract.ErrEmptyUtterance
			}
			return req, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add validate node: %w", err)
	}

	if err := graph.AddLambdaNode("load_session",
		compose.InvokableLambda(func(ctx context.Context, req TurnRequest) (*turnState, error) {
			sess, err := a.loadOrCreate(ctx, req.SessionID)
			if err != nil {
				return nil, fmt.Errorf("load session %s: %w", req.SessionID, err)
			}
			return &turnState{Req: req, Sess: sess}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add load_session node: %w", err)
	}

	if err := graph.AddLambdaNode("run_turn",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			if in == nil || in.Sess == nil {
				return nil, state.ErrNilSessionState
			}
			reply := a.runTurn(ctx, in.Sess, in.Req.Utterance)
			in.Sess.AppendTurn(contract.RoleAssistant, reply, a.now())
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add run_turn node: %w", err)
	}

	if err := graph.AddLambdaNode("finalize",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (TurnResponse, error) {
			if in == nil || in.Sess == nil {
				return TurnResponse{}, state.ErrNilSessionState
			}
			in.Sess.Touch(a.now())
			if err := a.sessions.Save(ctx, in.Sess); err != nil {
				return TurnResponse{}, fmt.Errorf("save session %s: %w", in.Sess.ID, err)
			}
			reply := ""
			if n := len(in.Sess.Turns); n > 0 {
				reply = in.Sess.Turns[n-1].Text
			}
			return TurnResponse{SessionID: in.Sess.ID, Reply: reply}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add finalize node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "validate"); err != nil {
		return nil, fmt.Errorf("add edge start->validate: %w", err)
	}
	if err := graph.AddEdge("validate", "load_session"); err != nil {
		return nil, fmt.Errorf("add edge validate->load_session: %w", err)
	}
	if err := graph.AddEdge("load_session", "run_turn"); err != nil {
		return nil, fmt.Errorf("add edge load_session->run_turn: %w", err)
	}
	if err := graph.AddEdge("run_turn", "finalize"); err != nil {
		return nil, fmt.Errorf("add edge run_turn->finalize: %w", err)
	}
	if err := graph.AddEdge("finalize", compose.END); err != nil {
		return nil, fmt.Errorf("add edge finalize->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("agent.turn_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}
