package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/decider"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/orchestrator"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/state"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/tool"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking/gateway"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking/services"
	configx "github.com/mdomarsaleem1/sample-banking-agentic-AI/pkg/config"
	_ "github.com/mdomarsaleem1/sample-banking-agentic-AI/pkg/logger/autoload"
	openrouterx "github.com/mdomarsaleem1/sample-banking-agentic-AI/pkg/openrouter"
)

func main() {
	ctx := context.Background()

	gatewayCfg := configx.MustNew[gateway.Config]("GATEWAY")
	if err := gatewayCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid gateway config")
	}

	store := banking.NewSeededStore()
	gw, err := gateway.New(*gatewayCfg,
		services.NewCustomerService(store),
		services.NewAccountService(store),
		services.NewTransactionService(store),
		services.NewLoanService(store),
		services.NewCardService(store),
		services.NewSupportService(store),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build gateway")
	}
	exec := tool.NewExecutor(gw, store)

	agent, err := orchestrator.New(ctx, buildDecider(ctx), exec, state.NewMemoryStore())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build agent")
	}

	runREPL(ctx, agent, gw)
}

// buildDecider selects the decision capability: a tool-calling chat model
// when OpenRouter credentials are present, the deterministic rule decider
// otherwise.
func buildDecider(ctx context.Context) contract.Decider {
	cfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	if !cfg.Enabled() {
		log.Info().Msg("no OpenRouter credentials, using rule-based decider")
		return decider.NewRuleDecider()
	}

	if client := openrouterx.NewClient(*cfg); client != nil {
		if _, err := client.Models.List(ctx); err != nil {
			log.Warn().Err(err).Msg("OpenRouter connectivity check failed, falling back to rule-based decider")
			return decider.NewRuleDecider()
		}
	}

	chatModel, err := cfg.New(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("chat model init failed, falling back to rule-based decider")
		return decider.NewRuleDecider()
	}
	modelDecider, err := decider.NewModelDecider(chatModel)
	if err != nil {
		log.Warn().Err(err).Msg("tool binding failed, falling back to rule-based decider")
		return decider.NewRuleDecider()
	}
	log.Info().Str("model", cfg.Model).Msg("using model-backed decider")
	return modelDecider
}

func runREPL(ctx context.Context, agent *orchestrator.Agent, gw *gateway.Gateway) {
	sessionID := uuid.NewString()
	fmt.Println("SecureBank assistant. Type your request, or \"quit\" to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		reply, err := agent.SubmitTurn(ctx, sessionID, line)
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			continue
		}
		fmt.Println(reply)
	}

	if stats, err := agent.EndSession(ctx, sessionID); err == nil {
		fmt.Printf("Session %s closed after %d turns.\n", stats.SessionID, stats.Turns)
	}
	for service, count := range gw.Stats() {
		log.Info().Str("service", service).Int64("requests", count).Msg("gateway request count")
	}
}
