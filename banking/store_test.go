package banking

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
)

func TestSeededStoreIsConsistent(t *testing.T) {
	t.Parallel()

	store := NewSeededStore()
	require.NoError(t, store.Validate())

	c, ok := store.CustomerByPhone("+1-555-0101")
	require.True(t, ok)
	require.Equal(t, "CUST001", c.ID)

	card, ok := store.CustomerCardByLastFour("CUST001", "4521")
	require.True(t, ok)
	require.Equal(t, "CARD001", card.ID)
}

func TestTransferFundsMovesBalanceAtomically(t *testing.T) {
	t.Parallel()

	store := NewSeededStore()
	from, _ := store.Account("ACC001")
	to, _ := store.Account("ACC002")
	amount := decimal.NewFromInt(500)

	ref, err := store.TransferFunds("ACC001", "ACC002", amount, "test transfer")
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	fromAfter, _ := store.Account("ACC001")
	toAfter, _ := store.Account("ACC002")
	require.True(t, fromAfter.Balance.Equal(from.Balance.Sub(amount)))
	require.True(t, toAfter.Balance.Equal(to.Balance.Add(amount)))

	// Both legs carry the same reference.
	var legs int
	for _, accID := range []string{"ACC001", "ACC002"} {
		for _, tx := range store.AccountTransactions(accID, 100, 365) {
			if tx.Reference == ref {
				legs++
			}
		}
	}
	require.Equal(t, 2, legs)
}

func TestTransferFundsRejectsInsufficientFunds(t *testing.T) {
	t.Parallel()

	store := NewSeededStore()
	before, _ := store.Account("ACC001")

	_, err := store.TransferFunds("ACC001", "ACC002", decimal.NewFromInt(999999), "too much")
	require.Error(t, err)
	require.Equal(t, contract.KindBusinessRuleViolation, contract.KindOf(err))

	after, _ := store.Account("ACC001")
	require.True(t, after.Balance.Equal(before.Balance))
}

func TestTransferFundsRejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	store := NewSeededStore()
	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := store.TransferFunds("ACC001", "ACC002", amount, "bad amount")
		require.Error(t, err)
		require.Equal(t, contract.KindBusinessRuleViolation, contract.KindOf(err))
	}
}

func TestConcurrentTransfersPreserveTotal(t *testing.T) {
	t.Parallel()

	store := NewSeededStore()
	a, _ := store.Account("ACC001")
	b, _ := store.Account("ACC002")
	total := a.Balance.Add(b.Balance)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = store.TransferFunds("ACC001", "ACC002", decimal.NewFromInt(10), "ping")
			} else {
				_, _ = store.TransferFunds("ACC002", "ACC001", decimal.NewFromInt(10), "pong")
			}
		}(i)
	}
	wg.Wait()

	a, _ = store.Account("ACC001")
	b, _ = store.Account("ACC002")
	require.True(t, a.Balance.Add(b.Balance).Equal(total), "transfers must conserve the combined balance")
}

func TestBlockCardIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewSeededStore()

	first, err := store.BlockCard("CARD001", CardReportedLost, true)
	require.NoError(t, err)
	require.False(t, first.AlreadyBlocked)
	require.True(t, first.ReplacementQueued)
	require.Equal(t, CardReportedLost, first.Card.Status)

	second, err := store.BlockCard("CARD001", CardReportedLost, true)
	require.NoError(t, err)
	require.True(t, second.AlreadyBlocked)
	require.False(t, second.ReplacementQueued, "a second report must not queue another replacement")
	require.Equal(t, CardReportedLost, second.Card.Status)
}

func TestBlockCardUnknownCard(t *testing.T) {
	t.Parallel()

	store := NewSeededStore()
	_, err := store.BlockCard("CARD999", CardBlocked, false)
	require.Error(t, err)
	require.Equal(t, contract.KindNotFound, contract.KindOf(err))
}

func TestTicketTransitions(t *testing.T) {
	t.Parallel()

	store := NewSeededStore()
	ticket, err := store.CreateTicket("CUST001", "general", "test subject", "details", PriorityMedium)
	require.NoError(t, err)

	escalated, err := store.TransitionTicket(ticket.ID, TicketEscalated, "needs a specialist")
	require.NoError(t, err)
	require.Equal(t, TicketEscalated, escalated.Status)

	closed, err := store.TransitionTicket(ticket.ID, TicketClosed, "resolved")
	require.NoError(t, err)
	require.Equal(t, TicketClosed, closed.Status)

	// Closed tickets cannot be escalated without reopening.
	_, err = store.TransitionTicket(ticket.ID, TicketEscalated, "never mind")
	require.Error(t, err)
	require.Equal(t, contract.KindBusinessRuleViolation, contract.KindOf(err))

	reopened, err := store.TransitionTicket(ticket.ID, TicketOpen, "came back")
	require.NoError(t, err)
	require.Equal(t, TicketOpen, reopened.Status)
}

func TestQueryResultsAreCopies(t *testing.T) {
	t.Parallel()

	store := NewSeededStore()
	acc, ok := store.Account("ACC001")
	require.True(t, ok)

	acc.Balance = decimal.NewFromInt(-1)
	fresh, _ := store.Account("ACC001")
	require.False(t, fresh.Balance.IsNegative(), "mutating a returned value must not affect the store")
}

func TestKindOfUnclassifiedError(t *testing.T) {
	t.Parallel()

	require.Equal(t, contract.KindInternal, contract.KindOf(errors.New("boom")))
}
