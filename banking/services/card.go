package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking"
)

// CardService serves card lookups and the block/report mutators. Mutators
// are idempotent: blocking an already-terminal card succeeds without a
// second state change or replacement order.
type CardService struct {
	store *banking.Store
	reqs  counter
}

func NewCardService(store *banking.Store) *CardService {
	return &CardService{store: store}
}

func (s *CardService) Name() string        { return "card" }
func (s *CardService) RequestCount() int64 { return s.reqs.value() }

func (s *CardService) Operations() map[string]Handler {
	return map[string]Handler{
		"get_card":           s.getCard,
		"get_customer_cards": s.getCustomerCards,
		"get_card_summary":   s.getCardSummary,
		"check_card_status":  s.checkCardStatus,
		"block_card":         s.blockCard,
		"reissue_card":       s.reissueCard,
	}
}

type CardInfo struct {
	CardID            string          `json:"card_id"`
	Type              string          `json:"type"`
	LastFour          string          `json:"last_four"`
	Masked            string          `json:"masked"`
	Expiration        string          `json:"expiration"`
	Status            string          `json:"status"`
	ReplacementQueued bool            `json:"replacement_queued"`
	CreditLimit       decimal.Decimal `json:"credit_limit,omitempty"`
	CreditUsed        decimal.Decimal `json:"credit_used,omitempty"`
}

func cardInfo(c banking.Card) CardInfo {
	return CardInfo{
		CardID:            c.ID,
		Type:              string(c.Type),
		LastFour:          c.LastFour,
		Masked:            c.Masked(),
		Expiration:        c.ExpirationDate,
		Status:            string(c.Status),
		ReplacementQueued: c.ReplacementQueued,
		CreditLimit:       c.CreditLimit,
		CreditUsed:        c.CreditUsed,
	}
}

func (s *CardService) getCard(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "card_id")
	if err != nil {
		return nil, err
	}
	c, ok := s.store.Card(id)
	if !ok {
		return nil, contract.Errorf(contract.KindNotFound, "card %s not found", id)
	}
	return cardInfo(c), nil
}

func (s *CardService) getCustomerCards(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	customerID, err := stringArg(args, "customer_id")
	if err != nil {
		return nil, err
	}
	cards := s.store.CustomerCards(customerID)
	out := make([]CardInfo, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardInfo(c))
	}
	return out, nil
}

// CardSummary aggregates card counts and credit utilization.
type CardSummary struct {
	CustomerID      string          `json:"customer_id"`
	TotalCards      int             `json:"total_cards"`
	ActiveCards     int             `json:"active_cards"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CreditUsed      decimal.Decimal `json:"credit_used"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	Cards           []CardInfo      `json:"cards"`
}

func (s *CardService) getCardSummary(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	customerID, err := stringArg(args, "customer_id")
	if err != nil {
		return nil, err
	}
	cards := s.store.CustomerCards(customerID)

	summary := CardSummary{
		CustomerID:  customerID,
		TotalCards:  len(cards),
		CreditLimit: decimal.Zero,
		CreditUsed:  decimal.Zero,
	}
	for _, c := range cards {
		if c.Status == banking.CardActive {
			summary.ActiveCards++
		}
		if c.Type == banking.CardCredit {
			summary.CreditLimit = summary.CreditLimit.Add(c.CreditLimit)
			summary.CreditUsed = summary.CreditUsed.Add(c.CreditUsed)
		}
		summary.Cards = append(summary.Cards, cardInfo(c))
	}
	summary.AvailableCredit = summary.CreditLimit.Sub(summary.CreditUsed)
	return summary, nil
}

func (s *CardService) checkCardStatus(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "card_id")
	if err != nil {
		return nil, err
	}
	c, ok := s.store.Card(id)
	if !ok {
		return nil, contract.Errorf(contract.KindNotFound, "card %s not found", id)
	}
	return cardInfo(c), nil
}

// BlockOutcome confirms a block/report operation.
type BlockOutcome struct {
	Card              CardInfo `json:"card"`
	AlreadyBlocked    bool     `json:"already_blocked"`
	ReplacementQueued bool     `json:"replacement_queued"`
}

func (s *CardService) blockCard(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "card_id")
	if err != nil {
		return nil, err
	}

	status := banking.CardBlocked
	queueReplacement := false
	switch optionalStringArg(args, "reason", "customer_request") {
	case "lost", "stolen":
		status = banking.CardReportedLost
		queueReplacement = true
	}

	result, err := s.store.BlockCard(id, status, queueReplacement)
	if err != nil {
		return nil, err
	}
	return BlockOutcome{
		Card:              cardInfo(result.Card),
		AlreadyBlocked:    result.AlreadyBlocked,
		ReplacementQueued: result.ReplacementQueued,
	}, nil
}

// reissueCard retires the card and queues a replacement. Idempotent like
// every other card transition.
func (s *CardService) reissueCard(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "card_id")
	if err != nil {
		return nil, err
	}

	result, err := s.store.BlockCard(id, banking.CardReissued, true)
	if err != nil {
		return nil, err
	}
	return BlockOutcome{
		Card:              cardInfo(result.Card),
		AlreadyBlocked:    result.AlreadyBlocked,
		ReplacementQueued: result.ReplacementQueued,
	}, nil
}
