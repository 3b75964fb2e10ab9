package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking"
)

// TransactionService serves transaction history, search, and the spending
// rollup. All operations are read-only.
type TransactionService struct {
	store *banking.Store
	reqs  counter
}

func NewTransactionService(store *banking.Store) *TransactionService {
	return &TransactionService{store: store}
}

func (s *TransactionService) Name() string        { return "transaction" }
func (s *TransactionService) RequestCount() int64 { return s.reqs.value() }

func (s *TransactionService) Operations() map[string]Handler {
	return map[string]Handler{
		"get_transaction":         s.getTransaction,
		"get_recent_transactions": s.getRecentTransactions,
		"search_transactions":     s.searchTransactions,
		"get_spending_summary":    s.getSpendingSummary,
	}
}

type TransactionInfo struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Merchant      string          `json:"merchant,omitempty"`
	Category      string          `json:"category,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	Reference     string          `json:"reference"`
}

func transactionInfo(t banking.Transaction) TransactionInfo {
	return TransactionInfo{
		TransactionID: t.ID,
		AccountID:     t.AccountID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		Description:   t.Description,
		Merchant:      t.Merchant,
		Category:      t.MerchantCategory,
		Timestamp:     t.Timestamp,
		Reference:     t.Reference,
	}
}

func (s *TransactionService) getTransaction(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "transaction_id")
	if err != nil {
		return nil, err
	}
	t, ok := s.store.Transaction(id)
	if !ok {
		return nil, contract.Errorf(contract.KindNotFound, "transaction %s not found", id)
	}
	return transactionInfo(t), nil
}

func (s *TransactionService) getRecentTransactions(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	accountID, err := stringArg(args, "account_id")
	if err != nil {
		return nil, err
	}
	if _, ok := s.store.Account(accountID); !ok {
		return nil, contract.Errorf(contract.KindNotFound, "account %s not found", accountID)
	}
	limit := intArg(args, "limit", 10)
	days := intArg(args, "days", 30)

	txns := s.store.AccountTransactions(accountID, limit, days)
	out := make([]TransactionInfo, 0, len(txns))
	for _, t := range txns {
		out = append(out, transactionInfo(t))
	}
	return out, nil
}

func (s *TransactionService) searchTransactions(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	accountID, err := stringArg(args, "account_id")
	if err != nil {
		return nil, err
	}
	if _, ok := s.store.Account(accountID); !ok {
		return nil, contract.Errorf(contract.KindNotFound, "account %s not found", accountID)
	}

	merchant := strings.ToLower(optionalStringArg(args, "merchant", ""))
	txType := optionalStringArg(args, "transaction_type", "")
	var minAmount, maxAmount decimal.Decimal
	hasMin, hasMax := false, false
	if _, ok := args["min_amount"]; ok {
		if minAmount, err = decimalArg(args, "min_amount"); err != nil {
			return nil, err
		}
		hasMin = true
	}
	if _, ok := args["max_amount"]; ok {
		if maxAmount, err = decimalArg(args, "max_amount"); err != nil {
			return nil, err
		}
		hasMax = true
	}

	out := []TransactionInfo{}
	for _, t := range s.store.AccountTransactions(accountID, 0, 365) {
		abs := t.Amount.Abs()
		if merchant != "" && !strings.Contains(strings.ToLower(t.Merchant), merchant) {
			continue
		}
		if txType != "" && string(t.Type) != txType {
			continue
		}
		if hasMin && abs.LessThan(minAmount) {
			continue
		}
		if hasMax && abs.GreaterThan(maxAmount) {
			continue
		}
		out = append(out, transactionInfo(t))
	}
	return out, nil
}

// SpendingSummary groups outgoing transactions by category over a window.
type SpendingSummary struct {
	AccountID  string                     `json:"account_id"`
	Days       int                        `json:"days"`
	TotalSpent decimal.Decimal            `json:"total_spent"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
}

func (s *TransactionService) getSpendingSummary(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	accountID, err := stringArg(args, "account_id")
	if err != nil {
		return nil, err
	}
	if _, ok := s.store.Account(accountID); !ok {
		return nil, contract.Errorf(contract.KindNotFound, "account %s not found", accountID)
	}
	days := intArg(args, "days", 30)

	summary := SpendingSummary{
		AccountID:  accountID,
		Days:       days,
		TotalSpent: decimal.Zero,
		ByCategory: map[string]decimal.Decimal{},
	}
	for _, t := range s.store.AccountTransactions(accountID, 0, days) {
		if t.Amount.Sign() >= 0 {
			continue
		}
		spent := t.Amount.Neg()
		summary.TotalSpent = summary.TotalSpent.Add(spent)
		category := t.MerchantCategory
		if category == "" {
			category = "Other"
		}
		summary.ByCategory[category] = summary.ByCategory[category].Add(spent)
	}
	return summary, nil
}
