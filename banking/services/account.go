package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking"
)

// AccountService exposes balances and the transfer mutator.
type AccountService struct {
	store *banking.Store
	reqs  counter
}

func NewAccountService(store *banking.Store) *AccountService {
	return &AccountService{store: store}
}

func (s *AccountService) Name() string        { return "account" }
func (s *AccountService) RequestCount() int64 { return s.reqs.value() }

func (s *AccountService) Operations() map[string]Handler {
	return map[string]Handler{
		"get_account":           s.getAccount,
		"get_customer_accounts": s.getCustomerAccounts,
		"get_account_balance":   s.getAccountBalance,
		"get_total_balance":     s.getTotalBalance,
		"transfer_funds":        s.transferFunds,
	}
}

type AccountInfo struct {
	AccountID string          `json:"account_id"`
	Type      string          `json:"type"`
	Number    string          `json:"number"`
	Balance   decimal.Decimal `json:"balance"`
	Status    string          `json:"status"`
}

func accountInfo(a banking.Account) AccountInfo {
	return AccountInfo{
		AccountID: a.ID,
		Type:      string(a.Type),
		Number:    a.Number,
		Balance:   a.Balance,
		Status:    string(a.Status),
	}
}

func (s *AccountService) getAccount(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "account_id")
	if err != nil {
		return nil, err
	}
	a, ok := s.store.Account(id)
	if !ok {
		return nil, contract.Errorf(contract.KindNotFound, "account %s not found", id)
	}
	return accountInfo(a), nil
}

func (s *AccountService) getCustomerAccounts(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	customerID, err := stringArg(args, "customer_id")
	if err != nil {
		return nil, err
	}
	accounts := s.store.CustomerAccounts(customerID)
	out := make([]AccountInfo, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountInfo(a))
	}
	return out, nil
}

func (s *AccountService) getAccountBalance(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "account_id")
	if err != nil {
		return nil, err
	}
	a, ok := s.store.Account(id)
	if !ok {
		return nil, contract.Errorf(contract.KindNotFound, "account %s not found", id)
	}
	return AccountInfo{AccountID: a.ID, Type: string(a.Type), Balance: a.Balance, Status: string(a.Status)}, nil
}

// BalanceSummary is the all-accounts rollup for a customer.
type BalanceSummary struct {
	CustomerID   string          `json:"customer_id"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	Accounts     []AccountInfo   `json:"accounts"`
}

func (s *AccountService) getTotalBalance(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	customerID, err := stringArg(args, "customer_id")
	if err != nil {
		return nil, err
	}
	accounts := s.store.CustomerAccounts(customerID)
	if len(accounts) == 0 {
		return nil, contract.Errorf(contract.KindNotFound, "no accounts for customer %s", customerID)
	}

	summary := BalanceSummary{CustomerID: customerID, TotalBalance: decimal.Zero}
	for _, a := range accounts {
		summary.TotalBalance = summary.TotalBalance.Add(a.Balance)
		summary.Accounts = append(summary.Accounts, accountInfo(a))
	}
	return summary, nil
}

// TransferReceipt confirms a completed transfer.
type TransferReceipt struct {
	Reference   string          `json:"reference"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	CompletedAt time.Time       `json:"completed_at"`
}

func (s *AccountService) transferFunds(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	fromID, err := stringArg(args, "from_account_id")
	if err != nil {
		return nil, err
	}
	toID, err := stringArg(args, "to_account_id")
	if err != nil {
		return nil, err
	}
	amount, err := decimalArg(args, "amount")
	if err != nil {
		return nil, err
	}
	description := optionalStringArg(args, "description", "Transfer")

	reference, err := s.store.TransferFunds(fromID, toID, amount, description)
	if err != nil {
		return nil, err
	}
	return TransferReceipt{
		Reference:   reference,
		FromAccount: fromID,
		ToAccount:   toID,
		Amount:      amount,
		CompletedAt: time.Now(),
	}, nil
}
