package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking"
)

// LoanService serves loan details, schedules, and payoff quotes.
type LoanService struct {
	store *banking.Store
	reqs  counter
}

func NewLoanService(store *banking.Store) *LoanService {
	return &LoanService{store: store}
}

func (s *LoanService) Name() string        { return "loan" }
func (s *LoanService) RequestCount() int64 { return s.reqs.value() }

func (s *LoanService) Operations() map[string]Handler {
	return map[string]Handler{
		"get_loan":             s.getLoan,
		"get_loan_summary":     s.getLoanSummary,
		"get_payment_schedule": s.getPaymentSchedule,
		"get_payoff_amount":    s.getPayoffAmount,
	}
}

type LoanInfo struct {
	LoanID         string          `json:"loan_id"`
	Type           string          `json:"type"`
	Principal      decimal.Decimal `json:"principal"`
	Balance        decimal.Decimal `json:"balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	NextDueDate    string          `json:"next_due_date,omitempty"`
	NextDueAmount  decimal.Decimal `json:"next_due_amount"`
}

func loanInfo(l banking.Loan) LoanInfo {
	info := LoanInfo{
		LoanID:         l.ID,
		Type:           string(l.Type),
		Principal:      l.Principal,
		Balance:        l.Balance,
		InterestRate:   l.InterestRate,
		MonthlyPayment: l.MonthlyPayment,
	}
	if next, ok := l.NextPayment(time.Now()); ok {
		info.NextDueDate = next.DueDate.Format("2006-01-02")
		info.NextDueAmount = next.Amount
	}
	return info
}

func (s *LoanService) getLoan(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "loan_id")
	if err != nil {
		return nil, err
	}
	l, ok := s.store.Loan(id)
	if !ok {
		return nil, contract.Errorf(contract.KindNotFound, "loan %s not found", id)
	}
	return loanInfo(l), nil
}

// LoanSummary is the all-loans rollup for a customer.
type LoanSummary struct {
	CustomerID   string          `json:"customer_id"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	Loans        []LoanInfo      `json:"loans"`
}

func (s *LoanService) getLoanSummary(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	customerID, err := stringArg(args, "customer_id")
	if err != nil {
		return nil, err
	}
	loans := s.store.CustomerLoans(customerID)
	summary := LoanSummary{CustomerID: customerID, TotalBalance: decimal.Zero}
	for _, l := range loans {
		summary.TotalBalance = summary.TotalBalance.Add(l.Balance)
		summary.Loans = append(summary.Loans, loanInfo(l))
	}
	return summary, nil
}

type ScheduleInfo struct {
	LoanID  string            `json:"loan_id"`
	Entries []ScheduleDueInfo `json:"entries"`
}

type ScheduleDueInfo struct {
	DueDate string          `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

func (s *LoanService) getPaymentSchedule(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "loan_id")
	if err != nil {
		return nil, err
	}
	l, ok := s.store.Loan(id)
	if !ok {
		return nil, contract.Errorf(contract.KindNotFound, "loan %s not found", id)
	}

	limit := intArg(args, "months", 12)
	entries := make([]ScheduleDueInfo, 0, limit)
	now := time.Now()
	for _, e := range l.Schedule {
		if e.DueDate.Before(now) {
			continue
		}
		entries = append(entries, ScheduleDueInfo{DueDate: e.DueDate.Format("2006-01-02"), Amount: e.Amount})
		if len(entries) == limit {
			break
		}
	}
	return ScheduleInfo{LoanID: id, Entries: entries}, nil
}

// PayoffQuote is the amount needed to settle a loan today: balance plus one
// month of accrued interest, the original system's simplification.
type PayoffQuote struct {
	LoanID       string          `json:"loan_id"`
	Balance      decimal.Decimal `json:"balance"`
	PayoffAmount decimal.Decimal `json:"payoff_amount"`
	ValidUntil   string          `json:"valid_until"`
}

func (s *LoanService) getPayoffAmount(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "loan_id")
	if err != nil {
		return nil, err
	}
	l, ok := s.store.Loan(id)
	if !ok {
		return nil, contract.Errorf(contract.KindNotFound, "loan %s not found", id)
	}

	monthlyRate := l.InterestRate.Div(decimal.NewFromInt(1200))
	payoff := l.Balance.Add(l.Balance.Mul(monthlyRate)).Round(2)
	return PayoffQuote{
		LoanID:       id,
		Balance:      l.Balance,
		PayoffAmount: payoff,
		ValidUntil:   time.Now().AddDate(0, 0, 10).Format("2006-01-02"),
	}, nil
}
