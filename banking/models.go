// Package banking holds the entity models and the shared in-memory record
// store backing the six domain data services.
package banking

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountChecking    AccountType = "checking"
	AccountSavings     AccountType = "savings"
	AccountMoneyMarket AccountType = "money_market"
)

type AccountStatus string

const (
	AccountActive AccountStatus = "active"
	AccountFrozen AccountStatus = "frozen"
	AccountClosed AccountStatus = "closed"
)

type TransactionType string

const (
	TxDeposit       TransactionType = "deposit"
	TxWithdrawal    TransactionType = "withdrawal"
	TxTransferIn    TransactionType = "transfer_in"
	TxTransferOut   TransactionType = "transfer_out"
	TxPayment       TransactionType = "payment"
	TxPurchase      TransactionType = "purchase"
	TxATMWithdrawal TransactionType = "atm_withdrawal"
)

type LoanType string

const (
	LoanPersonal   LoanType = "personal"
	LoanMortgage   LoanType = "mortgage"
	LoanAuto       LoanType = "auto"
	LoanCreditLine LoanType = "credit_line"
)

type CardType string

const (
	CardDebit  CardType = "debit"
	CardCredit CardType = "credit"
)

type CardStatus string

const (
	CardActive       CardStatus = "active"
	CardBlocked      CardStatus = "blocked"
	CardReportedLost CardStatus = "reported_lost"
	CardReissued     CardStatus = "reissued"
)

// Terminal reports whether a card status admits no further block/report
// transitions. Repeating a block or loss report against a terminal status
// is an idempotent no-op.
func (s CardStatus) Terminal() bool {
	return s == CardBlocked || s == CardReportedLost || s == CardReissued
}

type TicketStatus string

const (
	TicketOpen      TicketStatus = "open"
	TicketEscalated TicketStatus = "escalated"
	TicketClosed    TicketStatus = "closed"
)

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

type Customer struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth time.Time
	SSNLastFour string
	Segment     string // standard, premium, private
	CreatedAt   time.Time
}

func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Account struct {
	ID         string
	CustomerID string
	Type       AccountType
	Number     string // masked
	Balance    decimal.Decimal
	Status     AccountStatus
	OpenedAt   time.Time
}

type Transaction struct {
	ID               string
	AccountID        string
	Type             TransactionType
	Amount           decimal.Decimal // signed: negative for debits
	Description      string
	Merchant         string
	MerchantCategory string
	Timestamp        time.Time
	Reference        string
	BalanceAfter     decimal.Decimal
}

type ScheduleEntry struct {
	DueDate time.Time
	Amount  decimal.Decimal
}

type Loan struct {
	ID             string
	CustomerID     string
	Type           LoanType
	Principal      decimal.Decimal
	Balance        decimal.Decimal
	InterestRate   decimal.Decimal // annual percent
	MonthlyPayment decimal.Decimal
	Schedule       []ScheduleEntry // ordered by due date
	OriginatedAt   time.Time
}

// NextPayment returns the first schedule entry due on or after now.
func (l Loan) NextPayment(now time.Time) (ScheduleEntry, bool) {
	for _, e := range l.Schedule {
		if !e.DueDate.Before(now) {
			return e, true
		}
	}
	return ScheduleEntry{}, false
}

type Card struct {
	ID                string
	CustomerID        string
	AccountID         string // empty for credit cards
	Type              CardType
	LastFour          string
	ExpirationDate    string // MM/YY
	Status            CardStatus
	ReplacementQueued bool
	CreditLimit       decimal.Decimal // zero for debit
	CreditUsed        decimal.Decimal
}

func (c Card) Masked() string {
	return "****-****-****-" + c.LastFour
}

type TicketUpdate struct {
	Note      string
	Timestamp time.Time
}

type SupportTicket struct {
	ID         string
	CustomerID string
	Category   string
	Subject    string
	Status     TicketStatus
	Priority   TicketPriority
	History    []TicketUpdate // ordered
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
