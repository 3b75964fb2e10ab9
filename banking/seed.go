package banking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// NewSeededStore builds the fixed demo dataset: five customers with their
// accounts, loans, cards, tickets, and a deterministic slice of recent
// transaction history per account. Panics if the dataset is internally
// inconsistent, which is a programming error, not a runtime condition.
func NewSeededStore() *Store {
	s := NewStore()

	customers := []Customer{
		{
			ID: "CUST001", FirstName: "John", LastName: "Anderson",
			Email: "john.anderson@email.com", Phone: "+1-555-0101",
			DateOfBirth: date(1985, time.March, 15), SSNLastFour: "4521",
			Segment: "premium", CreatedAt: date(2019, time.June, 15),
		},
		{
			ID: "CUST002", FirstName: "Sarah", LastName: "Mitchell",
			Email: "sarah.mitchell@email.com", Phone: "+1-555-0102",
			DateOfBirth: date(1990, time.July, 22), SSNLastFour: "7834",
			Segment: "standard", CreatedAt: date(2020, time.January, 10),
		},
		{
			ID: "CUST003", FirstName: "Michael", LastName: "Chen",
			Email: "michael.chen@email.com", Phone: "+1-555-0103",
			DateOfBirth: date(1978, time.November, 8), SSNLastFour: "2156",
			Segment: "private", CreatedAt: date(2015, time.March, 20),
		},
		{
			ID: "CUST004", FirstName: "Emily", LastName: "Rodriguez",
			Email: "emily.rodriguez@email.com", Phone: "+1-555-0104",
			DateOfBirth: date(1995, time.May, 30), SSNLastFour: "9012",
			Segment: "standard", CreatedAt: date(2022, time.August, 5),
		},
		{
			ID: "CUST005", FirstName: "Robert", LastName: "Thompson",
			Email: "robert.thompson@email.com", Phone: "+1-555-0105",
			DateOfBirth: date(1968, time.September, 12), SSNLastFour: "3478",
			Segment: "private", CreatedAt: date(2010, time.November, 25),
		},
	}
	for _, c := range customers {
		s.addCustomer(c)
	}

	accounts := []Account{
		{ID: "ACC001", CustomerID: "CUST001", Type: AccountChecking, Number: "****4521", Balance: d("15432.67"), Status: AccountActive, OpenedAt: date(2019, time.June, 15)},
		{ID: "ACC002", CustomerID: "CUST001", Type: AccountSavings, Number: "****4522", Balance: d("52150.00"), Status: AccountActive, OpenedAt: date(2019, time.July, 1)},
		{ID: "ACC003", CustomerID: "CUST002", Type: AccountChecking, Number: "****7834", Balance: d("3245.89"), Status: AccountActive, OpenedAt: date(2020, time.January, 10)},
		{ID: "ACC004", CustomerID: "CUST003", Type: AccountChecking, Number: "****2156", Balance: d("89234.50"), Status: AccountActive, OpenedAt: date(2015, time.March, 20)},
		{ID: "ACC005", CustomerID: "CUST003", Type: AccountSavings, Number: "****2157", Balance: d("245000.00"), Status: AccountActive, OpenedAt: date(2015, time.April, 1)},
		{ID: "ACC006", CustomerID: "CUST003", Type: AccountMoneyMarket, Number: "****2158", Balance: d("150000.00"), Status: AccountActive, OpenedAt: date(2017, time.January, 15)},
		{ID: "ACC007", CustomerID: "CUST004", Type: AccountChecking, Number: "****9012", Balance: d("1876.43"), Status: AccountActive, OpenedAt: date(2022, time.August, 5)},
		{ID: "ACC008", CustomerID: "CUST005", Type: AccountChecking, Number: "****3478", Balance: d("45678.90"), Status: AccountActive, OpenedAt: date(2010, time.November, 25)},
		{ID: "ACC009", CustomerID: "CUST005", Type: AccountSavings, Number: "****3479", Balance: d("320000.00"), Status: AccountActive, OpenedAt: date(2011, time.February, 1)},
	}
	for _, a := range accounts {
		s.addAccount(a)
	}

	loans := []Loan{
		{
			ID: "LOAN001", CustomerID: "CUST001", Type: LoanAuto,
			Principal: d("35000.00"), Balance: d("28456.78"), InterestRate: d("5.25"),
			MonthlyPayment: d("665.00"), OriginatedAt: date(2022, time.March, 1),
			Schedule: monthlySchedule(d("665.00"), 48),
		},
		{
			ID: "LOAN002", CustomerID: "CUST003", Type: LoanMortgage,
			Principal: d("650000.00"), Balance: d("542345.67"), InterestRate: d("3.75"),
			MonthlyPayment: d("3010.00"), OriginatedAt: date(2016, time.June, 1),
			Schedule: monthlySchedule(d("3010.00"), 240),
		},
		{
			ID: "LOAN003", CustomerID: "CUST004", Type: LoanPersonal,
			Principal: d("10000.00"), Balance: d("7234.56"), InterestRate: d("9.50"),
			MonthlyPayment: d("320.00"), OriginatedAt: date(2023, time.February, 1),
			Schedule: monthlySchedule(d("320.00"), 24),
		},
		{
			ID: "LOAN004", CustomerID: "CUST005", Type: LoanCreditLine,
			Principal: d("50000.00"), Balance: d("12500.00"), InterestRate: d("7.00"),
			MonthlyPayment: d("450.00"), OriginatedAt: date(2020, time.September, 1),
			Schedule: monthlySchedule(d("450.00"), 36),
		},
	}
	for _, l := range loans {
		s.addLoan(l)
	}

	cards := []Card{
		{ID: "CARD001", CustomerID: "CUST001", AccountID: "ACC001", Type: CardDebit, LastFour: "4521", ExpirationDate: "09/27", Status: CardActive},
		{ID: "CARD002", CustomerID: "CUST001", Type: CardCredit, LastFour: "8834", ExpirationDate: "01/28", Status: CardActive, CreditLimit: d("25000.00"), CreditUsed: d("3456.78")},
		{ID: "CARD003", CustomerID: "CUST002", AccountID: "ACC003", Type: CardDebit, LastFour: "7834", ExpirationDate: "06/26", Status: CardActive},
		{ID: "CARD004", CustomerID: "CUST003", AccountID: "ACC004", Type: CardDebit, LastFour: "2156", ExpirationDate: "11/27", Status: CardActive},
		{ID: "CARD005", CustomerID: "CUST003", Type: CardCredit, LastFour: "5567", ExpirationDate: "04/28", Status: CardActive, CreditLimit: d("50000.00"), CreditUsed: d("8234.56")},
		{ID: "CARD006", CustomerID: "CUST004", AccountID: "ACC007", Type: CardDebit, LastFour: "9012", ExpirationDate: "08/26", Status: CardActive},
		{ID: "CARD007", CustomerID: "CUST005", AccountID: "ACC008", Type: CardDebit, LastFour: "3478", ExpirationDate: "03/27", Status: CardActive},
		{ID: "CARD008", CustomerID: "CUST005", Type: CardCredit, LastFour: "6690", ExpirationDate: "12/27", Status: CardActive, CreditLimit: d("75000.00"), CreditUsed: d("0")},
	}
	for _, c := range cards {
		s.addCard(c)
	}

	now := time.Now()
	tickets := []SupportTicket{
		{
			ID: "TKT001", CustomerID: "CUST002", Category: "card_issue",
			Subject: "Card declined at merchant", Status: TicketOpen, Priority: PriorityMedium,
			History:   []TicketUpdate{{Note: "Customer reports repeated declines at grocery store.", Timestamp: now.AddDate(0, 0, -3)}},
			CreatedAt: now.AddDate(0, 0, -3), UpdatedAt: now.AddDate(0, 0, -3),
		},
		{
			ID: "TKT002", CustomerID: "CUST004", Category: "account_inquiry",
			Subject: "Question about overdraft fee", Status: TicketOpen, Priority: PriorityLow,
			History:   []TicketUpdate{{Note: "Customer disputes a $35 overdraft fee.", Timestamp: now.AddDate(0, 0, -1)}},
			CreatedAt: now.AddDate(0, 0, -1), UpdatedAt: now.AddDate(0, 0, -1),
		},
	}
	for _, t := range tickets {
		s.addTicket(t)
	}

	seedTransactions(s, accounts, now)

	if err := s.Validate(); err != nil {
		panic(fmt.Sprintf("seed dataset inconsistent: %v", err))
	}
	return s
}

// seedTransactions writes a deterministic recent history for each account:
// a payroll deposit, a handful of purchases, and a bill payment, spaced over
// the last three weeks. Amounts are fixed so tests can assert on them.
func seedTransactions(s *Store, accounts []Account, now time.Time) {
	merchants := []struct {
		name, category string
		amount         string
	}{
		{"Whole Foods Market", "Groceries", "87.32"},
		{"Shell Gas Station", "Fuel", "52.10"},
		{"Netflix", "Entertainment", "15.99"},
		{"Amazon", "Shopping", "134.50"},
	}

	seq := 0
	for _, acc := range accounts {
		balance := acc.Balance

		add := func(txType TransactionType, amount decimal.Decimal, description, merchant, category string, daysAgo int) {
			seq++
			balance = balance.Add(amount)
			s.addTransaction(Transaction{
				ID:               fmt.Sprintf("TXN%06d", seq),
				AccountID:        acc.ID,
				Type:             txType,
				Amount:           amount,
				Description:      description,
				Merchant:         merchant,
				MerchantCategory: category,
				Timestamp:        now.AddDate(0, 0, -daysAgo),
				Reference:        fmt.Sprintf("REF%06d", seq),
				BalanceAfter:     balance,
			})
		}

		add(TxDeposit, d("2500.00"), "Direct Deposit - Payroll", "", "", 14)
		for i, m := range merchants {
			add(TxPurchase, d(m.amount).Neg(), "Purchase at "+m.name, m.name, m.category, 12-i*3)
		}
		add(TxPayment, d("120.00").Neg(), "Bill Payment - Electric", "", "Bills", 2)
	}
}

func monthlySchedule(payment decimal.Decimal, months int) []ScheduleEntry {
	first := time.Now().AddDate(0, 1, 0)
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]ScheduleEntry, 0, months)
	for i := 0; i < months; i++ {
		out = append(out, ScheduleEntry{DueDate: first.AddDate(0, i, 0), Amount: payment})
	}
	return out
}
