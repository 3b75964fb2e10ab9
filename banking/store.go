package banking

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
)

// Store is the shared record set behind the six domain services. Records
// are process-local; each mutator is the atomicity boundary, so concurrent
// sessions mutating the same entity serialize here.
type Store struct {
	mu sync.RWMutex

	customers map[string]*Customer
	accounts  map[string]*Account
	txns      map[string]*Transaction
	loans     map[string]*Loan
	cards     map[string]*Card
	tickets   map[string]*SupportTicket

	accountsByCustomer map[string][]string
	txnsByAccount      map[string][]string
	loansByCustomer    map[string][]string
	cardsByCustomer    map[string][]string
	ticketsByCustomer  map[string][]string

	customerByPhone map[string]string
	customerByEmail map[string]string

	ticketSeq int
}

func NewStore() *Store {
	s := &Store{
		customers:          make(map[string]*Customer),
		accounts:           make(map[string]*Account),
		txns:               make(map[string]*Transaction),
		loans:              make(map[string]*Loan),
		cards:              make(map[string]*Card),
		tickets:            make(map[string]*SupportTicket),
		accountsByCustomer: make(map[string][]string),
		txnsByAccount:      make(map[string][]string),
		loansByCustomer:    make(map[string][]string),
		cardsByCustomer:    make(map[string][]string),
		ticketsByCustomer:  make(map[string][]string),
		customerByPhone:    make(map[string]string),
		customerByEmail:    make(map[string]string),
	}
	return s
}

/* ------------------------------- loading -------------------------------- */

func (s *Store) addCustomer(c Customer) {
	s.customers[c.ID] = &c
	s.customerByPhone[c.Phone] = c.ID
	s.customerByEmail[strings.ToLower(c.Email)] = c.ID
}

func (s *Store) addAccount(a Account) {
	s.accounts[a.ID] = &a
	s.accountsByCustomer[a.CustomerID] = append(s.accountsByCustomer[a.CustomerID], a.ID)
}

func (s *Store) addTransaction(t Transaction) {
	s.txns[t.ID] = &t
	s.txnsByAccount[t.AccountID] = append(s.txnsByAccount[t.AccountID], t.ID)
}

func (s *Store) addLoan(l Loan) {
	s.loans[l.ID] = &l
	s.loansByCustomer[l.CustomerID] = append(s.loansByCustomer[l.CustomerID], l.ID)
}

func (s *Store) addCard(c Card) {
	s.cards[c.ID] = &c
	s.cardsByCustomer[c.CustomerID] = append(s.cardsByCustomer[c.CustomerID], c.ID)
}

func (s *Store) addTicket(t SupportTicket) {
	s.tickets[t.ID] = &t
	s.ticketsByCustomer[t.CustomerID] = append(s.ticketsByCustomer[t.CustomerID], t.ID)
	s.ticketSeq++
}

/* ------------------------------- queries -------------------------------- */

func (s *Store) Customer(id string) (Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return Customer{}, false
	}
	return *c, true
}

func (s *Store) CustomerByPhone(phone string) (Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.customerByPhone[strings.TrimSpace(phone)]
	if !ok {
		return Customer{}, false
	}
	return *s.customers[id], true
}

func (s *Store) CustomerByEmail(email string) (Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.customerByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return Customer{}, false
	}
	return *s.customers[id], true
}

func (s *Store) Account(id string) (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

func (s *Store) CustomerAccounts(customerID string) []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Account, 0, len(s.accountsByCustomer[customerID]))
	for _, id := range s.accountsByCustomer[customerID] {
		out = append(out, *s.accounts[id])
	}
	return out
}

func (s *Store) Transaction(id string) (Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.txns[id]
	if !ok {
		return Transaction{}, false
	}
	return *t, true
}

// AccountTransactions returns up to limit transactions for the account from
// the last `days` days, newest first.
func (s *Store) AccountTransactions(accountID string, limit, days int) []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := time.Now().AddDate(0, 0, -days)
	out := make([]Transaction, 0, limit)
	for _, id := range s.txnsByAccount[accountID] {
		t := s.txns[id]
		if t.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) Loan(id string) (Loan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.loans[id]
	if !ok {
		return Loan{}, false
	}
	return *l, true
}

func (s *Store) CustomerLoans(customerID string) []Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Loan, 0, len(s.loansByCustomer[customerID]))
	for _, id := range s.loansByCustomer[customerID] {
		out = append(out, *s.loans[id])
	}
	return out
}

func (s *Store) Card(id string) (Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[id]
	if !ok {
		return Card{}, false
	}
	return *c, true
}

func (s *Store) CustomerCards(customerID string) []Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Card, 0, len(s.cardsByCustomer[customerID]))
	for _, id := range s.cardsByCustomer[customerID] {
		out = append(out, *s.cards[id])
	}
	return out
}

func (s *Store) CustomerCardByLastFour(customerID, lastFour string) (Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.cardsByCustomer[customerID] {
		if s.cards[id].LastFour == lastFour {
			return *s.cards[id], true
		}
	}
	return Card{}, false
}

func (s *Store) Ticket(id string) (SupportTicket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[id]
	if !ok {
		return SupportTicket{}, false
	}
	return cloneTicket(t), true
}

func (s *Store) CustomerTickets(customerID string, includeClosed bool) []SupportTicket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SupportTicket, 0, len(s.ticketsByCustomer[customerID]))
	for _, id := range s.ticketsByCustomer[customerID] {
		t := s.tickets[id]
		if !includeClosed && t.Status == TicketClosed {
			continue
		}
		out = append(out, cloneTicket(t))
	}
	return out
}

func cloneTicket(t *SupportTicket) SupportTicket {
	out := *t
	out.History = append([]TicketUpdate(nil), t.History...)
	return out
}

/* ------------------------------- mutators ------------------------------- */

// TransferFunds atomically moves amount between two accounts, recording the
// matching debit/credit transactions. The source balance can never go
// negative: an excessive amount fails without touching either account.
func (s *Store) TransferFunds(fromID, toID string, amount decimal.Decimal, description string) (string, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return "", contract.NewError(contract.KindBusinessRuleViolation, "transfer amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.accounts[fromID]
	if !ok {
		return "", contract.Errorf(contract.KindNotFound, "account %s not found", fromID)
	}
	to, ok := s.accounts[toID]
	if !ok {
		return "", contract.Errorf(contract.KindNotFound, "account %s not found", toID)
	}
	if from.Balance.LessThan(amount) {
		return "", contract.NewError(contract.KindBusinessRuleViolation, "insufficient funds in source account")
	}

	now := time.Now()
	reference := "REF-" + strings.ToUpper(uuid.NewString()[:8])

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)

	debit := Transaction{
		ID:           "TXN-" + uuid.NewString()[:12],
		AccountID:    fromID,
		Type:         TxTransferOut,
		Amount:       amount.Neg(),
		Description:  description,
		Timestamp:    now,
		Reference:    reference,
		BalanceAfter: from.Balance,
	}
	credit := Transaction{
		ID:           "TXN-" + uuid.NewString()[:12],
		AccountID:    toID,
		Type:         TxTransferIn,
		Amount:       amount,
		Description:  description,
		Timestamp:    now,
		Reference:    reference,
		BalanceAfter: to.Balance,
	}

	s.txns[debit.ID] = &debit
	s.txns[credit.ID] = &credit
	s.txnsByAccount[fromID] = append(s.txnsByAccount[fromID], debit.ID)
	s.txnsByAccount[toID] = append(s.txnsByAccount[toID], credit.ID)

	return reference, nil
}

// BlockResult describes the outcome of a card block or loss report.
type BlockResult struct {
	Card              Card
	AlreadyBlocked    bool
	ReplacementQueued bool
}

// BlockCard transitions a card to the given terminal status. Transitions are
// monotone: a card already in a terminal status keeps it, no second
// replacement is queued, and the call still succeeds.
func (s *Store) BlockCard(cardID string, status CardStatus, queueReplacement bool) (BlockResult, error) {
	if !status.Terminal() {
		return BlockResult{}, contract.Errorf(contract.KindInvalidArgument, "status %s is not a block status", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[cardID]
	if !ok {
		return BlockResult{}, contract.Errorf(contract.KindNotFound, "card %s not found", cardID)
	}

	if card.Status.Terminal() {
		return BlockResult{Card: *card, AlreadyBlocked: true, ReplacementQueued: card.ReplacementQueued}, nil
	}

	card.Status = status
	queued := false
	if queueReplacement && !card.ReplacementQueued {
		card.ReplacementQueued = true
		queued = true
	}
	return BlockResult{Card: *card, ReplacementQueued: queued}, nil
}

// CreateTicket opens a new support ticket and returns it.
func (s *Store) CreateTicket(customerID, category, subject, description string, priority TicketPriority) (SupportTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[customerID]; !ok {
		return SupportTicket{}, contract.Errorf(contract.KindNotFound, "customer %s not found", customerID)
	}

	now := time.Now()
	t := SupportTicket{
		ID:         fmt.Sprintf("TKT%03d", s.ticketSeq+1),
		CustomerID: customerID,
		Category:   category,
		Subject:    subject,
		Status:     TicketOpen,
		Priority:   priority,
		History: []TicketUpdate{
			{Note: description, Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.tickets[t.ID] = &t
	s.ticketsByCustomer[customerID] = append(s.ticketsByCustomer[customerID], t.ID)
	s.ticketSeq++
	return cloneTicket(&t), nil
}

// TransitionTicket moves a ticket through its lifecycle. A closed ticket
// cannot be escalated without being reopened first.
func (s *Store) TransitionTicket(ticketID string, target TicketStatus, note string) (SupportTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[ticketID]
	if !ok {
		return SupportTicket{}, contract.Errorf(contract.KindNotFound, "ticket %s not found", ticketID)
	}

	switch target {
	case TicketEscalated:
		if t.Status == TicketClosed {
			return SupportTicket{}, contract.NewError(contract.KindBusinessRuleViolation,
				"closed ticket must be reopened before escalation")
		}
		if t.Status == TicketEscalated {
			return cloneTicket(t), nil
		}
	case TicketClosed:
		if t.Status == TicketClosed {
			return cloneTicket(t), nil
		}
	case TicketOpen: // reopen
		if t.Status == TicketOpen {
			return cloneTicket(t), nil
		}
	default:
		return SupportTicket{}, contract.Errorf(contract.KindInvalidArgument, "unknown ticket status %s", target)
	}

	now := time.Now()
	t.Status = target
	t.UpdatedAt = now
	if note != "" {
		t.History = append(t.History, TicketUpdate{Note: note, Timestamp: now})
	}
	return cloneTicket(t), nil
}

// Validate checks referential consistency of the loaded dataset. Every
// account, loan, card, and ticket must reference an existing customer, and
// every debit card must reference one of its owner's accounts.
func (s *Store) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, a := range s.accounts {
		if _, ok := s.customers[a.CustomerID]; !ok {
			return fmt.Errorf("account %s references missing customer %s", id, a.CustomerID)
		}
	}
	for id, l := range s.loans {
		if _, ok := s.customers[l.CustomerID]; !ok {
			return fmt.Errorf("loan %s references missing customer %s", id, l.CustomerID)
		}
	}
	for id, c := range s.cards {
		if _, ok := s.customers[c.CustomerID]; !ok {
			return fmt.Errorf("card %s references missing customer %s", id, c.CustomerID)
		}
		if c.Type == CardDebit {
			acc, ok := s.accounts[c.AccountID]
			if !ok {
				return fmt.Errorf("card %s references missing account %s", id, c.AccountID)
			}
			if acc.CustomerID != c.CustomerID {
				return fmt.Errorf("card %s links account %s of another customer", id, c.AccountID)
			}
		}
	}
	for id, t := range s.tickets {
		if _, ok := s.customers[t.CustomerID]; !ok {
			return fmt.Errorf("ticket %s references missing customer %s", id, t.CustomerID)
		}
	}
	for id, t := range s.txns {
		if _, ok := s.accounts[t.AccountID]; !ok {
			return fmt.Errorf("transaction %s references missing account %s", id, t.AccountID)
		}
	}
	return nil
}
