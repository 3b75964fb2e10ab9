package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking"
)

// CustomerService resolves customer identity and aggregates the full
// relationship profile.
type CustomerService struct {
	store *banking.Store
	reqs  counter
}

func NewCustomerService(store *banking.Store) *CustomerService {
	return &CustomerService{store: store}
}

func (s *CustomerService) Name() string        { return "customer" }
func (s *CustomerService) RequestCount() int64 { return s.reqs.value() }

func (s *CustomerService) Operations() map[string]Handler {
	return map[string]Handler{
		"get_customer":          s.getCustomer,
		"get_customer_by_phone": s.getCustomerByPhone,
		"get_customer_by_email": s.getCustomerByEmail,
		"verify_customer":       s.verifyCustomer,
		"get_customer_profile":  s.getCustomerProfile,
	}
}

// CustomerInfo is the identity payload returned to the executor; it never
// includes SSN digits or date of birth.
type CustomerInfo struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Segment    string `json:"segment"`
}

func customerInfo(c banking.Customer) CustomerInfo {
	return CustomerInfo{
		CustomerID: c.ID,
		Name:       c.FullName(),
		Email:      c.Email,
		Phone:      c.Phone,
		Segment:    c.Segment,
	}
}

func (s *CustomerService) getCustomer(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "customer_id")
	if err != nil {
		return nil, err
	}
	c, ok := s.store.Customer(id)
	if !ok {
		return nil, contract.Errorf(contract.KindNotFound, "customer %s not found", id)
	}
	return customerInfo(c), nil
}

func (s *CustomerService) getCustomerByPhone(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	phone, err := stringArg(args, "phone_number")
	if err != nil {
		return nil, err
	}
	c, ok := s.store.CustomerByPhone(phone)
	if !ok {
		return nil, contract.NewError(contract.KindNotFound, "no customer with this phone number")
	}
	return customerInfo(c), nil
}

func (s *CustomerService) getCustomerByEmail(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	email, err := stringArg(args, "email")
	if err != nil {
		return nil, err
	}
	c, ok := s.store.CustomerByEmail(email)
	if !ok {
		return nil, contract.NewError(contract.KindNotFound, "no customer with this email")
	}
	return customerInfo(c), nil
}

// VerificationOutcome reports whether the supplied factors matched.
type VerificationOutcome struct {
	CustomerID string `json:"customer_id"`
	Verified   bool   `json:"verified"`
}

func (s *CustomerService) verifyCustomer(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "customer_id")
	if err != nil {
		return nil, err
	}
	ssnLastFour, err := stringArg(args, "ssn_last_four")
	if err != nil {
		return nil, err
	}
	dob, err := stringArg(args, "date_of_birth")
	if err != nil {
		return nil, err
	}

	c, ok := s.store.Customer(id)
	if !ok {
		return nil, contract.Errorf(contract.KindNotFound, "customer %s not found", id)
	}
	verified := c.SSNLastFour == ssnLastFour && c.DateOfBirth.Format("2006-01-02") == dob
	return VerificationOutcome{CustomerID: id, Verified: verified}, nil
}

// CustomerProfile aggregates the relationship across all services.
type CustomerProfile struct {
	Customer           CustomerInfo    `json:"customer"`
	AccountsCount      int             `json:"accounts_count"`
	RelationshipValue  decimal.Decimal `json:"relationship_value"`
	ActiveLoansCount   int             `json:"active_loans_count"`
	CardsCount         int             `json:"cards_count"`
	OpenTicketsCount   int             `json:"open_tickets_count"`
	CustomerSinceYears int             `json:"customer_since_years"`
}

func (s *CustomerService) getCustomerProfile(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "customer_id")
	if err != nil {
		return nil, err
	}
	c, ok := s.store.Customer(id)
	if !ok {
		return nil, contract.Errorf(contract.KindNotFound, "customer %s not found", id)
	}

	accounts := s.store.CustomerAccounts(id)
	total := decimal.Zero
	for _, acc := range accounts {
		total = total.Add(acc.Balance)
	}

	return CustomerProfile{
		Customer:           customerInfo(c),
		AccountsCount:      len(accounts),
		RelationshipValue:  total,
		ActiveLoansCount:   len(s.store.CustomerLoans(id)),
		CardsCount:         len(s.store.CustomerCards(id)),
		OpenTicketsCount:   len(s.store.CustomerTickets(id, false)),
		CustomerSinceYears: yearsSince(c.CreatedAt),
	}, nil
}
