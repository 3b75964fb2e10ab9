package services

import (
	"context"
	"time"

	"github.com/mdomarsaleem1/sample-banking-agentic-AI/agent/contract"
	"github.com/mdomarsaleem1/sample-banking-agentic-AI/banking"
)

// SupportService manages the ticket lifecycle. A closed ticket must be
// reopened before it can be escalated again.
type SupportService struct {
	store *banking.Store
	reqs  counter
}

func NewSupportService(store *banking.Store) *SupportService {
	return &SupportService{store: store}
}

func (s *SupportService) Name() string        { return "support" }
func (s *SupportService) RequestCount() int64 { return s.reqs.value() }

func (s *SupportService) Operations() map[string]Handler {
	return map[string]Handler{
		"get_ticket":           s.getTicket,
		"get_customer_tickets": s.getCustomerTickets,
		"create_ticket":        s.createTicket,
		"escalate_ticket":      s.escalateTicket,
		"close_ticket":         s.closeTicket,
		"reopen_ticket":        s.reopenTicket,
	}
}

type TicketInfo struct {
	TicketID  string    `json:"ticket_id"`
	Category  string    `json:"category"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	Updates   []string  `json:"updates"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ticketInfo(t banking.SupportTicket) TicketInfo {
	updates := make([]string, 0, len(t.History))
	for _, u := range t.History {
		updates = append(updates, u.Note)
	}
	return TicketInfo{
		TicketID:  t.ID,
		Category:  t.Category,
		Subject:   t.Subject,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		Updates:   updates,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (s *SupportService) getTicket(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	id, err := stringArg(args, "ticket_id")
	if err != nil {
		return nil, err
	}
	t, ok := s.store.Ticket(id)
	if !ok {
		return nil, contract.Errorf(contract.KindNotFound, "ticket %s not found", id)
	}
	return ticketInfo(t), nil
}

func (s *SupportService) getCustomerTickets(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	customerID, err := stringArg(args, "customer_id")
	if err != nil {
		return nil, err
	}
	includeClosed := false
	if v, ok := args["include_closed"].(bool); ok {
		includeClosed = v
	}
	tickets := s.store.CustomerTickets(customerID, includeClosed)
	out := make([]TicketInfo, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ticketInfo(t))
	}
	return out, nil
}

func (s *SupportService) createTicket(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	customerID, err := stringArg(args, "customer_id")
	if err != nil {
		return nil, err
	}
	subject, err := stringArg(args, "subject")
	if err != nil {
		return nil, err
	}
	category := optionalStringArg(args, "category", "general_inquiry")
	description := optionalStringArg(args, "description", subject)
	priority := banking.TicketPriority(optionalStringArg(args, "priority", string(banking.PriorityMedium)))

	t, err := s.store.CreateTicket(customerID, category, subject, description, priority)
	if err != nil {
		return nil, err
	}
	return ticketInfo(t), nil
}

func (s *SupportService) escalateTicket(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	return s.transition(args, banking.TicketEscalated, optionalStringArg(args, "reason", "escalated at customer request"))
}

func (s *SupportService) closeTicket(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	return s.transition(args, banking.TicketClosed, optionalStringArg(args, "reason", "closed at customer request"))
}

func (s *SupportService) reopenTicket(_ context.Context, args map[string]any) (any, error) {
	s.reqs.inc()
	return s.transition(args, banking.TicketOpen, optionalStringArg(args, "reason", "reopened at customer request"))
}

func (s *SupportService) transition(args map[string]any, target banking.TicketStatus, note string) (any, error) {
	id, err := stringArg(args, "ticket_id")
	if err != nil {
		return nil, err
	}
	t, err := s.store.TransitionTicket(id, target, note)
	if err != nil {
		return nil, err
	}
	return ticketInfo(t), nil
}
