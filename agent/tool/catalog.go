// Package tool defines the banking tool catalog and the executor that
// validates and dispatches tool calls against the gateway.
package tool

import (
	"github.com/cloudwego/eino/schema"
)

// RefKind names the entity family a referential argument points at. The
// executor verifies ownership of every referenced id before dispatch.
type RefKind string

const (
	RefCustomer RefKind = "customer"
	RefAccount  RefKind = "account"
	RefCard     RefKind = "card"
	RefLoan     RefKind = "loan"
	RefTicket   RefKind = "ticket"
)

// ArgSpec describes one tool argument for schema validation.
type ArgSpec struct {
	Name     string
	Type     schema.DataType
	Required bool
	Desc     string
}

// Spec is the executor-side metadata for one tool. Identity tools bypass
// the authorization and referential checks; sensitive tools require at
// least basic verification; confirm-gated tools suspend on first proposal
// until the caller explicitly agrees.
type Spec struct {
	Name         string
	Desc         string
	Service      string
	Operation    string
	Args         []ArgSpec
	Refs         map[string]RefKind
	Identity     bool
	Sensitive    bool
	NeedsConfirm bool
	// InjectCustomer adds the session's customer id into the gateway args,
	// so the decision step never has to supply (or fake) it.
	InjectCustomer bool
}

const (
	ToolIdentifyByPhone  = "identify_customer_by_phone"
	ToolIdentifyByEmail  = "identify_customer_by_email"
	ToolVerifyIdentity   = "verify_customer_identity"
	ToolCustomerProfile  = "get_customer_profile"
	ToolCustomerAccounts = "get_customer_accounts"
	ToolAccountBalance   = "check_account_balance"
	ToolAllBalances      = "get_all_account_balances"
	ToolTransferFunds    = "transfer_funds"
	ToolRecentTxns       = "get_recent_transactions"
	ToolSearchTxns       = "search_transactions"
	ToolSpendingSummary  = "get_spending_summary"
	ToolLoanSummary      = "get_loan_summary"
	ToolPaymentSchedule  = "get_payment_schedule"
	ToolPayoffAmount     = "get_payoff_amount"
	ToolCardSummary      = "get_card_summary"
	ToolCardStatus       = "check_card_status"
	ToolBlockCard        = "block_card"
	ToolReportCardLost   = "report_card_lost_stolen"
	ToolOpenTickets      = "get_open_tickets"
	ToolCreateTicket     = "create_support_ticket"
	ToolEscalateTicket   = "escalate_ticket"
	ToolCloseTicket      = "close_ticket"
	ToolReopenTicket     = "reopen_ticket"
)

// Catalog returns the executor metadata for every tool, keyed by name.
func Catalog() map[string]Spec {
	specs := []Spec{
		{
			Name: ToolIdentifyByPhone, Identity: true,
			Desc:    "Look up a customer by phone number to identify the caller.",
			Service: "customer", Operation: "get_customer_by_phone",
			Args: []ArgSpec{{Name: "phone_number", Type: schema.String, Required: true, Desc: "Phone number, e.g. +1-555-0101"}},
		},
		{
			Name: ToolIdentifyByEmail, Identity: true,
			Desc:    "Look up a customer by email address to identify the caller.",
			Service: "customer", Operation: "get_customer_by_email",
			Args: []ArgSpec{{Name: "email", Type: schema.String, Required: true, Desc: "Email address"}},
		},
		{
			Name: ToolVerifyIdentity, Identity: true,
			Desc:    "Verify the identified customer with date of birth and SSN last four, raising verification to strong.",
			Service: "customer", Operation: "verify_customer",
			Args: []ArgSpec{
				{Name: "ssn_last_four", Type: schema.String, Required: true, Desc: "Last four SSN digits"},
				{Name: "date_of_birth", Type: schema.String, Required: true, Desc: "Date of birth, YYYY-MM-DD"},
			},
			InjectCustomer: true,
		},
		{
			Name:    ToolCustomerProfile,
			Desc:    "Get the customer's relationship overview: accounts, loans, cards, open tickets.",
			Service: "customer", Operation: "get_customer_profile",
			InjectCustomer: true,
		},
		{
			Name:    ToolCustomerAccounts,
			Desc:    "List the customer's accounts with balances and status.",
			Service: "account", Operation: "get_customer_accounts",
			InjectCustomer: true,
		},
		{
			Name: ToolAccountBalance, Sensitive: true,
			Desc:    "Get the balance of one account.",
			Service: "account", Operation: "get_account_balance",
			Args: []ArgSpec{{Name: "account_id", Type: schema.String, Required: true, Desc: "Account id"}},
			Refs: map[string]RefKind{"account_id": RefAccount},
		},
		{
			Name: ToolAllBalances, Sensitive: true,
			Desc:    "Get all account balances for the customer with a total.",
			Service: "account", Operation: "get_total_balance",
			InjectCustomer: true,
		},
		{
			Name: ToolTransferFunds, Sensitive: true, NeedsConfirm: true,
			Desc:    "Transfer funds between two of the customer's accounts.",
			Service: "account", Operation: "transfer_funds",
			Args: []ArgSpec{
				{Name: "from_account_id", Type: schema.String, Required: true, Desc: "Source account id"},
				{Name: "to_account_id", Type: schema.String, Required: true, Desc: "Destination account id"},
				{Name: "amount", Type: schema.Number, Required: true, Desc: "Amount to transfer"},
				{Name: "description", Type: schema.String, Desc: "Optional transfer note"},
			},
			Refs: map[string]RefKind{"from_account_id": RefAccount, "to_account_id": RefAccount},
		},
		{
			Name:    ToolRecentTxns,
			Desc:    "Get recent transactions for an account.",
			Service: "transaction", Operation: "get_recent_transactions",
			Args: []ArgSpec{
				{Name: "account_id", Type: schema.String, Required: true, Desc: "Account id"},
				{Name: "limit", Type: schema.Integer, Desc: "Max results, default 10"},
				{Name: "days", Type: schema.Integer, Desc: "Lookback window in days, default 30"},
			},
			Refs: map[string]RefKind{"account_id": RefAccount},
		},
		{
			Name:    ToolSearchTxns,
			Desc:    "Search an account's transactions by merchant, amount range, or type.",
			Service: "transaction", Operation: "search_transactions",
			Args: []ArgSpec{
				{Name: "account_id", Type: schema.String, Required: true, Desc: "Account id"},
				{Name: "merchant", Type: schema.String, Desc: "Merchant name substring"},
				{Name: "min_amount", Type: schema.Number, Desc: "Minimum absolute amount"},
				{Name: "max_amount", Type: schema.Number, Desc: "Maximum absolute amount"},
				{Name: "transaction_type", Type: schema.String, Desc: "Transaction type filter"},
			},
			Refs: map[string]RefKind{"account_id": RefAccount},
		},
		{
			Name:    ToolSpendingSummary,
			Desc:    "Summarize spending by category over a window.",
			Service: "transaction", Operation: "get_spending_summary",
			Args: []ArgSpec{
				{Name: "account_id", Type: schema.String, Required: true, Desc: "Account id"},
				{Name: "days", Type: schema.Integer, Desc: "Lookback window in days, default 30"},
			},
			Refs: map[string]RefKind{"account_id": RefAccount},
		},
		{
			Name:    ToolLoanSummary,
			Desc:    "List the customer's loans with balances and next payments.",
			Service: "loan", Operation: "get_loan_summary",
			InjectCustomer: true,
		},
		{
			Name:    ToolPaymentSchedule,
			Desc:    "Get the upcoming payment schedule for a loan.",
			Service: "loan", Operation: "get_payment_schedule",
			Args: []ArgSpec{
				{Name: "loan_id", Type: schema.String, Required: true, Desc: "Loan id"},
				{Name: "months", Type: schema.Integer, Desc: "How many entries, default 12"},
			},
			Refs: map[string]RefKind{"loan_id": RefLoan},
		},
		{
			Name:    ToolPayoffAmount,
			Desc:    "Quote the amount needed to pay off a loan today.",
			Service: "loan", Operation: "get_payoff_amount",
			Args: []ArgSpec{{Name: "loan_id", Type: schema.String, Required: true, Desc: "Loan id"}},
			Refs: map[string]RefKind{"loan_id": RefLoan},
		},
		{
			Name:    ToolCardSummary,
			Desc:    "List the customer's cards with status and credit utilization.",
			Service: "card", Operation: "get_card_summary",
			InjectCustomer: true,
		},
		{
			Name:    ToolCardStatus,
			Desc:    "Check the status of one card.",
			Service: "card", Operation: "check_card_status",
			Args: []ArgSpec{{Name: "card_id", Type: schema.String, Required: true, Desc: "Card id"}},
			Refs: map[string]RefKind{"card_id": RefCard},
		},
		{
			Name: ToolBlockCard, Sensitive: true,
			Desc:    "Block a card immediately.",
			Service: "card", Operation: "block_card",
			Args: []ArgSpec{
				{Name: "card_id", Type: schema.String, Required: true, Desc: "Card id"},
				{Name: "reason", Type: schema.String, Desc: "Reason: lost, stolen, fraud, customer_request"},
			},
			Refs: map[string]RefKind{"card_id": RefCard},
		},
		{
			// Fan-out tool: block + recent activity + optional fraud ticket.
			// Composition lives in the executor, not here.
			Name: ToolReportCardLost, Sensitive: true,
			Desc: "Report a card lost or stolen by its last four digits: blocks it, pulls recent activity, and opens a fraud ticket for theft.",
			Args: []ArgSpec{
				{Name: "card_last_four", Type: schema.String, Required: true, Desc: "Last four digits of the card"},
				{Name: "is_stolen", Type: schema.Boolean, Desc: "True when the card was stolen rather than lost"},
			},
		},
		{
			Name:    ToolOpenTickets,
			Desc:    "List the customer's open support tickets.",
			Service: "support", Operation: "get_customer_tickets",
			InjectCustomer: true,
		},
		{
			Name:    ToolCreateTicket,
			Desc:    "Open a support ticket for the customer.",
			Service: "support", Operation: "create_ticket",
			Args: []ArgSpec{
				{Name: "subject", Type: schema.String, Required: true, Desc: "Short issue summary"},
				{Name: "description", Type: schema.String, Desc: "Issue details"},
				{Name: "category", Type: schema.String, Desc: "Ticket category"},
				{Name: "priority", Type: schema.String, Desc: "low, medium, high, urgent"},
			},
			InjectCustomer: true,
		},
		{
			Name: ToolEscalateTicket, Sensitive: true,
			Desc:    "Escalate an open support ticket.",
			Service: "support", Operation: "escalate_ticket",
			Args: []ArgSpec{
				{Name: "ticket_id", Type: schema.String, Required: true, Desc: "Ticket id"},
				{Name: "reason", Type: schema.String, Desc: "Escalation reason"},
			},
			Refs: map[string]RefKind{"ticket_id": RefTicket},
		},
		{
			Name: ToolCloseTicket, NeedsConfirm: true,
			Desc:    "Close a support ticket.",
			Service: "support", Operation: "close_ticket",
			Args: []ArgSpec{
				{Name: "ticket_id", Type: schema.String, Required: true, Desc: "Ticket id"},
				{Name: "reason", Type: schema.String, Desc: "Closing note"},
			},
			Refs: map[string]RefKind{"ticket_id": RefTicket},
		},
		{
			Name:    ToolReopenTicket,
			Desc:    "Reopen a previously closed support ticket.",
			Service: "support", Operation: "reopen_ticket",
			Args: []ArgSpec{
				{Name: "ticket_id", Type: schema.String, Required: true, Desc: "Ticket id"},
				{Name: "reason", Type: schema.String, Desc: "Reason for reopening"},
			},
			Refs: map[string]RefKind{"ticket_id": RefTicket},
		},
	}

	out := make(map[string]Spec, len(specs))
	for _, s := range specs {
		out[s.Name] = s
	}
	return out
}

// Infos exposes the catalog as eino tool schemas, the contract handed to
// the decision capability.
func Infos() []*schema.ToolInfo {
	catalog := Catalog()
	out := make([]*schema.ToolInfo, 0, len(catalog))
	for _, name := range orderedNames() {
		spec := catalog[name]
		params := make(map[string]*schema.ParameterInfo, len(spec.Args))
		for _, a := range spec.Args {
			params[a.Name] = &schema.ParameterInfo{
				Type:     a.Type,
				Desc:     a.Desc,
				Required: a.Required,
			}
		}
		out = append(out, &schema.ToolInfo{
			Name:        spec.Name,
			Desc:        spec.Desc,
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		})
	}
	return out
}

// orderedNames keeps the catalog enumeration stable for prompts and tests.
func orderedNames() []string {
	return []string{
		ToolIdentifyByPhone,
		ToolIdentifyByEmail,
		ToolVerifyIdentity,
		ToolCustomerProfile,
		ToolCustomerAccounts,
		ToolAccountBalance,
		ToolAllBalances,
		ToolTransferFunds,
		ToolRecentTxns,
		ToolSearchTxns,
		ToolSpendingSummary,
		ToolLoanSummary,
		ToolPaymentSchedule,
		ToolPayoffAmount,
		ToolCardSummary,
		ToolCardStatus,
		ToolBlockCard,
		ToolReportCardLost,
		ToolOpenTickets,
		ToolCreateTicket,
		ToolEscalateTicket,
		ToolCloseTicket,
		ToolReopenTicket,
	}
}
