package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a financial account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID    string          `json:"accountID"`    // Primary Key (e.g., UUID)
	Name         string          `json:"name"`         // User-defined name
	AccountType  AccountType     `json:"accountType"`  // ASSET, LIABILITY, etc.
	Category     string          `json:"category"`     // Cash, Bank, Sales, Receivables, Operating
	CurrencyCode string          `json:"currencyCode"` // ISO 4217 code
	Description  string          `json:"description"`  // Nullable user description
	IsActive     bool            `json:"isActive"`     // Soft delete or status flag
	AuditFields                  // Embed CreatedAt, CreatedBy, etc.
	Balance      decimal.Decimal `json:"balance"` // Persisted running balance; mutated only by postings and reversals
}

// AccountRole names a logical account the posting engine needs to resolve.
// Roles replace free-text category matching at call sites: each role maps to
// an explicit (account type, category) selector below.
type AccountRole string

const (
	RoleCash        AccountRole = "CASH"
	RoleBank        AccountRole = "BANK"
	RoleSales       AccountRole = "SALES"
	RoleReceivables AccountRole = "RECEIVABLES"
	RoleOperating   AccountRole = "OPERATING"
)

// RoleSelector is the lookup criteria a role resolves through.
type RoleSelector struct {
	AccountType AccountType
	Category    string
}

// roleSelectors is the configuration mapping from role to selection criteria.
var roleSelectors = map[AccountRole]RoleSelector{
	RoleCash:        {AccountType: Asset, Category: "Cash"},
	RoleBank:        {AccountType: Asset, Category: "Bank"},
	RoleSales:       {AccountType: Revenue, Category: "Sales"},
	RoleReceivables: {AccountType: Asset, Category: "Receivables"},
	RoleOperating:   {AccountType: Expense, Category: "Operating"},
}

// Selector returns the (type, category) criteria for the role.
// The second return is false for an unknown role.
func (r AccountRole) Selector() (RoleSelector, bool) {
	sel, ok := roleSelectors[r]
	return sel, ok
}

// RoleForPaymentMethod picks the settlement account role for a payment method:
// cash settles against the cash account, everything else against the bank account.
func RoleForPaymentMethod(method string) AccountRole {
	if strings.EqualFold(strings.TrimSpace(method), "cash") {
		return RoleCash
	}
	return RoleBank
}
