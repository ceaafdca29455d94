package domain

// AccountType defines the bookkeeping classification of an account.
// The classification decides how debits and credits move the balance:
// REGULAR and SAVINGS behave as assets, DEBT behaves as a liability.
type AccountType string

const (
	Regular AccountType = "REGULAR"
	Savings AccountType = "SAVINGS"
	Debt    AccountType = "DEBT"
)

// IsAssetLike reports whether a debit increases this account's balance.
func (t AccountType) IsAssetLike() bool {
	return t == Regular || t == Savings
}

// AccountRef is the lightweight account reference carried by journal entries.
type AccountRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
