package state

// Account holds one public key's balance, stake, and nonce. Accounts are
// created on first credit/debit and never deleted (spec §3).
type Account struct {
	Balance uint64 `json:"balance"`
	Stake   uint64 `json:"stake"`
	Nonce   uint64 `json:"nonce"`
}

// HasStake reports whether the account meets the validator stake floor.
func (a *Account) HasStake() bool {
	return a != nil && a.Stake >= MinStake
}
