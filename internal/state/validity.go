package state

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-chain/internal/tx"
)

// TransactionValid implements transactionValid(T, now) from spec §4.3.
//
// chainLen is the number of already-committed records (used for the
// genesis-window override); pendingLen is the depth of the pending vote
// queue (used to scale the expiry check). now selects whether the
// stricter "live submission" checks (timestamp expiry, nonce match)
// apply — replay only ever calls this with now=false.
func TransactionValid(accounts map[string]*Account, chainLen, pendingLen int, t *tx.Transaction, now bool, nowSec int64) (bool, []string) {
	valid := t.Verify()
	var reasons []string
	if !valid {
		reasons = append(reasons, "Invalid signature")
	}

	if t.Timestamp > nowSec+TimestampRangeSeconds {
		valid = false
		reasons = append(reasons, "Transaction from future")
	}

	// Expiry is scaled by how deep the pending queue is: a transaction
	// that has waited behind pendingLen other slots is allowed that many
	// extra maxVoteTime windows of staleness before being rejected as
	// expired. Read literally, spec §4.3's bound
	// (timestampRange + pendingLen*maxVoteTime/1000) is a two-digit-ish
	// second count compared directly against an absolute Unix timestamp,
	// a condition that can never fire; that can only be a shorthand for
	// "reject once the transaction is more than that many seconds stale",
	// i.e. nowSec minus the bound, which is what's computed below.
	if now {
		expiryBound := nowSec - (TimestampRangeSeconds + int64(pendingLen)*(MaxVoteTimeMillis/1000))
		if t.Timestamp < expiryBound {
			valid = false
			reasons = append(reasons, "Timestamp has expired")
		}
	}

	if t.Amount < Fee {
		valid = false
		reasons = append(reasons, "Amount is lower than fee")
	}

	from, ok := accounts[t.From]
	if !ok {
		valid = false
		reasons = append(reasons, "Invalid from")
	} else {
		if from.Balance < t.Amount {
			valid = false
			reasons = append(reasons, fmt.Sprintf("Balance lower than amount: %d < %d", from.Balance, t.Amount))
		}
		if now && t.Nonce != from.Nonce {
			valid = false
			reasons = append(reasons, "Invalid nonce")
		}
	}

	if chainLen < GenesisWindow && t.Body == tx.GenesisBody {
		return true, nil
	}

	return valid, reasons
}
