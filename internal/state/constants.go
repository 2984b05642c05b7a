package state

import "time"

// Protocol economic and timing constants (spec §3).
const (
	// MinStake is the minimum stake balance required to be a validator.
	MinStake uint64 = 1_000_000_000
	// Fee is the flat fee taken from every transaction amount.
	Fee uint64 = 100
	// Fine is the stake slashed from a validator who voted false on a
	// transaction that committed true. A validator silent at timeout is
	// not fined; its socket is closed instead.
	Fine uint64 = 10_000
	// TimestampRangeSeconds bounds how far in the future (and, scaled by
	// queue depth, how far in the past) a transaction's timestamp may be.
	TimestampRangeSeconds int64 = 60
	// MaxVoteTimeMillis is the timeout for an open consensus slot.
	MaxVoteTimeMillis int64 = 10_000
	// GossipDedupWindow is the number of recent message ids remembered.
	GossipDedupWindow = 10
	// GenesisWindow is the number of leading chain records eligible for
	// unsigned GENESIS bootstrap treatment.
	GenesisWindow = 6
)

// MaxVoteTime is MaxVoteTimeMillis as a time.Duration, for arming timers.
func MaxVoteTime() time.Duration {
	return time.Duration(MaxVoteTimeMillis) * time.Millisecond
}
