package ibo

import "math/big"

// Clock returns the current wall-clock time in milliseconds as observed by the
// surrounding block producer. All phase arithmetic runs on this value.
type Clock func() uint64

const day = 24 * 60 * 60 * 1000

// Governance phase durations in milliseconds. Each proposal phase measures its
// own window from the timestamp stamped when the phase was entered.
const (
	// DurationAllowModify is the window after creation during which a
	// pending proposal may still be updated or deleted by its proposer.
	DurationAllowModify uint64 = 1 * day
	// DurationReview is the council review window.
	DurationReview uint64 = 3 * day
	// DurationVote is the public stake-weighted voting window.
	DurationVote uint64 = 7 * day
	// DurationReceiveRewards is the window after the vote outcome during
	// which voters may draw their reward share before the residue is swept
	// to the treasury.
	DurationReceiveRewards uint64 = 1 * day
)

// TotalRewards is the fixed reward pool escrowed by every List and Delist
// proposal and distributed pro-rata across its voters.
const TotalRewards uint64 = 100_000

const maxSupplyUnits = 1_000_000_000

// MaxSupply returns the absolute ceiling on total issuance. Every credit that
// would push issuance beyond this value is refused.
func MaxSupply() *big.Int {
	return big.NewInt(maxSupplyUnits)
}

// AgeRow pairs a vote-age multiplier with the escrow lock period it buys.
// Multipliers are scaled by 1000 so weight arithmetic stays integral.
type AgeRow struct {
	VoteAge    uint64
	LockPeriod uint64
}

// AgeTable lists the selectable vote ages. A ballot picks a row by index;
// higher rows weigh the stake more heavily and lock it for longer.
var AgeTable = [6]AgeRow{
	{VoteAge: 1000, LockPeriod: 8 * day},
	{VoteAge: 1500, LockPeriod: 16 * day},
	{VoteAge: 2250, LockPeriod: 32 * day},
	{VoteAge: 3375, LockPeriod: 64 * day},
	{VoteAge: 5000, LockPeriod: 128 * day},
	{VoteAge: 7600, LockPeriod: 256 * day},
}

// Policy captures the phase durations applied by the engine. Hosts may
// override the defaults (e.g. for test networks) before the first block.
type Policy struct {
	AllowModifyMillis    uint64
	ReviewMillis         uint64
	VoteMillis           uint64
	ReceiveRewardsMillis uint64
}

// DefaultPolicy returns the production phase durations.
func DefaultPolicy() Policy {
	return Policy{
		AllowModifyMillis:    DurationAllowModify,
		ReviewMillis:         DurationReview,
		VoteMillis:           DurationVote,
		ReceiveRewardsMillis: DurationReceiveRewards,
	}
}
