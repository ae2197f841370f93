package ibo

import (
	"math/big"

	"github.com/holiman/uint256"
)

// MarketType identifies the curated market a token occupies. Off means the
// token is not listed on either board.
type MarketType uint8

const (
	MarketMain MarketType = iota
	MarketGrowth
	MarketOff
)

// Valid reports whether the market is one of the three curated values.
func (m MarketType) Valid() bool {
	switch m {
	case MarketMain, MarketGrowth, MarketOff:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer for logging and event emission.
func (m MarketType) String() string {
	switch m {
	case MarketMain:
		return "main"
	case MarketGrowth:
		return "growth"
	case MarketOff:
		return "off"
	default:
		return "unknown"
	}
}

// ProposalKind enumerates the governance request types: admitting a token,
// removing it, promoting Growth to Main, and demoting Main to Growth.
type ProposalKind uint8

const (
	KindList ProposalKind = iota
	KindDelist
	KindRise
	KindFall
)

// String implements fmt.Stringer for logging and event emission.
func (k ProposalKind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindDelist:
		return "delist"
	case KindRise:
		return "rise"
	case KindFall:
		return "fall"
	default:
		return "unknown"
	}
}

// ProposalStatus enumerates the lifecycle phases a proposal transitions
// through. Transitions only move forward along the edges applied by the
// end-of-block scheduler; there are no backward edges.
type ProposalStatus uint8

const (
	// StatusPending covers the modification window right after creation.
	StatusPending ProposalStatus = iota
	// StatusReviewing identifies proposals under council review.
	StatusReviewing
	// StatusVoting identifies the proposal currently accepting public
	// stake-weighted ballots. At most one proposal holds this status.
	StatusVoting
	// StatusApproved marks proposals whose outcome succeeded and whose
	// voters may draw rewards.
	StatusApproved
	// StatusRejected marks proposals whose outcome failed and whose voters
	// may still draw rewards.
	StatusRejected
	// StatusApprovedClosed and StatusRejectedClosed are terminal; the
	// residual reward pool has been swept to the treasury.
	StatusApprovedClosed
	StatusRejectedClosed
)

// String implements fmt.Stringer for logging and event emission.
func (s ProposalStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReviewing:
		return "reviewing"
	case StatusVoting:
		return "voting"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	case StatusApprovedClosed:
		return "approved_closed"
	case StatusRejectedClosed:
		return "rejected_closed"
	default:
		return "unknown"
	}
}

// Closed reports whether the status is terminal.
func (s ProposalStatus) Closed() bool {
	return s == StatusApprovedClosed || s == StatusRejectedClosed
}

// Token is an admitted asset keyed by its unique name.
type Token struct {
	Name               string     `json:"name"`
	OfficialWebsiteURL string     `json:"official_website_url"`
	IconURL            string     `json:"token_icon_url"`
	Symbol             string     `json:"token_symbol"`
	MaxSupply          *big.Int   `json:"max_supply"`
	CirculatingSupply  *big.Int   `json:"circulating_supply"`
	CurrentMarket      MarketType `json:"current_market"`
}

// Normalize replaces nil balance fields with zero values so the record can be
// persisted and compared without nil checks.
func (t *Token) Normalize() {
	if t.MaxSupply == nil {
		t.MaxSupply = big.NewInt(0)
	}
	if t.CirculatingSupply == nil {
		t.CirculatingSupply = big.NewInt(0)
	}
}

// Proposal is a governance request. The token descriptor fields mirror the
// Token record so an approval that admits a token can build its record from
// the proposal alone.
type Proposal struct {
	ID                 uint32         `json:"id"`
	Proposer           [20]byte       `json:"proposer"`
	Kind               ProposalKind   `json:"kind"`
	Status             ProposalStatus `json:"status"`
	TokenName          string         `json:"token_name"`
	OfficialWebsiteURL string         `json:"official_website_url"`
	IconURL            string         `json:"token_icon_url"`
	Symbol             string         `json:"token_symbol"`
	MaxSupply          *big.Int       `json:"max_supply"`
	CirculatingSupply  *big.Int       `json:"circulating_supply"`
	CurrentMarket      MarketType     `json:"current_market"`
	TargetMarket       MarketType     `json:"target_market"`
	ReviewSupport      uint64         `json:"review_support"`
	ReviewOppose       uint64         `json:"review_oppose"`
	VoteSupport        *uint256.Int   `json:"vote_support"`
	VoteOppose         *uint256.Int   `json:"vote_oppose"`
	RewardsRemainder   *big.Int       `json:"rewards_remainder"`
	// Timestamp records the last state-entry time in milliseconds; every
	// transition restarts the phase clock.
	Timestamp uint64 `json:"timestamp"`
}

// Normalize replaces nil tally and balance fields with zero values.
func (p *Proposal) Normalize() {
	if p.MaxSupply == nil {
		p.MaxSupply = big.NewInt(0)
	}
	if p.CirculatingSupply == nil {
		p.CirculatingSupply = big.NewInt(0)
	}
	if p.VoteSupport == nil {
		p.VoteSupport = uint256.NewInt(0)
	}
	if p.VoteOppose == nil {
		p.VoteOppose = uint256.NewInt(0)
	}
	if p.RewardsRemainder == nil {
		p.RewardsRemainder = big.NewInt(0)
	}
}

// VoteTotal returns the combined support and oppose weight.
func (p *Proposal) VoteTotal() *uint256.Int {
	total := new(uint256.Int)
	if p.VoteSupport != nil {
		total.Add(total, p.VoteSupport)
	}
	if p.VoteOppose != nil {
		total.Add(total, p.VoteOppose)
	}
	return total
}

// Token builds the token record an approved proposal admits or re-markets.
func (p *Proposal) Token() *Token {
	token := &Token{
		Name:               p.TokenName,
		OfficialWebsiteURL: p.OfficialWebsiteURL,
		IconURL:            p.IconURL,
		Symbol:             p.Symbol,
		CurrentMarket:      p.TargetMarket,
	}
	if p.MaxSupply != nil {
		token.MaxSupply = new(big.Int).Set(p.MaxSupply)
	}
	if p.CirculatingSupply != nil {
		token.CirculatingSupply = new(big.Int).Set(p.CirculatingSupply)
	}
	token.Normalize()
	return token
}

// StakingInfo records one escrowed ballot. Entries live in an append-ordered
// list per account and are removed by value on unstake.
type StakingInfo struct {
	ProposalID     uint32   `json:"proposal_id"`
	Amount         *big.Int `json:"amount"`
	AgeIndex       uint8    `json:"age_idx"`
	RewardReceived bool     `json:"reward_received"`
	Timestamp      uint64   `json:"timestamp"`
}

// Weight computes the ballot weight, amount times the selected vote-age
// multiplier, widened before multiplication.
func (s StakingInfo) Weight() *uint256.Int {
	if s.Amount == nil || s.Amount.Sign() <= 0 || int(s.AgeIndex) >= len(AgeTable) {
		return uint256.NewInt(0)
	}
	amount, overflow := uint256.FromBig(s.Amount)
	if overflow {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Mul(amount, uint256.NewInt(AgeTable[s.AgeIndex].VoteAge))
}
