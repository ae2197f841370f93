package ibo

import (
	"math/big"
	"strings"

	"ibochain/core/events"
	"ibochain/native/bank"
	"ibochain/observability/metrics"
)

type moduleState interface {
	bank.Ledger

	IboNextProposalID() (uint32, error)
	IboPutProposal(p *Proposal) error
	IboGetProposal(id uint32) (*Proposal, bool, error)
	IboRemoveProposal(id uint32) error
	IboProposalIDs() ([]uint32, error)
	IboPutToken(token *Token) error
	IboGetToken(name string) (*Token, bool, error)
	IboRemoveToken(name string) error
	IboTokenNames() ([]string, error)
	IboReviewers(id uint32) ([][20]byte, error)
	IboAppendReviewer(id uint32, addr [20]byte) error
	IboVoters(id uint32) ([][20]byte, error)
	IboAppendVoter(id uint32, addr [20]byte) error
	IboStakes(addr []byte) ([]StakingInfo, error)
	IboPutStakes(addr []byte, stakes []StakingInfo) error
	IboVotingProposal() (uint32, bool, error)
	IboSetVotingProposal(id uint32) error
	IboClearVotingProposal() error
}

// Membership is the council predicate consumed by proposal reviews. The
// collective collaborator supplies the implementation.
type Membership interface {
	IsMember(addr [20]byte) (bool, error)
}

// Engine mediates the admission, promotion, demotion and removal of tokens
// across the curated markets. Every public method is a dispatched extrinsic;
// OnFinalize drives the time-based transitions once per block.
type Engine struct {
	state      moduleState
	bank       *bank.Gateway
	emitter    events.Emitter
	nowFn      Clock
	policy     Policy
	membership Membership
	treasury   [20]byte
	telemetry  *metrics.IboMetrics
}

// NewEngine constructs an engine with default no-op dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter:   events.NoopEmitter{},
		nowFn:     func() uint64 { return 0 },
		policy:    DefaultPolicy(),
		telemetry: metrics.Ibo(),
	}
}

// SetState wires the engine to the state backend providing persistence
// helpers. The balance gateway is rebuilt over the same backend.
func (e *Engine) SetState(state moduleState) {
	e.state = state
	if state != nil {
		e.bank = bank.NewGateway(state, MaxSupply())
	} else {
		e.bank = nil
	}
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op
// implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the millisecond clock used to stamp proposals.
func (e *Engine) SetNowFunc(now Clock) {
	if now == nil {
		e.nowFn = func() uint64 { return 0 }
		return
	}
	e.nowFn = now
}

// SetPolicy overrides the phase durations.
func (e *Engine) SetPolicy(policy Policy) {
	if e == nil {
		return
	}
	e.policy = policy
}

// SetMembership wires the council predicate.
func (e *Engine) SetMembership(membership Membership) {
	e.membership = membership
}

// SetTreasury configures the account credited with residual rewards.
func (e *Engine) SetTreasury(addr [20]byte) {
	e.treasury = addr
}

// Bank exposes the balance gateway bound to the engine's state backend.
func (e *Engine) Bank() *bank.Gateway {
	return e.bank
}

func (e *Engine) now() uint64 {
	if e == nil || e.nowFn == nil {
		return 0
	}
	return e.nowFn()
}

func (e *Engine) emit(kind ChangeKind, p *Proposal) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(iboEvent{evt: newProposalChangedEvent(kind, p)})
}

// ensureRewardHeadroom verifies the issuance ceiling can still cover a full
// reward pool before a List or Delist proposal is admitted.
func (e *Engine) ensureRewardHeadroom() error {
	total, err := e.bank.TotalIssuance()
	if err != nil {
		return err
	}
	headroom := new(big.Int).Sub(MaxSupply(), total)
	if headroom.Cmp(new(big.Int).SetUint64(TotalRewards)) < 0 {
		return ErrInsufficientIssuance
	}
	return nil
}

// GetProposal returns the stored proposal by id.
func (e *Engine) GetProposal(id uint32) (*Proposal, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	proposal, ok, err := e.state.IboGetProposal(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProposalNotFound
	}
	return proposal, nil
}

// ListProposals returns every stored proposal in ascending id order.
func (e *Engine) ListProposals() ([]*Proposal, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	ids, err := e.state.IboProposalIDs()
	if err != nil {
		return nil, err
	}
	proposals := make([]*Proposal, 0, len(ids))
	for _, id := range ids {
		proposal, ok, err := e.state.IboGetProposal(id)
		if err != nil {
			return nil, err
		}
		if ok {
			proposals = append(proposals, proposal)
		}
	}
	return proposals, nil
}

// GetToken returns the admitted token by name.
func (e *Engine) GetToken(name string) (*Token, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	token, ok, err := e.state.IboGetToken(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTokenNotFound
	}
	return token, nil
}

// ListTokens returns every admitted token in lexical name order.
func (e *Engine) ListTokens() ([]*Token, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	names, err := e.state.IboTokenNames()
	if err != nil {
		return nil, err
	}
	tokens := make([]*Token, 0, len(names))
	for _, name := range names {
		token, ok, err := e.state.IboGetToken(name)
		if err != nil {
			return nil, err
		}
		if ok {
			tokens = append(tokens, token)
		}
	}
	return tokens, nil
}

// Reviewers returns the ordered council reviewer list for the proposal.
func (e *Engine) Reviewers(id uint32) ([][20]byte, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	return e.state.IboReviewers(id)
}

// Voters returns the ordered public voter list for the proposal.
func (e *Engine) Voters(id uint32) ([][20]byte, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	return e.state.IboVoters(id)
}

// Stakes returns the account's stake ledger in append order.
func (e *Engine) Stakes(addr [20]byte) ([]StakingInfo, error) {
	if e == nil || e.state == nil {
		return nil, errStateNotConfigured
	}
	return e.state.IboStakes(addr[:])
}

// VotingProposal reports the proposal currently occupying the public voting
// slot, if any.
func (e *Engine) VotingProposal() (uint32, bool, error) {
	if e == nil || e.state == nil {
		return 0, false, errStateNotConfigured
	}
	return e.state.IboVotingProposal()
}

// TokenDescriptor carries the descriptive fields of a List proposal.
type TokenDescriptor struct {
	OfficialWebsiteURL string
	IconURL            string
	Name               string
	Symbol             string
	MaxSupply          *big.Int
	CirculatingSupply  *big.Int
}

func (d TokenDescriptor) normalized() TokenDescriptor {
	out := d
	out.Name = strings.TrimSpace(d.Name)
	if out.MaxSupply == nil {
		out.MaxSupply = big.NewInt(0)
	}
	if out.CirculatingSupply == nil {
		out.CirculatingSupply = big.NewInt(0)
	}
	return out
}

// CreateListProposal admits a request to list a new token on the target
// market. The issuance ceiling must leave headroom for a full reward pool;
// the headroom is checked, not reserved.
func (e *Engine) CreateListProposal(proposer [20]byte, descriptor TokenDescriptor, target MarketType) (uint32, error) {
	if e == nil || e.state == nil {
		return 0, errStateNotConfigured
	}
	descriptor = descriptor.normalized()
	if _, ok, err := e.state.IboGetToken(descriptor.Name); err != nil {
		return 0, err
	} else if ok {
		return 0, ErrTokenExists
	}
	if err := e.ensureRewardHeadroom(); err != nil {
		return 0, err
	}
	id, err := e.state.IboNextProposalID()
	if err != nil {
		return 0, err
	}
	proposal := &Proposal{
		ID:                 id,
		Proposer:           proposer,
		Kind:               KindList,
		Status:             StatusPending,
		TokenName:          descriptor.Name,
		OfficialWebsiteURL: descriptor.OfficialWebsiteURL,
		IconURL:            descriptor.IconURL,
		Symbol:             descriptor.Symbol,
		MaxSupply:          new(big.Int).Set(descriptor.MaxSupply),
		CirculatingSupply:  new(big.Int).Set(descriptor.CirculatingSupply),
		CurrentMarket:      MarketOff,
		TargetMarket:       target,
		RewardsRemainder:   new(big.Int).SetUint64(TotalRewards),
		Timestamp:          e.now(),
	}
	if err := e.state.IboPutProposal(proposal); err != nil {
		return 0, err
	}
	e.telemetry.ObserveProposalCreated(KindList.String())
	e.emit(ChangeCreate, proposal)
	return id, nil
}

// UpdateListProposal replaces the descriptor of a pending List proposal. Only
// the proposer may update, and only while the modification window is open.
func (e *Engine) UpdateListProposal(caller [20]byte, id uint32, descriptor TokenDescriptor, target MarketType) error {
	if e == nil || e.state == nil {
		return errStateNotConfigured
	}
	proposal, ok, err := e.state.IboGetProposal(id)
	if err != nil {
		return err
	}
	if !ok || proposal.Kind != KindList {
		return ErrProposalNotFound
	}
	if proposal.Proposer != caller {
		return ErrNotYourProposal
	}
	if proposal.Status != StatusPending {
		return ErrProposalCannotBeModified
	}
	descriptor = descriptor.normalized()
	if _, exists, err := e.state.IboGetToken(descriptor.Name); err != nil {
		return err
	} else if exists {
		return ErrTokenExists
	}
	proposal.TokenName = descriptor.Name
	proposal.OfficialWebsiteURL = descriptor.OfficialWebsiteURL
	proposal.IconURL = descriptor.IconURL
	proposal.Symbol = descriptor.Symbol
	proposal.MaxSupply = new(big.Int).Set(descriptor.MaxSupply)
	proposal.CirculatingSupply = new(big.Int).Set(descriptor.CirculatingSupply)
	proposal.TargetMarket = target
	proposal.Timestamp = e.now()
	if err := e.state.IboPutProposal(proposal); err != nil {
		return err
	}
	e.emit(ChangeUpdate, proposal)
	return nil
}

func (e *Engine) createFromToken(proposer [20]byte, kind ProposalKind, target MarketType, tokenName string, rewards uint64) (uint32, error) {
	if e == nil || e.state == nil {
		return 0, errStateNotConfigured
	}
	token, ok, err := e.state.IboGetToken(strings.TrimSpace(tokenName))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrTokenNotFound
	}
	if rewards > 0 {
		if err := e.ensureRewardHeadroom(); err != nil {
			return 0, err
		}
	}
	id, err := e.state.IboNextProposalID()
	if err != nil {
		return 0, err
	}
	proposal := &Proposal{
		ID:                 id,
		Proposer:           proposer,
		Kind:               kind,
		Status:             StatusPending,
		TokenName:          token.Name,
		OfficialWebsiteURL: token.OfficialWebsiteURL,
		IconURL:            token.IconURL,
		Symbol:             token.Symbol,
		MaxSupply:          new(big.Int).Set(token.MaxSupply),
		CirculatingSupply:  new(big.Int).Set(token.CirculatingSupply),
		CurrentMarket:      token.CurrentMarket,
		TargetMarket:       target,
		RewardsRemainder:   new(big.Int).SetUint64(rewards),
		Timestamp:          e.now(),
	}
	if err := e.state.IboPutProposal(proposal); err != nil {
		return 0, err
	}
	e.telemetry.ObserveProposalCreated(kind.String())
	e.emit(ChangeCreate, proposal)
	return id, nil
}

// CreateDelistProposal admits a request to remove an existing token from its
// market. Like List, it requires issuance headroom for a full reward pool.
func (e *Engine) CreateDelistProposal(proposer [20]byte, tokenName string) (uint32, error) {
	return e.createFromToken(proposer, KindDelist, MarketOff, tokenName, TotalRewards)
}

// CreateRiseProposal admits a request to promote a token to the Main market.
// Promotion is decided by council review alone, so no reward pool is needed.
func (e *Engine) CreateRiseProposal(proposer [20]byte, tokenName string) (uint32, error) {
	return e.createFromToken(proposer, KindRise, MarketMain, tokenName, 0)
}

// CreateFallProposal admits a request to demote a token to the Growth market.
func (e *Engine) CreateFallProposal(proposer [20]byte, tokenName string) (uint32, error) {
	return e.createFromToken(proposer, KindFall, MarketGrowth, tokenName, 0)
}

func (e *Engine) deleteProposal(caller [20]byte, id uint32, kind ProposalKind) error {
	if e == nil || e.state == nil {
		return errStateNotConfigured
	}
	proposal, ok, err := e.state.IboGetProposal(id)
	if err != nil {
		return err
	}
	if !ok || proposal.Kind != kind {
		return ErrProposalNotFound
	}
	if proposal.Proposer != caller {
		return ErrNotYourProposal
	}
	if proposal.Status != StatusPending {
		return ErrProposalCannotBeModified
	}
	if err := e.state.IboRemoveProposal(id); err != nil {
		return err
	}
	e.emit(ChangeDelete, proposal)
	return nil
}

// DeleteListProposal withdraws a pending List proposal.
func (e *Engine) DeleteListProposal(caller [20]byte, id uint32) error {
	return e.deleteProposal(caller, id, KindList)
}

// DeleteDelistProposal withdraws a pending Delist proposal.
func (e *Engine) DeleteDelistProposal(caller [20]byte, id uint32) error {
	return e.deleteProposal(caller, id, KindDelist)
}

// DeleteRiseProposal withdraws a pending Rise proposal.
func (e *Engine) DeleteRiseProposal(caller [20]byte, id uint32) error {
	return e.deleteProposal(caller, id, KindRise)
}

// DeleteFallProposal withdraws a pending Fall proposal.
func (e *Engine) DeleteFallProposal(caller [20]byte, id uint32) error {
	return e.deleteProposal(caller, id, KindFall)
}

// ReviewProposal records a council member's stand on a proposal under review.
// Reviews are unweighted; each member counts once.
func (e *Engine) ReviewProposal(caller [20]byte, id uint32, support bool) error {
	if e == nil || e.state == nil {
		return errStateNotConfigured
	}
	if e.membership == nil {
		return ErrNotInCollective
	}
	member, err := e.membership.IsMember(caller)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotInCollective
	}
	proposal, ok, err := e.state.IboGetProposal(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProposalNotFound
	}
	if proposal.Status != StatusReviewing {
		return ErrProposalCannotBeReviewed
	}
	reviewers, err := e.state.IboReviewers(id)
	if err != nil {
		return err
	}
	for _, reviewer := range reviewers {
		if reviewer == caller {
			return ErrAlreadyReview
		}
	}
	if err := e.state.IboAppendReviewer(id, caller); err != nil {
		return err
	}
	if support {
		proposal.ReviewSupport++
	} else {
		proposal.ReviewOppose++
	}
	if err := e.state.IboPutProposal(proposal); err != nil {
		return err
	}
	e.emit(ChangeUpdate, proposal)
	return nil
}
