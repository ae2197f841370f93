package ibo

import (
	"math/big"

	"github.com/holiman/uint256"

	"ibochain/native/bank"
)

// VoteProposal escrows amount from the caller and adds a stake-weighted
// ballot to the proposal currently accepting votes. The ballot weight is
// amount times the selected age multiplier; the stake stays reserved until
// the caller unstakes after the age lock period.
func (e *Engine) VoteProposal(caller [20]byte, id uint32, amount *big.Int, ageIdx uint8, support bool) error {
	if e == nil || e.state == nil {
		return errStateNotConfigured
	}
	proposal, ok, err := e.state.IboGetProposal(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProposalNotFound
	}
	if proposal.Status != StatusVoting {
		return ErrProposalCannotBeVoted
	}
	voters, err := e.state.IboVoters(id)
	if err != nil {
		return err
	}
	for _, voter := range voters {
		if voter == caller {
			return ErrAlreadyVote
		}
	}
	if int(ageIdx) >= len(AgeTable) {
		return ErrInvalidVoteAge
	}
	if amount == nil {
		amount = big.NewInt(0)
	}
	if err := e.bank.Reserve(caller[:], amount); err != nil {
		return err
	}
	if err := e.state.IboAppendVoter(id, caller); err != nil {
		return err
	}
	stake := StakingInfo{
		ProposalID: id,
		Amount:     new(big.Int).Set(amount),
		AgeIndex:   ageIdx,
		Timestamp:  e.now(),
	}
	weight := stake.Weight()
	if support {
		proposal.VoteSupport = new(uint256.Int).Add(proposal.VoteSupport, weight)
	} else {
		proposal.VoteOppose = new(uint256.Int).Add(proposal.VoteOppose, weight)
	}
	stakes, err := e.state.IboStakes(caller[:])
	if err != nil {
		return err
	}
	stakes = append(stakes, stake)
	if err := e.state.IboPutStakes(caller[:], stakes); err != nil {
		return err
	}
	if err := e.state.IboPutProposal(proposal); err != nil {
		return err
	}
	e.emit(ChangeUpdate, proposal)
	return nil
}

// ReceiveRewards credits the caller's pro-rata share of the proposal's reward
// pool: pool times ballot weight over the combined vote weight, floored. A
// stake pays out at most once.
func (e *Engine) ReceiveRewards(caller [20]byte, id uint32) error {
	if e == nil || e.state == nil {
		return errStateNotConfigured
	}
	proposal, ok, err := e.state.IboGetProposal(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProposalNotFound
	}
	voters, err := e.state.IboVoters(id)
	if err != nil {
		return err
	}
	voted := false
	for _, voter := range voters {
		if voter == caller {
			voted = true
			break
		}
	}
	if !voted {
		return ErrNoVote
	}
	if proposal.Status != StatusApproved && proposal.Status != StatusRejected {
		return ErrStateNotForRewards
	}
	stakes, err := e.state.IboStakes(caller[:])
	if err != nil {
		return err
	}
	stakeIdx := -1
	for i := range stakes {
		if stakes[i].ProposalID == id && !stakes[i].RewardReceived {
			stakeIdx = i
			break
		}
	}
	if stakeIdx < 0 {
		return ErrNoneStaking
	}

	weight := stakes[stakeIdx].Weight()
	total := proposal.VoteTotal()
	reward := new(uint256.Int)
	if !total.IsZero() {
		reward.Div(new(uint256.Int).Mul(uint256.NewInt(TotalRewards), weight), total)
	}
	if !reward.IsZero() {
		amount := reward.ToBig()
		if err := e.bank.DepositIntoExisting(caller[:], amount); err != nil {
			return err
		}
		proposal.RewardsRemainder = new(big.Int).Sub(proposal.RewardsRemainder, amount)
		e.telemetry.AddRewardsPaid(float64(reward.Uint64()))
	}
	stakes[stakeIdx].RewardReceived = true
	if err := e.state.IboPutStakes(caller[:], stakes); err != nil {
		return err
	}
	if err := e.state.IboPutProposal(proposal); err != nil {
		return err
	}
	e.emit(ChangeUpdate, proposal)
	return nil
}

// Unstake releases the caller's escrowed ballot for the proposal once the
// age lock period has elapsed. The stake entry is removed from the ledger.
func (e *Engine) Unstake(caller [20]byte, id uint32) error {
	if e == nil || e.state == nil {
		return errStateNotConfigured
	}
	stakes, err := e.state.IboStakes(caller[:])
	if err != nil {
		return err
	}
	stakeIdx := -1
	for i := range stakes {
		if stakes[i].ProposalID == id {
			stakeIdx = i
			break
		}
	}
	if stakeIdx < 0 {
		return ErrNoneStaking
	}
	stake := stakes[stakeIdx]
	lock := AgeTable[stake.AgeIndex].LockPeriod
	if e.now() < stake.Timestamp+lock {
		return ErrStillInStaking
	}
	if err := e.bank.Unreserve(caller[:], stake.Amount); err != nil {
		return err
	}
	stakes = append(stakes[:stakeIdx], stakes[stakeIdx+1:]...)
	return e.state.IboPutStakes(caller[:], stakes)
}

// Burn destroys amount from the caller's free balance and reduces total
// issuance by the same amount.
func (e *Engine) Burn(caller [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errStateNotConfigured
	}
	account, err := e.state.GetAccount(caller[:])
	if err != nil {
		return err
	}
	if account == nil {
		return bank.ErrInsufficientFunds
	}
	account.Normalize()
	value := big.NewInt(0)
	if amount != nil {
		value = amount
	}
	if account.Balance.Cmp(value) < 0 {
		return bank.ErrInsufficientFunds
	}
	if err := e.bank.Slash(caller[:], value); err != nil {
		return err
	}
	return e.bank.Burn(value)
}
