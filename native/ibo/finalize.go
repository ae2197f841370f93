package ibo

import (
	"log/slog"
	"math/big"

	"github.com/holiman/uint256"
)

// OnFinalize runs once per finalized block. It walks every stored proposal in
// ascending id order and applies the time-based transitions. Guards that do
// not hold leave the proposal untouched, so re-running with the same inputs
// transitions each proposal at most once.
func (e *Engine) OnFinalize(now uint64) error {
	if e == nil || e.state == nil {
		return errStateNotConfigured
	}
	ids, err := e.state.IboProposalIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		proposal, ok, err := e.state.IboGetProposal(id)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := e.advance(proposal, now); err != nil {
			return err
		}
	}
	if _, active, err := e.state.IboVotingProposal(); err == nil {
		e.telemetry.SetVotingActive(active)
	}
	return nil
}

func (e *Engine) advance(p *Proposal, now uint64) error {
	elapsed := uint64(0)
	if now > p.Timestamp {
		elapsed = now - p.Timestamp
	}
	switch p.Status {
	case StatusPending:
		if elapsed > e.policy.AllowModifyMillis {
			return e.transition(p, StatusReviewing, now)
		}
	case StatusReviewing:
		if elapsed > e.policy.ReviewMillis {
			return e.closeReview(p, now)
		}
	case StatusVoting:
		if elapsed > e.policy.VoteMillis {
			return e.closeVote(p, now)
		}
	case StatusApproved:
		if elapsed > e.policy.ReceiveRewardsMillis {
			return e.sweepAndClose(p, StatusApprovedClosed, now)
		}
	case StatusRejected:
		if elapsed > e.policy.ReceiveRewardsMillis {
			return e.sweepAndClose(p, StatusRejectedClosed, now)
		}
	}
	return nil
}

// closeReview tallies the council review once the window elapses. Rise and
// Fall resolve immediately; List and Delist advance to the public vote when
// the voting slot is free, deferring otherwise.
func (e *Engine) closeReview(p *Proposal, now uint64) error {
	support, oppose := p.ReviewSupport, p.ReviewOppose
	switch p.Kind {
	case KindRise, KindFall:
		if support+oppose > 0 && support >= 2*oppose {
			if err := e.applyOutcome(p); err != nil {
				return err
			}
			return e.transition(p, StatusApproved, now)
		}
		return e.transition(p, StatusRejectedClosed, now)
	case KindList, KindDelist:
		passed := false
		if p.Kind == KindList {
			passed = support+oppose > 0 && support >= 2*oppose
		} else {
			passed = support > oppose
		}
		if !passed {
			return e.transition(p, StatusRejectedClosed, now)
		}
		if _, active, err := e.state.IboVotingProposal(); err != nil {
			return err
		} else if active {
			// Deferred: the proposal stays in Reviewing with its
			// timestamp intact and is re-evaluated next block.
			e.telemetry.IncVotingDeferred()
			return nil
		}
		if err := e.state.IboSetVotingProposal(p.ID); err != nil {
			return err
		}
		return e.transition(p, StatusVoting, now)
	}
	return nil
}

// closeVote tallies the public ballot once the voting window elapses and
// releases the voting slot.
func (e *Engine) closeVote(p *Proposal, now uint64) error {
	if err := e.state.IboClearVotingProposal(); err != nil {
		return err
	}
	support, oppose := p.VoteSupport, p.VoteOppose
	passed := false
	switch p.Kind {
	case KindList:
		total := p.VoteTotal()
		doubled := new(uint256.Int).Add(oppose, oppose)
		passed = !total.IsZero() && support.Cmp(doubled) >= 0
	case KindDelist:
		passed = support.Cmp(oppose) > 0
	}
	if passed {
		if err := e.applyOutcome(p); err != nil {
			return err
		}
		return e.transition(p, StatusApproved, now)
	}
	return e.transition(p, StatusRejected, now)
}

// applyOutcome mutates the token registry for an approved proposal.
func (e *Engine) applyOutcome(p *Proposal) error {
	switch p.Kind {
	case KindList, KindRise, KindFall:
		token, ok, err := e.state.IboGetToken(p.TokenName)
		if err != nil {
			return err
		}
		if !ok {
			token = p.Token()
		} else {
			token.CurrentMarket = p.TargetMarket
		}
		return e.state.IboPutToken(token)
	case KindDelist:
		return e.state.IboRemoveToken(p.TokenName)
	}
	return nil
}

// sweepAndClose credits the residual reward pool to the treasury and closes
// the proposal. A failed treasury credit (issuance cap or missing account)
// keeps the proposal open so the sweep is retried on subsequent blocks.
func (e *Engine) sweepAndClose(p *Proposal, closed ProposalStatus, now uint64) error {
	residue := p.RewardsRemainder
	if residue != nil && residue.Sign() > 0 {
		if err := e.bank.DepositIntoExisting(e.treasury[:], residue); err != nil {
			slog.Warn("ibo: treasury sweep postponed",
				"proposal", p.ID,
				"residue", residue.String(),
				"err", err)
			e.telemetry.IncTreasuryRetry()
			return nil
		}
		p.RewardsRemainder = big.NewInt(0)
	}
	return e.transition(p, closed, now)
}

// transition stamps the new phase, persists the proposal and emits the
// updated snapshot. Each phase measures its window from this stamp.
func (e *Engine) transition(p *Proposal, status ProposalStatus, now uint64) error {
	p.Status = status
	p.Timestamp = now
	if err := e.state.IboPutProposal(p); err != nil {
		return err
	}
	e.telemetry.ObserveTransition(status.String())
	e.emit(ChangeUpdate, p)
	return nil
}
