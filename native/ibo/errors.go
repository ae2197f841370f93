package ibo

import "errors"

// Domain errors form a closed set. Every guard failure short-circuits the
// dispatch with no store mutation and no event.
var (
	// ErrTokenExists rejects a List create or update naming a token that is
	// already admitted.
	ErrTokenExists = errors.New("ibo: token already exists")
	// ErrTokenNotFound rejects Delist/Rise/Fall creates naming an unknown
	// token.
	ErrTokenNotFound = errors.New("ibo: token not found")
	// ErrInsufficientIssuance rejects List/Delist creates when the issuance
	// headroom cannot cover the reward pool.
	ErrInsufficientIssuance = errors.New("ibo: insufficient issuance headroom for reward pool")
	// ErrProposalNotFound is returned when the referenced proposal id does
	// not exist (or does not match the addressed proposal kind).
	ErrProposalNotFound = errors.New("ibo: proposal not found")
	// ErrNotYourProposal rejects update/delete attempts by anyone but the
	// proposer.
	ErrNotYourProposal = errors.New("ibo: caller is not the proposer")
	// ErrProposalCannotBeModified rejects update/delete once the proposal
	// has left the pending phase.
	ErrProposalCannotBeModified = errors.New("ibo: proposal can no longer be modified")
	// ErrNotInCollective rejects reviews from accounts outside the council.
	ErrNotInCollective = errors.New("ibo: caller is not a council member")
	// ErrProposalCannotBeReviewed rejects reviews outside the reviewing
	// phase.
	ErrProposalCannotBeReviewed = errors.New("ibo: proposal is not under review")
	// ErrAlreadyReview rejects a second review from the same member.
	ErrAlreadyReview = errors.New("ibo: member already reviewed this proposal")
	// ErrProposalCannotBeVoted rejects ballots outside the voting phase.
	ErrProposalCannotBeVoted = errors.New("ibo: proposal is not accepting votes")
	// ErrAlreadyVote rejects a second ballot from the same account.
	ErrAlreadyVote = errors.New("ibo: account already voted on this proposal")
	// ErrInvalidVoteAge rejects ballots selecting an age index outside the
	// age table.
	ErrInvalidVoteAge = errors.New("ibo: invalid vote age index")
	// ErrNoVote rejects reward claims from accounts that never voted on the
	// proposal.
	ErrNoVote = errors.New("ibo: account did not vote on this proposal")
	// ErrStateNotForRewards rejects reward claims before the outcome is
	// decided or after the proposal closed.
	ErrStateNotForRewards = errors.New("ibo: proposal state does not allow reward claims")
	// ErrNoneStaking is returned when no claimable or unstakable entry
	// exists for the proposal.
	ErrNoneStaking = errors.New("ibo: no staking entry for this proposal")
	// ErrStillInStaking rejects unstaking before the age lock period has
	// elapsed.
	ErrStillInStaking = errors.New("ibo: stake is still within its lock period")

	errStateNotConfigured = errors.New("ibo: state not configured")
)
