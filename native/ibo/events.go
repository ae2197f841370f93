package ibo

import (
	"encoding/hex"
	"strconv"

	"ibochain/core/types"
)

// EventTypeProposalChanged is emitted whenever a proposal is created, mutated
// or deleted. The attributes carry a snapshot of the proposal after the
// change.
const EventTypeProposalChanged = "ibo.proposal.changed"

// ChangeKind tags the mutation carried by a ProposalChanged event.
type ChangeKind uint8

const (
	ChangeCreate ChangeKind = 1
	ChangeUpdate ChangeKind = 2
	ChangeDelete ChangeKind = 3
)

type iboEvent struct {
	evt *types.Event
}

func (e iboEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e iboEvent) Event() *types.Event { return e.evt }

func newProposalChangedEvent(kind ChangeKind, p *Proposal) *types.Event {
	attrs := make(map[string]string)
	attrs["change"] = strconv.FormatUint(uint64(kind), 10)
	if p == nil {
		return &types.Event{Type: EventTypeProposalChanged, Attributes: attrs}
	}
	attrs["id"] = strconv.FormatUint(uint64(p.ID), 10)
	attrs["proposer"] = hex.EncodeToString(p.Proposer[:])
	attrs["kind"] = p.Kind.String()
	attrs["status"] = p.Status.String()
	attrs["token"] = p.TokenName
	attrs["targetMarket"] = p.TargetMarket.String()
	attrs["reviewSupport"] = strconv.FormatUint(p.ReviewSupport, 10)
	attrs["reviewOppose"] = strconv.FormatUint(p.ReviewOppose, 10)
	if p.VoteSupport != nil {
		attrs["voteSupport"] = p.VoteSupport.Dec()
	}
	if p.VoteOppose != nil {
		attrs["voteOppose"] = p.VoteOppose.Dec()
	}
	if p.RewardsRemainder != nil {
		attrs["rewardsRemainder"] = p.RewardsRemainder.String()
	}
	attrs["timestamp"] = strconv.FormatUint(p.Timestamp, 10)
	return &types.Event{Type: EventTypeProposalChanged, Attributes: attrs}
}
