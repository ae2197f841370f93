package state

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"

	"ibochain/native/ibo"
	"ibochain/storage"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	return NewManager(db)
}

func TestProposalSequenceStartsAtZero(t *testing.T) {
	manager := newTestManager(t)
	for want := uint32(0); want < 3; want++ {
		got, err := manager.IboNextProposalID()
		if err != nil {
			t.Fatalf("next id: %v", err)
		}
		if got != want {
			t.Fatalf("expected id %d, got %d", want, got)
		}
	}
}

func TestProposalRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	proposal := &ibo.Proposal{
		ID:                 7,
		Proposer:           [20]byte{1, 2, 3},
		Kind:               ibo.KindList,
		Status:             ibo.StatusReviewing,
		TokenName:          "examplium",
		OfficialWebsiteURL: "https://examplium.org",
		IconURL:            "https://examplium.org/icon.png",
		Symbol:             "XMP",
		MaxSupply:          big.NewInt(5_000_000),
		CirculatingSupply:  big.NewInt(1_000_000),
		CurrentMarket:      ibo.MarketOff,
		TargetMarket:       ibo.MarketGrowth,
		ReviewSupport:      3,
		ReviewOppose:       1,
		VoteSupport:        uint256.NewInt(1_000_000),
		VoteOppose:         uint256.NewInt(100_000),
		RewardsRemainder:   big.NewInt(100_000),
		Timestamp:          123_456,
	}
	if err := manager.IboPutProposal(proposal); err != nil {
		t.Fatalf("put proposal: %v", err)
	}

	loaded, ok, err := manager.IboGetProposal(7)
	if err != nil || !ok {
		t.Fatalf("get proposal: ok=%v err=%v", ok, err)
	}
	if loaded.TokenName != "examplium" || loaded.Symbol != "XMP" {
		t.Fatalf("descriptor fields lost: %+v", loaded)
	}
	if loaded.ReviewSupport != 3 || loaded.ReviewOppose != 1 {
		t.Fatalf("review tally lost: %d/%d", loaded.ReviewSupport, loaded.ReviewOppose)
	}
	if loaded.VoteSupport.Uint64() != 1_000_000 || loaded.VoteOppose.Uint64() != 100_000 {
		t.Fatalf("vote tally lost: %s/%s", loaded.VoteSupport.Dec(), loaded.VoteOppose.Dec())
	}
	if loaded.RewardsRemainder.Int64() != 100_000 || loaded.Timestamp != 123_456 {
		t.Fatalf("remainder/timestamp lost")
	}
	if loaded.Status != ibo.StatusReviewing || loaded.Kind != ibo.KindList {
		t.Fatalf("enum fields lost")
	}

	if _, ok, err := manager.IboGetProposal(8); err != nil || ok {
		t.Fatalf("missing proposal must report ok=false, got ok=%v err=%v", ok, err)
	}
}

func TestProposalIndexStaysSorted(t *testing.T) {
	manager := newTestManager(t)
	for _, id := range []uint32{5, 1, 9} {
		if err := manager.IboPutProposal(&ibo.Proposal{ID: id}); err != nil {
			t.Fatalf("put %d: %v", id, err)
		}
	}
	ids, err := manager.IboProposalIDs()
	if err != nil {
		t.Fatalf("ids: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 5 || ids[2] != 9 {
		t.Fatalf("index must be ascending, got %v", ids)
	}

	// Re-storing an id must not duplicate the index entry.
	if err := manager.IboPutProposal(&ibo.Proposal{ID: 5}); err != nil {
		t.Fatalf("re-put: %v", err)
	}
	ids, _ = manager.IboProposalIDs()
	if len(ids) != 3 {
		t.Fatalf("index must not grow on update, got %v", ids)
	}

	if err := manager.IboRemoveProposal(5); err != nil {
		t.Fatalf("remove: %v", err)
	}
	ids, _ = manager.IboProposalIDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 9 {
		t.Fatalf("index must drop removed ids, got %v", ids)
	}
}

func TestTokenRoundTripAndIndex(t *testing.T) {
	manager := newTestManager(t)
	token := &ibo.Token{
		Name:              "examplium",
		Symbol:            "XMP",
		MaxSupply:         big.NewInt(10),
		CirculatingSupply: big.NewInt(5),
		CurrentMarket:     ibo.MarketGrowth,
	}
	if err := manager.IboPutToken(token); err != nil {
		t.Fatalf("put token: %v", err)
	}
	if err := manager.IboPutToken(&ibo.Token{Name: "aardtoken", CurrentMarket: ibo.MarketMain}); err != nil {
		t.Fatalf("put second token: %v", err)
	}

	loaded, ok, err := manager.IboGetToken("examplium")
	if err != nil || !ok {
		t.Fatalf("get token: ok=%v err=%v", ok, err)
	}
	if loaded.Symbol != "XMP" || loaded.CurrentMarket != ibo.MarketGrowth {
		t.Fatalf("token fields lost: %+v", loaded)
	}

	names, err := manager.IboTokenNames()
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) != 2 || names[0] != "aardtoken" || names[1] != "examplium" {
		t.Fatalf("token index must be lexical, got %v", names)
	}

	if err := manager.IboRemoveToken("examplium"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := manager.IboGetToken("examplium"); ok {
		t.Fatalf("removed token must be gone")
	}
	names, _ = manager.IboTokenNames()
	if len(names) != 1 || names[0] != "aardtoken" {
		t.Fatalf("index must drop removed names, got %v", names)
	}
}

func TestParticipantListsRejectDuplicates(t *testing.T) {
	manager := newTestManager(t)
	member := [20]byte{9}
	if err := manager.IboAppendReviewer(3, member); err != nil {
		t.Fatalf("append reviewer: %v", err)
	}
	if err := manager.IboAppendReviewer(3, member); err == nil {
		t.Fatalf("duplicate reviewer must be rejected")
	}
	reviewers, err := manager.IboReviewers(3)
	if err != nil {
		t.Fatalf("reviewers: %v", err)
	}
	if len(reviewers) != 1 || reviewers[0] != member {
		t.Fatalf("unexpected reviewer list: %v", reviewers)
	}

	// Reviewer and voter lists are independent per proposal.
	if err := manager.IboAppendVoter(3, member); err != nil {
		t.Fatalf("append voter: %v", err)
	}
	voters, _ := manager.IboVoters(3)
	if len(voters) != 1 {
		t.Fatalf("unexpected voter list: %v", voters)
	}
	if voters, _ := manager.IboVoters(4); len(voters) != 0 {
		t.Fatalf("lists must be keyed per proposal")
	}
}

func TestStakeLedgerPreservesOrder(t *testing.T) {
	manager := newTestManager(t)
	owner := []byte{1, 2, 3, 4}
	stakes := []ibo.StakingInfo{
		{ProposalID: 1, Amount: big.NewInt(100), AgeIndex: 0, Timestamp: 10},
		{ProposalID: 2, Amount: big.NewInt(200), AgeIndex: 3, RewardReceived: true, Timestamp: 20},
	}
	if err := manager.IboPutStakes(owner, stakes); err != nil {
		t.Fatalf("put stakes: %v", err)
	}
	loaded, err := manager.IboStakes(owner)
	if err != nil {
		t.Fatalf("stakes: %v", err)
	}
	if len(loaded) != 2 || loaded[0].ProposalID != 1 || loaded[1].ProposalID != 2 {
		t.Fatalf("order lost: %+v", loaded)
	}
	if !loaded[1].RewardReceived || loaded[1].AgeIndex != 3 {
		t.Fatalf("stake fields lost: %+v", loaded[1])
	}

	if err := manager.IboPutStakes(owner, nil); err != nil {
		t.Fatalf("clear stakes: %v", err)
	}
	loaded, _ = manager.IboStakes(owner)
	if len(loaded) != 0 {
		t.Fatalf("ledger must be cleared")
	}
}

func TestVotingSingleton(t *testing.T) {
	manager := newTestManager(t)
	if _, active, err := manager.IboVotingProposal(); err != nil || active {
		t.Fatalf("slot must start empty")
	}
	if err := manager.IboSetVotingProposal(0); err != nil {
		t.Fatalf("set: %v", err)
	}
	id, active, err := manager.IboVotingProposal()
	if err != nil || !active || id != 0 {
		t.Fatalf("slot must hold id 0, got id=%d active=%v err=%v", id, active, err)
	}
	if err := manager.IboClearVotingProposal(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, active, _ := manager.IboVotingProposal(); active {
		t.Fatalf("slot must be empty after clear")
	}
}
