package state

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"ibochain/native/ibo"
)

var (
	iboProposalPrefix  = []byte("ibo/proposal/")
	iboProposalIndex   = []byte("ibo/proposal-index")
	iboProposalSeqKey  = []byte("ibo/proposal-seq")
	iboTokenPrefix     = []byte("ibo/token/")
	iboTokenIndexKey   = []byte("ibo/token-index")
	iboReviewersPrefix = []byte("ibo/reviewers/")
	iboVotersPrefix    = []byte("ibo/voters/")
	iboStakesPrefix    = []byte("ibo/stakes/")
	iboVotingKey       = []byte("ibo/voting-proposal")
)

func iboProposalKey(id uint32) []byte {
	return []byte(fmt.Sprintf("%s%010d", iboProposalPrefix, id))
}

func iboTokenKey(name string) []byte {
	key := make([]byte, len(iboTokenPrefix)+len(name))
	copy(key, iboTokenPrefix)
	copy(key[len(iboTokenPrefix):], name)
	return key
}

func iboParticipantsKey(prefix []byte, id uint32) []byte {
	return []byte(fmt.Sprintf("%s%010d", prefix, id))
}

func iboStakesKey(addr []byte) []byte {
	key := make([]byte, len(iboStakesPrefix)+len(addr))
	copy(key, iboStakesPrefix)
	copy(key[len(iboStakesPrefix):], addr)
	return key
}

// IboNextProposalID returns the next proposal identifier and advances the
// sequence. The generator starts at zero and never reuses a value.
func (m *Manager) IboNextProposalID() (uint32, error) {
	var current uint32
	if _, err := m.KVGet(iboProposalSeqKey, &current); err != nil {
		return 0, err
	}
	if current == math.MaxUint32 {
		return 0, fmt.Errorf("state: proposal sequence overflow")
	}
	if err := m.KVPut(iboProposalSeqKey, current+1); err != nil {
		return 0, err
	}
	return current, nil
}

// IboPutProposal stores the proposal and registers its id in the ascending
// iteration index.
func (m *Manager) IboPutProposal(p *ibo.Proposal) error {
	if p == nil {
		return fmt.Errorf("state: proposal must not be nil")
	}
	p.Normalize()
	if err := m.KVPut(iboProposalKey(p.ID), p); err != nil {
		return err
	}
	ids, err := m.IboProposalIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == p.ID {
			return nil
		}
	}
	ids = append(ids, p.ID)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return m.KVPut(iboProposalIndex, ids)
}

// IboGetProposal loads the proposal by id. The boolean reports existence.
func (m *Manager) IboGetProposal(id uint32) (*ibo.Proposal, bool, error) {
	proposal := new(ibo.Proposal)
	ok, err := m.KVGet(iboProposalKey(id), proposal)
	if err != nil || !ok {
		return nil, false, err
	}
	proposal.Normalize()
	return proposal, true, nil
}

// IboRemoveProposal deletes the proposal record, its participant lists and
// its index entry.
func (m *Manager) IboRemoveProposal(id uint32) error {
	if err := m.KVDelete(iboProposalKey(id)); err != nil {
		return err
	}
	if err := m.KVDelete(iboParticipantsKey(iboReviewersPrefix, id)); err != nil {
		return err
	}
	if err := m.KVDelete(iboParticipantsKey(iboVotersPrefix, id)); err != nil {
		return err
	}
	ids, err := m.IboProposalIDs()
	if err != nil {
		return err
	}
	filtered := ids[:0]
	for _, existing := range ids {
		if existing != id {
			filtered = append(filtered, existing)
		}
	}
	if len(filtered) == 0 {
		return m.KVDelete(iboProposalIndex)
	}
	return m.KVPut(iboProposalIndex, filtered)
}

// IboProposalIDs returns every stored proposal id in ascending order. The
// end-of-block scheduler iterates this index so traversal is deterministic
// across nodes.
func (m *Manager) IboProposalIDs() ([]uint32, error) {
	var ids []uint32
	if _, err := m.KVGet(iboProposalIndex, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// IboPutToken stores the token record and registers its name in the listing
// index.
func (m *Manager) IboPutToken(token *ibo.Token) error {
	if token == nil {
		return fmt.Errorf("state: token must not be nil")
	}
	if strings.TrimSpace(token.Name) == "" {
		return fmt.Errorf("state: token name must not be empty")
	}
	token.Normalize()
	if err := m.KVPut(iboTokenKey(token.Name), token); err != nil {
		return err
	}
	names, err := m.IboTokenNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == token.Name {
			return nil
		}
	}
	names = append(names, token.Name)
	sort.Strings(names)
	return m.KVPut(iboTokenIndexKey, names)
}

// IboGetToken loads a token by name. The boolean reports existence.
func (m *Manager) IboGetToken(name string) (*ibo.Token, bool, error) {
	if name == "" {
		return nil, false, fmt.Errorf("state: token name must not be empty")
	}
	token := new(ibo.Token)
	ok, err := m.KVGet(iboTokenKey(name), token)
	if err != nil || !ok {
		return nil, false, err
	}
	token.Normalize()
	return token, true, nil
}

// IboRemoveToken deletes the token record and its index entry.
func (m *Manager) IboRemoveToken(name string) error {
	if name == "" {
		return fmt.Errorf("state: token name must not be empty")
	}
	if err := m.KVDelete(iboTokenKey(name)); err != nil {
		return err
	}
	names, err := m.IboTokenNames()
	if err != nil {
		return err
	}
	filtered := names[:0]
	for _, existing := range names {
		if existing != name {
			filtered = append(filtered, existing)
		}
	}
	if len(filtered) == 0 {
		return m.KVDelete(iboTokenIndexKey)
	}
	return m.KVPut(iboTokenIndexKey, filtered)
}

// IboTokenNames returns every admitted token name in lexical order.
func (m *Manager) IboTokenNames() ([]string, error) {
	var names []string
	if _, err := m.KVGet(iboTokenIndexKey, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (m *Manager) participants(prefix []byte, id uint32) ([][20]byte, error) {
	var list [][20]byte
	if _, err := m.KVGet(iboParticipantsKey(prefix, id), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (m *Manager) appendParticipant(prefix []byte, id uint32, addr [20]byte) error {
	list, err := m.participants(prefix, id)
	if err != nil {
		return err
	}
	for _, existing := range list {
		if existing == addr {
			return fmt.Errorf("state: participant already recorded")
		}
	}
	list = append(list, addr)
	return m.KVPut(iboParticipantsKey(prefix, id), list)
}

// IboReviewers returns the ordered council reviewer list for the proposal.
func (m *Manager) IboReviewers(id uint32) ([][20]byte, error) {
	return m.participants(iboReviewersPrefix, id)
}

// IboAppendReviewer appends a reviewer; duplicates are rejected.
func (m *Manager) IboAppendReviewer(id uint32, addr [20]byte) error {
	return m.appendParticipant(iboReviewersPrefix, id, addr)
}

// IboVoters returns the ordered public voter list for the proposal.
func (m *Manager) IboVoters(id uint32) ([][20]byte, error) {
	return m.participants(iboVotersPrefix, id)
}

// IboAppendVoter appends a voter; duplicates are rejected.
func (m *Manager) IboAppendVoter(id uint32, addr [20]byte) error {
	return m.appendParticipant(iboVotersPrefix, id, addr)
}

// IboStakes returns the account's stake ledger in append order.
func (m *Manager) IboStakes(addr []byte) ([]ibo.StakingInfo, error) {
	if len(addr) == 0 {
		return nil, fmt.Errorf("state: address must not be empty")
	}
	var stakes []ibo.StakingInfo
	if _, err := m.KVGet(iboStakesKey(addr), &stakes); err != nil {
		return nil, err
	}
	return stakes, nil
}

// IboPutStakes overwrites the account's stake ledger, preserving the order
// supplied by the caller. An empty ledger clears the record.
func (m *Manager) IboPutStakes(addr []byte, stakes []ibo.StakingInfo) error {
	if len(addr) == 0 {
		return fmt.Errorf("state: address must not be empty")
	}
	if len(stakes) == 0 {
		return m.KVDelete(iboStakesKey(addr))
	}
	return m.KVPut(iboStakesKey(addr), stakes)
}

// IboVotingProposal returns the id of the proposal currently in its public
// voting phase, if any.
func (m *Manager) IboVotingProposal() (uint32, bool, error) {
	var id uint32
	ok, err := m.KVGet(iboVotingKey, &id)
	if err != nil {
		return 0, false, err
	}
	return id, ok, nil
}

// IboSetVotingProposal claims the voting singleton for the proposal id.
func (m *Manager) IboSetVotingProposal(id uint32) error {
	return m.KVPut(iboVotingKey, id)
}

// IboClearVotingProposal releases the voting singleton.
func (m *Manager) IboClearVotingProposal() error {
	return m.KVDelete(iboVotingKey)
}
