package council

import (
	"errors"

	"ibochain/crypto"
)

// RoleMember is the state role marking council membership.
const RoleMember = "council.member"

var errStateNotConfigured = errors.New("council: state not configured")

// State is the role-store slice the registry operates on.
type State interface {
	SetRole(role string, addr []byte) error
	RemoveRole(role string, addr []byte) error
	HasRole(role string, addr []byte) (bool, error)
	RoleMembers(role string) ([][]byte, error)
}

// Registry is the council membership registry. The governance engine consumes
// it as the membership predicate gating proposal reviews.
type Registry struct {
	state State
}

// NewRegistry wires the registry to its state backend.
func NewRegistry(state State) *Registry {
	return &Registry{state: state}
}

// AddMember records the address as a council member. Adding an existing
// member is a no-op.
func (r *Registry) AddMember(addr [20]byte) error {
	if r == nil || r.state == nil {
		return errStateNotConfigured
	}
	return r.state.SetRole(RoleMember, addr[:])
}

// RemoveMember drops the address from the council. Removing a non-member is a
// no-op.
func (r *Registry) RemoveMember(addr [20]byte) error {
	if r == nil || r.state == nil {
		return errStateNotConfigured
	}
	return r.state.RemoveRole(RoleMember, addr[:])
}

// IsMember reports whether the address belongs to the council.
func (r *Registry) IsMember(addr [20]byte) (bool, error) {
	if r == nil || r.state == nil {
		return false, errStateNotConfigured
	}
	return r.state.HasRole(RoleMember, addr[:])
}

// Members returns the current council in deterministic address order.
func (r *Registry) Members() ([]crypto.Address, error) {
	if r == nil || r.state == nil {
		return nil, errStateNotConfigured
	}
	raw, err := r.state.RoleMembers(RoleMember)
	if err != nil {
		return nil, err
	}
	members := make([]crypto.Address, 0, len(raw))
	for _, entry := range raw {
		addr, err := crypto.NewAddress(crypto.IboPrefix, entry)
		if err != nil {
			return nil, err
		}
		members = append(members, addr)
	}
	return members, nil
}
