package state

import (
	"bytes"
	"fmt"
	"sort"
)

var roleMemberPrefix = []byte("role/members/")

func roleMembersKey(role string) []byte {
	key := make([]byte, len(roleMemberPrefix)+len(role))
	copy(key, roleMemberPrefix)
	copy(key[len(roleMemberPrefix):], role)
	return key
}

// RoleMembers returns the addresses holding the role, sorted by raw bytes so
// traversal order is stable across nodes.
func (m *Manager) RoleMembers(role string) ([][]byte, error) {
	if role == "" {
		return nil, fmt.Errorf("state: role must not be empty")
	}
	var members [][]byte
	if _, err := m.KVGet(roleMembersKey(role), &members); err != nil {
		return nil, err
	}
	return members, nil
}

// HasRole reports whether the address holds the role.
func (m *Manager) HasRole(role string, addr []byte) (bool, error) {
	members, err := m.RoleMembers(role)
	if err != nil {
		return false, err
	}
	for _, member := range members {
		if bytes.Equal(member, addr) {
			return true, nil
		}
	}
	return false, nil
}

// SetRole grants the role to the address. Granting an already-held role is a
// no-op.
func (m *Manager) SetRole(role string, addr []byte) error {
	if len(addr) == 0 {
		return fmt.Errorf("state: address must not be empty")
	}
	members, err := m.RoleMembers(role)
	if err != nil {
		return err
	}
	for _, member := range members {
		if bytes.Equal(member, addr) {
			return nil
		}
	}
	members = append(members, append([]byte(nil), addr...))
	sort.Slice(members, func(i, j int) bool { return bytes.Compare(members[i], members[j]) < 0 })
	return m.KVPut(roleMembersKey(role), members)
}

// RemoveRole revokes the role from the address. Revoking an absent role is a
// no-op.
func (m *Manager) RemoveRole(role string, addr []byte) error {
	if len(addr) == 0 {
		return fmt.Errorf("state: address must not be empty")
	}
	members, err := m.RoleMembers(role)
	if err != nil {
		return err
	}
	filtered := members[:0]
	for _, member := range members {
		if !bytes.Equal(member, addr) {
			filtered = append(filtered, member)
		}
	}
	if len(filtered) == len(members) {
		return nil
	}
	if len(filtered) == 0 {
		return m.KVDelete(roleMembersKey(role))
	}
	return m.KVPut(roleMembersKey(role), filtered)
}
