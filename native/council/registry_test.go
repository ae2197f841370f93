package council

import (
	"testing"

	"ibochain/core/state"
	"ibochain/storage"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	return NewRegistry(state.NewManager(db))
}

func TestMembershipLifecycle(t *testing.T) {
	registry := newTestRegistry(t)
	var alice [20]byte
	alice[0] = 1

	ok, err := registry.IsMember(alice)
	if err != nil || ok {
		t.Fatalf("membership must start empty")
	}

	if err := registry.AddMember(alice); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := registry.AddMember(alice); err != nil {
		t.Fatalf("re-add must be a no-op: %v", err)
	}
	ok, err = registry.IsMember(alice)
	if err != nil || !ok {
		t.Fatalf("alice must be a member")
	}

	members, err := registry.Members()
	if err != nil || len(members) != 1 {
		t.Fatalf("expected 1 member, got %d err=%v", len(members), err)
	}

	if err := registry.RemoveMember(alice); err != nil {
		t.Fatalf("remove: %v", err)
	}
	ok, _ = registry.IsMember(alice)
	if ok {
		t.Fatalf("removed member must not satisfy the predicate")
	}
}
