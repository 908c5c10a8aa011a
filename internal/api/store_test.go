package api

import (
	"errors"
	"testing"

	"github.com/mjaus29/survey/internal/services"
)

func TestMemoryStoreAddUserDuplicateEmail(t *testing.T) {
	store := newMemoryStore()
	if err := store.AddUser(&User{ID: "u-1", Email: "ada@example.com"}); err != nil {
		t.Fatalf("first AddUser: %v", err)
	}

	err := store.AddUser(&User{ID: "u-2", Email: "Ada@Example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	// The original registration stays intact.
	u, err := store.FindUserByEmail("ada@example.com")
	if err != nil || u == nil || u.ID != "u-1" {
		t.Fatalf("stored user clobbered: %+v, %v", u, err)
	}
	if u, _ := store.FindUserByID("u-2"); u != nil {
		t.Fatalf("losing registration must leave no record, got %+v", u)
	}
}

func TestAuthAdapterMapsDuplicateToConflict(t *testing.T) {
	store := newMemoryStore()
	adapter := newAuthStoreAdapter(store)
	if err := adapter.AddUser(&services.User{ID: "u-1", Email: "ada@example.com"}); err != nil {
		t.Fatalf("first AddUser: %v", err)
	}

	err := adapter.AddUser(&services.User{ID: "u-2", Email: "ada@example.com"})
	se, ok := services.AsServiceError(err)
	if !ok || se.Code != services.ErrorConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}
