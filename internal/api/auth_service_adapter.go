package api

import (
	"errors"

	"github.com/mjaus29/survey/internal/services"
)

type authStoreAdapter struct {
	store Store
}

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func (a *authStoreAdapter) FindUserByEmail(email string) (*services.User, error) {
	u, err := a.store.FindUserByEmail(email)
	if err != nil || u == nil {
		return nil, err
	}
	return convertAPIUser(u), nil
}

func (a *authStoreAdapter) FindUserByID(id string) (*services.User, error) {
	u, err := a.store.FindUserByID(id)
	if err != nil || u == nil {
		return nil, err
	}
	return convertAPIUser(u), nil
}

func (a *authStoreAdapter) AddUser(u *services.User) error {
	if u == nil {
		return services.NewInvalidError("user required")
	}
	err := a.store.AddUser(&User{ID: u.ID, Email: u.Email, PassHash: u.PassHash, CreatedAt: u.CreatedAt})
	if errors.Is(err, ErrDuplicateEmail) {
		return services.NewConflictError("email already used")
	}
	return err
}

func convertAPIUser(u *User) *services.User {
	return &services.User{ID: u.ID, Email: u.Email, PassHash: u.PassHash, CreatedAt: u.CreatedAt}
}

var _ services.AuthStore = (*authStoreAdapter)(nil)
