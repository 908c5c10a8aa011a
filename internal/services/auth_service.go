package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AuthStore interface {
	FindUserByEmail(email string) (*User, error)
	FindUserByID(id string) (*User, error)
	AddUser(u *User) error
}

type TokenSigner func(subjectID string, ttl time.Duration) (string, error)

type TokenVerifier func(token string) (string, error)

// AuthService gates survey access: it issues a signed session token from a
// password-hashing identity check and answers the "am I authenticated"
// query. Tokens are stateless; sign-out only clears the caller's credential.
type AuthService struct {
	store       AuthStore
	now         func() time.Time
	idGen       func(prefix string, n int) string
	signToken   TokenSigner
	verifyToken TokenVerifier
	tokenTTL    time.Duration
}

type AuthResult struct {
	Token     string
	SubjectID string
}

func NewAuthService(store AuthStore, signer TokenSigner, verifier TokenVerifier) *AuthService {
	return &AuthService{
		store:       store,
		now:         func() time.Time { return time.Now().UTC() },
		idGen:       func(prefix string, n int) string { return prefix + shortID(n) },
		signToken:   signer,
		verifyToken: verifier,
		tokenTTL:    24 * time.Hour,
	}
}

func (s *AuthService) SignUp(email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, NewInvalidError("email and password are required")
	}
	existing, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, NewStorageError("failed to look up user")
	}
	if existing != nil {
		return nil, NewConflictError("email already used")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	userID := s.idGen("u", 12)
	if err := s.store.AddUser(&User{ID: userID, Email: email, PassHash: hash, CreatedAt: s.now()}); err != nil {
		// two sign-ups can race past the lookup above; the store reports the
		// loser as a conflict
		if _, ok := AsServiceError(err); ok {
			return nil, err
		}
		return nil, NewStorageError("failed to create user")
	}
	token, err := s.signToken(userID, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, SubjectID: userID}, nil
}

func (s *AuthService) SignIn(email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, NewInvalidError("email and password are required")
	}
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, NewStorageError("failed to look up user")
	}
	if u == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	token, err := s.signToken(u.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, SubjectID: u.ID}, nil
}

// Verify decodes the token and confirms the bound subject still exists.
// Every failure path reports not-authenticated; it never errors to the
// caller.
func (s *AuthService) Verify(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	uid, err := s.verifyToken(token)
	if err != nil || uid == "" {
		return "", false
	}
	u, err := s.store.FindUserByID(uid)
	if err != nil || u == nil {
		return "", false
	}
	return uid, true
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
