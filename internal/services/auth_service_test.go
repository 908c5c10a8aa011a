package services

import (
	"testing"
	"time"
)

type authStubStore struct {
	byEmail map[string]*User
	byID    map[string]*User
	addErr  error
}

func newAuthStubStore() *authStubStore {
	return &authStubStore{byEmail: map[string]*User{}, byID: map[string]*User{}}
}

func (s *authStubStore) FindUserByEmail(email string) (*User, error) {
	if u, ok := s.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *authStubStore) FindUserByID(id string) (*User, error) {
	if u, ok := s.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *authStubStore) AddUser(u *User) error {
	if s.addErr != nil {
		return s.addErr
	}
	cp := *u
	s.byEmail[u.Email] = &cp
	s.byID[u.ID] = &cp
	return nil
}

func stubSigner(subjectID string, ttl time.Duration) (string, error) {
	return "token:" + subjectID, nil
}

func stubVerifier(token string) (string, error) {
	if len(token) > 6 && token[:6] == "token:" {
		return token[6:], nil
	}
	return "", NewUnauthorizedError("invalid token")
}

func TestAuthSignUpThenSignIn(t *testing.T) {
	store := newAuthStubStore()
	svc := NewAuthService(store, stubSigner, stubVerifier)
	svc.now = func() time.Time { return time.Unix(0, 0) }

	res, err := svc.SignUp("user@example.com", "Secret123")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if res.SubjectID == "" || res.Token != "token:"+res.SubjectID {
		t.Fatalf("unexpected result: %+v", res)
	}

	loginRes, err := svc.SignIn("user@example.com", "Secret123")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if loginRes.SubjectID != res.SubjectID {
		t.Fatalf("sign-in bound to %q, sign-up to %q", loginRes.SubjectID, res.SubjectID)
	}
}

func TestAuthSignUpConflict(t *testing.T) {
	svc := NewAuthService(newAuthStubStore(), stubSigner, stubVerifier)

	if _, err := svc.SignUp("user@example.com", "Secret123"); err != nil {
		t.Fatalf("first SignUp failed: %v", err)
	}
	_, err := svc.SignUp("user@example.com", "Other456")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAuthSignUpRacingDuplicate(t *testing.T) {
	// The lookup sees no user but the insert loses to a concurrent sign-up.
	// The store's conflict must reach the caller as a conflict, not be
	// flattened into a storage error.
	store := newAuthStubStore()
	store.addErr = NewConflictError("email already used")
	svc := NewAuthService(store, stubSigner, stubVerifier)

	_, err := svc.SignUp("user@example.com", "Secret123")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAuthSignInFailures(t *testing.T) {
	svc := NewAuthService(newAuthStubStore(), stubSigner, stubVerifier)
	if _, err := svc.SignUp("user@example.com", "Secret123"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	for _, tc := range []struct {
		name, email, password string
	}{
		{"wrong password", "user@example.com", "wrong"},
		{"unknown email", "missing@example.com", "Secret123"},
	} {
		_, err := svc.SignIn(tc.email, tc.password)
		se, ok := AsServiceError(err)
		if !ok || se.Code != ErrorUnauthorized {
			t.Fatalf("%s: expected unauthorized, got %v", tc.name, err)
		}
		if se.Message != "invalid credentials" {
			t.Fatalf("%s: message must not reveal which check failed: %q", tc.name, se.Message)
		}
	}
}

func TestAuthMissingFields(t *testing.T) {
	svc := NewAuthService(newAuthStubStore(), stubSigner, stubVerifier)

	for _, tc := range []struct{ email, password string }{
		{"", ""},
		{"user@example.com", ""},
		{"", "Secret123"},
	} {
		if _, err := svc.SignUp(tc.email, tc.password); err == nil {
			t.Fatalf("SignUp(%q, %q): expected validation error", tc.email, tc.password)
		}
		if _, err := svc.SignIn(tc.email, tc.password); err == nil {
			t.Fatalf("SignIn(%q, %q): expected validation error", tc.email, tc.password)
		}
	}
}

func TestAuthVerify(t *testing.T) {
	store := newAuthStubStore()
	svc := NewAuthService(store, stubSigner, stubVerifier)

	res, err := svc.SignUp("user@example.com", "Secret123")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	uid, ok := svc.Verify(res.Token)
	if !ok || uid != res.SubjectID {
		t.Fatalf("Verify(%q) = %q, %v", res.Token, uid, ok)
	}

	if _, ok := svc.Verify(""); ok {
		t.Fatalf("empty token must not verify")
	}
	if _, ok := svc.Verify("garbage"); ok {
		t.Fatalf("malformed token must not verify")
	}
	// Token referencing a subject that no longer exists.
	if _, ok := svc.Verify("token:ghost"); ok {
		t.Fatalf("token for unknown subject must not verify")
	}
}
