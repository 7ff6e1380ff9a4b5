package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-imagegen-backend/internal/auth"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{DB: newTestDB(t), Tokens: auth.NewTokenIssuer("test-secret-0123456789", 0)}
}

func TestRegisterLoginResolve(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, " alice ", "Alice@Example.com", "correct horse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sess.Token == "" || sess.User.ID == 0 || sess.User.Email != "alice@example.com" || sess.User.Username != "alice" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if !sess.ExpiresAt.After(sess.User.CreatedAt) {
		t.Fatalf("expiry should be in the future: %v", sess.ExpiresAt)
	}

	for _, ident := range []string{"alice", "ALICE@example.com"} {
		if _, err := svc.Login(ctx, ident, "correct horse"); err != nil {
			t.Fatalf("Login(%q): %v", ident, err)
		}
	}

	u, err := svc.ResolveUser(ctx, "Bearer "+sess.Token)
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if u.ID != sess.User.ID {
		t.Fatalf("resolved wrong user %d", u.ID)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name, user, email, pass string
		want                    error
	}{
		{"missing", "", "a@b.io", "password1", ErrCredentials},
		{"short user", "ab", "a@b.io", "password1", ErrInvalidUsername},
		{"bad email", "abc", "not-an-email", "password1", ErrInvalidEmail},
		{"display name", "abc", "Abc <a@b.io>", "password1", ErrInvalidEmail},
		{"weak", "abc", "a@b.io", "short", ErrWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.user, tc.email, tc.pass); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob", "bob@example.com", "password1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, "bob", "other@example.com", "password1")
	if !errors.Is(err, ErrUserExists) || KindOf(err) != KindConflict {
		t.Fatalf("duplicate username: got %v", err)
	}
	if _, err := svc.Register(ctx, "bobby", "BOB@example.com", "password1"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate email: got %v", err)
	}
}

func TestLogin_Failures(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "carol", "carol@example.com", "password1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(ctx, "", "x"); !errors.Is(err, ErrLoginFields) {
		t.Fatalf("expected ErrLoginFields, got %v", err)
	}
	for _, c := range [][2]string{{"carol", "wrong-pass"}, {"nobody", "password1"}} {
		_, err := svc.Login(ctx, c[0], c[1])
		if KindOf(err) != KindUnauthorized || MessageOf(err) != MsgBadCredentials {
			t.Fatalf("Login(%q): got %v", c[0], err)
		}
	}
}

func TestLogin_UnknownUserStillComparesHash(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "dave", "dave@example.com", "password1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	orig := verifyPassword
	t.Cleanup(func() { verifyPassword = orig })
	var hashes []string
	verifyPassword = func(hash, plain string) bool {
		hashes = append(hashes, hash)
		return orig(hash, plain)
	}

	if _, err := svc.Login(ctx, "nobody", "password1"); MessageOf(err) != MsgBadCredentials {
		t.Fatalf("unknown user: got %v", err)
	}
	if _, err := svc.Login(ctx, "dave", "wrong-pass"); MessageOf(err) != MsgBadCredentials {
		t.Fatalf("wrong password: got %v", err)
	}
	if len(hashes) != 2 {
		t.Fatalf("expected a bcrypt compare on both paths, got %d", len(hashes))
	}
	if hashes[0] != auth.DummyHash() || hashes[1] == auth.DummyHash() {
		t.Fatalf("unexpected hashes compared: %v", hashes)
	}
}

func TestResolveUser_Messages(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	ghost, _, err := svc.Tokens.Issue(999, false)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other := auth.NewTokenIssuer("another-secret-abcdefgh", 0)
	foreign, _, _ := other.Issue(1, false)

	cases := map[string]string{
		"":                  MsgTokenMissing,
		"Token abc":         MsgTokenFormat,
		"Bearer":            MsgTokenFormat,
		"Bearer not.a.jwt":  MsgTokenInvalid,
		"Bearer " + foreign: MsgTokenInvalid,
		"Bearer " + ghost:   MsgUserNotFound,
	}
	for header, want := range cases {
		_, err := svc.ResolveUser(ctx, header)
		if KindOf(err) != KindUnauthorized || MessageOf(err) != want {
			t.Fatalf("ResolveUser(%q) = %v; want %q", header, err, want)
		}
	}
}
