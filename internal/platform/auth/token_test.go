package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHS256_SignVerify(t *testing.T) {
	h, err := NewHS256("secret", "hangulnum", time.Hour)
	if err != nil {
		t.Fatalf("NewHS256: %v", err)
	}
	tok, err := h.Sign("ops", RoleAdmin)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	id, err := h.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Subject != "ops" || id.Role != RoleAdmin {
		t.Fatalf("identity: got %+v", id)
	}
}

func TestHS256_RejectsForeignAndExpired(t *testing.T) {
	a, _ := NewHS256("secret-a", "hangulnum", time.Hour)
	b, _ := NewHS256("secret-b", "hangulnum", time.Hour)
	other, _ := NewHS256("secret-a", "someone-else", time.Hour)

	tok, _ := a.Sign("ops", RoleAdmin)
	if _, err := b.Verify(tok); err == nil {
		t.Fatal("token signed with another secret should fail")
	}
	foreign, _ := other.Sign("ops", RoleAdmin)
	if _, err := a.Verify(foreign); err == nil {
		t.Fatal("token from another issuer should fail")
	}

	old, _ := NewHS256("secret-a", "hangulnum", time.Minute)
	old.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _ := old.Sign("ops", RoleAdmin)
	if _, err := a.Verify(expired); err == nil {
		t.Fatal("expired token should fail")
	}
}

func TestNewHS256_Validates(t *testing.T) {
	if _, err := NewHS256("", "i", time.Hour); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("got %v, want ErrEmptySecret", err)
	}
	if _, err := NewHS256("s", "", time.Hour); !errors.Is(err, ErrEmptyIssuer) {
		t.Fatalf("got %v, want ErrEmptyIssuer", err)
	}
	if _, err := NewHS256("s", "i", 0); !errors.Is(err, ErrInvalidTTL) {
		t.Fatalf("got %v, want ErrInvalidTTL", err)
	}
	h, _ := NewHS256("s", "i", time.Hour)
	if _, err := h.Sign("", RoleAdmin); !errors.Is(err, ErrEmptySubject) {
		t.Fatalf("got %v, want ErrEmptySubject", err)
	}
}

func TestIdentityContext(t *testing.T) {
	if _, ok := GetIdentity(context.Background()); ok {
		t.Fatal("empty context should have no identity")
	}
	ctx := WithIdentity(context.Background(), Identity{Subject: "ops", Role: RoleAdmin})
	id, ok := GetIdentity(ctx)
	if !ok || id.Subject != "ops" {
		t.Fatalf("got %+v, %v", id, ok)
	}
}
