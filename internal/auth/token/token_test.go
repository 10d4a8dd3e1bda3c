package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/capitalsapp/capitals/internal/auth/token"
	"github.com/capitalsapp/capitals/internal/common/clock"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestCodec_IssueAndVerify(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	codec := token.NewHS256Codec(testSecret, clk)

	signed, err := codec.Issue(token.Claims{UserID: 42, Username: "alice"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := codec.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username alice, got %s", claims.Username)
	}
}

func TestCodec_Expired(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	codec := token.NewHS256Codec(testSecret, clk)

	signed, err := codec.Issue(token.Claims{UserID: 1, Username: "alice"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	clk.Advance(time.Hour + time.Minute)

	if _, err := codec.Verify(signed); err == nil {
		t.Error("expected expired token to fail verification")
	}
}

func TestCodec_Tampered(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	codec := token.NewHS256Codec(testSecret, clk)

	signed, err := codec.Issue(token.Claims{UserID: 1, Username: "alice"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(signed, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := codec.Verify(tampered); err == nil {
		t.Error("expected tampered token to fail verification")
	}
}

func TestCodec_WrongSecret(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := token.NewHS256Codec(testSecret, clk)
	verifier := token.NewHS256Codec(strings.Repeat("x", 32), clk)

	signed, err := issuer.Issue(token.Claims{UserID: 1, Username: "alice"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(signed); err == nil {
		t.Error("expected token signed with another secret to fail")
	}
}

func TestCodec_Garbage(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	codec := token.NewHS256Codec(testSecret, clk)

	if _, err := codec.Verify("not-a-token"); err == nil {
		t.Error("expected malformed token to fail verification")
	}
}
