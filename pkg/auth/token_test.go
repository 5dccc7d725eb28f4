package auth

import (
	"testing"
	"time"

	"github.com/sca-hospital/activos-backend/pkg/config"
	"github.com/sca-hospital/activos-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "sca-hospital",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	role := enums.RoleTechnician

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:   42,
		Username: "jsoto",
		Role:     &role,
		JTI:      "session-1",
	})
	if err != nil {
		t.Fatalf("MintAccessToken error: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("unexpected user id %d", claims.UserID)
	}
	if claims.Username != "jsoto" {
		t.Fatalf("unexpected username %q", claims.Username)
	}
	if claims.Role == nil || *claims.Role != enums.RoleTechnician {
		t.Fatalf("unexpected role %v", claims.Role)
	}
	if claims.ID != "session-1" {
		t.Fatalf("unexpected jti %q", claims.ID)
	}
}

func TestMintAccessToken_NoRole(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 7, Username: "norole"})
	if err != nil {
		t.Fatalf("MintAccessToken error: %v", err)
	}
	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if claims.Role != nil {
		t.Fatalf("expected nil role, got %v", *claims.Role)
	}
}

func TestParseAccessToken_WrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	role := enums.RoleAdministrator

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 1, Username: "admin", Role: &role})
	if err != nil {
		t.Fatalf("MintAccessToken error: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestMintAccessToken_InvalidInputs(t *testing.T) {
	cfg := testJWTConfig()

	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{}); err == nil {
		t.Fatal("expected missing user id to fail")
	}

	bad := enums.Role("Intern")
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 1, Role: &bad}); err == nil {
		t.Fatal("expected invalid role to fail")
	}
}
