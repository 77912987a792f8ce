package util

import "testing"

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateAccessToken("m-1", "a@b.com", "nick", secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.MemberID != "m-1" || claims.Email != "a@b.com" || claims.Nickname != "nick" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("m-1", "a@b.com", "nick", "secret-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ValidateToken(token, "secret-b"); err == nil {
		t.Fatalf("expected validation to fail with the wrong secret")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token", "secret"); err == nil {
		t.Fatalf("expected validation to fail for garbage input")
	}
}

func TestRefreshTokenCarriesOnlyMemberID(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateRefreshToken("m-1", secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.MemberID != "m-1" {
		t.Fatalf("expected member id m-1, got %q", claims.MemberID)
	}
	if claims.Email != "" || claims.Nickname != "" {
		t.Fatalf("refresh token must not carry identity claims: %+v", claims)
	}
}
