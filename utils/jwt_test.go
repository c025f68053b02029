package utils

import (
	"billkhata-backend/config"
	"testing"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	config.Load()

	userID := uuid.New()
	token, err := GenerateToken(userID, "priya@example.com", "manager")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user ID = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "priya@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Role != "manager" {
		t.Errorf("role = %q, want manager", claims.Role)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	config.Load()

	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestRoundToTwo(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.0},
		{2.675, 2.68},
		{45.499, 45.5},
		{-548.004, -548.0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := RoundToTwo(tt.in); got != tt.want {
			t.Errorf("RoundToTwo(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
