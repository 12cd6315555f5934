package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jonesrussell/shorty/internal/auth"
)

const testSecret = "test-secret-key-32-chars-minimum"

func TestJWTManager_GenerateToken(t *testing.T) {
	mgr := auth.NewJWTManager(testSecret, 12*time.Hour)

	token, err := mgr.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}

	// Token should have 3 parts (header.payload.signature)
	if parts := strings.Count(token, "."); parts != 2 {
		t.Errorf("GenerateToken() token has %d dots, want 2", parts)
	}
}

func TestJWTManager_ValidateToken_Success(t *testing.T) {
	mgr := auth.NewJWTManager(testSecret, 12*time.Hour)

	token, err := mgr.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("ValidateToken() subject = %q, want %q", claims.Subject, "alice")
	}
	if claims.ID == "" {
		t.Error("ValidateToken() claims missing token ID")
	}
}

func TestJWTManager_ValidateToken_Failures(t *testing.T) {
	mgr := auth.NewJWTManager(testSecret, 12*time.Hour)

	expired := auth.NewJWTManager(testSecret, -time.Hour)
	expiredToken, err := expired.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	otherSecret := auth.NewJWTManager("a-completely-different-secret-key", 12*time.Hour)
	foreignToken, err := otherSecret.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := mgr.ValidateToken(tt.token); err == nil {
				t.Error("ValidateToken() accepted an invalid token")
			}
		})
	}
}
