package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

func TestJWTManager_GenerateAndValidate_Success(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	issuer := "tutorhive-test"
	ttl := 15 * time.Minute

	manager := NewJWTManager(secret, issuer, ttl)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, []domain.Role{domain.RoleTutor})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	ident, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if ident.UserID != userID {
		t.Errorf("expected userID %s, got %s", userID, ident.UserID)
	}
	if !ident.HasRole(domain.RoleTutor) {
		t.Errorf("expected TUTOR role, got %v", ident.Roles)
	}
	if ident.IsReviewer() {
		t.Error("tutor must not be a reviewer")
	}
}

func TestJWTManager_MultipleRoles(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	manager := NewJWTManager(secret, "tutorhive-test", 15*time.Minute)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, []domain.Role{domain.RoleStaff, domain.RoleManager})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	ident, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if !ident.HasAnyRole(domain.RoleStaff) || !ident.HasAnyRole(domain.RoleManager) {
		t.Errorf("expected STAFF and MANAGER, got %v", ident.Roles)
	}
	if !ident.IsReviewer() {
		t.Error("staff must be a reviewer")
	}
}

func TestJWTManager_UnknownRolesDropped(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	manager := NewJWTManager(secret, "tutorhive-test", 15*time.Minute)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, []domain.Role{domain.RoleTutor, domain.Role("SUPERHERO")})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	ident, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if len(ident.Roles) != 1 || ident.Roles[0] != domain.RoleTutor {
		t.Errorf("expected only TUTOR, got %v", ident.Roles)
	}
}

func TestJWTManager_ValidateAccessToken_Expired(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	manager := NewJWTManager(secret, "tutorhive-test", -1*time.Hour)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, []domain.Role{domain.RoleTutor})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, err = manager.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
	if !strings.Contains(err.Error(), "expired") && !strings.Contains(err.Error(), "parse token") {
		t.Errorf("expected expiry-related error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_InvalidSignature(t *testing.T) {
	secret1 := "test-secret-at-least-32-chars-long-for-security"
	secret2 := "different-secret-32-chars-long-for-security!!"
	issuer := "tutorhive-test"
	ttl := 15 * time.Minute

	manager1 := NewJWTManager(secret1, issuer, ttl)
	manager2 := NewJWTManager(secret2, issuer, ttl)
	userID := uuid.New()

	token, err := manager1.GenerateAccessToken(userID, []domain.Role{domain.RoleTutor})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, err = manager2.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for invalid signature, got nil")
	}
}

func TestJWTManager_ValidateAccessToken_Malformed(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	manager := NewJWTManager(secret, "tutorhive-test", 15*time.Minute)

	malformedTokens := []string{
		"not.a.jwt",
		"invalid-token",
		"header.payload", // Missing signature
	}

	for _, token := range malformedTokens {
		_, err := manager.ValidateAccessToken(token)
		if err == nil {
			t.Errorf("expected error for malformed token %q, got nil", token)
		}
	}
}

func TestJWTManager_ValidateAccessToken_WrongIssuer(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	ttl := 15 * time.Minute

	manager1 := NewJWTManager(secret, "tutorhive-test", ttl)
	manager2 := NewJWTManager(secret, "wrong-issuer", ttl)
	userID := uuid.New()

	token, err := manager1.GenerateAccessToken(userID, []domain.Role{domain.RoleTutor})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, err = manager2.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for wrong issuer, got nil")
	}
	if !strings.Contains(err.Error(), "invalid issuer") {
		t.Errorf("expected 'invalid issuer' error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_EmptyString(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	manager := NewJWTManager(secret, "tutorhive-test", 15*time.Minute)

	_, err := manager.ValidateAccessToken("")
	if err == nil {
		t.Fatal("expected error for empty token, got nil")
	}
	if !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected 'empty' error, got: %v", err)
	}
}

func TestIdentityFromCtx_Anonymous(t *testing.T) {
	ctx := t.Context()

	if _, ok := IdentityFromCtx(ctx); ok {
		t.Fatal("expected no identity in fresh context")
	}

	ctx = WithIdentity(ctx, Identity{})
	if _, ok := IdentityFromCtx(ctx); ok {
		t.Fatal("zero identity must read back as anonymous")
	}
}

func TestIdentityFromCtx_RoundTrip(t *testing.T) {
	ident := Identity{UserID: uuid.New(), Roles: []domain.Role{domain.RoleStaff}}
	ctx := WithIdentity(t.Context(), ident)

	got, ok := IdentityFromCtx(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if got.UserID != ident.UserID {
		t.Errorf("expected %s, got %s", ident.UserID, got.UserID)
	}
}
