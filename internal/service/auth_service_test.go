package service

import (
	"errors"
	"testing"
	"time"

	"tasknest/internal/auth"
	"tasknest/internal/validation"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	token, user, err := env.auth.Register(t.Context(), "Alice", "Smith", "alice", "alice@example.com", "Passw0rd")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected non-zero user ID")
	}

	claims, err := auth.VerifyToken(token, env.jwtSecret)
	if err != nil {
		t.Fatalf("Registration token failed verification: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "alice" {
		t.Errorf("Token claims = (%d, %s), want (%d, alice)", claims.UserID, claims.Username, user.ID)
	}

	if _, _, err := env.auth.Login("alice", "Passw0rd"); err != nil {
		t.Errorf("Login with correct password failed: %v", err)
	}
	if _, _, err := env.auth.Login("alice", "WrongPass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := env.auth.Login("nobody", "Passw0rd"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with unknown username: got %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser(t, "alice", "alice@example.com")

	_, _, err := env.auth.Register(t.Context(), "Other", "Person", "alice", "other@example.com", "Passw0rd")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Duplicate username: got %v, want ErrUsernameTaken", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"short username", "ab", "a@example.com", "Passw0rd"},
		{"bad email", "alice", "not-an-email", "Passw0rd"},
		{"short password", "alice", "a@example.com", "Ab1"},
		{"password missing digit", "alice", "a@example.com", "Password"},
		{"password missing upper", "alice", "a@example.com", "passw0rd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.auth.Register(t.Context(), "Test", "User", tt.username, tt.email, tt.password)
			var vErr validation.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("got %v, want a validation error", err)
			}
		})
	}
}

func TestPasswordResetLifecycle(t *testing.T) {
	env := newTestEnv(t)
	userID := env.registerUser(t, "alice", "alice@example.com")

	if err := env.auth.RequestPasswordReset(t.Context(), "alice@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	// The token never crosses the service boundary; pull it from the store
	// the way the email link would deliver it
	user, err := env.users.GetUserByID(userID)
	if err != nil {
		t.Fatalf("Failed to load user: %v", err)
	}
	if user.ResetToken == nil {
		t.Fatal("Expected a stored reset token")
	}
	token := *user.ResetToken

	if err := env.auth.ResetPassword(token, "NewPass1"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	// Old credential rejected, new one accepted
	if _, _, err := env.auth.Login("alice", "Passw0rd"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Old password still works after reset: %v", err)
	}
	if _, _, err := env.auth.Login("alice", "NewPass1"); err != nil {
		t.Errorf("New password rejected after reset: %v", err)
	}

	// Single use: the consumed token cannot reset again
	if err := env.auth.ResetPassword(token, "Another1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("Reused token: got %v, want ErrInvalidResetToken", err)
	}
}

func TestResetPasswordUnknownToken(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "alice", "alice@example.com")

	err := env.auth.ResetPassword("0000000000000000000000000000000000000000000000000000000000000000", "NewPass1")
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("Unknown token: got %v, want ErrInvalidResetToken", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	userID := env.registerUser(t, "alice", "alice@example.com")

	// Store a token that expired an hour ago
	if err := env.users.StoreResetToken(userID, "expiredtoken", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("Failed to store token: %v", err)
	}

	if err := env.auth.ResetPassword("expiredtoken", "NewPass1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("Expired token: got %v, want ErrInvalidResetToken", err)
	}
}

func TestNewResetRequestInvalidatesOldToken(t *testing.T) {
	env := newTestEnv(t)
	userID := env.registerUser(t, "alice", "alice@example.com")

	if err := env.auth.RequestPasswordReset(t.Context(), "alice@example.com"); err != nil {
		t.Fatalf("First request failed: %v", err)
	}
	user, _ := env.users.GetUserByID(userID)
	firstToken := *user.ResetToken

	if err := env.auth.RequestPasswordReset(t.Context(), "alice@example.com"); err != nil {
		t.Fatalf("Second request failed: %v", err)
	}
	user, _ = env.users.GetUserByID(userID)
	secondToken := *user.ResetToken

	if firstToken == secondToken {
		t.Fatal("Expected a fresh token on the second request")
	}

	if err := env.auth.ResetPassword(firstToken, "NewPass1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("Superseded token: got %v, want ErrInvalidResetToken", err)
	}
	if err := env.auth.ResetPassword(secondToken, "NewPass1"); err != nil {
		t.Errorf("Latest token rejected: %v", err)
	}
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "alice", "alice@example.com")

	// Unknown addresses must not be distinguishable from known ones
	if err := env.auth.RequestPasswordReset(t.Context(), "nobody@example.com"); err != nil {
		t.Errorf("Unknown email should be a silent no-op, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	userID := env.registerUser(t, "alice", "alice@example.com")

	if err := env.auth.ChangePassword(userID, "WrongPass1", "NewPass1"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Wrong current password: got %v, want ErrWrongPassword", err)
	}

	if err := env.auth.ChangePassword(userID, "Passw0rd", "NewPass1"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if _, _, err := env.auth.Login("alice", "NewPass1"); err != nil {
		t.Errorf("New password rejected after change: %v", err)
	}
}

func TestUpdateProfileAndDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	userID := env.registerUser(t, "alice", "alice@example.com")

	updated, err := env.auth.UpdateProfile(userID, "Alicia", "Smythe", "alicia@example.com", "task wrangler")
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.FirstName != "Alicia" || updated.Email != "alicia@example.com" || updated.Bio != "task wrangler" {
		t.Errorf("Profile not updated: %+v", updated)
	}
	if updated.Username != "alice" {
		t.Errorf("Username must stay immutable, got %s", updated.Username)
	}

	if err := env.auth.DeleteAccount(userID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if _, err := env.auth.GetProfile(userID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Deleted account still resolves: %v", err)
	}
	if err := env.auth.DeleteAccount(userID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Second delete: got %v, want ErrNotFound", err)
	}
}

func TestOAuthLoginProvisionsOnce(t *testing.T) {
	env := newTestEnv(t)

	token, user, err := env.auth.OAuthLogin(t.Context(), "carol@example.com", "Carol Jones")
	if err != nil {
		t.Fatalf("OAuthLogin failed: %v", err)
	}
	if _, err := auth.VerifyToken(token, env.jwtSecret); err != nil {
		t.Errorf("OAuth token failed verification: %v", err)
	}

	_, again, err := env.auth.OAuthLogin(t.Context(), "carol@example.com", "Carol Jones")
	if err != nil {
		t.Fatalf("Second OAuthLogin failed: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("Second login provisioned a new account: %d != %d", again.ID, user.ID)
	}
}
