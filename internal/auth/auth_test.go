package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/duitraya/internal/models"
	"github.com/mmynk/duitraya/internal/storage"
)

// memUsers is an in-memory UserStorage keyed by email.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]*models.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return storage.ErrConflict
	}
	c := *user
	m.users[user.Email] = &c
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *user
	return &c, nil
}

func (m *memUsers) UpdatePasswordHash(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			user.PasswordHash = hash
			return nil
		}
	}
	return storage.ErrNotFound
}

func newTestAuthenticator(admins ...string) *PasswordAuthenticator {
	a := NewPasswordAuthenticator(newMemUsers(), admins)
	a.cost = bcrypt.MinCost
	return a
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("normalises email and hashes password", func(t *testing.T) {
		a := newTestAuthenticator()
		user, err := a.Register(ctx, "Aina", "  Aina@Example.COM ", "password123")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.Email != "aina@example.com" {
			t.Errorf("Expected normalised email, got %q", user.Email)
		}
		if user.PasswordHash == "password123" || user.PasswordHash == "" {
			t.Error("Expected password to be hashed")
		}
		if user.IsAdmin {
			t.Error("Expected regular user")
		}
	})

	t.Run("admin emails register as admins", func(t *testing.T) {
		a := newTestAuthenticator("Boss@Example.com")
		user, err := a.Register(ctx, "boss", "boss@example.com", "password123")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if !user.IsAdmin {
			t.Error("Expected admin user")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		a := newTestAuthenticator()
		if _, err := a.Register(ctx, "one", "same@example.com", "password123"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		_, err := a.Register(ctx, "two", "SAME@example.com", "password456")
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("Expected ErrEmailExists, got %v", err)
		}
	})

	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"short password", "u", "u@example.com", "short", ErrWeakPassword},
		{"password over bcrypt limit", "u", "u@example.com", strings.Repeat("x", MaxPasswordLength+8), ErrPasswordTooLong},
		{"password at bcrypt limit", "u", "limit@example.com", strings.Repeat("x", MaxPasswordLength), nil},
		{"missing username", "  ", "u@example.com", "password123", ErrEmptyUsername},
		{"bad email", "u", "not-an-email", "password123", ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestAuthenticator().Register(ctx, tt.username, tt.email, tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("Register() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()
	registered, err := a.Register(ctx, "Aina", "aina@example.com", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("correct credentials", func(t *testing.T) {
		user, err := a.Authenticate(ctx, "AINA@example.com", "password123")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.ID != registered.ID {
			t.Errorf("Expected user %s, got %s", registered.ID, user.ID)
		}
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, errPassword := a.Authenticate(ctx, "aina@example.com", "wrong-password")
		_, errEmail := a.Authenticate(ctx, "nobody@example.com", "password123")
		if !errors.Is(errPassword, ErrInvalidCredentials) || !errors.Is(errEmail, ErrInvalidCredentials) {
			t.Fatalf("Expected ErrInvalidCredentials, got %v and %v", errPassword, errEmail)
		}
		if errPassword.Error() != errEmail.Error() {
			t.Errorf("Expected identical messages, got %q and %q", errPassword, errEmail)
		}
	})
}

func TestResetCredential(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()
	user, err := a.Register(ctx, "Aina", "aina@example.com", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := a.ResetCredential(ctx, user.ID, "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("Expected ErrWeakPassword, got %v", err)
	}
	if err := a.ResetCredential(ctx, user.ID, strings.Repeat("x", 80)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("Expected ErrPasswordTooLong, got %v", err)
	}
	if err := a.ResetCredential(ctx, "ghost", "new-password"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	if err := a.ResetCredential(ctx, user.ID, "new-password"); err != nil {
		t.Fatalf("ResetCredential failed: %v", err)
	}
	if _, err := a.Authenticate(ctx, "aina@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("Expected old password to stop working")
	}
	if _, err := a.Authenticate(ctx, "aina@example.com", "new-password"); err != nil {
		t.Errorf("Expected new password to work, got %v", err)
	}
}

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret-key-0123456789", time.Hour)
	user := &models.User{ID: "user-1", Email: "aina@example.com", IsAdmin: true}

	t.Run("round trip", func(t *testing.T) {
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != user.ID || claims.Email != user.Email || !claims.IsAdmin || claims.Issuer != Issuer {
			t.Errorf("Unexpected claims: %+v", claims)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _ := NewJWTManager("another-secret-key-9876543210", time.Hour).Generate(user)
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		token, _ := NewJWTManager("test-secret-key-0123456789", -time.Minute).Generate(user)
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	sign := func(t *testing.T, method jwt.SigningMethod, issuer, subject string) string {
		t.Helper()
		token := jwt.NewWithClaims(method, &Claims{
			UserID: user.ID,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				Subject:   subject,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		signed, err := token.SignedString([]byte("test-secret-key-0123456789"))
		if err != nil {
			t.Fatalf("SignedString failed: %v", err)
		}
		return signed
	}

	rejected := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{"other signing method", func(t *testing.T) string { return sign(t, jwt.SigningMethodHS512, Issuer, user.ID) }},
		{"other issuer", func(t *testing.T) string { return sign(t, jwt.SigningMethodHS256, "someone-else", user.ID) }},
		{"subject mismatch", func(t *testing.T) string { return sign(t, jwt.SigningMethodHS256, Issuer, "user-2") }},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := manager.Validate(tt.token(t)); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}

	t.Run("hand-built token with matching claims", func(t *testing.T) {
		claims, err := manager.Validate(sign(t, jwt.SigningMethodHS256, Issuer, user.ID))
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.Subject != user.ID {
			t.Errorf("Expected subject %q, got %q", user.ID, claims.Subject)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := manager.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})
}
