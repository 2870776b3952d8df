package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/crypto/bcrypt"
)

func TestProperty_RegistrationCreatesHashedPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(username string, email string, password string) bool {
			// Setup
			userRepo := newMockUserRepository()
			service := NewAuthService(userRepo, "test-secret", time.Hour)
			ctx := context.Background()

			// Execute registration
			user, err := service.Register(ctx, username, email, password)
			if err != nil {
				// If registration fails, skip this test case
				return true
			}

			// Verify password is hashed (not equal to plaintext)
			if user.HashedPassword == password {
				t.Logf("FAIL: Password stored as plaintext for user %s", username)
				return false
			}

			// Verify password hash is a valid bcrypt hash
			err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password))
			if err != nil {
				t.Logf("FAIL: Password hash is not a valid bcrypt hash or doesn't match: %v", err)
				return false
			}

			// Verify the stored user has the hashed password
			storedUser, err := userRepo.FindByUsername(ctx, username)
			if err != nil {
				t.Logf("FAIL: Could not find stored user: %v", err)
				return false
			}

			if storedUser.HashedPassword != user.HashedPassword {
				t.Logf("FAIL: Stored password hash doesn't match returned password hash")
				return false
			}

			return true
		},
		// Generate usernames within the 1-15 character limit
		gen.RegexMatch(`[a-z][a-z0-9]{2,14}`),
		// Generate valid email addresses
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		// Generate passwords with at least 8 characters
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_DuplicateUsernameRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("registering the same username twice fails with ErrUsernameTaken", prop.ForAll(
		func(username string, email string, password string) bool {
			userRepo := newMockUserRepository()
			service := NewAuthService(userRepo, "test-secret", time.Hour)
			ctx := context.Background()

			_, err := service.Register(ctx, username, email, password)
			if err != nil {
				return true
			}

			_, err = service.Register(ctx, username, "other-"+email, password)
			if !errors.Is(err, repository.ErrUsernameTaken) {
				t.Logf("FAIL: Expected ErrUsernameTaken, got: %v", err)
				return false
			}

			// The first account must survive the failed attempt
			if _, err := userRepo.FindByUsername(ctx, username); err != nil {
				t.Logf("FAIL: Original user lost after duplicate attempt: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z][a-z0-9]{2,14}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_JWTTokensContainRequiredClaims(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("tokens carry the user ID subject, expiry, and issued-at", prop.ForAll(
		func(username string, email string, password string) bool {
			// Setup
			userRepo := newMockUserRepository()
			service := NewAuthService(userRepo, "test-secret-key", time.Hour)
			ctx := context.Background()

			// Register user
			user, err := service.Register(ctx, username, email, password)
			if err != nil {
				return true // Skip if registration fails
			}

			// Login to get a token
			token, loggedIn, err := service.Login(ctx, username, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			if loggedIn.ID != user.ID {
				t.Logf("FAIL: Login returned the wrong user")
				return false
			}

			// Validate and decode the token through the service
			subject, err := service.ValidateToken(token)
			if err != nil {
				t.Logf("FAIL: Token validation failed: %v", err)
				return false
			}

			if subject != user.ID {
				t.Logf("FAIL: Subject mismatch. Expected %s, got %s", user.ID, subject)
				return false
			}

			// Decode the raw claims to check expiry and issued-at directly
			parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte("test-secret-key"), nil
			})
			if err != nil {
				t.Logf("FAIL: Could not parse issued token: %v", err)
				return false
			}
			claims := parsed.Claims.(*jwt.RegisteredClaims)

			if claims.ExpiresAt == nil {
				t.Logf("FAIL: Token missing expiration claim")
				return false
			}

			if claims.IssuedAt == nil {
				t.Logf("FAIL: Token missing issued at claim")
				return false
			}

			// Expiry must be the configured TTL after issuance
			ttl := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
			if ttl != time.Hour {
				t.Logf("FAIL: Expected 1h TTL, got %v", ttl)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z][a-z0-9]{2,14}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_WrongPasswordRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("wrong passwords and unknown usernames fail the same way", prop.ForAll(
		func(username string, email string, password string, wrongPassword string) bool {
			if password == wrongPassword {
				return true
			}

			userRepo := newMockUserRepository()
			service := NewAuthService(userRepo, "test-secret-key", time.Hour)
			ctx := context.Background()

			_, err := service.Register(ctx, username, email, password)
			if err != nil {
				return true
			}

			// Wrong password
			_, _, err = service.Login(ctx, username, wrongPassword)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Logf("FAIL: Expected ErrInvalidCredentials for wrong password, got: %v", err)
				return false
			}

			// Unknown username produces the same error, so a caller cannot
			// distinguish which half of the credentials was wrong
			_, _, err = service.Login(ctx, "nosuchuser", password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Logf("FAIL: Expected ErrInvalidCredentials for unknown user, got: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z][a-z0-9]{2,13}x`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{21,30}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestValidateToken_RejectsTamperedToken(t *testing.T) {
	userRepo := newMockUserRepository()
	service := NewAuthService(userRepo, "test-secret-key", time.Hour)
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	token, _, err := service.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// A token signed with a different secret must not validate
	other := NewAuthService(userRepo, "other-secret", time.Hour)
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected validation to fail for token signed with a different secret")
	}

	// Garbage input must not validate either
	if _, err := service.ValidateToken("not.a.token"); err == nil {
		t.Error("expected validation to fail for malformed token")
	}
}
