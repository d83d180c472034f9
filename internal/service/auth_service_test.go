package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/budget-buddy/api/internal/config"
	"github.com/budget-buddy/api/internal/repository"
	"github.com/budget-buddy/api/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newAuthService(t *testing.T, db *gorm.DB) *service.AuthService {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return service.NewAuthService(
		repository.NewUserRepository(db),
		service.NewTokenStore(rdb),
		config.JWTConfig{Secret: testSecret, ExpireHours: 1},
	)
}

func registerReq(username, email string) *service.RegisterRequest {
	return &service.RegisterRequest{
		FirstName: "Test",
		LastName:  "User",
		Username:  username,
		Email:     email,
		Password:  "correct-horse",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	user, token, err := svc.Register(registerReq("alice", "alice@example.com"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)

	// login by username
	byName, err := svc.Login(&service.LoginRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, byName.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)

	// login by email
	_, err = svc.Login(&service.LoginRequest{Username: "alice@example.com", Password: "correct-horse"})
	assert.NoError(t, err)
}

func TestRegisterDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	_, _, err := svc.Register(registerReq("alice", "alice@example.com"))
	require.NoError(t, err)

	_, _, err = svc.Register(registerReq("alice", "other@example.com"))
	assert.ErrorIs(t, err, service.ErrUsernameTaken)

	_, _, err = svc.Register(registerReq("bob", "alice@example.com"))
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	_, _, err := svc.Register(registerReq("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(&service.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(&service.LoginRequest{Username: "nobody", Password: "correct-horse"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejectsForgeries(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	_, err := svc.ValidateToken(ctx, "not-a-token")
	assert.Error(t, err)

	// well-formed token signed with the wrong secret
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &service.JWTClaims{
		UserID:   1,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	forgedString, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, forgedString)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &service.JWTClaims{
		UserID:   1,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredString, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, expiredString)
	assert.Error(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	_, token, err := svc.Register(registerReq("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token.AccessToken))

	_, err = svc.ValidateToken(ctx, token.AccessToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = svc.RefreshToken(ctx, token.AccessToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestRefreshTokenIssuesNewToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	user, token, err := svc.Register(registerReq("alice", "alice@example.com"))
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, token.AccessToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestForgotAndResetPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	_, _, err := svc.Register(registerReq("alice", "alice@example.com"))
	require.NoError(t, err)

	// unknown email does not error and yields no token
	token, err := svc.ForgotPassword(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)

	token, err = svc.ForgotPassword(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "new-password-123"))

	_, err = svc.Login(&service.LoginRequest{Username: "alice", Password: "correct-horse"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Login(&service.LoginRequest{Username: "alice", Password: "new-password-123"})
	assert.NoError(t, err)

	// a reset token is single-use
	err = svc.ResetPassword(ctx, token, "another-password")
	assert.ErrorIs(t, err, service.ErrResetTokenInvalid)
}
