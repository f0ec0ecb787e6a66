package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/groudina/competitions/internal/domain"
)

const testSecret = "test-secret"

func newAuthService(store *memoryStore) *AuthService {
	svc := NewAuthService(store, testSecret, time.Hour, discardLogger())
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func strPtr(s string) *string { return &s }

func TestAuthService_SignUpAndSignIn(t *testing.T) {
	store := newMemoryStore()
	svc := newAuthService(store)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, " t@example.com ", "pa55word", domain.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, "t@example.com", user.Email)
	assert.NotEqual(t, "pa55word", user.PasswordHash)

	token, signedIn, err := svc.SignIn(ctx, domain.LoginUser{
		EmailValue:    strPtr("t@example.com"),
		PasswordValue: strPtr("pa55word"),
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "t@example.com", claims.Email)
	assert.Equal(t, domain.RoleTeacher, claims.Role)
}

func TestAuthService_SignUpRejectsDuplicatesAndAdmins(t *testing.T) {
	store := newMemoryStore()
	svc := newAuthService(store)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "s@example.com", "pw", domain.RoleStudent)
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "s@example.com", "pw", domain.RoleStudent)
	assert.True(t, errors.Is(err, domain.ErrUserExists))

	_, err = svc.SignUp(ctx, "root@example.com", "pw", domain.RoleAdmin)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestAuthService_SignInFailures(t *testing.T) {
	store := newMemoryStore()
	svc := newAuthService(store)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "s@example.com", "right", domain.RoleStudent)
	require.NoError(t, err)

	tests := []struct {
		name    string
		login   domain.LoginUser
		wantErr error
	}{
		{"missing password", domain.LoginUser{EmailValue: strPtr("s@example.com")}, domain.ErrValidation},
		{"missing email", domain.LoginUser{PasswordValue: strPtr("right")}, domain.ErrValidation},
		{"wrong password", domain.LoginUser{EmailValue: strPtr("s@example.com"), PasswordValue: strPtr("wrong")}, domain.ErrUnauthorized},
		{"unknown user", domain.LoginUser{EmailValue: strPtr("x@example.com"), PasswordValue: strPtr("right")}, domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.SignIn(ctx, tt.login)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestAuthService_ValidateTokenRejectsForeignTokens(t *testing.T) {
	svc := newAuthService(newMemoryStore())

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Email: "t@example.com", Role: domain.RoleTeacher})
	signed, err := foreign.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email: "t@example.com",
		Role:  domain.RoleTeacher,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err = expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
