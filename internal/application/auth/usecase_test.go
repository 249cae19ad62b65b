package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-api/internal/application/auth"
	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/domain"
	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
	"github.com/jhoicas/erp-api/pkg/jwt"
	"github.com/jhoicas/erp-api/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testSecret = "test-secret-key-for-unit-tests"

// usersStub implementa solo lo que usa AuthUseCase; el resto no se invoca en estos tests.
type usersStub struct {
	repository.UserRepository
	byID map[string]*entity.User
}

func (s *usersStub) find(match func(*entity.User) bool) *entity.User {
	for _, u := range s.byID {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (s *usersStub) GetByID(_ context.Context, id string) (*entity.User, error) {
	return s.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (s *usersStub) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return s.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (s *usersStub) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return s.find(func(u *entity.User) bool { return strings.EqualFold(u.Username, username) }), nil
}

func (s *usersStub) GetByRefreshToken(_ context.Context, token string) (*entity.User, error) {
	return s.find(func(u *entity.User) bool { return u.RefreshToken != "" && u.RefreshToken == token }), nil
}

func (s *usersStub) UpdateRefreshToken(_ context.Context, id, token string, exp *time.Time) error {
	s.byID[id].RefreshToken = token
	s.byID[id].RefreshTokenExpiresAt = exp
	return nil
}

func (s *usersStub) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	s.byID[id].LastLoginAt = &at
	return nil
}

type memBlacklist struct {
	revoked map[string]time.Duration
}

func (b *memBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	b.revoked[jti] = ttl
	return nil
}

func (b *memBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := b.revoked[jti]
	return ok, nil
}

func newAuth(t *testing.T, active bool) (*auth.AuthUseCase, *usersStub, *memBlacklist) {
	t.Helper()
	hash, err := password.Hash("Secreta1")
	require.NoError(t, err)
	users := &usersStub{byID: map[string]*entity.User{
		"u1": {
			ID: "u1", Username: "ana", Email: "ana@example.com", PasswordHash: hash,
			FirstName: "Ana", RoleID: "r1", RoleName: entity.RoleManager, IsActive: active,
		},
	}}
	bl := &memBlacklist{revoked: map[string]time.Duration{}}
	uc := auth.NewAuthUseCase(users, bl, auth.JWTConfig{Secret: testSecret, ExpMinutes: 15, Issuer: "erp-test", RefreshExpHours: 24})
	return uc, users, bl
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_PorEmailYPorUsername(t *testing.T) {
	uc, users, _ := newAuth(t, true)

	for _, login := range []string{"ana@example.com", "ANA"} {
		out, err := uc.Login(context.Background(), dto.LoginRequest{EmailOrUsername: login, Password: "Secreta1"})
		require.NoError(t, err, login)
		assert.Equal(t, auth.TokenType, out.TokenType)
		assert.NotEmpty(t, out.RefreshToken)
		assert.NotNil(t, out.User.LastLoginAt)

		claims, err := jwt.Parse(testSecret, out.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, entity.RoleManager, claims.Role)
		assert.Equal(t, out.RefreshToken, users.byID["u1"].RefreshToken)
	}
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _, _ := newAuth(t, true)
	_, err := uc.Login(context.Background(), dto.LoginRequest{EmailOrUsername: "ana", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(context.Background(), dto.LoginRequest{EmailOrUsername: "nadie", Password: "Secreta1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, _, _ := newAuth(t, false)
	_, err := uc.Login(context.Background(), dto.LoginRequest{EmailOrUsername: "ana", Password: "Secreta1"})
	assert.ErrorIs(t, err, domain.ErrInactiveUser)
}

func TestRefresh_RotaElToken(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newAuth(t, true)
	first, err := uc.Login(ctx, dto.LoginRequest{EmailOrUsername: "ana", Password: "Secreta1"})
	require.NoError(t, err)

	second, err := uc.Refresh(ctx, dto.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = uc.Refresh(ctx, dto.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrRefreshTokenInvalid, "el token usado queda invalidado")
}

func TestRefresh_Expirado(t *testing.T) {
	ctx := context.Background()
	uc, users, _ := newAuth(t, true)
	past := time.Now().Add(-time.Minute)
	users.byID["u1"].RefreshToken = "viejo"
	users.byID["u1"].RefreshTokenExpiresAt = &past

	_, err := uc.Refresh(ctx, dto.RefreshTokenRequest{RefreshToken: "viejo"})
	assert.ErrorIs(t, err, domain.ErrRefreshTokenInvalid)
}

func TestLogout_RevocaAccessYRefresh(t *testing.T) {
	ctx := context.Background()
	uc, users, bl := newAuth(t, true)
	out, err := uc.Login(ctx, dto.LoginRequest{EmailOrUsername: "ana", Password: "Secreta1"})
	require.NoError(t, err)
	claims, err := jwt.Parse(testSecret, out.AccessToken)
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, "u1", claims.ID, claims.ExpiresAt.Time))
	assert.Empty(t, users.byID["u1"].RefreshToken)

	revoked, err := uc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Greater(t, bl.revoked[claims.ID], time.Duration(0))

	_, err = uc.Refresh(ctx, dto.RefreshTokenRequest{RefreshToken: out.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrRefreshTokenInvalid)
}

func TestMe(t *testing.T) {
	uc, _, _ := newAuth(t, true)
	me, err := uc.Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana", me.Username)

	_, err = uc.Me(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
