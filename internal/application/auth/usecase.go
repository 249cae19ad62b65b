package auth

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/application/usecase"
	"github.com/jhoicas/erp-api/internal/domain"
	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
	"github.com/jhoicas/erp-api/pkg/jwt"
	"github.com/jhoicas/erp-api/pkg/password"
)

// TokenType tipo de token devuelto en login y refresh.
const TokenType = "Bearer"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret          string
	ExpMinutes      int
	Issuer          string
	RefreshExpHours int
}

// TokenBlacklist registra access tokens revocados (por jti) hasta que expiran.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthUseCase casos de uso de autenticación: login, refresh, logout y perfil.
type AuthUseCase struct {
	users     repository.UserRepository
	blacklist TokenBlacklist
	jwtCfg    JWTConfig
	now       func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. blacklist puede ser nil (logout solo invalida el refresh token).
func NewAuthUseCase(users repository.UserRepository, blacklist TokenBlacklist, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{users: users, blacklist: blacklist, jwtCfg: jwtCfg, now: time.Now}
}

// Login verifica email o username y password, emite access token y refresh token.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.findUser(ctx, in.EmailOrUsername)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	ok, err := password.Verify(user.PasswordHash, in.Password)
	if err != nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	resp, err := uc.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	at := uc.now()
	if err := uc.users.UpdateLastLogin(ctx, user.ID, at); err != nil {
		return nil, err
	}
	resp.User.LastLoginAt = &at
	return resp, nil
}

// Refresh rota el refresh token y emite un nuevo access token. El token usado queda invalidado.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshTokenRequest) (*dto.LoginResponse, error) {
	token := strings.TrimSpace(in.RefreshToken)
	if token == "" {
		return nil, domain.ErrRefreshTokenInvalid
	}
	user, err := uc.users.GetByRefreshToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshTokenExpiresAt == nil || !uc.now().Before(*user.RefreshTokenExpiresAt) {
		return nil, domain.ErrRefreshTokenInvalid
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return uc.issue(ctx, user)
}

// Logout invalida el refresh token del usuario y revoca el access token actual.
func (uc *AuthUseCase) Logout(ctx context.Context, userID, jti string, expiresAt time.Time) error {
	if err := uc.users.UpdateRefreshToken(ctx, userID, "", nil); err != nil {
		return err
	}
	if uc.blacklist == nil || jti == "" {
		return nil
	}
	ttl := expiresAt.Sub(uc.now())
	if ttl <= 0 {
		return nil
	}
	return uc.blacklist.Revoke(ctx, jti, ttl)
}

// IsRevoked indica si el access token fue revocado en un logout.
func (uc *AuthUseCase) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if uc.blacklist == nil || jti == "" {
		return false, nil
	}
	return uc.blacklist.IsRevoked(ctx, jti)
}

// Me datos del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	resp := usecase.ToUserResponse(user)
	return &resp, nil
}

func (uc *AuthUseCase) findUser(ctx context.Context, login string) (*entity.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" {
		return nil, nil
	}
	if strings.Contains(login, "@") {
		return uc.users.GetByEmail(ctx, login)
	}
	return uc.users.GetByUsername(ctx, login)
}

func (uc *AuthUseCase) issue(ctx context.Context, user *entity.User) (*dto.LoginResponse, error) {
	access, claims, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Subject{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.RoleName,
		RoleID:   user.RoleID,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	refreshExp := uc.now().Add(time.Duration(uc.jwtCfg.RefreshExpHours) * time.Hour)
	if err := uc.users.UpdateRefreshToken(ctx, user.ID, refresh, &refreshExp); err != nil {
		return nil, err
	}
	user.RefreshToken = refresh
	user.RefreshTokenExpiresAt = &refreshExp
	return &dto.LoginResponse{
		AccessToken:           access,
		RefreshToken:          refresh,
		TokenType:             TokenType,
		ExpiresAt:             claims.ExpiresAt.Time,
		RefreshTokenExpiresAt: refreshExp,
		User:                  usecase.ToUserResponse(user),
	}, nil
}
