package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/domain"
	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
	"github.com/jhoicas/erp-api/pkg/password"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(users repository.UserRepository, roles repository.RoleRepository) *UserUseCase {
	return &UserUseCase{users: users, roles: roles}
}

// Create registra un usuario: username y email únicos, rol activo y contraseña que cumpla la política.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest, createdBy string) (*dto.UserResponse, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	exists, err := uc.users.ExistsByUsername(ctx, username, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewRuleViolation(domain.RuleDuplicateUsername, "el usuario %q ya existe", username)
	}
	if err := uc.checkEmail(ctx, email, ""); err != nil {
		return nil, err
	}
	role, err := uc.activeRole(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}
	if !password.IsStrong(in.Password) {
		return nil, weakPassword()
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	if createdBy == "" {
		createdBy = "System"
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		RoleID:       role.ID,
		RoleName:     role.Name,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    createdBy,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// Update actualiza datos de contacto, rol y estado. El username no cambia.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := uc.checkEmail(ctx, email, id); err != nil {
		return nil, err
	}
	role, err := uc.activeRole(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}
	user.Email = email
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Phone = strings.TrimSpace(in.Phone)
	user.RoleID = role.ID
	user.RoleName = role.Name
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// Delete desactiva un usuario. Nadie puede desactivarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, id, actorID string) error {
	if id == actorID {
		return fmt.Errorf("%w: no puede eliminar su propio usuario", domain.ErrForbidden)
	}
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	return uc.users.SoftDelete(ctx, id)
}

// ChangePassword cambia la contraseña del usuario verificando la actual.
func (uc *UserUseCase) ChangePassword(ctx context.Context, id string, in dto.ChangePasswordRequest) error {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	ok, err := password.Verify(user.PasswordHash, in.CurrentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}
	if !password.IsStrong(in.NewPassword) {
		return weakPassword()
	}
	hash, err := password.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}
	// Las sesiones abiertas deben volver a autenticarse.
	return uc.users.UpdateRefreshToken(ctx, id, "", nil)
}

// GetByID obtiene un usuario por ID (activo o inactivo).
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// GetPaged listado paginado con búsqueda, rol y estado.
func (uc *UserUseCase) GetPaged(ctx context.Context, in dto.UserFilterRequest) (*dto.UserListResponse, error) {
	in.DefaultPage()
	filter := userFilter(in)
	filter.Page = repository.Page{Limit: in.PageSize, Offset: in.Offset()}
	list, total, err := uc.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.UserListResponse{Items: toUserResponses(list), Page: dto.NewPageResponse(in.PageRequest, total)}, nil
}

// GetAll todos los usuarios que cumplen los filtros, sin paginar.
func (uc *UserUseCase) GetAll(ctx context.Context, in dto.UserFilterRequest) ([]dto.UserResponse, error) {
	list, _, err := uc.users.List(ctx, userFilter(in))
	if err != nil {
		return nil, err
	}
	return toUserResponses(list), nil
}

func userFilter(in dto.UserFilterRequest) repository.UserFilter {
	filter := repository.UserFilter{
		Search: strings.TrimSpace(in.Search),
		RoleID: in.RoleID,
	}
	if in.Status != "" {
		active := in.Status == "active"
		filter.IsActive = &active
	}
	return filter
}

func toUserResponses(list []*entity.User) []dto.UserResponse {
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, toUserResponse(u))
	}
	return items
}

func (uc *UserUseCase) checkEmail(ctx context.Context, email, excludeID string) error {
	exists, err := uc.users.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewRuleViolation(domain.RuleDuplicateEmail, "el email %q ya está registrado", email)
	}
	return nil
}

func (uc *UserUseCase) activeRole(ctx context.Context, roleID string) (*entity.Role, error) {
	role, err := uc.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.NewRuleViolation(domain.RuleInvalidRole, "el rol no existe o está inactivo")
	}
	return role, nil
}

func weakPassword() error {
	return domain.NewRuleViolation(domain.RuleWeakPassword,
		"la contraseña debe tener al menos %d caracteres con una minúscula, una mayúscula y un número", password.MinLength)
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Phone:       u.Phone,
		RoleID:      u.RoleID,
		RoleName:    u.RoleName,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUserResponse mapea una entidad User a su DTO público (usado por auth).
func ToUserResponse(u *entity.User) dto.UserResponse {
	return toUserResponse(u)
}
