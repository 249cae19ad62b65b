package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/domain"
	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
)

// RoleUseCase casos de uso de roles y asignación de roles a usuarios.
type RoleUseCase struct {
	roles repository.RoleRepository
	users repository.UserRepository
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(roles repository.RoleRepository, users repository.UserRepository) *RoleUseCase {
	return &RoleUseCase{roles: roles, users: users}
}

// Create crea un rol con nombre único.
func (uc *RoleUseCase) Create(ctx context.Context, in dto.CreateRoleRequest, createdBy string) (*dto.RoleResponse, error) {
	name := strings.ToLower(strings.TrimSpace(in.Name))
	if err := uc.checkUnique(ctx, name, ""); err != nil {
		return nil, err
	}
	if createdBy == "" {
		createdBy = "System"
	}
	now := time.Now()
	role := &entity.Role{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   createdBy,
	}
	if err := uc.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	resp := toRoleResponse(role, 0)
	return &resp, nil
}

// Update renombra o describe un rol.
func (uc *RoleUseCase) Update(ctx context.Context, id string, in dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	role, err := uc.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	name := strings.ToLower(strings.TrimSpace(in.Name))
	if err := uc.checkUnique(ctx, name, id); err != nil {
		return nil, err
	}
	role.Name = name
	role.Description = strings.TrimSpace(in.Description)
	role.UpdatedAt = time.Now()
	if err := uc.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete desactiva un rol sin usuarios activos.
func (uc *RoleUseCase) Delete(ctx context.Context, id string) error {
	role, err := uc.roles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role == nil {
		return domain.ErrNotFound
	}
	counts, err := uc.roles.CountActiveUsers(ctx, []string{id})
	if err != nil {
		return err
	}
	if n := counts[id]; n > 0 {
		return domain.NewRuleViolation(domain.RuleRoleInUse, "el rol tiene %d usuario(s) activo(s)", n)
	}
	return uc.roles.SoftDelete(ctx, id)
}

// GetByID obtiene un rol activo con su cantidad de usuarios.
func (uc *RoleUseCase) GetByID(ctx context.Context, id string) (*dto.RoleResponse, error) {
	role, err := uc.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	counts, err := uc.roles.CountActiveUsers(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	resp := toRoleResponse(role, counts[id])
	return &resp, nil
}

// GetWithUsers rol con sus usuarios activos.
func (uc *RoleUseCase) GetWithUsers(ctx context.Context, id string) (*dto.RoleWithUsersResponse, error) {
	role, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := uc.users.ListByRole(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.RoleWithUsersResponse{RoleResponse: *role, Users: make([]dto.UserResponse, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, toUserResponse(u))
	}
	return out, nil
}

// GetPaged listado paginado de roles activos.
func (uc *RoleUseCase) GetPaged(ctx context.Context, in dto.PageRequest) (*dto.RoleListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.roles.List(ctx, repository.Page{Limit: in.PageSize, Offset: in.Offset()})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	counts, err := uc.roles.CountActiveUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toRoleResponse(r, counts[r.ID]))
	}
	return &dto.RoleListResponse{Items: items, Page: dto.NewPageResponse(in, total)}, nil
}

// GetDropdown roles activos para selects.
func (uc *RoleUseCase) GetDropdown(ctx context.Context) ([]dto.RoleDropdownResponse, error) {
	list, err := uc.roles.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleDropdownResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.RoleDropdownResponse{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

// AssignRole cambia el rol de un usuario.
func (uc *RoleUseCase) AssignRole(ctx context.Context, in dto.AssignRoleRequest) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	role, err := uc.roles.GetByID(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.NewRuleViolation(domain.RuleInvalidRole, "el rol no existe o está inactivo")
	}
	if err := uc.users.UpdateRole(ctx, user.ID, role.ID); err != nil {
		return nil, err
	}
	user.RoleID = role.ID
	user.RoleName = role.Name
	resp := toUserResponse(user)
	return &resp, nil
}

func (uc *RoleUseCase) checkUnique(ctx context.Context, name, excludeID string) error {
	exists, err := uc.roles.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewRuleViolation(domain.RuleDuplicateName, "ya existe un rol con el nombre %q", name)
	}
	return nil
}

func toRoleResponse(r *entity.Role, userCount int) dto.RoleResponse {
	return dto.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		UserCount:   userCount,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
