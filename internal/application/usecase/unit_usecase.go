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

// UnitUseCase casos de uso de unidades de medida.
type UnitUseCase struct {
	units    repository.UnitRepository
	products repository.ProductRepository
}

// NewUnitUseCase construye el caso de uso.
func NewUnitUseCase(units repository.UnitRepository, products repository.ProductRepository) *UnitUseCase {
	return &UnitUseCase{units: units, products: products}
}

// Create crea una unidad con nombre y símbolo únicos.
func (uc *UnitUseCase) Create(ctx context.Context, in dto.CreateUnitRequest, createdBy string) (*dto.UnitResponse, error) {
	name := strings.TrimSpace(in.Name)
	symbol := strings.TrimSpace(in.Symbol)
	if err := uc.checkUnique(ctx, name, symbol, ""); err != nil {
		return nil, err
	}
	if createdBy == "" {
		createdBy = "System"
	}
	now := time.Now()
	unit := &entity.Unit{
		ID:          uuid.New().String(),
		Name:        name,
		Symbol:      symbol,
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   createdBy,
	}
	if err := uc.units.Create(ctx, unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// Update actualiza una unidad. Desactivarla exige que ningún producto activo la use.
func (uc *UnitUseCase) Update(ctx context.Context, id string, in dto.UpdateUnitRequest) (*dto.UnitResponse, error) {
	unit, err := uc.units.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	name := strings.TrimSpace(in.Name)
	symbol := strings.TrimSpace(in.Symbol)
	if err := uc.checkUnique(ctx, name, symbol, id); err != nil {
		return nil, err
	}
	if in.IsActive != nil && !*in.IsActive {
		if err := uc.ensureUnused(ctx, id); err != nil {
			return nil, err
		}
		unit.IsActive = false
	}
	unit.Name = name
	unit.Symbol = symbol
	unit.Description = strings.TrimSpace(in.Description)
	unit.UpdatedAt = time.Now()
	if err := uc.units.Update(ctx, unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// Delete desactiva una unidad sin productos activos.
func (uc *UnitUseCase) Delete(ctx context.Context, id string) error {
	unit, err := uc.units.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.ErrNotFound
	}
	if err := uc.ensureUnused(ctx, id); err != nil {
		return err
	}
	return uc.units.SoftDelete(ctx, id)
}

// GetByID obtiene una unidad activa.
func (uc *UnitUseCase) GetByID(ctx context.Context, id string) (*dto.UnitResponse, error) {
	unit, err := uc.units.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	return toUnitResponse(unit), nil
}

// GetPaged listado paginado.
func (uc *UnitUseCase) GetPaged(ctx context.Context, in dto.UnitFilterRequest) (*dto.UnitListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.units.List(ctx, repository.UnitFilter{
		Search:          strings.TrimSpace(in.Search),
		IncludeInactive: in.IncludeInactive,
		Page:            repository.Page{Limit: in.PageSize, Offset: in.Offset()},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUnitResponse(u))
	}
	return &dto.UnitListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, total)}, nil
}

// GetForSelect unidades activas para selects.
func (uc *UnitUseCase) GetForSelect(ctx context.Context) ([]dto.UnitSelectResponse, error) {
	list, err := uc.units.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitSelectResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.UnitSelectResponse{ID: u.ID, Name: u.Name, Symbol: u.Symbol})
	}
	return out, nil
}

// Usage cuántos productos activos usan la unidad.
func (uc *UnitUseCase) Usage(ctx context.Context, id string) (*dto.UnitUsageResponse, error) {
	unit, err := uc.units.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	count, err := uc.products.CountActiveByUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.UnitUsageResponse{ID: id, ProductCount: count, CanBeDeleted: count == 0}, nil
}

func (uc *UnitUseCase) checkUnique(ctx context.Context, name, symbol, excludeID string) error {
	exists, err := uc.units.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewRuleViolation(domain.RuleDuplicateName, "ya existe una unidad con el nombre %q", name)
	}
	exists, err = uc.units.ExistsBySymbol(ctx, symbol, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewRuleViolation(domain.RuleDuplicateSymbol, "ya existe una unidad con el símbolo %q", symbol)
	}
	return nil
}

func (uc *UnitUseCase) ensureUnused(ctx context.Context, id string) error {
	count, err := uc.products.CountActiveByUnit(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.NewRuleViolation(domain.RuleUnitInUse, "la unidad está asignada a %d producto(s) activo(s)", count)
	}
	return nil
}

func toUnitResponse(u *entity.Unit) *dto.UnitResponse {
	return &dto.UnitResponse{
		ID:          u.ID,
		Name:        u.Name,
		Symbol:      u.Symbol,
		Description: u.Description,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
