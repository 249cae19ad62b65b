package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/application/usecase"
	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
	"github.com/jhoicas/erp-api/pkg/config"
)

// bootstrapAdmin crea el usuario admin inicial si todavía no existe.
func bootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig, users repository.UserRepository, roles repository.RoleRepository, uc *usecase.UserUseCase) error {
	existing, err := users.GetByUsername(ctx, cfg.AdminUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	role, err := roles.GetByName(ctx, entity.RoleAdmin)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("rol %q no encontrado; ¿se aplicaron las migraciones?", entity.RoleAdmin)
	}
	_, err = uc.Create(ctx, dto.CreateUserRequest{
		Username:        cfg.AdminUsername,
		Email:           cfg.AdminEmail,
		Password:        cfg.AdminPassword,
		ConfirmPassword: cfg.AdminPassword,
		FirstName:       "Administrador",
		LastName:        "Sistema",
		RoleID:          role.ID,
	}, "System")
	return err
}
