package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrBusinessRule        = errors.New("regla de negocio violada")
	ErrHierarchyIntegrity  = errors.New("jerarquía de categorías corrupta")
	ErrInvalidCredentials  = errors.New("usuario o contraseña incorrectos")
	ErrInactiveUser        = errors.New("el usuario está inactivo")
	ErrRefreshTokenInvalid = errors.New("refresh token inválido o expirado")
)

// Reglas de negocio. El valor viaja tal cual como código de error HTTP.
const (
	RuleDuplicateCode     = "DUPLICATE_CODE"
	RuleDuplicateName     = "DUPLICATE_NAME"
	RuleSelfParent        = "SELF_PARENT"
	RuleCyclicalReference = "CYCLICAL_REFERENCE"
	RuleInvalidParent     = "INVALID_PARENT"
	RuleMaxDepthExceeded  = "MAX_DEPTH_EXCEEDED"
	RuleHasDependents     = "HAS_DEPENDENTS"

	RuleDuplicateBarcode  = "DUPLICATE_BARCODE"
	RuleInvalidCategory   = "INVALID_CATEGORY"
	RuleInvalidUnit       = "INVALID_UNIT"
	RuleNegativeStock     = "NEGATIVE_STOCK"
	RuleUnitInUse         = "UNIT_IN_USE"
	RuleDuplicateSymbol   = "DUPLICATE_SYMBOL"
	RuleRoleInUse         = "ROLE_IN_USE"
	RuleInvalidRole       = "INVALID_ROLE"
	RuleDuplicateUsername = "DUPLICATE_USERNAME"
	RuleDuplicateEmail    = "DUPLICATE_EMAIL"
	RuleWeakPassword      = "WEAK_PASSWORD"
)

// RuleViolation indica qué regla concreta rechazó la operación.
type RuleViolation struct {
	Rule    string
	Message string
}

// NewRuleViolation construye la violación con un mensaje formateado.
func NewRuleViolation(rule, format string, args ...any) *RuleViolation {
	return &RuleViolation{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

func (e *RuleViolation) Error() string {
	return e.Message
}

// Is permite errors.Is(err, ErrBusinessRule).
func (e *RuleViolation) Is(target error) bool {
	return target == ErrBusinessRule
}

// RuleOf devuelve la regla violada si err es (o envuelve) un *RuleViolation.
func RuleOf(err error) (string, bool) {
	var rv *RuleViolation
	if errors.As(err, &rv) {
		return rv.Rule, true
	}
	return "", false
}
