package http

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-api/internal/domain"
)

var (
	categoryCodePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)
	usernamePattern     = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
)

// validationError errores por campo (nombre JSON -> regla fallida).
type validationError struct {
	Fields map[string]string
}

func (e *validationError) Error() string {
	return "datos de entrada inválidos"
}

// Validator envuelve validator/v10 con los tags propios de la API.
type Validator struct {
	v *validator.Validate
}

// NewValidator registra category_code, username y el soporte de decimal.Decimal.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	mustRegister(v, "category_code", func(fl validator.FieldLevel) bool {
		return categoryCodePattern.MatchString(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
	})
	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// mustRegister registra una regla propia. Un error aquí es de programación
// (tag vacío o reservado) y no debe llegar a producción.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registrar validación %q: %v", tag, err))
	}
}

// Struct valida in y traduce los errores a *validationError.
func (val *Validator) Struct(in any) error {
	err := val.v.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &validationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out.Fields[fe.Field()] = msg
	}
	return out
}

// bindJSON parsea el cuerpo y lo valida.
func (val *Validator) bindJSON(c *fiber.Ctx, in any) error {
	if err := c.BodyParser(in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}
	return val.Struct(in)
}

// bindQuery parsea la query string y la valida.
func (val *Validator) bindQuery(c *fiber.Ctx, in any) error {
	if err := c.QueryParser(in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "parámetros de consulta inválidos")
	}
	return val.Struct(in)
}

// paramID lee el parámetro :id de la ruta. Un valor que no es UUID no puede
// identificar ningún registro y responde 404.
func (val *Validator) paramID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if err := val.v.Var(id, "required,uuid"); err != nil {
		return "", domain.ErrNotFound
	}
	return id, nil
}

// queryID lee un parámetro de query opcional que debe ser UUID.
func (val *Validator) queryID(c *fiber.Ctx, name string) (string, error) {
	id := c.Query(name)
	if err := val.v.Var(id, "omitempty,uuid"); err != nil {
		return "", &validationError{Fields: map[string]string{name: "uuid"}}
	}
	return id, nil
}
