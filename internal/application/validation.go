package application

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"access-console/internal/domain"
)

type CreateRoleInput struct {
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description" validate:"required"`
	Permissions []domain.Permission `json:"permissions" validate:"min=1,dive,oneof=create read update delete"`
}

type AddUserInput struct {
	Name   string        `json:"name" validate:"required"`
	Email  string        `json:"email" validate:"required"`
	RoleID int64         `json:"role_id" validate:"required"`
	Status domain.Status `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

type updateRoleInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

func (m *AccessModel) check(in any) error {
	err := m.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.Invalid("%v", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "min":
			msgs = append(msgs, fe.Field()+" needs at least one entry")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s has unsupported value %q", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return domain.Invalid("%s", strings.Join(msgs, "; "))
}
