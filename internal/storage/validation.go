// Package storage provides the data persistence layer for the financas application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/Veraticus/financas/internal/model"
	"github.com/go-playground/validator/v10"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidEntry = errors.New("invalid entry")
)

var entryValidator = newEntryValidator()

func newEntryValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages match the snapshot file.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "mesref", func(fl validator.FieldLevel) bool {
		return model.ValidMesRef(fl.Field().String())
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		return model.ValidDate(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("storage: register %s validation: %v", tag, err))
	}
}

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateEntry checks the stored shape of an entry: required fields, the
// closed enumerations, date patterns and a positive finite amount.
func validateEntry(entry *model.Lancamento) error {
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}

	if err := entryValidator.Struct(entry); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: field %s failed %q (value %v)", ErrInvalidEntry, fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}

	if math.IsInf(entry.Valor, 0) {
		return fmt.Errorf("%w: field valor is not finite", ErrInvalidEntry)
	}
	if p := entry.DataPagamentoText(); p != "" && !model.ValidDate(p) {
		return fmt.Errorf("%w: field dataPagamento failed %q (value %s)", ErrInvalidEntry, "isodate", p)
	}
	return nil
}
