package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("not found")
	ErrFileMissing        = errors.New("File tidak ditemukan")
	ErrReaderNil          = errors.New("reader is nil")
	ErrForbidden          = errors.New("Anda tidak memiliki akses untuk operasi ini")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("Username atau password salah")
	ErrTooManyAttempts    = errors.New("Terlalu banyak percobaan login, coba lagi nanti")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError collects per-field messages. It matches ErrValidation
// with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// FieldError builds a ValidationError for a single field.
func FieldError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// Add keeps the first message recorded for a field.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	if _, ok := v.Fields[field]; !ok {
		v.Fields[field] = msg
	}
}

func (v *ValidationError) Error() string {
	keys := lo.Keys(v.Fields)
	sort.Strings(keys)
	parts := lo.Map(keys, func(k string, _ int) string {
		return k + ": " + v.Fields[k]
	})
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// OrNil returns nil when no field failed.
func (v *ValidationError) OrNil() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}
