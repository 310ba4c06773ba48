package employee

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField    = errors.New("employee: missing field")
	ErrInvalidEnum     = errors.New("employee: invalid enum value")
	ErrInvalidFormat   = errors.New("employee: invalid format")
	ErrNotFound        = errors.New("employee: not found")
	ErrCorruptSnapshot = errors.New("employee: corrupt snapshot")
)

// MissingFieldError は作成時に必須フィールドが欠けていることを表します。
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("employee: %s is required", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// InvalidEnumError は列挙値の範囲外であることを表します。
type InvalidEnumError struct {
	Field string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("employee: invalid %s", e.Field)
}

func (e *InvalidEnumError) Is(target error) bool {
	return target == ErrInvalidEnum
}

// InvalidFormatError は書式チェックに失敗したことを表します。
type InvalidFormatError struct {
	Field string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("employee: invalid %s format", e.Field)
}

func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// NotFoundError は指定 ID の社員が存在しないことを表します。
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("employee: %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsValidationError は入力検証エラーかどうかを判定します。
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidEnum) ||
		errors.Is(err, ErrInvalidFormat)
}

func missingField(field string) error  { return &MissingFieldError{Field: field} }
func invalidEnum(field string) error   { return &InvalidEnumError{Field: field} }
func invalidFormat(field string) error { return &InvalidFormatError{Field: field} }
