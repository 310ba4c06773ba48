package employee

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Mode は検証モードです。
type Mode int

const (
	// ModeCreate は必須フィールドがすべて揃っていることを要求します。
	ModeCreate Mode = iota
	// ModeUpdate は存在するフィールドのみを検証します。
	ModeUpdate
)

var requiredFields = []string{
	FieldEmployeeName,
	FieldDepartment,
	FieldPosition,
	FieldHireDate,
	FieldEmail,
	FieldMobileNumber,
	FieldPermanentAddress,
	FieldNationality,
	FieldEmployeeType,
}

type fieldRule struct {
	field    string
	tag      string
	fail     func(field string) error
	optional bool
}

// 先頭から順に評価し、最初の失敗を返します。
var fieldRules = []fieldRule{
	{field: FieldDepartment, tag: "oneof=HR Engineering Sales Marketing", fail: invalidEnum},
	{field: FieldEmployeeType, tag: "oneof=Full-time Part-time Contract", fail: invalidEnum},
	{field: FieldMobileNumber, tag: "len=10,number", fail: invalidFormat},
	{field: FieldEmail, tag: "email_shape", fail: invalidFormat},
	{field: FieldLastWorkingDate, tag: "omitempty,datetime=" + DateLayout, fail: invalidFormat, optional: true},
	{field: FieldEmployeeName, tag: "required", fail: invalidFormat},
	{field: FieldPosition, tag: "required", fail: invalidFormat},
	{field: FieldHireDate, tag: "required,datetime=" + DateLayout, fail: invalidFormat},
	{field: FieldPermanentAddress, tag: "required", fail: invalidFormat},
	{field: FieldNationality, tag: "required", fail: invalidFormat},
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("email_shape", isEmailShape); err != nil {
		panic(err)
	}
	return v
}

// isEmailShape は '@' を含み、最後の '@' 以降に '.' があるかを判定します。
func isEmailShape(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	at := strings.LastIndex(value, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(value[at+1:], ".")
}

// Validate は入力フィールドを検証します。副作用はありません。
func Validate(fields Fields, mode Mode) error {
	if mode == ModeCreate {
		for _, name := range requiredFields {
			if _, ok := fields[name]; !ok {
				return missingField(name)
			}
		}
	}

	for _, rule := range fieldRules {
		raw, ok := fields[rule.field]
		if !ok || (raw == nil && rule.optional) {
			continue
		}
		value, isString := raw.(string)
		if !isString {
			return rule.fail(rule.field)
		}
		if err := validate.Var(value, rule.tag); err != nil {
			return rule.fail(rule.field)
		}
	}

	if raw, ok := fields[FieldIsActive]; ok {
		if _, isBool := raw.(bool); !isBool {
			return invalidFormat(FieldIsActive)
		}
	}

	return nil
}
