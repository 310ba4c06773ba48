package employee

// Department は所属部署を表します。
type Department string

const (
	DepartmentHR          Department = "HR"
	DepartmentEngineering Department = "Engineering"
	DepartmentSales       Department = "Sales"
	DepartmentMarketing   Department = "Marketing"
)

// EmployeeType は雇用形態を表します。
type EmployeeType string

const (
	EmployeeTypeFullTime EmployeeType = "Full-time"
	EmployeeTypePartTime EmployeeType = "Part-time"
	EmployeeTypeContract EmployeeType = "Contract"
)

// State は last_working_date から導出される在籍状態です。
type State string

const (
	StateActive    State = "active"
	StateSeparated State = "separated"
)

// フィールド名は永続化スナップショットとトランスポートで共通です。
const (
	FieldID               = "id"
	FieldEmployeeName     = "employee_name"
	FieldDepartment       = "department"
	FieldPosition         = "position"
	FieldHireDate         = "hire_date"
	FieldEmail            = "email"
	FieldMobileNumber     = "mobile_number"
	FieldPermanentAddress = "permanent_address"
	FieldNationality      = "nationality"
	FieldEmployeeType     = "employee_type"
	FieldIsActive         = "isactive"
	FieldLastWorkingDate  = "last_working_date"
)

// DateLayout は hire_date / last_working_date の書式です。
const DateLayout = "2006-01-02"

// Fields はトランスポート層がデコードした入力値のマップです。
type Fields map[string]any

// Record は社員レコードです。
type Record struct {
	ID               int64        `json:"id"`
	EmployeeName     string       `json:"employee_name"`
	Department       Department   `json:"department"`
	Position         string       `json:"position"`
	HireDate         string       `json:"hire_date"`
	Email            string       `json:"email"`
	MobileNumber     string       `json:"mobile_number"`
	PermanentAddress string       `json:"permanent_address"`
	Nationality      string       `json:"nationality"`
	EmployeeType     EmployeeType `json:"employee_type"`
	IsActive         bool         `json:"isactive"`
	LastWorkingDate  string       `json:"last_working_date,omitempty"`
}

// State は在籍状態を返します。
func (r Record) State() State {
	if r.LastWorkingDate != "" {
		return StateSeparated
	}
	return StateActive
}

// Fields は id を除いたフィールドマップを返します。
func (r Record) Fields() Fields {
	fields := Fields{
		FieldEmployeeName:     r.EmployeeName,
		FieldDepartment:       string(r.Department),
		FieldPosition:         r.Position,
		FieldHireDate:         r.HireDate,
		FieldEmail:            r.Email,
		FieldMobileNumber:     r.MobileNumber,
		FieldPermanentAddress: r.PermanentAddress,
		FieldNationality:      r.Nationality,
		FieldEmployeeType:     string(r.EmployeeType),
		FieldIsActive:         r.IsActive,
	}
	if r.LastWorkingDate != "" {
		fields[FieldLastWorkingDate] = r.LastWorkingDate
	}
	return fields
}

// recordFromFields は検証済みのフィールドからレコードを組み立てます。
func recordFromFields(id int64, fields Fields) Record {
	isActive := true
	if v, ok := fields[FieldIsActive].(bool); ok {
		isActive = v
	}

	return Record{
		ID:               id,
		EmployeeName:     stringField(fields, FieldEmployeeName),
		Department:       Department(stringField(fields, FieldDepartment)),
		Position:         stringField(fields, FieldPosition),
		HireDate:         stringField(fields, FieldHireDate),
		Email:            stringField(fields, FieldEmail),
		MobileNumber:     stringField(fields, FieldMobileNumber),
		PermanentAddress: stringField(fields, FieldPermanentAddress),
		Nationality:      stringField(fields, FieldNationality),
		EmployeeType:     EmployeeType(stringField(fields, FieldEmployeeType)),
		IsActive:         isActive,
		LastWorkingDate:  stringField(fields, FieldLastWorkingDate),
	}
}

func stringField(fields Fields, name string) string {
	s, _ := fields[name].(string)
	return s
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	return out
}
