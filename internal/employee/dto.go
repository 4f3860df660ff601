package employee

import (
	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/reimbursement-tracker/internal"
	"github.com/frahmantamala/reimbursement-tracker/internal/core/common/validation"
)

type CreateEmployeeDTO struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Designation  string `json:"designation"`
	DepartmentID int64  `json:"department_id"`
}

func (dto CreateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("first_name", dto.FirstName).Required().MaxLength(100)
	v.Field("last_name", dto.LastName).Required().MaxLength(100)
	v.Field("email", dto.Email).Required().Email().MaxLength(255)
	v.Field("designation", dto.Designation).Required().MaxLength(100)
	v.Field("department_id", dto.DepartmentID).Required()
	return v.Validate()
}

type UpdateEmployeeDTO struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Designation  string `json:"designation"`
	DepartmentID int64  `json:"department_id"`
}

func (dto UpdateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("first_name", dto.FirstName).Required().MaxLength(100)
	v.Field("last_name", dto.LastName).Required().MaxLength(100)
	v.Field("email", dto.Email).Required().Email().MaxLength(255)
	v.Field("designation", dto.Designation).Required().MaxLength(100)
	v.Field("department_id", dto.DepartmentID).Required()
	return v.Validate()
}

// CreatedEmployee is the creation response. The one-time credential is set
// only when a user was freshly provisioned; it exists nowhere else in
// plaintext.
type CreatedEmployee struct {
	Employee          *Employee `json:"employee"`
	OneTimeCredential string    `json:"one_time_credential,omitempty"`
}

// ProvisionOutcome reports how an employee's user link was resolved.
type ProvisionOutcome struct {
	UserID            int64  `json:"user_id"`
	Created           bool   `json:"created"`
	OneTimeCredential string `json:"one_time_credential,omitempty"`
}

// EmployeeTotals carries the per-employee bill aggregates.
type EmployeeTotals struct {
	EmployeeID          int64           `json:"employee_id"`
	TotalBillsAmount    decimal.Decimal `json:"total_bills_amount"`
	TotalApprovedAmount decimal.Decimal `json:"total_approved_amount"`
}
