package department

import (
	errors "github.com/frahmantamala/reimbursement-tracker/internal"
	"github.com/frahmantamala/reimbursement-tracker/internal/core/common/validation"
)

type CreateDepartmentDTO struct {
	Name string `json:"name"`
}

func (dto CreateDepartmentDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).
		Required().
		MaxLength(100)
	return v.Validate()
}

type UpdateDepartmentDTO struct {
	Name string `json:"name"`
}

func (dto UpdateDepartmentDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).
		Required().
		MaxLength(100)
	return v.Validate()
}
