package bill

import (
	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/reimbursement-tracker/internal"
	"github.com/frahmantamala/reimbursement-tracker/internal/core/common/validation"
)

// CreateBillDTO is the request payload for submitting a bill. Status is never
// accepted from the caller; creation always lands in pending.
type CreateBillDTO struct {
	Amount   decimal.Decimal `json:"amount"`
	BillType string          `json:"bill_type"`
}

func (dto CreateBillDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("amount", dto.Amount).
		Required().
		PositiveDecimal(errors.ErrCodeInvalidAmount)
	v.Field("bill_type", dto.BillType).
		Required().
		OneOf(TypeNames, errors.ErrCodeInvalidBillType)
	return v.Validate()
}

// BillList is the listing payload: the visible bills plus the totals computed
// over the same visibility scope.
type BillList struct {
	Bills          []*Bill         `json:"bills"`
	TotalSubmitted decimal.Decimal `json:"total_submitted"`
	TotalApproved  decimal.Decimal `json:"total_approved"`
}
