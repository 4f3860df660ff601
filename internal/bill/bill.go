package bill

import (
	"time"

	"github.com/shopspring/decimal"

	billDatamodel "github.com/frahmantamala/reimbursement-tracker/internal/core/datamodel/bill"
)

// Status is the closed set of bill lifecycle states.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Type is the closed set of reimbursement categories.
type Type string

const (
	TypeFood   Type = "food"
	TypeTravel Type = "travel"
	TypeOthers Type = "others"
)

func (t Type) Valid() bool {
	return t == TypeFood || t == TypeTravel || t == TypeOthers
}

// TypeNames lists the accepted bill_type values for validation messages.
var TypeNames = []string{string(TypeFood), string(TypeTravel), string(TypeOthers)}

type Bill struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	BillType    Type            `json:"bill_type"`
	Status      Status          `json:"status"`
	EmployeeID  int64           `json:"employee_id"`
	SubmittedBy string          `json:"submitted_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (b *Bill) CanBeApproved() bool {
	return b.Status == StatusPending
}

func (b *Bill) CanBeRejected() bool {
	return b.Status == StatusPending
}

func (b *Bill) CanRevokeApproval() bool {
	return b.Status == StatusApproved
}

func (b *Bill) CanRevokeRejection() bool {
	return b.Status == StatusRejected
}

// NewBill builds a pending bill for the given employee. The submitted-by label
// is a snapshot of the employee's name at this instant; later name edits do
// not touch it.
func NewBill(employeeID int64, submittedBy string, amount decimal.Decimal, billType Type) *Bill {
	now := time.Now()
	return &Bill{
		Amount:      amount,
		BillType:    billType,
		Status:      StatusPending,
		EmployeeID:  employeeID,
		SubmittedBy: submittedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(b *Bill) *billDatamodel.Bill {
	return &billDatamodel.Bill{
		ID:          b.ID,
		Amount:      b.Amount,
		BillType:    string(b.BillType),
		Status:      string(b.Status),
		EmployeeID:  b.EmployeeID,
		SubmittedBy: b.SubmittedBy,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func FromDataModel(b *billDatamodel.Bill) *Bill {
	return &Bill{
		ID:          b.ID,
		Amount:      b.Amount,
		BillType:    Type(b.BillType),
		Status:      Status(b.Status),
		EmployeeID:  b.EmployeeID,
		SubmittedBy: b.SubmittedBy,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func FromDataModelSlice(bills []*billDatamodel.Bill) []*Bill {
	result := make([]*Bill, len(bills))
	for i, b := range bills {
		result[i] = FromDataModel(b)
	}
	return result
}
