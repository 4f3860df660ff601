package bill

import (
	"time"

	"github.com/shopspring/decimal"
)

type Bill struct {
	ID          int64           `gorm:"primaryKey"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	BillType    string          `gorm:"column:bill_type;not null"`
	Status      string          `gorm:"column:status;not null;default:pending"`
	EmployeeID  int64           `gorm:"column:employee_id;not null"`
	SubmittedBy string          `gorm:"column:submitted_by;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (Bill) TableName() string {
	return "bills"
}
