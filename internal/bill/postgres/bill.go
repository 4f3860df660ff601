package postgres

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/frahmantamala/reimbursement-tracker/internal"
	"github.com/frahmantamala/reimbursement-tracker/internal/bill"
	billDatamodel "github.com/frahmantamala/reimbursement-tracker/internal/core/datamodel/bill"
)

// BillRepository implements the bill.Repository interface using GORM
type BillRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) bill.Repository {
	return &BillRepository{db: db}
}

func (r *BillRepository) Create(b *bill.Bill) error {
	record := bill.ToDataModel(b)
	if err := r.db.Create(record).Error; err != nil {
		return err
	}
	b.ID = record.ID
	b.CreatedAt = record.CreatedAt
	b.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *BillRepository) GetByID(id int64) (*bill.Bill, error) {
	var record billDatamodel.Bill
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrBillNotFound
		}
		return nil, err
	}
	return bill.FromDataModel(&record), nil
}

func (r *BillRepository) ListAll() ([]*bill.Bill, error) {
	var records []*billDatamodel.Bill
	err := r.db.Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return bill.FromDataModelSlice(records), nil
}

func (r *BillRepository) ListByEmployee(employeeID int64) ([]*bill.Bill, error) {
	var records []*billDatamodel.Bill
	err := r.db.Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return bill.FromDataModelSlice(records), nil
}

// UpdateStatus is a compare-and-swap: the row is only written when its status
// still equals the expected prior value. Zero affected rows means a concurrent
// transition won.
func (r *BillRepository) UpdateStatus(id int64, from, to bill.Status) (bool, error) {
	res := r.db.Model(&billDatamodel.Bill{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BillRepository) SumAll() (decimal.Decimal, error) {
	return r.sum(r.db.Model(&billDatamodel.Bill{}))
}

func (r *BillRepository) SumByStatus(status bill.Status) (decimal.Decimal, error) {
	return r.sum(r.db.Model(&billDatamodel.Bill{}).Where("status = ?", string(status)))
}

func (r *BillRepository) SumByEmployee(employeeID int64) (decimal.Decimal, error) {
	return r.sum(r.db.Model(&billDatamodel.Bill{}).Where("employee_id = ?", employeeID))
}

func (r *BillRepository) SumByEmployeeAndStatus(employeeID int64, status bill.Status) (decimal.Decimal, error) {
	return r.sum(r.db.Model(&billDatamodel.Bill{}).
		Where("employee_id = ? AND status = ?", employeeID, string(status)))
}

func (r *BillRepository) sum(query *gorm.DB) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := query.Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// GetSubmitterName reads the employee's current name for the submitted_by
// snapshot taken at bill creation.
func (r *BillRepository) GetSubmitterName(employeeID int64) (string, error) {
	var firstName, lastName string
	row := r.db.Raw(`SELECT first_name, last_name FROM employees WHERE id = ?`, employeeID).Row()
	if err := row.Scan(&firstName, &lastName); err != nil {
		if err == sql.ErrNoRows {
			return "", internal.ErrEmployeeNotFound
		}
		return "", err
	}
	return firstName + " " + lastName, nil
}
