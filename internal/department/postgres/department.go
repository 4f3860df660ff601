package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/reimbursement-tracker/internal"
	departmentDatamodel "github.com/frahmantamala/reimbursement-tracker/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/reimbursement-tracker/internal/core/datamodel/employee"
	"github.com/frahmantamala/reimbursement-tracker/internal/department"
)

// DepartmentRepository implements the department.Repository interface using GORM
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.Repository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(d *department.Department) error {
	record := department.ToDataModel(d)
	if err := r.db.Create(record).Error; err != nil {
		return err
	}
	d.ID = record.ID
	d.CreatedAt = record.CreatedAt
	d.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *DepartmentRepository) GetByID(id int64) (*department.Department, error) {
	var record departmentDatamodel.Department
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrDepartmentNotFound
		}
		return nil, err
	}
	return department.FromDataModel(&record), nil
}

func (r *DepartmentRepository) GetByName(name string) (*department.Department, error) {
	var record departmentDatamodel.Department
	err := r.db.Where("name = ?", name).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return department.FromDataModel(&record), nil
}

func (r *DepartmentRepository) List() ([]*department.Department, error) {
	var records []*departmentDatamodel.Department
	err := r.db.Order("name ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return department.FromDataModelSlice(records), nil
}

func (r *DepartmentRepository) Update(d *department.Department) error {
	d.UpdatedAt = time.Now()
	return r.db.Save(department.ToDataModel(d)).Error
}

// DeleteIfEmpty deletes the department only when it owns no employees. The
// count and the delete run in one transaction so an employee inserted in
// between cannot be orphaned.
func (r *DepartmentRepository) DeleteIfEmpty(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&employeeDatamodel.Employee{}).
			Where("department_id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return internal.ErrDepartmentNotEmpty
		}
		return tx.Delete(&departmentDatamodel.Department{}, id).Error
	})
}
