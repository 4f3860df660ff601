package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/reimbursement-tracker/internal"
	billDatamodel "github.com/frahmantamala/reimbursement-tracker/internal/core/datamodel/bill"
	departmentDatamodel "github.com/frahmantamala/reimbursement-tracker/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/reimbursement-tracker/internal/core/datamodel/employee"
	userDatamodel "github.com/frahmantamala/reimbursement-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/reimbursement-tracker/internal/employee"
)

// EmployeeRepository implements the employee.Repository interface using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

// Create inserts the employee and, when newUser is set, its provisioned user
// in one transaction. The user row goes first so the employee can reference
// its id. The unique index on employees.user_id rejects a concurrent link to
// the same user.
func (r *EmployeeRepository) Create(e *employee.Employee, newUser *employee.ProvisionedUser) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if newUser != nil {
			u := &userDatamodel.User{
				Name:         newUser.Name,
				Email:        newUser.Email,
				Role:         newUser.Role,
				PasswordHash: newUser.PasswordHash,
			}
			if err := tx.Create(u).Error; err != nil {
				return err
			}
			e.UserID = &u.ID
		}

		record := employee.ToDataModel(e)
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		e.ID = record.ID
		e.CreatedAt = record.CreatedAt
		e.UpdatedAt = record.UpdatedAt
		return nil
	})
}

func (r *EmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	var record employeeDatamodel.Employee
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&record), nil
}

func (r *EmployeeRepository) GetByEmail(email string) (*employee.Employee, error) {
	var record employeeDatamodel.Employee
	err := r.db.Where("email = ?", email).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return employee.FromDataModel(&record), nil
}

func (r *EmployeeRepository) List() ([]*employee.Employee, error) {
	var records []*employeeDatamodel.Employee
	err := r.db.Order("last_name ASC, first_name ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(records), nil
}

func (r *EmployeeRepository) Update(e *employee.Employee) error {
	e.UpdatedAt = time.Now()
	return r.db.Save(employee.ToDataModel(e)).Error
}

// DeleteWithBills removes the employee's bills and then the employee, in that
// order, inside one transaction. The linked user row is left untouched.
func (r *EmployeeRepository) DeleteWithBills(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).
			Delete(&billDatamodel.Bill{}).Error; err != nil {
			return err
		}
		return tx.Delete(&employeeDatamodel.Employee{}, id).Error
	})
}

func (r *EmployeeRepository) LinkUser(employeeID, userID int64) error {
	return r.db.Model(&employeeDatamodel.Employee{}).
		Where("id = ?", employeeID).
		Updates(map[string]interface{}{
			"user_id":    userID,
			"updated_at": time.Now(),
		}).Error
}

// CreateLinkedUser inserts a user and links the employee to it in one
// transaction.
func (r *EmployeeRepository) CreateLinkedUser(employeeID int64, pu *employee.ProvisionedUser) (int64, error) {
	var userID int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		u := &userDatamodel.User{
			Name:         pu.Name,
			Email:        pu.Email,
			Role:         pu.Role,
			PasswordHash: pu.PasswordHash,
		}
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		userID = u.ID
		return tx.Model(&employeeDatamodel.Employee{}).
			Where("id = ?", employeeID).
			Updates(map[string]interface{}{
				"user_id":    u.ID,
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// FindUserByEmail looks up a user by email and reports which employee, if
// any, it is linked to.
func (r *EmployeeRepository) FindUserByEmail(email string) (*employee.LinkedUser, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}

	linked := &employee.LinkedUser{ID: u.ID}

	var e employeeDatamodel.Employee
	err = r.db.Where("user_id = ?", u.ID).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return linked, nil
		}
		return nil, err
	}
	linked.EmployeeID = &e.ID
	return linked, nil
}

func (r *EmployeeRepository) DepartmentExists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&departmentDatamodel.Department{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
