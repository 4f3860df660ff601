package employee

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/reimbursement-tracker/internal"
	"github.com/frahmantamala/reimbursement-tracker/internal/auth"
	userDatamodel "github.com/frahmantamala/reimbursement-tracker/internal/core/datamodel/user"
)

// ProvisionedUser carries the fields of a user row created alongside an
// employee. The password hash is the bcrypt of a one-time credential; the
// plaintext never reaches the repository.
type ProvisionedUser struct {
	Name         string
	Email        string
	Role         string
	PasswordHash string
}

// LinkedUser is the provisioning view of an existing user: its id and the
// employee it is linked to, if any.
type LinkedUser struct {
	ID         int64
	EmployeeID *int64
}

// Repository defines the data access methods for employees. Create inserts
// the employee and, when newUser is non-nil, the provisioned user row in one
// transaction; any failure rolls the whole unit back. DeleteWithBills removes
// the employee's bills and then the employee inside one transaction.
type Repository interface {
	Create(e *Employee, newUser *ProvisionedUser) error
	GetByID(id int64) (*Employee, error)
	GetByEmail(email string) (*Employee, error)
	List() ([]*Employee, error)
	Update(e *Employee) error
	DeleteWithBills(id int64) error
	LinkUser(employeeID, userID int64) error
	CreateLinkedUser(employeeID int64, u *ProvisionedUser) (int64, error)
	FindUserByEmail(email string) (*LinkedUser, error)
	DepartmentExists(id int64) (bool, error)
}

// BillAggregator exposes the per-employee sum queries from the bill store.
type BillAggregator interface {
	TotalBillsAmount(employeeID int64) (decimal.Decimal, error)
	TotalApprovedAmount(employeeID int64) (decimal.Decimal, error)
}

type Service struct {
	repo       Repository
	bills      BillAggregator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bills BillAggregator, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bills:      bills,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// CreateEmployee creates an employee and resolves its user link in one
// logical unit. When no user with the employee's email exists, one is
// provisioned with a generated one-time credential that is returned exactly
// once. When the email belongs to a user already linked elsewhere, nothing is
// written.
func (s *Service) CreateEmployee(p *auth.Principal, dto CreateEmployeeDTO) (*CreatedEmployee, error) {
	if err := auth.RequireAdmin(p); err != nil {
		s.logger.Warn("create employee denied", "user_id", userID(p))
		return nil, err
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.DepartmentExists(dto.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrDepartmentNotFound
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.NewValidationFieldError("email", "employee email already exists", internal.ErrCodeDuplicateEmail)
	}

	e := &Employee{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		Designation:  dto.Designation,
		DepartmentID: dto.DepartmentID,
	}

	var newUser *ProvisionedUser
	var credential string

	linked, err := s.repo.FindUserByEmail(dto.Email)
	switch {
	case err == internal.ErrUserNotFound:
		credential, err = auth.GenerateOneTimeCredential()
		if err != nil {
			return nil, internal.NewInternalError("failed to generate credential", err)
		}
		hash, err := auth.HashPassword(credential, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash credential", err)
		}
		newUser = &ProvisionedUser{
			Name:         e.FullName(),
			Email:        e.Email,
			Role:         userDatamodel.RoleEmployee,
			PasswordHash: hash,
		}
	case err != nil:
		return nil, err
	case linked.EmployeeID != nil:
		s.logger.Warn("employee creation conflicts with linked user", "email", dto.Email, "user_id", linked.ID)
		return nil, internal.ErrUserAlreadyLinked
	default:
		e.UserID = &linked.ID
	}

	if err := s.repo.Create(e, newUser); err != nil {
		s.logger.Error("failed to create employee", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("employee created",
		"employee_id", e.ID,
		"department_id", e.DepartmentID,
		"provisioned_user", newUser != nil)

	return &CreatedEmployee{Employee: e, OneTimeCredential: credential}, nil
}

// GetEmployee returns the record for admins and for the employee themself.
func (s *Service) GetEmployee(p *auth.Principal, id int64) (*Employee, error) {
	if err := auth.RequireOwner(p, id); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return e, nil
}

func (s *Service) ListEmployees(p *auth.Principal) ([]*Employee, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}

	employees, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, err
	}
	return employees, nil
}

// UpdateEmployee edits an employee. Bill submitted_by snapshots are never
// rewritten, so a rename does not touch already submitted bills.
func (s *Service) UpdateEmployee(p *auth.Principal, id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrEmployeeNotFound
	}

	exists, err := s.repo.DepartmentExists(dto.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrDepartmentNotFound
	}

	if other, err := s.repo.GetByEmail(dto.Email); err == nil && other != nil && other.ID != id {
		return nil, internal.NewValidationFieldError("email", "employee email already exists", internal.ErrCodeDuplicateEmail)
	}

	e.FirstName = dto.FirstName
	e.LastName = dto.LastName
	e.Email = dto.Email
	e.Designation = dto.Designation
	e.DepartmentID = dto.DepartmentID

	if err := s.repo.Update(e); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, err
	}

	return e, nil
}

// DeleteEmployee removes the employee and its bills as one ordered unit:
// bills first, then the employee. The linked user survives.
func (s *Service) DeleteEmployee(p *auth.Principal, id int64) error {
	if err := auth.RequireAdmin(p); err != nil {
		s.logger.Warn("delete employee denied", "employee_id", id, "user_id", userID(p))
		return err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrEmployeeNotFound
	}

	if err := s.repo.DeleteWithBills(id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return err
	}

	s.logger.Info("employee deleted with owned bills", "employee_id", id, "admin_id", p.UserID)
	return nil
}

// ProvisionUser resolves the user link for an employee that lacks one:
// reuse an unlinked user with a matching email, refuse when that user is
// linked elsewhere, or create a fresh user with a one-time credential.
func (s *Service) ProvisionUser(p *auth.Principal, employeeID int64) (*ProvisionOutcome, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(employeeID)
	if err != nil {
		return nil, internal.ErrEmployeeNotFound
	}

	if e.UserID != nil {
		return &ProvisionOutcome{UserID: *e.UserID}, nil
	}

	linked, err := s.repo.FindUserByEmail(e.Email)
	switch {
	case err == internal.ErrUserNotFound:
		credential, err := auth.GenerateOneTimeCredential()
		if err != nil {
			return nil, internal.NewInternalError("failed to generate credential", err)
		}
		hash, err := auth.HashPassword(credential, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash credential", err)
		}
		newUserID, err := s.repo.CreateLinkedUser(employeeID, &ProvisionedUser{
			Name:         e.FullName(),
			Email:        e.Email,
			Role:         userDatamodel.RoleEmployee,
			PasswordHash: hash,
		})
		if err != nil {
			s.logger.Error("failed to provision user", "error", err, "employee_id", employeeID)
			return nil, err
		}
		s.logger.Info("user provisioned for employee", "employee_id", employeeID, "user_id", newUserID)
		return &ProvisionOutcome{UserID: newUserID, Created: true, OneTimeCredential: credential}, nil
	case err != nil:
		return nil, err
	case linked.EmployeeID != nil && *linked.EmployeeID != employeeID:
		s.logger.Warn("provisioning conflict", "employee_id", employeeID, "user_id", linked.ID)
		return nil, internal.ErrUserAlreadyLinked
	default:
		if err := s.repo.LinkUser(employeeID, linked.ID); err != nil {
			s.logger.Error("failed to link user", "error", err, "employee_id", employeeID, "user_id", linked.ID)
			return nil, err
		}
		return &ProvisionOutcome{UserID: linked.ID}, nil
	}
}

// Totals returns the employee's bill aggregates. Admins and the employee
// themself may read them.
func (s *Service) Totals(p *auth.Principal, employeeID int64) (*EmployeeTotals, error) {
	if err := auth.RequireOwner(p, employeeID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(employeeID); err != nil {
		return nil, internal.ErrEmployeeNotFound
	}

	total, err := s.bills.TotalBillsAmount(employeeID)
	if err != nil {
		return nil, err
	}
	approved, err := s.bills.TotalApprovedAmount(employeeID)
	if err != nil {
		return nil, err
	}

	return &EmployeeTotals{
		EmployeeID:          employeeID,
		TotalBillsAmount:    total,
		TotalApprovedAmount: approved,
	}, nil
}

func userID(p *auth.Principal) int64 {
	if p == nil {
		return 0
	}
	return p.UserID
}
