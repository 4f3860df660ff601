package department

import (
	"log/slog"

	"github.com/frahmantamala/reimbursement-tracker/internal"
	"github.com/frahmantamala/reimbursement-tracker/internal/auth"
)

// Repository defines the data access methods for departments. DeleteIfEmpty
// enforces the no-employees guard inside the same transaction as the delete.
type Repository interface {
	Create(d *Department) error
	GetByID(id int64) (*Department, error)
	GetByName(name string) (*Department, error)
	List() ([]*Department, error)
	Update(d *Department) error
	DeleteIfEmpty(id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateDepartment creates a department with a unique, non-empty name. Admin only.
func (s *Service) CreateDepartment(p *auth.Principal, dto CreateDepartmentDTO) (*Department, error) {
	if err := auth.RequireAdmin(p); err != nil {
		s.logger.Warn("create department denied", "user_id", userID(p))
		return nil, err
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByName(dto.Name); err == nil && existing != nil {
		return nil, internal.NewValidationFieldError("name", "department name already exists", internal.ErrCodeDuplicateName)
	}

	d := NewDepartment(dto.Name)
	if err := s.repo.Create(d); err != nil {
		s.logger.Error("failed to create department", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("department created", "department_id", d.ID, "name", d.Name)
	return d, nil
}

func (s *Service) GetDepartment(id int64) (*Department, error) {
	d, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrDepartmentNotFound
	}
	return d, nil
}

func (s *Service) ListDepartments() ([]*Department, error) {
	departments, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, err
	}
	return departments, nil
}

// UpdateDepartment renames a department. Admin only.
func (s *Service) UpdateDepartment(p *auth.Principal, id int64, dto UpdateDepartmentDTO) (*Department, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrDepartmentNotFound
	}

	if existing, err := s.repo.GetByName(dto.Name); err == nil && existing != nil && existing.ID != id {
		return nil, internal.NewValidationFieldError("name", "department name already exists", internal.ErrCodeDuplicateName)
	}

	d.Name = dto.Name
	if err := s.repo.Update(d); err != nil {
		s.logger.Error("failed to update department", "error", err, "department_id", id)
		return nil, err
	}

	return d, nil
}

// DeleteDepartment removes an employee-less department. A department that
// still owns employees is left untouched and the caller gets a conflict.
func (s *Service) DeleteDepartment(p *auth.Principal, id int64) error {
	if err := auth.RequireAdmin(p); err != nil {
		s.logger.Warn("delete department denied", "department_id", id, "user_id", userID(p))
		return err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrDepartmentNotFound
	}

	if err := s.repo.DeleteIfEmpty(id); err != nil {
		s.logger.Warn("delete department failed", "error", err, "department_id", id)
		return err
	}

	s.logger.Info("department deleted", "department_id", id, "admin_id", p.UserID)
	return nil
}

func userID(p *auth.Principal) int64 {
	if p == nil {
		return 0
	}
	return p.UserID
}
