package bill

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/reimbursement-tracker/internal"
	"github.com/frahmantamala/reimbursement-tracker/internal/auth"
	"github.com/frahmantamala/reimbursement-tracker/internal/core/events"
)

// Repository defines the data access methods for bills. UpdateStatus is a
// compare-and-swap: it only writes when the stored status still matches the
// expected one, and reports whether the swap happened.
type Repository interface {
	Create(b *Bill) error
	GetByID(id int64) (*Bill, error)
	ListAll() ([]*Bill, error)
	ListByEmployee(employeeID int64) ([]*Bill, error)
	UpdateStatus(id int64, from, to Status) (swapped bool, err error)
	SumAll() (decimal.Decimal, error)
	SumByStatus(status Status) (decimal.Decimal, error)
	SumByEmployee(employeeID int64) (decimal.Decimal, error)
	SumByEmployeeAndStatus(employeeID int64, status Status) (decimal.Decimal, error)
	GetSubmitterName(employeeID int64) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service is the bill lifecycle engine: creation, the four admin transitions,
// and role-scoped listing with totals.
type Service struct {
	repo   Repository
	bus    EventPublisher
	logger *slog.Logger
}

func NewService(repo Repository, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// CreateBill submits a bill on behalf of the principal's linked employee.
// Status is forced to pending and submitted_by is snapshotted from the
// employee's current full name.
func (s *Service) CreateBill(p *auth.Principal, dto CreateBillDTO) (*Bill, error) {
	if err := auth.RequireEmployee(p); err != nil {
		s.logger.Warn("create bill denied", "user_id", principalID(p), "error", err)
		return nil, err
	}
	if p.EmployeeID == nil {
		s.logger.Warn("create bill denied: principal has no linked employee", "user_id", p.UserID)
		return nil, internal.ErrNoLinkedEmployee
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("bill validation failed", "error", err, "user_id", p.UserID)
		return nil, err
	}

	submittedBy, err := s.repo.GetSubmitterName(*p.EmployeeID)
	if err != nil {
		s.logger.Error("failed to resolve submitter", "error", err, "employee_id", *p.EmployeeID)
		return nil, internal.ErrEmployeeNotFound
	}

	b := NewBill(*p.EmployeeID, submittedBy, dto.Amount, Type(dto.BillType))
	if err := s.repo.Create(b); err != nil {
		s.logger.Error("failed to create bill", "error", err, "employee_id", *p.EmployeeID)
		return nil, err
	}

	s.publish(events.NewBillEvent(events.EventTypeBillSubmitted, b.ID, b.EmployeeID, p.UserID, b.Amount, "", string(StatusPending)))

	s.logger.Info("bill created",
		"bill_id", b.ID,
		"employee_id", b.EmployeeID,
		"amount", b.Amount,
		"bill_type", b.BillType)

	return b, nil
}

// GetBill retrieves a bill, restricted to admins and the owning employee.
func (s *Service) GetBill(p *auth.Principal, billID int64) (*Bill, error) {
	b, err := s.repo.GetByID(billID)
	if err != nil {
		return nil, internal.ErrBillNotFound
	}

	if err := auth.RequireOwner(p, b.EmployeeID); err != nil {
		s.logger.Warn("bill access denied", "bill_id", billID, "user_id", principalID(p))
		return nil, err
	}

	return b, nil
}

// ListBills returns the bills visible to the principal with matching totals:
// everything for admins, only owned bills for employees. A principal without a
// linked employee sees an empty list and zero totals.
func (s *Service) ListBills(p *auth.Principal) (*BillList, error) {
	if p == nil {
		return nil, internal.ErrAdminOnly
	}

	if p.IsAdmin() {
		bills, err := s.repo.ListAll()
		if err != nil {
			s.logger.Error("failed to list bills", "error", err)
			return nil, err
		}
		totalSubmitted, err := s.repo.SumAll()
		if err != nil {
			return nil, err
		}
		totalApproved, err := s.repo.SumByStatus(StatusApproved)
		if err != nil {
			return nil, err
		}
		return &BillList{Bills: bills, TotalSubmitted: totalSubmitted, TotalApproved: totalApproved}, nil
	}

	if p.EmployeeID == nil {
		return &BillList{Bills: []*Bill{}, TotalSubmitted: decimal.Zero, TotalApproved: decimal.Zero}, nil
	}

	bills, err := s.repo.ListByEmployee(*p.EmployeeID)
	if err != nil {
		s.logger.Error("failed to list employee bills", "error", err, "employee_id", *p.EmployeeID)
		return nil, err
	}
	totalSubmitted, err := s.repo.SumByEmployee(*p.EmployeeID)
	if err != nil {
		return nil, err
	}
	totalApproved, err := s.repo.SumByEmployeeAndStatus(*p.EmployeeID, StatusApproved)
	if err != nil {
		return nil, err
	}
	return &BillList{Bills: bills, TotalSubmitted: totalSubmitted, TotalApproved: totalApproved}, nil
}

func (s *Service) ApproveBill(p *auth.Principal, billID int64) error {
	return s.transition(p, billID, StatusPending, StatusApproved, "approve", events.EventTypeBillApproved)
}

func (s *Service) RejectBill(p *auth.Principal, billID int64) error {
	return s.transition(p, billID, StatusPending, StatusRejected, "reject", events.EventTypeBillRejected)
}

func (s *Service) RevokeApproval(p *auth.Principal, billID int64) error {
	return s.transition(p, billID, StatusApproved, StatusPending, "revoke approval of", events.EventTypeBillRevoked)
}

func (s *Service) RevokeRejection(p *auth.Principal, billID int64) error {
	return s.transition(p, billID, StatusRejected, StatusPending, "revoke rejection of", events.EventTypeBillRevoked)
}

// transition performs a single admin-gated status change. The precondition is
// checked against the value read at the start, then re-enforced by the
// compare-and-swap at the storage layer, so concurrent admin actions on the
// same bill cannot produce a lost update.
func (s *Service) transition(p *auth.Principal, billID int64, from, to Status, operation, eventType string) error {
	if err := auth.RequireAdmin(p); err != nil {
		s.logger.Warn("bill transition denied", "bill_id", billID, "operation", operation, "user_id", principalID(p))
		return err
	}

	b, err := s.repo.GetByID(billID)
	if err != nil {
		s.logger.Error("bill not found for transition", "error", err, "bill_id", billID)
		return internal.ErrBillNotFound
	}

	if b.Status != from {
		s.logger.Warn("bill transition blocked",
			"bill_id", billID,
			"operation", operation,
			"current_status", b.Status)
		return internal.NewInvalidTransitionError(operation, string(b.Status))
	}

	swapped, err := s.repo.UpdateStatus(billID, from, to)
	if err != nil {
		s.logger.Error("failed to update bill status", "error", err, "bill_id", billID)
		return err
	}
	if !swapped {
		// Lost the race against a concurrent transition; report the status
		// now stored.
		current, rerr := s.repo.GetByID(billID)
		if rerr != nil {
			return internal.ErrBillNotFound
		}
		s.logger.Warn("bill transition lost compare-and-swap",
			"bill_id", billID,
			"operation", operation,
			"current_status", current.Status)
		return internal.NewInvalidTransitionError(operation, string(current.Status))
	}

	s.publish(events.NewBillEvent(eventType, b.ID, b.EmployeeID, p.UserID, b.Amount, string(from), string(to)))

	s.logger.Info("bill transitioned",
		"bill_id", billID,
		"from", from,
		"to", to,
		"admin_id", p.UserID)

	return nil
}

// TotalSubmitted is the sum over all bills in the store.
func (s *Service) TotalSubmitted() (decimal.Decimal, error) {
	return s.repo.SumAll()
}

// TotalApproved is the sum over all approved bills.
func (s *Service) TotalApproved() (decimal.Decimal, error) {
	return s.repo.SumByStatus(StatusApproved)
}

// TotalBillsAmount sums every bill owned by the employee.
func (s *Service) TotalBillsAmount(employeeID int64) (decimal.Decimal, error) {
	return s.repo.SumByEmployee(employeeID)
}

// TotalApprovedAmount sums the employee's approved bills.
func (s *Service) TotalApprovedAmount(employeeID int64) (decimal.Decimal, error) {
	return s.repo.SumByEmployeeAndStatus(employeeID, StatusApproved)
}

func (s *Service) publish(event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish bill event", "error", err, "event_type", event.EventType())
	}
}

func principalID(p *auth.Principal) int64 {
	if p == nil {
		return 0
	}
	return p.UserID
}
