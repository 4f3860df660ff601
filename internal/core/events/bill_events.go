package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeBillSubmitted = "bill.submitted"
	EventTypeBillApproved  = "bill.approved"
	EventTypeBillRejected  = "bill.rejected"
	EventTypeBillRevoked   = "bill.revoked"
)

type BillEvent struct {
	BaseEvent
	BillID     int64           `json:"bill_id"`
	EmployeeID int64           `json:"employee_id"`
	ActorID    int64           `json:"actor_id"`
	Amount     decimal.Decimal `json:"amount"`
	FromStatus string          `json:"from_status"`
	ToStatus   string          `json:"to_status"`
}

func NewBillEvent(eventType string, billID, employeeID, actorID int64, amount decimal.Decimal, fromStatus, toStatus string) *BillEvent {
	return &BillEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"bill_id":     billID,
				"employee_id": employeeID,
				"actor_id":    actorID,
				"amount":      amount.String(),
				"from_status": fromStatus,
				"to_status":   toStatus,
			},
		},
		BillID:     billID,
		EmployeeID: employeeID,
		ActorID:    actorID,
		Amount:     amount,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
	}
}
