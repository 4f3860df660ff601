package bill

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/reimbursement-tracker/internal/auth"
	"github.com/frahmantamala/reimbursement-tracker/internal/transport"
	"github.com/frahmantamala/reimbursement-tracker/pkg/logger"
)

type ServiceAPI interface {
	CreateBill(p *auth.Principal, dto CreateBillDTO) (*Bill, error)
	GetBill(p *auth.Principal, billID int64) (*Bill, error)
	ListBills(p *auth.Principal) (*BillList, error)
	ApproveBill(p *auth.Principal, billID int64) error
	RejectBill(p *auth.Principal, billID int64) error
	RevokeApproval(p *auth.Principal, billID int64) error
	RevokeRejection(p *auth.Principal, billID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateBillDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateBill: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.CreateBill(principal, dto)
	if err != nil {
		h.Logger.Error("CreateBill: service error", "error", err, "user_id", principal.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	billID, err := h.billIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid bill ID")
		return
	}

	b, err := h.Service.GetBill(principal, billID)
	if err != nil {
		h.Logger.Error("GetBill: service error", "error", err, "bill_id", billID, "user_id", principal.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.Service.ListBills(principal)
	if err != nil {
		h.Logger.Error("ListBills: service error", "error", err, "user_id", principal.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) ApproveBill(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, "approved", h.Service.ApproveBill)
}

func (h *Handler) RejectBill(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, "rejected", h.Service.RejectBill)
}

func (h *Handler) RevokeApproval(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, "pending", h.Service.RevokeApproval)
}

func (h *Handler) RevokeRejection(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, "pending", h.Service.RevokeRejection)
}

func (h *Handler) runTransition(w http.ResponseWriter, r *http.Request, resultStatus string, op func(*auth.Principal, int64) error) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	billID, err := h.billIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid bill ID")
		return
	}

	if err := op(principal, billID); err != nil {
		h.Logger.Error("bill transition failed", "error", err, "bill_id", billID, "user_id", principal.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": resultStatus})
}

func (h *Handler) billIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
