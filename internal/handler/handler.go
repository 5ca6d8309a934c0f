// Package handler содержит HTTP-обработчики API сервиса учёта займов.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avasquez/prestamos-system/internal/engine"
	"github.com/avasquez/prestamos-system/internal/middleware"
	"github.com/avasquez/prestamos-system/internal/model"
	"github.com/avasquez/prestamos-system/internal/repository"
	"github.com/avasquez/prestamos-system/internal/service"
	"github.com/avasquez/prestamos-system/internal/validation"
)

const dateLayout = "2006-01-02"

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterTenant(ctx context.Context, code string) error
	LoginTenant(ctx context.Context, code string) (bool, error)
	GenerateTenantCode(ctx context.Context) (string, error)
	ListTenantCodes(ctx context.Context) ([]model.Tenant, error)
	SetTenantBlocked(ctx context.Context, code string, blocked bool) error
	DeleteTenantCode(ctx context.Context, code string) error
	CreateLoan(ctx context.Context, tenantCode string, in model.LoanInput) (*model.EvaluatedLoan, error)
	GetLoan(ctx context.Context, tenantCode string, id uuid.UUID) (*model.EvaluatedLoan, error)
	ListLoans(ctx context.Context, tenantCode string) ([]model.EvaluatedLoan, error)
	UpdateLoan(ctx context.Context, tenantCode string, id uuid.UUID, in model.LoanInput) (*model.EvaluatedLoan, error)
	DeleteLoan(ctx context.Context, tenantCode string, id uuid.UUID) error
	RegisterPayment(ctx context.Context, tenantCode string, loanID uuid.UUID, amount decimal.Decimal, at time.Time) (*model.EvaluatedLoan, error)
	DeletePayment(ctx context.Context, tenantCode string, loanID, paymentID uuid.UUID) error
	RenewLoan(ctx context.Context, tenantCode string, loanID uuid.UUID, newTermUnits int) (*model.EvaluatedLoan, error)
	GetSummary(ctx context.Context, tenantCode string) (*model.PortfolioSummary, error)
	RecordExpense(ctx context.Context, tenantCode string, amount decimal.Decimal, reason string, at time.Time) (*model.Movement, error)
	DeleteMovement(ctx context.Context, tenantCode string, id uuid.UUID) error
	ListMovements(ctx context.Context, tenantCode string) ([]model.Movement, error)
}

// Handler реализует HTTP-обработчики API сервиса учёта займов.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

// respondError переводит доменные ошибки в HTTP-статусы. Внутренние ошибки
// логируются и наружу уходят без деталей.
func (h *Handler) respondError(w http.ResponseWriter, err error, msg string) {
	var status int
	switch {
	case errors.Is(err, validation.ErrInvalidLoan),
		errors.Is(err, validation.ErrInvalidTenantCode):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrTenantBlocked),
		errors.Is(err, service.ErrTenantUnassigned):
		status = http.StatusUnauthorized
	case errors.Is(err, engine.ErrOverpayment):
		status = http.StatusPaymentRequired
	case errors.Is(err, repository.ErrLoanNotFound),
		errors.Is(err, repository.ErrTenantNotFound),
		errors.Is(err, repository.ErrPaymentNotFound),
		errors.Is(err, repository.ErrMovementNotFound),
		errors.Is(err, engine.ErrPaymentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrLoanClosed),
		errors.Is(err, engine.ErrAlreadyRenewed),
		errors.Is(err, engine.ErrNothingToRenew),
		errors.Is(err, service.ErrTenantAssigned),
		errors.Is(err, repository.ErrTenantExists):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, engine.ErrInvalidTerm):
		status = http.StatusUnprocessableEntity
	default:
		h.logger.Error(msg, zap.Error(err))
		status = http.StatusInternalServerError
	}
	http.Error(w, http.StatusText(status), status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func identity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	ident, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	}
	return ident, ok
}

func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// ---------------------------------------------------------------- auth

type tenantCodeRequest struct {
	Code string `json:"code"`
}

// RegisterTenant занимает выданный код тенанта и устанавливает cookie.
func (h *Handler) RegisterTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.RegisterTenant(r.Context(), req.Code); err != nil {
		h.respondError(w, err, "register tenant error")
		return
	}

	h.authMiddleware.SetAuthCookie(w, req.Code, false)
	w.WriteHeader(http.StatusOK)
}

// LoginTenant выполняет вход по коду тенанта и установку cookie.
func (h *Handler) LoginTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	admin, err := h.service.LoginTenant(r.Context(), req.Code)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		h.respondError(w, err, "login tenant error")
		return
	}

	h.authMiddleware.SetAuthCookie(w, req.Code, admin)

	role := "tenant"
	if admin {
		role = "admin"
	}
	h.writeJSON(w, map[string]string{"role": role})
}

// ---------------------------------------------------------------- loans

type loanRequest struct {
	BorrowerName string          `json:"borrower_name"`
	Phone        string          `json:"phone"`
	Principal    decimal.Decimal `json:"principal"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	PenaltyRate  decimal.Decimal `json:"penalty_rate"`
	TermUnits    int             `json:"term_units"`
	Frequency    string          `json:"frequency"`
	StartDate    *string         `json:"start_date"`
	Method       string          `json:"method"`
	Notes        string          `json:"notes"`
}

func (req loanRequest) toInput() (model.LoanInput, error) {
	in := model.LoanInput{
		BorrowerName: req.BorrowerName,
		Phone:        req.Phone,
		Principal:    req.Principal,
		InterestRate: req.InterestRate,
		PenaltyRate:  req.PenaltyRate,
		TermUnits:    req.TermUnits,
		Frequency:    model.PaymentFrequency(req.Frequency),
		Method:       model.ScheduleMethod(req.Method),
		Notes:        req.Notes,
	}
	if req.StartDate != nil && *req.StartDate != "" {
		d, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return model.LoanInput{}, err
		}
		in.StartDate = &d
	}
	return in, nil
}

type paymentResponse struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	RecordedAt string          `json:"recorded_at"`
}

type loanResponse struct {
	ID           string            `json:"id"`
	BorrowerName string            `json:"borrower_name"`
	Phone        string            `json:"phone,omitempty"`
	Principal    decimal.Decimal   `json:"principal"`
	InterestRate decimal.Decimal   `json:"interest_rate"`
	PenaltyRate  decimal.Decimal   `json:"penalty_rate"`
	TermUnits    int               `json:"term_units"`
	Frequency    string            `json:"frequency"`
	StartDate    *string           `json:"start_date"`
	Method       string            `json:"method"`
	Notes        string            `json:"notes,omitempty"`
	Closed       bool              `json:"closed"`
	RenewalOf    *string           `json:"renewal_of,omitempty"`
	IsRenewal    bool              `json:"is_renewal"`
	Payments     []paymentResponse `json:"payments"`
	CreatedAt    string            `json:"created_at"`

	State             string          `json:"state"`
	DaysLate          int             `json:"days_late"`
	Installment       decimal.Decimal `json:"installment"`
	TotalDebt         decimal.Decimal `json:"total_debt"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	PenaltyAccrued    decimal.Decimal `json:"penalty_accrued"`
	Outstanding       decimal.Decimal `json:"outstanding"`
	InstallmentsPaid  int             `json:"installments_paid"`
	InstallmentsTotal int             `json:"installments_total"`
	DueDate           *string         `json:"due_date"`
	Complete          bool            `json:"complete"`
}

func toLoanResponse(el *model.EvaluatedLoan) loanResponse {
	loan := el.Loan
	ev := el.Evaluation

	resp := loanResponse{
		ID:           loan.ID.String(),
		BorrowerName: loan.BorrowerName,
		Phone:        loan.Phone,
		Principal:    engine.Round2(loan.Principal),
		InterestRate: loan.InterestRate,
		PenaltyRate:  loan.PenaltyRate,
		TermUnits:    loan.TermUnits,
		Frequency:    string(loan.Frequency),
		Method:       string(loan.Method),
		Notes:        loan.Notes,
		Closed:       loan.Closed,
		IsRenewal:    loan.IsRenewal,
		Payments:     make([]paymentResponse, 0, len(loan.Payments)),
		CreatedAt:    loan.CreatedAt.Format(time.RFC3339),

		State:             string(ev.State),
		DaysLate:          ev.DaysLate,
		Installment:       engine.Round2(ev.Installment),
		TotalDebt:         engine.Round2(ev.TotalDebt),
		TotalPaid:         engine.Round2(ev.TotalPaid),
		PenaltyAccrued:    engine.Round2(ev.PenaltyAccrued),
		Outstanding:       engine.Round2(ev.Outstanding),
		InstallmentsPaid:  ev.InstallmentsPaid,
		InstallmentsTotal: ev.InstallmentsTotal,
		Complete:          ev.Complete,
	}

	if loan.StartDate != nil {
		s := loan.StartDate.Format(dateLayout)
		resp.StartDate = &s
	}
	if loan.RenewalOf != nil {
		s := loan.RenewalOf.String()
		resp.RenewalOf = &s
	}
	if ev.DueDate != nil {
		s := ev.DueDate.Format(dateLayout)
		resp.DueDate = &s
	}

	for _, p := range loan.Payments {
		resp.Payments = append(resp.Payments, paymentResponse{
			ID:         p.ID.String(),
			Amount:     engine.Round2(p.Amount),
			RecordedAt: p.RecordedAt.Format(time.RFC3339),
		})
	}

	return resp
}

// CreateLoan создаёт новый займ текущего тенанта.
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	in, err := req.toInput()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	res, err := h.service.CreateLoan(r.Context(), ident.TenantCode, in)
	if err != nil {
		h.respondError(w, err, "create loan error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toLoanResponse(res))
}

// GetLoans возвращает займы текущего тенанта с оценкой каждого.
func (h *Handler) GetLoans(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	loans, err := h.service.ListLoans(r.Context(), ident.TenantCode)
	if err != nil {
		h.respondError(w, err, "list loans error")
		return
	}

	resp := make([]loanResponse, 0, len(loans))
	for i := range loans {
		resp = append(resp, toLoanResponse(&loans[i]))
	}
	h.writeJSON(w, resp)
}

// GetLoan возвращает один займ с оценкой.
func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "loanID")
	if !ok {
		return
	}

	res, err := h.service.GetLoan(r.Context(), ident.TenantCode, id)
	if err != nil {
		h.respondError(w, err, "get loan error")
		return
	}
	h.writeJSON(w, toLoanResponse(res))
}

// UpdateLoan редактирует поля займа.
func (h *Handler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "loanID")
	if !ok {
		return
	}

	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	in, err := req.toInput()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	res, err := h.service.UpdateLoan(r.Context(), ident.TenantCode, id, in)
	if err != nil {
		h.respondError(w, err, "update loan error")
		return
	}
	h.writeJSON(w, toLoanResponse(res))
}

// DeleteLoan удаляет займ тенанта.
func (h *Handler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "loanID")
	if !ok {
		return
	}

	if err := h.service.DeleteLoan(r.Context(), ident.TenantCode, id); err != nil {
		h.respondError(w, err, "delete loan error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------- payments

type paymentRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	RecordedAt *string         `json:"recorded_at"`
}

// RegisterPayment принимает платёж по займу.
func (h *Handler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "loanID")
	if !ok {
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	at := time.Now()
	if req.RecordedAt != nil && *req.RecordedAt != "" {
		parsed, err := time.Parse(time.RFC3339, *req.RecordedAt)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		at = parsed
	}

	res, err := h.service.RegisterPayment(r.Context(), ident.TenantCode, id, req.Amount, at)
	if err != nil {
		h.respondError(w, err, "register payment error")
		return
	}
	h.writeJSON(w, toLoanResponse(res))
}

// DeletePayment удаляет платёж вместе со связанным движением средств.
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	loanID, ok := pathUUID(w, r, "loanID")
	if !ok {
		return
	}
	paymentID, ok := pathUUID(w, r, "paymentID")
	if !ok {
		return
	}

	if err := h.service.DeletePayment(r.Context(), ident.TenantCode, loanID, paymentID); err != nil {
		h.respondError(w, err, "delete payment error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------- renewal

type renewRequest struct {
	TermUnits int `json:"term_units"`
}

// RenewLoan закрывает займ и открывает преемника на остаток долга.
func (h *Handler) RenewLoan(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "loanID")
	if !ok {
		return
	}

	var req renewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	res, err := h.service.RenewLoan(r.Context(), ident.TenantCode, id, req.TermUnits)
	if err != nil {
		h.respondError(w, err, "renew loan error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toLoanResponse(res))
}

// ---------------------------------------------------------------- summary

type summaryResponse struct {
	ActivePrincipal decimal.Decimal `json:"active_principal"`
	CollectedToday  decimal.Decimal `json:"collected_today"`
	PenaltyTotal    decimal.Decimal `json:"penalty_total"`
	TotalReceivable decimal.Decimal `json:"total_receivable"`
	ActiveCount     int             `json:"active_count"`
}

// GetSummary возвращает сводку портфеля текущего тенанта.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	sum, err := h.service.GetSummary(r.Context(), ident.TenantCode)
	if err != nil {
		h.respondError(w, err, "get summary error")
		return
	}

	h.writeJSON(w, summaryResponse{
		ActivePrincipal: engine.Round2(sum.ActivePrincipal),
		CollectedToday:  engine.Round2(sum.CollectedToday),
		PenaltyTotal:    engine.Round2(sum.PenaltyTotal),
		TotalReceivable: engine.Round2(sum.TotalReceivable),
		ActiveCount:     sum.ActiveCount,
	})
}

// ---------------------------------------------------------------- movements

type movementRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	RecordedAt *string         `json:"recorded_at"`
}

type movementResponse struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	LoanID     *string         `json:"loan_id,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	RecordedAt string          `json:"recorded_at"`
}

func toMovementResponse(m *model.Movement) movementResponse {
	resp := movementResponse{
		ID:         m.ID.String(),
		Kind:       string(m.Kind),
		Amount:     engine.Round2(m.Amount),
		Reason:     m.Reason,
		RecordedAt: m.RecordedAt.Format(time.RFC3339),
	}
	if m.LoanID != nil {
		s := m.LoanID.String()
		resp.LoanID = &s
	}
	return resp
}

// RecordExpense записывает расход из кассы тенанта.
func (h *Handler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	var req movementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	at := time.Now()
	if req.RecordedAt != nil && *req.RecordedAt != "" {
		parsed, err := time.Parse(time.RFC3339, *req.RecordedAt)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		at = parsed
	}

	m, err := h.service.RecordExpense(r.Context(), ident.TenantCode, req.Amount, req.Reason, at)
	if err != nil {
		h.respondError(w, err, "record expense error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toMovementResponse(m))
}

// DeleteMovement удаляет расходную запись из кассовой книги.
func (h *Handler) DeleteMovement(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "movementID")
	if !ok {
		return
	}

	if err := h.service.DeleteMovement(r.Context(), ident.TenantCode, id); err != nil {
		h.respondError(w, err, "delete movement error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMovements возвращает кассовую книгу текущего тенанта.
func (h *Handler) GetMovements(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	movements, err := h.service.ListMovements(r.Context(), ident.TenantCode)
	if err != nil {
		h.respondError(w, err, "list movements error")
		return
	}

	resp := make([]movementResponse, 0, len(movements))
	for i := range movements {
		resp = append(resp, toMovementResponse(&movements[i]))
	}
	h.writeJSON(w, resp)
}

// ---------------------------------------------------------------- admin

type tenantResponse struct {
	Code      string `json:"code"`
	Assigned  bool   `json:"assigned"`
	Blocked   bool   `json:"blocked"`
	CreatedAt string `json:"created_at"`
}

// CreateTenantCode генерирует новый код тенанта.
func (h *Handler) CreateTenantCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.service.GenerateTenantCode(r.Context())
	if err != nil {
		h.respondError(w, err, "generate tenant code error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": code})
}

// GetTenantCodes возвращает все коды тенантов.
func (h *Handler) GetTenantCodes(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.service.ListTenantCodes(r.Context())
	if err != nil {
		h.respondError(w, err, "list tenant codes error")
		return
	}

	resp := make([]tenantResponse, 0, len(tenants))
	for _, t := range tenants {
		resp = append(resp, tenantResponse{
			Code:      t.Code,
			Assigned:  t.Assigned,
			Blocked:   t.Blocked,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
		})
	}
	h.writeJSON(w, resp)
}

type blockRequest struct {
	Blocked bool `json:"blocked"`
}

// BlockTenantCode блокирует или разблокирует код тенанта.
func (h *Handler) BlockTenantCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.SetTenantBlocked(r.Context(), code, req.Blocked); err != nil {
		h.respondError(w, err, "block tenant code error")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteTenantCode удаляет код тенанта вместе со всеми его данными.
func (h *Handler) DeleteTenantCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.service.DeleteTenantCode(r.Context(), code); err != nil {
		h.respondError(w, err, "delete tenant code error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
