// Package service реализует бизнес-логику сервиса учёта займов.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avasquez/prestamos-system/internal/engine"
	"github.com/avasquez/prestamos-system/internal/model"
	"github.com/avasquez/prestamos-system/internal/notify"
	"github.com/avasquez/prestamos-system/internal/repository"
	"github.com/avasquez/prestamos-system/internal/validation"
)

var (
	// ErrTenantBlocked возвращается при входе по заблокированному коду.
	ErrTenantBlocked = errors.New("tenant code is blocked")
	// ErrTenantAssigned возвращается при попытке занять уже выданный код.
	ErrTenantAssigned = errors.New("tenant code already assigned")
	// ErrTenantUnassigned возвращается при входе по ещё не занятому коду.
	ErrTenantUnassigned = errors.New("tenant code is not assigned yet")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	CreateTenant(ctx context.Context, code string) error
	GetTenant(ctx context.Context, code string) (*model.Tenant, error)
	ListTenants(ctx context.Context) ([]model.Tenant, error)
	MarkTenantAssigned(ctx context.Context, code string) error
	SetTenantBlocked(ctx context.Context, code string, blocked bool) error
	DeleteTenant(ctx context.Context, code string) error
	CreateLoan(ctx context.Context, loan *model.Loan) error
	GetLoan(ctx context.Context, tenantCode string, id uuid.UUID) (*model.Loan, error)
	ListLoans(ctx context.Context, tenantCode string) ([]model.Loan, error)
	ListOpenLoans(ctx context.Context) ([]model.Loan, error)
	UpdateLoan(ctx context.Context, loan *model.Loan) error
	DeleteLoan(ctx context.Context, tenantCode string, id uuid.UUID) error
	AddPayment(ctx context.Context, loanID uuid.UUID, payment model.Payment, movement model.Movement) error
	DeletePayment(ctx context.Context, tenantCode string, loanID, paymentID uuid.UUID) error
	RecordMovement(ctx context.Context, m *model.Movement) error
	DeleteMovement(ctx context.Context, tenantCode string, id uuid.UUID) error
	ListMovements(ctx context.Context, tenantCode string) ([]model.Movement, error)
	RenewLoan(ctx context.Context, closed, successor *model.Loan) error
}

// Service содержит бизнес-логику сервиса учёта займов.
type Service struct {
	repo         Repository
	notifyClient *notify.Client
	policy       engine.Policy
	superCode    string
	logger       *zap.Logger
}

// NewService создаёт новый сервис с указанным репозиторием и клиентом уведомлений.
func NewService(repo Repository, notifyClient *notify.Client, policy engine.Policy, superCode string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:         repo,
		notifyClient: notifyClient,
		policy:       policy,
		superCode:    superCode,
		logger:       logger,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// ---------------------------------------------------------------- tenants

// RegisterTenant занимает выданный суперадмином код за новым кредитором.
func (s *Service) RegisterTenant(ctx context.Context, code string) error {
	if !validation.IsValidTenantCode(code) {
		return validation.ErrInvalidTenantCode
	}

	t, err := s.repo.GetTenant(ctx, code)
	if err != nil {
		return err
	}
	if t.Blocked {
		return ErrTenantBlocked
	}
	if t.Assigned {
		return ErrTenantAssigned
	}

	return s.repo.MarkTenantAssigned(ctx, code)
}

// LoginTenant проверяет код тенанта и сообщает, является ли он суперадминским.
func (s *Service) LoginTenant(ctx context.Context, code string) (bool, error) {
	if s.superCode != "" && code == s.superCode {
		return true, nil
	}

	if !validation.IsValidTenantCode(code) {
		return false, validation.ErrInvalidTenantCode
	}

	t, err := s.repo.GetTenant(ctx, code)
	if err != nil {
		return false, err
	}
	if t.Blocked {
		return false, ErrTenantBlocked
	}
	if !t.Assigned {
		return false, ErrTenantUnassigned
	}

	return false, nil
}

// codeAlphabet не содержит похожих символов (0/O, 1/I), чтобы код можно
// было диктовать по телефону.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// GenerateTenantCode создаёт новый код тенанта и сохраняет его невыданным.
func (s *Service) GenerateTenantCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}

		err = s.repo.CreateTenant(ctx, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, repository.ErrTenantExists) {
			return "", err
		}
	}
	return "", errors.New("could not generate unique tenant code")
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("random code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// ListTenantCodes возвращает все коды тенантов для суперадмина.
func (s *Service) ListTenantCodes(ctx context.Context) ([]model.Tenant, error) {
	return s.repo.ListTenants(ctx)
}

// SetTenantBlocked блокирует или разблокирует код тенанта.
func (s *Service) SetTenantBlocked(ctx context.Context, code string, blocked bool) error {
	return s.repo.SetTenantBlocked(ctx, code, blocked)
}

// DeleteTenantCode удаляет код тенанта вместе со всеми его займами,
// платежами и движениями средств.
func (s *Service) DeleteTenantCode(ctx context.Context, code string) error {
	return s.repo.DeleteTenant(ctx, code)
}

// ---------------------------------------------------------------- loans

// CreateLoan создаёт займ тенанта после валидации входа.
func (s *Service) CreateLoan(ctx context.Context, tenantCode string, in model.LoanInput) (*model.EvaluatedLoan, error) {
	applyInputDefaults(&in)
	if err := validation.ValidateLoan(in); err != nil {
		return nil, err
	}

	loan := &model.Loan{
		ID:           uuid.New(),
		TenantCode:   tenantCode,
		BorrowerName: in.BorrowerName,
		Phone:        validation.NormalizePhone(in.Phone),
		Principal:    in.Principal,
		InterestRate: in.InterestRate,
		PenaltyRate:  in.PenaltyRate,
		TermUnits:    in.TermUnits,
		Frequency:    in.Frequency,
		StartDate:    in.StartDate,
		Method:       in.Method,
		Notes:        in.Notes,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.CreateLoan(ctx, loan); err != nil {
		return nil, err
	}

	return s.evaluated(loan), nil
}

// GetLoan возвращает займ тенанта с текущей оценкой.
func (s *Service) GetLoan(ctx context.Context, tenantCode string, id uuid.UUID) (*model.EvaluatedLoan, error) {
	loan, err := s.repo.GetLoan(ctx, tenantCode, id)
	if err != nil {
		return nil, err
	}
	return s.evaluated(loan), nil
}

// ListLoans возвращает займы тенанта с оценкой каждого.
func (s *Service) ListLoans(ctx context.Context, tenantCode string) ([]model.EvaluatedLoan, error) {
	loans, err := s.repo.ListLoans(ctx, tenantCode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	res := make([]model.EvaluatedLoan, 0, len(loans))
	for i := range loans {
		res = append(res, model.EvaluatedLoan{
			Loan:       loans[i],
			Evaluation: engine.Evaluate(&loans[i], now, s.policy),
		})
	}
	return res, nil
}

// UpdateLoan редактирует поля займа. Побеждает последняя запись; закрытый
// займ не редактируется.
func (s *Service) UpdateLoan(ctx context.Context, tenantCode string, id uuid.UUID, in model.LoanInput) (*model.EvaluatedLoan, error) {
	applyInputDefaults(&in)
	if err := validation.ValidateLoan(in); err != nil {
		return nil, err
	}

	loan, err := s.repo.GetLoan(ctx, tenantCode, id)
	if err != nil {
		return nil, err
	}
	if loan.Closed {
		return nil, engine.ErrLoanClosed
	}

	loan.BorrowerName = in.BorrowerName
	loan.Phone = validation.NormalizePhone(in.Phone)
	loan.Principal = in.Principal
	loan.InterestRate = in.InterestRate
	loan.PenaltyRate = in.PenaltyRate
	loan.TermUnits = in.TermUnits
	loan.Frequency = in.Frequency
	loan.StartDate = in.StartDate
	loan.Method = in.Method
	loan.Notes = in.Notes

	if err := s.repo.UpdateLoan(ctx, loan); err != nil {
		return nil, err
	}

	return s.evaluated(loan), nil
}

// DeleteLoan удаляет займ тенанта вместе с его платежами.
func (s *Service) DeleteLoan(ctx context.Context, tenantCode string, id uuid.UUID) error {
	return s.repo.DeleteLoan(ctx, tenantCode, id)
}

func applyInputDefaults(in *model.LoanInput) {
	if in.Frequency == "" {
		in.Frequency = model.FrequencyDaily
	}
	if in.Method == "" {
		in.Method = model.MethodFlat
	}
}

func (s *Service) evaluated(loan *model.Loan) *model.EvaluatedLoan {
	return &model.EvaluatedLoan{
		Loan:       *loan,
		Evaluation: engine.Evaluate(loan, time.Now(), s.policy),
	}
}

// ---------------------------------------------------------------- payments

// RegisterPayment принимает платёж по займу и записывает поступление в кассу
// одной транзакцией.
func (s *Service) RegisterPayment(ctx context.Context, tenantCode string, loanID uuid.UUID, amount decimal.Decimal, at time.Time) (*model.EvaluatedLoan, error) {
	loan, err := s.repo.GetLoan(ctx, tenantCode, loanID)
	if err != nil {
		return nil, err
	}

	payment, err := engine.AddPayment(loan, amount, at, s.policy)
	if err != nil {
		return nil, err
	}

	movement := model.Movement{
		ID:         uuid.New(),
		TenantCode: tenantCode,
		Kind:       model.MovementPayment,
		Amount:     amount,
		LoanID:     &loan.ID,
		Reason:     fmt.Sprintf("Pago préstamo %s", loan.BorrowerName),
		RecordedAt: at,
	}
	payment.MovementID = &movement.ID
	loan.Payments[len(loan.Payments)-1].MovementID = &movement.ID

	if err := s.repo.AddPayment(ctx, loan.ID, payment, movement); err != nil {
		return nil, err
	}

	return s.evaluated(loan), nil
}

// DeletePayment удаляет платёж и связанное с ним движение средств.
func (s *Service) DeletePayment(ctx context.Context, tenantCode string, loanID, paymentID uuid.UUID) error {
	loan, err := s.repo.GetLoan(ctx, tenantCode, loanID)
	if err != nil {
		return err
	}

	if _, err := engine.RemovePayment(loan, paymentID); err != nil {
		return err
	}

	return s.repo.DeletePayment(ctx, tenantCode, loanID, paymentID)
}

// ---------------------------------------------------------------- renewal

// RenewLoan закрывает займ и открывает преемника на точный остаток долга.
func (s *Service) RenewLoan(ctx context.Context, tenantCode string, loanID uuid.UUID, newTermUnits int) (*model.EvaluatedLoan, error) {
	loan, err := s.repo.GetLoan(ctx, tenantCode, loanID)
	if err != nil {
		return nil, err
	}

	closed, successor, err := engine.Renew(loan, newTermUnits, time.Now(), s.policy)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RenewLoan(ctx, closed, successor); err != nil {
		return nil, err
	}

	return s.evaluated(successor), nil
}

// ---------------------------------------------------------------- summary

// GetSummary возвращает сводку портфеля тенанта на текущий момент.
func (s *Service) GetSummary(ctx context.Context, tenantCode string) (*model.PortfolioSummary, error) {
	loans, err := s.repo.ListLoans(ctx, tenantCode)
	if err != nil {
		return nil, err
	}

	movements, err := s.repo.ListMovements(ctx, tenantCode)
	if err != nil {
		return nil, err
	}

	summary := engine.Summarize(loans, movements, time.Now(), s.policy)
	return &summary, nil
}

// ---------------------------------------------------------------- movements

// RecordExpense записывает расход из кассы тенанта.
func (s *Service) RecordExpense(ctx context.Context, tenantCode string, amount decimal.Decimal, reason string, at time.Time) (*model.Movement, error) {
	if err := validation.ValidateAmount(amount); err != nil {
		return nil, err
	}

	m := &model.Movement{
		ID:         uuid.New(),
		TenantCode: tenantCode,
		Kind:       model.MovementExpense,
		Amount:     amount,
		Reason:     reason,
		RecordedAt: at,
	}

	if err := s.repo.RecordMovement(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMovement удаляет расходную запись из кассовой книги.
func (s *Service) DeleteMovement(ctx context.Context, tenantCode string, id uuid.UUID) error {
	return s.repo.DeleteMovement(ctx, tenantCode, id)
}

// ListMovements возвращает кассовую книгу тенанта.
func (s *Service) ListMovements(ctx context.Context, tenantCode string) ([]model.Movement, error) {
	return s.repo.ListMovements(ctx, tenantCode)
}

// ---------------------------------------------------------------- notifier

// StartOverdueNotifications запускает фоновый процесс отправки уведомлений
// о просроченных займах в шлюз уведомлений.
func (s *Service) StartOverdueNotifications(ctx context.Context, interval time.Duration) {
	if s.notifyClient == nil {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.notifyOverdueBatch(ctx)
			}
		}
	}()
}

func (s *Service) notifyOverdueBatch(ctx context.Context) {
	loans, err := s.repo.ListOpenLoans(ctx)
	if err != nil {
		s.logger.Warn("list open loans for notifications", zap.Error(err))
		return
	}

	now := time.Now()
	for i := range loans {
		ev := engine.Evaluate(&loans[i], now, s.policy)
		if ev.State != model.StateRed {
			continue
		}

		notice := notify.OverdueNotice{
			TenantCode:  loans[i].TenantCode,
			LoanID:      loans[i].ID.String(),
			Borrower:    loans[i].BorrowerName,
			Phone:       loans[i].Phone,
			DaysLate:    ev.DaysLate,
			Outstanding: engine.Round2(ev.Outstanding).StringFixed(2),
		}
		if err := s.notifyClient.SendOverdueNotice(ctx, notice); err != nil {
			s.logger.Warn("send overdue notice",
				zap.String("loan_id", notice.LoanID),
				zap.Error(err),
			)
		}
	}
}
