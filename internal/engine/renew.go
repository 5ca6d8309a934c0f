package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avasquez/prestamos-system/internal/model"
)

// Renew закрывает займ и строит преемника, чей капитал в точности равен
// остатку долга предшественника на момент пролонгации. Сумма собранных по
// старому займу платежей плюс капитал нового равна полному долгу старого:
// пролонгация не создаёт и не уничтожает стоимость.
//
// Функция чистая: обе записи возвращаются вызывающему, который обязан
// применить закрытие старого и создание нового как одну транзакцию.
// Новый займ не должен стать видимым как активный раньше, чем старый
// будет помечен закрытым.
func Renew(loan *model.Loan, newTermUnits int, now time.Time, p Policy) (*model.Loan, *model.Loan, error) {
	if loan.Closed {
		return nil, nil, ErrAlreadyRenewed
	}
	if newTermUnits < 1 {
		return nil, nil, ErrInvalidTerm
	}

	eval := Evaluate(loan, now, p)
	if !eval.Outstanding.IsPositive() {
		return nil, nil, ErrNothingToRenew
	}

	closed := *loan
	closed.Closed = true
	closed.Notes = fmt.Sprintf("[RENOVADO %s] %s", now.Format("02/01/2006"), loan.Notes)

	predecessorID := loan.ID
	start := atMidnight(now)

	successor := &model.Loan{
		ID:           uuid.New(),
		TenantCode:   loan.TenantCode,
		BorrowerName: loan.BorrowerName,
		Phone:        loan.Phone,
		Principal:    eval.Outstanding,
		InterestRate: loan.InterestRate,
		PenaltyRate:  loan.PenaltyRate,
		TermUnits:    newTermUnits,
		Frequency:    loan.Frequency,
		StartDate:    &start,
		Method:       loan.Method,
		Notes:        fmt.Sprintf("Renovación automática del préstamo anterior (capital original: %s)", Round2(loan.Principal)),
		RenewalOf:    &predecessorID,
		IsRenewal:    true,
		Payments:     []model.Payment{},
		CreatedAt:    now,
	}

	return &closed, successor, nil
}
