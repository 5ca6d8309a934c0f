package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/avasquez/prestamos-system/internal/model"
)

// Summarize агрегирует показатели портфеля тенанта на дату asOf.
//
// В активные итоги (капитал, к получению, счётчик) входят только открытые
// займы с положительным остатком. PenaltyTotal суммируется по всем
// незакрытым займам, включая полностью погашенные, но ещё не закрытые.
// CollectedToday — платежи за календарную дату asOf по всем займам минус
// расходные движения за тот же день.
func Summarize(loans []model.Loan, movements []model.Movement, asOf time.Time, p Policy) model.PortfolioSummary {
	s := model.PortfolioSummary{
		ActivePrincipal: decimal.Zero,
		CollectedToday:  decimal.Zero,
		PenaltyTotal:    decimal.Zero,
		TotalReceivable: decimal.Zero,
	}

	for i := range loans {
		loan := &loans[i]
		eval := Evaluate(loan, asOf, p)

		if !loan.Closed {
			s.PenaltyTotal = s.PenaltyTotal.Add(eval.PenaltyAccrued)
			if eval.Outstanding.IsPositive() {
				s.ActivePrincipal = s.ActivePrincipal.Add(loan.Principal)
				s.TotalReceivable = s.TotalReceivable.Add(eval.Outstanding)
				s.ActiveCount++
			}
		}

		for _, pay := range loan.Payments {
			if sameDay(pay.RecordedAt, asOf) {
				s.CollectedToday = s.CollectedToday.Add(pay.Amount)
			}
		}
	}

	for _, mv := range movements {
		if mv.Kind == model.MovementExpense && sameDay(mv.RecordedAt, asOf) {
			s.CollectedToday = s.CollectedToday.Sub(mv.Amount)
		}
	}

	return s
}
