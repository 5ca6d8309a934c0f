package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/avasquez/prestamos-system/internal/model"
)

// PenaltyBasis определяет базу начисления пени за день просрочки.
// Исторические данные считались то от капитала, то от остатка, поэтому
// база вынесена в явную политику и не угадывается по записи.
type PenaltyBasis string

const (
	// PenaltyOnCapital — пеня от исходного капитала (политика по умолчанию).
	PenaltyOnCapital PenaltyBasis = "CAPITAL"
	// PenaltyOnOutstanding — пеня от непогашенной части долга без пени.
	PenaltyOnOutstanding PenaltyBasis = "OUTSTANDING"
)

// Policy — расчётная политика ядра.
type Policy struct {
	PenaltyBasis PenaltyBasis
}

// DefaultPolicy возвращает политику по умолчанию.
func DefaultPolicy() Policy {
	return Policy{PenaltyBasis: PenaltyOnCapital}
}

// Evaluate вычисляет производное состояние займа на дату asOf: статус,
// просрочку, начисленную пеню, полный долг и остаток. Функция идемпотентна
// и не меняет займ; повторный вызов с теми же аргументами даёт тот же
// результат. Валидация полей выполняется при создании займа, здесь
// вырожденным считается только отсутствие даты начала.
func Evaluate(loan *model.Loan, asOf time.Time, p Policy) model.Evaluation {
	if loan.StartDate == nil {
		return model.Evaluation{
			State:          model.StateUndated,
			Installment:    decimal.Zero,
			TotalDebt:      decimal.Zero,
			TotalPaid:      decimal.Zero,
			PenaltyAccrued: decimal.Zero,
			Outstanding:    decimal.Zero,
		}
	}

	termDays := TermDays(loan.TermUnits, loan.Frequency)
	due := DueDate(*loan.StartDate, loan.TermUnits, loan.Frequency)
	elapsed := daysBetween(*loan.StartDate, asOf)

	// diff — число дней относительно даты погашения: положительное
	// значение означает просрочку, день погашения даёт ноль.
	diff := elapsed - termDays

	state := model.StateGreen
	switch {
	case diff >= 1:
		state = model.StateRed
	case diff == 0 || (diff < 0 && diff > -4):
		state = model.StateYellow
	}

	daysLate := diff
	if daysLate < 0 {
		daysLate = 0
	}

	installment := InstallmentAmount(loan.Principal, loan.InterestRate, loan.TermUnits, loan.Method)
	totalDebt := installment.Mul(decimal.NewFromInt(int64(loan.TermUnits)))

	totalPaid := decimal.Zero
	for _, pay := range loan.Payments {
		totalPaid = totalPaid.Add(pay.Amount)
	}

	penalty := decimal.Zero
	if daysLate > 0 && loan.PenaltyRate.GreaterThan(decimal.Zero) {
		basis := loan.Principal
		if p.PenaltyBasis == PenaltyOnOutstanding {
			basis = totalDebt.Sub(totalPaid)
			if basis.IsNegative() {
				basis = decimal.Zero
			}
		}
		penalty = basis.Mul(loan.PenaltyRate).Div(hundred).Mul(decimal.NewFromInt(int64(daysLate)))
	}

	outstanding := totalDebt.Add(penalty).Sub(totalPaid)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	installmentsPaid := 0
	if installment.IsPositive() {
		installmentsPaid = int(totalPaid.Div(installment).IntPart())
		if installmentsPaid > loan.TermUnits {
			installmentsPaid = loan.TermUnits
		}
	}

	return model.Evaluation{
		State:             state,
		DaysLate:          daysLate,
		Installment:       installment,
		TotalDebt:         totalDebt,
		TotalPaid:         totalPaid,
		PenaltyAccrued:    penalty,
		Outstanding:       outstanding,
		InstallmentsPaid:  installmentsPaid,
		InstallmentsTotal: loan.TermUnits,
		DueDate:           &due,
		Complete:          outstanding.LessThanOrEqual(epsilon) || totalPaid.GreaterThanOrEqual(totalDebt),
	}
}
