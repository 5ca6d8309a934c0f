package engine

import (
	"github.com/shopspring/decimal"

	"github.com/avasquez/prestamos-system/internal/model"
)

var (
	one         = decimal.NewFromInt(1)
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
	// epsilon — допуск в одну копейку при проверке полного погашения.
	epsilon = decimal.New(1, -2)
)

// Round2 приводит сумму к двум знакам банковским округлением. Применяется
// только на границе представления: внутри расчётов суммы не округляются,
// чтобы не накапливать ошибку.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// InstallmentAmount вычисляет размер одного взноса по формуле займа.
// Вырожденные входы не приводят к делению на ноль: вместо ошибки
// возвращается оговорённый фолбэк (0 либо principal/termUnits).
func InstallmentAmount(principal, rate decimal.Decimal, termUnits int, method model.ScheduleMethod) decimal.Decimal {
	if termUnits <= 0 {
		return decimal.Zero
	}
	term := decimal.NewFromInt(int64(termUnits))

	switch method {
	case model.MethodSimpleDaily:
		// Взнос равен проценту с капитала за один период; ставка уже
		// периодическая, а не годовая.
		return principal.Mul(rate).Div(hundred)
	case model.MethodAmortized:
		periodicRate := rate.Div(hundred).Div(daysPerYear)
		if periodicRate.LessThanOrEqual(decimal.Zero) {
			return principal.Div(term)
		}
		return annuityPayment(principal, int64(termUnits), periodicRate)
	default:
		if rate.LessThanOrEqual(decimal.Zero) {
			return principal.Div(term)
		}
		interest := principal.Mul(rate).Div(hundred)
		return principal.Add(interest).Div(term)
	}
}

// annuityPayment — стандартная формула аннуитета:
// P * r * (1+r)^n / ((1+r)^n - 1).
func annuityPayment(principal decimal.Decimal, periods int64, rate decimal.Decimal) decimal.Decimal {
	pow := one.Add(rate).Pow(decimal.NewFromInt(periods))
	return principal.Mul(pow).Mul(rate).Div(pow.Sub(one))
}

// TotalDebt возвращает полную сумму долга без учёта пени: взнос, умноженный
// на число периодов. Для аннуитета это сумма всех платежей графика.
func TotalDebt(principal, rate decimal.Decimal, termUnits int, method model.ScheduleMethod) decimal.Decimal {
	return InstallmentAmount(principal, rate, termUnits, method).Mul(decimal.NewFromInt(int64(termUnits)))
}
