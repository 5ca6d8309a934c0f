package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avasquez/prestamos-system/internal/model"
)

// AddPayment регистрирует платёж по займу. Платёж должен быть положительным,
// займ — открытым, а сумма — не больше текущего остатка долга. Счётчики
// взносов и остаток не кешируются: они пересчитываются при следующей оценке.
func AddPayment(loan *model.Loan, amount decimal.Decimal, at time.Time, p Policy) (model.Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return model.Payment{}, ErrInvalidAmount
	}
	if loan.Closed {
		return model.Payment{}, ErrLoanClosed
	}

	eval := Evaluate(loan, at, p)
	if amount.GreaterThan(eval.Outstanding) {
		return model.Payment{}, ErrOverpayment
	}

	pay := model.Payment{
		ID:         uuid.New(),
		Amount:     amount,
		RecordedAt: at,
	}
	loan.Payments = append(loan.Payments, pay)
	return pay, nil
}

// RemovePayment удаляет платёж по идентификатору и возвращает удалённую
// запись, чтобы вызывающий каскадно удалил связанное движение средств.
// Платежи закрытого займа заморожены и удалению не подлежат.
func RemovePayment(loan *model.Loan, paymentID uuid.UUID) (model.Payment, error) {
	if loan.Closed {
		return model.Payment{}, ErrLoanClosed
	}
	for i, pay := range loan.Payments {
		if pay.ID == paymentID {
			loan.Payments = append(loan.Payments[:i], loan.Payments[i+1:]...)
			return pay, nil
		}
	}
	return model.Payment{}, ErrPaymentNotFound
}
