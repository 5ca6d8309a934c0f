// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/avasquez/prestamos-system/internal/model"
)

// ErrInvalidLoan — базовая ошибка валидации полей займа; конкретная причина
// добавляется обёрткой.
var ErrInvalidLoan = errors.New("invalid loan")

// ErrInvalidTenantCode возвращается для кода тенанта неверного формата.
var ErrInvalidTenantCode = errors.New("invalid tenant code")

// NormalizePhone удаляет из номера все символы, кроме цифр.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateLoan проверяет поля займа перед созданием или редактированием.
// Ядро расчёта предполагает уже проверенный вход и само ошибок не выдаёт,
// поэтому все нарушения отсекаются здесь.
func ValidateLoan(in model.LoanInput) error {
	if strings.TrimSpace(in.BorrowerName) == "" {
		return fmt.Errorf("%w: borrower name is required", ErrInvalidLoan)
	}
	if !in.Principal.IsPositive() {
		return fmt.Errorf("%w: principal must be positive", ErrInvalidLoan)
	}
	if in.InterestRate.IsNegative() {
		return fmt.Errorf("%w: interest rate must not be negative", ErrInvalidLoan)
	}
	if in.PenaltyRate.IsNegative() {
		return fmt.Errorf("%w: penalty rate must not be negative", ErrInvalidLoan)
	}
	if in.TermUnits <= 0 {
		return fmt.Errorf("%w: term must be positive", ErrInvalidLoan)
	}
	switch in.Frequency {
	case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyMonthly:
	default:
		return fmt.Errorf("%w: unknown payment frequency %q", ErrInvalidLoan, in.Frequency)
	}
	switch in.Method {
	case model.MethodFlat, model.MethodSimpleDaily, model.MethodAmortized:
	default:
		return fmt.Errorf("%w: unknown schedule method %q", ErrInvalidLoan, in.Method)
	}
	return nil
}

// ValidateAmount проверяет денежную сумму из внешнего запроса.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidLoan)
	}
	return nil
}

// IsValidTenantCode проверяет формат кода тенанта: от 4 до 12 символов,
// только заглавные латинские буквы и цифры.
func IsValidTenantCode(code string) bool {
	if len(code) < 4 || len(code) > 12 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
