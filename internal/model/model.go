// Package model содержит доменные сущности сервиса учёта займов.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentFrequency определяет периодичность взносов по займу.
type PaymentFrequency string

const (
	FrequencyDaily   PaymentFrequency = "DAILY"
	FrequencyWeekly  PaymentFrequency = "WEEKLY"
	FrequencyMonthly PaymentFrequency = "MONTHLY"
)

// DayFactor возвращает число календарных дней в одном периоде.
func (f PaymentFrequency) DayFactor() int {
	switch f {
	case FrequencyWeekly:
		return 7
	case FrequencyMonthly:
		return 30
	default:
		return 1
	}
}

// ScheduleMethod определяет формулу расчёта взноса. Метод фиксируется на
// займе при создании и не подменяется глобальным значением по умолчанию.
type ScheduleMethod string

const (
	MethodFlat        ScheduleMethod = "FLAT"
	MethodSimpleDaily ScheduleMethod = "SIMPLE_DAILY"
	MethodAmortized   ScheduleMethod = "AMORTIZED"
)

// LoanState описывает светофорный статус займа на дату оценки.
type LoanState string

const (
	StateUndated LoanState = "UNDATED"
	StateGreen   LoanState = "GREEN"
	StateYellow  LoanState = "YELLOW"
	StateRed     LoanState = "RED"
)

// Payment — факт получения денег по займу.
type Payment struct {
	ID         uuid.UUID
	Amount     decimal.Decimal
	RecordedAt time.Time
	// MovementID связывает платёж с записью движения средств.
	// Отсутствие ссылки означает старые данные без связки.
	MovementID *uuid.UUID
}

// Loan описывает договор займа одного тенанта.
type Loan struct {
	ID           uuid.UUID
	TenantCode   string
	BorrowerName string
	Phone        string
	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	PenaltyRate  decimal.Decimal
	TermUnits    int
	Frequency    PaymentFrequency
	// StartDate может отсутствовать: такой займ считается незаполненным
	// и исключается из расчёта статуса.
	StartDate *time.Time
	Method    ScheduleMethod
	Notes     string
	// Closed выставляется при пролонгации; закрытый займ не принимает
	// платежи и не участвует в активных итогах.
	Closed    bool
	RenewalOf *uuid.UUID
	IsRenewal bool
	// Payments хранятся в порядке ввода, а не по дате платежа.
	Payments  []Payment
	CreatedAt time.Time
}

// LoanInput описывает поля займа, задаваемые при создании и редактировании.
type LoanInput struct {
	BorrowerName string
	Phone        string
	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	PenaltyRate  decimal.Decimal
	TermUnits    int
	Frequency    PaymentFrequency
	StartDate    *time.Time
	Method       ScheduleMethod
	Notes        string
}

// MovementKind описывает тип движения средств в кассе тенанта.
type MovementKind string

const (
	MovementPayment MovementKind = "PAYMENT"
	MovementExpense MovementKind = "EXPENSE"
)

// Movement — запись кассовой книги: поступление по займу или расход.
type Movement struct {
	ID         uuid.UUID
	TenantCode string
	Kind       MovementKind
	Amount     decimal.Decimal
	LoanID     *uuid.UUID
	Reason     string
	RecordedAt time.Time
}

// Tenant — код кредиторского кабинета, выданный суперадмином.
type Tenant struct {
	Code      string
	Assigned  bool
	Blocked   bool
	CreatedAt time.Time
}

// Evaluation — производное состояние займа на дату оценки.
type Evaluation struct {
	State             LoanState
	DaysLate          int
	Installment       decimal.Decimal
	TotalDebt         decimal.Decimal
	TotalPaid         decimal.Decimal
	PenaltyAccrued    decimal.Decimal
	Outstanding       decimal.Decimal
	InstallmentsPaid  int
	InstallmentsTotal int
	DueDate           *time.Time
	Complete          bool
}

// EvaluatedLoan объединяет займ с его текущей оценкой для слоя выдачи.
type EvaluatedLoan struct {
	Loan       Loan
	Evaluation Evaluation
}

// PortfolioSummary — сводка портфеля тенанта на дату.
type PortfolioSummary struct {
	ActivePrincipal decimal.Decimal
	CollectedToday  decimal.Decimal
	PenaltyTotal    decimal.Decimal
	TotalReceivable decimal.Decimal
	ActiveCount     int
}
