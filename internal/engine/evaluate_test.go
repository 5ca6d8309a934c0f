package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avasquez/prestamos-system/internal/model"
)

var asOf = time.Date(2025, 3, 15, 13, 30, 0, 0, time.UTC)

// testLoan строит дневной займ по плоской формуле, выданный за startedDaysAgo
// дней до asOf.
func testLoan(t *testing.T, principal, rate, penalty string, termUnits, startedDaysAgo int) *model.Loan {
	t.Helper()
	start := asOf.AddDate(0, 0, -startedDaysAgo)
	return &model.Loan{
		ID:           uuid.New(),
		TenantCode:   "ABC123",
		BorrowerName: "Carlos Mendoza",
		Principal:    dec(t, principal),
		InterestRate: dec(t, rate),
		PenaltyRate:  dec(t, penalty),
		TermUnits:    termUnits,
		Frequency:    model.FrequencyDaily,
		StartDate:    &start,
		Method:       model.MethodFlat,
	}
}

func addTestPayment(loan *model.Loan, amount string, at time.Time) {
	d, _ := decimal.NewFromString(amount)
	loan.Payments = append(loan.Payments, model.Payment{
		ID:         uuid.New(),
		Amount:     d,
		RecordedAt: at,
	})
}

func TestEvaluate_UndatedShortCircuits(t *testing.T) {
	loan := testLoan(t, "1000", "10", "0", 10, 5)
	loan.StartDate = nil

	eval := Evaluate(loan, asOf, DefaultPolicy())
	if eval.State != model.StateUndated {
		t.Fatalf("state = %s, want %s", eval.State, model.StateUndated)
	}
	if !eval.TotalDebt.IsZero() || !eval.Outstanding.IsZero() || eval.DaysLate != 0 {
		t.Fatalf("undated loan must evaluate to zeros, got %+v", eval)
	}
	if eval.DueDate != nil {
		t.Fatalf("undated loan must have no due date")
	}
}

func TestEvaluate_StateBoundaries(t *testing.T) {
	tests := []struct {
		name           string
		termUnits      int
		startedDaysAgo int
		want           model.LoanState
		wantDaysLate   int
	}{
		{"well before due", 10, 2, model.StateGreen, 0},
		{"four days before due", 10, 6, model.StateGreen, 0},
		{"three days before due", 10, 7, model.StateYellow, 0},
		{"one day before due", 10, 9, model.StateYellow, 0},
		{"due day", 10, 10, model.StateYellow, 0},
		{"one day past due", 10, 11, model.StateRed, 1},
		{"week past due", 10, 17, model.StateRed, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := testLoan(t, "1000", "10", "0", tt.termUnits, tt.startedDaysAgo)
			eval := Evaluate(loan, asOf, DefaultPolicy())
			if eval.State != tt.want {
				t.Fatalf("state = %s, want %s", eval.State, tt.want)
			}
			if eval.DaysLate != tt.wantDaysLate {
				t.Fatalf("daysLate = %d, want %d", eval.DaysLate, tt.wantDaysLate)
			}
		})
	}
}

func TestEvaluate_DueTodayNoPayments(t *testing.T) {
	loan := testLoan(t, "1000", "10", "0", 10, 10)

	eval := Evaluate(loan, asOf, DefaultPolicy())
	if eval.State != model.StateYellow {
		t.Fatalf("state = %s, want %s", eval.State, model.StateYellow)
	}
	if !eval.TotalDebt.Equal(dec(t, "1100")) {
		t.Fatalf("totalDebt = %s, want 1100", eval.TotalDebt)
	}
	if !eval.Outstanding.Equal(dec(t, "1100")) {
		t.Fatalf("outstanding = %s, want 1100", eval.Outstanding)
	}
	if eval.DueDate == nil || !sameDay(*eval.DueDate, asOf) {
		t.Fatalf("dueDate = %v, want today", eval.DueDate)
	}
}

func TestEvaluate_OnePaymentCountsInstallment(t *testing.T) {
	loan := testLoan(t, "1000", "10", "0", 10, 10)
	addTestPayment(loan, "110", asOf)

	eval := Evaluate(loan, asOf, DefaultPolicy())
	if eval.InstallmentsPaid != 1 {
		t.Fatalf("installmentsPaid = %d, want 1", eval.InstallmentsPaid)
	}
	if eval.InstallmentsTotal != 10 {
		t.Fatalf("installmentsTotal = %d, want 10", eval.InstallmentsTotal)
	}
	if !eval.Outstanding.Equal(dec(t, "990")) {
		t.Fatalf("outstanding = %s, want 990", eval.Outstanding)
	}
}

func TestEvaluate_PenaltyOnCapital(t *testing.T) {
	// 5 дней просрочки при пене 2% в день от капитала: 1000 * 0.02 * 5 = 100.
	loan := testLoan(t, "1000", "10", "2", 10, 15)

	eval := Evaluate(loan, asOf, DefaultPolicy())
	if eval.DaysLate != 5 {
		t.Fatalf("daysLate = %d, want 5", eval.DaysLate)
	}
	if !eval.PenaltyAccrued.Equal(dec(t, "100")) {
		t.Fatalf("penalty = %s, want 100", eval.PenaltyAccrued)
	}
	if !eval.Outstanding.Equal(dec(t, "1200")) {
		t.Fatalf("outstanding = %s, want 1200", eval.Outstanding)
	}
}

func TestEvaluate_PenaltyOnOutstandingBasis(t *testing.T) {
	loan := testLoan(t, "1000", "10", "2", 10, 15)
	addTestPayment(loan, "600", asOf.AddDate(0, 0, -6))

	eval := Evaluate(loan, asOf, Policy{PenaltyBasis: PenaltyOnOutstanding})
	// База — непогашенная часть долга без пени: 1100 - 600 = 500.
	want := dec(t, "500").Mul(dec(t, "0.02")).Mul(decimal.NewFromInt(5))
	if !eval.PenaltyAccrued.Equal(want) {
		t.Fatalf("penalty = %s, want %s", eval.PenaltyAccrued, want)
	}
}

func TestEvaluate_ZeroPenaltyRateAccruesNothing(t *testing.T) {
	loan := testLoan(t, "1000", "10", "0", 10, 20)

	eval := Evaluate(loan, asOf, DefaultPolicy())
	if !eval.PenaltyAccrued.IsZero() {
		t.Fatalf("penalty = %s, want 0", eval.PenaltyAccrued)
	}
}

func TestEvaluate_OutstandingNeverNegative(t *testing.T) {
	loan := testLoan(t, "1000", "10", "0", 10, 5)
	addTestPayment(loan, "2000", asOf)

	eval := Evaluate(loan, asOf, DefaultPolicy())
	if eval.Outstanding.IsNegative() {
		t.Fatalf("outstanding = %s, must be non-negative", eval.Outstanding)
	}
	if !eval.Complete {
		t.Fatalf("loan paid above total debt must be complete")
	}
}

func TestEvaluate_CompleteWithinEpsilon(t *testing.T) {
	loan := testLoan(t, "1000", "10", "0", 10, 5)
	addTestPayment(loan, "1099.995", asOf)

	eval := Evaluate(loan, asOf, DefaultPolicy())
	if !eval.Complete {
		t.Fatalf("balance %s within epsilon must count as complete", eval.Outstanding)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	loan := testLoan(t, "1000", "10", "2", 10, 15)
	addTestPayment(loan, "110", asOf.AddDate(0, 0, -3))

	first := Evaluate(loan, asOf, DefaultPolicy())
	second := Evaluate(loan, asOf, DefaultPolicy())

	if first.State != second.State || first.DaysLate != second.DaysLate {
		t.Fatalf("evaluate not idempotent: %+v vs %+v", first, second)
	}
	if !first.Outstanding.Equal(second.Outstanding) || !first.PenaltyAccrued.Equal(second.PenaltyAccrued) {
		t.Fatalf("evaluate not idempotent: %s vs %s", first.Outstanding, second.Outstanding)
	}
	if len(loan.Payments) != 1 {
		t.Fatalf("evaluate must not mutate the loan")
	}
}

func TestEvaluate_WeeklyAndMonthlyTerms(t *testing.T) {
	// 2 недели: срок 14 дней, займ выдан 10 дней назад — ещё не жёлтый.
	weekly := testLoan(t, "1000", "10", "0", 2, 10)
	weekly.Frequency = model.FrequencyWeekly
	if eval := Evaluate(weekly, asOf, DefaultPolicy()); eval.State != model.StateGreen {
		t.Fatalf("weekly state = %s, want %s", eval.State, model.StateGreen)
	}

	// 1 месяц: срок 30 дней, займ выдан 31 день назад — просрочен.
	monthly := testLoan(t, "1000", "10", "0", 1, 31)
	monthly.Frequency = model.FrequencyMonthly
	eval := Evaluate(monthly, asOf, DefaultPolicy())
	if eval.State != model.StateRed {
		t.Fatalf("monthly state = %s, want %s", eval.State, model.StateRed)
	}
	if eval.DaysLate != 1 {
		t.Fatalf("monthly daysLate = %d, want 1", eval.DaysLate)
	}
}
