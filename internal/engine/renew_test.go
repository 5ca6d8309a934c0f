package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/avasquez/prestamos-system/internal/model"
)

func TestRenew_PrincipalEqualsOutstanding(t *testing.T) {
	loan := testLoan(t, "1000", "10", "2", 10, 15)
	addTestPayment(loan, "300", asOf.AddDate(0, 0, -7))

	before := Evaluate(loan, asOf, DefaultPolicy())

	closed, successor, err := Renew(loan, 20, asOf, DefaultPolicy())
	if err != nil {
		t.Fatalf("Renew error: %v", err)
	}

	if !successor.Principal.Equal(before.Outstanding) {
		t.Fatalf("successor principal = %s, want outstanding %s", successor.Principal, before.Outstanding)
	}
	if !closed.Closed {
		t.Fatalf("predecessor must be closed")
	}
	if successor.Closed {
		t.Fatalf("successor must be open")
	}
}

func TestRenew_Conservation(t *testing.T) {
	// Собранные платежи плюс капитал преемника равны полному долгу
	// предшественника с пеней: пролонгация не меняет стоимость.
	loan := testLoan(t, "1000", "10", "2", 10, 15)
	addTestPayment(loan, "250", asOf.AddDate(0, 0, -8))
	addTestPayment(loan, "110", asOf.AddDate(0, 0, -2))

	before := Evaluate(loan, asOf, DefaultPolicy())

	_, successor, err := Renew(loan, 15, asOf, DefaultPolicy())
	if err != nil {
		t.Fatalf("Renew error: %v", err)
	}

	total := before.TotalPaid.Add(successor.Principal)
	want := before.TotalDebt.Add(before.PenaltyAccrued)
	if !total.Equal(want) {
		t.Fatalf("paid + successor principal = %s, want %s", total, want)
	}
}

func TestRenew_SuccessorInheritsTerms(t *testing.T) {
	loan := testLoan(t, "1000", "12.5", "1.5", 10, 12)
	loan.Phone = "987654321"
	loan.Notes = "cliente puntual"

	closed, successor, err := Renew(loan, 20, asOf, DefaultPolicy())
	if err != nil {
		t.Fatalf("Renew error: %v", err)
	}

	if successor.BorrowerName != loan.BorrowerName || successor.Phone != loan.Phone {
		t.Fatalf("successor must inherit borrower and phone")
	}
	if !successor.InterestRate.Equal(loan.InterestRate) || !successor.PenaltyRate.Equal(loan.PenaltyRate) {
		t.Fatalf("successor must inherit rates")
	}
	if successor.Method != loan.Method || successor.Frequency != loan.Frequency {
		t.Fatalf("successor must inherit schedule method and frequency")
	}
	if successor.TermUnits != 20 {
		t.Fatalf("successor term = %d, want 20", successor.TermUnits)
	}
	if successor.RenewalOf == nil || *successor.RenewalOf != loan.ID {
		t.Fatalf("successor must reference the predecessor")
	}
	if !successor.IsRenewal {
		t.Fatalf("successor must be flagged as renewal")
	}
	if len(successor.Payments) != 0 {
		t.Fatalf("successor must start with no payments")
	}
	if successor.StartDate == nil || !sameDay(*successor.StartDate, asOf) {
		t.Fatalf("successor start date = %v, want renewal day", successor.StartDate)
	}
	if !strings.HasPrefix(closed.Notes, "[RENOVADO ") {
		t.Fatalf("closed notes %q must carry the renewal marker", closed.Notes)
	}
	if !strings.HasSuffix(closed.Notes, "cliente puntual") {
		t.Fatalf("closed notes %q must keep the original text", closed.Notes)
	}
}

func TestRenew_AlreadyRenewed(t *testing.T) {
	loan := testLoan(t, "1000", "10", "0", 10, 10)
	loan.Closed = true

	if _, _, err := Renew(loan, 10, asOf, DefaultPolicy()); !errors.Is(err, ErrAlreadyRenewed) {
		t.Fatalf("err = %v, want ErrAlreadyRenewed", err)
	}
}

func TestRenew_NothingToRenew(t *testing.T) {
	loan := testLoan(t, "1000", "10", "0", 10, 10)
	addTestPayment(loan, "1100", asOf)

	if _, _, err := Renew(loan, 10, asOf, DefaultPolicy()); !errors.Is(err, ErrNothingToRenew) {
		t.Fatalf("err = %v, want ErrNothingToRenew", err)
	}
}

func TestRenew_InvalidTerm(t *testing.T) {
	loan := testLoan(t, "1000", "10", "0", 10, 10)

	if _, _, err := Renew(loan, 0, asOf, DefaultPolicy()); !errors.Is(err, ErrInvalidTerm) {
		t.Fatalf("err = %v, want ErrInvalidTerm", err)
	}
}

func TestRenew_DoesNotMutateOriginal(t *testing.T) {
	loan := testLoan(t, "1000", "10", "0", 10, 10)

	_, _, err := Renew(loan, 10, asOf, DefaultPolicy())
	if err != nil {
		t.Fatalf("Renew error: %v", err)
	}
	if loan.Closed {
		t.Fatalf("Renew must return a closed copy, not mutate the input")
	}
	if loan.Notes != "" {
		t.Fatalf("Renew must not touch the original notes")
	}
}

func TestRenew_SuccessorEvaluatesFresh(t *testing.T) {
	loan := testLoan(t, "1000", "10", "2", 10, 15)

	_, successor, err := Renew(loan, 10, asOf, DefaultPolicy())
	if err != nil {
		t.Fatalf("Renew error: %v", err)
	}

	eval := Evaluate(successor, asOf, DefaultPolicy())
	if eval.State != model.StateGreen {
		t.Fatalf("fresh successor state = %s, want %s", eval.State, model.StateGreen)
	}
	if eval.DaysLate != 0 || !eval.PenaltyAccrued.IsZero() {
		t.Fatalf("fresh successor must carry no delinquency: %+v", eval)
	}
}
