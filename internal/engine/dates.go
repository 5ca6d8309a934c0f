// Package engine реализует расчётное ядро учёта займов: график взносов,
// оценку состояния займа, книгу платежей, пролонгацию и сводку портфеля.
// Ядро не хранит состояния и не имеет побочных эффектов: результат
// определяется только входными данными и датой оценки.
package engine

import (
	"time"

	"github.com/avasquez/prestamos-system/internal/model"
)

func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween возвращает число полных суток между полуночами двух дат.
func daysBetween(from, to time.Time) int {
	return int(atMidnight(to).Sub(atMidnight(from)).Hours() / 24)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// TermDays переводит срок займа в календарные дни с учётом периодичности.
func TermDays(termUnits int, f model.PaymentFrequency) int {
	return termUnits * f.DayFactor()
}

// DueDate возвращает дату погашения: начало срока плюс срок в днях.
func DueDate(start time.Time, termUnits int, f model.PaymentFrequency) time.Time {
	return atMidnight(start).AddDate(0, 0, TermDays(termUnits, f))
}
