package engine

import "errors"

// ErrInvalidAmount возвращается при попытке провести неположительный платёж.
var (
	ErrInvalidAmount = errors.New("payment amount must be positive")
	// ErrOverpayment возвращается, если платёж превышает остаток долга.
	ErrOverpayment = errors.New("payment exceeds outstanding balance")
	// ErrLoanClosed возвращается при попытке изменить закрытый займ.
	ErrLoanClosed = errors.New("loan is closed")
	// ErrAlreadyRenewed возвращается при повторной пролонгации займа.
	ErrAlreadyRenewed = errors.New("loan already renewed")
	// ErrNothingToRenew возвращается, если у займа нет остатка долга.
	ErrNothingToRenew = errors.New("no outstanding balance to renew")
	// ErrInvalidTerm возвращается, если новый срок меньше одного периода.
	ErrInvalidTerm = errors.New("renewal term must be at least one period")
	// ErrPaymentNotFound возвращается, если платёж с указанным идентификатором отсутствует.
	ErrPaymentNotFound = errors.New("payment not found")
)
