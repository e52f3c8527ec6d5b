package apperrors

import "errors"

var (
	// Ledger rejections, checked in this order per operation.
	ErrInvalidDate              = errors.New("event date must be in the future")
	ErrInvalidTicketCount       = errors.New("event needs at least one ticket")
	ErrUnknownEvent             = errors.New("unknown event")
	ErrIncorrectPayment         = errors.New("payment does not match ticket cost")
	ErrInsufficientTickets      = errors.New("not enough tickets remaining")
	ErrInsufficientOwnedTickets = errors.New("not enough owned tickets to transfer")

	ErrJournalCorrupted    = errors.New("journal corrupted")
	ErrSeqConflict         = errors.New("seq already published with different content")
	ErrMissingCaller       = errors.New("caller account required")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
)
