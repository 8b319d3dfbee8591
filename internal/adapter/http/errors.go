package http

import (
	"errors"
	"net/http"

	"collateral-loan-ledger/internal/domain/loan"
	"collateral-loan-ledger/internal/domain/vault"
)

// statusFor maps domain rejections to stable HTTP statuses. Anything
// unrecognized is a 500; domain errors are never fatal to the ledger.
func statusFor(err error) int {
	switch {
	case errors.Is(err, loan.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loan.ErrInvalidParameters):
		return http.StatusBadRequest
	case errors.Is(err, loan.ErrUnauthorized), errors.Is(err, loan.ErrSelfFunding):
		return http.StatusForbidden
	case errors.Is(err, loan.ErrIncorrectFundingAmount),
		errors.Is(err, loan.ErrInsufficientRepayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, loan.ErrAlreadyFunded),
		errors.Is(err, loan.ErrNotFunded),
		errors.Is(err, loan.ErrNotYetDue),
		errors.Is(err, loan.ErrAlreadyRepaid),
		errors.Is(err, loan.ErrCollateralClaimed):
		return http.StatusConflict
	case errors.Is(err, vault.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
