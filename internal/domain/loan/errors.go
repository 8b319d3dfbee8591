package loan

import "errors"

// Every error below is a rejection: the triggering call has no effect and no
// value moves. A rejected operation on one loan never affects another.
var (
	ErrInvalidParameters      = errors.New("loan amount, collateral and duration must be positive")
	ErrNotFound               = errors.New("loan not found")
	ErrAlreadyFunded          = errors.New("loan already funded")
	ErrNotFunded              = errors.New("loan not funded")
	ErrIncorrectFundingAmount = errors.New("attached value must equal the loan amount")
	ErrInsufficientRepayment  = errors.New("attached value below required repayment")
	ErrUnauthorized           = errors.New("caller is not the required party")
	ErrSelfFunding            = errors.New("borrower cannot fund own loan")
	ErrNotYetDue              = errors.New("loan is not past its due timestamp")
	ErrAlreadyRepaid          = errors.New("loan already repaid")
	ErrCollateralClaimed      = errors.New("collateral already claimed")
)
