package http

import (
	"net/http"
	"strconv"
	"strings"

	"collateral-loan-ledger/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
)

// Caller identity comes from the Ax-Account-Id header: an opaque 32-char hex
// handle. There is no further notion of identity.
const headerAccountID = "Ax-Account-Id"

type LedgerHandler struct{ uc *ledger.Usecase }

func NewLedgerHandler(uc *ledger.Usecase) *LedgerHandler { return &LedgerHandler{uc: uc} }

type requestLoanReq struct {
	CollateralAmount uint64 `json:"collateral_amount" validate:"required,gt=0"`
	LoanAmount       uint64 `json:"loan_amount"       validate:"required,gt=0"`
	InterestRatePct  uint64 `json:"interest_rate_pct" validate:"lte=10000"`
	DurationSeconds  uint64 `json:"duration_seconds"  validate:"required,gt=0"`
}

type attachedValueReq struct {
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

func caller(c echo.Context) (string, bool) {
	h := strings.TrimSpace(c.Request().Header.Get(headerAccountID))
	return h, reHex32.MatchString(h)
}

func loanIDParam(c echo.Context) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return n, err == nil && n > 0
}

func (h *LedgerHandler) RequestLoan(c echo.Context) error {
	acct, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + headerAccountID})
	}
	var req requestLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.RequestLoan(c.Request().Context(), ledger.RequestLoanInput{
		Caller:           acct,
		CollateralAmount: req.CollateralAmount,
		LoanAmount:       req.LoanAmount,
		InterestRatePct:  req.InterestRatePct,
		DurationSeconds:  req.DurationSeconds,
	})
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LedgerHandler) FundLoan(c echo.Context) error {
	acct, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + headerAccountID})
	}
	id, ok := loanIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var req attachedValueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.FundLoan(c.Request().Context(), ledger.FundLoanInput{
		Caller: acct, LoanID: id, Amount: req.Amount,
	})
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LedgerHandler) RepayLoan(c echo.Context) error {
	acct, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + headerAccountID})
	}
	id, ok := loanIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var req attachedValueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.RepayLoan(c.Request().Context(), ledger.RepayLoanInput{
		Caller: acct, LoanID: id, Amount: req.Amount,
	})
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LedgerHandler) ClaimCollateral(c echo.Context) error {
	acct, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + headerAccountID})
	}
	id, ok := loanIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	dto, err := h.uc.ClaimCollateral(c.Request().Context(), ledger.ClaimCollateralInput{
		Caller: acct, LoanID: id,
	})
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LedgerHandler) GetLoan(c echo.Context) error {
	id, ok := loanIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LedgerHandler) ListEvents(c echo.Context) error {
	id, ok := loanIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	evs, err := h.uc.ListEvents(c.Request().Context(), id)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, evs)
}
