package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/nimasrn/loanbook/internal/model"
	"github.com/nimasrn/loanbook/pkg/date"
	xhttp "github.com/nimasrn/loanbook/pkg/http"
	"github.com/shopspring/decimal"
)

type LoanLister interface {
	List(ctx context.Context, f model.LoanFilter) ([]model.Loan, int64, error)
}

type BalanceReader interface {
	Balance(ctx context.Context, name string) (decimal.Decimal, error)
	Balances(ctx context.Context) ([]model.Balance, error)
}

// LedgerHandler serves a read-only view of one ledger.
type LedgerHandler struct {
	loans    LoanLister
	balances BalanceReader
	currency string
}

func RegisterLedgerRoutes(e *router.Group, h *LedgerHandler) {
	e.GET("/loans", h.ListLoans)
	e.GET("/balances", h.ListBalances)
	e.GET("/balances/{name}", h.GetBalance)
}

func NewLedgerHandler(loans LoanLister, balances BalanceReader, currency string) *LedgerHandler {
	return &LedgerHandler{
		loans:    loans,
		balances: balances,
		currency: currency,
	}
}

type listResponse struct {
	Items []model.Loan `json:"items"`
	Total int64        `json:"total"`
}

type balanceResponse struct {
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Count    int64           `json:"count,omitempty"`
	Currency string          `json:"currency"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *LedgerHandler) ListLoans(ctx *xhttp.RequestCtx) {
	var f model.LoanFilter

	if v := query(ctx, "name"); v != "" {
		f.Name = &v
	}
	if v := query(ctx, "from"); v != "" {
		d, err := date.Parse(v)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, err.Error())
			return
		}
		f.From = &d
	}
	if v := query(ctx, "to"); v != "" {
		d, err := date.Parse(v)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, err.Error())
			return
		}
		f.To = &d
	}
	if v := query(ctx, "limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(ctx, xhttp.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		f.Limit = n
	}

	items, total, err := h.loans.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if items == nil {
		items = []model.Loan{}
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse{Items: items, Total: total})
}

func (h *LedgerHandler) ListBalances(ctx *xhttp.RequestCtx) {
	balances, err := h.balances.Balances(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	out := make([]balanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, balanceResponse{Name: b.Name, Balance: b.Amount, Count: b.Count, Currency: h.currency})
	}
	writeJSON(ctx, xhttp.StatusOK, out)
}

func (h *LedgerHandler) GetBalance(ctx *xhttp.RequestCtx) {
	name, _ := ctx.UserValue("name").(string)
	if name == "" {
		writeError(ctx, xhttp.StatusBadRequest, "name is required")
		return
	}

	total, err := h.balances.Balance(ctx, name)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, balanceResponse{Name: name, Balance: total, Currency: h.currency})
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrNotFound):
		writeError(ctx, xhttp.StatusNotFound, err.Error())
	default:
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
	}
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}
