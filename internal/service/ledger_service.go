package service

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/openpool/purseledger/internal/ledger"
	"github.com/openpool/purseledger/internal/metrics"
	"github.com/openpool/purseledger/internal/middleware"
	"github.com/openpool/purseledger/internal/models"
	"github.com/openpool/purseledger/internal/transfer"
)

// LedgerService exposes the purchase ledger over HTTP. All routes require an
// authenticated caller; the account name from the token is the identity the
// ledger operates on.
type LedgerService struct {
	ledger  *ledger.Ledger
	bank    *transfer.Bank
	metrics *metrics.Metrics
}

// NewLedgerService creates a LedgerService. The bank is the in-process
// transfer collaborator; it backs the deposit/authorize account endpoints.
// metrics may be nil.
func NewLedgerService(l *ledger.Ledger, bank *transfer.Bank, m *metrics.Metrics) *LedgerService {
	return &LedgerService{ledger: l, bank: bank, metrics: m}
}

// Register attaches the ledger routes to mux, each wrapped with authn.
func (s *LedgerService) Register(mux *http.ServeMux, authn func(http.Handler) http.Handler) {
	routes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"POST /v1/purchases", s.addPurchase},
		{"GET /v1/purchases", s.listPurchases},
		{"GET /v1/purchases/{id}", s.getPurchase},
		{"GET /v1/purchases/{id}/contributors", s.getContributors},
		{"GET /v1/purchases/{id}/contributions", s.getContributions},
		{"DELETE /v1/purchases/{id}", s.removePurchase},
		{"POST /v1/withdraw", s.withdraw},
		{"GET /v1/balance", s.poolBalance},
		{"POST /v1/accounts/deposit", s.deposit},
		{"POST /v1/accounts/authorize", s.authorize},
	}
	for _, r := range routes {
		mux.Handle(r.pattern, authn(r.handler))
	}
}

func (s *LedgerService) recordFailure(kind string) {
	if s.metrics != nil {
		s.metrics.RecordFailure(kind)
	}
}

// writeError maps a ledger error onto the response and counts the failure.
func (s *LedgerService) writeError(w http.ResponseWriter, err error) {
	status, kind := classify(err)
	s.recordFailure(kind)
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

// purchaseJSON is the wire form of a purchase record.
type purchaseJSON struct {
	ID            uint64   `json:"id"`
	Amount        int64    `json:"amount"`
	Payer         string   `json:"payer,omitempty"`
	IsSplit       bool     `json:"is_split"`
	Contributors  []string `json:"contributors"`
	Contributions []int64  `json:"contributions"`
	CreatedAt     int64    `json:"created_at,omitempty"`
	Deleted       bool     `json:"deleted"`
}

func toPurchaseJSON(p models.Purchase, id uint64) purchaseJSON {
	out := purchaseJSON{
		ID:            id,
		Amount:        p.Amount,
		Payer:         p.Payer,
		IsSplit:       p.IsSplit,
		Contributors:  p.Contributors,
		Contributions: p.Contributions,
		CreatedAt:     p.CreatedAt,
		Deleted:       p.IsZero(),
	}
	if out.Contributors == nil {
		out.Contributors = []string{}
	}
	if out.Contributions == nil {
		out.Contributions = []int64{}
	}
	return out
}

func (s *LedgerService) addPurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount        int64    `json:"amount"`
		Contributors  []string `json:"contributors"`
		Contributions []int64  `json:"contributions"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.recordFailure("bad_request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	caller := middleware.GetAccount(r.Context())
	id, err := s.ledger.AddPurchase(r.Context(), caller, req.Amount, req.Contributors, req.Contributions)
	if err != nil {
		slog.Warn("AddPurchase failed", "caller", caller, "error", err)
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]uint64{"id": id})
}

func (s *LedgerService) listPurchases(w http.ResponseWriter, r *http.Request) {
	records := s.ledger.Records()
	out := make([]purchaseJSON, len(records))
	for i, rec := range records {
		out[i] = toPurchaseJSON(rec, uint64(i))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(out),
		"purchases": out,
	})
}

// parseID reads the {id} path value. Non-numeric ids are NotFound: they can
// never name an assigned record.
func (s *LedgerService) parseID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		s.recordFailure("not_found")
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "record does not exist", Kind: "not_found"})
		return 0, false
	}
	return id, true
}

func (s *LedgerService) getPurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	rec, err := s.ledger.RecordAt(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPurchaseJSON(rec, id))
}

func (s *LedgerService) getContributors(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	contributors, err := s.ledger.Contributors(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if contributors == nil {
		contributors = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"contributors": contributors})
}

func (s *LedgerService) getContributions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	contributions, err := s.ledger.Contributions(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if contributions == nil {
		contributions = []int64{}
	}
	writeJSON(w, http.StatusOK, map[string][]int64{"contributions": contributions})
}

func (s *LedgerService) removePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}

	caller := middleware.GetAccount(r.Context())
	if err := s.ledger.RemovePurchase(r.Context(), caller, id); err != nil {
		slog.Warn("RemovePurchase failed", "caller", caller, "id", id, "error", err)
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"id": id})
}

func (s *LedgerService) withdraw(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.recordFailure("bad_request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	caller := middleware.GetAccount(r.Context())
	if err := s.ledger.Withdraw(r.Context(), caller, req.Amount); err != nil {
		slog.Warn("Withdraw failed", "caller", caller, "amount", req.Amount, "error", err)
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"amount": req.Amount})
}

func (s *LedgerService) poolBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.ledger.PoolBalance(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

// deposit credits the caller's own account at the in-process bank.
func (s *LedgerService) deposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	caller := middleware.GetAccount(r.Context())
	if err := s.bank.Deposit(caller, req.Amount); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	balance, _ := s.bank.BalanceOf(r.Context(), caller)
	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

// authorize grants the pool permission to pull up to the given amount from
// the caller's account, on top of any remaining authorization.
func (s *LedgerService) authorize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	caller := middleware.GetAccount(r.Context())
	if err := s.bank.Authorize(caller, req.Amount); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"authorized": s.bank.Allowance(caller)})
}
