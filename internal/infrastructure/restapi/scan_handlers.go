package restapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"account_scanner/internal/app/port"
	"account_scanner/internal/domain/entity"
	"account_scanner/internal/domain/ledger"
)

// ScanRequest is the body of the scan endpoint.
type ScanRequest struct {
	Address    string `json:"address" binding:"required"`
	StartBlock uint64 `json:"startBlock"`
}

// ScanResponse summarizes one scan for the caller. Per-set errors are
// reported separately: a failed token fetch does not invalidate the native
// results delivered in the same scan.
type ScanResponse struct {
	ScanID      string `json:"scanId"`
	Address     string `json:"address"`
	NativeCount int    `json:"nativeCount"`
	TokenCount  int    `json:"tokenCount"`
	Skipped     int    `json:"skippedRecords,omitempty"`
	NativeError string `json:"nativeError,omitempty"`
	TokenError  string `json:"tokenError,omitempty"`
}

// HistoryResponse is one display window of an entry set plus its exact total.
type HistoryResponse struct {
	View     string               `json:"view"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
	Count    int                  `json:"count"`
	Entries  []entity.LedgerEntry `json:"entries"`
	TotalRaw string               `json:"totalRaw"`
	Total    string               `json:"total"`
	Decimals int                  `json:"decimals"`
	SetError string               `json:"setError,omitempty"`
}

// BalanceResponse is the resolved point-in-time balance state. Exactly one of
// balance, noReference or unavailable describes the result; the caller never
// sees a fabricated number.
type BalanceResponse struct {
	Date           string `json:"date"`
	ReferenceBlock uint64 `json:"referenceBlock,omitempty"`
	NoReference    bool   `json:"noReference,omitempty"`
	Unavailable    bool   `json:"unavailable,omitempty"`
	BalanceRaw     string `json:"balanceRaw,omitempty"`
	Balance        string `json:"balance"`
}

// ScanHandler handles HTTP requests for account scans.
type ScanHandler struct {
	scanner port.ScannerService
	balance port.BalanceService
	logger  *zap.Logger
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(scanner port.ScannerService, balance port.BalanceService, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		scanner: scanner,
		balance: balance,
		logger:  logger.Named("ScanHandler"),
	}
}

// PostScan triggers the two transfer queries for an address.
func (h *ScanHandler) PostScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.scanner.Scan(c.Request.Context(), req.Address, req.StartBlock)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Scan failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := ScanResponse{
		ScanID:      outcome.ScanID,
		Address:     outcome.Address,
		NativeCount: outcome.NativeCount,
		TokenCount:  outcome.TokenCount,
		Skipped:     outcome.SkippedCount,
	}
	if outcome.NativeErr != nil {
		resp.NativeError = outcome.NativeErr.Error()
	}
	if outcome.TokenErr != nil {
		resp.TokenError = outcome.TokenErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// GetHistory returns one display window of the selected entry set together
// with the exact aggregated total of the whole set.
func (h *ScanHandler) GetHistory(c *gin.Context) {
	view, ok := parseView(c.DefaultQuery("view", "native"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "view must be native or token"})
		return
	}

	// Absent page means "current page", which is zero right after a scan
	// replaced the set.
	page := -1
	if raw, present := c.GetQuery("page"); present {
		p, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be an integer"})
			return
		}
		page = p
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(ledger.DefaultPageSize)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be an integer"})
		return
	}

	window, err := h.scanner.Window(view, page, pageSize)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidPageSize) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to window entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	total, err := h.scanner.Total(view)
	if err != nil {
		h.logger.Error("Failed to aggregate entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := HistoryResponse{
		View:     view.String(),
		Page:     h.scanner.CurrentPage(view),
		PageSize: pageSize,
		Count:    len(h.scanner.Entries(view)),
		Entries:  window,
		TotalRaw: total.Raw.String(),
		Total:    total.Display,
		Decimals: total.Decimals,
	}
	if setErr := h.scanner.LastError(view); setErr != nil {
		resp.SetError = setErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// GetBalance resolves the scanned account's balance as of a calendar date.
func (h *ScanHandler) GetBalance(c *gin.Context) {
	rawDate := c.Query("date")
	date, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
		return
	}

	result, err := h.balance.BalanceAt(c.Request.Context(), date)
	if err != nil {
		h.logger.Error("Balance lookup failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	resp := BalanceResponse{
		Date:           rawDate,
		ReferenceBlock: result.ReferenceBlock,
		NoReference:    result.NoReference,
		Unavailable:    result.Unavailable,
	}
	switch {
	case result.NoReference:
		resp.Balance = "0"
	case result.Unavailable:
		resp.Balance = "unavailable"
	default:
		resp.BalanceRaw = result.Raw.String()
		resp.Balance = result.Display
	}
	c.JSON(http.StatusOK, resp)
}

func parseView(raw string) (entity.View, bool) {
	switch raw {
	case "native":
		return entity.NativeView, true
	case "token":
		return entity.TokenView, true
	default:
		return 0, false
	}
}
