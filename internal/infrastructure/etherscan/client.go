package etherscan

import (
	"context"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	domain "account_scanner/internal/domain/entity"
	"account_scanner/internal/entity"
	"account_scanner/internal/pkg/amount"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	moduleAccount        = "account"
	actionTxList         = "txlist"
	actionTokenTx        = "tokentx"
	actionBalanceHistory = "balancehistory"

	noTransactionsMessage = "No transactions found"
)

// Client talks to an Etherscan-compatible account API. Requests are paced by
// a token-bucket limiter so a free-tier key is not tripped by the two
// concurrent transfer queries a scan issues.
type Client struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a new Etherscan API client.
func NewClient(baseURL, apiKey string, timeout time.Duration, reqPerSecond, burst int, logger *zap.Logger) *Client {
	return &Client{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(reqPerSecond), burst),
		logger:  logger.Named("EtherscanClient"),
	}
}

// NativeTransfers fetches the native-currency transfer history of an address,
// sorted most recent first.
func (c *Client) NativeTransfers(ctx context.Context, address string, startBlock, endBlock uint64) ([]entity.NativeTxRecord, error) {
	body, err := c.get(ctx, c.accountURL(actionTxList, address, startBlock, endBlock))
	if err != nil {
		return nil, err
	}

	var resp entity.AccountTxResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Failed to unmarshal txlist response", zap.Error(err))
		return nil, errors.Wrap(err, "failed to unmarshal txlist response")
	}
	if resp.Status != "1" {
		if resp.Message == noTransactionsMessage {
			return []entity.NativeTxRecord{}, nil
		}
		return nil, errors.Errorf("txlist query rejected: %s", resp.Message)
	}
	return resp.Result, nil
}

// TokenTransfers fetches the token transfer history of an address, sorted
// most recent first.
func (c *Client) TokenTransfers(ctx context.Context, address string, startBlock, endBlock uint64) ([]entity.TokenTxRecord, error) {
	body, err := c.get(ctx, c.accountURL(actionTokenTx, address, startBlock, endBlock))
	if err != nil {
		return nil, err
	}

	var resp entity.TokenTxResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Failed to unmarshal tokentx response", zap.Error(err))
		return nil, errors.Wrap(err, "failed to unmarshal tokentx response")
	}
	if resp.Status != "1" {
		if resp.Message == noTransactionsMessage {
			return []entity.TokenTxRecord{}, nil
		}
		return nil, errors.Errorf("tokentx query rejected: %s", resp.Message)
	}
	return resp.Result, nil
}

// BalanceAtBlock fetches the raw native balance of an address as of the given
// block. The balancehistory action is gated behind the provider's paid tier;
// a tier rejection surfaces as entity.ErrBalanceUnavailable so the caller can
// present an explicit "unavailable" state.
func (c *Client) BalanceAtBlock(ctx context.Context, address string, blockNumber uint64) (*big.Int, error) {
	params := url.Values{}
	params.Set("module", moduleAccount)
	params.Set("action", actionBalanceHistory)
	params.Set("address", address)
	params.Set("blockno", fmt.Sprintf("%d", blockNumber))
	params.Set("apikey", c.apiKey)

	body, err := c.get(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp entity.BalanceHistoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Failed to unmarshal balancehistory response", zap.Error(err))
		return nil, errors.Wrap(err, "failed to unmarshal balancehistory response")
	}
	if resp.Status != "1" {
		if isTierRejection(resp.Message, resp.Result) {
			c.logger.Warn("Balance history requires a PRO API key",
				zap.String("message", resp.Message))
			return nil, domain.ErrBalanceUnavailable
		}
		return nil, errors.Errorf("balancehistory query rejected: %s", resp.Message)
	}
	return amount.Parse(resp.Result)
}

func (c *Client) accountURL(action, address string, startBlock, endBlock uint64) string {
	params := url.Values{}
	params.Set("module", moduleAccount)
	params.Set("action", action)
	params.Set("address", address)
	params.Set("startblock", fmt.Sprintf("%d", startBlock))
	params.Set("endblock", fmt.Sprintf("%d", endBlock))
	params.Set("sort", "desc")
	params.Set("apikey", c.apiKey)
	return c.baseURL + "?" + params.Encode()
}

func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter wait aborted")
	}

	c.logger.Debug("Requesting ledger API", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute request", zap.String("url", requestURL), zap.Error(err))
			return nil, errors.Wrapf(err, "failed to execute request to %s", requestURL)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute request (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return nil, errors.Wrapf(err, "failed to execute request to %s with default timeout", requestURL)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Ledger API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()),
		)
		return nil, errors.Errorf("ledger API request failed with status %d", resp.StatusCode())
	}

	// fasthttp reuses response buffers after release.
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

func isTierRejection(message, result string) bool {
	combined := strings.ToLower(message + " " + result)
	return strings.Contains(combined, "pro") || strings.Contains(combined, "invalid api key")
}
