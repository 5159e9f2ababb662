package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Domenick1991/tourbooking/config"
	"github.com/Domenick1991/tourbooking/internal/circuitbreaker"
	"go.uber.org/zap"
)

const initPath = "/gwprocess/v4/api.php"

type SessionRequest struct {
	Address       string
	Email         string
	PhoneNumber   string
	Name          string
	Amount        float64
	TransactionID string
}

// Session is the gateway's answer to an init request. RedirectURL is empty
// when the gateway declined to open a session.
type Session struct {
	Status       string
	RedirectURL  string
	FailedReason string
}

type initResponse struct {
	Status         string `json:"status"`
	GatewayPageURL string `json:"GatewayPageURL"`
	FailedReason   string `json:"failedreason"`
}

type SSLCommerzClient struct {
	cfg     config.GatewayConfig
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewSSLCommerzClient(cfg config.GatewayConfig, logger *zap.Logger) *SSLCommerzClient {
	return &SSLCommerzClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout()},
		breaker: circuitbreaker.NewCircuitBreaker(cfg.MaxFailures, cfg.ResetTimeout()),
		logger:  logger,
	}
}

func (c *SSLCommerzClient) InitSession(ctx context.Context, req SessionRequest) (*Session, error) {
	var session *Session
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		session, err = c.initSession(ctx, req)
		return err
	})
	if err != nil {
		c.logger.Error("gateway init failed",
			zap.String("transaction_id", req.TransactionID),
			zap.String("breaker", c.breaker.State().String()),
			zap.Error(err))
		return nil, err
	}
	return session, nil
}

func (c *SSLCommerzClient) initSession(ctx context.Context, req SessionRequest) (*Session, error) {
	form := c.form(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.cfg.BaseURL, "/")+initPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway responded %d", resp.StatusCode)
	}

	var parsed initResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	return &Session{
		Status:       parsed.Status,
		RedirectURL:  parsed.GatewayPageURL,
		FailedReason: parsed.FailedReason,
	}, nil
}

func (c *SSLCommerzClient) form(req SessionRequest) url.Values {
	amount := strconv.FormatFloat(req.Amount, 'f', 2, 64)

	form := url.Values{}
	form.Set("store_id", c.cfg.StoreID)
	form.Set("store_passwd", c.cfg.StorePassword)
	form.Set("total_amount", amount)
	form.Set("currency", c.cfg.Currency)
	form.Set("tran_id", req.TransactionID)
	form.Set("success_url", c.callbackURL("success", req.TransactionID, amount))
	form.Set("fail_url", c.callbackURL("fail", req.TransactionID, amount))
	form.Set("cancel_url", c.callbackURL("cancel", req.TransactionID, amount))
	form.Set("shipping_method", "N")
	form.Set("product_name", "Tour")
	form.Set("product_category", "Service")
	form.Set("product_profile", "general")
	form.Set("cus_name", req.Name)
	form.Set("cus_email", req.Email)
	form.Set("cus_add1", req.Address)
	form.Set("cus_city", "N/A")
	form.Set("cus_country", "Bangladesh")
	form.Set("cus_phone", req.PhoneNumber)
	return form
}

func (c *SSLCommerzClient) callbackURL(status, transactionID, amount string) string {
	q := url.Values{}
	q.Set("transactionId", transactionID)
	q.Set("amount", amount)
	q.Set("status", status)
	return strings.TrimRight(c.cfg.CallbackBaseURL, "/") + "/payment/" + status + "?" + q.Encode()
}
