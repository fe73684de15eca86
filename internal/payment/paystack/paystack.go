package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/artmart-next/internal/metrics"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid   = errors.New("paystack config invalid")
	ErrRequestFailed   = errors.New("paystack request failed")
	ErrResponseInvalid = errors.New("paystack response invalid")
	ErrRejected        = errors.New("paystack rejected request")
)

const (
	defaultAPIBaseURL = "https://api.paystack.co"
	defaultTimeout    = 12 * time.Second
	defaultCountry    = "nigeria"
)

// Config Paystack 接入配置。
type Config struct {
	SecretKey        string          `json:"secret_key"`
	APIBaseURL       string          `json:"api_base_url"`
	Country          string          `json:"country"`
	PercentageCharge decimal.Decimal `json:"percentage_charge"`
	Timeout          time.Duration   `json:"-"`
}

// Bank 银行信息。
type Bank struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Slug   string `json:"slug"`
	Active bool   `json:"active"`
}

// ResolvedAccount 账户解析结果。
type ResolvedAccount struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

// SubAccountInput 创建子账户输入。
type SubAccountInput struct {
	BusinessName  string
	BankCode      string
	AccountNumber string
	Description   string
}

// SubAccount 子账户创建结果。
type SubAccount struct {
	SubaccountCode string `json:"subaccount_code"`
	BusinessName   string `json:"business_name"`
}

// envelope Paystack 统一响应结构。
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client Paystack REST 客户端。
type Client struct {
	cfg  Config
	http *http.Client
}

// ValidateConfig 校验配置。
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	if cfg.PercentageCharge.IsNegative() || cfg.PercentageCharge.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: percentage_charge must be within 0..100", ErrConfigInvalid)
	}
	return nil
}

// NewClient 创建客户端。
func NewClient(cfg Config) *Client {
	cfg.normalize()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Config) normalize() {
	c.SecretKey = strings.TrimSpace(c.SecretKey)
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	c.Country = strings.ToLower(strings.TrimSpace(c.Country))
	if c.Country == "" {
		c.Country = defaultCountry
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// ResolveAccount 校验账号与银行编码是否对应同一真实账户。
func (c *Client) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*ResolvedAccount, error) {
	query := url.Values{}
	query.Set("account_number", strings.TrimSpace(accountNumber))
	query.Set("bank_code", strings.TrimSpace(bankCode))

	var out ResolvedAccount
	if err := c.call(ctx, "resolve_account", http.MethodGet, "/bank/resolve?"+query.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.AccountName) == "" {
		return nil, fmt.Errorf("%w: account_name missing", ErrResponseInvalid)
	}
	return &out, nil
}

// CreateSubAccount 为艺术家创建结算子账户。
func (c *Client) CreateSubAccount(ctx context.Context, input SubAccountInput) (*SubAccount, error) {
	charge, _ := c.cfg.PercentageCharge.Float64()
	body := map[string]interface{}{
		"business_name":     strings.TrimSpace(input.BusinessName),
		"settlement_bank":   strings.TrimSpace(input.BankCode),
		"account_number":    strings.TrimSpace(input.AccountNumber),
		"percentage_charge": charge,
		"description":       strings.TrimSpace(input.Description),
	}
	var out SubAccount
	if err := c.call(ctx, "create_subaccount", http.MethodPost, "/subaccount", body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.SubaccountCode) == "" {
		return nil, fmt.Errorf("%w: subaccount_code missing", ErrResponseInvalid)
	}
	return &out, nil
}

// ListBanks 获取配置国家的银行列表。
func (c *Client) ListBanks(ctx context.Context) ([]Bank, error) {
	query := url.Values{}
	query.Set("country", c.cfg.Country)
	var banks []Bank
	if err := c.call(ctx, "list_banks", http.MethodGet, "/bank?"+query.Encode(), nil, &banks); err != nil {
		return nil, err
	}
	return banks, nil
}

func (c *Client) call(ctx context.Context, operation, method, path string, payload interface{}, out interface{}) (err error) {
	started := time.Now()
	defer func() {
		metrics.PaystackRequestsTotal.WithLabelValues(operation, metrics.Result(err)).Inc()
		metrics.PaystackLatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	}()

	if c.cfg.SecretKey == "" {
		return fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	body, status, err := c.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	env, err := decodeEnvelope(body)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 || !env.Status {
		return fmt.Errorf("%w: status=%d message=%s", ErrRejected, status, env.Message)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data failed", ErrResponseInvalid)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: encode payload failed", ErrRequestFailed)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIBaseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	return body, resp.StatusCode, nil
}

func decodeEnvelope(body []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return &env, nil
}
