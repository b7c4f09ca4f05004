package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/factory"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/metrics"
)

var ErrProviderUnavailable = errors.New("payment provider request failed")

// RegisterPayment is the registration contract of the external provider.
type RegisterPayment struct {
	PaymentID            string            `json:"paymentId"`
	Amount               int64             `json:"amount"`
	PaymentType          string            `json:"paymentType"`
	PaymentAuthorization map[string]string `json:"paymentAuthorization,omitempty"`
}

type Config struct {
	BaseURL     string
	RetryCount  int
	RetryDelay  time.Duration
	HTTPTimeout time.Duration
}

// Connector performs the outbound provider call with a bounded transport
// retry. It never touches payment state; saga-level consequences of an
// exhausted retry budget are the caller's decision.
type Connector struct {
	cfg    Config
	client *http.Client
	logger logrus.FieldLogger
}

func NewConnector(cfg Config) *Connector {
	if cfg.RetryCount <= 0 {
		cfg.RetryCount = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Connector{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: factory.NewModuleLogger("provider-connector"),
	}
}

// Send posts the registration to the provider, retrying failed attempts with
// a fixed delay. Any transport error or non-2xx response counts as a failure.
func (c *Connector) Send(ctx context.Context, payload *RegisterPayment) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := c.cfg.BaseURL + "/register"

	var lastErr error
	for attempt := 0; attempt <= c.cfg.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
		}

		lastErr = c.post(ctx, endpoint, body)
		if lastErr == nil {
			return nil
		}

		metrics.ProviderRequestFailures.Inc()
		c.logger.WithError(lastErr).WithFields(logrus.Fields{
			"payment_id": payload.PaymentID,
			"attempt":    attempt + 1,
		}).Warn("Provider registration attempt failed")
	}

	return fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
}

func (c *Connector) post(ctx context.Context, endpoint string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned status=%d", resp.StatusCode)
	}

	return nil
}
