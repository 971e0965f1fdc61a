package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"asconsole/pkg/config"
	apperrors "asconsole/pkg/errors"
	"asconsole/pkg/logging"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const maxResponseBytes = 4 << 20

// Client executes management operations against one endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Entry
}

func NewClient(cfg config.ConsoleConfig) *Client {
	return NewClientForURL(cfg.BaseURL(), cfg.RequestTimeout())
}

// NewClientForURL targets an explicit endpoint URL.
func NewClientForURL(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: logging.Logger("dispatch"),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Execute sends op and returns the "result" node of a successful response.
// An outcome of "failed" becomes an OPERATION_FAILED error carrying the
// failure description.
func (c *Client) Execute(ctx context.Context, op Operation) (gjson.Result, error) {
	if err := op.Validate(); err != nil {
		return gjson.Result{}, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid operation", err)
	}

	payload, err := json.Marshal(op)
	if err != nil {
		return gjson.Result{}, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "marshal operation", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/management", bytes.NewReader(payload))
	if err != nil {
		return gjson.Result{}, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "create management request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.log.WithFields(logrus.Fields{"operation": op.Operation, "address": op.Address.String()}).Debug("dispatch")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, apperrors.Wrap(apperrors.ErrCodeUnavailable, "send management request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return gjson.Result{}, apperrors.Wrap(apperrors.ErrCodeUnavailable, "read management response", err)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, apperrors.New(apperrors.ErrCodeInternal,
			fmt.Sprintf("endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	parsed := gjson.ParseBytes(body)
	switch outcome := parsed.Get("outcome").String(); outcome {
	case OutcomeSuccess:
		return parsed.Get("result"), nil
	case OutcomeFailed:
		return gjson.Result{}, apperrors.WrapWithContext(apperrors.ErrCodeOperationFailed,
			fmt.Sprintf("%s failed", op.Operation),
			fmt.Errorf("%s", parsed.Get("failure-description").String()),
			map[string]any{"address": op.Address.String(), "status": resp.StatusCode})
	default:
		return gjson.Result{}, apperrors.New(apperrors.ErrCodeInternal,
			fmt.Sprintf("unexpected outcome %q (status %d)", outcome, resp.StatusCode))
	}
}

func (c *Client) ReadChildrenNames(ctx context.Context, addr Address, childType string) ([]string, error) {
	result, err := c.Execute(ctx, Operation{Operation: OpReadChildrenNames, Address: addr, ChildType: childType})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(result.Array()))
	for _, name := range result.Array() {
		names = append(names, name.String())
	}
	return names, nil
}

// ReadResource returns the attributes of the addressed resource. Numbers come
// back as float64, lists as []any.
func (c *Client) ReadResource(ctx context.Context, addr Address) (map[string]any, error) {
	result, err := c.Execute(ctx, Operation{Operation: OpReadResource, Address: addr})
	if err != nil {
		return nil, err
	}
	if !result.IsObject() {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "read-resource result is not an object")
	}
	attrs := make(map[string]any)
	result.ForEach(func(key, value gjson.Result) bool {
		attrs[key.String()] = value.Value()
		return true
	})
	return attrs, nil
}

func (c *Client) ReadAttribute(ctx context.Context, addr Address, name string) (any, error) {
	result, err := c.Execute(ctx, Operation{Operation: OpReadAttribute, Address: addr, Name: name})
	if err != nil {
		return nil, err
	}
	return result.Value(), nil
}

func (c *Client) WriteAttribute(ctx context.Context, addr Address, name string, value any) error {
	_, err := c.Execute(ctx, Operation{Operation: OpWriteAttribute, Address: addr, Name: name, Value: value})
	return err
}

// FetchMetrics scrapes the endpoint's Prometheus text exposition.
func (c *Client) FetchMetrics(ctx context.Context) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/metrics", nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "create metrics request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "send metrics request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, apperrors.New(apperrors.ErrCodeUnavailable,
			fmt.Sprintf("endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(message))))
	}

	return ParseMetrics(resp.Body)
}

// ParseMetrics decodes Prometheus text format into metric families.
func ParseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	parser := expfmt.NewTextParser(model.UTF8Validation)
	families, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "parse metrics", err)
	}
	return families, nil
}
