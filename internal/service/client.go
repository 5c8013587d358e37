package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/codegen/internal/config"
	"github.com/set-night/codegen/internal/domain"
	"github.com/set-night/codegen/internal/metrics"
)

// Endpoint labels used in errors, logs and metrics.
const (
	EndpointAuth     = "auth"
	EndpointGenerate = "generate"
	EndpointPayment  = "payment"
)

// jsonClient performs JSON calls against one remote endpoint.
type jsonClient struct {
	endpoint   string
	httpClient *http.Client
	metrics    metrics.Recorder
}

func newJSONClient(endpoint string, timeout time.Duration, rec metrics.Recorder) jsonClient {
	if rec == nil {
		rec = metrics.Noop{}
	}
	return jsonClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    rec,
	}
}

type call struct {
	method string
	url    string
	userID string
	body   any
}

type errorBody struct {
	Error string `json:"error"`
}

// do sends c and decodes a 2xx body into out, returning the response
// status. Non-2xx answers become *domain.RemoteError, transport failures
// *domain.NetworkError.
func (j jsonClient) do(ctx context.Context, c call, out any) (int, error) {
	start := time.Now()
	outcome := metrics.OutcomeSuccess
	defer func() {
		j.metrics.RecordCall(j.endpoint, outcome, time.Since(start))
	}()

	var reqBody io.Reader
	if c.body != nil {
		payload, err := json.Marshal(c.body)
		if err != nil {
			outcome = metrics.OutcomeDecode
			return 0, fmt.Errorf("marshal %s request: %w", j.endpoint, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, c.url, reqBody)
	if err != nil {
		outcome = metrics.OutcomeNetwork
		return 0, fmt.Errorf("create %s request: %w", j.endpoint, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(config.HeaderRequestID, requestID)
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set(config.HeaderUserID, c.userID)
	}

	resp, err := j.httpClient.Do(req)
	if err != nil {
		outcome = metrics.OutcomeNetwork
		return 0, &domain.NetworkError{Endpoint: j.endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxResponseBytes))
	if err != nil {
		outcome = metrics.OutcomeNetwork
		return resp.StatusCode, &domain.NetworkError{Endpoint: j.endpoint, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = metrics.OutcomeRemote
		remote := &domain.RemoteError{Endpoint: j.endpoint, Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			remote.Message = eb.Error
		}
		slog.Debug("remote call failed",
			"endpoint", j.endpoint,
			"status", resp.StatusCode,
			"request_id", requestID,
			"message", remote.Message,
		)
		return resp.StatusCode, remote
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		outcome = metrics.OutcomeDecode
		return resp.StatusCode, fmt.Errorf("parse %s response: %w", j.endpoint, err)
	}
	return resp.StatusCode, nil
}
