// Package inference calls the hosted lesion-classification collaborator:
// a single blocking invocation that takes a prompt plus image URLs and
// returns structured classification JSON. There is no retry; a failed call
// aborts the capture flow that issued it.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/skinsight/dermascan/internal/config"
	"github.com/skinsight/dermascan/internal/domain/scan"
)

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("analysis service unavailable")

// Result is the validated classification returned by the collaborator.
type Result struct {
	Classification  scan.Classification
	ConfidenceScore float64
	RiskLevel       scan.RiskLevel
	AnalysisDetails *scan.AnalysisDetails
	Recommendations []string
}

type invokeRequest struct {
	Prompt             string         `json:"prompt"`
	FileURLs           []string       `json:"file_urls"`
	ResponseJSONSchema map[string]any `json:"response_json_schema"`
}

type invokeResponse struct {
	Classification  string                `json:"classification"`
	ConfidenceScore float64               `json:"confidence_score"`
	RiskLevel       string                `json:"risk_level"`
	AnalysisDetails *scan.AnalysisDetails `json:"analysis_details"`
	Recommendations []string              `json:"recommendations"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*Result]
	log     *zap.Logger
}

func NewClient(cfg config.InferenceConfig, log *zap.Logger) *Client {
	c := &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}

	c.breaker = gobreaker.NewCircuitBreaker[*Result](gobreaker.Settings{
		Name:    "inference",
		Timeout: cfg.BreakerOpenInterval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("inference breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return c
}

// Invoke sends the prompt and image URLs to the collaborator and blocks
// until the full response arrives. The response is validated at the
// boundary: non-conforming fields are defaulted rather than trusted.
func (c *Client) Invoke(ctx context.Context, prompt string, fileURLs []string) (*Result, error) {
	res, err := c.breaker.Execute(func() (*Result, error) {
		return c.invoke(ctx, prompt, fileURLs)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit breaker is open", ErrUnavailable)
		}
		return nil, err
	}
	return res, nil
}

func (c *Client) invoke(ctx context.Context, prompt string, fileURLs []string) (*Result, error) {
	body, err := json.Marshal(invokeRequest{
		Prompt:             prompt,
		FileURLs:           fileURLs,
		ResponseJSONSchema: classificationSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/invoke", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api_key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling inference collaborator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("inference collaborator returned status %d: %s", resp.StatusCode, msg)
	}

	var raw invokeResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	c.log.Debug("inference completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.String("classification", raw.Classification),
	)

	return normalize(raw), nil
}

// normalize validates the collaborator response against the documented
// schema, defaulting fields that do not conform.
func normalize(raw invokeResponse) *Result {
	r := &Result{
		Classification:  scan.Classification(raw.Classification),
		ConfidenceScore: raw.ConfidenceScore,
		RiskLevel:       scan.RiskLevel(raw.RiskLevel),
		AnalysisDetails: raw.AnalysisDetails,
		Recommendations: raw.Recommendations,
	}

	if !r.Classification.IsValid() {
		r.Classification = scan.ClassUnknown
	}
	if !r.RiskLevel.IsValid() {
		r.RiskLevel = scan.RiskLow
	}
	if r.ConfidenceScore < 0 {
		r.ConfidenceScore = 0
	} else if r.ConfidenceScore > 100 {
		r.ConfidenceScore = 100
	}

	return r
}
