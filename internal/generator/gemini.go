package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/ayusman/voxcraft/internal/voxel"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-3-pro-preview"
	DefaultTimeout = 90 * time.Second
)

// BreakerConfig controls when repeated upstream failures open the circuit.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns breaker settings suited to an interactive
// single-user client.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// Config holds Gemini client settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Breaker BreakerConfig
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Breaker == (BreakerConfig{}) {
		c.Breaker = DefaultBreakerConfig()
	}
	return c
}

// Gemini calls the generateContent endpoint with a JSON response schema.
type Gemini struct {
	config Config
	client *http.Client
	cb     *gobreaker.CircuitBreaker
	parser *Parser
	log    *zap.Logger
}

// NewGemini creates a client. An empty API key is rejected.
func NewGemini(config Config, log *zap.Logger) (*Gemini, error) {
	if config.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	config = config.withDefaults()

	bc := config.Breaker
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= bc.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Gemini{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		cb:     cb,
		parser: NewParser(),
		log:    log,
	}, nil
}

// State reports the circuit breaker state.
func (g *Gemini) State() gobreaker.State {
	return g.cb.State()
}

// Generate asks the model for a structure matching prompt.
func (g *Gemini) Generate(ctx context.Context, prompt string) (voxel.Structure, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return voxel.Structure{}, ErrEmptyPrompt
	}

	out, err := g.cb.Execute(func() (interface{}, error) {
		return g.call(ctx, PromptFor(prompt))
	})
	if err != nil {
		return voxel.Structure{}, fmt.Errorf("gemini: %w", err)
	}

	st, err := g.parser.Parse(out.(string))
	if err != nil {
		return voxel.Structure{}, fmt.Errorf("gemini: %w", err)
	}
	g.log.Debug("structure generated",
		zap.String("name", st.Name),
		zap.Int("voxels", len(st.Voxels)))
	return st, nil
}

func (g *Gemini) call(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(requestBody(prompt))
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?%s",
		strings.TrimSuffix(g.config.BaseURL, "/"),
		url.PathEscape(g.config.Model),
		url.Values{"key": {g.config.APIKey}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	g.log.Debug("gemini responded",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(data), 512))
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return parsed.text(), nil
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

func requestBody(prompt string) map[string]interface{} {
	integer := map[string]string{"type": "INTEGER"}
	return map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema": map[string]interface{}{
				"type": "OBJECT",
				"properties": map[string]interface{}{
					"name": map[string]string{"type": "STRING"},
					"voxels": map[string]interface{}{
						"type": "ARRAY",
						"items": map[string]interface{}{
							"type": "OBJECT",
							"properties": map[string]interface{}{
								"x":     integer,
								"y":     integer,
								"z":     integer,
								"color": map[string]string{"type": "STRING"},
							},
							"required": []string{"x", "y", "z", "color"},
						},
					},
				},
				"required": []string{"name", "voxels"},
			},
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
