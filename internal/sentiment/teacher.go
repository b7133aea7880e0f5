package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// Teacher is a client for a pretrained transformer sentiment model served
// over a HuggingFace-style text-classification API. The endpoint is probed
// once at construction; if it is unreachable the teacher stays degraded for
// the process lifetime and every Predict call returns ErrTeacherUnavailable.
type Teacher struct {
	endpoint  string
	model     string
	apiKey    string
	truncate  int
	client    *http.Client
	available bool
}

// NewTeacher creates a teacher client and probes the inference endpoint.
// apiKeyEnv names the environment variable holding the bearer token, if any.
func NewTeacher(endpoint, model, apiKeyEnv string, truncateTokens int) *Teacher {
	if truncateTokens <= 0 {
		truncateTokens = 512
	}
	t := &Teacher{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		truncate: truncateTokens,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	if apiKeyEnv != "" {
		t.apiKey = os.Getenv(apiKeyEnv)
	}

	t.available = t.probe()
	if !t.available {
		log.Printf("sentiment model %q unreachable at %s; falling back to lexicon scoring", model, endpoint)
	}
	return t
}

// Available reports whether the model endpoint answered the startup probe.
func (t *Teacher) Available() bool {
	return t.available
}

// Predict classifies text with the remote model. Input is truncated to the
// first truncate whitespace tokens to respect the model's input limit.
func (t *Teacher) Predict(ctx context.Context, text string) (Prediction, error) {
	if !t.available {
		return neutral(), ErrTeacherUnavailable
	}
	if strings.TrimSpace(text) == "" {
		p := neutral()
		p.Model = ModelTeacher
		return p, nil
	}

	label, score, err := t.classify(ctx, truncateTokens(text, t.truncate))
	if err != nil {
		return neutral(), fmt.Errorf("%w: %v", ErrTeacherUnavailable, err)
	}

	return Prediction{Label: mapModelLabel(label), Confidence: score, Model: ModelTeacher}, nil
}

func (t *Teacher) classify(ctx context.Context, text string) (string, float64, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return "", 0, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.endpoint+"/models/"+t.model, bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("inference returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return parseClassification(data)
}

// probe sends a trivial classification with a short timeout to decide
// availability at startup.
func (t *Teacher) probe() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, _, err := t.classify(ctx, "ok")
	return err == nil
}

type classScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// parseClassification accepts both response shapes the API serves:
// [[{label, score}, ...]] for single inputs and a flat [{label, score}, ...].
// The highest-scoring class wins.
func parseClassification(data []byte) (string, float64, error) {
	var nested [][]classScore
	if err := json.Unmarshal(data, &nested); err == nil && len(nested) > 0 {
		return topClass(nested[0])
	}

	var flat []classScore
	if err := json.Unmarshal(data, &flat); err == nil {
		return topClass(flat)
	}

	return "", 0, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(data)))
}

func topClass(scores []classScore) (string, float64, error) {
	if len(scores) == 0 {
		return "", 0, fmt.Errorf("empty classification response")
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Label, best.Score, nil
}

// mapModelLabel converts the model's label vocabulary to ours. SST-2 style
// models report POSITIVE/NEGATIVE; some checkpoints report LABEL_0/LABEL_1.
func mapModelLabel(label string) Label {
	upper := strings.ToUpper(label)
	switch {
	case strings.Contains(upper, "POSITIVE"), strings.Contains(upper, "LABEL_1"):
		return Positive
	case strings.Contains(upper, "NEGATIVE"), strings.Contains(upper, "LABEL_0"):
		return Negative
	default:
		return Neutral
	}
}

func truncateTokens(text string, max int) string {
	fields := strings.Fields(text)
	if len(fields) <= max {
		return text
	}
	return strings.Join(fields[:max], " ")
}
