// v1
// internal/reasoning/client.go
package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client talks to a chat-completions shaped reasoning endpoint. Every call is
// bounded by the configured timeout and routed through the breaker; any
// failure surfaces as ErrUnavailable so the caller's heuristic fallback is
// reachable from a single call site.
type Client struct {
	url     string
	model   string
	apiKey  string
	timeout time.Duration
	hc      *http.Client
	breaker *Breaker
	lg      *slog.Logger
}

func NewClient(url, model, apiKey string, timeout time.Duration, breaker *Breaker, lg *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:     url,
		model:   model,
		apiKey:  apiKey,
		timeout: timeout,
		hc:      &http.Client{Timeout: timeout},
		breaker: breaker,
		lg:      lg,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Infer sends the entity context and heuristic precomputation, then parses
// ACTION:/ANOMALY:/ENERGY_KW:/NARRATIVE lines out of the reply.
func (c *Client) Infer(ctx context.Context, req Request) (Response, error) {
	var resp Response
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		cctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		r, err := c.call(cctx, req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		c.lg.Warn("inference call failed", "layer", req.Layer, "entity", req.EntityID, "error", err)
		return Response{}, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return resp, nil
}

func (c *Client) call(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(req.Layer)},
			{Role: "user", Content: buildPrompt(req)},
		},
	})
	if err != nil {
		return Response{}, err
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	hreq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		hreq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	hres, err := c.hc.Do(hreq)
	if err != nil {
		return Response{}, err
	}
	defer hres.Body.Close()
	if hres.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(hres.Body, 1024))
		return Response{}, fmt.Errorf("reasoning endpoint returned %d", hres.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(hres.Body).Decode(&cr); err != nil {
		return Response{}, fmt.Errorf("decode reply: %w", err)
	}
	if len(cr.Choices) == 0 {
		return Response{}, fmt.Errorf("reply carries no choices")
	}
	return parseReply(cr.Choices[0].Message.Content), nil
}

func systemPrompt(layer Layer) string {
	switch layer {
	case LayerBuilding:
		return "You optimize one campus building. Reply with ACTION: lines for building-wide measures and one NARRATIVE: line summarizing the building."
	case LayerCampus:
		return "You are the campus sustainability director. Reply with CAMPUS POLICY: lines and one NARRATIVE: line."
	default:
		return "You analyze one campus room. Reply with ACTION: lines, ANOMALY: lines, and optionally one ENERGY_KW: <number> line with your refined estimate."
	}
}

func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Entity %s (%s layer)\n%s\n", req.EntityID, req.Layer, req.Summary)
	for k, v := range req.Facts {
		fmt.Fprintf(&b, "- %s: %s\n", k, v)
	}
	fmt.Fprintf(&b, "Heuristic estimates: energy %.2f kW, water %.2f L/h\n", req.HeuristicEnergyKW, req.HeuristicWaterLPH)
	if len(req.Anomalies) > 0 {
		fmt.Fprintf(&b, "Detected anomalies: %s\n", strings.Join(req.Anomalies, ", "))
	}
	if len(req.Recommendations) > 0 {
		fmt.Fprintf(&b, "Current recommendations:\n")
		for _, r := range req.Recommendations {
			fmt.Fprintf(&b, "  %s\n", r)
		}
	}
	return b.String()
}

// parseReply tolerates free-form text around the tagged lines; untagged text
// is ignored rather than failing the call.
func parseReply(content string) Response {
	var resp Response
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
		switch {
		case strings.HasPrefix(line, "ACTION:"), strings.HasPrefix(line, "CAMPUS POLICY:"), strings.HasPrefix(line, "BUILDING ACTION:"):
			resp.Recommendations = append(resp.Recommendations, line)
		case strings.HasPrefix(line, "ANOMALY:"):
			resp.Anomalies = append(resp.Anomalies, strings.TrimSpace(strings.TrimPrefix(line, "ANOMALY:")))
		case strings.HasPrefix(line, "ENERGY_KW:"):
			v := strings.TrimSpace(strings.TrimPrefix(line, "ENERGY_KW:"))
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				resp.EnergyKW = &f
			}
		case strings.HasPrefix(line, "NARRATIVE:"):
			resp.Narrative = strings.TrimSpace(strings.TrimPrefix(line, "NARRATIVE:"))
		}
	}
	return resp
}
