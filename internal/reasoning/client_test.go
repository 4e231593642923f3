// v1
// internal/reasoning/client_test.go
package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseReply(t *testing.T) {
	content := `The room looks wasteful overall.
- ACTION: Turn off lights in empty rooms (est. 12% savings)
ANOMALY: phantom_load
ENERGY_KW: 4.25
Some commentary the model added.
NARRATIVE: Lab block dominates the afternoon load.
CAMPUS POLICY: Schedule maintenance overnight`

	resp := parseReply(content)
	if len(resp.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %v", resp.Recommendations)
	}
	if resp.Recommendations[0] != "ACTION: Turn off lights in empty rooms (est. 12% savings)" {
		t.Fatalf("bullet prefix not stripped: %q", resp.Recommendations[0])
	}
	if len(resp.Anomalies) != 1 || resp.Anomalies[0] != "phantom_load" {
		t.Fatalf("anomaly parse: %v", resp.Anomalies)
	}
	if resp.EnergyKW == nil || *resp.EnergyKW != 4.25 {
		t.Fatalf("energy parse: %v", resp.EnergyKW)
	}
	if resp.Narrative != "Lab block dominates the afternoon load." {
		t.Fatalf("narrative parse: %q", resp.Narrative)
	}
}

func TestParseReplyIgnoresGarbage(t *testing.T) {
	resp := parseReply("ENERGY_KW: not-a-number\njust prose\n")
	if resp.EnergyKW != nil || len(resp.Recommendations) != 0 {
		t.Fatalf("garbage must parse to an empty response: %+v", resp)
	}
}

func chatReply(t *testing.T, content string) []byte {
	t.Helper()
	buf, err := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return buf
}

func TestClientInferHappyPath(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var cr struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&cr); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if cr.Model != "test-model" || len(cr.Messages) != 2 {
			t.Errorf("unexpected request: %+v", cr)
		}
		w.Write(chatReply(t, "ACTION: Close the blinds\nNARRATIVE: Cooling load is solar-driven."))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", "secret", time.Second, NewBreaker("test", 3, time.Minute, discard()), discard())
	resp, err := c.Infer(context.Background(), Request{Layer: LayerRoom, EntityID: "B01-R01", Summary: "classroom"})
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("missing bearer token, got %q", gotAuth)
	}
	if len(resp.Recommendations) != 1 || resp.Narrative == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientWrapsFailuresAsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", "", time.Second, NewBreaker("test", 3, time.Minute, discard()), discard())
	_, err := c.Infer(context.Background(), Request{Layer: LayerRoom, EntityID: "B01-R01"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClientTripsBreakerOnRepeatedFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	br := NewBreaker("test", 2, time.Minute, discard())
	c := NewClient(srv.URL, "test-model", "", time.Second, br, discard())
	for i := 0; i < 5; i++ {
		c.Infer(context.Background(), Request{Layer: LayerRoom, EntityID: "B01-R01"})
	}
	if br.State() != "open" {
		t.Fatalf("breaker must open, got %s", br.State())
	}
	if calls != 2 {
		t.Fatalf("open breaker must stop hitting the endpoint, saw %d calls", calls)
	}
}

func TestClientRejectsEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", "", time.Second, NewBreaker("test", 3, time.Minute, discard()), discard())
	if _, err := c.Infer(context.Background(), Request{Layer: LayerCampus, EntityID: "campus"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("empty choices must surface as ErrUnavailable, got %v", err)
	}
}
