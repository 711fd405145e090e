package openai_provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newsight/models"
)

func testClient() *client {
	return NewOpenAIClient("key", "gpt-4o-mini", 0.3, 1000, time.Second)
}

// completionWith wraps content in a chat-completions response body.
func completionWith(t *testing.T, content string) []byte {
	t.Helper()
	body := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestParseInsightsDropsIncompleteElements(t *testing.T) {
	raw := `[
		{"insight":"GPT-4 released","source_title":"OpenAI News","source_link":"https://a.example"},
		{"insight":"missing link","source_title":"Somewhere"},
		{"insight":"Model hit 90% accuracy","source_title":"Health AI","source_link":"https://b.example"}
	]`
	got := testClient().parseInsights(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 insights got %d", len(got))
	}
	if got[0].Insight != "GPT-4 released" || got[1].SourceLink != "https://b.example" {
		t.Fatalf("unexpected insights: %+v", got)
	}
}

func TestParseInsightsRejectsNonArray(t *testing.T) {
	for _, raw := range []string{
		`{"insight":"not a list"}`,
		`plain text, no json at all`,
		`42`,
	} {
		if got := testClient().parseInsights(raw); len(got) != 0 {
			t.Fatalf("expected empty result for %q, got %+v", raw, got)
		}
	}
}

func TestParseInsightsStripsCodeFences(t *testing.T) {
	raw := "```json\n[{\"insight\":\"x\",\"source_title\":\"t\",\"source_link\":\"l\"}]\n```"
	got := testClient().parseInsights(raw)
	if len(got) != 1 || got[0].Insight != "x" {
		t.Fatalf("unexpected insights: %+v", got)
	}
}

func TestExtractInsightsRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing auth header")
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("expected system+user messages, got %d", len(req.Messages))
		}
		_, _ = w.Write(completionWith(t, `[{"insight":"a","source_title":"b","source_link":"c"}]`))
	}))
	defer srv.Close()

	c := testClient()
	c.baseURL = srv.URL
	got, err := c.ExtractInsights(context.Background(), "ai", []models.Article{
		{Title: "T", Link: "L", Snippet: "S", PublishedAt: time.Now()},
	})
	if err != nil {
		t.Fatalf("ExtractInsights: %v", err)
	}
	if len(got) != 1 || got[0].SourceTitle != "b" {
		t.Fatalf("unexpected insights: %+v", got)
	}
}

func TestExtractInsightsMalformedOutputIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(completionWith(t, "Sorry, I cannot help with that."))
	}))
	defer srv.Close()

	c := testClient()
	c.baseURL = srv.URL
	got, err := c.ExtractInsights(context.Background(), "ai", nil)
	if err != nil {
		t.Fatalf("expected degraded empty result, got error %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result got %+v", got)
	}
}

func TestExtractInsightsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient()
	c.baseURL = srv.URL
	_, err := c.ExtractInsights(context.Background(), "ai", nil)
	if !errors.Is(err, models.ErrExtractorUnavailable) {
		t.Fatalf("expected ErrExtractorUnavailable got %v", err)
	}
}

func TestExtractInsightsMissingAPIKey(t *testing.T) {
	c := NewOpenAIClient("", "gpt-4o-mini", 0.3, 1000, time.Second)
	_, err := c.ExtractInsights(context.Background(), "ai", nil)
	if !errors.Is(err, models.ErrExtractorUnavailable) {
		t.Fatalf("expected ErrExtractorUnavailable got %v", err)
	}
}
