package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnalyzeReturnsTrimmedFirstChoice(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer groq-key" {
			t.Errorf("authorization header = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"  X  "}}]}`))
	}))
	defer srv.Close()

	c := NewClient("groq-key", "test-model", false)
	c.SetBaseURL(srv.URL)

	text, err := c.Analyze(context.Background(), Request{
		Symbol:    "btc",
		Timeframe: "1W",
		Lang:      "ar",
		Price:     67890.123,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if text != "X" {
		t.Errorf("text = %q, want %q", text, "X")
	}

	if captured.Model != "test-model" {
		t.Errorf("model = %q", captured.Model)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Fatalf("unexpected messages: %+v", captured.Messages)
	}
	prompt := captured.Messages[0].Content
	if !strings.Contains(prompt, "BTC") {
		t.Errorf("prompt does not name the uppercased symbol: %q", prompt)
	}
	if !strings.Contains(prompt, "67890.123000") {
		t.Errorf("prompt does not carry the six-decimal price: %q", prompt)
	}
	if !strings.Contains(prompt, "1W") {
		t.Errorf("prompt does not carry the timeframe: %q", prompt)
	}
}

func TestAnalyzeFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("nope"))
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices":[]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient("k", "m", false)
			c.SetBaseURL(srv.URL)
			if _, err := c.Analyze(context.Background(), Request{Symbol: "BTC"}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPromptLanguageSelection(t *testing.T) {
	ar := buildPrompt(Request{Symbol: "eth", Timeframe: "1D", Lang: "ar", Price: 1})
	if !strings.Contains(ar, "العربية") {
		t.Error("arabic prompt missing arabic instruction")
	}
	en := buildPrompt(Request{Symbol: "eth", Timeframe: "1D", Lang: "en", Price: 1})
	if !strings.Contains(en, "English only") {
		t.Error("english prompt missing english instruction")
	}
	// Unknown languages fall back to Arabic, mirroring the session default.
	other := buildPrompt(Request{Symbol: "eth", Timeframe: "1D", Lang: "de", Price: 1})
	if !strings.Contains(other, "العربية") {
		t.Error("fallback prompt should be arabic")
	}
}

func TestSanitizeStripsForeignScripts(t *testing.T) {
	got := sanitize("BTC 支撑位 support at $60,000", "en")
	if strings.Contains(got, "支") {
		t.Errorf("foreign script survived: %q", got)
	}
	if !strings.Contains(got, "support at $60") {
		t.Errorf("allow-listed text was mangled: %q", got)
	}

	ar := sanitize("الدعم عند 60000$ 支撑", "ar")
	if strings.Contains(ar, "支") {
		t.Errorf("foreign script survived arabic sanitize: %q", ar)
	}
	if !strings.Contains(ar, "الدعم") {
		t.Errorf("arabic text was mangled: %q", ar)
	}
}
