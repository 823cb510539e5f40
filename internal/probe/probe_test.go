package probe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/cognicore/qacurate/pkg/qacurate/dataset"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestAnswerSuccess(t *testing.T) {
	client := &Client{
		BaseURL: "https://api.test/v1/chat/completions",
		Model:   "model-test",
		APIKey:  "secret",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				if got := req.Header.Get("Authorization"); got != "Bearer secret" {
					t.Errorf("authorization header = %q", got)
				}
				var body chatRequest
				if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
					t.Fatalf("decode request: %v", err)
				}
				if len(body.Messages) != 2 || body.Messages[0].Content != DefaultSystemPrompt {
					t.Errorf("unexpected messages: %+v", body.Messages)
				}
				return jsonResponse(200, `{"choices":[{"message":{"role":"assistant","content":"pintor"}}]}`)
			}),
		},
	}

	out, err := client.Answer(context.Background(), "¿Cuál es la ocupación de Diego Rivera?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if out != "pintor" {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestAnswerErrors(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
	}{
		{"model error", jsonResponse(200, `{"error":{"message":"bad"}}`)},
		{"no choices", jsonResponse(200, `{"choices":[]}`)},
		{"bad status", jsonResponse(500, `{}`)},
		{"not json", jsonResponse(502, `<html>`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{
				BaseURL: "https://api.test/v1/chat/completions",
				Model:   "model-test",
				HTTPClient: &http.Client{Transport: roundTrip(func(*http.Request) *http.Response {
					return tt.resp
				})},
			}
			if _, err := client.Answer(context.Background(), "q"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestChatRequiresConfig(t *testing.T) {
	if _, err := (&Client{}).Chat(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error without base URL and model")
	}
}

type fakeAnswerer struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeAnswerer) Answer(ctx context.Context, q string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, q)
	if f.err != nil {
		return "", f.err
	}
	return "  answer to " + q + "\n", nil
}

func sampleSubset() dataset.Subset {
	return dataset.Subset{
		"painters": {{Name: "Diego Rivera", Records: []dataset.Record{
			{Question: "q1", Answer: "a1"},
			{Question: "q2", Answer: "a2", Predicted: "already"},
		}}},
		"dances": {{Name: "Cueca", Records: []dataset.Record{{Question: "q3", Answer: "a3"}}}},
	}
}

func TestFill(t *testing.T) {
	in := sampleSubset()
	fa := &fakeAnswerer{}

	out, n, err := Fill(context.Background(), in, fa, FillOptions{Workers: 3})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if n != 2 || len(fa.calls) != 2 {
		t.Errorf("asked %d (calls %v), want 2", n, fa.calls)
	}
	if got := out["painters"][0].Records[0].Predicted; got != "answer to q1" {
		t.Errorf("predicted = %q", got)
	}
	if got := out["painters"][0].Records[1].Predicted; got != "already" {
		t.Errorf("existing prediction overwritten: %q", got)
	}
	if in["painters"][0].Records[0].Predicted != "" {
		t.Error("input subset was modified")
	}
}

func TestFillOverwrite(t *testing.T) {
	fa := &fakeAnswerer{}
	out, n, err := Fill(context.Background(), sampleSubset(), fa, FillOptions{Overwrite: true})
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("asked %d, want 3", n)
	}
	if got := out["painters"][0].Records[1].Predicted; got != "answer to q2" {
		t.Errorf("predicted = %q", got)
	}
}

func TestFillError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := Fill(context.Background(), sampleSubset(), &fakeAnswerer{err: boom}, FillOptions{Workers: 2})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}
