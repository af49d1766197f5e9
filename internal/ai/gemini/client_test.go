package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/visa-hunter/internal/ai"
)

var _ ai.Generator = (*Generator)(nil)

type fakeChatCreator struct {
	mu    sync.Mutex
	calls []chatCallRecord
	queue map[string][]fakeChatResponse
}

type chatCallRecord struct {
	model  string
	config *genai.GenerateContentConfig
	chat   *fakeChat
}

type fakeChatResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeChat struct {
	mu       sync.Mutex
	response fakeChatResponse
	messages []string
}

func (f *fakeChat) SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	return f.response.resp, f.response.err
}

func newFakeChatCreator() *fakeChatCreator {
	return &fakeChatCreator{queue: make(map[string][]fakeChatResponse)}
}

func (f *fakeChatCreator) enqueue(model string, resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue[model] = append(f.queue[model], fakeChatResponse{resp: resp, err: err})
}

func (f *fakeChatCreator) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	responses := f.queue[model]
	if len(responses) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := responses[0]
	f.queue[model] = responses[1:]
	chat := &fakeChat{response: res}
	f.calls = append(f.calls, chatCallRecord{model: model, config: config, chat: chat})
	return chat, nil
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()

	var waited []time.Duration
	originalSleep := sleep
	sleep = func(_ context.Context, d time.Duration) error {
		waited = append(waited, d)
		return nil
	}
	t.Cleanup(func() { sleep = originalSleep })

	return &waited
}

func newTestGenerator(chats chatCreator, maxRetries int) *Generator {
	return &Generator{
		chats:      chats,
		model:      "gemini-pro",
		maxRetries: maxRetries,
		logger:     zap.NewNop(),
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	waited := noSleep(t)

	chats := newFakeChatCreator()
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue("gemini-pro", nil, tempErr)
	chats.enqueue("gemini-pro", textResponse("retry ok"), nil)

	g := newTestGenerator(chats, 2)

	output, err := g.GenerateContent(context.Background(), "system", "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
	if len(*waited) != 1 || (*waited)[0] != baseBackoff {
		t.Fatalf("expected a single backoff wait, got %v", *waited)
	}

	for _, call := range chats.calls {
		if call.config == nil || call.config.SystemInstruction == nil {
			t.Fatalf("expected system instruction to be set")
		}
		if got := call.config.SystemInstruction.Parts[0].Text; got != "system" {
			t.Fatalf("unexpected system instruction: %q", got)
		}
		if len(call.chat.messages) != 1 || call.chat.messages[0] != "message" {
			t.Fatalf("unexpected chat message: %+v", call.chat.messages)
		}
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	noSleep(t)

	chats := newFakeChatCreator()
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue("gemini-pro", nil, tempErr)
	chats.enqueue("gemini-pro", nil, tempErr)

	g := newTestGenerator(chats, 2)

	_, err := g.GenerateContent(context.Background(), "sys", "msg")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected wrapped api error, got %v", err)
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	noSleep(t)

	chats := newFakeChatCreator()
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}
	chats.enqueue("gemini-pro", nil, quotaErr)

	g := newTestGenerator(chats, 3)

	_, err := g.GenerateContent(context.Background(), "sys", "msg")
	if err == nil {
		t.Fatal("expected error when quota delay too long")
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGeneratorRetriesOnShortQuotaDelay(t *testing.T) {
	waited := noSleep(t)

	chats := newFakeChatCreator()
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Details: []map[string]any{{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "3s"}},
	}
	chats.enqueue("gemini-pro", nil, quotaErr)
	chats.enqueue("gemini-pro", textResponse("Dear Hiring Team,", "Thanks"), nil)

	g := newTestGenerator(chats, 3)

	output, err := g.GenerateContent(context.Background(), "", "msg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "Dear Hiring Team,\nThanks" {
		t.Fatalf("unexpected output: %q", output)
	}
	if len(*waited) != 1 || (*waited)[0] != 3*time.Second {
		t.Fatalf("expected to wait for the requested delay, got %v", *waited)
	}
	if chats.calls[0].config != nil {
		t.Fatalf("expected no config without system instruction")
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	noSleep(t)

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		err  error
	}{
		{name: "bad request", err: genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}},
		{name: "plain error", err: errors.New("network down")},
		{name: "empty response", resp: textResponse("  ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chats := newFakeChatCreator()
			chats.enqueue("gemini-pro", tt.resp, tt.err)

			_, err := newTestGenerator(chats, 3).GenerateContent(context.Background(), "sys", "msg")
			if err == nil {
				t.Fatalf("expected error")
			}
			if len(chats.calls) != 1 {
				t.Fatalf("expected single call, got %d", len(chats.calls))
			}
		})
	}
}

func TestGeneratorValidatesInput(t *testing.T) {
	if _, err := newTestGenerator(newFakeChatCreator(), 1).GenerateContent(context.Background(), "sys", "  "); err == nil {
		t.Fatalf("expected error for empty message")
	}

	var g *Generator
	if _, err := g.GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatalf("expected error for nil generator")
	}
	if g.Model() != "" {
		t.Fatalf("expected empty model for nil generator")
	}
	if g.Provider() != Provider {
		t.Fatalf("expected provider %q, got %q", Provider, g.Provider())
	}

	if _, err := NewGenerator(context.Background(), " ", "", 0, nil); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestQuotaDelayFromMessage(t *testing.T) {
	tests := []struct {
		message string
		delay   time.Duration
		ok      bool
	}{
		{message: "Please retry in 1.5s.", delay: 1500 * time.Millisecond, ok: true},
		{message: "retry after 250 ms", delay: 250 * time.Millisecond, ok: true},
		{message: "quota exceeded", ok: false},
	}

	for _, tt := range tests {
		delay, ok := quotaDelay(genai.APIError{Message: tt.message})
		if ok != tt.ok || delay != tt.delay {
			t.Fatalf("%q: expected (%s, %v), got (%s, %v)", tt.message, tt.delay, tt.ok, delay, ok)
		}
	}
}
