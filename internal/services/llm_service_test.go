package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

type fakeModel struct {
	reply   string
	err     error
	prompts []string
}

func (m *fakeModel) GenerateContent(_ context.Context, msgs []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, mc := range msgs {
		for _, p := range mc.Parts {
			if tc, ok := p.(llms.TextContent); ok {
				m.prompts = append(m.prompts, tc.Text)
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, opts...)
}

func TestParseResume_DecodesFencedJSON(t *testing.T) {
	model := &fakeModel{reply: "```json\n{\"name\":\"Ada Lovelace\",\"email\":\"ada@example.com\",\"skills\":[\"Go\",\"SQL\"]}\n```"}
	svc := NewLLMServiceWithClient(model, zap.NewNop())

	parsed, err := svc.ParseResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Name != "Ada Lovelace" || parsed.Email != "ada@example.com" || len(parsed.Skills) != 2 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	if len(model.prompts) != 1 || !strings.Contains(model.prompts[0], "resume text") {
		t.Fatalf("resume text not sent to model: %v", model.prompts)
	}
}

func TestParseResume_InvalidJSON(t *testing.T) {
	svc := NewLLMServiceWithClient(&fakeModel{reply: "I could not read that"}, zap.NewNop())
	if _, err := svc.ParseResume(context.Background(), "x"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestExtractJobDetails_TruncatesInput(t *testing.T) {
	model := &fakeModel{reply: `{"role_title":"Engineer"}`}
	svc := NewLLMServiceWithClient(model, zap.NewNop())

	long := strings.Repeat("a", maxPromptInput+500)
	out, err := svc.ExtractJobDetails(context.Background(), long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"role_title":"Engineer"}` {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Contains(model.prompts[0], strings.Repeat("a", maxPromptInput+1)) {
		t.Fatalf("prompt was not truncated")
	}
}

func TestTruncate_KeepsRuneBoundary(t *testing.T) {
	// "é" is two bytes, so the cut lands inside the last rune.
	in := strings.Repeat("a", maxPromptInput-1) + "é" + "tail"
	out := truncate(in)
	if !utf8.ValidString(out) {
		t.Fatalf("truncated prompt is not valid UTF-8")
	}
	if out != strings.Repeat("a", maxPromptInput-1) {
		t.Fatalf("expected cut before the split rune, got %d bytes", len(out))
	}
	if short := "héllo"; truncate(short) != short {
		t.Fatalf("short input changed")
	}
}

func TestExtractJobDetails_RejectsNonJSON(t *testing.T) {
	svc := NewLLMServiceWithClient(&fakeModel{reply: "Sure! Here it is"}, zap.NewNop())
	if _, err := svc.ExtractJobDetails(context.Background(), "<html></html>"); err == nil {
		t.Fatalf("expected error for non-JSON reply")
	}
}

func TestIdentifyJobRole(t *testing.T) {
	titles := []string{"Backend Engineer", "Data Analyst"}
	tests := []struct {
		reply string
		err   error
		want  int
	}{
		{"1", nil, 1},
		{" 0\n", nil, 0},
		{"-1", nil, -1},
		{"7", nil, -1},
		{"the second one", nil, -1},
		{"", errors.New("quota"), -1},
	}
	for _, tt := range tests {
		svc := NewLLMServiceWithClient(&fakeModel{reply: tt.reply, err: tt.err}, zap.NewNop())
		if got := svc.IdentifyJobRole(context.Background(), titles, "subject", "body"); got != tt.want {
			t.Errorf("reply %q: got %d, want %d", tt.reply, got, tt.want)
		}
	}
}

func TestCleanJSON(t *testing.T) {
	tests := map[string]string{
		"```json\n{}\n```": "{}",
		"```\n[]```":       "[]",
		"  {\"a\":1}  ":    `{"a":1}`,
	}
	for in, want := range tests {
		if got := cleanJSON(in); got != want {
			t.Errorf("cleanJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
