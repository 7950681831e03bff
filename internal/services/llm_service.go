package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/talent-crm/internal/config"
	"github.com/justsurfingit/talent-crm/internal/dtos"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// maxPromptInput caps the raw content pasted into a prompt.
const maxPromptInput = 20000

var ErrMissingAPIKey = errors.New("llm api key is not configured")

type LLMService struct {
	Client llms.Model
	log    *zap.Logger
}

// NewLLMService builds the langchaingo client for cfg.LLMProvider.
func NewLLMService(ctx context.Context, cfg *config.Config, log *zap.Logger) (*LLMService, error) {
	var (
		client llms.Model
		err    error
	)
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
		}
		client, err = openai.New(openai.WithToken(cfg.OpenAIAPIKey), openai.WithModel(cfg.LLMModel))
	case "googleai", "":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("googleai: %w", ErrMissingAPIKey)
		}
		client, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(cfg.LLMModel),
		)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.LLMProvider, err)
	}

	log.Info("llm client ready", zap.String("provider", cfg.LLMProvider), zap.String("model", cfg.LLMModel))
	return NewLLMServiceWithClient(client, log), nil
}

func NewLLMServiceWithClient(client llms.Model, log *zap.Logger) *LLMService {
	return &LLMService{Client: client, log: log}
}

const jobExtractionPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job posting and extract structured data.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "company_name": "Name of the company",
    "role_title": "Job title",
    "location": "Job location or 'Remote'",
    "description": "A clean summary of the job. Focus on Responsibilities and Requirements. Remove HTML tags.",
    "tech_stack": ["technologies", "mentioned"],
    "salary_range": "The salary string if explicitly mentioned, otherwise null"
}

If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

// ExtractJobDetails turns a pasted job posting into the JSON described by
// jobExtractionPrompt.
func (s *LLMService) ExtractJobDetails(ctx context.Context, rawHTML string) (string, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(jobExtractionPrompt, truncate(rawHTML)))
	if err != nil {
		return "", err
	}
	out := cleanJSON(resp)
	if !json.Valid([]byte(out)) {
		return "", fmt.Errorf("model returned invalid JSON")
	}
	return out, nil
}

const jobDescriptionPrompt = `
Write a job description for the role "%s" at %s.
Use short sections: About the role, Responsibilities, Requirements, Nice to have.
Plain text only, no markdown headings, no salary figures unless given below.

Recruiter notes:
%s
`

func (s *LLMService) GenerateJobDescription(ctx context.Context, req *dtos.JobDescriptionRequest) (string, error) {
	prompt := fmt.Sprintf(jobDescriptionPrompt, req.Title, req.CompanyName, truncate(req.Notes))
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

const resumeParsePrompt = `
Extract candidate details from the resume text below.
Respond with JSON only, matching exactly:
{"name": "", "email": "", "phone": "", "location": "", "summary": "two sentences", "skills": ["..."]}
Use empty strings for anything not present.

### RESUME:
%s
`

// ParseResume asks the model for structured candidate fields.
func (s *LLMService) ParseResume(ctx context.Context, text string) (*dtos.ParsedResume, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(resumeParsePrompt, truncate(text)))
	if err != nil {
		return nil, err
	}
	var parsed dtos.ParsedResume
	if err := json.Unmarshal([]byte(cleanJSON(resp)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode parsed resume: %w", err)
	}
	return &parsed, nil
}

const emailStatusPrompt = `
A candidate application at %s received this email.
Classify the application status as one of: APPLIED, SCREENING, INTERVIEWING, OFFER, REJECTED, NO_CHANGE, UNKNOWN.
Respond with JSON only: {"status": "...", "summary": "one sentence"}

Subject: %s

%s
`

func (s *LLMService) AnalyzeEmailStatus(ctx context.Context, company, subject, body string) (string, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(emailStatusPrompt, company, subject, truncate(body)))
	if err != nil {
		return "", err
	}
	return cleanJSON(resp), nil
}

const jobRolePrompt = `
An email refers to one of these job openings:
%s
Reply with the number of the matching opening only, or -1 if none match.

Subject: %s

%s
`

// IdentifyJobRole returns the index into titles the email is about, or -1.
func (s *LLMService) IdentifyJobRole(ctx context.Context, titles []string, subject, body string) int {
	var list strings.Builder
	for i, t := range titles {
		fmt.Fprintf(&list, "%d. %s\n", i, t)
	}
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(jobRolePrompt, list.String(), subject, truncate(body)))
	if err != nil {
		s.log.Warn("job role identification failed", zap.Error(err))
		return -1
	}
	idx, err := strconv.Atoi(strings.TrimSpace(resp))
	if err != nil || idx < 0 || idx >= len(titles) {
		return -1
	}
	return idx
}

// truncate cuts s to at most maxPromptInput bytes on a rune boundary.
func truncate(s string) string {
	if len(s) <= maxPromptInput {
		return s
	}
	n := maxPromptInput
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// cleanJSON strips markdown code fences models like to add.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
