// Package drafter asks an OpenAI-compatible chat model (Groq by default)
// to draft a petition title and description.
package drafter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/kairo/internal/domain/models"
	openai "github.com/sashabaranov/go-openai"
)

// Defaults for the Groq endpoint.
const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "openai/gpt-oss-20b"
	DefaultTemperature = 0.7
)

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("drafter: API key is not configured")
	// ErrUnparsable is returned when the model reply is not a JSON object
	// with a non-empty title and description.
	ErrUnparsable = errors.New("drafter: model reply could not be parsed")
	// ErrTimeout is returned when the model does not answer in time.
	ErrTimeout = errors.New("drafter: request timed out")
)

// Request describes the petition the user wants drafted.
type Request struct {
	WhatAbout     string
	WhyImportant  string
	PersonalStory string
	Category      string
	Target        string
	Language      string // "hi" for Hindi, anything else English
}

// Draft is the model's proposed petition text.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Config configures a Drafter.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Drafter struct {
	client *openai.Client
	model  string
}

// New returns a Drafter, or nil when cfg has no API key. Callers treat a
// nil Drafter as "not configured".
func New(cfg Config) *Drafter {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Drafter{client: openai.NewClientWithConfig(oc), model: model}
}

// Draft sends the prompt for req and parses the reply.
func (d *Drafter) Draft(ctx context.Context, req Request) (Draft, error) {
	if d == nil {
		return Draft{}, ErrNotConfigured
	}

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       d.model,
		Temperature: DefaultTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req)},
		},
	})
	if err != nil {
		if isTimeout(err) {
			return Draft{}, errors.Join(ErrTimeout, err)
		}
		return Draft{}, fmt.Errorf("drafter: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Draft{}, ErrUnparsable
	}
	return ParseDraft(resp.Choices[0].Message.Content)
}

// BuildPrompt renders the English or Hindi drafting prompt.
func BuildPrompt(req Request) string {
	if models.ResolveLanguage(req.Language) == models.LangHI {
		return fmt.Sprintf(hiPrompt, req.WhatAbout, req.WhyImportant, req.PersonalStory,
			orDefault(req.Category, "सामान्य"), orDefault(req.Target, "स्थानीय प्राधिकरण"))
	}
	return fmt.Sprintf(enPrompt, req.WhatAbout, req.WhyImportant, req.PersonalStory,
		orDefault(req.Category, "General"), orDefault(req.Target, models.DefaultTarget))
}

const enPrompt = `You are helping a citizen draft a short, clear petition. Use a respectful, civic tone.

Details:
- Topic: %s
- Why it matters: %s
- Personal story: %s
- Category: %s
- Target authority: %s

Return ONLY valid JSON with keys: title, description.
Title: max 12 words.
Description: 2 short paragraphs, total under 120 words.`

const hiPrompt = `आप एक नागरिक की संक्षिप्त और स्पष्ट याचिका तैयार करने में मदद कर रहे हैं। भाषा सरल और सम्मानजनक रखें।

विवरण:
- विषय: %s
- महत्व: %s
- व्यक्तिगत कहानी: %s
- श्रेणी: %s
- लक्षित प्राधिकरण: %s

कृपया केवल वैध JSON लौटाएं जिसमें keys हों: title, description।
Title: अधिकतम 12 शब्द।
Description: 2 छोटे पैराग्राफ, कुल 120 शब्द से कम।`

// ParseDraft decodes a model reply. A surrounding ``` or ```json fence is
// tolerated; anything else must be a bare JSON object.
func ParseDraft(raw string) (Draft, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	var d Draft
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &d); err != nil {
		return Draft{}, errors.Join(ErrUnparsable, err)
	}
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Title == "" || d.Description == "" {
		return Draft{}, ErrUnparsable
	}
	return d, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
