package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/notewell/meetscribe/internal/config"
	"github.com/notewell/meetscribe/pkg/logger"
)

// DefaultSystemPrompt instructs the model to answer with a single JSON
// object matching the Result shape. The sentinel wording is spelled out so
// the model's absent-value strings match the heuristic ones.
const DefaultSystemPrompt = `You are a meeting analysis assistant. Analyze the meeting transcript and respond with a single JSON object, no prose, exactly this shape:
{
  "summary": "2-3 sentence overview of the meeting",
  "keyPoints": ["important discussion point"],
  "actionItems": [{"task": "what needs to be done", "deadline": "when it is due, or \"Not specified\""}],
  "meetingDetails": {"date": "meeting date, or \"Not specified\"", "time": "meeting time, or \"Not specified\"", "participants": ["names of people mentioned"]},
  "calendarEvents": [{"title": "event title", "date": "event date", "time": "event time"}]
}
Use "Not specified" for any value that is not stated in the transcript. Respond with JSON only.`

// OpenAIClient extracts structured meeting data from transcript text via the
// OpenAI chat completions API in JSON mode. The HTTP timeout and retry
// budget live in the underlying client; callers bound the whole call with
// their context.
type OpenAIClient struct {
	client openai.Client
	model  string
	prompt string
	logger *logger.Logger
}

// NewOpenAIClient creates a client from cfg. An empty API key is allowed so
// the server can start without one; extraction calls will then fail with a
// *ModelError and the pipeline falls back to heuristics.
func NewOpenAIClient(cfg config.OpenAIConfig, log *logger.Logger) *OpenAIClient {
	if cfg.APIKey == "" {
		log.Warn("OpenAI API key not configured, model extraction will fail until one is set")
	}
	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		prompt: prompt,
		logger: log.Named("openai"),
	}
}

// Extract sends the transcript to the model and decodes the structured
// result. Failures are typed: *ModelError when the call itself fails,
// *ParseError when the payload is not JSON, *SchemaError when required
// fields are missing. Callers treat all three the same way (result absent)
// but they are logged and counted separately.
func (c *OpenAIClient) Extract(ctx context.Context, text string) (*Result, error) {
	started := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.prompt),
			openai.UserMessage("Meeting transcript:\n\n" + text),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, &ModelError{Err: err}
	}
	if len(completion.Choices) == 0 {
		return nil, &ModelError{Err: errors.New("completion contains no choices")}
	}

	result, err := decodeResult(completion.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Model extraction completed",
		logger.String("model", c.model),
		logger.Int("transcript_chars", len(text)),
		logger.Duration("elapsed", time.Since(started)))
	return result, nil
}

// decodeResult parses a model payload into a Result. summary and
// meetingDetails are required; the list fields may be absent and are
// normalized later during reconciliation.
func decodeResult(payload string) (*Result, error) {
	payload = stripCodeFence(payload)

	var raw struct {
		Summary        *string         `json:"summary"`
		KeyPoints      []string        `json:"keyPoints"`
		ActionItems    []ActionItem    `json:"actionItems"`
		MeetingDetails *MeetingDetails `json:"meetingDetails"`
		CalendarEvents []CalendarEvent `json:"calendarEvents"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	var missing []string
	if raw.Summary == nil {
		missing = append(missing, "summary")
	}
	if raw.MeetingDetails == nil {
		missing = append(missing, "meetingDetails")
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	return &Result{
		Summary:        *raw.Summary,
		KeyPoints:      raw.KeyPoints,
		ActionItems:    raw.ActionItems,
		MeetingDetails: *raw.MeetingDetails,
		CalendarEvents: raw.CalendarEvents,
	}, nil
}

// stripCodeFence unwraps a ```json ... ``` fence if the model added one
// despite JSON mode. Anything else comes back unchanged.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
