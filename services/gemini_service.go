package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Pradhyumna23/Nourish-AI/models"
	"github.com/Pradhyumna23/Nourish-AI/pkg/logger"
)

const (
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiDefaultModel   = "gemini-1.5-flash"
)

// AIClient is what the recommendation pipeline needs from a language model.
// Failures are expected and absorbed by the caller.
type AIClient interface {
	EnhanceRecommendations(ctx context.Context, prompt string) (*AIEnhancement, error)
	Chat(ctx context.Context, message string) (string, error)
}

// AIEnhancement is the structured result we ask the model for: rephrased
// descriptions keyed by recommendation title, plus extra food name ideas
// per nutrient.
type AIEnhancement struct {
	Descriptions map[string]string   `json:"descriptions"`
	ExtraFoods   map[string][]string `json:"extra_foods"`
	Summary      string              `json:"summary"`
}

type GeminiService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	log     *logger.Logger
}

// NewGeminiService reads GEMINI_API_KEY from the environment. The base URL
// is overridable for tests.
func NewGeminiService() *GeminiService {
	base := os.Getenv("GEMINI_BASE_URL")
	if base == "" {
		base = geminiDefaultBaseURL
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = geminiDefaultModel
	}
	return &GeminiService{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 20 * time.Second},
		log:     logger.New("gemini"),
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// errGeminiTransport marks network-level failures. Only these get the
// single retry; API errors and unusable responses surface immediately.
var errGeminiTransport = errors.New("gemini transport failure")

// generate sends one prompt and returns the first candidate's text. It
// retries once on transport errors since the upstream is flaky under load.
func (s *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		text, err := s.generateOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil || !errors.Is(err, errGeminiTransport) {
			break
		}
	}
	return "", lastErr
}

func (s *GeminiService) generateOnce(ctx context.Context, prompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal Gemini payload: %w", err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %v: %w", err, errGeminiTransport)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Gemini response: %v: %w", err, errGeminiTransport)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error %d: %s", resp.StatusCode, string(body))
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("failed to parse Gemini JSON: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// EnhanceRecommendations asks the model for rephrased descriptions and extra
// food ideas as strict JSON. A response that is not valid JSON is an error;
// the caller falls back to the rule output.
func (s *GeminiService) EnhanceRecommendations(ctx context.Context, prompt string) (*AIEnhancement, error) {
	text, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var enh AIEnhancement
	if err := json.Unmarshal([]byte(stripJSONFences(text)), &enh); err != nil {
		s.log.Warnw("gemini returned unparseable enhancement", "error", err)
		return nil, fmt.Errorf("failed to parse enhancement JSON: %w", err)
	}
	return &enh, nil
}

// Chat answers a free-form nutrition question.
func (s *GeminiService) Chat(ctx context.Context, message string) (string, error) {
	prompt := "You are a friendly nutrition assistant. Answer concisely and " +
		"remind the user to consult a professional for medical decisions.\n\nUser: " + message
	return s.generate(ctx, prompt)
}

// Models often wrap JSON answers in markdown code fences despite being asked
// not to.
func stripJSONFences(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```json")
		t = strings.TrimPrefix(t, "```")
		if i := strings.LastIndex(t, "```"); i >= 0 {
			t = t[:i]
		}
	}
	return strings.TrimSpace(t)
}

// buildEnhancementPrompt serializes the rule output compactly so the model
// can rephrase it without inventing targets.
func buildEnhancementPrompt(user *models.User, gaps GapVector, recs []models.Recommendation) string {
	var sb strings.Builder
	sb.WriteString("You are a nutrition coach. Improve the tone of these recommendation descriptions ")
	sb.WriteString("and suggest up to three additional foods per deficient nutrient. ")
	sb.WriteString("Respond with strict JSON only, shaped as ")
	sb.WriteString(`{"descriptions": {"<title>": "<new description>"}, "extra_foods": {"<nutrient>": ["<food>"]}, "summary": "<one sentence>"}.`)
	sb.WriteString("\n\nProfile: ")
	fmt.Fprintf(&sb, "goal=%s activity=%s", user.PrimaryGoal, user.ActivityLevel)
	if allergies := user.AllergyList(); len(allergies) > 0 {
		fmt.Fprintf(&sb, " allergies=%s", strings.Join(allergies, ","))
	}

	sb.WriteString("\nDeficient nutrients:")
	for _, g := range gaps.Deficient() {
		fmt.Fprintf(&sb, " %s=%.0f/%.0f%s", g.Nutrient, g.Actual, g.Target, g.Unit)
	}

	sb.WriteString("\nRecommendations:\n")
	for _, r := range recs {
		fmt.Fprintf(&sb, "- [%s] %s: %s\n", r.Type, r.Title, r.Description)
	}
	return sb.String()
}
