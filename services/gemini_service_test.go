package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pradhyumna23/Nourish-AI/pkg/logger"
)

func geminiReply(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}]}}]}`
}

func jsonString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\n':
			out += `\n`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

func testGemini(baseURL string) *GeminiService {
	return &GeminiService{
		apiKey:  "test",
		baseURL: baseURL,
		model:   "gemini-1.5-flash",
		client:  &http.Client{Timeout: 2 * time.Second},
		log:     logger.New("gemini-test"),
	}
}

func TestGeminiEnhanceParsesStrictJSON(t *testing.T) {
	body := `{"descriptions":{"Increase your protein intake":"Better text"},"extra_foods":{"protein_g":["Lentil soup"]},"summary":"ok"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiReply(body)))
	}))
	defer srv.Close()

	enh, err := testGemini(srv.URL).EnhanceRecommendations(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Better text", enh.Descriptions["Increase your protein intake"])
	assert.Equal(t, []string{"Lentil soup"}, enh.ExtraFoods["protein_g"])
	assert.Equal(t, "ok", enh.Summary)
}

func TestGeminiEnhanceStripsMarkdownFences(t *testing.T) {
	body := "```json\n{\"summary\":\"fenced\"}\n```"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiReply(body)))
	}))
	defer srv.Close()

	enh, err := testGemini(srv.URL).EnhanceRecommendations(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "fenced", enh.Summary)
}

func TestGeminiEnhanceRejectsMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiReply("here are some thoughts, not JSON")))
	}))
	defer srv.Close()

	_, err := testGemini(srv.URL).EnhanceRecommendations(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestGeminiRetriesOnceOnTransportError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			// Drop the connection so the client sees a transport error.
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.Write([]byte(geminiReply("second try")))
	}))
	defer srv.Close()

	reply, err := testGemini(srv.URL).Chat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "second try", reply)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestGeminiDoesNotRetryAPIErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testGemini(srv.URL).Chat(context.Background(), "hello")
	assert.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestStripJSONFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripJSONFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripJSONFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripJSONFences(`{"a":1}`))
}
