package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/pavneets956-design/Align/internal/domain"
	"github.com/pavneets956-design/Align/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

func TestEmbedder_Embed(t *testing.T) {
	expectedVec := []float32{0.1, 0.2, 0.3, 0.4}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "test-model",
			"data": []map[string]any{
				{"object": "embedding", "embedding": expectedVec, "index": 0},
			},
			"usage": map[string]int{"prompt_tokens": 10, "total_tokens": 10},
		})
	}))
	defer server.Close()

	emb := NewEmbedder(NewClient("test-key", server.URL), "test-model", 4, zap.NewNop())

	result, err := emb.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(result.Embedding) != 4 || result.Embedding[0] != 0.1 {
		t.Errorf("unexpected vector: %v", result.Embedding)
	}
	if result.TotalTokens != 10 {
		t.Errorf("expected 10 tokens, got %d", result.TotalTokens)
	}
}

func TestEmbedder_Embed_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"overloaded"}`))
	}))
	defer server.Close()

	emb := NewEmbedder(NewClient("test-key", server.URL), "test-model", 0, zap.NewNop())

	_, err := emb.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestGenerator_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": "translated text"},
					"finish_reason": "stop",
				},
			},
		})
	}))
	defer server.Close()

	gen := NewGenerator(NewClient("test-key", server.URL), "test-model", zap.NewNop())

	out, err := gen.Generate(context.Background(), domain.Prompt{System: "sys", User: "usr"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "translated text" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestGenerator_GenerateStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		chunks := []string{"Take ", "a ", "breath."}
		for _, c := range chunks {
			payload, _ := json.Marshal(map[string]any{
				"id":     "cmpl-1",
				"object": "chat.completion.chunk",
				"model":  "test-model",
				"choices": []map[string]any{
					{"index": 0, "delta": map[string]string{"content": c}},
				},
			})
			fmt.Fprintf(w, "data: %s\n\n", payload)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	gen := NewGenerator(NewClient("test-key", server.URL), "test-model", zap.NewNop())

	stream, err := gen.GenerateStream(context.Background(), domain.Prompt{System: "sys", User: "usr"})
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}
	defer stream.Close()

	var got string
	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
		got += delta
	}
	if got != "Take a breath." {
		t.Errorf("unexpected streamed text %q", got)
	}
}

func TestTranscriber_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"task":     "transcribe",
			"language": "hindi",
			"duration": 2.5,
			"text":     "  मन बहुत भारी है  ",
		})
	}))
	defer server.Close()

	tr := NewTranscriber(NewClient("test-key", server.URL), "whisper-1", zap.NewNop())

	out, err := tr.Transcribe(context.Background(), strings.NewReader("fake-audio"), "voice.webm")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if out.Text != "मन बहुत भारी है" {
		t.Errorf("expected trimmed text, got %q", out.Text)
	}
	if out.Language != "hindi" {
		t.Errorf("expected language hint, got %q", out.Language)
	}
}

func TestTranscriber_Transcribe_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail":"upstream"}`))
	}))
	defer server.Close()

	tr := NewTranscriber(NewClient("test-key", server.URL), "whisper-1", zap.NewNop())

	_, err := tr.Transcribe(context.Background(), strings.NewReader("fake-audio"), "voice.webm")
	if !errors.Is(err, domain.ErrTranscriptionProviderError) {
		t.Fatalf("expected ErrTranscriptionProviderError, got %v", err)
	}
}
