package analyze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/veritas/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func videoFile(t *testing.T) model.MediaFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("fake-mp4-bytes"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return model.MediaFile{Path: path, Name: "clip.mp4", ContentType: "video/mp4", Size: 14}
}

func TestRemoteClient_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		file, header, err := r.FormFile("video")
		if err != nil {
			t.Errorf("Expected multipart field video: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer func() { _ = file.Close() }()
		payload, _ := io.ReadAll(file)
		if string(payload) != "fake-mp4-bytes" {
			t.Errorf("Unexpected payload: %q", payload)
		}
		if header.Filename != "clip.mp4" {
			t.Errorf("Expected filename clip.mp4, got %s", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{
			"filename": "clip.mp4",
			"is_likely_fake": true,
			"deepfake_analysis": {
				"score": 0.82,
				"indicators": ["Edge artifacts around face"],
				"analysis": "signs of manipulation",
				"frames_analyzed": 20
			}
		}`)
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, server.Client(), testLogger())
	res, err := client.AnalyzeMedia(context.Background(), videoFile(t))
	if err != nil {
		t.Fatalf("AnalyzeMedia failed: %v", err)
	}

	if !res.IsLikelyFake || res.ManipulationScore != 0.82 {
		t.Errorf("Unexpected verdict: fake=%v score=%v", res.IsLikelyFake, res.ManipulationScore)
	}
	if res.FramesAnalyzed != 20 || res.AnalysisSummary != "signs of manipulation" {
		t.Errorf("Unexpected details: %+v", res)
	}
	if len(res.Indicators) != 1 || res.Indicators[0] != "Edge artifacts around face" {
		t.Errorf("Unexpected indicators: %v", res.Indicators)
	}
	if res.MediaType != model.MediaVideo {
		t.Errorf("Expected video media type, got %s", res.MediaType)
	}
}

func TestRemoteClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error": "Error processing video: boom"}`},
		{"bad request", http.StatusBadRequest, `{"error": "File type not allowed"}`},
		{"malformed json", http.StatusOK, `{"filename": `},
		{"missing score", http.StatusOK, `{"filename": "clip.mp4", "deepfake_analysis": {}}`},
		{"error body with 200", http.StatusOK, `{"error": "Could not read video frames"}`},
		{"score out of range", http.StatusOK, `{"deepfake_analysis": {"score": 1.5}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts++
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := NewRemoteClient(server.URL, server.Client(), testLogger())
			res, err := client.AnalyzeMedia(context.Background(), videoFile(t))
			if err == nil {
				t.Fatalf("Expected error, got result %+v", res)
			}
			if !errors.Is(err, ErrRemoteAnalysis) {
				t.Errorf("Expected ErrRemoteAnalysis, got %v", err)
			}
			if attempts != 1 {
				t.Errorf("Expected exactly 1 attempt (no retry), got %d", attempts)
			}
		})
	}
}

func TestRemoteClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewRemoteClient(endpoint, nil, testLogger())
	_, err := client.AnalyzeMedia(context.Background(), videoFile(t))
	if !errors.Is(err, ErrRemoteAnalysis) {
		t.Errorf("Expected ErrRemoteAnalysis for closed server, got %v", err)
	}
}

func TestRemoteClient_MissingFile(t *testing.T) {
	client := NewRemoteClient("http://127.0.0.1:1/analyze-video", nil, testLogger())
	_, err := client.AnalyzeMedia(context.Background(), model.MediaFile{Path: "/nonexistent/clip.mp4", Name: "clip.mp4"})
	if !errors.Is(err, ErrRemoteAnalysis) {
		t.Errorf("Expected ErrRemoteAnalysis, got %v", err)
	}
}

func TestNewRemoteClient_DefaultEndpoint(t *testing.T) {
	client := NewRemoteClient("", nil, nil)
	if client.Endpoint() != DefaultEndpoint {
		t.Errorf("Expected default endpoint %s, got %s", DefaultEndpoint, client.Endpoint())
	}
}
