package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"sync"

	"github.com/ppiankov/veritas/internal/model"
)

// DefaultEndpoint is the local video analysis service
const DefaultEndpoint = "http://localhost:5000/analyze-video"

// maxResponseBytes bounds the JSON body read from the service
const maxResponseBytes = 1 << 20

// RemoteClient submits videos to the analysis service.
// Calls are serialized: at most one request is outstanding.
type RemoteClient struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
	mu         sync.Mutex
}

// NewRemoteClient creates a client for the given endpoint
func NewRemoteClient(endpoint string, httpClient *http.Client, logger *slog.Logger) *RemoteClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RemoteClient{
		httpClient: httpClient,
		endpoint:   endpoint,
		logger:     logger,
	}
}

// Endpoint returns the configured service URL
func (c *RemoteClient) Endpoint() string {
	return c.endpoint
}

type deepfakeAnalysis struct {
	Score          *float64 `json:"score"`
	Indicators     []string `json:"indicators"`
	Analysis       string   `json:"analysis"`
	FramesAnalyzed int      `json:"frames_analyzed"`
}

type remoteResponse struct {
	Filename         string            `json:"filename"`
	IsLikelyFake     bool              `json:"is_likely_fake"`
	DeepfakeAnalysis *deepfakeAnalysis `json:"deepfake_analysis"`
	Error            string            `json:"error"`
}

// AnalyzeMedia uploads the file as multipart field "video" and parses the verdict.
// Every failure is reported as ErrRemoteAnalysis; nothing is retried.
func (c *RemoteClient) AnalyzeMedia(ctx context.Context, file model.MediaFile) (*model.MediaResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.analyze(ctx, file)
	if err != nil {
		c.logger.Error("remote analysis failed", "endpoint", c.endpoint, "file", file.Name, "err", err.Error())
		return nil, fmt.Errorf("%w: %v", ErrRemoteAnalysis, err)
	}

	c.logger.Info("remote analysis completed", "file", file.Name, "score", result.ManipulationScore)
	return result, nil
}

func (c *RemoteClient) analyze(ctx context.Context, file model.MediaFile) (*model.MediaResult, error) {
	body, contentType, err := buildMultipart(file)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var parsed remoteResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, parsed.Error)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("service error: %s", parsed.Error)
	}
	if parsed.DeepfakeAnalysis == nil || parsed.DeepfakeAnalysis.Score == nil {
		return nil, fmt.Errorf("response missing deepfake_analysis.score")
	}

	score := *parsed.DeepfakeAnalysis.Score
	if score < 0 || score > 1 {
		return nil, fmt.Errorf("score out of range: %v", score)
	}

	filename := parsed.Filename
	if filename == "" {
		filename = file.Name
	}

	return &model.MediaResult{
		Filename:          filename,
		MediaType:         file.MediaType(),
		IsLikelyFake:      parsed.IsLikelyFake,
		ManipulationScore: score,
		AnalysisSummary:   parsed.DeepfakeAnalysis.Analysis,
		Indicators:        parsed.DeepfakeAnalysis.Indicators,
		FramesAnalyzed:    parsed.DeepfakeAnalysis.FramesAnalyzed,
	}, nil
}

func buildMultipart(file model.MediaFile) (io.Reader, string, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, "", fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("video", file.Name)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
