package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ppiankov/veritas/internal/analyze"
	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/present"
	"github.com/ppiankov/veritas/internal/validate"
	"github.com/ppiankov/veritas/internal/worker"
)

// InputKind selects how a request value is interpreted
type InputKind string

const (
	InputText  InputKind = "text"
	InputURL   InputKind = "url"
	InputMedia InputKind = "media"
)

// MediaPrefix marks a batch line as a media file path
const MediaPrefix = "media:"

// Request is one analysis asked for by the user
type Request struct {
	Kind  InputKind
	Value string
}

// ParseLine turns a batch line into a request: "media:<path>" is a file,
// an http(s) URL is an article link, anything else is article text.
func ParseLine(line string) Request {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, MediaPrefix):
		return Request{Kind: InputMedia, Value: strings.TrimSpace(strings.TrimPrefix(line, MediaPrefix))}
	case strings.HasPrefix(line, "http://"), strings.HasPrefix(line, "https://"):
		return Request{Kind: InputURL, Value: line}
	default:
		return Request{Kind: InputText, Value: line}
	}
}

// Pipeline orchestrates validation, analysis and presentation
type Pipeline struct {
	text      analyze.TextAnalyzer
	media     analyze.MediaAnalyzer
	fetcher   *Fetcher
	presenter *present.Presenter
	config    *model.Config
	logger    *slog.Logger
}

// NewPipeline wires the analyzers selected by the configuration: the demo
// generator, the remote video service and the optional LLM text backend.
func NewPipeline(cfg *model.Config, presenter *present.Presenter, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	demo := analyze.NewDemo(cfg.Demo)

	var text analyze.TextAnalyzer = demo
	if cfg.LLM.Provider != "" {
		analyzer, err := llm.NewTextAnalyzer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logger.Warn("LLM backend unavailable, using demo analyzer", "provider", cfg.LLM.Provider, "error", err)
		} else if analyzer != nil {
			text = analyzer
		}
	}

	router := &analyze.MediaRouter{Video: demo, Image: demo}
	if cfg.Remote.Enabled {
		remote := analyze.NewRemoteClient(cfg.Remote.Endpoint, nil, logger)
		logger.Debug("remote video analysis enabled", "endpoint", remote.Endpoint())
		router.Video = remote
	}

	return NewWithAnalyzers(cfg, presenter, text, router, NewFetcher(cfg, logger), logger)
}

// NewWithAnalyzers creates a pipeline around explicit backends
func NewWithAnalyzers(cfg *model.Config, presenter *present.Presenter, text analyze.TextAnalyzer, media analyze.MediaAnalyzer, fetcher *Fetcher, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if presenter == nil {
		presenter = present.New(nil, cfg.Thresholds)
	}
	return &Pipeline{
		text:      text,
		media:     media,
		fetcher:   fetcher,
		presenter: presenter,
		config:    cfg,
		logger:    logger,
	}
}

// Presenter returns the presenter owning the session
func (p *Pipeline) Presenter() *present.Presenter {
	return p.presenter
}

// job is a validated request ready to run
type job struct {
	kind model.Kind
	run  func(ctx context.Context) (model.Result, error)
}

// prepare validates a request. It performs no network or timer activity.
func (p *Pipeline) prepare(req Request) (*job, error) {
	switch req.Kind {
	case InputText:
		text, err := validate.Text(req.Value)
		if err != nil {
			return nil, err
		}
		return &job{kind: model.KindText, run: func(ctx context.Context) (model.Result, error) {
			return p.text.AnalyzeText(ctx, model.TextInput{Text: text})
		}}, nil

	case InputURL:
		rawURL, err := validate.URL(req.Value)
		if err != nil {
			return nil, err
		}
		return &job{kind: model.KindText, run: func(ctx context.Context) (model.Result, error) {
			return p.analyzeURL(ctx, rawURL)
		}}, nil

	case InputMedia:
		file, err := validate.MediaFile(req.Value, p.config.Media.MaxBytes)
		if err != nil {
			return nil, err
		}
		return &job{kind: model.KindMedia, run: func(ctx context.Context) (model.Result, error) {
			return p.media.AnalyzeMedia(ctx, file)
		}}, nil

	default:
		return nil, fmt.Errorf("unknown input kind %q", req.Kind)
	}
}

func (p *Pipeline) analyzeURL(ctx context.Context, rawURL string) (model.Result, error) {
	if p.fetcher == nil {
		return nil, fmt.Errorf("URL analysis is not configured")
	}
	article, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}

	text, err := validate.Text(article.Text)
	if err != nil {
		return nil, err
	}

	return p.text.AnalyzeText(ctx, model.TextInput{
		Text:      text,
		SourceURL: article.FinalURL,
		Title:     article.Title,
	})
}

// Analyze validates and analyzes a request without touching the session.
// It is safe for concurrent use.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (model.Result, error) {
	j, err := p.prepare(req)
	if err != nil {
		return nil, err
	}
	return j.run(ctx)
}

// Run performs one analysis on behalf of the session: validation, loading
// indicator, analysis, presentation. Failures are turned into session notices.
func (p *Pipeline) Run(ctx context.Context, req Request) (*present.RenderModel, error) {
	j, err := p.prepare(req)
	if err != nil {
		notice := p.presenter.Notice(err)
		p.logger.Debug("input rejected", "kind", req.Kind, "notice", notice)
		return nil, err
	}

	sess := p.presenter.Session()
	sess.StartLoading(j.kind)
	start := time.Now()
	result, err := j.run(ctx)
	sess.StopLoading()

	if err != nil {
		notice := p.presenter.Notice(err)
		if validate.IsValidationError(err) {
			p.logger.Debug("input rejected", "kind", j.kind, "notice", notice)
		} else {
			p.logger.Warn("analysis failed", "kind", j.kind, "notice", notice, "error", err)
		}
		return nil, err
	}

	rm, err := p.presenter.Present(result)
	if err != nil {
		return nil, fmt.Errorf("present: %w", err)
	}
	p.logger.Info("analysis completed", "kind", rm.Kind, "verdict", rm.Verdict, "score", rm.Score, "duration", time.Since(start))
	return rm, nil
}

// AnalyzeText runs an analysis of pasted article text
func (p *Pipeline) AnalyzeText(ctx context.Context, text string) (*present.RenderModel, error) {
	return p.Run(ctx, Request{Kind: InputText, Value: text})
}

// AnalyzeURL runs an analysis of the article at rawURL
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string) (*present.RenderModel, error) {
	return p.Run(ctx, Request{Kind: InputURL, Value: rawURL})
}

// AnalyzeMedia runs an analysis of an image or video file
func (p *Pipeline) AnalyzeMedia(ctx context.Context, path string) (*present.RenderModel, error) {
	return p.Run(ctx, Request{Kind: InputMedia, Value: path})
}

// BatchItem is the presented outcome of one batch request
type BatchItem struct {
	Request Request
	Render  *present.RenderModel
	Notice  string
	Err     error
}

// RunBatch analyzes requests on a worker pool, then presents the outcomes
// in input order on the calling goroutine.
func (p *Pipeline) RunBatch(ctx context.Context, requests []Request, workers int) []BatchItem {
	tasks := make([]worker.Task[model.Result], len(requests))
	for i, req := range requests {
		tasks[i] = func(ctx context.Context) (model.Result, error) {
			return p.Analyze(ctx, req)
		}
	}

	pool := worker.NewPool[model.Result](workers)
	p.logger.Info("batch started", "requests", len(requests), "workers", pool.Workers())
	outcomes := pool.Run(ctx, tasks)

	items := make([]BatchItem, len(requests))
	for i, o := range outcomes {
		item := BatchItem{Request: requests[i], Err: o.Err}
		if o.Err == nil {
			item.Render, item.Err = p.presenter.Present(o.Value)
		}
		if item.Err != nil {
			item.Notice = p.presenter.Notice(item.Err)
			if validate.IsValidationError(item.Err) {
				p.logger.Debug("batch item rejected", "index", i, "kind", requests[i].Kind, "notice", item.Notice)
			} else {
				p.logger.Warn("batch item failed", "index", i, "kind", requests[i].Kind, "error", item.Err)
			}
		}
		items[i] = item
	}
	return items
}
