package outline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/content/htmldoc"
	"github.com/kailas-cloud/inkwell/internal/content/mddoc"
	"github.com/kailas-cloud/inkwell/internal/doctree"
	"github.com/kailas-cloud/inkwell/internal/domain"
	engine "github.com/kailas-cloud/inkwell/internal/outline"
)

// Format names a content representation.
type Format string

// Supported formats.
const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	// FormatEditor is the editor's JSON document.
	FormatEditor Format = "json"
)

// ParseFormat validates a format name. Empty means HTML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatHTML, nil
	case FormatHTML, FormatMarkdown, FormatEditor:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", domain.NewInvalidArgument("format", fmt.Sprintf("unsupported format %q", s))
}

// Result is prepared content with its outline. Markdown content comes back
// as HTML.
type Result struct {
	Format  Format         `json:"format"`
	Content string         `json:"content"`
	Outline engine.Outline `json:"outline"`
	TOC     string         `json:"toc"`
}

// Config holds the outline settings.
type Config struct {
	Levels      []int
	UpdateEvent string
	Title       string
	CSSClass    string
}

// Service prepares post content for display: stable heading anchors and a
// table of contents.
type Service struct {
	posts   PostFinder
	cfg     Config
	emitter *engine.Emitter
	logger  *zap.Logger
}

// New creates an outline service. Every rebuilt outline is also published
// on Emitter() under the configured update event.
func New(posts PostFinder, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.UpdateEvent == "" {
		cfg.UpdateEvent = engine.DefaultUpdateEvent
	}
	return &Service{posts: posts, cfg: cfg, emitter: engine.NewEmitter(), logger: logger}
}

// Emitter returns the emitter outline updates are published on.
func (s *Service) Emitter() *engine.Emitter { return s.emitter }

// Prepare assigns heading ids in content and builds its outline.
func (s *Service) Prepare(format Format, content string) (Result, error) {
	switch format {
	case FormatHTML:
		doc, err := htmldoc.ParseString(content)
		if err != nil {
			return Result{}, domain.NewInvalidArgument("content", err.Error())
		}
		return s.prepare(format, doc, doc.Render)
	case FormatMarkdown:
		doc := mddoc.Parse([]byte(content))
		return s.prepare(format, doc, doc.RenderHTML)
	case FormatEditor:
		doc, err := doctree.Parse([]byte(content))
		if err != nil {
			return Result{}, domain.NewInvalidArgument("content", err.Error())
		}
		return s.prepare(format, doc, func() (string, error) {
			b, err := json.Marshal(doc)
			return string(b), err
		})
	}
	return Result{}, domain.NewInvalidArgument("format", fmt.Sprintf("unsupported format %q", format))
}

// ForPost prepares the HTML content of a stored post.
func (s *Service) ForPost(ctx context.Context, slug string) (Result, error) {
	p, err := s.posts.BySlug(ctx, slug)
	if err != nil {
		return Result{}, fmt.Errorf("outline: %w", err)
	}
	return s.Prepare(FormatHTML, p.Content)
}

func (s *Service) prepare(format Format, doc engine.Document, render func() (string, error)) (Result, error) {
	syncer := engine.NewSynchronizer(engine.Options{
		Levels:      s.cfg.Levels,
		UpdateEvent: s.cfg.UpdateEvent,
		Emitter:     s.emitter,
		Logger:      s.logger,
	})
	out := syncer.Sync(doc, true)

	content, err := render()
	if err != nil {
		return Result{}, fmt.Errorf("render content: %w", err)
	}
	toc, err := engine.RenderHTML(out.Items, engine.RenderOptions{Title: s.cfg.Title, CSSClass: s.cfg.CSSClass})
	if err != nil {
		return Result{}, fmt.Errorf("render outline: %w", err)
	}
	return Result{Format: format, Content: content, Outline: out, TOC: toc}, nil
}
