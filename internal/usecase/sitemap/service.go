package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config describes the site.
type Config struct {
	// Hostname is the site origin, e.g. https://blog.example.com.
	Hostname string
	Name     string
	Language string
}

// Service builds the sitemap of published content.
type Service struct {
	posts      PostLister
	categories CategoryLister
	cfg        Config
	now        func() time.Time
}

// New creates a sitemap service.
func New(posts PostLister, categories CategoryLister, cfg Config) *Service {
	cfg.Hostname = strings.TrimRight(cfg.Hostname, "/")
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return &Service{posts: posts, categories: categories, cfg: cfg, now: time.Now}
}

// URLs lists the home page, every published post and every category.
// News posts carry the news extension; featured images the image extension.
func (s *Service) URLs(ctx context.Context) ([]URL, error) {
	now := s.now().UTC().Format(time.RFC3339)

	urls := []URL{{Loc: s.cfg.Hostname + "/", LastMod: now, ChangeFreq: Daily, Priority: 1.0}}

	posts, err := s.posts.Published(ctx)
	if err != nil {
		return nil, fmt.Errorf("sitemap posts: %w", err)
	}
	for _, p := range posts {
		u := URL{
			Loc:        s.cfg.Hostname + "/posts/" + url.PathEscape(p.Slug),
			LastMod:    now,
			ChangeFreq: Weekly,
			Priority:   0.8,
		}
		if lm := p.LastModified(); !lm.IsZero() {
			u.LastMod = lm.UTC().Format(time.RFC3339)
		}
		if p.FeaturedImage != "" {
			u.Images = []Image{{Loc: p.FeaturedImage, Title: p.Title, Caption: p.ImageCaption}}
		}
		if p.IsNews && p.PublishedAt != nil {
			u.News = &News{
				Publication:     Publication{Name: s.cfg.Name, Language: s.cfg.Language},
				PublicationDate: p.PublishedAt.UTC().Format(time.RFC3339),
				Title:           p.Title,
			}
		}
		urls = append(urls, u)
	}

	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("sitemap categories: %w", err)
	}
	for _, c := range cats {
		id := c.ID
		if id == "" {
			id = c.Name
		}
		urls = append(urls, URL{
			Loc:        s.cfg.Hostname + "/category/" + url.PathEscape(id),
			LastMod:    now,
			ChangeFreq: Weekly,
			Priority:   0.6,
		})
	}
	return urls, nil
}

// Generate renders the sitemap XML document.
func (s *Service) Generate(ctx context.Context) ([]byte, error) {
	urls, err := s.URLs(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(urlset{
		Xmlns:      nsSitemap,
		XmlnsNews:  nsNews,
		XmlnsImage: nsImage,
		URLs:       urls,
	}); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
