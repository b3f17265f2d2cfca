package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/google/uuid"

	"github.com/mfenderov/geo-schema/internal/storage"
	"github.com/mfenderov/geo-schema/pkg/models"
)

// Config holds scraper configuration.
type Config struct {
	Delay     time.Duration
	UserAgent string
	Timeout   time.Duration
}

// Scraper fetches article pages and turns them into content units.
type Scraper struct {
	config Config
}

// New creates a new Scraper with the given configuration.
func New(config Config) *Scraper {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "geo-schema/1.0"
	}
	return &Scraper{config: config}
}

// Scrape fetches each URL once and returns a content unit per article page.
// Pages that fail to load are skipped. The context can be used to cancel
// the remaining requests.
func (s *Scraper) Scrape(ctx context.Context, urls []string) ([]models.ContentUnit, error) {
	var units []models.ContentUnit
	var mu sync.Mutex
	var cancelled bool

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent(s.config.UserAgent),
	)

	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       s.config.Delay,
		Parallelism: 2,
	})

	c.SetRequestTimeout(s.config.Timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			slog.Debug("scrape cancelled", "url", r.URL.String())
			r.Abort()
			cancelled = true
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		slog.Debug("skipping page", "url", r.Request.URL.String(), "status", r.StatusCode, "error", err)
	})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		unit, err := contentUnit(e.Request.URL.String(), e.DOM)
		if err != nil {
			slog.Debug("skipping page without article body", "url", e.Request.URL.String(), "error", err)
			return
		}

		slog.Debug("scraped article", "url", unit.URL, "title", unit.Title, "size", len(unit.Body))

		mu.Lock()
		units = append(units, unit)
		mu.Unlock()
	})

	for _, u := range urls {
		if err := c.Visit(u); err != nil {
			slog.Debug("visit error (continuing)", "url", u, "error", err)
		}
	}

	c.Wait()

	if cancelled {
		slog.Info("scrape cancelled by context", "articles_scraped", len(units))
		return units, ctx.Err()
	}

	return units, nil
}

// contentUnit reads article metadata from <meta> and <link> tags and takes
// the body from the first <article>, <main> or <body> element.
func contentUnit(pageURL string, page *goquery.Selection) (models.ContentUnit, error) {
	meta := func(selector string) string {
		v, _ := page.Find(selector).First().Attr("content")
		return strings.TrimSpace(v)
	}

	if canonical, ok := page.Find(`link[rel="canonical"]`).First().Attr("href"); ok && canonical != "" {
		pageURL = resolve(pageURL, canonical)
	}

	var body string
	for _, sel := range []string{"article", "main", "body"} {
		if node := page.Find(sel).First(); node.Length() > 0 {
			html, err := node.Html()
			if err != nil {
				return models.ContentUnit{}, fmt.Errorf("failed to render %s: %w", sel, err)
			}
			body = strings.TrimSpace(html)
			break
		}
	}
	if body == "" {
		return models.ContentUnit{}, fmt.Errorf("empty body")
	}

	title := meta(`meta[property="og:title"]`)
	if title == "" {
		title = strings.TrimSpace(page.Find("title").First().Text())
	}

	authorURL, _ := page.Find(`link[rel="author"]`).First().Attr("href")

	published := parseTime(meta(`meta[property="article:published_time"]`))
	modified := parseTime(meta(`meta[property="article:modified_time"]`))
	if modified.IsZero() {
		modified = published
	}

	return models.ContentUnit{
		ID:               models.GenerateContentID(pageURL),
		URL:              pageURL,
		Title:            title,
		AuthorName:       meta(`meta[name="author"]`),
		AuthorURL:        authorURL,
		Category:         meta(`meta[property="article:section"]`),
		Excerpt:          meta(`meta[name="description"]`),
		Body:             body,
		Published:        true,
		HasFeaturedImage: meta(`meta[property="og:image"]`) != "",
		PublishedAt:      published,
		ModifiedAt:       modified,
	}, nil
}

func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return base
	}
	return b.ResolveReference(r).String()
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// UnitWriter persists scraped units and batch metadata.
type UnitWriter interface {
	PutContentUnit(ctx context.Context, prefix string, unit models.ContentUnit) error
	PutMetadata(ctx context.Context, prefix string, meta storage.ScrapeMetadata) error
}

// ScrapeResult holds the result of a ScrapeToS3 operation.
type ScrapeResult struct {
	Prefix    string // S3 prefix where units were written
	UnitCount int    // Number of content units stored
	Source    string // Source name or first URL
}

// ScrapeToS3 scrapes the given URLs and writes each content unit under a new
// prefix, scrapes/{host}/{timestamp}-{shortid}.
func (s *Scraper) ScrapeToS3(ctx context.Context, source string, urls []string, w UnitWriter) (*ScrapeResult, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("no urls to scrape")
	}
	parsedURL, err := url.Parse(urls[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if source == "" {
		source = urls[0]
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	prefix := fmt.Sprintf("scrapes/%s/%s-%s", parsedURL.Host, timestamp, uuid.NewString()[:8])

	slog.Info("starting scrape to S3", "source", source, "urls", len(urls), "prefix", prefix)

	units, err := s.Scrape(ctx, urls)
	if err != nil && len(units) == 0 {
		return nil, fmt.Errorf("scrape failed: %w", err)
	}

	var stored []string
	for _, unit := range units {
		if err := w.PutContentUnit(ctx, prefix, unit); err != nil {
			slog.Error("failed to write to S3", "url", unit.URL, "error", err)
			continue
		}
		stored = append(stored, unit.URL)
		slog.Debug("wrote content unit to S3", "url", unit.URL, "id", unit.ID)
	}

	meta := storage.ScrapeMetadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		UnitCount: len(stored),
		URLs:      stored,
	}
	if err := w.PutMetadata(ctx, prefix, meta); err != nil {
		return nil, fmt.Errorf("failed to write metadata: %w", err)
	}

	slog.Info("scrape to S3 complete", "source", source, "prefix", prefix, "units", len(stored))

	return &ScrapeResult{
		Prefix:    prefix,
		UnitCount: len(stored),
		Source:    source,
	}, nil
}
