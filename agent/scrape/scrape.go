// Package scrape fetches a prospect's website and reduces it to the small
// summary the email writer personalizes with. Results are cached on disk
// keyed by URL so repeated runs do not refetch.
package scrape

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
)

const maxBodyBytes = 1 << 20 // 1 MiB is plenty for a landing page

type Config struct {
	CacheDir  string        `envconfig:"CACHE_DIR" split_words:"true" default:"data/scrape_cache"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"15s"`
	UserAgent string        `envconfig:"USER_AGENT" split_words:"true" default:"leadpilot/1.0"`
}

// Summary is the distilled page content.
type Summary struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}

type Scraper struct {
	cfg    Config
	client *http.Client
}

type Option func(*Scraper)

func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		if c != nil {
			s.client = c
		}
	}
}

func NewScraper(cfg Config, opts ...Option) *Scraper {
	s := &Scraper{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Scrape returns the summary for url, from cache when present. A cache read
// failure falls through to a fresh fetch; a cache write failure is logged
// and the fresh summary still returned.
func (s *Scraper) Scrape(ctx context.Context, url string) (Summary, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Summary{}, fmt.Errorf("%w: url is empty", contractx.ErrValidation)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	if cached, ok := s.readCache(url); ok {
		log.Debug().Str("url", url).Msg("scrape: cache hit")
		return cached, nil
	}

	sum, err := s.fetch(ctx, url)
	if err != nil {
		return Summary{}, err
	}
	s.writeCache(sum)
	return sum, nil
}

func (s *Scraper) fetch(ctx context.Context, url string) (Summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: build request: %v", contractx.ErrValidation, err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: fetch %s: %v", contractx.ErrTransport, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Summary{}, fmt.Errorf("%w: fetch %s: status %d", contractx.ErrProvider, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Summary{}, fmt.Errorf("%w: read %s: %v", contractx.ErrTransport, url, err)
	}

	html := string(body)
	return Summary{
		URL:       url,
		Title:     extractTitle(html),
		Text:      extractText(html, 1500),
		FetchedAt: time.Now().UTC(),
	}, nil
}

var (
	titleRe  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptRe = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

func extractTitle(html string) string {
	m := titleRe.FindStringSubmatch(html)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(m[1], " "))
}

// extractText strips markup and collapses whitespace, truncating to limit
// runes on a word boundary.
func extractText(html string, limit int) string {
	text := scriptRe.ReplaceAllString(html, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut
}

func (s *Scraper) cachePath(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(s.cfg.CacheDir, hex.EncodeToString(sum[:16])+".json")
}

func (s *Scraper) readCache(url string) (Summary, bool) {
	data, err := os.ReadFile(s.cachePath(url))
	if err != nil {
		return Summary{}, false
	}
	var sum Summary
	if err := json.Unmarshal(data, &sum); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("scrape: corrupt cache entry ignored")
		return Summary{}, false
	}
	return sum, true
}

func (s *Scraper) writeCache(sum Summary) {
	if err := os.MkdirAll(s.cfg.CacheDir, 0o755); err != nil {
		log.Warn().Err(err).Msg("scrape: create cache dir failed")
		return
	}
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("scrape: marshal cache entry failed")
		return
	}
	if err := os.WriteFile(s.cachePath(sum.URL), data, 0o644); err != nil {
		log.Warn().Err(err).Str("url", sum.URL).Msg("scrape: write cache entry failed")
	}
}
