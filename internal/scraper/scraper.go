// Package scraper collects secondhand-phone listings from the marketplace
// using a headless browser, normalizes the Bangla-script fields, and stores
// the results.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/schollz/progressbar/v3"

	"github.com/nijhum/phonepulse/internal/common"
	"github.com/nijhum/phonepulse/internal/model"
	"github.com/nijhum/phonepulse/internal/service"
)

// Config holds scraper settings.
type Config struct {
	BaseURL        string
	MaxPages       int
	MaxConcurrency int
	RateLimit      time.Duration
	MaxRetries     int
	PageTimeout    time.Duration
	FailedURLsFile string
	ChromeBin      string
	ShowProgress   bool
}

// DefaultConfig returns the standard scraper settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://bikroy.com",
		MaxPages:       300,
		MaxConcurrency: 8,
		RateLimit:      500 * time.Millisecond,
		MaxRetries:     3,
		PageTimeout:    60 * time.Second,
		FailedURLsFile: filepath.Join("data", "failed_urls.txt"),
	}
}

// Result summarizes one scrape run.
type Result struct {
	PagesVisited int
	URLsFound    int
	URLsNew      int
	Saved        int
	Failed       int
}

// Scraper drives the collection pipeline: paginate ad listings, filter URLs
// already stored, visit detail pages concurrently, and persist what parses.
type Scraper struct {
	cfg     Config
	storage service.Storage
	logger  *slog.Logger
	visited *urlSet
	pool    *workerPool
	now     func() time.Time

	mu     sync.Mutex
	failed []string
}

// New creates a Scraper.
func New(cfg Config, storage service.Storage, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		cfg:     cfg,
		storage: storage,
		logger:  logger,
		visited: newURLSet(),
		pool:    newWorkerPool(cfg.MaxConcurrency, cfg.RateLimit),
		now:     time.Now,
	}
}

// Run executes a full scrape and returns its summary.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	chromeBin := s.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	if chromeBin == "" {
		return nil, common.ErrBrowserNotFound
	}
	s.logger.Info("Using browser binary", "path", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.ExecPath(chromeBin),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	allocCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...any) {}))
	defer cancelSilent()

	result := &Result{}

	urls, pages, err := s.collectURLs(allocCtx)
	if err != nil {
		return nil, err
	}
	result.PagesVisited = pages
	result.URLsFound = len(urls)

	fresh, err := s.storage.FilterNewURLs(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("failed to filter new urls: %w", err)
	}
	result.URLsNew = len(fresh)
	s.logger.Info("URL collection complete",
		"found", len(urls),
		"new", len(fresh))

	if len(fresh) == 0 {
		return result, nil
	}

	saved := s.scrapeDetails(ctx, allocCtx, fresh)
	result.Saved = saved
	result.Failed = len(s.failed)

	if len(s.failed) > 0 {
		if err := s.writeFailedURLs(); err != nil {
			s.logger.Error("Could not save failed URLs", "error", err)
		}
	}

	return result, nil
}

// collectURLs paginates the ad listing pages and gathers detail-page links.
// Pagination stops at the first page that yields nothing new.
func (s *Scraper) collectURLs(allocCtx context.Context) ([]string, int, error) {
	var all []string
	pages := 0

	for page := 1; page <= s.cfg.MaxPages; page++ {
		pageURL := fmt.Sprintf("%s/bn/ads/bangladesh/mobiles?sort=date&order=desc&buy_now=0&urgent=0&page=%d",
			s.cfg.BaseURL, page)

		links, err := s.scrapeListPage(allocCtx, pageURL, page)
		if err != nil {
			s.logger.Warn("Skipping page", "page", page, "error", err)
			continue
		}
		pages++

		added := 0
		for _, link := range links {
			if s.visited.Add(link) {
				all = append(all, link)
				added++
			}
		}
		s.logger.Debug("Page scraped", "page", page, "links", len(links), "new", added)

		if added == 0 {
			break
		}
	}

	if pages == 0 {
		return nil, 0, fmt.Errorf("%w: no listing pages could be loaded", common.ErrScrapeFailed)
	}
	return all, pages, nil
}

// scrapeListPage extracts ad links from one listing page.
func (s *Scraper) scrapeListPage(allocCtx context.Context, pageURL string, page int) ([]string, error) {
	var links []string

	err := common.WithRetry(allocCtx, func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()
		ctx, cancelTimeout := context.WithTimeout(ctx, s.cfg.PageTimeout)
		defer cancelTimeout()

		var hrefs []string
		err := chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(`
				(function() {
					var out = [];
					var list = document.querySelector('ul[data-testid="list"]');
					if (!list) return out;
					var anchors = list.querySelectorAll('li a[href]');
					for (var i = 0; i < anchors.length; i++) {
						out.push(anchors[i].getAttribute('href'));
					}
					return out;
				})()
			`, &hrefs),
		)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}

		links = links[:0]
		for _, href := range hrefs {
			if href == "" || strings.Contains(href, "post-ad") {
				continue
			}
			if strings.HasPrefix(href, "/") {
				href = s.cfg.BaseURL + href
			}
			links = append(links, href)
		}
		return nil
	}, service.RetryOptions{MaxAttempts: s.cfg.MaxRetries, InitialDelay: 2 * time.Second})

	return links, err
}

// scrapeDetails visits every URL with the worker pool and saves the parsed
// listings. Returns the number saved.
func (s *Scraper) scrapeDetails(ctx context.Context, allocCtx context.Context, urls []string) int {
	var bar *progressbar.ProgressBar
	if s.cfg.ShowProgress {
		bar = progressbar.NewOptions(len(urls),
			progressbar.OptionSetDescription("Scraping listings"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var mu sync.Mutex
	saved := 0

	for _, url := range urls {
		u := url
		s.pool.Submit(func() {
			defer func() {
				if bar != nil {
					_ = bar.Add(1)
				}
			}()
			if ctx.Err() != nil {
				return
			}

			listing, err := s.scrapeDetailPage(allocCtx, u)
			if err != nil {
				s.logger.Warn("Detail page failed", "url", u, "error", err)
				s.recordFailure(u)
				return
			}
			if err := listing.Validate(); err != nil {
				s.logger.Debug("Discarding unusable listing", "url", u, "error", err)
				return
			}

			if err := s.storage.SaveListings(ctx, []model.Listing{*listing}); err != nil {
				s.logger.Error("Failed to save listing", "url", u, "error", err)
				s.recordFailure(u)
				return
			}

			mu.Lock()
			saved++
			mu.Unlock()
		})
	}
	s.pool.Wait()

	return saved
}

// detailData is the raw page extract before normalization.
type detailData struct {
	Title       string            `json:"title"`
	Price       string            `json:"price"`
	Header      string            `json:"header"`
	Locations   []string          `json:"locations"`
	Fields      map[string]string `json:"fields"`
	Features    string            `json:"features"`
	Description string            `json:"description"`
	SellerName  string            `json:"sellerName"`
	IsMember    bool              `json:"isMember"`
}

// scrapeDetailPage loads one ad page and converts it into a listing.
func (s *Scraper) scrapeDetailPage(allocCtx context.Context, url string) (*model.Listing, error) {
	var data detailData

	err := common.WithRetry(allocCtx, func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()
		ctx, cancelTimeout := context.WithTimeout(ctx, s.cfg.PageTimeout)
		defer cancelTimeout()

		return chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(`
				(function() {
					var result = {
						title: '', price: '', header: '', locations: [],
						fields: {}, features: '', description: '',
						sellerName: '', isMember: false
					};

					var titleEl = document.querySelector('h1[class^="title--"]') || document.querySelector('h1');
					if (titleEl) result.title = titleEl.innerText.trim();

					var priceEl = document.querySelector('div[class^="amount"]');
					if (priceEl) result.price = priceEl.innerText.trim();

					var firstDiv = document.querySelector('div');
					if (firstDiv) result.header = firstDiv.innerText.replace(/\s+/g, ' ');

					var subtitle = document.querySelector('div[class*="subtitle-wrapper"]');
					if (subtitle) {
						var locLinks = subtitle.querySelectorAll('a[class*="subtitle-location-link"]');
						for (var i = 0; i < locLinks.length; i++) {
							result.locations.push(locLinks[i].innerText.trim());
						}
					}

					// Label/value pairs render as sibling divs.
					var divs = document.querySelectorAll('div');
					for (var j = 0; j < divs.length; j++) {
						var label = (divs[j].innerText || '').trim();
						if (label === 'কন্ডিশন:' || label === 'মডেল:' || label === 'ব্র্যান্ড:') {
							var next = divs[j].nextElementSibling;
							if (next) result.fields[label] = next.innerText.trim();
						}
					}

					var featEl = document.querySelector('div[class^="features"] p');
					if (featEl) result.features = featEl.innerText.trim();

					var descEl = document.querySelector('div[class^="description"]');
					if (descEl) {
						var paras = descEl.querySelectorAll('p');
						var texts = [];
						for (var k = 0; k < paras.length; k++) {
							var t = paras[k].innerText.trim();
							if (t) texts.push(t);
						}
						result.description = texts.join('\n');
					}

					var sellerEl = document.querySelector('div[class*="contact-name"]');
					if (sellerEl) result.sellerName = sellerEl.innerText.trim();

					result.isMember = !!document.querySelector('[class*="member-badge"], [class*="verified"]');

					return result;
				})()
			`, &data),
		)
	}, service.RetryOptions{MaxAttempts: s.cfg.MaxRetries, InitialDelay: 2 * time.Second})
	if err != nil {
		return nil, err
	}

	return s.buildListing(url, &data), nil
}

// buildListing normalizes a raw page extract into a listing.
func (s *Scraper) buildListing(url string, data *detailData) *model.Listing {
	listing := &model.Listing{
		URL:        url,
		Title:      data.Title,
		Brand:      data.Fields["ব্র্যান্ড:"],
		Model:      data.Fields["মডেল:"],
		Condition:  normalizeCondition(data.Fields["কন্ডিশন:"]),
		SellerName: data.SellerName,
		IsStore:    data.IsMember,
		ScrapedAt:  s.now(),
	}

	if price, ok := parsePrice(data.Price); ok {
		listing.Price = price
	}
	if published, ok := parsePublishedDate(data.Header, s.now()); ok {
		listing.PublishedDate = published
	}
	if len(data.Locations) > 0 {
		listing.Location = data.Locations[0]
	}
	if len(data.Locations) > 1 {
		listing.Division = data.Locations[1]
	}

	specs := data.Features + "\n" + data.Description
	listing.RAM, listing.Storage = parseMemory(specs)
	listing.Battery = parseBattery(specs)
	listing.CameraPixel = parseCamera(specs)
	listing.Network = normalizeNetwork(specs)
	listing.HasWarranty = hasWarranty(specs)

	return listing
}

func (s *Scraper) recordFailure(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, url)
}

func (s *Scraper) writeFailedURLs() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.cfg.FailedURLsFile), 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	content := strings.Join(s.failed, "\n")
	if err := os.WriteFile(s.cfg.FailedURLsFile, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write failed urls: %w", err)
	}
	s.logger.Info("Failed URLs saved", "path", s.cfg.FailedURLsFile, "count", len(s.failed))
	return nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
