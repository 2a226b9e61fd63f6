package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoListingPhotos is returned when a listing page yields no usable photos
var ErrNoListingPhotos = errors.New("no photos found on listing page")

// ListingPhotoFetcher discovers photo URLs on a listing web page
type ListingPhotoFetcher struct {
	httpClient *http.Client
	maxPhotos  int
	userAgent  string
}

// NewListingPhotoFetcher creates a fetcher
func NewListingPhotoFetcher(timeout time.Duration, maxPhotos int, userAgent string) *ListingPhotoFetcher {
	return &ListingPhotoFetcher{
		httpClient: &http.Client{Timeout: timeout},
		maxPhotos:  maxPhotos,
		userAgent:  userAgent,
	}
}

// Fetch downloads a listing page and returns its photo URLs in page order
func (f *ListingPhotoFetcher) Fetch(ctx context.Context, listingURL string) ([]string, error) {
	base, err := url.Parse(listingURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, fmt.Errorf("invalid listing URL %q", listingURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building listing request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing listing HTML: %w", err)
	}

	photos := ParseListingPhotos(doc, base, f.maxPhotos)
	if len(photos) == 0 {
		return nil, ErrNoListingPhotos
	}
	return photos, nil
}

// ParseListingPhotos extracts photo URLs from a listing page: Open Graph
// images first, then <img> sources. Relative URLs are resolved against base,
// icons and inline images are skipped, duplicates dropped. max <= 0 means no limit.
func ParseListingPhotos(doc *goquery.Document, base *url.URL, max int) []string {
	var photos []string
	seen := make(map[string]bool)

	add := func(raw string) {
		if max > 0 && len(photos) >= max {
			return
		}
		resolved, ok := resolvePhotoURL(base, raw)
		if !ok || seen[resolved] {
			return
		}
		seen[resolved] = true
		photos = append(photos, resolved)
	}

	doc.Find(`meta[property="og:image"], meta[name="og:image"]`).Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		add(content)
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"data-src", "data-lazy-src", "src"} {
			if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
				add(v)
				return
			}
		}
		if srcset, ok := s.Attr("srcset"); ok {
			if first := strings.Fields(strings.Split(srcset, ",")[0]); len(first) > 0 {
				add(first[0])
			}
		}
	})

	return photos
}

func resolvePhotoURL(base *url.URL, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "data:") {
		return "", false
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}

	lower := strings.ToLower(ref.Path)
	if ext := path.Ext(lower); ext == ".svg" || ext == ".gif" || ext == ".ico" {
		return "", false
	}
	name := path.Base(lower)
	for _, marker := range []string{"logo", "icon", "sprite", "avatar", "pixel"} {
		if strings.Contains(name, marker) {
			return "", false
		}
	}

	return ref.String(), true
}
