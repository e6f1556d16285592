// Package scraper provides a one-shot fetch-and-select helper for static
// pages, for cases where a full browser session is unnecessary.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0 Safari/537.36"

// Item is a single element extracted from a page.
type Item struct {
	Text  string            `json:"text"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Options configures a scrape.
type Options struct {
	// Attr, when set, limits the captured attributes to this one (omitted
	// entirely when the element lacks it). Otherwise all attributes of the
	// element are captured.
	Attr string
	// Headers are merged over the default request headers.
	Headers map[string]string
	// Timeout bounds the whole request. Defaults to 10s.
	Timeout time.Duration
}

// Scrape fetches the URL, parses the document and returns one Item per
// element matching the CSS selector, in document order.
func Scrape(ctx context.Context, url, selector string, opts Options) ([]Item, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	var items []Item
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		item := Item{Text: strings.TrimSpace(s.Text())}
		if opts.Attr != "" {
			if val, ok := s.Attr(opts.Attr); ok {
				item.Attrs = map[string]string{opts.Attr: val}
			}
		} else if node := s.Get(0); node != nil && len(node.Attr) > 0 {
			item.Attrs = make(map[string]string, len(node.Attr))
			for _, a := range node.Attr {
				item.Attrs[a.Key] = a.Val
			}
		}
		items = append(items, item)
	})
	return items, nil
}

// Record flattens an item into the exporter's row shape: the text under
// "text" plus one column per captured attribute.
func (it Item) Record() map[string]string {
	rec := make(map[string]string, len(it.Attrs)+1)
	rec["text"] = it.Text
	for k, v := range it.Attrs {
		rec[k] = v
	}
	return rec
}
