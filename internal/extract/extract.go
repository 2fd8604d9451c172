// Package extract fetches metadata from reference web pages so that
// references added by URL get a human-readable title and description.
package extract

import (
	"context"
	"fmt"
	"net/http"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds the fan-out when describing a batch of URLs.
const maxConcurrentFetches = 4

// browserHeaders sets browser-like request headers so sites that check Accept
// or User-Agent don't reject the request with 406.
func browserHeaders(r *http.Request) {
	r.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	r.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Blogsmith/1.0)")
}

// PageMetadata holds the metadata extracted from a reference web page.
type PageMetadata struct {
	Title       string
	SiteName    string
	Description string
}

// PageInfo fetches a web page and returns its title, site name, and a short
// description taken from the readability excerpt.
func PageInfo(url string, timeout time.Duration) (*PageMetadata, error) {
	article, err := readability.FromURL(url, timeout, browserHeaders)
	if err != nil {
		return nil, fmt.Errorf("readability extraction: %w", err)
	}

	return &PageMetadata{
		Title:       article.Title,
		SiteName:    article.SiteName,
		Description: article.Excerpt,
	}, nil
}

// DescribeAll fetches metadata for each URL concurrently, at most
// maxConcurrentFetches at a time. The result slice is positionally aligned
// with urls; an entry is nil when extraction failed for that URL. Individual
// failures never fail the batch.
func DescribeAll(ctx context.Context, urls []string, timeout time.Duration) []*PageMetadata {
	metas := make([]*PageMetadata, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, url := range urls {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil
			}
			meta, err := PageInfo(url, timeout)
			if err != nil {
				return nil
			}
			metas[i] = meta
			return nil
		})
	}

	// Workers never return errors; Wait is used purely for joining.
	_ = g.Wait()

	return metas
}
