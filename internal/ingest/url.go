package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// FetchURL downloads a page and extracts its readable article text, for use
// as supporting material alongside an idea submission.
func FetchURL(ctx context.Context, source string) (string, error) {
	parsed, err := url.Parse(source)
	if err != nil {
		return "", fmt.Errorf("invalid URL %s: %w", source, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", fmt.Errorf("invalid URL %s: %w", source, err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not fetch URL %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("could not fetch URL %s: HTTP %d", source, resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxUploadSize)
	article, err := readability.FromReader(limited, parsed)
	if err != nil {
		return "", fmt.Errorf("could not extract article from %s: %w", source, err)
	}

	if article.TextContent == "" {
		return "", fmt.Errorf("no readable content extracted from %s", source)
	}
	return article.TextContent, nil
}
