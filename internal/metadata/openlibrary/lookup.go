package openlibrary

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/storyloop/storyloop-server/internal/domain"
)

// ErrNoRecord is returned when Open Library has no entry for an ISBN.
var ErrNoRecord = fmt.Errorf("no metadata record for isbn")

// Lookup fetches metadata for a normalized ISBN.
// Returns ErrNoRecord when Open Library has never heard of the book.
func (c *Client) Lookup(ctx context.Context, isbn string) (domain.BookMetadata, error) {
	if err := c.wait(ctx); err != nil {
		return domain.BookMetadata{}, fmt.Errorf("rate limit: %w", err)
	}

	bibkey := "ISBN:" + isbn

	params := url.Values{}
	params.Set("bibkeys", bibkey)
	params.Set("format", "json")
	params.Set("jscmd", "data")
	lookupURL := c.baseURL + "/api/books?" + params.Encode()

	if c.logger != nil {
		c.logger.Debug("looking up metadata", "isbn", isbn)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return domain.BookMetadata{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.BookMetadata{}, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.BookMetadata{}, fmt.Errorf("lookup failed: status %d", resp.StatusCode)
	}

	var payload map[string]bookResponse
	if err := json.UnmarshalRead(resp.Body, &payload); err != nil {
		return domain.BookMetadata{}, fmt.Errorf("parse response: %w", err)
	}

	book, ok := payload[bibkey]
	if !ok || book.Title == "" {
		return domain.BookMetadata{}, ErrNoRecord
	}

	return c.toMetadata(isbn, book), nil
}

// toMetadata flattens the API response into the intake metadata shape.
func (c *Client) toMetadata(isbn string, book bookResponse) domain.BookMetadata {
	meta := domain.BookMetadata{
		ISBN:     isbn,
		Title:    book.Title,
		Subtitle: book.Subtitle,
	}

	if len(book.Authors) > 0 {
		meta.Author = book.Authors[0].Name
	}

	if len(book.Subjects) > 0 {
		subjects := make([]string, 0, len(book.Subjects))
		for _, s := range book.Subjects {
			subjects = append(subjects, s.Name)
		}
		meta.Subjects = strings.Join(subjects, ", ")
	}

	if len(book.Excerpts) > 0 {
		meta.Summary = book.Excerpts[0].Text
	}

	if book.Cover.Large != "" {
		meta.CoverURL = book.Cover.Large
	} else {
		meta.CoverURL = book.Cover.Medium
	}

	return meta
}
