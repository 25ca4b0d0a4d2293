// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// maxPageBytes bounds how much of a page body is read. Pages larger than
// this are truncated, not rejected.
const maxPageBytes = 2 << 20

// fetchPage downloads a URL and extracts its visible text and title.
func fetchPage(ctx context.Context, client *http.Client, rawURL, userAgent string) (text, title string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetching %s: HTTP %d", rawURL, resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	body := io.LimitReader(resp.Body, maxPageBytes)

	if strings.Contains(ct, "text/plain") {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", "", err
		}
		return collapseWhitespace(string(data)), "", nil
	}

	return extractText(body)
}

// skipElements are subtrees whose text is never page content.
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
	"head":     false, // head is walked only to capture <title>
}

// extractText walks an HTML document and concatenates its visible text
// nodes, capturing the <title> along the way.
func extractText(r io.Reader) (text, title string, err error) {
	z := html.NewTokenizer(r)

	var b strings.Builder
	var skipDepth int
	var inTitle bool

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return collapseWhitespace(b.String()), strings.TrimSpace(title), nil
			}
			// A parse error mid-document keeps whatever was collected.
			return collapseWhitespace(b.String()), strings.TrimSpace(title), nil

		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "title" {
				inTitle = true
			}
			if skip, ok := skipElements[tag]; ok && skip {
				skipDepth++
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "title" {
				inTitle = false
			}
			if skip, ok := skipElements[tag]; ok && skip && skipDepth > 0 {
				skipDepth--
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			t := string(z.Text())
			if inTitle {
				title += t
				continue
			}
			if strings.TrimSpace(t) != "" {
				b.WriteString(t)
				b.WriteByte(' ')
			}
		}
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
