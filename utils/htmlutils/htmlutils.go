// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

// Package htmlutils provides utility functions for working with HTML.
package htmlutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

var (
	// ErrNotHTML is returned when a response is not an HTML document.
	ErrNotHTML = errors.New("not an HTML document")
	// ErrCharsetMismatch is returned when the text holds a REPLACEMENT
	// CHARACTER, meaning the page was decoded with the wrong charset.
	ErrCharsetMismatch = errors.New("charset mismatch")
)

// maxDocumentSize bounds how much of a page is read.
const maxDocumentSize = 4 << 20

// elements whose text is never visible.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
	"svg":      true,
}

// Node2string appends the visible text of n to sb, one space between text nodes.
// It stops at the first text node that was decoded with the wrong charset.
func Node2string(n *html.Node, sb *strings.Builder) error {
	switch n.Type {
	case html.TextNode:
		tmp := strings.Join(strings.Fields(n.Data), " ")

		if strings.ContainsRune(tmp, utf8.RuneError) {
			return fmt.Errorf("%w: `%s'", ErrCharsetMismatch, tmp)
		}

		if len(tmp) > 0 {
			if sb.Len() != 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(tmp)
		}
	case html.ElementNode:
		if skippedElements[strings.ToLower(n.Data)] {
			return nil
		}

		fallthrough
	default:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if err := Node2string(child, sb); err != nil {
				return err
			}
		}
	}

	return nil
}

// Validates that response seems to be an HTML response.
func hasHTMLContentType(media string) bool {
	const expectedMedia = "text/html"

	return strings.EqualFold(
		expectedMedia,
		media[0:min(len(media), len(expectedMedia))],
	)
}

// AsReader converts an HTTP response body to an io.Reader with the correct charset.
func AsReader(resp *http.Response) (io.Reader, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	media := resp.Header.Get("Content-Type")
	if !hasHTMLContentType(media) {
		return nil, fmt.Errorf("%w: media type is %s", ErrNotHTML, media)
	}

	rr, err := charset.NewReader(io.LimitReader(resp.Body, maxDocumentSize), media)
	if err != nil {
		return nil, err
	}

	return rr, nil
}

// AsNode parses an io.Reader as an HTML node.
func AsNode(r io.Reader) (*html.Node, error) {
	n, err := html.Parse(r)
	if nil != err {
		return nil, fmt.Errorf("parsing body as HTML: %w", err)
	}

	return n, nil
}

// Text returns the visible text of an HTML document.
func Text(r io.Reader) (string, error) {
	n, err := AsNode(r)
	if err != nil {
		return "", err
	}

	sb := strings.Builder{}
	if err := Node2string(n, &sb); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// FetchText downloads url and returns its visible text.
func FetchText(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", url, err)
	}

	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	r, err := AsReader(resp)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}

	return Text(r)
}
