// Package embed prepares a third-party vault page for inline display.
package embed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const defaultTimeout = 30 * time.Second

var blockedHTTPEquiv = map[string]bool{
	"content-security-policy": true,
	"x-frame-options":         true,
}

var keptSchemes = []string{"#", "mailto:", "javascript:", "data:", "http://", "https://", "//"}

// Prepare strips framing restrictions and scripts from page, keeps the body
// content and rewrites relative href/src attributes against siteURL.
func Prepare(page io.Reader, siteURL string) (string, error) {
	base, err := url.Parse(siteURL)
	if err != nil {
		return "", fmt.Errorf("embed: parse site url: %w", err)
	}
	doc, err := html.Parse(page)
	if err != nil {
		return "", fmt.Errorf("embed: parse page: %w", err)
	}
	clean(doc, base)

	root := doc
	if body := findBody(doc); body != nil {
		root = body
	}
	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("embed: render: %w", err)
		}
	}
	return buf.String(), nil
}

func clean(n *html.Node, base *url.URL) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if dropped(c) {
			n.RemoveChild(c)
		} else {
			if c.Type == html.ElementNode {
				rewriteAttrs(c, base)
			}
			clean(c, base)
		}
		c = next
	}
}

func dropped(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script:
		return true
	case atom.Meta:
		for _, a := range n.Attr {
			if strings.EqualFold(a.Key, "http-equiv") && blockedHTTPEquiv[strings.ToLower(strings.TrimSpace(a.Val))] {
				return true
			}
		}
	}
	return false
}

func rewriteAttrs(n *html.Node, base *url.URL) {
	for i, a := range n.Attr {
		if a.Key != "href" && a.Key != "src" {
			continue
		}
		if a.Val == "" || keepURL(a.Val) {
			continue
		}
		ref, err := url.Parse(a.Val)
		if err != nil {
			continue
		}
		n.Attr[i].Val = base.ResolveReference(ref).String()
	}
}

func keepURL(raw string) bool {
	lower := strings.ToLower(raw)
	for _, prefix := range keptSchemes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

// Page is a prepared upstream page.
type Page struct {
	HTML        string
	StatusCode  int
	ContentType string
}

// Fetcher loads vault pages from the site and prepares them.
type Fetcher struct {
	siteURL    string
	httpClient *http.Client
}

// NewFetcher returns a Fetcher for siteURL. A nil client gets a 30s timeout.
func NewFetcher(siteURL string, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if !strings.HasSuffix(siteURL, "/") {
		siteURL += "/"
	}
	return &Fetcher{siteURL: siteURL, httpClient: client}
}

// PageURL returns the site URL of a vault page.
func (f *Fetcher) PageURL(network, address string) string {
	return f.siteURL + url.PathEscape(network) + "/vault/" + url.PathEscape(address)
}

// Fetch downloads and prepares the vault page of address on network.
func (f *Fetcher) Fetch(ctx context.Context, network, address string) (*Page, error) {
	target := f.PageURL(network, address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("embed: build request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed: fetch %s: %w", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embed: fetch %s: http status %d", target, resp.StatusCode)
	}
	fragment, err := Prepare(resp.Body, f.siteURL)
	if err != nil {
		return nil, err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/html"
	}
	logx.WithContext(ctx).Debugf("embed: prepared page url=%s bytes=%d", target, len(fragment))
	return &Page{HTML: fragment, StatusCode: resp.StatusCode, ContentType: contentType}, nil
}
