package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
)

// AppDataID is the id of the script element holding the initial snapshot.
const AppDataID = "app-data"

var ErrNoAppData = errors.New("page has no app-data script")

// Bootstrap loads the game page, which also establishes the session and
// anti-forgery cookies, and returns the embedded initial snapshot.
func (c *Client) Bootstrap(ctx context.Context, requestID string) (snapshot.Partial, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve("/"), nil)
	if err != nil {
		return snapshot.Partial{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	body, err := c.do(req, requestID)
	if err != nil {
		return snapshot.Partial{}, err
	}

	raw, err := ExtractAppData(body)
	if err != nil {
		return snapshot.Partial{}, err
	}

	var p snapshot.Partial
	if err := json.Unmarshal(raw, &p); err != nil {
		return snapshot.Partial{}, fmt.Errorf("failed to parse app data: %w", err)
	}
	return p, nil
}

// ExtractAppData returns the JSON text of the <script id="app-data"> element.
func ExtractAppData(page []byte) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	script := findByID(doc, atom.Script, AppDataID)
	if script == nil {
		return nil, ErrNoAppData
	}

	var text strings.Builder
	for child := script.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			text.WriteString(child.Data)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, ErrNoAppData
	}
	return []byte(text.String()), nil
}

func findByID(n *html.Node, tag atom.Atom, id string) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == tag {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findByID(child, tag, id); found != nil {
			return found
		}
	}
	return nil
}
