// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/JosephJoshua/onepaper/internal/httputil"
	"github.com/JosephJoshua/onepaper/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

var (
	newStyleID = regexp.MustCompile(`^\d{4}\.\d{4,5}$`)
	oldStyleID = regexp.MustCompile(`^[a-z-]+(\.[A-Z]{2})?/\d{7}$`)
)

// ArxivClient fetches paper metadata from the arXiv API.
type ArxivClient struct {
	client *http.Client
	cfg    types.HTTPConfig
}

// NewArxivClient builds a client with the given HTTP settings.
func NewArxivClient(cfg types.HTTPConfig) *ArxivClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ArxivClient{
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
	}
}

// NormalizeArxivID canonicalizes user input into a bare arXiv ID:
// abs/pdf URLs and "arXiv:" prefixes are stripped, as are version
// suffixes. Returns ErrInvalidArxivID when no valid ID remains.
func NormalizeArxivID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	for _, prefix := range []string{"https://", "http://"} {
		id = strings.TrimPrefix(id, prefix)
	}
	id = strings.TrimPrefix(id, "arxiv.org/abs/")
	id = strings.TrimPrefix(id, "arxiv.org/pdf/")
	id = strings.TrimPrefix(id, "arXiv:")
	id = strings.TrimSuffix(id, ".pdf")
	id = stripVersion(id)

	if !newStyleID.MatchString(id) && !oldStyleID.MatchString(id) {
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidArxivID)
	}
	return id, nil
}

// FetchMetadata retrieves title, abstract, authors, and year for one
// paper. Returns ErrPaperNotFound when arXiv has no entry for the ID.
func (c *ArxivClient) FetchMetadata(ctx context.Context, arxivID string) (types.Paper, error) {
	url := fmt.Sprintf("%s?id_list=%s&max_results=1", arxivAPIBase, arxivID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.Paper{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return types.Paper{}, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Paper{}, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return types.Paper{}, fmt.Errorf("parsing arXiv response: %w", err)
	}

	for _, entry := range feed.Entries {
		if extractArxivID(entry.ID) != arxivID {
			continue
		}

		p := types.Paper{
			ID:       arxivID,
			Title:    collapseWhitespace(entry.Title),
			Abstract: collapseWhitespace(entry.Summary),
		}
		for _, a := range entry.Authors {
			p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			p.Year = t.Year()
		}
		return p, nil
	}
	return types.Paper{}, fmt.Errorf("arXiv ID %s: %w", arxivID, ErrPaperNotFound)
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" to "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return stripVersion(idURL[idx+len(prefix):])
}

// stripVersion removes a trailing version suffix like "v2".
func stripVersion(id string) string {
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			return id[:vIdx]
		}
	}
	return id
}

// collapseWhitespace trims the text and folds the newline-wrapped
// formatting arXiv uses in titles and abstracts into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
