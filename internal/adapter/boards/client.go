package boards

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/couchcryptid/river-conditions/internal/domain"
)

const source = "boards"

// lastUpdatedRe finds the page stamp, e.g. "Last updated: 1 June 2023 09:15".
var lastUpdatedRe = regexp.MustCompile(`(?i)last updated:?\s*(\d{1,2}\s+[a-z]+\s+\d{4}\s+\d{1,2}:\d{2})`)

// HTMLFetcher is the part of fetch.Client the boards client needs.
type HTMLFetcher interface {
	GetHTML(ctx context.Context, source, url string) (*html.Node, error)
}

// Report is the advice scraped from one page load.
type Report struct {
	// Advice holds the lower-cased phrase for every lock in domain.Locks.
	Advice    map[domain.Lock]string
	UpdatedAt time.Time
}

// Client scrapes lock stream-advice boards from the river conditions page.
type Client struct {
	fetcher HTMLFetcher
	url     string
	logger  *slog.Logger
}

// NewClient creates a boards client for the given page.
func NewClient(fetcher HTMLFetcher, url string, logger *slog.Logger) *Client {
	return &Client{fetcher: fetcher, url: url, logger: logger}
}

// Advice fetches the page and extracts advice for every lock plus the
// page's last-updated stamp.
func (c *Client) Advice(ctx context.Context) (Report, error) {
	doc, err := c.fetcher.GetHTML(ctx, source, c.url)
	if err != nil {
		return Report{}, err
	}
	report, err := Parse(doc)
	if err != nil {
		return Report{}, err
	}
	c.logger.Debug("board advice", "locks", len(report.Advice), "updated_at", report.UpdatedAt)
	return report, nil
}

// Parse extracts board advice from a parsed conditions page.
//
// Each table row names a stretch in its first cell ("Osney Lock to Iffley
// Lock") and gives the advice in its second. A row is assigned to the lock
// its stretch starts at; the first matching row wins.
func Parse(doc *html.Node) (Report, error) {
	advice := make(map[domain.Lock]string, len(domain.Locks))
	for _, row := range findAll(doc, atom.Tr) {
		cells := cellTexts(row)
		if len(cells) < 2 {
			continue
		}
		stretch := strings.ToLower(cells[0])
		for _, lock := range domain.Locks {
			if _, seen := advice[lock]; seen {
				continue
			}
			if strings.HasPrefix(stretch, lock.String()) {
				advice[lock] = strings.ToLower(cells[1])
			}
		}
	}

	for _, lock := range domain.Locks {
		if _, ok := advice[lock]; !ok {
			return Report{}, fmt.Errorf("%w: %s: no advice for %s", domain.ErrMissingReading, source, lock)
		}
	}

	m := lastUpdatedRe.FindStringSubmatch(textContent(doc))
	if m == nil {
		return Report{}, fmt.Errorf("%w: %s: last updated stamp not present", domain.ErrMissingReading, source)
	}
	updatedAt, err := domain.ParseBoardTime(m[1])
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", source, err)
	}

	return Report{Advice: advice, UpdatedAt: updatedAt}, nil
}

func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == a {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func cellTexts(row *html.Node) []string {
	var cells []string
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, textContent(c))
		}
	}
	return cells
}

// textContent joins all text below n with whitespace collapsed.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
