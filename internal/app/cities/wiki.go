/*
This file implements the Wikipedia side of the directory: the one-time scrape
of the "cities of Russia" list table, and the per-article info card fetch
(lead paragraphs plus selected infobox rows, rendered with <b> markup).
*/
package cities

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"goroda/internal/pkg/logx"
)

const (
	// DefaultListURL is the article whose sortable table enumerates every
	// city of Russia.
	DefaultListURL = "https://ru.wikipedia.org/wiki/%D0%A1%D0%BF%D0%B8%D1%81%D0%BE%D0%BA_%D0%B3%D0%BE%D1%80%D0%BE%D0%B4%D0%BE%D0%B2_%D0%A0%D0%BE%D1%81%D1%81%D0%B8%D0%B8"

	wikiOrigin = "https://ru.wikipedia.org"

	userAgent = "goroda-bot/1.0"

	fetchTimeout = 30 * time.Second
)

var (
	// Parenthetical disambiguation and "не призн." (unrecognized status)
	// annotations are stripped from list names.
	reNameAnnotation = regexp.MustCompile(`\s*\(.*\)|\s*не призн\..*`)

	// Inline parentheticals, bracketed footnotes, and bold markers are
	// stripped from article summaries.
	reSummaryJunk = regexp.MustCompile(` \(.*?\)|\[.*?\]|\*\*`)

	rePopulation  = regexp.MustCompile(`Население\s+(.*?)\s+(человек|чел\.)`)
	reFootnote    = regexp.MustCompile(`\[.*?\]`)
	reInfoboxJunk = regexp.MustCompile(`[\[\]↗↘]`)
)

// infobox rows extracted into the info card, in render order.
var infoboxFields = []struct {
	label  string
	format string
}{
	{"Плотность", "<b>Плотность населения:</b> %s \n"},
	{"Площадь", "<b>Площадь:</b> %s \n"},
	{"Мэр", "<b>Мэр:</b> %s\n"},
	{"Часовой пояс", "<b>Часовой пояс:</b> %s\n"},
	{"Название жителей", "<b>Название жителей:</b> %s\n"},
}

var infoboxFieldRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(infoboxFields))
	for _, field := range infoboxFields {
		res[field.label] = regexp.MustCompile(regexp.QuoteMeta(field.label) + `\s+(.*)\n`)
	}
	return res
}()

// WikiClient loads the city list and fetches per-city info cards.
type WikiClient struct {
	httpClient *http.Client
	listURL    string
	logger     zerolog.Logger
}

// NewWikiClient constructs a WikiClient for the given list article URL.
// An empty URL selects DefaultListURL.
func NewWikiClient(listURL string, httpClient *http.Client) *WikiClient {
	if listURL == "" {
		listURL = DefaultListURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fetchTimeout}
	}

	return &WikiClient{
		httpClient: httpClient,
		listURL:    listURL,
		logger:     logx.Logger().With().Str("component", "wiki").Logger(),
	}
}

// LoadCityList scrapes the list article's table into directory entries.
func (w *WikiClient) LoadCityList(ctx context.Context) ([]Entry, error) {
	doc, err := w.fetchDocument(ctx, w.listURL)
	if err != nil {
		return nil, fmt.Errorf("fetch city list: %w", err)
	}

	var entries []Entry
	doc.Find("table.standard.sortable").First().Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}

		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		cell := cells.Eq(2)
		name := strings.TrimSpace(reNameAnnotation.ReplaceAllString(strings.TrimSpace(cell.Text()), ""))
		href, ok := cell.Find("a").First().Attr("href")
		if name == "" || !ok {
			return
		}

		entries = append(entries, Entry{Name: name, URL: wikiOrigin + href})
	})

	if len(entries) == 0 {
		return nil, ErrEmptyDirectory
	}

	w.logger.Info().Int("cities", len(entries)).Msg("City list loaded from Wikipedia")
	return entries, nil
}

// CityInfo fetches a city article and renders its info card: the title, the
// lead paragraph (extended by the second one when the first is short), and
// the selected infobox rows.
func (w *WikiClient) CityInfo(url string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	doc, err := w.fetchDocument(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch city article: %w", err)
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		paragraphs = append(paragraphs, p.Text())
	})

	summary := ""
	if len(paragraphs) > 0 {
		summary = paragraphs[0]
		if utf8.RuneCountInString(paragraphs[0]) < 200 && len(paragraphs) > 1 {
			summary += paragraphs[1]
		}
	}
	summary = reSummaryJunk.ReplaceAllString(summary, "")

	title := strings.TrimSpace(doc.Find("h1").First().Text())

	return title + "\n\n" + summary + "\n" + w.renderInfobox(doc), nil
}

// renderInfobox extracts the known rows from the article's infobox table.
// Missing rows are simply omitted.
func (w *WikiClient) renderInfobox(doc *goquery.Document) string {
	infobox := doc.Find("table.infobox").First()
	if infobox.Length() == 0 {
		return ""
	}

	text := strings.TrimSpace(infobox.Text())

	var rendered strings.Builder

	if match := rePopulation.FindStringSubmatch(text); match != nil {
		value := strings.TrimSpace(reFootnote.ReplaceAllString(match[1], ""))
		fmt.Fprintf(&rendered, "<b>Население:</b> %s человек\n", value)
	}

	for _, field := range infoboxFields {
		match := infoboxFieldRes[field.label].FindStringSubmatch(text)
		if match == nil {
			continue
		}
		value := strings.TrimSpace(reInfoboxJunk.ReplaceAllString(match[1], ""))
		fmt.Fprintf(&rendered, field.format, value)
	}

	return rendered.String()
}

func (w *WikiClient) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}
