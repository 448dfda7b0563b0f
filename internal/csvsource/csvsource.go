package csvsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"derrclan.com/verse-sdk/internal/failure"
	"derrclan.com/verse-sdk/internal/transport"
)

// DefaultURL is the published spreadsheet the source reads when none is configured.
const DefaultURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vRjGBuePH0VQFVWRu_H_iDCr6GuSKMO6JOO_gsMwgJ3iOlqyJ5JgGQe0VKsEdpw5ua05-JSDAvIxKK7/pub?output=csv"

const (
	TranslationID   = "csv"
	TranslationName = "CSV Version"
	TranslationNote = "From Google Sheets"

	opFetch = "Failed to get verse"
)

var errPatternNotFound = errors.New("Invalid CSV format: cannot find comma+quote pattern")

// Verse is a single addressed verse.
type Verse struct {
	BookID   string `json:"book_id"`
	BookName string `json:"book_name"`
	Chapter  int    `json:"chapter"`
	Verse    int    `json:"verse"`
	Text     string `json:"text"`
}

// NewVerse validates that chapter and verse are positive.
func NewVerse(bookID, bookName string, chapter, verse int, text string) (Verse, error) {
	if chapter <= 0 || verse <= 0 {
		return Verse{}, fmt.Errorf("invalid verse address %s %d:%d", bookID, chapter, verse)
	}
	return Verse{BookID: bookID, BookName: bookName, Chapter: chapter, Verse: verse, Text: text}, nil
}

// VerseResponse is the verse read from the CSV document.
type VerseResponse struct {
	Reference       string  `json:"reference"`
	Verses          []Verse `json:"verses"`
	Text            string  `json:"text"`
	TranslationID   string  `json:"translation_id"`
	TranslationName string  `json:"translation_name"`
	TranslationNote string  `json:"translation_note"`
}

// Source reads verses from a single-line CSV document.
type Source struct {
	url       string
	transport *transport.Client
}

// New returns a Source reading url. An empty url selects DefaultURL.
func New(url string, tc *transport.Client) *Source {
	if url == "" {
		url = DefaultURL
	}
	return &Source{url: url, transport: tc}
}

// URL returns the configured document URL.
func (s *Source) URL() string { return s.url }

// FetchVerse downloads the whole configured document and parses its first
// line. reference is only logged: the document is fetched regardless of it.
func (s *Source) FetchVerse(ctx context.Context, reference string) (*VerseResponse, error) {
	slog.Debug("fetching csv verse", "reference", reference)

	resp, err := s.transport.Get(ctx, s.url, nil)
	if err != nil {
		slog.Error("failed to fetch csv", "error", err)
		return nil, failure.Network(err)
	}
	if !resp.OK() {
		slog.Error("csv source returned error status", "status", resp.StatusCode)
		return nil, failure.HTTP(opFetch, resp.StatusCode)
	}
	if len(resp.Body) == 0 {
		slog.Error("empty csv response")
		return nil, &failure.Error{Kind: failure.KindEmpty}
	}

	vr, err := ParseLine(firstLine(string(resp.Body)))
	if err != nil {
		slog.Error("failed to parse csv", "error", err)
		return nil, err
	}
	return vr, nil
}

// ParseLine parses `<reference>,"<text>"`. The split happens at the first
// `,"`; surrounding double quotes are stripped from the text.
func ParseLine(line string) (*VerseResponse, error) {
	idx := strings.Index(line, `,"`)
	if idx <= 0 {
		return nil, failure.Format(errPatternNotFound)
	}

	reference := line[:idx]
	text := strings.Trim(line[idx+1:], `"`)

	// Verse metadata is fixed to John 3:16 whatever the parsed reference is.
	v, err := NewVerse("JHN", "John", 3, 16, text)
	if err != nil {
		return nil, failure.Format(err)
	}

	return &VerseResponse{
		Reference:       reference,
		Verses:          []Verse{v},
		Text:            text,
		TranslationID:   TranslationID,
		TranslationName: TranslationName,
		TranslationNote: TranslationNote,
	}, nil
}

// firstLine returns s up to the first "\n", "\r\n" or lone "\r".
func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
