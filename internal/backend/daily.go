package backend

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"derrclan.com/verse-sdk/internal/catalog"
)

//go:embed verses.json
var versesJSON []byte

// BundledTranslationID is the translation the embedded verse texts are in (KJV).
const BundledTranslationID = 1

// DailyVerse is one entry of the verse-of-the-day rotation.
type DailyVerse struct {
	USFM string `json:"usfm"`
	Text string `json:"text"`
}

// Daily picks a verse per calendar day from a fixed rotation.
type Daily struct {
	verses []DailyVerse
}

// LoadDaily parses the embedded rotation.
func LoadDaily() (*Daily, error) {
	return ParseDaily(versesJSON)
}

// ParseDaily parses a JSON array of DailyVerse. Every USFM address must be
// well formed and name a known book.
func ParseDaily(data []byte) (*Daily, error) {
	var verses []DailyVerse
	if err := json.Unmarshal(data, &verses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal daily verses: %w", err)
	}
	if len(verses) == 0 {
		return nil, fmt.Errorf("daily verse list is empty")
	}
	for _, v := range verses {
		u, err := catalog.ParseUSFM(v.USFM)
		if err != nil {
			return nil, err
		}
		if catalog.BookName(u.Book) == u.Book {
			return nil, fmt.Errorf("usfm %q: unknown book code", v.USFM)
		}
	}

	slog.Info("loaded daily verses", "count", len(verses))
	return &Daily{verses: verses}, nil
}

// For returns the verse for day's calendar date.
func (d *Daily) For(day time.Time) DailyVerse {
	return d.verses[(day.YearDay()-1)%len(d.verses)]
}

// Len returns the rotation length.
func (d *Daily) Len() int { return len(d.verses) }
