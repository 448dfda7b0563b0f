package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Book pairs a three-letter USFM code with its English name.
type Book struct {
	Code string
	Name string
}

// Books lists the 66 protestant canon books in canonical order.
var Books = []Book{
	// Old Testament
	{"GEN", "Genesis"},
	{"EXO", "Exodus"},
	{"LEV", "Leviticus"},
	{"NUM", "Numbers"},
	{"DEU", "Deuteronomy"},
	{"JOS", "Joshua"},
	{"JDG", "Judges"},
	{"RUT", "Ruth"},
	{"1SA", "1 Samuel"},
	{"2SA", "2 Samuel"},
	{"1KI", "1 Kings"},
	{"2KI", "2 Kings"},
	{"1CH", "1 Chronicles"},
	{"2CH", "2 Chronicles"},
	{"EZR", "Ezra"},
	{"NEH", "Nehemiah"},
	{"EST", "Esther"},
	{"JOB", "Job"},
	{"PSA", "Psalm"},
	{"PRO", "Proverbs"},
	{"ECC", "Ecclesiastes"},
	{"SNG", "Song of Solomon"},
	{"ISA", "Isaiah"},
	{"JER", "Jeremiah"},
	{"LAM", "Lamentations"},
	{"EZK", "Ezekiel"},
	{"DAN", "Daniel"},
	{"HOS", "Hosea"},
	{"JOL", "Joel"},
	{"AMO", "Amos"},
	{"OBA", "Obadiah"},
	{"JON", "Jonah"},
	{"MIC", "Micah"},
	{"NAM", "Nahum"},
	{"HAB", "Habakkuk"},
	{"ZEP", "Zephaniah"},
	{"HAG", "Haggai"},
	{"ZEC", "Zechariah"},
	{"MAL", "Malachi"},
	// New Testament
	{"MAT", "Matthew"},
	{"MRK", "Mark"},
	{"LUK", "Luke"},
	{"JHN", "John"},
	{"ACT", "Acts"},
	{"ROM", "Romans"},
	{"1CO", "1 Corinthians"},
	{"2CO", "2 Corinthians"},
	{"GAL", "Galatians"},
	{"EPH", "Ephesians"},
	{"PHP", "Philippians"},
	{"COL", "Colossians"},
	{"1TH", "1 Thessalonians"},
	{"2TH", "2 Thessalonians"},
	{"1TI", "1 Timothy"},
	{"2TI", "2 Timothy"},
	{"TIT", "Titus"},
	{"PHM", "Philemon"},
	{"HEB", "Hebrews"},
	{"JAS", "James"},
	{"1PE", "1 Peter"},
	{"2PE", "2 Peter"},
	{"1JN", "1 John"},
	{"2JN", "2 John"},
	{"3JN", "3 John"},
	{"JUD", "Jude"},
	{"REV", "Revelation"},
}

var (
	byCode = func() map[string]string {
		m := make(map[string]string, len(Books))
		for _, b := range Books {
			m[b.Code] = b.Name
		}
		return m
	}()
	byName = func() map[string]string {
		m := make(map[string]string, len(Books))
		for _, b := range Books {
			m[b.Name] = b.Code
		}
		return m
	}()
)

// BookName returns the English name for code, or code itself when unmapped.
func BookName(code string) string {
	if name, ok := byCode[code]; ok {
		return name
	}
	return code
}

// BookCode is the inverse of BookName.
func BookCode(name string) (string, bool) {
	code, ok := byName[name]
	return code, ok
}

// USFM is a parsed BOOK.CHAPTER.VERSE address.
type USFM struct {
	Book    string
	Chapter int
	Verse   int
}

// ParseUSFM splits s into exactly three dot-separated parts with positive
// chapter and verse numbers.
func ParseUSFM(s string) (USFM, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return USFM{}, fmt.Errorf("usfm %q: want 3 parts, got %d", s, len(parts))
	}
	if parts[0] == "" {
		return USFM{}, fmt.Errorf("usfm %q: empty book code", s)
	}
	chapter, err := strconv.Atoi(parts[1])
	if err != nil || chapter <= 0 {
		return USFM{}, fmt.Errorf("usfm %q: invalid chapter %q", s, parts[1])
	}
	verse, err := strconv.Atoi(parts[2])
	if err != nil || verse <= 0 {
		return USFM{}, fmt.Errorf("usfm %q: invalid verse %q", s, parts[2])
	}
	return USFM{Book: parts[0], Chapter: chapter, Verse: verse}, nil
}

func (u USFM) String() string {
	return fmt.Sprintf("%s.%d.%d", u.Book, u.Chapter, u.Verse)
}

// FormatUSFM renders "JHN.3.16" as "John 3:16". Unmapped book codes are kept
// verbatim; anything that is not exactly three dot-separated parts is
// returned unchanged.
func FormatUSFM(usfm string) string {
	parts := strings.Split(usfm, ".")
	if len(parts) != 3 {
		return usfm
	}
	return fmt.Sprintf("%s %s:%s", BookName(parts[0]), parts[1], parts[2])
}
