package catalog

import "fmt"

// DefaultTranslationID is NIV.
const DefaultTranslationID = 111

var translations = map[int]string{
	1:   "KJV",
	59:  "ESV",
	111: "NIV",
}

// TranslationName returns the short name for id, or "Translation #<id>".
func TranslationName(id int) string {
	if name, ok := translations[id]; ok {
		return name
	}
	return fmt.Sprintf("Translation #%d", id)
}
