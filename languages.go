package desi

import "strings"

// English is the canonical identifier of the source language most tables use.
const English = "en"

// LanguageNames maps canonical language identifiers to human-readable names.
var LanguageNames = map[string]string{
	"en":        "English",
	"hindi":     "Hindi (हिन्दी)",
	"telugu":    "Telugu (తెలుగు)",
	"tamil":     "Tamil (தமிழ்)",
	"kannada":   "Kannada (ಕನ್ನಡ)",
	"malayalam": "Malayalam (മലയാളം)",
	"marathi":   "Marathi (मराठी)",
	"punjabi":   "Punjabi (ਪੰਜਾਬੀ)",
	"urdu":      "Urdu (اردو)",
}

// languageAliases maps accepted codes to canonical identifiers.
var languageAliases = map[string]string{
	"en":        "en",
	"english":   "en",
	"hi":        "hindi",
	"hindi":     "hindi",
	"te":        "telugu",
	"telugu":    "telugu",
	"ta":        "tamil",
	"tamil":     "tamil",
	"kn":        "kannada",
	"kannada":   "kannada",
	"ml":        "malayalam",
	"malayalam": "malayalam",
	"mr":        "marathi",
	"marathi":   "marathi",
	"pa":        "punjabi",
	"punjabi":   "punjabi",
	"ur":        "urdu",
	"urdu":      "urdu",
}

// htmlLangCodes maps canonical identifiers to BCP 47 tags.
var htmlLangCodes = map[string]string{
	"en":        "en",
	"hindi":     "hi-IN",
	"telugu":    "te-IN",
	"tamil":     "ta-IN",
	"kannada":   "kn-IN",
	"malayalam": "ml-IN",
	"marathi":   "mr-IN",
	"punjabi":   "pa-IN",
	"urdu":      "ur-IN",
}

// sovLanguages is used when the grammar table has no word-order entry.
var sovLanguages = map[string]bool{
	"hindi":     true,
	"telugu":    true,
	"tamil":     true,
	"kannada":   true,
	"malayalam": true,
	"marathi":   true,
	"punjabi":   true,
}

// RTLLanguages contains canonical identifiers of right-to-left languages.
var RTLLanguages = map[string]bool{
	"urdu": true,
}

// NormalizeLanguage maps a language code ("hi", "hi_IN", "Hindi") to its
// canonical identifier ("hindi"). Unknown codes are returned lowercased.
func NormalizeLanguage(code string) string {
	c := strings.ToLower(strings.TrimSpace(code))
	if canonical, ok := languageAliases[c]; ok {
		return canonical
	}
	base := strings.FieldsFunc(c, func(r rune) bool { return r == '_' || r == '-' })
	if len(base) > 1 {
		if canonical, ok := languageAliases[base[0]]; ok {
			return canonical
		}
	}
	return c
}

// GetLanguageName returns the display name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(code string) string {
	if name, ok := LanguageNames[NormalizeLanguage(code)]; ok {
		return name
	}
	return code
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(code string) string {
	if RTLLanguages[NormalizeLanguage(code)] {
		return "rtl"
	}
	return "ltr"
}

// ToHTMLLang converts a language code to an HTML lang attribute value.
func ToHTMLLang(code string) string {
	lang := NormalizeLanguage(code)
	if tag, ok := htmlLangCodes[lang]; ok {
		return tag
	}
	return strings.ReplaceAll(lang, "_", "-")
}

// OrderOf returns the configured word order for a language. English and
// unconfigured languages default to SVO unless they are known SOV languages.
func (g GrammarRules) OrderOf(lang string) WordOrder {
	lang = NormalizeLanguage(lang)
	if lang == English {
		lang = "english"
	}
	if order, ok := g.WordOrder[lang]; ok && order != "" {
		return order
	}
	if sovLanguages[lang] {
		return OrderSOV
	}
	return OrderSVO
}

// UsesSOV reports whether clauses in lang are verb-final.
func (g GrammarRules) UsesSOV(lang string) bool {
	return g.OrderOf(lang) == OrderSOV
}
