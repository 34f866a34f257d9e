package portfolio

import (
	"strings"

	"golang.org/x/text/language"
)

var (
	supportedCodes = []string{LangPrimary, LangSecondary}
	langMatcher    = language.NewMatcher([]language.Tag{language.Spanish, language.English})
)

// ResolveLanguage maps a BCP 47 tag such as "en-GB" onto a supported
// content language. Anything unknown or unparsable resolves to LangPrimary.
func ResolveLanguage(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LangPrimary
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return LangPrimary
	}
	_, idx, conf := langMatcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(supportedCodes) {
		return LangPrimary
	}
	return supportedCodes[idx]
}
