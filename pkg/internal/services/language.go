package services

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
	"github.com/spf13/viper"
)

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

func getLanguageDetector() lingua.LanguageDetector {
	languageDetectorOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English,
				lingua.Chinese,
				lingua.Japanese,
				lingua.Spanish,
				lingua.French,
				lingua.German,
			).
			WithLowAccuracyMode().
			Build()
	})
	return languageDetector
}

// DetectLanguage returns the ISO 639-1 code of the caption, or an empty
// string when detection is disabled or not confident.
func DetectLanguage(content string) string {
	content = strings.TrimSpace(content)
	if len(content) == 0 || !viper.GetBool("language.detect") {
		return ""
	}

	if language, ok := getLanguageDetector().DetectLanguageOf(content); ok {
		return strings.ToLower(language.IsoCode639_1().String())
	}
	return ""
}
