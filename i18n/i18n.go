// Package i18n translates menu strings. Message files live in
// assets/i18n/<lang>.yaml, keys are the English text or a game name code.
package i18n

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/jeandeaual/go-locale"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// MessagesGlob matches the message files inside the assets file system.
const MessagesGlob = "assets/i18n/*.yaml"

var supported = []string{"en", "fr", "pt", "es"}

var (
	mu        sync.RWMutex
	lang      = "en"
	localizer *goi18n.Localizer
)

// DetectLanguage picks the UI language: GAZEMENU_LANG, then the configured
// language, then the system locale, then English.
func DetectLanguage(configured string, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}
	if forced := strings.TrimSpace(os.Getenv("GAZEMENU_LANG")); forced != "" {
		logger.Info("GAZEMENU_LANG is set", "lang", forced)
		return match(forced)
	}
	if configured = strings.TrimSpace(configured); configured != "" {
		return match(configured)
	}

	userLocales, err := locale.GetLocales()
	if err != nil || len(userLocales) == 0 {
		logger.Info("could not get user locale, defaulting to english")
		return "en"
	}
	logger.Info("detected user locale", "locale", userLocales[0])
	return match(userLocales[0])
}

// match maps a locale such as "pt_BR" or "fr-CA" to a supported language.
func match(tag string) string {
	tag = strings.ToLower(strings.ReplaceAll(tag, "_", "-"))
	for _, l := range supported {
		if tag == l || strings.HasPrefix(tag, l+"-") {
			return l
		}
	}
	return "en"
}

// Init loads all message files from fsys and selects lang.
func Init(fsys fs.FS, l string) error {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.Glob(fsys, MessagesGlob)
	if err != nil {
		return fmt.Errorf("list message files: %w", err)
	}
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, path.Base(f)); err != nil {
			return fmt.Errorf("parse %s: %w", f, err)
		}
	}

	l = match(l)
	mu.Lock()
	lang = l
	localizer = goi18n.NewLocalizer(bundle, l)
	mu.Unlock()
	return nil
}

// T translates key, falling back to the key itself.
func T(key string) string {
	mu.RLock()
	loc := localizer
	mu.RUnlock()
	if loc == nil {
		return key
	}
	// a message missing in lang but present in English comes back with an error
	translated, _ := loc.Localize(&goi18n.LocalizeConfig{MessageID: key})
	if translated == "" {
		return key
	}
	return translated
}

// GetLang returns the selected language.
func GetLang() string {
	mu.RLock()
	defer mu.RUnlock()
	return lang
}
