// Package i18n translates nwskit's own messages.
//
// Catalogs are gettext .po files embedded in the binary and read with
// gotext. English is the source language; Dutch ships as a catalog.
//
//	i18n.Init("")  // detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	fmt.Println(i18n.T("<EMPTY TRANSLATION>"))
//	fmt.Println(i18n.N("%d key", "%d keys", n))
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales holds the catalogs as locales/{lang}/LC_MESSAGES/nwskit.po.
//
//go:embed all:locales
var locales embed.FS

const domain = "nwskit"

var (
	po      *gotext.Locale
	current string
)

// Language returns the language passed to (or detected by) Init.
func Language() string {
	return current
}

// Init selects the message language. An empty lang is detected from the
// environment the way GNU gettext does it. Call it once at startup.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	current = lang

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T translates msgid. Untranslated strings pass through unchanged.
func T(msgid string, vars ...any) string {
	if po == nil {
		if len(vars) == 0 {
			return msgid
		}
		return fmt.Sprintf(msgid, vars...)
	}
	return po.Get(msgid, vars...)
}

// N translates a message with plural forms and formats n into it.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return fmt.Sprintf(singular, n)
		}
		return fmt.Sprintf(plural, n)
	}
	return po.GetN(singular, plural, n, n)
}

// detectLanguage reads environment variables to determine the user's
// preferred language, following GNU gettext conventions.
func detectLanguage() string {
	// GNU gettext priority: LANGUAGE > LC_ALL > LC_MESSAGES > LANG
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if val := os.Getenv(env); val != "" {
			// LANGUAGE can be a colon-separated list; take the first
			if env == "LANGUAGE" {
				parts := strings.SplitN(val, ":", 2)
				val = parts[0]
			}
			// Strip encoding suffix (e.g. "ru_RU.UTF-8" -> "ru_RU")
			if idx := strings.IndexByte(val, '.'); idx >= 0 {
				val = val[:idx]
			}
			// "C" and "POSIX" mean no translation
			if val == "C" || val == "POSIX" || val == "" {
				continue
			}
			return val
		}
	}
	return "en"
}
