// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// =============================================================================
// LOCALE
// =============================================================================

// Locale is a supported display language.
type Locale string

const (
	English  Locale = "en"
	Japanese Locale = "ja"

	// DefaultLocale applies when no preference has been stored.
	DefaultLocale = English
)

// ErrUnsupported is returned when a locale or currency is not offered.
var ErrUnsupported = errors.New("unsupported preference value")

var supportedTags = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(supportedTags)

// ParseLocale maps a BCP 47 tag ("ja", "ja-JP", "en_US") onto a supported locale.
func ParseLocale(s string) (Locale, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: locale %q", ErrUnsupported, s)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", fmt.Errorf("%w: locale %q", ErrUnsupported, s)
	}
	if supportedTags[idx] == language.Japanese {
		return Japanese, nil
	}
	return English, nil
}

// Tag returns the language tag used for message lookup and number formatting.
func (l Locale) Tag() language.Tag {
	if l == Japanese {
		return language.Japanese
	}
	return language.English
}

// Toggle returns the other supported locale.
func (l Locale) Toggle() Locale {
	if l == Japanese {
		return English
	}
	return Japanese
}

// Label is the switch caption shown next to the toggle.
func (l Locale) Label() string {
	if l == Japanese {
		return "日本語"
	}
	return "EN"
}

// =============================================================================
// CURRENCY
// =============================================================================

// Currency is a supported ISO 4217 display currency.
type Currency string

const (
	INR Currency = "INR"
	KWD Currency = "KWD"
	JPY Currency = "JPY"

	// DefaultCurrency applies when no preference has been stored.
	DefaultCurrency = INR
)

// Currencies lists the selectable currencies in menu order.
var Currencies = []Currency{INR, KWD, JPY}

var symbols = map[Currency]string{
	INR: "₹",
	KWD: "د.ك",
	JPY: "¥",
}

// ParseCurrency validates an ISO code and checks it is one we offer.
func ParseCurrency(s string) (Currency, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return "", fmt.Errorf("%w: currency %q", ErrUnsupported, s)
	}
	c := Currency(unit.String())
	if _, ok := symbols[c]; !ok {
		return "", fmt.Errorf("%w: currency %q", ErrUnsupported, s)
	}
	return c, nil
}

// Symbol returns the display symbol, or the code itself when none is known.
func (c Currency) Symbol() string {
	if s, ok := symbols[c]; ok {
		return s
	}
	return string(c)
}

// Option is the selector label, e.g. "INR (₹)".
func (c Currency) Option() string {
	return fmt.Sprintf("%s (%s)", c, c.Symbol())
}

// Next cycles through Currencies.
func (c Currency) Next() Currency {
	for i, candidate := range Currencies {
		if candidate == c {
			return Currencies[(i+1)%len(Currencies)]
		}
	}
	return DefaultCurrency
}

// Scale is the number of minor-unit digits for the currency (INR 2, KWD 3, JPY 0).
func (c Currency) Scale() int {
	unit, err := currency.ParseISO(string(c))
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}
