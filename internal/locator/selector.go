package locator

import "strings"

// SelectorKind identifies which query engine a selector targets
type SelectorKind string

const (
	KindCSS   SelectorKind = "css"
	KindXPath SelectorKind = "xpath"
	KindText  SelectorKind = "text"
)

const (
	xpathPrefix = "xpath="
	textPrefix  = "text="
)

// Selector is a parsed selector expression. The raw document value is
// classified once at load time so lookups never re-sniff the prefix.
type Selector struct {
	Kind    SelectorKind
	Payload string
}

// ParseSelector classifies a raw selector string by its prefix.
// Strings without a recognized prefix are CSS. Every input is classifiable;
// there is no escape syntax, so a CSS selector that genuinely starts with
// "xpath=" or "text=" cannot be expressed (known limitation of the format).
func ParseSelector(raw string) Selector {
	switch {
	case strings.HasPrefix(raw, xpathPrefix):
		return Selector{Kind: KindXPath, Payload: raw[len(xpathPrefix):]}
	case strings.HasPrefix(raw, textPrefix):
		return Selector{Kind: KindText, Payload: raw[len(textPrefix):]}
	default:
		return Selector{Kind: KindCSS, Payload: raw}
	}
}

// String re-encodes the selector in document form.
func (s Selector) String() string {
	switch s.Kind {
	case KindXPath:
		return xpathPrefix + s.Payload
	case KindText:
		return textPrefix + s.Payload
	default:
		return s.Payload
	}
}
