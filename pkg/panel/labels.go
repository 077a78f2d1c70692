package panel

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Localizer resolves a label key such as "Skills.Qinggong".
type Localizer interface {
	Localize(key string) string
}

// Labels is a map-backed Localizer. Missing keys fall back to the title-cased
// last segment of the key.
type Labels map[string]string

func (l Labels) Localize(key string) string {
	if v, ok := l[key]; ok && v != "" {
		return v
	}
	return fallbackLabel(key)
}

func fallbackLabel(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		key = key[i+1:]
	}
	return cases.Title(language.Und).String(key)
}

// labelKey joins a namespace and a key, capitalising the key the way label
// tables spell them ("Skills" + "qinggong" -> "Skills.Qinggong").
func labelKey(namespace, key string) string {
	if key == "" {
		return namespace
	}
	return namespace + "." + strings.ToUpper(key[:1]) + key[1:]
}
