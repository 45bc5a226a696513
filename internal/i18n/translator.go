// Package i18n translates user interface strings for the admin forms.
package i18n

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// builtin holds the shipped translations of the settings form strings.
var builtin = map[string]map[string]string{
	"fr": {
		"Copy Text Color":         "Couleur du texte",
		"The width of the text":   "Largeur du texte",
		"Full width":              "Pleine largeur",
		"Contained width":         "Largeur contenue",
		"Copy Text":               "Texte",
		"Use a background image?": "Utiliser une image de fond ?",
		"Upload your image":       "Téléversez votre image",
		"Image Opacity":           "Opacité de l'image",
		"Black":                   "Noir",
		"White":                   "Blanc",
		"Red":                     "Rouge",
		"Yellow":                  "Jaune",

		"Upload or select your profile image.": "Téléversez ou choisissez votre image.",

		"Enter the opacity of the image, a value between 0 and 1.": "Saisissez l'opacité de l'image, une valeur entre 0 et 1.",
	},
	"de": {
		"Copy Text Color":         "Textfarbe",
		"The width of the text":   "Breite des Textes",
		"Full width":              "Volle Breite",
		"Contained width":         "Begrenzte Breite",
		"Copy Text":               "Text",
		"Use a background image?": "Hintergrundbild verwenden?",
		"Upload your image":       "Bild hochladen",
		"Image Opacity":           "Bilddeckkraft",
		"Black":                   "Schwarz",
		"White":                   "Weiß",
		"Red":                     "Rot",
		"Yellow":                  "Gelb",
	},
}

// Translator looks strings up in a message catalog for one locale.
// Strings without a translation come back unchanged.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
	known   map[string]bool
}

// New creates a Translator for locale. Entries in extra override the built-in
// ones. An unparsable locale is an error; an unknown one just translates nothing.
func New(locale string, extra map[string]string) (*Translator, error) {
	tag := language.English
	if locale != "" {
		var err error
		tag, err = language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
		}
	}

	b := catalog.NewBuilder(catalog.Fallback(language.English))
	known := map[string]bool{}
	add := func(key, msg string) error {
		// Catalog messages are format strings; translations are literal text.
		if err := b.SetString(tag, key, strings.ReplaceAll(msg, "%", "%%")); err != nil {
			return fmt.Errorf("adding translation %q: %w", key, err)
		}
		known[key] = true
		return nil
	}
	base, _ := tag.Base()
	for key, msg := range builtin[base.String()] {
		if err := add(key, msg); err != nil {
			return nil, err
		}
	}
	for key, msg := range extra {
		if err := add(key, msg); err != nil {
			return nil, err
		}
	}

	return &Translator{tag: tag, printer: message.NewPrinter(tag, message.Catalog(b)), known: known}, nil
}

// T translates s.
func (t *Translator) T(s string) string {
	if !t.known[s] {
		return s
	}
	return t.printer.Sprintf(s)
}

// Locale returns the locale the translator was built for.
func (t *Translator) Locale() string {
	return t.tag.String()
}

// LoadFile reads extra translations from a YAML file of "source: translation" pairs.
func LoadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read translations file %s: %w", path, err)
	}
	out := map[string]string{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse translations file %s: %w", path, err)
	}
	return out, nil
}
