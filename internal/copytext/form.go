package copytext

import (
	"strings"

	"mj-blocks/internal/model"
)

// Field types understood by the admin form renderer.
const (
	FieldSelect       = "select"
	FieldTextFormat   = "text_format"
	FieldCheckbox     = "checkbox"
	FieldMediaLibrary = "media_library"
	FieldTextfield    = "textfield"
)

// Setting keys, shared by the form, the submitted values and the stored JSON.
const (
	KeyTextColor     = "text_color"
	KeyTextWidth     = "text_width"
	KeyCopyText      = "copy_text"
	KeyUseBackground = "use_background"
	KeyImage         = "image"
	KeyImageOpacity  = "image_opacity"
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Condition shows a field only while another field has the given value.
// It is a presentation hint for the form renderer, not a constraint.
type Condition struct {
	Field  string
	Equals any
}

// Field describes one form element.
type Field struct {
	Name           string
	Type           string
	Title          string
	Description    string
	Options        []Option
	Default        any
	Required       bool
	Format         string   // text_format only
	AllowedBundles []string // media_library only
	VisibleWhen    *Condition
}

// FormSpec is the declarative settings form of a block.
type FormSpec struct {
	Fields []Field
}

// Field returns the named field, if present.
func (f FormSpec) Field(name string) (Field, bool) {
	for _, fld := range f.Fields {
		if fld.Name == name {
			return fld, true
		}
	}
	return Field{}, false
}

// FormDescriptor builds the settings form for copy text blocks.
type FormDescriptor struct {
	t Translator
}

// NewFormDescriptor creates a FormDescriptor. A nil translator leaves strings untouched.
func NewFormDescriptor(t Translator) *FormDescriptor {
	return &FormDescriptor{t: t}
}

func (d *FormDescriptor) tr(s string) string {
	if d.t == nil {
		return s
	}
	return d.t.T(s)
}

// Describe returns the settings form with each default read from cfg.
func (d *FormDescriptor) Describe(cfg model.CopyTextConfig) FormSpec {
	n := Normalize(cfg)
	showWithBackground := &Condition{Field: KeyUseBackground, Equals: true}

	colors := make([]Option, 0, len(TextColors()))
	for _, c := range TextColors() {
		colors = append(colors, Option{Value: string(c), Label: d.tr(titleCase(string(c)))})
	}

	return FormSpec{Fields: []Field{
		{
			Name:     KeyTextColor,
			Type:     FieldSelect,
			Title:    d.tr("Copy Text Color"),
			Options:  colors,
			Default:  string(n.TextColor),
			Required: true,
		},
		{
			Name:  KeyTextWidth,
			Type:  FieldSelect,
			Title: d.tr("The width of the text"),
			Options: []Option{
				{Value: string(model.TextWidthFull), Label: d.tr("Full width")},
				{Value: string(model.TextWidthContained), Label: d.tr("Contained width")},
			},
			Default: string(n.TextWidth),
		},
		{
			Name:     KeyCopyText,
			Type:     FieldTextFormat,
			Title:    d.tr("Copy Text"),
			Default:  n.CopyText.Value,
			Format:   DefaultFormat,
			Required: true,
		},
		{
			Name:    KeyUseBackground,
			Type:    FieldCheckbox,
			Title:   d.tr("Use a background image?"),
			Default: n.UseBackground,
		},
		{
			Name:           KeyImage,
			Type:           FieldMediaLibrary,
			Title:          d.tr("Upload your image"),
			Description:    d.tr("Upload or select your profile image."),
			Default:        n.Image,
			AllowedBundles: []string{model.ImageBundle},
			VisibleWhen:    showWithBackground,
		},
		{
			Name:        KeyImageOpacity,
			Type:        FieldTextfield,
			Title:       d.tr("Image Opacity"),
			Description: d.tr("Enter the opacity of the image, a value between 0 and 1."),
			Default:     n.ImageOpacity,
			VisibleWhen: showWithBackground,
		},
	}}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
