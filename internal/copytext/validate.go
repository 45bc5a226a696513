package copytext

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// ValidationErrors maps a setting key to a human readable message.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid settings: " + strings.Join(parts, "; ")
}

// submission is the shape the validator checks; opacity is parsed first.
type submission struct {
	TextColor    string   `form:"text_color" validate:"required,oneof=black white red yellow"`
	TextWidth    string   `form:"text_width" validate:"omitempty,oneof=full contained"`
	CopyText     string   `form:"copy_text" validate:"required"`
	ImageOpacity *float64 `form:"image_opacity" validate:"omitempty,gte=0,lte=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return v
}

// Validate checks submitted values before they are committed.
// When formats is non-empty the copy text format must be one of them.
// It returns nil when the values are acceptable.
func Validate(v Values, formats ...string) error {
	errs := ValidationErrors{}
	s := submission{
		TextColor: string(v.TextColor),
		TextWidth: string(v.TextWidth),
		CopyText:  strings.TrimSpace(v.CopyText.Value),
	}

	if raw := strings.TrimSpace(v.ImageOpacity); raw != "" {
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			errs[KeyImageOpacity] = "must be a number between 0 and 1"
		} else {
			s.ImageOpacity = &f
		}
	}

	if err := validate.Struct(s); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validating settings: %w", err)
		}
		for _, fe := range fieldErrs {
			errs[fe.Field()] = message(fe)
		}
	}

	if _, ok := errs[KeyCopyText]; !ok && len(formats) > 0 && !slices.Contains(formats, formatOf(v)) {
		errs[KeyCopyText] = "must use one of the text formats: " + strings.Join(formats, ", ")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func formatOf(v Values) string {
	if f := strings.TrimSpace(v.CopyText.Format); f != "" {
		return f
	}
	return DefaultFormat
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte", "lte":
		return "must be a number between 0 and 1"
	default:
		return "is invalid"
	}
}
