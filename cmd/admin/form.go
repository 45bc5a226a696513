package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cast"

	"mj-blocks/internal/copytext"
	"mj-blocks/internal/model"
)

// formatKey carries the text format next to the copy text value.
const formatKey = copytext.KeyCopyText + "_format"

// fieldView is one settings form element, ready for the block_form template.
type fieldView struct {
	copytext.Field
	Value     string
	Checked   bool
	Error     string
	ShowWhen  string // data-visible-when attribute, e.g. "use_background=true"
	Assets    []*model.Asset
	InputType string
}

// fieldViews turns a form description into template data.
func fieldViews(spec copytext.FormSpec, errs copytext.ValidationErrors, assets []*model.Asset) []fieldView {
	views := make([]fieldView, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		v := fieldView{Field: f, Error: errs[f.Name]}
		switch d := f.Default.(type) {
		case bool:
			v.Checked = d
			v.Value = "true"
		case nil:
		default:
			v.Value = fmt.Sprint(d)
		}
		if f.VisibleWhen != nil {
			v.ShowWhen = fmt.Sprintf("%s=%v", f.VisibleWhen.Field, f.VisibleWhen.Equals)
		}
		if f.Type == copytext.FieldMediaLibrary {
			v.Assets = allowedAssets(assets, f.AllowedBundles)
		}
		if f.Name == copytext.KeyImageOpacity {
			v.InputType = "number"
		} else {
			v.InputType = "text"
		}
		views = append(views, v)
	}
	return views
}

func allowedAssets(assets []*model.Asset, bundles []string) []*model.Asset {
	if len(bundles) == 0 {
		return assets
	}
	out := make([]*model.Asset, 0, len(assets))
	for _, a := range assets {
		for _, b := range bundles {
			if a.Bundle == b {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// valuesFromForm reads submitted settings. An unchecked checkbox is absent
// from the form and reads as false.
func valuesFromForm(form url.Values) copytext.Values {
	format := strings.TrimSpace(form.Get(formatKey))
	if format == "" {
		format = copytext.DefaultFormat
	}
	return copytext.Values{
		TextColor:     model.TextColor(form.Get(copytext.KeyTextColor)),
		TextWidth:     model.TextWidth(form.Get(copytext.KeyTextWidth)),
		CopyText:      model.RichText{Value: form.Get(copytext.KeyCopyText), Format: format},
		UseBackground: checkbox(form.Get(copytext.KeyUseBackground)),
		Image:         strings.TrimSpace(form.Get(copytext.KeyImage)),
		ImageOpacity:  strings.TrimSpace(form.Get(copytext.KeyImageOpacity)),
	}
}

func checkbox(v string) bool {
	if strings.EqualFold(v, "on") {
		return true
	}
	return cast.ToBool(v)
}
