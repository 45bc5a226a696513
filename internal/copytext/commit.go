package copytext

import "mj-blocks/internal/model"

// Values are the submitted settings form values, one per form field.
type Values struct {
	TextColor     model.TextColor
	TextWidth     model.TextWidth
	CopyText      model.RichText
	UseBackground bool
	Image         string
	ImageOpacity  string
}

// Commit copies every submitted value onto cfg and returns it.
// Nothing is coerced or validated here; that happens upstream of the commit.
func Commit(cfg *model.CopyTextConfig, v Values) *model.CopyTextConfig {
	cfg.TextColor = v.TextColor
	cfg.TextWidth = v.TextWidth
	cfg.CopyText = v.CopyText
	cfg.UseBackground = v.UseBackground
	cfg.Image = v.Image
	cfg.ImageOpacity = v.ImageOpacity
	return cfg
}

// ValuesFrom returns the values that would reproduce cfg when committed.
func ValuesFrom(cfg model.CopyTextConfig) Values {
	return Values{
		TextColor:     cfg.TextColor,
		TextWidth:     cfg.TextWidth,
		CopyText:      cfg.CopyText,
		UseBackground: cfg.UseBackground,
		Image:         cfg.Image,
		ImageOpacity:  cfg.ImageOpacity,
	}
}
