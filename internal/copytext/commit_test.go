package copytext

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mj-blocks/internal/model"
)

func TestCommitOverwritesAllSettings(t *testing.T) {
	cfg := &model.CopyTextConfig{
		TextColor:     model.TextColorYellow,
		TextWidth:     model.TextWidthFull,
		CopyText:      model.RichText{Value: "old", Format: "plain_text"},
		UseBackground: true,
		Image:         "1",
		ImageOpacity:  "0.1",
	}
	v := Values{
		TextColor:     model.TextColorRed,
		TextWidth:     model.TextWidthContained,
		CopyText:      model.RichText{Value: "<p>Hi</p>", Format: "mj_tf_standard"},
		UseBackground: false,
		Image:         "",
		ImageOpacity:  "0.5",
	}

	got := Commit(cfg, v)

	assert.Same(t, cfg, got)
	assert.Equal(t, model.CopyTextConfig{
		TextColor:     model.TextColorRed,
		TextWidth:     model.TextWidthContained,
		CopyText:      model.RichText{Value: "<p>Hi</p>", Format: "mj_tf_standard"},
		UseBackground: false,
		Image:         "",
		ImageOpacity:  "0.5",
	}, *cfg)
}

func TestCommitKeepsValuesVerbatim(t *testing.T) {
	cfg := &model.CopyTextConfig{}

	// Nothing here is valid, and none of it is rejected or coerced
	Commit(cfg, Values{TextColor: "purple", TextWidth: "huge", ImageOpacity: " 7 "})

	assert.Equal(t, model.TextColor("purple"), cfg.TextColor)
	assert.Equal(t, model.TextWidth("huge"), cfg.TextWidth)
	assert.Equal(t, " 7 ", cfg.ImageOpacity)
}

func TestCommitLeavesBlockFieldsAlone(t *testing.T) {
	block := &model.Block{ID: "b1", Label: "Intro", Region: "content", Weight: 3}

	Commit(&block.Settings, Values{TextColor: model.TextColorWhite, CopyText: model.RichText{Value: "x"}})

	assert.Equal(t, "b1", block.ID)
	assert.Equal(t, "Intro", block.Label)
	assert.Equal(t, "content", block.Region)
	assert.Equal(t, 3, block.Weight)
	assert.Equal(t, model.TextColorWhite, block.Settings.TextColor)
}

func TestValuesFromRoundTrip(t *testing.T) {
	cfg := model.CopyTextConfig{
		TextColor: model.TextColorRed, CopyText: model.RichText{Value: "a", Format: "b"},
		UseBackground: true, Image: "3", ImageOpacity: "0",
	}
	var out model.CopyTextConfig
	Commit(&out, ValuesFrom(cfg))
	assert.Equal(t, cfg, out)
}
