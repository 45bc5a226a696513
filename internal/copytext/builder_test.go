package copytext

import (
	"errors"
	"fmt"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mj-blocks/internal/htmlid"
	"mj-blocks/internal/media"
	"mj-blocks/internal/model"
)

var errNotFound = errors.New("not found")

type fakeMedia struct {
	files map[string]model.FileHandle
	calls []string
}

func (f *fakeMedia) Resolve(id string) (model.FileHandle, error) {
	f.calls = append(f.calls, id)
	h, ok := f.files[id]
	if !ok {
		return model.FileHandle{}, errNotFound
	}
	return h, nil
}

type recordingText struct {
	value, format string
	err           error
}

func (r *recordingText) Render(value, format string) (template.HTML, error) {
	r.value, r.format = value, format
	if r.err != nil {
		return "", r.err
	}
	return template.HTML(fmt.Sprintf("[%s]%s", format, value)), nil
}

func newTestBuilder(m *fakeMedia, text *recordingText) *Builder {
	return NewBuilder(Deps{
		Media: m,
		URLs:  media.NewURLGenerator("https://site/files"),
		Text:  text,
		IDs:   htmlid.NewPass(),
	})
}

func TestBuildDefaults(t *testing.T) {
	m := &fakeMedia{}
	b := newTestBuilder(m, &recordingText{})

	dm := b.Build(model.CopyTextConfig{})

	assert.Equal(t, model.TextColorBlack, dm.TextColor)
	assert.Equal(t, model.TextWidthFull, dm.TextWidth)
	assert.False(t, dm.UseBackground)
	assert.Equal(t, "", dm.Image)
	assert.Equal(t, "1", dm.ImageOpacity)
	assert.NotEmpty(t, dm.ID)
	assert.Empty(t, m.calls, "resolver must not be called without an image")
}

func TestBuildMinimalConfig(t *testing.T) {
	text := &recordingText{}
	b := newTestBuilder(&fakeMedia{}, text)

	dm := b.Build(model.CopyTextConfig{CopyText: model.RichText{Value: "Hello"}})

	assert.Equal(t, template.HTML("[mj_tf_standard]Hello"), dm.Text)
	assert.Equal(t, "Hello", text.value)
	assert.Equal(t, DefaultFormat, text.format)
	assert.Equal(t, model.TextColorBlack, dm.TextColor)
	assert.Equal(t, model.TextWidthFull, dm.TextWidth)
	assert.Equal(t, "", dm.Image)
	assert.Equal(t, "1", dm.ImageOpacity)
	assert.NotEmpty(t, dm.ID)
}

func TestBuildEndToEnd(t *testing.T) {
	m := &fakeMedia{files: map[string]model.FileHandle{
		"42": {URI: "public://bg.png"},
	}}
	text := &recordingText{}
	b := newTestBuilder(m, text)

	cfg := model.CopyTextConfig{
		TextColor:     "red",
		TextWidth:     "contained",
		CopyText:      model.RichText{Value: "<p>Hi</p>", Format: "mj_tf_standard"},
		UseBackground: true,
		Image:         "42",
		ImageOpacity:  "0.5",
	}
	dm := b.Build(cfg)

	assert.Equal(t, model.TextColorRed, dm.TextColor)
	assert.Equal(t, model.TextWidthContained, dm.TextWidth)
	assert.Equal(t, template.HTML("[mj_tf_standard]<p>Hi</p>"), dm.Text)
	assert.True(t, dm.UseBackground)
	assert.Equal(t, "https://site/files/bg.png", dm.Image)
	assert.Equal(t, "0.5", dm.ImageOpacity)
	assert.NotEmpty(t, dm.ID)
	assert.Equal(t, []string{"42"}, m.calls)
}

func TestBuildMissingAssetDegrades(t *testing.T) {
	b := newTestBuilder(&fakeMedia{}, &recordingText{})

	var dm model.DisplayModel
	require.NotPanics(t, func() {
		dm = b.Build(model.CopyTextConfig{UseBackground: true, Image: "gone"})
	})
	assert.Equal(t, "", dm.Image)
	assert.True(t, dm.UseBackground)
}

func TestBuildImageWithoutBackgroundStillResolves(t *testing.T) {
	m := &fakeMedia{files: map[string]model.FileHandle{"7": {URI: "public://a.png"}}}
	b := newTestBuilder(m, &recordingText{})

	dm := b.Build(model.CopyTextConfig{Image: "7"})
	assert.Equal(t, "https://site/files/a.png", dm.Image)
	assert.False(t, dm.UseBackground)
}

func TestBuildUnservableURIDegrades(t *testing.T) {
	m := &fakeMedia{files: map[string]model.FileHandle{"7": {URI: "private://a.png"}}}
	b := newTestBuilder(m, &recordingText{})

	dm := b.Build(model.CopyTextConfig{Image: "7", UseBackground: true})
	assert.Equal(t, "", dm.Image)
}

func TestBuildTextErrorDegrades(t *testing.T) {
	b := newTestBuilder(&fakeMedia{}, &recordingText{err: errors.New("boom")})

	dm := b.Build(model.CopyTextConfig{CopyText: model.RichText{Value: "x", Format: "nope"}})
	assert.Equal(t, template.HTML(""), dm.Text)
}

func TestBuildIdempotentExceptID(t *testing.T) {
	m := &fakeMedia{files: map[string]model.FileHandle{"42": {URI: "public://bg.png"}}}
	b := newTestBuilder(m, &recordingText{})
	cfg := model.CopyTextConfig{
		TextColor:     model.TextColorYellow,
		CopyText:      model.RichText{Value: "Same"},
		UseBackground: true,
		Image:         "42",
	}

	first := b.Build(cfg)
	second := b.Build(cfg)

	assert.NotEqual(t, first.ID, second.ID, "ids are unique within a pass")
	first.ID, second.ID = "", ""
	assert.Equal(t, first, second)
}

func TestBuildDoesNotMutateConfig(t *testing.T) {
	b := newTestBuilder(&fakeMedia{}, &recordingText{})
	cfg := model.CopyTextConfig{}

	b.Build(cfg)
	assert.Equal(t, model.CopyTextConfig{}, cfg)
}

func TestBuildRenderArray(t *testing.T) {
	b := newTestBuilder(&fakeMedia{}, &recordingText{})

	ra := b.BuildRenderArray(model.CopyTextConfig{})
	assert.Equal(t, model.CopyTextPluginID, ra.Theme)
	assert.Equal(t, "copy-text", ra.CT.ID)
}

func TestNewBuilderNilCollaborators(t *testing.T) {
	b := NewBuilder(Deps{})

	dm := b.Build(model.CopyTextConfig{Image: "42", CopyText: model.RichText{Value: "x"}})
	assert.Equal(t, "", dm.Image)
	assert.Equal(t, template.HTML(""), dm.Text)
	assert.Equal(t, "copy-text", dm.ID)
}
