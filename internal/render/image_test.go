package render

import (
	"bytes"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRenderer() *Renderer {
	return NewRenderer("", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRenderProducesSquarePNG(t *testing.T) {
	data, err := testRenderer().Render("Мёд не портится тысячи лет.", ModePlain)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, canvasSize, bounds.Dx())
	assert.Equal(t, canvasSize, bounds.Dy())
}

func TestRenderIsDeterministic(t *testing.T) {
	r := testRenderer()

	first, err := r.Render("same text", ModeQuiz)
	require.NoError(t, err)

	second, err := r.Render("same text", ModeQuiz)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderModesDiffer(t *testing.T) {
	r := testRenderer()

	plain, err := r.Render("same text", ModePlain)
	require.NoError(t, err)

	quiz, err := r.Render("same text", ModeQuiz)
	require.NoError(t, err)

	assert.NotEqual(t, plain, quiz, "quiz cards carry a title and a different palette")
}

func TestRenderHandlesLongText(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "очень длинный факт который обязан переноситься по строкам "
	}

	data, err := testRenderer().Render(long, ModePlain)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRendererFallsBackWithoutFont(t *testing.T) {
	r := NewRenderer("testdata/does-not-exist.ttf", slog.New(slog.NewTextHandler(io.Discard, nil)))

	data, err := r.Render("fallback face", ModePlain)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
