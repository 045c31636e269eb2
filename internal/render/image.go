// Package render draws fact cards: a gradient canvas with centered,
// word-wrapped text, encoded as PNG.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Mode selects the card style.
type Mode int

const (
	ModePlain Mode = iota
	ModeQuiz
)

const (
	canvasSize  = 1080
	bodyPoints  = 45
	titlePoints = 70
	wrapWidth   = 900
	lineSpacing = 1.5

	quizTitle = "ПРАВДА ИЛИ ЛОЖЬ?"
)

type gradient struct {
	top    [3]int
	bottom [3]int
}

var palettes = map[Mode]gradient{
	ModePlain: {top: [3]int{40, 60, 120}, bottom: [3]int{10, 10, 20}},
	ModeQuiz:  {top: [3]int{60, 20, 80}, bottom: [3]int{20, 10, 30}},
}

// Renderer produces fact card images. Rendering is deterministic for a given
// text, mode, and font.
type Renderer struct {
	bodyFace  font.Face
	titleFace font.Face
	log       *slog.Logger
}

// NewRenderer loads the preferred TrueType font, silently falling back to a
// built-in face if the file is unavailable. A missing font never fails a
// render.
func NewRenderer(fontPath string, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}

	bodyFace := font.Face(basicfont.Face7x13)
	titleFace := font.Face(basicfont.Face7x13)

	if fontPath != "" {
		if face, err := gg.LoadFontFace(fontPath, bodyPoints); err == nil {
			bodyFace = face
		} else {
			log.Warn("preferred font unavailable, using built-in face",
				slog.String("path", fontPath), slog.Any("error", err))
		}

		if face, err := gg.LoadFontFace(fontPath, titlePoints); err == nil {
			titleFace = face
		}
	}

	return &Renderer{
		bodyFace:  bodyFace,
		titleFace: titleFace,
		log:       log,
	}
}

// Render draws text onto a fresh canvas and returns the encoded PNG.
func (r *Renderer) Render(text string, mode Mode) ([]byte, error) {
	dc := gg.NewContext(canvasSize, canvasSize)

	r.fillBackground(dc, mode)

	if mode == ModeQuiz {
		dc.SetFontFace(r.titleFace)
		dc.SetRGB255(255, 215, 0)
		dc.DrawStringAnchored(quizTitle, canvasSize/2, 170, 0.5, 0.5)
	}

	dc.SetFontFace(r.bodyFace)
	dc.SetRGB255(255, 255, 255)
	dc.DrawStringWrapped(text, canvasSize/2, canvasSize/2, 0.5, 0.5, wrapWidth, lineSpacing, gg.AlignCenter)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return buf.Bytes(), nil
}

func (r *Renderer) fillBackground(dc *gg.Context, mode Mode) {
	palette, ok := palettes[mode]
	if !ok {
		palette = palettes[ModePlain]
	}

	grad := gg.NewLinearGradient(0, 0, 0, canvasSize)
	grad.AddColorStop(0, rgb(palette.top))
	grad.AddColorStop(1, rgb(palette.bottom))

	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, canvasSize, canvasSize)
	dc.Fill()
}

func rgb(c [3]int) color.Color {
	return color.RGBA{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2]), A: 255}
}
