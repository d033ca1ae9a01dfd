package charts

import (
	"fmt"
	"os"

	logging "support-chart/internal/infra/log"

	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

type faces struct {
	title font.Face
	label font.Face
	tick  font.Face
}

// loadFaces builds the three text faces. A custom fontPath replaces all of
// them; if it cannot be loaded the embedded Go fonts are used instead.
func loadFaces(fontPath string, dpi float64, theme Theme) (*faces, error) {
	if fontPath != "" {
		f, err := parseFontFile(fontPath)
		if err == nil {
			logging.LogInfo("Loaded custom chart font", zap.String("path", fontPath))
			return &faces{
				title: newFace(f, theme.TitleSizePt, dpi),
				label: newFace(f, theme.LabelSizePt, dpi),
				tick:  newFace(f, theme.TickSizePt, dpi),
			}, nil
		}
		logging.LogWarn("Failed to load custom font, using embedded Go fonts",
			zap.String("path", fontPath), zap.Error(err))
	}

	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	medium, err := truetype.Parse(gomedium.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse medium font: %w", err)
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}

	return &faces{
		title: newFace(bold, theme.TitleSizePt, dpi),
		label: newFace(medium, theme.LabelSizePt, dpi),
		tick:  newFace(regular, theme.TickSizePt, dpi),
	}, nil
}

func parseFontFile(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return truetype.Parse(data)
}

func newFace(f *truetype.Font, sizePt, dpi float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    sizePt,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
}
