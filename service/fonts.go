package service

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// FontLibrary maps the font families text elements reference to loadable
// font sources. Families are read from a fonts directory as
// <family>.ttf / <family>-bold.ttf / <family>-italic.ttf /
// <family>-bolditalic.ttf; anything unknown falls back to the embedded Go
// fonts so text always renders.
type FontLibrary struct {
	mu      sync.Mutex
	sources map[string]*text.FontSource // key: family|style
	dir     string
}

// NewFontLibrary scans the fonts directory. A missing directory is fine;
// the embedded fallbacks carry everything.
func NewFontLibrary(dir string) *FontLibrary {
	lib := &FontLibrary{
		sources: map[string]*text.FontSource{},
		dir:     dir,
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Info().Str("dir", dir).Msg("ℹ️ no fonts directory, using embedded fonts only")
		return lib
	}
	for _, entry := range entries {
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		key := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("font", name).Msg("⚠️ failed to read font file")
			continue
		}
		source, err := text.NewFontSource(data)
		if err != nil {
			log.Warn().Err(err).Str("font", name).Msg("⚠️ failed to parse font file")
			continue
		}
		lib.sources[key] = source
	}
	log.Info().Int("fonts", len(lib.sources)).Str("dir", dir).Msg("🔤 font library loaded")
	return lib
}

// Face resolves a face for a family, style ("normal" or a space-joined
// subset of bold/italic) and pixel size.
func (fl *FontLibrary) Face(family, style string, size float64) text.Face {
	bold := strings.Contains(style, "bold")
	italic := strings.Contains(style, "italic")

	source := fl.lookup(family, bold, italic)
	if source == nil {
		source = fl.embedded(bold, italic)
	}
	return source.Face(size)
}

func (fl *FontLibrary) lookup(family string, bold, italic bool) *text.FontSource {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	family = strings.ToLower(strings.TrimSpace(family))
	if family == "" {
		return nil
	}

	var keys []string
	switch {
	case bold && italic:
		keys = []string{family + "-bolditalic", family + "-bold", family + "-italic", family}
	case bold:
		keys = []string{family + "-bold", family}
	case italic:
		keys = []string{family + "-italic", family}
	default:
		keys = []string{family}
	}
	for _, key := range keys {
		if source, ok := fl.sources[key]; ok {
			return source
		}
	}
	return nil
}

// embedded returns the Go font matching the requested style. Parsed once
// and cached under reserved keys.
func (fl *FontLibrary) embedded(bold, italic bool) *text.FontSource {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	key := "\x00go"
	var data []byte
	switch {
	case bold && italic:
		key += "-bolditalic"
		data = gobolditalic.TTF
	case bold:
		key += "-bold"
		data = gobold.TTF
	case italic:
		key += "-italic"
		data = goitalic.TTF
	default:
		data = goregular.TTF
	}

	if source, ok := fl.sources[key]; ok {
		return source
	}
	source, err := text.NewFontSource(data)
	if err != nil {
		// The embedded Go fonts always parse; this cannot happen at runtime.
		panic("failed to parse embedded font: " + err.Error())
	}
	fl.sources[key] = source
	return source
}
