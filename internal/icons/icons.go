// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package icons loads app icons and renders them as terminal half-block art.
package icons

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/boreapps/bore/internal/console"
)

// Size is the edge length icons are scaled to, in pixels.
const Size = 20

// alphaThreshold below which a pixel is drawn as background.
const alphaThreshold = 0x8000

// Load decodes the image at path and scales it to Size×Size.
func Load(path string) (*image.RGBA, error) {
	// #nosec G304 - Icons live in the configured icons directory
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return Resize(img, Size), nil
}

// Resize scales img to a size×size square with Catmull-Rom filtering.
func Resize(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	return dst
}

// Render draws img with one "▀" cell per two pixel rows, so a 20×20 icon
// takes 20 columns and 10 lines. Transparent pixels show the terminal background.
func Render(img image.Image) string {
	bounds := img.Bounds()

	var out strings.Builder

	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		if y > bounds.Min.Y {
			out.WriteByte('\n')
		}

		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := img.At(x, y)

			var bottom color.Color = color.Transparent
			if y+1 < bounds.Max.Y {
				bottom = img.At(x, y+1)
			}

			out.WriteString(cell(top, bottom))
		}
	}

	return out.String()
}

func cell(top, bottom color.Color) string {
	topHex, topVisible := hex(top)
	bottomHex, bottomVisible := hex(bottom)

	switch {
	case topVisible && bottomVisible:
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(topHex)).
			Background(lipgloss.Color(bottomHex)).
			Render("▀")
	case topVisible:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(topHex)).Render("▀")
	case bottomVisible:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(bottomHex)).Render("▄")
	}

	return " "
}

// hex returns the #rrggbb form of c and whether it is opaque enough to draw.
func hex(c color.Color) (string, bool) {
	r, g, b, a := c.RGBA()
	if a < alphaThreshold {
		return "", false
	}

	// Undo premultiplication
	r = r * 0xffff / a
	g = g * 0xffff / a
	b = b * 0xffff / a

	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8), true
}

// Cache renders icons from a directory once and remembers the result.
// Missing or corrupt icons render as nothing and are only logged.
type Cache struct {
	dir string

	mu       sync.Mutex
	rendered map[string]string
}

// NewCache creates a cache over the icons directory.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir, rendered: make(map[string]string)}
}

// Dir returns the icons directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Render returns the half-block art for the icon file name, or false when it cannot be shown.
func (c *Cache) Render(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if art, ok := c.rendered[name]; ok {
		return art, art != ""
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.dir, name)
	}

	img, err := Load(path)
	if err != nil {
		console.DefaultOutput.Progressf("Icon %s unavailable: %v", name, err)
		c.rendered[name] = ""

		return "", false
	}

	art := Render(img)
	c.rendered[name] = art

	return art, true
}

// Forget drops a cached rendering, for example after an icon was replaced.
func (c *Cache) Forget(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.rendered, name)
}
