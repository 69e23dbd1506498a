// Package avatar derives a small symmetric pixel avatar from an identifier.
//
// The same identifier always yields the same avatar, byte for byte, and the
// output matches the avatars the ChoreQuest web frontend draws.
package avatar

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

const (
	// GridSize is the number of cells per side.
	GridSize = 5
	// DefaultSize is the rendered edge length when none is given.
	DefaultSize = 40
	// Background fills the whole image behind the cells.
	Background = "#1a1a2e"
)

// Palette is indexed by hash modulo its length.
var Palette = [...]string{
	"#e74040", // red
	"#4080e0", // blue
	"#40b830", // green
	"#f0b028", // gold
	"#a040c0", // purple
	"#f08020", // orange
	"#e05080", // pink
	"#30b0b0", // teal
}

// Avatar is the renderer-independent form: a color and the cells to fill.
type Avatar struct {
	Color string
	Grid  [GridSize][GridSize]bool // [row][col]
}

// Seed turns an identifier into the string that gets hashed.
// Strings are used as-is, integers in decimal.
func Seed(identifier any) string {
	switch v := identifier.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Hash is the 31-polynomial rolling hash over UTF-16 code units, wrapped to
// a signed 32-bit value and made non-negative. math.MinInt32 maps to 2^31.
func Hash(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// New builds the avatar for identifier.
func New(identifier any) Avatar {
	seed := Hash(Seed(identifier))

	var a Avatar
	a.Color = Palette[seed%int64(len(Palette))]
	for y := 0; y < GridSize; y++ {
		for x := 0; x < 3; x++ {
			a.Grid[y][x] = (seed>>(y*3+x))&1 == 1
		}
		a.Grid[y][3] = a.Grid[y][1]
		a.Grid[y][4] = a.Grid[y][0]
		a.Grid[y][2] = true
	}
	// head and feet
	a.Grid[0][1], a.Grid[0][3] = true, true
	a.Grid[4][1], a.Grid[4][3] = true, true
	return a
}

// SVG renders identifier as inline SVG markup of size×size pixels.
func SVG(identifier any, size int) string {
	if size <= 0 {
		size = DefaultSize
	}
	return New(identifier).SVG(size)
}

// SVG renders the avatar as inline SVG markup of size×size pixels.
func (a Avatar) SVG(size int) string {
	if size <= 0 {
		size = DefaultSize
	}
	px := float64(size) / GridSize
	pxs := num(px)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges" style="image-rendering:pixelated">`,
		size, size, size, size)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, size, size, Background)
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			if !a.Grid[y][x] {
				continue
			}
			fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
				num(float64(x)*px), num(float64(y)*px), pxs, pxs, a.Color)
		}
	}
	b.WriteString(`</svg>`)
	return b.String()
}

// DataURI returns the SVG for identifier as an embeddable data URI.
func DataURI(identifier any, size int) string {
	return "data:image/svg+xml," + encodeURIComponent(SVG(identifier, size))
}

// num formats like a JavaScript number: shortest round-trip, no exponent.
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// encodeURIComponent leaves A-Z a-z 0-9 and -_.!~*'() alone and
// percent-encodes every other UTF-8 byte with upper-case hex.
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
