package avatar

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(rows ...string) [GridSize][GridSize]bool {
	var g [GridSize][GridSize]bool
	for y, r := range rows {
		for x, c := range r {
			g[y][x] = c == '#'
		}
	}
	return g
}

func TestHash(t *testing.T) {
	cases := map[string]int64{
		"":            0,
		"1":           49,
		"a":           97,
		"bob":         97717,
		"alice":       92903040,
		"Jürgen":      1940184432,
		"hello world": 1794106052,
		"😀":           1772899, // surrogate pair, two code units
	}
	for in, want := range cases {
		assert.Equal(t, want, Hash(in), "Hash(%q)", in)
	}
}

func TestNew(t *testing.T) {
	cases := []struct {
		id    any
		color string
		grid  [GridSize][GridSize]bool
	}{
		{1, "#4080e0", grid("#####", ".###.", "..#..", "..#..", ".###.")},
		{"a", "#4080e0", grid("#####", "..#..", "#.#.#", "..#..", ".###.")},
		{"alice", "#e74040", grid(".###.", "..#..", ".###.", "#####", "#####")},
		{"bob", "#f08020", grid("#####", ".###.", ".###.", ".###.", "#####")},
		{"hello world", "#a040c0", grid(".###.", "..#..", "#####", "#.#.#", ".###.")},
	}
	for _, tc := range cases {
		a := New(tc.id)
		assert.Equal(t, tc.color, a.Color, "color for %v", tc.id)
		if diff := cmp.Diff(tc.grid, a.Grid); diff != "" {
			t.Errorf("grid for %v mismatch (-want +got):\n%s", tc.id, diff)
		}
	}
}

func TestGridInvariants(t *testing.T) {
	for _, id := range []string{"", "x", "alice", "bob", "42", "a much longer identifier"} {
		g := New(id).Grid
		for y := 0; y < GridSize; y++ {
			assert.True(t, g[y][2], "%q: center column row %d", id, y)
			assert.Equal(t, g[y][0], g[y][4], "%q: row %d not mirrored", id, y)
			assert.Equal(t, g[y][1], g[y][3], "%q: row %d not mirrored", id, y)
		}
		assert.True(t, g[0][1] && g[0][3] && g[4][1] && g[4][3], "%q: head/feet", id)
	}
}

func TestSVG(t *testing.T) {
	want := `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="40" viewBox="0 0 40 40" shape-rendering="crispEdges" style="image-rendering:pixelated">` +
		`<rect width="40" height="40" fill="#1a1a2e"/>` +
		`<rect x="0" y="0" width="8" height="8" fill="#4080e0"/>` +
		`<rect x="8" y="0" width="8" height="8" fill="#4080e0"/>` +
		`<rect x="16" y="0" width="8" height="8" fill="#4080e0"/>` +
		`<rect x="24" y="0" width="8" height="8" fill="#4080e0"/>` +
		`<rect x="32" y="0" width="8" height="8" fill="#4080e0"/>` +
		`<rect x="8" y="8" width="8" height="8" fill="#4080e0"/>` +
		`<rect x="16" y="8" width="8" height="8" fill="#4080e0"/>` +
		`<rect x="24" y="8" width="8" height="8" fill="#4080e0"/>` +
		`<rect x="16" y="16" width="8" height="8" fill="#4080e0"/>` +
		`<rect x="16" y="24" width="8" height="8" fill="#4080e0"/>` +
		`<rect x="8" y="32" width="8" height="8" fill="#4080e0"/>` +
		`<rect x="16" y="32" width="8" height="8" fill="#4080e0"/>` +
		`<rect x="24" y="32" width="8" height="8" fill="#4080e0"/>` +
		`</svg>`

	assert.Equal(t, want, SVG("1", 40))
	assert.Equal(t, want, SVG(1, 0), "default size and integer seed")
}

func TestSVGFractionalPixels(t *testing.T) {
	out := SVG("alice", 32)
	assert.Contains(t, out, `<rect x="6.4" y="0" width="6.4" height="6.4" fill="#e74040"/>`)
	assert.Contains(t, out, `<rect x="19.200000000000003" y="25.6" width="6.4" height="6.4" fill="#e74040"/>`)
}

func TestDeterministicAndDistinct(t *testing.T) {
	require.Equal(t, SVG("alice", 40), SVG("alice", 40))
	require.Equal(t, DataURI(7, 24), DataURI(7, 24))
	assert.NotEqual(t, SVG("alice", 40), SVG("bob", 40))
	assert.NotEqual(t, SVG(1, 40), SVG(2, 40))
}

func TestDataURI(t *testing.T) {
	uri := DataURI("1", 10)
	require.True(t, strings.HasPrefix(uri, "data:image/svg+xml,%3Csvg%20xmlns%3D%22http%3A%2F%2Fwww.w3.org%2F2000%2Fsvg%22"))
	assert.Contains(t, uri, `fill%3D%22%231a1a2e%22%2F%3E`)
	assert.True(t, strings.HasSuffix(uri, "%3C%2Fsvg%3E"))
	assert.NotContains(t, uri, " ")
	assert.NotContains(t, uri, "<")
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "AZaz09-_.!~*'()", encodeURIComponent("AZaz09-_.!~*'()"))
	assert.Equal(t, "%20%23%2F%3A%3D%C3%BC", encodeURIComponent(" #/:=ü"))
}

func TestSeed(t *testing.T) {
	assert.Equal(t, "abc", Seed("abc"))
	assert.Equal(t, "42", Seed(42))
	assert.Equal(t, "-7", Seed(int64(-7)))
	assert.Equal(t, Hash("42"), Hash(Seed(42)))
}
