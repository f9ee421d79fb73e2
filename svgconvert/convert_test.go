package svgconvert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the mirror-authoring pattern exercises the whole pipeline: parsing,
// mirror correction, translation reset, layout and serialization
const mirroredDoc = `<svg xmlns="http://www.w3.org/2000/svg">
	<g transform="translate(1,-1) scale(1,-1)">
		<rect x="0" y="0" width="10" height="10"/>
	</g>
</svg>`

func TestConvert(t *testing.T) {
	res, err := ConvertString(mirroredDoc)
	require.NoError(t, err)

	// the content box of the flattened group, in its own space,
	// up to the float noise of the half-turn rotation
	assert.InDelta(t, 0, res.Bounds.X, 1e-9)
	assert.InDelta(t, 0, res.Bounds.Y, 1e-9)
	assert.InDelta(t, 10, res.Bounds.W, 1e-9)
	assert.InDelta(t, 10, res.Bounds.H, 1e-9)

	out := string(res.SVG)
	assert.Contains(t, out, `rotate(180 5 5)`)
	assert.Contains(t, out, "<rect")
	assert.Contains(t, out, `preserveAspectRatio="xMidYMid meet"`)
	assert.NotContains(t, out, "scale(1,-1)")
}

func TestConvertInvalid(t *testing.T) {
	for _, input := range []string{
		"",
		"no markup here",
		"<svg><g></svg>",
	} {
		_, err := ConvertString(input)
		require.Error(t, err, "input %q", input)
		assert.Contains(t, err.Error(), "parsing svg fragment")
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mirrored.svg")
	require.NoError(t, os.WriteFile(path, []byte(mirroredDoc), 0644))

	res, err := ConvertFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, res.SVG)

	// failures carry the file name
	bad := filepath.Join(dir, "bad.svg")
	require.NoError(t, os.WriteFile(bad, []byte("<svg><g></svg>"), 0644))
	_, err = ConvertFile(bad)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "bad.svg"), err.Error())

	_, err = ConvertFile(filepath.Join(dir, "missing.svg"))
	assert.Error(t, err)
}
