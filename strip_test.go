package imgstrip_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/njchilds90/imgstrip"
)

func TestRewrite_Link(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"bare image",
			`<p>x <img src="X" alt="y" width="10"> z</p>`,
			`<p>x <a class="imgbutton" href="X">IMG</a> z</p>`,
		},
		{
			"self closing image",
			`<img src="X"/>`,
			`<a class="imgbutton" href="X">IMG</a>`,
		},
		{
			"upper case image",
			`<IMG SRC="X">`,
			`<a class="imgbutton" href="X">IMG</a>`,
		},
		{
			"anchor wrapped image",
			`<a href="H"><img src="X"></a>`,
			`<a href="H">a</a><a class="imgbutton" href="X">IMG</a>`,
		},
		{
			"anchor with text around image",
			`<a href="H">see <img src="X"> here</a> after`,
			`<a href="H">see a</a><a class="imgbutton" href="X">IMG</a> here after`,
		},
		{
			"two images in one anchor",
			`<a href="H"><img src="1"><img src="2"></a>`,
			`<a href="H">a</a><a class="imgbutton" href="1">IMG</a><a class="imgbutton" href="2">IMG</a>`,
		},
		{
			"anchor without image",
			`<a href="H">text</a>`,
			`<a href="H">text</a>`,
		},
		{
			"image after closed anchor",
			`<a href="H">t</a><img src="X">`,
			`<a href="H">t</a><a class="imgbutton" href="X">IMG</a>`,
		},
		{
			"second anchor after early close",
			`<a href="H"><img src="X"></a> <a href="K">k</a>`,
			`<a href="H">a</a><a class="imgbutton" href="X">IMG</a> <a href="K">k</a>`,
		},
		{
			"stray end tag after early close",
			`<a href="H"><img src="X"></a></a>`,
			`<a href="H">a</a><a class="imgbutton" href="X">IMG</a></a>`,
		},
		{
			"nested anchors track the innermost",
			`<a href="1"><a href="2"><img src="X"></a></a>`,
			`<a href="1"><a href="2">a</a><a class="imgbutton" href="X">IMG</a></a>`,
		},
		{
			"duplicate src uses the first",
			`<img src="1" src="2">`,
			`<a class="imgbutton" href="1">IMG</a>`,
		},
		{
			"missing src drops the image",
			`<p><img alt="x"></p>`,
			`<p></p>`,
		},
		{
			"missing src inside anchor keeps the anchor",
			`<a href="H"><img alt="x"></a>`,
			`<a href="H"></a>`,
		},
		{
			"escaped source",
			`<img src="/i?a=1&amp;b=2">`,
			`<a class="imgbutton" href="/i?a=1&amp;b=2">IMG</a>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, imgstrip.Rewrite(tt.input, imgstrip.StripLink))
		})
	}
}

// Only script and style bodies are copied as code; images inside any
// other element are replaced.
var imageContainers = []string{
	"noscript", "iframe", "title", "textarea", "noembed", "noframes", "xmp", "plaintext",
}

func TestRewrite_LinkInsideTextElements(t *testing.T) {
	for _, tag := range imageContainers {
		t.Run(tag, func(t *testing.T) {
			in := "<" + tag + `><img src="X"></` + tag + ">"
			want := "<" + tag + `><a class="imgbutton" href="X">IMG</a></` + tag + ">"
			assert.Equal(t, want, imgstrip.Rewrite(in, imgstrip.StripLink))
		})
	}
	t.Run("self closing script", func(t *testing.T) {
		got := imgstrip.Rewrite(`<script/><img src="X">`, imgstrip.StripLink)
		assert.Equal(t, `<script/><a class="imgbutton" href="X">IMG</a>`, got)
	})
}

func TestRewrite_None(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare image", `<p>x <img src="X"> z</p>`, `<p>x  z</p>`},
		{"anchor wrapped image", `<a href="H"><img src="X"></a>`, `<a href="H"></a>`},
		{"missing src", `<img alt="x">`, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, imgstrip.Rewrite(tt.input, imgstrip.StripNone))
		})
	}
}

func TestRewrite_NoneLeavesNoTrace(t *testing.T) {
	inputs := []string{
		`<img src="http://bug.example/track.gif">`,
		`<a href="H"><img src="http://bug.example/track.gif"></a>`,
		`<p><IMG SRC='http://bug.example/track.gif' width=1 height=1/></p>`,
		`<script/><img src="http://bug.example/track.gif">`,
	}
	for _, tag := range imageContainers {
		inputs = append(inputs, "<"+tag+`><img src="http://bug.example/track.gif"></`+tag+">")
	}
	for _, in := range inputs {
		got := imgstrip.Rewrite(in, imgstrip.StripNone)
		assert.NotContains(t, got, "bug.example", "input %q", in)
		assert.NotContains(t, strings.ToLower(got), "<img", "input %q", in)
	}
}

func TestRewrite_MatchesReconstructWithoutImages(t *testing.T) {
	inputs := []string{
		`<p class="x" id='y'>Hello &copy; &#169; &foo <b>world</b></p>`,
		`<a href="H">link</a> <a href=K>other`,
		`<!DOCTYPE html><!-- c --><?pi?><div>x</span>`,
		`<script>var a = "<img src=x>";</script>`,
		`broken <a href="x`,
	}
	for _, in := range inputs {
		want := imgstrip.Reconstruct(in)
		for _, mode := range []imgstrip.StripMode{imgstrip.StripLink, imgstrip.StripNone} {
			assert.Equal(t, want, imgstrip.Rewrite(in, mode), "mode %s input %q", mode, in)
		}
	}
}

func TestStripper_ResetsBetweenFragments(t *testing.T) {
	s := imgstrip.NewStripper(imgstrip.StripLink)
	assert.Equal(t, `<a href="H">open`, s.Rewrite(`<a href="H">open`))
	assert.Equal(t, `<a class="imgbutton" href="X">IMG</a>`, s.Rewrite(`<img src="X">`))
}

func TestStripper_LogsMissingSource(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := imgstrip.NewStripper(imgstrip.StripLink, imgstrip.WithLogger(zap.New(core)))

	assert.Equal(t, "<p></p>", s.Rewrite(`<p><img alt="x"></p>`))

	entries := logs.FilterMessage("dropping image").All()
	require.Len(t, entries, 1)
	err, ok := entries[0].ContextMap()["error"].(string)
	require.True(t, ok)
	assert.Equal(t, imgstrip.ErrMissingAttribute.Error(), err)
}

func TestParseStripMode(t *testing.T) {
	m, err := imgstrip.ParseStripMode("link")
	require.NoError(t, err)
	assert.Equal(t, imgstrip.StripLink, m)

	m, err = imgstrip.ParseStripMode("none")
	require.NoError(t, err)
	assert.Equal(t, imgstrip.StripNone, m)

	for _, bad := range []string{"", "Link", "all", "none "} {
		_, err := imgstrip.ParseStripMode(bad)
		require.Error(t, err, "value %q", bad)
		assert.True(t, errors.Is(err, imgstrip.ErrInvalidConfigValue))
		var ce *imgstrip.ConfigError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, bad, ce.Value)
	}
}

func TestStripMode_String(t *testing.T) {
	assert.Equal(t, "link", imgstrip.StripLink.String())
	assert.Equal(t, "none", imgstrip.StripNone.String())
	assert.Equal(t, "unknown", imgstrip.StripMode(7).String())
}

func BenchmarkRewrite(b *testing.B) {
	input := strings.Repeat(`<p>Hello <a href="http://x.com"><img src="http://x.com/a.png"></a> <img src="b.png"></p>`, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = imgstrip.Rewrite(input, imgstrip.StripLink)
	}
}
