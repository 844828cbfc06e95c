package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain", input: "Markets rally", want: "Markets rally"},
		{name: "html tags", input: "<p>Stocks <b>rise</b> again</p>", want: "Stocks rise again"},
		{name: "cdata markers", input: "<![CDATA[<p>Fed holds rates</p>]]>", want: "Fed holds rates"},
		{name: "amp entity", input: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{name: "nbsp entity", input: "Dow&nbsp;Jones", want: "Dow Jones"},
		{name: "upper case entities", input: "S&AMP;P&NBSP;500", want: "S&P 500"},
		{name: "whitespace runs", input: "  one\n\n\ttwo   three ", want: "one two three"},
		{name: "mojibake", input: "Â Oil prices Â climb", want: "Oil prices climb"},
		{name: "non ascii", input: "Café — naïve résumé", want: "Caf nave rsum"},
		{name: "script body dropped", input: "<script>alert(1)</script>Headline", want: "Headline"},
		{name: "stray angle brackets", input: "<div>5 > 3 and 2 < 4</div>", want: "5 3 and 2 4"},
		{name: "escaped tags", input: "&lt;b&gt;bold&lt;/b&gt;", want: "bold"},
		{name: "quotes kept", input: `He said "buy"`, want: `He said "buy"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

func TestText_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"<p>Hello &amp; <i>welcome</i></p>",
		"&amp;amp;amp;amp;amp;amp;amp;amp;amp;amp;amp;amp;lt;b&gt;",
		"<![CDA<x>TA[inner]]>",
		"<<b>>nested<</b>>",
		"a&nbsp;&nbsp;&nbsp;b",
		"Â€™ quotes “smart” ‘single’",
		"line1\r\nline2 line3",
		"<a href=\"https://example.com\">link</a> &#65;&#x42;",
		"<",
		"a < b",
	}

	for _, in := range inputs {
		once := Text(in)
		assert.Equal(t, once, Text(once), "input %q", in)
	}
}

func TestText_StripsTags(t *testing.T) {
	inputs := []string{
		"<tag>value</tag>",
		"<div class=\"x\"><span>deep</span></div>",
		"before <br/> after",
		"<p>unclosed",
		"<img src=x onerror=alert(1)>",
	}

	for _, in := range inputs {
		out := Text(in)
		assert.NotContains(t, out, "<", "input %q", in)
		assert.NotContains(t, out, ">", "input %q", in)
	}
}

func TestText_ASCIIOnly(t *testing.T) {
	out := Text("日本語 text with émojis 🚀 and ascii")
	for _, r := range out {
		assert.LessOrEqual(t, r, rune(0x7F))
	}
	assert.Equal(t, "text with mojis and ascii", out)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "日本", Truncate("日本語", 2))

	long := strings.Repeat("x", 3500)
	assert.Len(t, Truncate(long, 3000), 3000)
}
