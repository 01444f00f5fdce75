package markdown

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, source string) *goquery.Document {
	t.Helper()
	html, err := NewParser().Parse([]byte(source))
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	require.NoError(t, err)
	return doc
}

func TestParse_ElementClasses(t *testing.T) {
	source := `# One
## Two
### Three
#### Four
##### Five

A paragraph with ` + "`code`" + ` and a [link](https://example.com).

- a
- b

1. first
2. second

> quoted

![alt](https://img.example.com/x.png)
`
	doc := render(t, source)

	tests := []struct {
		selector string
		class    string
	}{
		{"h1", ClassH1},
		{"h2", ClassH2},
		{"h3", ClassH3},
		{"h4", ClassH4},
		{"p", ClassParagraph},
		{"ul", ClassUnordered},
		{"ol", ClassOrdered},
		{"li", ClassListItem},
		{"blockquote", ClassBlockquote},
		{"code", ClassCode},
		{"a", ClassLink},
		{"img", ClassImage},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			sel := doc.Find(tt.selector).First()
			require.Equal(t, 1, sel.Length(), "missing %s", tt.selector)
			class, _ := sel.Attr("class")
			assert.Equal(t, tt.class, class)
		})
	}

	_, hasClass := doc.Find("h5").Attr("class")
	assert.False(t, hasClass)
	id, _ := doc.Find("h1").Attr("id")
	assert.Equal(t, "one", id)
}

func TestParse_FencedCode(t *testing.T) {
	doc := render(t, "```go\nfmt.Println(\"<hi>\")\n```\n")

	pre := doc.Find("pre")
	require.Equal(t, 1, pre.Length())
	class, _ := pre.Attr("class")
	assert.Equal(t, ClassPre, class)

	code := pre.Find("code")
	class, _ = code.Attr("class")
	assert.Contains(t, class, "language-go")
	assert.Contains(t, class, ClassCode)
	assert.Equal(t, "fmt.Println(\"<hi>\")\n", code.Text())
}

func TestParse_IndentedCodeWithoutLanguage(t *testing.T) {
	doc := render(t, "Text\n\n    plain code\n")

	class, _ := doc.Find("pre code").Attr("class")
	assert.Equal(t, ClassCode, class)
	assert.Equal(t, "plain code\n", doc.Find("pre code").Text())
}

func TestParse_RawHTMLIsDropped(t *testing.T) {
	html, err := NewParser().Parse([]byte("<script>alert(1)</script>\n\nSafe."))
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>")
	assert.Contains(t, string(html), "Safe.")
}

func TestParse_LeadingRuleIsNotFrontmatter(t *testing.T) {
	html, err := NewParser().Parse([]byte("---\ntitle: nope\n---\n\nBody"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "Body")
	assert.Contains(t, string(html), "title: nope")
}

func TestParsePage(t *testing.T) {
	source := "---\ntitle: About Us\ndescription: Who we are\nlastUpdated: 2024-03-01\n---\n\n# Hello\n"

	html, matter, err := NewParser().ParsePage([]byte(source))
	require.NoError(t, err)
	assert.Equal(t, "About Us", matter.Title)
	assert.Equal(t, "Who we are", matter.Description)
	assert.NotNil(t, matter.LastUpdated)
	assert.Contains(t, string(html), `class="`+ClassH1+`"`)
	assert.NotContains(t, string(html), "title:")
}

func TestParsePage_NoFrontmatter(t *testing.T) {
	html, matter, err := NewParser().ParsePage([]byte("Just text."))
	require.NoError(t, err)
	assert.Equal(t, PageMatter{}, matter)
	assert.Contains(t, string(html), "Just text.")
}
