package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"go.abhg.dev/goldmark/frontmatter"
)

// Parser renders post bodies and local pages to styled HTML. Raw HTML in the
// source is dropped.
type Parser struct {
	md    goldmark.Markdown
	pages goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		md:    newMarkdown(),
		pages: newMarkdown(&frontmatter.Extender{}),
	}
}

func newMarkdown(extra ...goldmark.Extender) goldmark.Markdown {
	extensions := append([]goldmark.Extender{
		extension.GFM,
		extension.Footnote,
		extension.Typographer,
	}, extra...)

	return goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(&classTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
			renderer.WithNodeRenderers(util.Prioritized(&codeBlockRenderer{}, 100)),
		),
	)
}

// Parse renders a post body. A leading "---" is a thematic break here, never front matter.
func (p *Parser) Parse(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.md.Convert(source, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PageMatter is the front matter a local page may declare.
type PageMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	// LastUpdated is a YAML date or a free-form string.
	LastUpdated any `yaml:"lastUpdated"`
}

// ParsePage renders a local page. Missing or malformed front matter yields a
// zero PageMatter, not an error.
func (p *Parser) ParsePage(source []byte) ([]byte, PageMatter, error) {
	pc := parser.NewContext()
	var buf bytes.Buffer
	var matter PageMatter

	if err := p.pages.Convert(source, &buf, parser.WithContext(pc)); err != nil {
		return nil, matter, err
	}

	if data := frontmatter.Get(pc); data != nil {
		if err := data.Decode(&matter); err != nil {
			matter = PageMatter{}
		}
	}
	return buf.Bytes(), matter, nil
}
