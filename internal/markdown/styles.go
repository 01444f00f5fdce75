package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Element classes applied to rendered markdown.
const (
	ClassH1         = "text-4xl font-bold mt-8 mb-4"
	ClassH2         = "text-3xl font-bold mt-6 mb-3"
	ClassH3         = "text-2xl font-semibold mt-5 mb-2"
	ClassH4         = "text-xl font-semibold mt-4 mb-2"
	ClassParagraph  = "mb-4 leading-relaxed"
	ClassUnordered  = "list-disc list-inside mb-4 space-y-2"
	ClassOrdered    = "list-decimal list-inside mb-4 space-y-2"
	ClassListItem   = "ml-2"
	ClassBlockquote = "border-l-4 border-blue-600 dark:border-blue-400 pl-4 italic my-4 text-gray-600 dark:text-gray-400"
	ClassCode       = "bg-gray-100 dark:bg-gray-800 px-2 py-1 rounded text-sm font-mono"
	ClassPre        = "bg-gray-100 dark:bg-gray-900 p-4 rounded-lg overflow-x-auto my-4"
	ClassLink       = "text-blue-600 dark:text-blue-400 hover:underline break-words"
	ClassImage      = "max-w-full h-auto rounded-lg my-4"
)

var headingClasses = map[int]string{
	1: ClassH1,
	2: ClassH2,
	3: ClassH3,
	4: ClassH4,
}

type classTransformer struct{}

func (t *classTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var class string
		switch node := n.(type) {
		case *ast.Heading:
			class = headingClasses[node.Level]
		case *ast.Paragraph:
			class = ClassParagraph
		case *ast.List:
			class = ClassUnordered
			if node.IsOrdered() {
				class = ClassOrdered
			}
		case *ast.ListItem:
			class = ClassListItem
		case *ast.Blockquote:
			class = ClassBlockquote
		case *ast.CodeSpan:
			class = ClassCode
		case *ast.Link, *ast.AutoLink:
			class = ClassLink
		case *ast.Image:
			class = ClassImage
		}

		if class != "" {
			n.SetAttributeString("class", []byte(class))
		}
		return ast.WalkContinue, nil
	})
}

// codeBlockRenderer writes fenced and indented code as <pre><code> carrying
// the pre/code classes and a language-* class when the fence names one.
type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.render)
	reg.Register(ast.KindCodeBlock, r.render)
}

func (r *codeBlockRenderer) render(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</code></pre>\n")
		return ast.WalkContinue, nil
	}

	class := ClassCode
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		if lang := fenced.Language(source); len(lang) > 0 {
			class += " language-" + string(util.EscapeHTML(lang))
		}
	}

	_, _ = w.WriteString(`<pre class="` + ClassPre + `"><code class="` + class + `">`)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
	return ast.WalkSkipChildren, nil
}
