package languages

import (
	"context"
	"strings"

	"github.com/richardkriesman/batterypack/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TypeScriptParser extracts module specifiers from TypeScript and
// JavaScript source files.
type TypeScriptParser struct {
	tsParser  *sitter.Parser
	tsxParser *sitter.Parser
	jsParser  *sitter.Parser
}

// NewTypeScriptParser creates a new TypeScript/JavaScript parser
func NewTypeScriptParser() *TypeScriptParser {
	ts := sitter.NewParser()
	ts.SetLanguage(typescript.GetLanguage())

	x := sitter.NewParser()
	x.SetLanguage(tsx.GetLanguage())

	js := sitter.NewParser()
	js.SetLanguage(javascript.GetLanguage())

	return &TypeScriptParser{
		tsParser:  ts,
		tsxParser: x,
		jsParser:  js,
	}
}

func (t *TypeScriptParser) Language() string {
	return "typescript"
}

func (t *TypeScriptParser) Extensions() []string {
	return []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}
}

func (t *TypeScriptParser) Parse(filename string, content []byte) (*parser.FileImports, error) {
	// Choose parser based on extension
	p := t.tsParser
	lang := "typescript"
	switch {
	case strings.HasSuffix(filename, ".tsx"):
		p = t.tsxParser
	case strings.HasSuffix(filename, ".js") || strings.HasSuffix(filename, ".jsx") ||
		strings.HasSuffix(filename, ".mjs") || strings.HasSuffix(filename, ".cjs"):
		p = t.jsParser
		lang = "javascript"
	}

	tree, err := p.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	result := &parser.FileImports{
		Path:     filename,
		Language: lang,
		Imports:  make([]string, 0),
	}
	t.extractImports(tree.RootNode(), content, result)

	return result, nil
}

func (t *TypeScriptParser) extractImports(node *sitter.Node, content []byte, result *parser.FileImports) {
	switch node.Type() {
	case "import_statement", "export_statement":
		// import x from "y"; export * from "y"
		if source := node.ChildByFieldName("source"); source != nil {
			result.Imports = append(result.Imports, unquote(source.Content(content)))
			return
		}
		if node.Type() == "export_statement" {
			break
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "string" {
				result.Imports = append(result.Imports, unquote(child.Content(content)))
				return
			}
		}

	case "call_expression":
		// require("y") and import("y")
		fn := node.ChildByFieldName("function")
		args := node.ChildByFieldName("arguments")
		if fn != nil && args != nil && args.NamedChildCount() > 0 &&
			(fn.Type() == "import" || fn.Content(content) == "require") {
			if arg := args.NamedChild(0); arg.Type() == "string" {
				result.Imports = append(result.Imports, unquote(arg.Content(content)))
			}
		}
	}

	// Recurse into children
	for i := 0; i < int(node.ChildCount()); i++ {
		t.extractImports(node.Child(i), content, result)
	}
}
