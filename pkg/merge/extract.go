package merge

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language selects the grammar used to parse a snapshot.
type Language int

const (
	LangUnknown Language = iota
	LangTypeScript
	LangTSX
)

// DetectLanguage determines the grammar for a file based on its extension.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return LangTypeScript
	case ".tsx":
		return LangTSX
	default:
		return LangUnknown
	}
}

// IsMergeableFile reports whether the file is covered by a wired-in grammar.
func IsMergeableFile(path string) bool {
	return DetectLanguage(path) != LangUnknown
}

func grammar(lang Language) *sitter.Language {
	if lang == LangTSX {
		return tsx.GetLanguage()
	}
	return typescript.GetLanguage()
}

// ParseError is the fatal per-file failure: the grammar parser rejected the
// input, so the file is excluded from the merge batch.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failure in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extract parses the source and collects its top-level units in order.
// Only direct children of the file's top level are considered; nested
// declarations stay inside their enclosing unit's raw text.
func Extract(ctx context.Context, source []byte, lang Language) (*Snapshot, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(grammar(lang))

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("syntax error in source")
	}

	snap := &Snapshot{Source: source}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		snap.Units = append(snap.Units, *extractUnit(child, source))
	}
	snap.index()
	return snap, nil
}

// extractUnit turns a top-level node into a Unit. Every node yields one:
// nodes outside the tracked kinds (default exports, re-exports, expression
// statements, comments) become opaque KindOther units under a positional
// key, so their text participates in diffing and survives splicing.
func extractUnit(node *sitter.Node, source []byte) *Unit {
	kind, decl := classifyNode(node)

	// For export-wrapped declarations the unit spans the whole export
	// statement so the `export` keyword survives splicing, but the kind
	// and name come from the inner declaration.
	u := &Unit{
		Kind:      kind,
		StartByte: node.StartByte(),
		EndByte:   node.EndByte(),
	}
	u.RawText = string(source[u.StartByte:u.EndByte])
	u.ContentHash = hashContent(u.RawText)

	if decl == nil {
		u.Kind = KindOther
		u.NameFallback = true
		u.Key = fallbackKey(u.StartByte)
		return u
	}

	name := extractName(decl, kind, source)
	if name == "" {
		u.NameFallback = true
		u.Key = fallbackKey(u.StartByte)
	} else {
		u.Name = name
		u.Key = identityKey(kind, name)
	}
	return u
}

// classifyNode maps a top-level node to a unit kind and the declaration node
// that carries its name. Export statements are unwrapped one level.
func classifyNode(node *sitter.Node) (Kind, *sitter.Node) {
	switch node.Type() {
	case "function_declaration":
		return KindFunction, node
	case "class_declaration", "abstract_class_declaration":
		return KindClass, node
	case "lexical_declaration", "variable_declaration":
		return KindVariable, node
	case "import_statement":
		return KindImport, node
	case "export_statement":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			inner := node.NamedChild(i)
			switch inner.Type() {
			case "function_declaration":
				return KindFunction, inner
			case "class_declaration", "abstract_class_declaration":
				return KindClass, inner
			case "lexical_declaration", "variable_declaration":
				return KindVariable, inner
			}
		}
		// Re-exports and default-exported expressions carry no tracked
		// declaration; the caller keeps them as opaque units.
		return "", nil
	}
	return "", nil
}

// extractName finds the declared name for a unit, or the module specifier
// for imports. Returns "" when no name can be determined (anonymous default
// exports, destructuring declarations), which triggers the positional
// fallback key.
func extractName(node *sitter.Node, kind Kind, source []byte) string {
	if kind == KindImport {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "string" {
				return strings.Trim(child.Content(source), `"'`)
			}
		}
		return ""
	}
	return findIdentifier(node, source, 0)
}

// findIdentifier searches for the first identifier beneath the declaration,
// digging through variable_declarator for lexical declarations.
func findIdentifier(node *sitter.Node, source []byte, depth int) string {
	if depth > 2 {
		return ""
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "identifier", "type_identifier":
			return child.Content(source)
		case "variable_declarator":
			if name := findIdentifier(child, source, depth+1); name != "" {
				return name
			}
		}
	}
	return ""
}
