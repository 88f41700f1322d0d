package merge

import (
	"strings"
	"unicode"
)

// tryRenameMerge reconciles a function modified on both sides when one
// side's entire edit is a rename of the first declared parameter and the
// other side's edit does not touch that identifier's occurrences. The
// renamer's side contributes only the new name; the other side's full text
// is taken as the base and every whole-word occurrence of the old name is
// substituted, scoped to the function's own text.
func tryRenameMerge(baseText, aText, bText string) (string, bool) {
	if merged, ok := composeRename(baseText, aText, bText); ok {
		return merged, true
	}
	// Symmetric case: B renamed, A carries the body edit.
	return composeRename(baseText, bText, aText)
}

// composeRename checks that `renamed` is a pure first-parameter rename of
// base and that `edited` leaves the old identifier's occurrences intact,
// then rewrites `edited` with the new name.
func composeRename(base, renamed, edited string) (string, bool) {
	baseName, oldParam, ok := parseFunctionHead(base)
	if !ok {
		return "", false
	}
	renName, newParam, ok := parseFunctionHead(renamed)
	if !ok || renName != baseName || newParam == oldParam {
		return "", false
	}

	// Pure rename: substituting the old name back into the renamed side
	// must reproduce base byte-for-byte. Any type, default value, extra
	// parameter, or body change disqualifies the heuristic.
	if replaceIdent(renamed, newParam, oldParam) != base {
		return "", false
	}

	edName, edParam, ok := parseFunctionHead(edited)
	if !ok || edName != baseName || edParam != oldParam {
		return "", false
	}
	// The edit must be disjoint from the renamed identifier: same set of
	// occurrences as base, and the new name must not already occur (the
	// substitution would capture it).
	if countIdent(edited, oldParam) != countIdent(base, oldParam) {
		return "", false
	}
	if countIdent(edited, newParam) != 0 {
		return "", false
	}

	return replaceIdent(edited, oldParam, newParam), true
}

// parseFunctionHead extracts the function name and the first parameter's
// identifier from a function declaration's text. The parameter identifier
// ends at a type annotation, default value, separator, or closing paren.
func parseFunctionHead(text string) (name, firstParam string, ok bool) {
	src := strings.Replace(text, "export ", "", 1)

	idx := strings.Index(src, "function ")
	if idx < 0 {
		return "", "", false
	}
	rest := src[idx+len("function "):]

	paren := strings.IndexByte(rest, '(')
	if paren < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(rest[:paren])

	params := rest[paren+1:]
	end := strings.IndexAny(params, ":,=)")
	if end < 0 {
		end = len(params)
	}
	firstParam = strings.TrimSpace(params[:end])

	if name == "" || firstParam == "" {
		return "", "", false
	}
	return name, firstParam, true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// replaceIdent substitutes whole-word occurrences of an identifier,
// leaving substrings (e.g. `name` inside `username`) alone.
func replaceIdent(text, from, to string) string {
	var out strings.Builder
	out.Grow(len(text))

	runes := []rune(text)
	fromRunes := []rune(from)
	for i := 0; i < len(runes); {
		if matchesWord(runes, i, fromRunes) {
			out.WriteString(to)
			i += len(fromRunes)
			continue
		}
		out.WriteRune(runes[i])
		i++
	}
	return out.String()
}

// countIdent counts whole-word occurrences of an identifier.
func countIdent(text, ident string) int {
	runes := []rune(text)
	identRunes := []rune(ident)
	count := 0
	for i := 0; i < len(runes); {
		if matchesWord(runes, i, identRunes) {
			count++
			i += len(identRunes)
			continue
		}
		i++
	}
	return count
}

func matchesWord(runes []rune, at int, word []rune) bool {
	if at+len(word) > len(runes) {
		return false
	}
	for j, r := range word {
		if runes[at+j] != r {
			return false
		}
	}
	if at > 0 && isWordRune(runes[at-1]) {
		return false
	}
	if next := at + len(word); next < len(runes) && isWordRune(runes[next]) {
		return false
	}
	return true
}
