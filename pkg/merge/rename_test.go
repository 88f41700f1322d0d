package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFunctionHead(t *testing.T) {
	tests := []struct {
		text      string
		wantName  string
		wantParam string
		wantOK    bool
	}{
		{"function updateUser(name) { }", "updateUser", "name", true},
		{"function updateUser(name: string) { }", "updateUser", "name", true},
		{"function f(a = 1, b) { }", "f", "a", true},
		{"export function f(user, extra) { }", "f", "user", true},
		{"function noParams() { }", "", "", false},
		{"const f = (x) => x", "", "", false},
	}
	for _, tt := range tests {
		name, param, ok := parseFunctionHead(tt.text)
		assert.Equal(t, tt.wantOK, ok, tt.text)
		if tt.wantOK {
			assert.Equal(t, tt.wantName, name, tt.text)
			assert.Equal(t, tt.wantParam, param, tt.text)
		}
	}
}

func TestReplaceIdent_WholeWordOnly(t *testing.T) {
	got := replaceIdent(`return "Hello " + name + username + name_x;`, "name", "userName")
	assert.Equal(t, `return "Hello " + userName + username + name_x;`, got)
}

func TestCountIdent(t *testing.T) {
	assert.Equal(t, 2, countIdent("function f(name) { return name; }", "name"))
	assert.Equal(t, 0, countIdent("const username = 1;", "name"))
}

func TestTryRenameMerge_RenamePlusBodyEdit(t *testing.T) {
	base := `function updateUser(name) {
  return "Hello " + name;
}`
	a := `function updateUser(userName) {
  return "Hello " + userName;
}`
	b := `function updateUser(name) {
  return "Hello, " + name + "!";
}`

	merged, ok := tryRenameMerge(base, a, b)
	require.True(t, ok)
	assert.Equal(t, `function updateUser(userName) {
  return "Hello, " + userName + "!";
}`, merged)
}

func TestTryRenameMerge_SymmetricDirection(t *testing.T) {
	base := `function updateUser(name) {
  return "Hello " + name;
}`
	a := `function updateUser(name) {
  return "Hello, " + name + "!";
}`
	b := `function updateUser(userName) {
  return "Hello " + userName;
}`

	merged, ok := tryRenameMerge(base, a, b)
	require.True(t, ok)
	assert.Contains(t, merged, `"Hello, " + userName + "!"`)
}

func TestTryRenameMerge_TypeChangeDisqualifies(t *testing.T) {
	base := `function f(name: string) { return name; }`
	a := `function f(userName: number) { return userName; }`
	b := `function f(name: string) { return name + "!"; }`

	_, ok := tryRenameMerge(base, a, b)
	assert.False(t, ok)
}

func TestTryRenameMerge_SecondParamRenameDisqualifies(t *testing.T) {
	base := `function f(a, b) { return a + b; }`
	aSide := `function f(a, c) { return a + c; }`
	bSide := `function f(a, b) { return a - b; }`

	_, ok := tryRenameMerge(base, aSide, bSide)
	assert.False(t, ok)
}

func TestTryRenameMerge_EditTouchesRenamedIdentifier(t *testing.T) {
	base := `function f(name) { return name; }`
	a := `function f(userName) { return userName; }`
	// B removed an occurrence of the old identifier: the edit overlaps
	// the renamed spans, so the heuristic must not apply.
	b := `function f(name) { return "anonymous"; }`

	_, ok := tryRenameMerge(base, a, b)
	assert.False(t, ok)
}

func TestTryRenameMerge_NewNameAlreadyUsedDisqualifies(t *testing.T) {
	base := `function f(name) { return name; }`
	a := `function f(userName) { return userName; }`
	b := `function f(name) { const userName = name; return userName; }`

	_, ok := tryRenameMerge(base, a, b)
	assert.False(t, ok)
}

func TestTryRenameMerge_BothRenamedDifferently(t *testing.T) {
	base := `function f(name) { return name; }`
	a := `function f(userName) { return userName; }`
	b := `function f(userId) { return userId; }`

	_, ok := tryRenameMerge(base, a, b)
	assert.False(t, ok)
}
