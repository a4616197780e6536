package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"windjammer/internal/ast"
)

func TestSymbolTableScopes(t *testing.T) {
	global := NewSymbolTable(nil)
	global.Define("main", SymbolFunction, nil, ast.Position{Offset: 0})
	local := NewSymbolTable(global)
	local.Define("x", SymbolVariable, nil, ast.Position{Offset: 10})

	assert.NotNil(t, local.Lookup("main"))
	assert.Nil(t, local.LookupLocal("main"))
	assert.Nil(t, global.Lookup("x"))
	assert.Equal(t, []string{"main", "x"}, local.Names())
	assert.Same(t, global, local.Parent())
}

func TestSymbolBorrowed(t *testing.T) {
	param := &Symbol{Kind: SymbolParameter, Param: &ast.Param{Ownership: ast.Borrowed}}
	owned := &Symbol{Kind: SymbolParameter, Param: &ast.Param{Ownership: ast.Owned}}
	self := &Symbol{Kind: SymbolParameter, Receiver: &ast.SelfParam{Mode: ast.SelfMutRef}}

	assert.True(t, param.Borrowed())
	assert.False(t, owned.Borrowed())
	assert.True(t, self.Borrowed())
	assert.Equal(t, "parameter", SymbolParameter.String())
}
