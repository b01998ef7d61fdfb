package ast

import (
	"testing"

	"github.com/risor-io/phpsandbox/internal/token"
	"github.com/stretchr/testify/require"
)

// exampleProgram builds the tree for:
//
//	if ($a) { foo($b, 1); } else { echo new Bar; }
func exampleProgram() *Program {
	call := &Call{
		Func: &Name{Value: "foo"},
		Args: []*Arg{
			{Value: &Variable{Name: "b"}},
			{Value: &Int{Literal: "1"}},
		},
	}
	return &Program{Stmts: []Stmt{
		&If{
			Cond: &Variable{Name: "a"},
			Body: &Block{Stmts: []Stmt{&ExprStmt{X: call}}},
			Else: &Block{Stmts: []Stmt{
				&Echo{Args: []Expr{&New{Class: &Name{Value: "Bar"}}}},
			}},
		},
	}}
}

func TestInspect(t *testing.T) {
	var names []string
	Inspect(exampleProgram(), func(n Node) bool {
		switch n := n.(type) {
		case *Name:
			names = append(names, n.Value)
		case *Variable:
			names = append(names, "$"+n.Name)
		}
		return true
	})
	require.Equal(t, []string{"$a", "foo", "$b", "Bar"}, names)
}

func TestInspectSkipsChildren(t *testing.T) {
	var count int
	Inspect(exampleProgram(), func(n Node) bool {
		count++
		_, isBlock := n.(*Block)
		return !isBlock
	})
	// Program, If, Variable, Block, Block
	require.Equal(t, 5, count)
}

func TestPreorderStops(t *testing.T) {
	var seen []Node
	for n := range Preorder(exampleProgram()) {
		seen = append(seen, n)
		if _, ok := n.(*Call); ok {
			break
		}
	}
	require.IsType(t, &Call{}, seen[len(seen)-1])
	require.IsType(t, &Program{}, seen[0])
}

func TestChildrenSkipsNil(t *testing.T) {
	tern := &Ternary{Cond: &Variable{Name: "a"}, Else: &Int{Literal: "2"}}
	require.Len(t, Children(tern), 2)

	arr := &Array{Items: []*ArrayItem{nil, {Value: &Variable{Name: "b"}}}}
	require.Len(t, Children(arr), 1)
}

func TestNameParts(t *testing.T) {
	tests := []struct {
		name  *Name
		parts []string
		last  string
	}{
		{&Name{Value: "strlen", Kind: Unqualified}, []string{"strlen"}, "strlen"},
		{&Name{Value: `App\Models\User`, Kind: Qualified}, []string{"App", "Models", "User"}, "User"},
		{&Name{Value: `\Foo\Bar`, Kind: FullyQualified}, []string{"Foo", "Bar"}, "Bar"},
		{&Name{Value: `namespace\Baz`, Kind: Relative}, []string{"Baz"}, "Baz"},
	}
	for _, tt := range tests {
		t.Run(tt.name.Value, func(t *testing.T) {
			require.Equal(t, tt.parts, tt.name.Parts())
			require.Equal(t, tt.last, tt.name.Last())
		})
	}
}

func TestStringValue(t *testing.T) {
	single := &String{Raw: `a\'b\\c\n`}
	require.Equal(t, `a'b\c\n`, single.Value())

	double := &String{Raw: `a\tb\x41\101\u{1F600}\q`, Double: true}
	require.Equal(t, "a\tbAA\U0001F600\\q", double.Value())
}

func TestPositions(t *testing.T) {
	pos := token.Position{Char: 10, Line: 1, Column: 4}
	v := &Variable{DollarPos: pos, Name: "abc"}
	require.Equal(t, pos, v.Pos())
	require.Equal(t, 8, v.End().Column)
	require.Equal(t, 14, v.End().Char)
}
