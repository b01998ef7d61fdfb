package emitter

import "github.com/risor-io/phpsandbox/ast"

// rejected reports whether n is a construct that is never allowed, and the
// message to reject it with.
func rejected(n ast.Node) (string, bool) {
	switch n := n.(type) {
	case *ast.Eval:
		return "Eval is not allowed", true
	case *ast.Include:
		return "Include is not allowed", true
	case *ast.ShellExec:
		return "Shell exec is not allowed", true
	case *ast.Exit:
		return "Exit is not allowed", true
	case *ast.Print:
		return "Print is not allowed", true
	case *ast.ClassDecl:
		return "Class is not allowed", true
	case *ast.InterfaceDecl:
		return "Interface is not allowed", true
	case *ast.TraitDecl:
		return "Trait is not allowed", true
	case *ast.EnumDecl:
		return "Enum is not allowed", true
	case *ast.TraitUse:
		return "Trait use is not allowed", true
	case *ast.TraitAdaptation:
		if n.Alias != nil || n.Modifier != "" {
			return "Trait use adaption alias is not allowed", true
		}
		return "Trait use adaption is not allowed", true
	case *ast.Property:
		return "Property is not allowed", true
	case *ast.ClassMethod:
		return "Class method is not allowed", true
	case *ast.ClassConst:
		return "Class const is not allowed", true
	case *ast.EnumCase:
		return "Enum case is not allowed", true
	case *ast.Declare:
		return "Declare is not allowed", true
	case *ast.Echo:
		return "Echo is not allowed", true
	case *ast.Global:
		return "Global is not allowed", true
	case *ast.InlineHTML:
		return "Inline HTML is not allowed", true
	case *ast.HaltCompiler:
		return "Halt compiler is not allowed", true
	}
	return "", false
}
