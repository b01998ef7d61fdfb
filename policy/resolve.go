package policy

import (
	"regexp"
	"strings"

	"github.com/risor-io/phpsandbox/ast"
	phperrors "github.com/risor-io/phpsandbox/errors"
	"github.com/risor-io/phpsandbox/errz"
	"github.com/risor-io/phpsandbox/internal/token"
)

var (
	// "\strlen": an explicit global function.
	globalFunctionName = regexp.MustCompile(`^\\\w+$`)
	// "Foo\bar" or "\Foo\bar".
	qualifiedFunctionName = regexp.MustCompile(`^(\\?[\w\\]+)\\(\w+)$`)
)

const relativePrefix = `namespace\`

// defineFunction is the built-in that declares constants at runtime.
const defineFunction = "define"

// callableParam locates the callback parameter of a higher-order built-in.
type callableParam struct {
	Position int
	Name     string
}

// callableParams lists the built-ins whose callback argument is checked.
var callableParams = map[string]callableParam{
	"array_map":            {0, "callback"},
	"array_filter":         {1, "callback"},
	"array_reduce":         {1, "callback"},
	"array_walk":           {1, "callback"},
	"array_walk_recursive": {1, "callback"},
	"iterator_apply":       {1, "callback"},
	"usort":                {1, "callback"},
	"uasort":               {1, "callback"},
	"uksort":               {1, "callback"},
}

// ResolveCallable maps a function name, already alias substituted, to the
// name looked up in the allow-list:
//
//   - "\strlen" is returned unchanged.
//   - An unqualified name inside a namespace resolves to the namespaced
//     name only when that name is already allowed, and otherwise stays
//     unqualified.
//   - "namespace\foo" is rewritten onto the current namespace.
//   - Qualified names lose their leading separator.
func (p *Policy) ResolveCallable(name string) string {
	if globalFunctionName.MatchString(name) {
		return name
	}
	if !strings.Contains(name, Separator) {
		if p.namespace == "" {
			return name
		}
		local := p.namespace + Separator + name
		if p.callables.has(local) {
			return local
		}
		return name
	}
	if p.namespace != "" && hasPrefixFold(name, relativePrefix) {
		return p.namespace + Separator + name[len(relativePrefix):]
	}
	if m := qualifiedFunctionName.FindStringSubmatch(name); m != nil {
		return strings.TrimLeft(m[1], Separator) + Separator + m[2]
	}
	return name
}

// ResolveType maps a class name, already alias substituted, to the name
// looked up in the allow-list. Class names are never resolved against the
// current namespace.
func (p *Policy) ResolveType(name string) string {
	return strings.TrimPrefix(name, Separator)
}

// CheckCallable verifies a call to the function written as name. For the
// higher-order built-ins it also verifies the callback argument: it must be
// a string naming an allowed function, or a closure literal.
func (p *Policy) CheckCallable(name string, args []*ast.Arg) error {
	name = strings.TrimLeft(p.ResolveCallable(p.CanonicalCallable(name)), Separator)
	if !p.callables.has(name) {
		v := errz.Violationf(errz.DisallowedCallable, token.NoPos, "Call to a not allowed function %s", name)
		v.Hint = phperrors.FormatSuggestions(phperrors.SuggestSimilar(name, p.callables.names))
		return v
	}
	if name == defineFunction {
		return p.CheckDefine()
	}
	param, ok := callableParams[name]
	if !ok {
		return nil
	}
	arg := argumentAt(args, param)
	if arg == nil {
		return errz.Violationf(errz.DisallowedCallableArgument, token.NoPos,
			"%s missing callable at position %d", name, param.Position)
	}
	switch value := arg.Value.(type) {
	case *ast.String:
		err := p.CheckCallable(value.Value(), nil)
		if v, ok := errz.AsViolation(err); ok && !v.Position.IsValid() {
			v.Position = value.Pos()
		}
		return err
	case *ast.Closure, *ast.ArrowFunc:
		return nil
	}
	return errz.Violationf(errz.DisallowedCallableArgument, arg.Value.Pos(),
		"Usage of an invalid callable type, only string and closure allowed")
}

// argumentAt finds the argument passed for param: a named argument with the
// parameter's name wins, otherwise the argument at its position.
func argumentAt(args []*ast.Arg, param callableParam) *ast.Arg {
	for _, arg := range args {
		if arg.Name != nil && arg.Name.Name == param.Name {
			return arg
		}
	}
	if param.Position < len(args) {
		return args[param.Position]
	}
	return nil
}

// CheckType verifies construction of, or static access to, the class
// written as name.
func (p *Policy) CheckType(name string) error {
	name = p.ResolveType(p.CanonicalType(name))
	if !p.types.has(name) {
		v := errz.Violationf(errz.DisallowedType, token.NoPos, "Call to a not allowed class %s", name)
		v.Hint = phperrors.FormatSuggestions(phperrors.SuggestSimilar(name, p.types.names))
		return v
	}
	return nil
}

// DeclareFunction checks that a function may be declared here and adds it
// to the allow-list, qualified by the current namespace.
func (p *Policy) DeclareFunction(name string) error {
	if p.RestrictGlobalNamespaceDeclarations && p.namespace == "" {
		return errz.Violationf(errz.GlobalNamespaceDeclaration, token.NoPos,
			"Defining functions in global namespace is not allowed")
	}
	p.AllowCallable(name)
	return nil
}

// DeclareConstant checks that a constant may be declared here.
func (p *Policy) DeclareConstant() error {
	if p.RestrictGlobalNamespaceDeclarations && p.namespace == "" {
		return errz.Violationf(errz.GlobalNamespaceDeclaration, token.NoPos,
			"Defining constants in global namespace is not allowed")
	}
	return nil
}

// CheckDefine checks a call to define(), which declares a constant at
// runtime.
func (p *Policy) CheckDefine() error {
	return p.DeclareConstant()
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
