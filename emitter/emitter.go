// Package emitter re-serializes a PHP syntax tree while enforcing a policy.
//
// The emitter is a printer.RenderFunc: every node of the tree passes through
// it on its way to text. Language constructs that are never allowed are
// rejected outright. Calls, object construction and static access are
// checked against the policy's allow-lists. Declarations and imports update
// the policy as they are reached, so a function may be called by anything
// emitted after its declaration (including its own body) but never before
// it. Everything else is rendered by the printer unchanged.
//
// Emission stops at the first violation, and no text is returned with it.
package emitter

import (
	"context"
	"strings"

	"github.com/risor-io/phpsandbox/ast"
	"github.com/risor-io/phpsandbox/errz"
	"github.com/risor-io/phpsandbox/policy"
	"github.com/risor-io/phpsandbox/printer"
	"github.com/rs/zerolog"
)

// Config holds emitter configuration options.
type Config struct {
	// Filename is the source filename, used in violation positions.
	Filename string

	// Source is the original source code, used to attach the offending line
	// to violations.
	Source string

	// Logger receives debug events for declarations and violations.
	// Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Emitter renders programs under a policy. The policy is mutated by
// emission, so an Emitter must not be used from several goroutines.
type Emitter struct {
	policy   *policy.Policy
	filename string
	source   string
	log      zerolog.Logger
}

// New returns an Emitter enforcing p. Pass nil for cfg to use defaults.
func New(p *policy.Policy, cfg *Config) *Emitter {
	e := &Emitter{policy: p, log: zerolog.Nop()}
	if cfg != nil {
		e.filename = cfg.Filename
		e.source = cfg.Source
		if cfg.Logger != nil {
			e.log = *cfg.Logger
		}
	}
	return e
}

// Emit renders program under p and returns the sanitized source. Pass nil
// for cfg to use defaults.
func Emit(ctx context.Context, program *ast.Program, p *policy.Policy, cfg *Config) (string, error) {
	return New(p, cfg).Emit(ctx, program)
}

// Policy returns the policy the emitter enforces.
func (e *Emitter) Policy() *policy.Policy {
	return e.policy
}

// Emit renders program, returning the sanitized source or the first
// violation. A *errz.PolicyViolation always carries the position of the
// offending node.
func (e *Emitter) Emit(ctx context.Context, program *ast.Program) (string, error) {
	w := &walker{Emitter: e, ctx: ctx}
	w.pr = printer.New(w.render)
	out, err := w.pr.File(program)
	if err != nil {
		if v, ok := errz.AsViolation(err); ok {
			e.annotate(v)
			e.log.Debug().
				Str("kind", v.Kind.String()).
				Str("namespace", e.policy.CurrentNamespace()).
				Int("line", v.Position.LineNumber()).
				Msg(v.Message)
		}
		return "", err
	}
	return out, nil
}

// annotate fills in the filename and source line of a violation.
func (e *Emitter) annotate(v *errz.PolicyViolation) {
	if v.Position.File == "" {
		v.Position.File = e.filename
	}
	if v.Source == "" && v.Position.IsValid() {
		v.Source = e.sourceLine(v.Position.Line)
	}
}

// sourceLine returns a line of the source. line is 0-indexed.
func (e *Emitter) sourceLine(line int) string {
	if e.source == "" {
		return ""
	}
	lines := strings.Split(e.source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line], "\r")
}

// walker holds the state of a single emission.
type walker struct {
	*Emitter
	ctx context.Context
	pr  *printer.Printer
}

// render is the printer.RenderFunc. A violation raised by the policy
// without a position gets the position of the node being rendered.
func (w *walker) render(n ast.Node) error {
	err := w.node(n)
	if v, ok := errz.AsViolation(err); ok && !v.Position.IsValid() {
		v.Position = n.Pos()
	}
	return err
}

func (w *walker) node(n ast.Node) error {
	if _, ok := n.(ast.Stmt); ok {
		if err := w.ctx.Err(); err != nil {
			return err
		}
	}
	if msg, ok := rejected(n); ok {
		return errz.Violationf(errz.DisallowedConstruct, n.Pos(), "%s", msg)
	}
	switch n := n.(type) {
	case *ast.Call:
		callee, err := w.pr.Sprint(n.Func)
		if err != nil {
			return err
		}
		if err := w.policy.CheckCallable(callee, n.Args); err != nil {
			return err
		}
		return w.pr.Call(n, callee)
	case *ast.New:
		if _, anonymous := n.Class.(*ast.ClassDecl); anonymous {
			return errz.Violationf(errz.DisallowedConstruct, n.Pos(), "Anonymous class is not allowed")
		}
		class, err := w.checkedType(n.Class)
		if err != nil {
			return err
		}
		return w.pr.New(n, class)
	case *ast.StaticCall:
		class, err := w.checkedType(n.Class)
		if err != nil {
			return err
		}
		return w.pr.StaticCall(n, class)
	case *ast.StaticPropertyFetch:
		class, err := w.checkedType(n.Class)
		if err != nil {
			return err
		}
		return w.pr.StaticPropertyFetch(n, class)
	case *ast.ClassConstFetch:
		class, err := w.checkedType(n.Class)
		if err != nil {
			return err
		}
		return w.pr.ClassConstFetch(n, class)
	case *ast.Namespace:
		var name string
		if n.Name != nil {
			name = n.Name.Value
		}
		if err := w.policy.SetNamespace(name); err != nil {
			return err
		}
	case *ast.FuncDecl:
		if err := w.policy.DeclareFunction(n.Name.Name); err != nil {
			return err
		}
		w.log.Debug().
			Str("function", n.Name.Name).
			Str("namespace", w.policy.CurrentNamespace()).
			Msg("function declared")
	case *ast.ConstStmt:
		if err := w.policy.DeclareConstant(); err != nil {
			return err
		}
	case *ast.Use:
		w.registerAliases(n)
	}
	return w.pr.Node(n)
}

// checkedType renders a class reference and checks it against the type
// allow-list.
func (w *walker) checkedType(class ast.Expr) (string, error) {
	text, err := w.pr.Sprint(class)
	if err != nil {
		return "", err
	}
	if err := w.policy.CheckType(text); err != nil {
		if v, ok := errz.AsViolation(err); ok && !v.Position.IsValid() {
			v.Position = class.Pos()
		}
		return "", err
	}
	return text, nil
}

// registerAliases records the names imported by a use statement. Class
// imports alias the type table and function imports the callable table.
// Constant imports need no alias since constants are not policed.
func (w *walker) registerAliases(n *ast.Use) {
	for _, item := range n.Items {
		kind := n.Kind
		if item.HasKind {
			kind = item.Kind
		}
		name := strings.TrimPrefix(item.Name.Value, policy.Separator)
		if n.Prefix != nil {
			name = strings.TrimPrefix(n.Prefix.Value, policy.Separator) + policy.Separator + name
		}
		alias := item.Name.Last()
		if item.Alias != nil {
			alias = item.Alias.Name
		}
		switch kind {
		case ast.UseNormal:
			w.policy.AliasType(name, alias)
		case ast.UseFunction:
			w.policy.AliasCallable(name, alias)
		}
	}
}
