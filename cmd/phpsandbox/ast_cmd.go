package main

import (
	"fmt"
	"reflect"

	"github.com/risor-io/phpsandbox"
	"github.com/risor-io/phpsandbox/ast"
	"github.com/risor-io/phpsandbox/internal/token"
	"github.com/spf13/cobra"
)

func newASTCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the parsed syntax tree as JSON",
		Long: `Ast parses the code without applying any policy and prints the syntax
tree as JSON. Every node carries its type and the line it starts on.
With --summary, only the number of nodes of each type is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			program, err := phpsandbox.New(phpsandbox.WithFilename(filename)).Parse(cmd.Context(), source)
			if err != nil {
				return err
			}
			var out any = nodeJSON(program)
			if summary, _ := cmd.Flags().GetBool("summary"); summary {
				out = nodeCounts(program)
			}
			return writeJSON(cmd.OutOrStdout(), out, a.noColor(cmd.OutOrStdout()))
		},
	}
	addInputFlags(cmd)
	cmd.Flags().Bool("summary", false, "print node counts by type instead of the tree")
	return cmd
}

func nodeCounts(root ast.Node) map[string]int {
	counts := map[string]int{}
	for node := range ast.Preorder(root) {
		counts[reflect.TypeOf(node).Elem().Name()]++
	}
	return counts
}

var (
	positionType = reflect.TypeOf(token.Position{})
	nodeType     = reflect.TypeOf((*ast.Node)(nil)).Elem()
)

// nodeJSON converts a syntax tree into maps and slices that marshal to
// readable JSON. Positions are reduced to a "line" field on each node.
func nodeJSON(node ast.Node) any {
	return valueJSON(reflect.ValueOf(node))
}

func valueJSON(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		if v.Kind() == reflect.Pointer && v.Type().Implements(nodeType) {
			out := structJSON(v.Elem())
			out["type"] = v.Elem().Type().Name()
			if pos := v.Interface().(ast.Node).Pos(); pos.IsValid() {
				out["line"] = pos.LineNumber()
			}
			return out
		}
		return valueJSON(v.Elem())
	case reflect.Struct:
		return structJSON(v)
	case reflect.Slice:
		if v.Len() == 0 {
			return nil
		}
		items := make([]any, v.Len())
		for i := range items {
			items[i] = valueJSON(v.Index(i))
		}
		return items
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return v.Interface()
}

func structJSON(v reflect.Value) map[string]any {
	out := map[string]any{}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Type == positionType {
			continue
		}
		value := valueJSON(v.Field(i))
		if value == nil || isZero(value) {
			continue
		}
		out[field.Name] = value
	}
	return out
}

func isZero(value any) bool {
	switch value := value.(type) {
	case string:
		return value == ""
	case bool:
		return !value
	}
	return false
}
