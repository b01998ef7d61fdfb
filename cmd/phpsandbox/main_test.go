package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/risor-io/phpsandbox/errz"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckAllowed(t *testing.T) {
	out, err := execute(t, "", "check", "-c", `<?php return strlen('abc');`)
	require.NoError(t, err)
	require.Equal(t, "code: ok\n", out)
}

func TestCheckFile(t *testing.T) {
	path := writeFile(t, "ok.php", "<?php\nreturn array_sum([1, 2]);\n")
	out, err := execute(t, "", "check", path)
	require.NoError(t, err)
	require.Equal(t, path+": ok\n", out)
}

func TestCheckViolation(t *testing.T) {
	_, err := execute(t, "", "check", "-c", "<?php\n\ndoSomethingEvil();")
	require.True(t, errz.IsViolation(err, errz.DisallowedCallable))
	require.Equal(t, "Call to a not allowed function doSomethingEvil", err.Error())
	require.Equal(t, 1, exitCode(err))
}

func TestCheckParseFailure(t *testing.T) {
	_, err := execute(t, "", "check", "-c", "<?php return (;")
	require.True(t, errz.IsParseFailure(err))
	require.Equal(t, 1, exitCode(err))
}

func TestInputErrors(t *testing.T) {
	_, err := execute(t, "", "check")
	require.ErrorContains(t, err, "no input provided")
	require.Equal(t, 2, exitCode(err))

	_, err = execute(t, "<?php return 1;", "check", "--stdin", "-c", "<?php return 2;")
	require.ErrorContains(t, err, "multiple input sources")

	_, err = execute(t, "", "check", filepath.Join(t.TempDir(), "missing.php"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSanitizeStdin(t *testing.T) {
	out, err := execute(t, `<?php return   strlen( 'abc' ) ;`, "sanitize", "--stdin")
	require.NoError(t, err)
	require.Equal(t, "<?php\n\nreturn strlen('abc');\n", out)
}

func TestNamespaceRootFlag(t *testing.T) {
	_, err := execute(t, "", "sanitize", "--namespace-root", "App", "-c", `<?php namespace Other;`)
	require.True(t, errz.IsViolation(err, errz.NamespaceScope))

	_, err = execute(t, "", "sanitize", "--namespace-root", "App", "-c", `<?php namespace App\Sub;`)
	require.NoError(t, err)
}

func TestNamespaceRootFromEnvironment(t *testing.T) {
	t.Setenv("PHPSANDBOX_NAMESPACE_ROOT", "App")
	_, err := execute(t, "", "check", "-c", `<?php namespace Other;`)
	require.True(t, errz.IsViolation(err, errz.NamespaceScope))
}

func TestRestrictGlobalFlag(t *testing.T) {
	code := `<?php function helper() { return 1; }`
	_, err := execute(t, "", "check", "-c", code)
	require.NoError(t, err)
	_, err = execute(t, "", "check", "--restrict-global", "-c", code)
	require.True(t, errz.IsViolation(err, errz.GlobalNamespaceDeclaration))
}

func TestPolicyFile(t *testing.T) {
	policyPath := writeFile(t, "policy.yaml", "allowedFunctions: [my_helper]\n")
	code := `<?php return my_helper(1);`

	_, err := execute(t, "", "check", "-c", code)
	require.True(t, errz.IsViolation(err, errz.DisallowedCallable))
	_, err = execute(t, "", "check", "--policy", policyPath, "-c", code)
	require.NoError(t, err)

	badPath := writeFile(t, "bad.yaml", "allowedFunctions: ['not a name']\n")
	_, err = execute(t, "", "check", "--policy", badPath, "-c", code)
	require.ErrorContains(t, err, "invalid name")
}

func TestConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "phpsandbox.yaml", "namespace-root: App\n")
	_, err := execute(t, "", "check", "--config", cfgPath, "-c", `<?php namespace Other;`)
	require.True(t, errz.IsViolation(err, errz.NamespaceScope))
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "", "check", "--log-level", "loud", "-c", `<?php return 1;`)
	require.ErrorContains(t, err, "invalid log level")
}

func TestAST(t *testing.T) {
	out, err := execute(t, "", "ast", "-c", "<?php\nreturn strlen('abc');")
	require.NoError(t, err)
	require.Contains(t, out, `"type": "Program"`)
	require.Contains(t, out, `"type": "Return"`)
	require.Contains(t, out, `"type": "Call"`)
	require.Contains(t, out, `"line": 2`)
	require.NotContains(t, out, "LineStart")
}

func TestASTSummary(t *testing.T) {
	out, err := execute(t, "", "ast", "--summary", "-c", `<?php $a = strlen('x'); $b = strlen('y');`)
	require.NoError(t, err)
	var counts map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &counts))
	require.Equal(t, 1, counts["Program"])
	require.Equal(t, 2, counts["Call"])
}

func TestASTDoesNotApplyPolicy(t *testing.T) {
	out, err := execute(t, "", "ast", "-c", `<?php eval('1');`)
	require.NoError(t, err)
	require.Contains(t, out, `"type": "Eval"`)
}

func TestParseVars(t *testing.T) {
	vars, err := parseVars([]string{"name=world", "n=3", "ids=[1,2]", "empty=", "eq=a=b"})
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"name":  "world",
		"n":     3.0,
		"ids":   []any{1.0, 2.0},
		"empty": "",
		"eq":    "a=b",
	}, vars)

	_, err = parseVars([]string{"novalue"})
	require.Error(t, err)
	_, err = parseVars([]string{"=1"})
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter is a shell script")
	}
	dir := t.TempDir()
	fakePHP := filepath.Join(dir, "php")
	script := "#!/bin/sh\ncat > /dev/null\nprintf '\\n__PHPSANDBOX_RESULT__\\n{\"answer\":42}'\n"
	require.NoError(t, os.WriteFile(fakePHP, []byte(script), 0o755))

	cacheDir := filepath.Join(dir, "cache")
	out, err := execute(t, "", "run",
		"--php", fakePHP,
		"--cache-dir", cacheDir,
		"--token", "test",
		"--var", "x=1",
		"-c", `<?php return $x;`)
	require.NoError(t, err)
	require.JSONEq(t, `{"answer": 42}`, out)

	stored, err := os.ReadFile(filepath.Join(cacheDir, "runtime_098f6bcd.php"))
	require.NoError(t, err)
	require.Equal(t, "<?php\n\nreturn $x;", string(stored))
}

func TestRunRejectsViolation(t *testing.T) {
	cacheDir := t.TempDir()
	_, err := execute(t, "", "run", "--cache-dir", cacheDir, "-c", `<?php system('id');`)
	require.True(t, errz.IsViolation(err, errz.DisallowedCallable))
	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
