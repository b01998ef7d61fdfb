package cache

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/risor-io/phpsandbox/errz"
	"github.com/risor-io/phpsandbox/metrics"
	"github.com/stretchr/testify/require"
)

// recorder is a fake executor that records what it was asked to run.
type recorder struct {
	calls    int
	contents []string
	vars     map[string]any
}

func (r *recorder) Execute(ctx context.Context, path string, vars map[string]any) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r.calls++
	r.contents = append(r.contents, string(data))
	r.vars = vars
	return r.calls, nil
}

func newRuntime(t *testing.T, token string, opts ...Option) (*Runtime, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]Option{WithDir(t.TempDir()), WithExecutor(rec)}, opts...)
	r, err := New(token, opts...)
	require.NoError(t, err)
	return r, rec
}

func TestFileName(t *testing.T) {
	// md5("abc") = 900150983cd24fb0d6963f7d28e17f72
	require.Equal(t, "runtime_90015098.php", FileName("abc"))
}

func TestRunWritesOnce(t *testing.T) {
	r, rec := newRuntime(t, "token")
	ctx := context.Background()
	src := `<?php return strlen('abc');`

	result, err := r.Run(ctx, src)
	require.NoError(t, err)
	require.Equal(t, 1, result)
	_, err = r.Run(ctx, src)
	require.NoError(t, err)
	require.Equal(t, Stats{Writes: 1, Hits: 1}, r.Stats())
	require.Equal(t, 2, rec.calls)

	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	require.Equal(t, "<?php\n\nreturn strlen('abc');", string(data))
}

func TestRunRewritesChangedSource(t *testing.T) {
	r, rec := newRuntime(t, "token")
	ctx := context.Background()

	_, err := r.Run(ctx, `<?php return 1;`)
	require.NoError(t, err)
	_, err = r.Run(ctx, `<?php return 2;`)
	require.NoError(t, err)
	require.Equal(t, int64(2), r.Stats().Writes)
	require.Equal(t, "<?php\n\nreturn 2;", rec.contents[1])

	// Formatting-only changes sanitize to the same text.
	_, err = r.Run(ctx, "<?php\n\n  return   2 ;")
	require.NoError(t, err)
	require.Equal(t, Stats{Writes: 2, Hits: 1}, r.Stats())
}

func TestRunRejectsViolation(t *testing.T) {
	r, rec := newRuntime(t, "token")
	_, err := r.Run(context.Background(), `<?php system('id');`)
	require.True(t, errz.IsViolation(err, errz.DisallowedCallable))
	require.Zero(t, rec.calls)
	_, err = os.Stat(r.Path())
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRunPassesVariables(t *testing.T) {
	r, rec := newRuntime(t, "token")
	r.Set("foo", "bar")
	r.Set("n", 2)
	_, err := r.Run(context.Background(), `<?php return $foo;`)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"foo": "bar", "n": 2}, rec.vars)

	rec.vars["foo"] = "changed"
	_, err = r.Run(context.Background(), `<?php return $foo;`)
	require.NoError(t, err)
	require.Equal(t, "bar", rec.vars["foo"])
}

func TestTokensAreIsolated(t *testing.T) {
	dir := t.TempDir()
	a, err := New("a", WithDir(dir), WithExecutor(&recorder{}))
	require.NoError(t, err)
	b, err := New("b", WithDir(dir), WithExecutor(&recorder{}))
	require.NoError(t, err)
	require.NotEqual(t, a.Path(), b.Path())
	require.Equal(t, dir, filepath.Dir(a.Path()))
}

func TestStoreErrorOnUnreadablePath(t *testing.T) {
	r, _ := newRuntime(t, "token")
	// A directory where the unit should be cannot be read as a file.
	require.NoError(t, os.MkdirAll(r.Path(), 0o755))
	_, err := r.Run(context.Background(), `<?php return 1;`)
	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	require.Equal(t, r.Path(), storeErr.Path)
	require.Equal(t, "E3002", storeErr.ToFormatted().Code.String())
}

func TestHomeDirExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	r, err := New("t", WithDir("~/phpsandbox-cache"), WithExecutor(&recorder{}))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "phpsandbox-cache", FileName("t")), r.Path())
}

func TestMetrics(t *testing.T) {
	c := metrics.New(nil)
	r, _ := newRuntime(t, "token", WithMetrics(c))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := r.Run(ctx, `<?php return 1;`)
		require.NoError(t, err)
	}
	count, err := testutil.GatherAndCount(c.Registry(), "phpsandbox_cache_writes_total", "phpsandbox_cache_hits_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t, Stats{Writes: 1, Hits: 2}, r.Stats())
}

func TestExecutorFunc(t *testing.T) {
	var gotPath string
	r, err := New("token", WithDir(t.TempDir()), WithExecutor(ExecutorFunc(
		func(ctx context.Context, path string, vars map[string]any) (any, error) {
			gotPath = path
			return "ok", nil
		})))
	require.NoError(t, err)
	result, err := r.Run(context.Background(), `<?php return 1;`)
	require.NoError(t, err)
	require.Equal(t, "ok", result)
	require.Equal(t, r.Path(), gotPath)
}

func TestDecodeResult(t *testing.T) {
	result, err := decodeResult("f.php", []byte("noise"+resultMarker+`{"a":[1,2]}`), "")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": []any{1.0, 2.0}}, result)

	_, err = decodeResult("f.php", []byte("no marker"), "warning")
	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	require.Contains(t, err.Error(), "warning")

	_, err = decodeResult("f.php", []byte(resultMarker+"{"), "")
	require.Error(t, err)
}

func TestExecErrorFormatting(t *testing.T) {
	err := &ExecError{Path: "f.php", ExitCode: 255, Stderr: "PHP Fatal error\n"}
	require.Equal(t, "executing f.php: exit status 255: PHP Fatal error", err.Error())
	fe := err.ToFormatted()
	require.Equal(t, "E3001", fe.Code.String())
	require.Equal(t, "execution failed with exit status 255", fe.Message)
	require.Equal(t, "PHP Fatal error", fe.Note)
}

func TestPHPExecutor(t *testing.T) {
	if _, err := exec.LookPath("php"); err != nil {
		t.Skip("php is not installed")
	}
	r, err := New("php-test", WithDir(t.TempDir()))
	require.NoError(t, err)
	r.Set("foo", "bar")
	result, err := r.Run(context.Background(), `<?php return ['foo' => $foo, 'len' => strlen($foo)];`)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"foo": "bar", "len": 3.0}, result)
}
