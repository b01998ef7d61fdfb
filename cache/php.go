package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
)

// resultMarker separates anything the unit printed from its JSON-encoded
// return value.
const resultMarker = "\n__PHPSANDBOX_RESULT__\n"

// bootstrap reads the variables from stdin as a JSON object, brings them
// into scope and includes the unit named by the first argument.
const bootstrap = `$__vars = json_decode(stream_get_contents(STDIN), true);
if (!is_array($__vars)) { $__vars = []; }
$__result = (static function ($__file, $__vars) {
    extract($__vars);
    return include $__file;
})($argv[1], $__vars);
echo "\n__PHPSANDBOX_RESULT__\n", json_encode($__result);`

// PHPExecutor runs stored units with the PHP command line interpreter.
// Variables are passed as JSON, so only JSON-encodable values survive the
// trip, and the unit's return value comes back decoded from JSON.
type PHPExecutor struct {
	// Binary is the interpreter to run. Defaults to "php".
	Binary string
	// Args are extra interpreter arguments placed before the script,
	// such as "-d" settings.
	Args []string
}

// Execute runs the unit at path.
func (e *PHPExecutor) Execute(ctx context.Context, path string, vars map[string]any) (any, error) {
	binary := e.Binary
	if binary == "" {
		binary = "php"
	}
	if vars == nil {
		vars = map[string]any{}
	}
	input, err := json.Marshal(vars)
	if err != nil {
		return nil, fmt.Errorf("encoding variables: %w", err)
	}

	args := append(append([]string{}, e.Args...), "-r", bootstrap, path)
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		execErr := &ExecError{Path: path, Stderr: stderr.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			execErr.ExitCode = exitErr.ExitCode()
		}
		return nil, execErr
	}
	return decodeResult(path, stdout.Bytes(), stderr.String())
}

func decodeResult(path string, out []byte, stderr string) (any, error) {
	i := bytes.LastIndex(out, []byte(resultMarker))
	if i < 0 {
		return nil, &ExecError{Path: path, Stderr: stderr, Err: errors.New("no result in interpreter output")}
	}
	var result any
	if err := json.Unmarshal(out[i+len(resultMarker):], &result); err != nil {
		return nil, &ExecError{Path: path, Stderr: stderr, Err: fmt.Errorf("decoding result: %w", err)}
	}
	return result, nil
}
