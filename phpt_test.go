package phpsandbox

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// phptCase is a test case in the sectioned .phpt format: a --TEST-- title,
// the --FILE-- under test and the --EXPECT--ed result.
type phptCase struct {
	Path     string
	Sections map[string]string
}

func (c phptCase) Name() string {
	return strings.TrimSpace(c.Sections["TEST"])
}

func (c phptCase) File() string {
	return strings.TrimSuffix(c.Sections["FILE"], "\n")
}

func (c phptCase) Expect() string {
	return strings.TrimSuffix(c.Sections["EXPECT"], "\n")
}

var phptSection = regexp.MustCompile(`^--([_A-Z]+)--\s*$`)

func readPHPT(t *testing.T, path string) phptCase {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	c := phptCase{Path: path, Sections: map[string]string{}}
	section := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if m := phptSection.FindStringSubmatch(line); m != nil {
			section = m[1]
			_, dup := c.Sections[section]
			require.False(t, dup, "%s: duplicated %s section", path, section)
			c.Sections[section] = ""
			continue
		}
		require.NotEmpty(t, section, "%s: tests must start with --TEST--", path)
		c.Sections[section] += line + "\n"
	}
	require.NoError(t, scanner.Err())
	for _, required := range []string{"TEST", "FILE", "EXPECT"} {
		require.Contains(t, c.Sections, required, "%s: missing --%s-- section", path, required)
	}
	return c
}

func readPHPTDir(t *testing.T, dir string) []phptCase {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join("testdata", dir, "*.phpt"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	cases := make([]phptCase, 0, len(paths))
	for _, path := range paths {
		cases = append(cases, readPHPT(t, path))
	}
	return cases
}
