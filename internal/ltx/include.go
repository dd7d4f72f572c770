package ltx

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ScanIncludes returns the include patterns of the file at path, in file
// order. Only comments and include directives are interpreted, so files that
// would not parse still yield their includes. Backslashes in patterns are
// turned into slashes.
func ScanIncludes(path string) ([]string, error) {
	if !isLTX(path) {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot open %v: %w", path, err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := StripComment(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if m := includeRe.FindStringSubmatch(line); m != nil {
			patterns = append(patterns, strings.ReplaceAll(m[1], `\`, "/"))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %v: %w", path, err)
	}
	return patterns, nil
}
