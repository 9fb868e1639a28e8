/*
DESCRIPTION
  file.go provides reading of config variables from YAML or key=value files.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadFile reads the variables held in the file at path, for use with
// Config.Update. Files with a .yaml or .yml extension hold a mapping of
// variable names to scalars; any other file holds one name=value pair per
// line, with blank lines and lines starting with # ignored.
func ReadFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(b)
	default:
		return ParseVars(bytes.NewReader(b))
	}
}

// ParseYAML parses a YAML mapping of variable names to scalar values.
func ParseYAML(b []byte) (map[string]string, error) {
	vars := make(map[string]string)
	if err := yaml.Unmarshal(b, &vars); err != nil {
		return nil, fmt.Errorf("could not unmarshal yaml: %w", err)
	}
	return vars, nil
}

// ParseVars parses name=value lines from r.
func ParseVars(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	s := bufio.NewScanner(r)
	for n := 1; s.Scan(); n++ {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected name=value, got %q", n, line)
		}
		vars[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("could not scan config: %w", err)
	}
	return vars, nil
}
