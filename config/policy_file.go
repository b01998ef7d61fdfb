// Package config loads policy files and keeps them current.
//
// A policy file is YAML:
//
//	restrictGlobalNamespaceDeclarations: true
//	requiredNamespaceRoot: App
//	allowedFunctions: [my_helper]
//	allowedClasses: [Money]
//	replaceDefaults: false
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/hashicorp/go-multierror"
	"github.com/risor-io/phpsandbox/policy"
	"gopkg.in/yaml.v3"
)

// validName matches a function or class name, optionally namespaced.
var validName = regexp.MustCompile(`^\\?[A-Za-z_][A-Za-z0-9_]*(\\[A-Za-z_][A-Za-z0-9_]*)*$`)

// LoadPolicyFile reads and validates the policy file at path.
func LoadPolicyFile(path string) (policy.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return policy.Config{}, fmt.Errorf("reading policy file: %w", err)
	}
	cfg, err := ParsePolicy(data)
	if err != nil {
		return policy.Config{}, fmt.Errorf("policy file %s: %w", path, err)
	}
	return cfg, nil
}

// ParsePolicy decodes and validates a YAML policy. Unknown keys are
// rejected. Every problem found is reported, not only the first.
func ParsePolicy(data []byte) (policy.Config, error) {
	var cfg policy.Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return policy.Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return policy.Config{}, err
	}
	return cfg, nil
}

// Validate checks the names in cfg.
func Validate(cfg policy.Config) error {
	var result *multierror.Error
	if cfg.RequiredNamespaceRoot != "" && !validName.MatchString(cfg.RequiredNamespaceRoot) {
		result = multierror.Append(result,
			fmt.Errorf("requiredNamespaceRoot: invalid namespace %q", cfg.RequiredNamespaceRoot))
	}
	result = multierror.Append(result, validateNames("allowedFunctions", cfg.ExtraCallables)...)
	result = multierror.Append(result, validateNames("allowedClasses", cfg.ExtraTypes)...)
	if cfg.ReplaceDefaults && len(cfg.ExtraCallables) == 0 && len(cfg.ExtraTypes) == 0 {
		result = multierror.Append(result,
			errors.New("replaceDefaults: set without any allowedFunctions or allowedClasses"))
	}
	return result.ErrorOrNil()
}

func validateNames(key string, names []string) []error {
	var errs []error
	seen := map[string]bool{}
	for i, name := range names {
		switch {
		case !validName.MatchString(name):
			errs = append(errs, fmt.Errorf("%s[%d]: invalid name %q", key, i, name))
		case seen[name]:
			errs = append(errs, fmt.Errorf("%s[%d]: duplicate name %q", key, i, name))
		}
		seen[name] = true
	}
	return errs
}
