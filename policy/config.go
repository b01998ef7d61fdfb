package policy

import "fmt"

// Config is the caller-facing policy configuration.
type Config struct {
	RestrictGlobalNamespaceDeclarations bool     `yaml:"restrictGlobalNamespaceDeclarations" json:"restrictGlobalNamespaceDeclarations"`
	RequiredNamespaceRoot               string   `yaml:"requiredNamespaceRoot" json:"requiredNamespaceRoot"`
	ExtraCallables                      []string `yaml:"allowedFunctions" json:"allowedFunctions"`
	ExtraTypes                          []string `yaml:"allowedClasses" json:"allowedClasses"`
	// ReplaceDefaults drops the built-in catalogue so that only the extra
	// callables and types are allowed.
	ReplaceDefaults bool `yaml:"replaceDefaults" json:"replaceDefaults"`
}

// Options converts the configuration into Policy options.
func (c Config) Options() []Option {
	var opts []Option
	if c.ReplaceDefaults {
		opts = append(opts, WithoutDefaults())
	}
	return append(opts,
		WithRestrictGlobalNamespaceDeclarations(c.RestrictGlobalNamespaceDeclarations),
		WithRequiredNamespaceRoot(c.RequiredNamespaceRoot),
		WithCallables(c.ExtraCallables...),
		WithTypes(c.ExtraTypes...),
	)
}

// NewFromConfig returns a Policy built from cfg.
func NewFromConfig(cfg Config) *Policy {
	return New(cfg.Options()...)
}

// ConfigFromMap reads a configuration from loosely typed options, as found
// in decoded JSON or YAML. Recognized keys are
// "preventGlobalNameSpacePollution" (bool), "allowedNamespace" (string or
// nil), "allowedFunctions" and "allowedClasses" (lists of strings).
func ConfigFromMap(options map[string]any) (Config, error) {
	var cfg Config
	if v, ok := options["allowedNamespace"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return cfg, fmt.Errorf("allowedNamespace: expected a string, got %T", v)
		}
		cfg.RequiredNamespaceRoot = s
	}
	if v, ok := options["preventGlobalNameSpacePollution"]; ok {
		b, ok := v.(bool)
		if !ok {
			return cfg, fmt.Errorf("preventGlobalNameSpacePollution: expected a bool, got %T", v)
		}
		cfg.RestrictGlobalNamespaceDeclarations = b
	}
	var err error
	if cfg.ExtraCallables, err = stringList(options, "allowedFunctions"); err != nil {
		return cfg, err
	}
	if cfg.ExtraTypes, err = stringList(options, "allowedClasses"); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func stringList(options map[string]any, key string) ([]string, error) {
	v, ok := options[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch v := v.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: expected a string, got %T", key, i, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s: expected a list of strings, got %T", key, v)
}
