package rules

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"docroute/internal/domain"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error

	defaultOnce sync.Once
	defaultSet  *RuleSet
	defaultErr  error
)

// DefaultYAML returns the embedded default rule document.
func DefaultYAML() []byte {
	return bytes.Clone(defaultRulesYAML)
}

// Default returns the embedded rule set. It panics if the embedded document is invalid,
// which only a broken build can cause.
func Default() *RuleSet {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = Parse(defaultRulesYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("embedded rule set: %v", defaultErr))
	}
	return defaultSet
}

// Load reads a rule set from path. An empty path returns the embedded default.
func Load(path string) (*RuleSet, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule set %s: %w", path, err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rule set %s: %w", path, err)
	}
	return rs, nil
}

// Parse decodes a YAML rule document, checks it against the rule schema and then checks
// that every label, pattern and reference in it resolves.
func Parse(data []byte) (*RuleSet, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var rs RuleSet
	if err := dec.Decode(&rs); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ValidationError{Problems: []string{fmt.Sprintf("decode: %v", err)}}
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("schema.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// validateSchema checks the document as written, before defaults or struct decoding apply.
func validateSchema(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Problems: []string{fmt.Sprintf("yaml: %v", err)}}
	}
	if doc == nil {
		return &ValidationError{Problems: []string{"document is empty"}}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return &ValidationError{Problems: []string{fmt.Sprintf("document is not JSON-compatible: %v", err)}}
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	return nil
}

// ValidationError lists every problem found in a rule set.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%v: %s", domain.ErrInvalidRuleSet, e.Problems[0])
	}
	return fmt.Sprintf("%v: %d problems, first: %s", domain.ErrInvalidRuleSet, len(e.Problems), e.Problems[0])
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidRuleSet
}
