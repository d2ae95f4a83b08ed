// Package calc evaluates spoken arithmetic queries with CEL.
package calc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"
)

// Spoken operator phrases in replacement order. Multi-word phrases
// come first so "divided by" is not split by the "by" pass.
var spokenOperators = []struct {
	phrase *regexp.Regexp
	symbol string
}{
	{regexp.MustCompile(`(?i)\bto the power of\b`), "^"},
	{regexp.MustCompile(`(?i)\bmultiplied by\b`), "*"},
	{regexp.MustCompile(`(?i)\bdivided by\b`), "/"},
	{regexp.MustCompile(`(?i)\btimes\b`), "*"},
	{regexp.MustCompile(`(?i)\bplus\b`), "+"},
	{regexp.MustCompile(`(?i)\bminus\b`), "-"},
	{regexp.MustCompile(`(?i)\bover\b`), "/"},
	{regexp.MustCompile(`(?i)\bmod(ulo)?\b`), "%"},
	{regexp.MustCompile(`(?i)\bx\b`), "*"},
}

var numberRegex = regexp.MustCompile(`\d+(\.\d+)?`)

// Evaluator normalizes a spoken expression and evaluates it in a bare
// CEL environment. It implements the math collaborator contract.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates the evaluator. The environment declares no
// variables, so only literal arithmetic compiles.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create CEL environment")
	}
	return &Evaluator{env: env}, nil
}

// Evaluate answers a query such as "15 times 7" or "3.5 + 2".
func (e *Evaluator) Evaluate(expr string) (string, error) {
	normalized, err := Normalize(expr)
	if err != nil {
		return "", err
	}

	celAST, issues := e.env.Compile(normalized)
	if issues != nil && issues.Err() != nil {
		return "", errors.Wrapf(issues.Err(), "invalid expression: %s", normalized)
	}
	prg, err := e.env.Program(celAST)
	if err != nil {
		return "", errors.Wrap(err, "failed to build program")
	}
	out, _, err := prg.Eval(cel.NoVars())
	if err != nil {
		return "", errors.Wrap(err, "failed to evaluate expression")
	}

	switch v := out.Value().(type) {
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", errors.Errorf("expression did not produce a number: %v", out.Value())
	}
}

// Normalize converts spoken operator words to symbols and promotes
// integer literals to doubles when a division is present, so "1
// divided by 2" yields 0.5 rather than truncating.
func Normalize(expr string) (string, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return "", errors.New("empty expression")
	}
	for _, op := range spokenOperators {
		s = op.phrase.ReplaceAllString(s, op.symbol)
	}
	if strings.Contains(s, "^") {
		return "", errors.New("exponentiation is not supported")
	}
	if !numberRegex.MatchString(s) {
		return "", errors.Errorf("no numbers found in %q", expr)
	}

	if strings.Contains(s, "/") {
		s = numberRegex.ReplaceAllStringFunc(s, func(n string) string {
			if strings.Contains(n, ".") {
				return n
			}
			return n + ".0"
		})
	}
	return s, nil
}
