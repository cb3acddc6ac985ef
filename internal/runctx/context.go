// Package runctx holds the per-job scratchpad a running Job threads through
// its steps: environment overlay, matrix bindings, and the outputs each
// step with an `id` records for later steps to read back via `${{ }}`
// placeholders.
package runctx

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Context is mutated in place as a Job's steps run: each finished step with
// an id adds an entry under vars["steps"][id]["output"].
type Context struct {
	vars map[string]any
	env  map[string]string
}

// New builds a Context seeded with the given matrix bindings (may be nil for
// a non-matrix job) and the process environment overlay a job's steps should
// see.
func New(matrix map[string]any, env map[string]string) *Context {
	if matrix == nil {
		matrix = map[string]any{}
	}
	if env == nil {
		env = map[string]string{}
	}
	return &Context{
		vars: map[string]any{
			"matrix": matrix,
			"steps":  map[string]any{},
		},
		env: env,
	}
}

// Env returns the environment overlay (a copy is not made; callers must not
// mutate the returned map's entries concurrently with other Env access).
func (c *Context) Env() map[string]string {
	return c.env
}

// RecordStepOutput stores the stdout captured from the step identified by
// id, making it available to later steps as `${{ steps.<id>.output }}`.
// Steps without an id never call this and so never appear under steps.*.
func (c *Context) RecordStepOutput(id, output string) {
	if id == "" {
		return
	}
	steps, _ := c.vars["steps"].(map[string]any)
	steps[id] = map[string]any{"output": output}
}

// placeholder matches `${{ expr }}`, expr trimmed of surrounding whitespace.
const (
	openTag  = "${{"
	closeTag = "}}"
)

// Interpolate resolves every `${{ expr }}` placeholder in s against the
// Context's vars, evaluating expr as a dotted path (e.g. `matrix.op`,
// `steps.compile.output`). A path whose subtree is absent resolves to the
// empty string; a placeholder missing its closing `}}` is a fatal error, per
// spec.md's interpolation contract.
func (c *Context) Interpolate(s string) (string, error) {
	if !strings.Contains(s, openTag) {
		return s, nil
	}

	data, err := json.Marshal(c.vars)
	if err != nil {
		return "", fmt.Errorf("marshaling interpolation context: %w", err)
	}
	doc := string(data)

	var out strings.Builder
	rest := s
	for {
		start := strings.Index(rest, openTag)
		if start < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:start])

		afterOpen := rest[start+len(openTag):]
		end := strings.Index(afterOpen, closeTag)
		if end < 0 {
			return "", fmt.Errorf("malformed interpolation placeholder: missing closing %q in %q", closeTag, s)
		}

		expr := strings.TrimSpace(afterOpen[:end])
		if expr == "" {
			return "", fmt.Errorf("empty interpolation placeholder in %q", s)
		}

		result := gjson.Get(doc, expr)
		out.WriteString(result.String())

		rest = afterOpen[end+len(closeTag):]
	}

	return out.String(), nil
}
