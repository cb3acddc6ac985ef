// Package matrix expands a JobSpec's strategy.matrix into concrete job
// bindings: the Cartesian product of its parameter table, extended by an
// explicit include list, deduplicated, and named per spec §4.6.
package matrix

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andrsd/kuristo/internal/workflowfile"
)

// Binding is one concrete parameter assignment a matrix job runs with.
type Binding map[string]any

// Expand returns the concrete bindings for strategy, in a deterministic
// order (Cartesian product first, in sorted-key order, then the include
// entries not already covered). A strategy with an empty Params table and
// no Include entries is rejected: per the redesign decision in
// SPEC_FULL.md §9, a matrix producing zero variants is a configuration
// error, not a silent skip.
func Expand(strategy *workflowfile.MatrixStrategy) ([]Binding, error) {
	if strategy == nil {
		return []Binding{{}}, nil
	}

	keys := sortedKeys(strategy.Params)

	product := cartesianProduct(strategy.Params, keys)

	seen := make(map[string]struct{}, len(product))
	var bindings []Binding
	for _, b := range product {
		k := bindingKey(b)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		bindings = append(bindings, b)
	}

	for _, inc := range strategy.Include {
		b := Binding(inc)
		k := bindingKey(b)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		bindings = append(bindings, b)
	}

	if len(bindings) == 0 {
		return nil, fmt.Errorf("strategy.matrix produces zero variants: at least one parameter value or include entry is required")
	}

	return bindings, nil
}

func sortedKeys(params map[string][]any) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cartesianProduct(params map[string][]any, keys []string) []Binding {
	if len(keys) == 0 {
		return nil
	}

	result := []Binding{{}}
	for _, key := range keys {
		values := params[key]
		var next []Binding
		for _, existing := range result {
			for _, v := range values {
				b := make(Binding, len(existing)+1)
				for ek, ev := range existing {
					b[ek] = ev
				}
				b[key] = v
				next = append(next, b)
			}
		}
		result = next
	}
	return result
}

// bindingKey produces a stable, order-independent string key for
// deduplication.
func bindingKey(b Binding) string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%v;", k, b[k])
	}
	return sb.String()
}

// Name derives the display name for a concrete matrix job. If nameTemplate
// contains a `${{ }}` placeholder, interpolate resolves it against the
// binding and that result is used verbatim. Otherwise the name is
// synthesised as `<baseName>[k1=v1,k2=v2,...]`, keys in declaredOrder, or in
// sorted order when declaredOrder is empty.
func Name(baseName, nameTemplate string, binding Binding, declaredOrder []string, interpolate func(string) (string, error)) (string, error) {
	if strings.Contains(nameTemplate, "${{") {
		return interpolate(nameTemplate)
	}

	if len(binding) == 0 {
		return baseName, nil
	}

	keys := declaredOrder
	if len(keys) == 0 {
		keys = sortedKeys(bindingToParams(binding))
	}

	var parts []string
	for _, k := range keys {
		if v, ok := binding[k]; ok {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return fmt.Sprintf("%s[%s]", baseName, strings.Join(parts, ",")), nil
}

func bindingToParams(b Binding) map[string][]any {
	out := make(map[string][]any, len(b))
	for k, v := range b {
		out[k] = []any{v}
	}
	return out
}
