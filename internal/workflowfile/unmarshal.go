package workflowfile

import "fmt"

// UnmarshalYAML accepts both `needs: foo` and `needs: [foo, bar]`, mirroring
// the teacher's handling of GitHub Actions' `needs` field (string or list),
// see packages/core/workflow/parser.go's ExtractJobInfo.
func (n *rawStringList) UnmarshalYAML(unmarshal func(any) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		if single != "" {
			*n = rawStringList{single}
		}
		return nil
	}

	var list []string
	if err := unmarshal(&list); err != nil {
		return err
	}
	*n = list
	return nil
}

// UnmarshalYAML splits the `include` key from the rest of the mapping, the
// remainder becoming the Cartesian-product parameter table.
func (m *MatrixStrategy) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	m.Params = make(map[string][]any, len(raw))

	if inc, ok := raw["include"]; ok {
		delete(raw, "include")
		items, ok := inc.([]any)
		if !ok {
			return fmt.Errorf("strategy.matrix.include must be a list")
		}
		for _, item := range items {
			binding, err := toStringKeyedMap(item)
			if err != nil {
				return fmt.Errorf("strategy.matrix.include entry: %w", err)
			}
			m.Include = append(m.Include, binding)
		}
	}

	for key, val := range raw {
		switch v := val.(type) {
		case []any:
			m.Params[key] = v
		default:
			m.Params[key] = []any{v}
		}
	}

	return nil
}

func toStringKeyedMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", v)
	}
}
