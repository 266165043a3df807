package rules

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// identifierKeys are the parameters that name a voter.
var identifierKeys = []string{"dictator", "tie_break"}

// DecodeParameters decodes a rule's YAML parameter block into the map the
// Create* factories accept. An absent block decodes to an empty map.
//
// Voter identifiers are decoded as text, the same way the profile's voter
// list is, so an unquoted 01 names voter "01" rather than the number 1.
// All other parameters keep their natural YAML types.
func DecodeParameters(node yaml.Node) (map[string]any, error) {
	params := make(map[string]any)
	if node.IsZero() {
		return params, nil
	}
	if err := node.Decode(&params); err != nil {
		return nil, fmt.Errorf("failed to decode parameters: %w", err)
	}
	if params == nil {
		params = make(map[string]any)
	}

	mapping := resolveAlias(&node)
	if mapping.Kind != yaml.MappingNode {
		return params, nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := resolveAlias(mapping.Content[i])
		if !slices.Contains(identifierKeys, key.Value) {
			continue
		}

		value := resolveAlias(mapping.Content[i+1])
		if value.Kind != yaml.ScalarNode {
			continue
		}
		if value.ShortTag() == "!!null" {
			params[key.Value] = nil
			continue
		}

		var id string
		if err := value.Decode(&id); err != nil {
			return nil, fmt.Errorf("failed to decode parameter %s: %w", key.Value, err)
		}
		params[key.Value] = id
	}
	return params, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// IdentifierParam extracts a voter identifier parameter from a decoded
// config map. Identifiers are strings at this boundary; DecodeParameters
// produces them from YAML.
func IdentifierParam(config map[string]any, key string) (string, error) {
	raw, ok := config[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, key)
	}
	id, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a voter identifier, got %T", ErrInvalidParameter, key, raw)
	}
	if id == "" {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrInvalidParameter, key)
	}
	return id, nil
}

// FloatSliceParam extracts a non-empty numeric list parameter from a
// decoded config map.
func FloatSliceParam(config map[string]any, key string) ([]float64, error) {
	raw, ok := config[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingParameter, key)
	}

	var out []float64
	switch v := raw.(type) {
	case []float64:
		out = slices.Clone(v)
	case []int:
		out = make([]float64, len(v))
		for i, n := range v {
			out[i] = float64(n)
		}
	case []any:
		out = make([]float64, len(v))
		for i, item := range v {
			switch n := item.(type) {
			case int:
				out[i] = float64(n)
			case int64:
				out[i] = float64(n)
			case uint64:
				out[i] = float64(n)
			case float64:
				out[i] = n
			default:
				return nil, fmt.Errorf("%w: %s[%d] must be a number, got %T", ErrInvalidParameter, key, i, item)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s must be a list of numbers, got %T", ErrInvalidParameter, key, raw)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s cannot be empty", ErrInvalidParameter, key)
	}
	return out, nil
}
