package processors

import (
	"fmt"
	"sort"
	"strconv"
)

// Хелперы разбора params из YAML (map[string]any).
// yaml.v3 отдает списки как []any, а вызовы из Go передают []string - поддерживаем оба варианта.

func stringParam(params map[string]any, key, def string) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter '%s' must be a string", key)
	}
	return s, nil
}

func boolParam(params map[string]any, key string, def bool) (bool, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("parameter '%s' must be a boolean", key)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("parameter '%s' must be a boolean", key)
	}
}

func floatParam(params map[string]any, key string, def float64) (float64, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("parameter '%s' must be a number", key)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("parameter '%s' must be a number", key)
	}
}

func intParam(params map[string]any, key string, def int) (int, error) {
	f, err := floatParam(params, key, float64(def))
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("parameter '%s' must be an integer", key)
	}
	return int(f), nil
}

func stringListParam(params map[string]any, key string) ([]string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), nil
	case []any:
		result := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("parameter '%s'[%d] must be a string", key, i)
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, fmt.Errorf("parameter '%s' must be a list of strings", key)
	}
}

// stringMapParam возвращает map и отсортированный список ключей (для детерминированного порядка)
func stringMapParam(params map[string]any, key string) (map[string]string, []string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, nil, nil
	}

	result := make(map[string]string)
	switch m := v.(type) {
	case map[string]string:
		for k, val := range m {
			result[k] = val
		}
	case map[string]any:
		for k, val := range m {
			s, ok := val.(string)
			if !ok {
				return nil, nil, fmt.Errorf("parameter '%s.%s' must be a string", key, k)
			}
			result[k] = s
		}
	default:
		return nil, nil, fmt.Errorf("parameter '%s' must be a map of strings", key)
	}

	return result, sortedKeys(result), nil
}

// sortedKeys возвращает ключи map по алфавиту
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
