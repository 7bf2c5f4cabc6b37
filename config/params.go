package config

import "github.com/hanno-h/flockpred/internal/torus"

func numOf(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func pf(p map[string]interface{}, key string, def float64) float64 {
	if v, ok := p[key]; ok {
		if n, ok := numOf(v); ok {
			return n
		}
	}
	return def
}

func pi(p map[string]interface{}, key string, def int) int {
	if v, ok := p[key]; ok {
		if n, ok := numOf(v); ok {
			return int(n)
		}
	}
	return def
}

func ps(p map[string]interface{}, key string, def string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func pb(p map[string]interface{}, key string, def bool) bool {
	if v, ok := p[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// pvec reads a [x, y] sequence param as a Vec2, defaulting to the zero
// vector when absent or malformed.
func pvec(p map[string]interface{}, key string) torus.Vec2 {
	v, ok := p[key]
	if !ok {
		return torus.Vec2{}
	}
	seq, ok := v.([]interface{})
	if !ok || len(seq) < 2 {
		return torus.Vec2{}
	}
	x, _ := numOf(seq[0])
	y, _ := numOf(seq[1])
	return torus.Vec2{X: x, Y: y}
}

// pmap reads a nested mapping param, defaulting to an empty map.
func pmap(p map[string]interface{}, key string) map[string]interface{} {
	v, ok := p[key]
	if !ok {
		return map[string]interface{}{}
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return m
}
