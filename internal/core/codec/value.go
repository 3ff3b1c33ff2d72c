package codec

import (
	"fmt"
	"math"

	"github.com/dep2p/go-dcbridge/pkg/types"
)

// Map 宿主侧结构值
type Map = map[string]any

// lookup 返回非 nil 的字段值
func lookup(m Map, key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func typeError(key, want string, got any) error {
	return fmt.Errorf("%w: field %q: expected %s, got %T", types.ErrConfigDecode, key, want, got)
}

// ToInt 将任意宽度的整数转换为 int
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		if n > math.MaxInt || n < math.MinInt {
			return 0, false
		}
		return int(n), true
	case uint:
		if uint64(n) > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// Int 读取整数字段
//
// ok 为 false 表示字段缺失或为 nil。
func Int(m Map, key string) (v int, ok bool, err error) {
	raw, present := lookup(m, key)
	if !present {
		return 0, false, nil
	}
	n, isInt := ToInt(raw)
	if !isInt {
		return 0, false, typeError(key, "integer", raw)
	}
	return n, true, nil
}

// Bool 读取布尔字段
func Bool(m Map, key string) (v bool, ok bool, err error) {
	raw, present := lookup(m, key)
	if !present {
		return false, false, nil
	}
	b, isBool := raw.(bool)
	if !isBool {
		return false, false, typeError(key, "bool", raw)
	}
	return b, true, nil
}

// String 读取字符串字段
func String(m Map, key string) (v string, ok bool, err error) {
	raw, present := lookup(m, key)
	if !present {
		return "", false, nil
	}
	s, isString := raw.(string)
	if !isString {
		return "", false, typeError(key, "string", raw)
	}
	return s, true, nil
}

// Bytes 读取字节序列字段
func Bytes(m Map, key string) (v []byte, ok bool, err error) {
	raw, present := lookup(m, key)
	if !present {
		return nil, false, nil
	}
	b, isBytes := raw.([]byte)
	if !isBytes {
		return nil, false, typeError(key, "bytes", raw)
	}
	return b, true, nil
}

// Submap 读取嵌套结构值字段
func Submap(m Map, key string) (v Map, ok bool, err error) {
	raw, present := lookup(m, key)
	if !present {
		return nil, false, nil
	}
	sub, isMap := raw.(map[string]any)
	if !isMap {
		return nil, false, typeError(key, "map", raw)
	}
	return sub, true, nil
}

// RequireString 读取必填字符串字段
func RequireString(m Map, key string) (string, error) {
	s, ok, err := String(m, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: field %q is required", types.ErrConfigDecode, key)
	}
	return s, nil
}

// RequireInt 读取必填整数字段
func RequireInt(m Map, key string) (int, error) {
	n, ok, err := Int(m, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: field %q is required", types.ErrConfigDecode, key)
	}
	return n, nil
}
