// Package document 提供对松散结构 JSON 文档的安全路径查找与数值强转。
// 上游返回的字段全部可选、可空、类型不保证，任何一个字段解析失败都不应
// 影响同一文档里其它字段的处理，所以这里只做"取值+强转"，从不报致命错。
package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Document 解析后的 JSON 文档（递归结构：null/number/string/object/array）
type Document = map[string]any

// Parse 解析原始 JSON 字节为 Document
func Parse(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// Lookup 按点分路径查找（如 "data.ping.jitter"）
// 路径上任一层不存在或不是对象，返回 (nil, false)，不报错
func Lookup(doc Document, path string) (any, bool) {
	cur := any(doc)
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// AsFloat 将查到的值强转为 float64
// 与上游参考实现保持一致：数字和数字字符串可转，null/布尔/对象/数组不可转
func AsFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("value is null")
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
