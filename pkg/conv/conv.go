// Package conv 提供边界层的类型转换工具：
// JSON 之外的线格式（multipart 表单里的逗号分隔向量）在这里解析，
// 核心包只接触强类型的 []float64。
package conv

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFloats 解析逗号分隔的浮点序列，如 "0.1, 0.2,0.3"。
// 空串返回 nil, nil；任一分量非法返回错误。
func ParseFloats(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parse component %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// FormatFloats 以逗号分隔格式化浮点序列，与 ParseFloats 互逆。
func FormatFloats(vec []float64) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
