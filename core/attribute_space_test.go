package core

import (
	"reflect"
	"testing"
)

func testSpace() *AttributeSpace {
	return NewAttributeSpace([]string{"denim", "floral-print", "long_sleeve", "maxi", "jeans"})
}

// TestCheckDim 测试维度校验
func TestCheckDim(t *testing.T) {
	space := testSpace()

	if err := space.CheckDim(make([]float64, 5)); err != nil {
		t.Errorf("维度一致不应报错: %v", err)
	}
	err := space.CheckDim(make([]float64, 3))
	if !IsDimensionMismatch(err) {
		t.Errorf("期望 DIMENSION_MISMATCH，实际 %v", err)
	}
}

// TestMatchIndices 测试模糊匹配：双向子串、大小写不敏感、短 token 不匹配
func TestMatchIndices(t *testing.T) {
	space := testSpace()

	tests := []struct {
		token string
		want  []int
	}{
		{"denim", []int{0}},
		{"DENIM", []int{0}},
		{"floral", []int{1}},
		{"floral-print dress", []int{1}}, // 属性名含于 token
		{"jean", []int{4}},
		{"xy", nil}, // 过短
		{"velvet", nil},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got := space.MatchIndices(tt.token)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("期望 %v，实际 %v", tt.want, got)
			}
		})
	}
}

// TestActiveNames 测试生效属性名提取：阈值严格大于、按维度序、截断
func TestActiveNames(t *testing.T) {
	space := testSpace()
	vec := []float64{0.9, 0.5, 0.7, 0.2, 0.8}

	got := space.ActiveNames(vec, 0.5, 10)
	want := []string{"denim", "long_sleeve", "jeans"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("期望 %v，实际 %v", want, got)
	}

	got = space.ActiveNames(vec, 0.5, 2)
	if len(got) != 2 {
		t.Errorf("期望截断到 2 个，实际 %v", got)
	}
}
