// Package vecmath 提供稠密向量的基础数值运算，供索引、冷启动与引导路径复用。
package vecmath

import "math"

// InnerProduct 计算内积。长度不一致或为空时返回 0。
func InnerProduct(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}

// CosineSimilarity 计算余弦相似度。任一向量为零向量时返回 0。
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// EuclideanDistance 计算欧氏距离。长度不一致时返回 +Inf。
func EuclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// L2Norm 计算 L2 范数。
func L2Norm(a []float64) float64 {
	var sum float64
	for _, v := range a {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Normalize 返回单位化副本；零向量原样拷贝返回。
func Normalize(a []float64) []float64 {
	out := make([]float64, len(a))
	n := L2Norm(a)
	if n == 0 {
		copy(out, a)
		return out
	}
	for i, v := range a {
		out[i] = v / n
	}
	return out
}

// Mean 逐维平均多个等长向量；入参为空返回 nil。
func Mean(vecs ...[]float64) []float64 {
	if len(vecs) == 0 {
		return nil
	}
	out := make([]float64, len(vecs[0]))
	for _, v := range vecs {
		for i := range out {
			if i < len(v) {
				out[i] += v[i]
			}
		}
	}
	inv := 1.0 / float64(len(vecs))
	for i := range out {
		out[i] *= inv
	}
	return out
}

// ClampUnit 把内积分数归一到 [0,1] 展示区间：(ip + 1) / 2，并截断越界值。
// 仅用于响应展示，不参与检索排序。
func ClampUnit(ip float64) float64 {
	s := (ip + 1) / 2
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
