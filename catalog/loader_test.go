package catalog

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeTestAssets 在临时目录写出一套最小可装载资产。
func writeTestAssets(t *testing.T, withVisual bool) AssetPaths {
	t.Helper()
	dir := t.TempDir()

	attrNames := "3\nattribute_name  attribute_type\ndenim\ncasual\nformal\n"
	items := `{"id":"id_001","gender":"MEN","category":"Jeans","images":["a/b/id_001/01_back.jpg","a/b/id_001/02_front.jpg"]}
{"id":"id_002","gender":"WOMEN","category":"Dresses","images":["a/b/id_002/01_front.jpg"]}
`
	archetypes := `archetypes:
  - name: men_denim
    gender: MEN
    categories: [Jeans]
    weights:
      denim: 1.0
      casual: 0.6
`

	paths := AssetPaths{
		AttrNames:  filepath.Join(dir, "attr_names.txt"),
		Items:      filepath.Join(dir, "items.jsonl"),
		Vectors:    filepath.Join(dir, "vectors.f32"),
		Archetypes: filepath.Join(dir, "archetypes.yaml"),
	}
	mustWrite(t, paths.AttrNames, []byte(attrNames))
	mustWrite(t, paths.Items, []byte(items))
	mustWrite(t, paths.Archetypes, []byte(archetypes))
	mustWrite(t, paths.Vectors, encodeF32(t, [][]float32{
		{0.9, 0.7, 0.1},
		{0.1, 0.4, 0.8},
	}))

	if withVisual {
		paths.Visual = filepath.Join(dir, "visual.jsonl")
		visual := `{"image_path":"MEN/Jeans/id_001/02_front.jpg","embedding":[1,0]}
`
		mustWrite(t, paths.Visual, []byte(visual))
	} else {
		// 配置了路径但文件不存在：应降级而不是失败
		paths.Visual = filepath.Join(dir, "missing.jsonl")
	}
	return paths
}

func mustWrite(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("写测试资产失败: %v", err)
	}
}

func encodeF32(t *testing.T, rows [][]float32) []byte {
	t.Helper()
	var out []byte
	for _, row := range rows {
		for _, v := range row {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out
}

// TestLoad 测试资产整体装载与交叉校验
func TestLoad(t *testing.T) {
	assets, err := Load(context.Background(), writeTestAssets(t, true))
	if err != nil {
		t.Fatalf("装载失败: %v", err)
	}

	if got := assets.Catalog.Space().Size(); got != 3 {
		t.Errorf("属性维度期望 3，实际 %d", got)
	}
	if got := assets.Catalog.Len(); got != 2 {
		t.Errorf("物品数期望 2，实际 %d", got)
	}
	if !assets.Visual.Enabled() {
		t.Error("视觉集应可用")
	}

	// 属性名跳过前两行头
	if assets.Catalog.Space().Name(0) != "denim" {
		t.Errorf("首个属性名期望 denim，实际 %s", assets.Catalog.Space().Name(0))
	}

	// float32 → float64 的精度损失在 1e-6 内
	it, _ := assets.Catalog.ByID("id_001")
	if math.Abs(it.Vector[0]-0.9) > 1e-6 {
		t.Errorf("向量装载错位: %v", it.Vector)
	}

	// 图片按 front → side → back 重排
	wantImages := []string{"a/b/id_001/02_front.jpg", "a/b/id_001/01_back.jpg"}
	if !reflect.DeepEqual(it.Images, wantImages) {
		t.Errorf("图片顺序期望 %v，实际 %v", wantImages, it.Images)
	}

	// 原型按属性名展开
	arch, ok := assets.Archetypes.Exact("MEN", []string{"Jeans"})
	if !ok {
		t.Fatal("原型 men_denim 未命中")
	}
	if arch.Vector[0] != 1.0 || arch.Vector[1] != 0.6 || arch.Vector[2] != 0 {
		t.Errorf("原型向量展开错误: %v", arch.Vector)
	}
}

// TestLoadVisualMissing 测试视觉资产缺失仅降级
func TestLoadVisualMissing(t *testing.T) {
	assets, err := Load(context.Background(), writeTestAssets(t, false))
	if err != nil {
		t.Fatalf("视觉资产缺失不应阻断装载: %v", err)
	}
	if assets.Visual.Enabled() {
		t.Error("视觉集应为空")
	}
}

// TestLoadRowMismatch 测试矩阵行数与物品数不一致
func TestLoadRowMismatch(t *testing.T) {
	paths := writeTestAssets(t, false)
	mustWrite(t, paths.Vectors, encodeF32(t, [][]float32{{1, 2, 3}}))

	if _, err := Load(context.Background(), paths); err == nil {
		t.Fatal("行数不一致应装载失败")
	}
}

// TestDecodeMatrix 测试矩阵解码的尺寸校验
func TestDecodeMatrix(t *testing.T) {
	if _, err := decodeMatrix([]byte{1, 2, 3}, 1); err == nil {
		t.Error("非 4 倍数字节应报错")
	}
	if _, err := decodeMatrix(make([]byte, 8), 3); err == nil {
		t.Error("元素数不被维度整除应报错")
	}
	rows, err := decodeMatrix(make([]byte, 24), 3)
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	if len(rows) != 2 || len(rows[0]) != 3 {
		t.Errorf("期望 2x3，实际 %dx%d", len(rows), len(rows[0]))
	}
}
