package catalog

import (
	"bufio"
	"context"
	"errors"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/stylekit/core"
)

// AssetPaths 是启动期静态资产的文件路径。
// 资产由建索引工具（外部协作方）产出；本包只做装载与一致性校验。
type AssetPaths struct {
	AttrNames  string // 有序属性名列表（前两行为数据集头，跳过）
	Items      string // items.jsonl：物品元信息，行序 == 向量矩阵行序
	Vectors    string // vectors.f32：little-endian float32 行主序矩阵
	Archetypes string // archetypes.yaml：风格原型表
	Visual     string // visual.jsonl：可选，视觉嵌入集；为空或缺失仅禁用图片引导
}

// Assets 是装载完成的全部静态资产。
type Assets struct {
	Catalog    *Catalog
	Archetypes *ArchetypeTable
	Visual     *VisualSet
}

// itemRow 是 items.jsonl 的单行。
type itemRow struct {
	ID       string   `json:"id"`
	Gender   string   `json:"gender"`
	Category string   `json:"category"`
	Images   []string `json:"images"`
}

// Load 并发装载全部资产并做交叉校验：
//   - 向量矩阵行数 == 物品数；列数 == 属性空间维度
//   - 原型向量维度在装载时由属性空间展开，天然一致
//
// 任一必需资产失败则整体失败；仅 visual 资产缺失时降级（Visual 为空集）。
func Load(ctx context.Context, paths AssetPaths) (*Assets, error) {
	var (
		names   []string
		rows    []itemRow
		raw     []byte
		visuals []VisualEntry
	)

	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		names, err = loadAttrNames(paths.AttrNames)
		return err
	})
	eg.Go(func() (err error) {
		rows, err = loadItemRows(paths.Items)
		return err
	})
	eg.Go(func() (err error) {
		raw, err = os.ReadFile(paths.Vectors)
		if err != nil {
			return fmt.Errorf("read vectors: %w", err)
		}
		return nil
	})
	eg.Go(func() (err error) {
		if paths.Visual == "" {
			return nil
		}
		visuals, err = loadVisualEntries(paths.Visual)
		if err != nil && errors.Is(err, os.ErrNotExist) {
			// 可选资产：缺失降级，不阻断启动
			visuals = nil
			return nil
		}
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	space := core.NewAttributeSpace(names)
	dim := space.Size()

	vectors, err := decodeMatrix(raw, dim)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(rows) {
		return nil, fmt.Errorf("asset mismatch: %d vector rows vs %d items", len(vectors), len(rows))
	}

	items := make([]*core.Item, 0, len(rows))
	for i, row := range rows {
		it := core.NewItem(row.ID)
		it.Gender = strings.ToUpper(row.Gender)
		it.Category = row.Category
		it.Images = orderImages(row.Images)
		it.Vector = vectors[i]
		items = append(items, it)
	}

	archetypes, err := LoadArchetypes(paths.Archetypes, space)
	if err != nil {
		return nil, err
	}

	return &Assets{
		Catalog:    NewCatalog(space, items),
		Archetypes: archetypes,
		Visual:     NewVisualSet(visuals),
	}, nil
}

// loadAttrNames 装载属性名列表。
// 数据集文件前两行是条数与列头（DeepFashion 约定），跳过。
func loadAttrNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read attribute names: %w", err)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		if line <= 2 {
			continue
		}
		name := strings.TrimSpace(sc.Text())
		if name != "" {
			names = append(names, name)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan attribute names: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("attribute names file %s is empty", path)
	}
	return names, nil
}

func loadItemRows(path string) ([]itemRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	defer f.Close()

	var rows []itemRow
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var row itemRow
		if err := json.Unmarshal([]byte(text), &row); err != nil {
			return nil, fmt.Errorf("parse items line %d: %w", line, err)
		}
		if row.ID == "" {
			return nil, fmt.Errorf("items line %d: missing id", line)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	return rows, nil
}

func loadVisualEntries(path string) ([]VisualEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read visual embeddings: %w", err)
	}
	defer f.Close()

	var entries []VisualEntry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var e VisualEntry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, fmt.Errorf("parse visual line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan visual embeddings: %w", err)
	}
	return entries, nil
}

// decodeMatrix 把 little-endian float32 行主序字节流切成 [][]float64。
func decodeMatrix(raw []byte, dim int) ([][]float64, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dimension %d", dim)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("vector file size %d is not a multiple of 4", len(raw))
	}
	total := len(raw) / 4
	if total%dim != 0 {
		return nil, fmt.Errorf("vector file holds %d floats, not divisible by dim %d", total, dim)
	}
	n := total / dim
	out := make([][]float64, n)
	for r := 0; r < n; r++ {
		row := make([]float64, dim)
		base := r * dim * 4
		for c := 0; c < dim; c++ {
			bits := binary.LittleEndian.Uint32(raw[base+c*4:])
			row[c] = float64(math.Float32frombits(bits))
		}
		out[r] = row
	}
	return out, nil
}

// orderImages 按 front → side → back → 其余 的展示优先级排序图片路径。
// 客户端按顺序逐个回退加载。
func orderImages(images []string) []string {
	if len(images) <= 1 {
		return images
	}
	rank := func(p string) int {
		switch {
		case strings.Contains(p, "_front"):
			return 0
		case strings.Contains(p, "_side"):
			return 1
		case strings.Contains(p, "_back"):
			return 2
		default:
			return 3
		}
	}
	out := make([]string, 0, len(images))
	for r := 0; r <= 3; r++ {
		for _, p := range images {
			if rank(p) == r {
				out = append(out, p)
			}
		}
	}
	return out
}
