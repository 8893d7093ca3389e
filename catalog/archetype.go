package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/stylekit/core"
)

// Archetype 是一个风格原型：某个（性别，品类组合）下的典型口味向量。
// 向量在装载时由稀疏的 属性名→权重 展开为稠密向量，之后只读。
type Archetype struct {
	Name       string
	Gender     string
	Categories []string
	Vector     []float64
}

// ArchetypeTable 是风格原型表，冷启动构建偏好向量的数据源。
//
// 两级检索：
//   - Exact: （性别，排序后的品类组合）的精确命中
//   - ByCategory: （性别，单品类）命中，用于组合缺失时的合成平均
type ArchetypeTable struct {
	exact      map[string]*Archetype // key: GENDER|cat1+cat2（归一、排序）
	byCategory map[string]*Archetype // key: GENDER|cat
}

// archetypeFile 是 archetypes.yaml 的文件结构。
// weights 以属性名为键；建索引工具写出的名字应与属性空间精确一致，
// 不一致时退化为模糊匹配以容忍工具链漂移。
type archetypeFile struct {
	Archetypes []struct {
		Name       string             `yaml:"name"`
		Gender     string             `yaml:"gender"`
		Categories []string           `yaml:"categories"`
		Weights    map[string]float64 `yaml:"weights"`
	} `yaml:"archetypes"`
}

// LoadArchetypes 从 YAML 资产装载风格原型表。
func LoadArchetypes(path string, space *core.AttributeSpace) (*ArchetypeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetypes: %w", err)
	}

	var file archetypeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse archetypes yaml: %w", err)
	}

	table := &ArchetypeTable{
		exact:      make(map[string]*Archetype),
		byCategory: make(map[string]*Archetype),
	}

	// 精确名字索引，避免每个权重都走一遍模糊匹配
	nameIndex := make(map[string]int, space.Size())
	for i, n := range space.Names() {
		nameIndex[strings.ToLower(n)] = i
	}

	for _, a := range file.Archetypes {
		vec := make([]float64, space.Size())
		for attr, w := range a.Weights {
			if idx, ok := nameIndex[strings.ToLower(attr)]; ok {
				vec[idx] = w
				continue
			}
			for _, idx := range space.MatchIndices(attr) {
				if w > vec[idx] {
					vec[idx] = w
				}
			}
		}

		arch := &Archetype{
			Name:       a.Name,
			Gender:     strings.ToUpper(a.Gender),
			Categories: a.Categories,
			Vector:     vec,
		}

		table.exact[comboKey(arch.Gender, arch.Categories)] = arch
		if len(arch.Categories) == 1 {
			table.byCategory[singleKey(arch.Gender, arch.Categories[0])] = arch
		}
	}

	return table, nil
}

// NewArchetypeTable 由内存中的原型列表构建表（测试与示例用）。
func NewArchetypeTable(archetypes []*Archetype) *ArchetypeTable {
	table := &ArchetypeTable{
		exact:      make(map[string]*Archetype),
		byCategory: make(map[string]*Archetype),
	}
	for _, arch := range archetypes {
		table.exact[comboKey(arch.Gender, arch.Categories)] = arch
		if len(arch.Categories) == 1 {
			table.byCategory[singleKey(arch.Gender, arch.Categories[0])] = arch
		}
	}
	return table
}

// Exact 精确命中（性别，品类组合）。
func (t *ArchetypeTable) Exact(gender string, categories []string) (*Archetype, bool) {
	a, ok := t.exact[comboKey(strings.ToUpper(gender), categories)]
	return a, ok
}

// ByCategory 命中（性别，单品类）。
func (t *ArchetypeTable) ByCategory(gender, category string) (*Archetype, bool) {
	a, ok := t.byCategory[singleKey(strings.ToUpper(gender), category)]
	return a, ok
}

func comboKey(gender string, categories []string) string {
	norm := make([]string, 0, len(categories))
	for _, c := range categories {
		norm = append(norm, singularize(normalizeTag(c)))
	}
	sort.Strings(norm)
	return gender + "|" + strings.Join(norm, "+")
}

func singleKey(gender, category string) string {
	return gender + "|" + singularize(normalizeTag(category))
}
