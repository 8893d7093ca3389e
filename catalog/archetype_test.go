package catalog

import "testing"

func testArchetypes() *ArchetypeTable {
	return NewArchetypeTable([]*Archetype{
		{
			Name:       "men_denim",
			Gender:     "MEN",
			Categories: []string{"Jeans"},
			Vector:     []float64{1, 0, 0},
		},
		{
			Name:       "men_formal",
			Gender:     "MEN",
			Categories: []string{"Suits"},
			Vector:     []float64{0, 0, 1},
		},
		{
			Name:       "men_smart_casual",
			Gender:     "MEN",
			Categories: []string{"Jeans", "Suits"},
			Vector:     []float64{0.5, 0, 0.5},
		},
	})
}

// TestArchetypeExact 测试（性别，品类组合）精确命中：顺序无关、归一化
func TestArchetypeExact(t *testing.T) {
	table := testArchetypes()

	tests := []struct {
		name       string
		gender     string
		categories []string
		wantName   string
		wantOK     bool
	}{
		{"单品类", "MEN", []string{"Jeans"}, "men_denim", true},
		{"组合顺序无关", "MEN", []string{"Suits", "Jeans"}, "men_smart_casual", true},
		{"单复数归一", "MEN", []string{"jean"}, "men_denim", true},
		{"未命中", "MEN", []string{"Dresses"}, "", false},
		{"性别不符", "WOMEN", []string{"Jeans"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arch, ok := table.Exact(tt.gender, tt.categories)
			if ok != tt.wantOK {
				t.Fatalf("命中状态期望 %v，实际 %v", tt.wantOK, ok)
			}
			if ok && arch.Name != tt.wantName {
				t.Errorf("期望 %s，实际 %s", tt.wantName, arch.Name)
			}
		})
	}
}

// TestArchetypeByCategory 测试（性别，单品类）命中
func TestArchetypeByCategory(t *testing.T) {
	table := testArchetypes()

	arch, ok := table.ByCategory("MEN", "suits")
	if !ok || arch.Name != "men_formal" {
		t.Errorf("期望 men_formal，实际 %+v", arch)
	}

	// 多品类原型不进单品类索引
	if _, ok := table.ByCategory("MEN", "Jeans+Suits"); ok {
		t.Error("组合键不应命中单品类索引")
	}
}
