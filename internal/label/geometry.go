package label

// 标签纸规格 ID
const (
	TypeFormtec3107 = "formtec-3107"
	TypeFormtec3108 = "formtec-3108"
	TypeFormtec3109 = "formtec-3109"
)

// Geometry 标签纸物理规格（只读参考数据）
type Geometry struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	CellCount    int     `json:"cell_count"`
	ColumnCount  int     `json:"column_count"`
	CellHeightMM float64 `json:"cell_height_mm"`
	ColumnGapMM  float64 `json:"column_gap_mm"`
}

// RowCount 行数
func (g Geometry) RowCount() int {
	if g.ColumnCount <= 0 {
		return g.CellCount
	}
	return (g.CellCount + g.ColumnCount - 1) / g.ColumnCount
}

// Contains 判断位置是否在当前规格范围内
func (g Geometry) Contains(position int) bool {
	return position >= 1 && position <= g.CellCount
}

var catalog = []Geometry{
	{ID: TypeFormtec3107, Label: "폼텍 3107 (6칸)", CellCount: 6, ColumnCount: 2, CellHeightMM: 99.1, ColumnGapMM: 0},
	{ID: TypeFormtec3108, Label: "폼텍 3108 (8칸)", CellCount: 8, ColumnCount: 2, CellHeightMM: 70, ColumnGapMM: 4.5},
	{ID: TypeFormtec3109, Label: "폼텍 3109 (12칸)", CellCount: 12, ColumnCount: 2, CellHeightMM: 67.7, ColumnGapMM: 2.5},
}

// Catalog 返回全部标签纸规格（副本）
func Catalog() []Geometry {
	out := make([]Geometry, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup 按 ID 查找规格
func Lookup(id string) (Geometry, bool) {
	for _, g := range catalog {
		if g.ID == id {
			return g, true
		}
	}
	return Geometry{}, false
}

// DefaultGeometry 默认规格（目录第一项）
func DefaultGeometry() Geometry {
	return catalog[0]
}
