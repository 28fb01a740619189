package label

import (
	"fmt"

	"github.com/florist-erp/internal/apperr"
)

// Cell 预览网格中的单元格描述
type Cell struct {
	Position int   `json:"position"`
	Row      int   `json:"row"`
	Column   int   `json:"column"`
	Filled   bool  `json:"filled"`
	Card     *Card `json:"card,omitempty"`
}

// Grid 整张标签纸的布局
type Grid struct {
	Geometry      Geometry `json:"geometry"`
	StartPosition int      `json:"start_position"`
	Cells         []Cell   `json:"cells"`
}

// FilledCell 返回被占用的单元格
func (g Grid) FilledCell() (Cell, bool) {
	for _, cell := range g.Cells {
		if cell.Filled {
			return cell, true
		}
	}
	return Cell{}, false
}

// RenderGrid 计算标签纸中各单元格的占用情况
// 只有 start 所在单元格为 filled，其余为空白占位
func RenderGrid(geometry Geometry, start int) (Grid, error) {
	if geometry.CellCount <= 0 {
		return Grid{}, apperr.Validation("label_type", "invalid label geometry")
	}
	if !geometry.Contains(start) {
		return Grid{}, apperr.Validation("start_position", fmt.Sprintf("start position must be within 1-%d", geometry.CellCount))
	}
	columns := geometry.ColumnCount
	if columns <= 0 {
		columns = 1
	}
	cells := make([]Cell, geometry.CellCount)
	for i := range cells {
		position := i + 1
		cells[i] = Cell{
			Position: position,
			Row:      i/columns + 1,
			Column:   i%columns + 1,
			Filled:   position == start,
		}
	}
	return Grid{Geometry: geometry, StartPosition: start, Cells: cells}, nil
}
