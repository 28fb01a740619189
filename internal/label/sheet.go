package label

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// A4 纸张尺寸（mm）
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
	SideMarginMM = 5.0
)

// CellWidthMM 按列数与列间距计算单元格宽度
func (g Geometry) CellWidthMM() float64 {
	columns := g.ColumnCount
	if columns <= 0 {
		columns = 1
	}
	usable := PageWidthMM - 2*SideMarginMM - g.ColumnGapMM*float64(columns-1)
	return usable / float64(columns)
}

// TopMarginMM 纵向居中后的上边距，不足时为 0
func (g Geometry) TopMarginMM() float64 {
	margin := (PageHeightMM - g.CellHeightMM*float64(g.RowCount())) / 2
	if margin < 0 {
		return 0
	}
	return margin
}

type sheetCell struct {
	Position int
	Filled   bool
	Message  []string
	Sender   string
}

type sheetView struct {
	Title          string
	Geometry       Geometry
	CellWidth      string
	CellHeight     string
	ColumnGap      string
	TopMargin      string
	SideMargin     string
	MessageFont    string
	MessageSize    int
	SenderFont     string
	SenderSize     int
	Cells          []sheetCell
	TemplateColumn string
}

var sheetTemplate = template.Must(template.New("sheet").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: A4; margin: 0; }
body { margin: 0; }
.sheet { display: grid; grid-template-columns: {{.TemplateColumn}}; column-gap: {{.ColumnGap}}; padding: {{.TopMargin}} {{.SideMargin}} 0 {{.SideMargin}}; }
.cell { height: {{.CellHeight}}; box-sizing: border-box; position: relative; text-align: center; overflow: hidden; }
.message { font-family: '{{.MessageFont}}'; font-size: {{.MessageSize}}pt; white-space: pre-wrap; padding-top: 20%; }
.sender { font-family: '{{.SenderFont}}'; font-size: {{.SenderSize}}pt; position: absolute; bottom: 8mm; left: 0; right: 0; }
</style>
</head>
<body>
<div class="sheet" data-label-type="{{.Geometry.ID}}">
{{- range .Cells}}
<div class="cell" data-position="{{.Position}}">
{{- if .Filled}}
<div class="message">{{range $i, $line := .Message}}{{if $i}}<br>{{end}}{{$line}}{{end}}</div>
<div class="sender">- {{.Sender}} -</div>
{{- end}}
</div>
{{- end}}
</div>
</body>
</html>
`))

// RenderSheetHTML 根据打印数据生成可打印的整页 HTML
func RenderSheetHTML(payload PrintPayload) ([]byte, error) {
	geometry, ok := Lookup(payload.LabelType)
	if !ok {
		return nil, fmt.Errorf("unknown label type %q", payload.LabelType)
	}
	grid, err := RenderGrid(geometry, payload.StartPosition)
	if err != nil {
		return nil, err
	}
	view := sheetView{
		Title:          fmt.Sprintf("%s #%d", geometry.Label, payload.OrderID),
		Geometry:       geometry,
		CellWidth:      mm(geometry.CellWidthMM()),
		CellHeight:     mm(geometry.CellHeightMM),
		ColumnGap:      mm(geometry.ColumnGapMM),
		TopMargin:      mm(geometry.TopMarginMM()),
		SideMargin:     mm(SideMarginMM),
		MessageFont:    payload.MessageFont,
		MessageSize:    positiveOr(payload.MessageFontSize, DefaultMessageFontSize),
		SenderFont:     payload.SenderFont,
		SenderSize:     positiveOr(payload.SenderFontSize, DefaultSenderFontSize),
		TemplateColumn: strings.TrimSpace(strings.Repeat(mm(geometry.CellWidthMM())+" ", geometry.ColumnCount)),
	}
	view.Cells = make([]sheetCell, 0, len(grid.Cells))
	for _, cell := range grid.Cells {
		sc := sheetCell{Position: cell.Position, Filled: cell.Filled}
		if cell.Filled {
			sc.Message = strings.Split(payload.MessageContent, "\n")
			sc.Sender = payload.SenderName
		}
		view.Cells = append(view.Cells, sc)
	}

	var buf bytes.Buffer
	if err := sheetTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mm(v float64) string {
	return fmt.Sprintf("%.1fmm", v)
}
