package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/logger"

	"github.com/xuri/excelize/v2"
)

var deliveryFeeExportHeader = []interface{}{"지역", "배송비", "중복", "수정일"}

// Export 导出排序后的配送费列表（含重复标记）
func (s *DeliveryFeeService) Export(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return nil, "", err
	}
	duplicated := make(map[string]bool)
	for _, group := range DetectDuplicates(rows) {
		duplicated[group.District] = true
	}

	data := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		mark := ""
		if duplicated[row.District] {
			mark = "중복"
		}
		data = append(data, []interface{}{row.District, row.Fee, mark, row.UpdatedAt.Format("2006-01-02 15:04")})
	}

	stats := Stats(rows)
	footer := [][]interface{}{
		{},
		{"총 지역 수", stats.RecordCount},
		{"평균 배송비", stats.AverageFee},
		{"중복 지역", stats.DuplicateDistricts, "중복 항목", stats.DuplicateItems},
	}

	buf, err := writeSheet("배송비", deliveryFeeExportHeader, append(data, footer...))
	if err != nil {
		logger.Errorw("delivery_fee_export_failed", "error", err)
		return nil, "", err
	}
	return buf, fmt.Sprintf("delivery_fees_%s.xlsx", time.Now().Format("20060102")), nil
}

// writeSheet 生成单工作表 xlsx
func writeSheet(sheet string, header []interface{}, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(constants.ExportSheetName, sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E8F5E9"}, Pattern: 1},
	})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(header))
		_ = f.SetCellStyle(sheet, "A1", lastCol+"1", style)
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf, nil
}
