package progress

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hitoshi/cybersculpt/internal/model"
)

const exportSheet = "Progress"

var exportHeaders = []string{"Date", "Type", "Value", "Unit"}

// Export はユーザーの全進捗記録をXLSXブックとしてwに書き出す。
// 記録は日時の昇順。
func (s *Service) Export(ctx context.Context, userID string, w io.Writer) error {
	logs, err := s.logRepo.ListByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("進捗記録の取得に失敗しました: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("シートの作成に失敗しました: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("スタイルの作成に失敗しました: %w", err)
	}

	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return fmt.Errorf("ヘッダーの書き込みに失敗しました: %w", err)
		}
	}
	if err := f.SetCellStyle(exportSheet, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("ヘッダーのスタイル設定に失敗しました: %w", err)
	}

	for i, l := range logs {
		row := i + 2
		values := []interface{}{
			l.LoggedAt.UTC().Format("2006-01-02 15:04"),
			string(l.Type),
			l.Value,
			unitForLogType(l.Type),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return fmt.Errorf("行の書き込みに失敗しました: %w", err)
			}
		}
	}

	f.SetColWidth(exportSheet, "A", "A", 20)
	f.SetColWidth(exportSheet, "B", "D", 12)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("XLSXの書き出しに失敗しました: %w", err)
	}
	return nil
}

func unitForLogType(t model.LogType) string {
	switch t {
	case model.LogTypeWeight:
		return MetricWeight.Unit()
	case model.LogTypeBodyFat:
		return MetricBodyFat.Unit()
	}
	return ""
}
