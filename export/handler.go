// Package export は月次レポートのExcel出力を提供します。
package export

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/xuri/excelize/v2"

	"github.com/Yusuke0018/marumie-sub004/aggregation"
	"github.com/Yusuke0018/marumie-sub004/config"
	"github.com/Yusuke0018/marumie-sub004/database"
	"github.com/Yusuke0018/marumie-sub004/locale"
)

const (
	sheetMonthly  = "月次サマリー"
	sheetLeadTime = "リードタイム"
)

// MonthlyReportHandler は月次サマリーとリードタイム集計をまとめた
// xlsxファイルをダウンロードさせます。
func MonthlyReportHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := database.LoadReservations(db)
		if err != nil {
			http.Error(w, "Failed to load reservations: "+err.Error(), http.StatusInternalServerError)
			return
		}

		f := excelize.NewFile()
		defer f.Close()

		f.SetSheetName("Sheet1", sheetMonthly)
		headers := []string{"月", "合計", "初診", "再診", "当日予約"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheetMonthly, cell, h)
		}
		for rowIdx, b := range aggregation.Monthly(recs) {
			values := []interface{}{b.Month, b.Total, b.FirstVisits, b.Revisits, b.SameDay}
			for colIdx, v := range values {
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				f.SetCellValue(sheetMonthly, cell, v)
			}
		}

		if _, err := f.NewSheet(sheetLeadTime); err == nil {
			lead := aggregation.LeadTime(recs, config.LeadTimeDays())
			f.SetCellValue(sheetLeadTime, "A1", "区分")
			f.SetCellValue(sheetLeadTime, "B1", "件数")
			for i, b := range lead.Buckets {
				cellA, _ := excelize.CoordinatesToCellName(1, i+2)
				cellB, _ := excelize.CoordinatesToCellName(2, i+2)
				f.SetCellValue(sheetLeadTime, cellA, b.Label)
				f.SetCellValue(sheetLeadTime, cellB, b.Count)
			}
			base := len(lead.Buckets) + 3
			f.SetCellValue(sheetLeadTime, fmt.Sprintf("A%d", base), "平均リードタイム(時間)")
			f.SetCellValue(sheetLeadTime, fmt.Sprintf("B%d", base), lead.AverageHours)
			f.SetCellValue(sheetLeadTime, fmt.Sprintf("A%d", base+1), "当日予約率")
			f.SetCellValue(sheetLeadTime, fmt.Sprintf("B%d", base+1), lead.SameDayRate)
		}

		filename := fmt.Sprintf("monthly_report_%s.xlsx", time.Now().In(locale.JST).Format("20060102"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		if err := f.Write(w); err != nil {
			log.Printf("Failed to write xlsx response: %v", err)
		}
	}
}
