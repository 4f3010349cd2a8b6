package parsers

import (
	"io"
	"strings"

	"github.com/Yusuke0018/marumie-sub004/config"
	"github.com/Yusuke0018/marumie-sub004/identity"
	"github.com/Yusuke0018/marumie-sub004/locale"
	"github.com/Yusuke0018/marumie-sub004/model"
)

// 予約CSVの列名。受付日時と患者識別系の列は任意です。
const (
	colReservedAt    = "予約日時"
	colDepartment    = "診療科"
	colVisitType     = "初再診"
	colSameDay       = "当日予約"
	colCount         = "件数"
	colBookedAt      = "受付日時"
	colPatientID     = "患者ID"
	colPatientNumber = "患者番号"
	colPatientName   = "患者名"
	colBirthDate     = "生年月日"
)

// ParseReservationCSV は予約ログCSVを解析します。分析開始日より前の行は
// エラーにせず除外します (業務ルール)。
func ParseReservationCSV(r io.Reader) model.ParseResult[model.ReservationRecord] {
	return ParseCSV(r, Schema[model.ReservationRecord]{
		Label:    "予約CSV",
		Required: []string{colReservedAt, colDepartment, colVisitType},
		ParseRow: parseReservationRow,
	})
}

func parseReservationRow(row Row, line int, c *Collector) (model.ReservationRecord, bool) {
	var rec model.ReservationRecord

	dt := locale.ParseJSTDate(row.Get(colReservedAt))
	if dt == nil {
		c.Errorf(line, colReservedAt, "日時を解釈できません: %q", row.Get(colReservedAt))
		return rec, false
	}
	if !locale.IsOnOrAfterStart(*dt) {
		// 集計開始前のデータは対象外
		return rec, false
	}

	dept := row.Get(colDepartment)
	if dept == "" {
		c.Errorf(line, colDepartment, "診療科が空です")
		return rec, false
	}

	count := 1
	if raw := row.Get(colCount); raw != "" {
		f := locale.ParseNumber(raw)
		if f == nil || *f < 0 {
			c.Errorf(line, colCount, "件数を解釈できません: %q", raw)
			return rec, false
		}
		count = int(*f)
	}

	visitType := resolveVisitType(row.Get(colVisitType))
	if row.Get(colVisitType) == "" {
		c.Warnf(line, colVisitType, "初再診が未入力のため再診として扱います")
	}

	rec = model.ReservationRecord{
		DateTime:        *dt,
		Department:      dept,
		DepartmentGroup: config.GroupForDepartment(dept),
		VisitType:       visitType,
		Count:           count,
		IsSameDay:       isAffirmative(row.Get(colSameDay)),
	}

	if raw := row.Get(colBookedAt); raw != "" {
		if b := locale.ParseJSTDate(raw); b != nil {
			rec.BookedAt = b
		} else {
			c.Warnf(line, colBookedAt, "受付日時を解釈できません: %q", raw)
		}
	}

	rec.IdentityKey = identityKeyFromRow(row)
	return rec, true
}

func identityKeyFromRow(row Row) string {
	var birthISO string
	if b := locale.ParseJSTDate(row.Get(colBirthDate)); b != nil {
		birthISO = locale.ToDateKey(*b)
	}
	return identity.CreateKey(identity.Input{
		PatientID:     row.Get(colPatientID),
		PatientNumber: row.Get(colPatientNumber),
		Name:          row.Get(colPatientName),
		BirthDateISO:  birthISO,
	})
}

func resolveVisitType(raw string) string {
	if strings.Contains(raw, "初") {
		return model.VisitTypeFirst
	}
	return model.VisitTypeRepeat
}

// isAffirmative は当日予約フラグ列の肯定表現を判定します。
func isAffirmative(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "○", "〇", "◯", "当日", "TRUE", "1", "はい", "YES":
		return true
	}
	return false
}
