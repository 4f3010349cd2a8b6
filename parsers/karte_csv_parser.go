package parsers

import (
	"io"

	"github.com/Yusuke0018/marumie-sub004/config"
	"github.com/Yusuke0018/marumie-sub004/locale"
	"github.com/Yusuke0018/marumie-sub004/model"
)

const (
	colVisitedAt      = "診療日"
	colKarteDept      = "診療科"
	colKarteVisitType = "初再診"
)

// ParseKarteCSV は電子カルテの出力CSVを解析します。患者識別列は予約CSVと
// 共通で、識別キーは同じカスケードで生成されるため、ソース間で突合でき
// ます。分析開始日より前の行は除外します。
func ParseKarteCSV(r io.Reader) model.ParseResult[model.KarteRecord] {
	return ParseCSV(r, Schema[model.KarteRecord]{
		Label:    "カルテCSV",
		Required: []string{colVisitedAt, colKarteDept},
		ParseRow: parseKarteRow,
	})
}

func parseKarteRow(row Row, line int, c *Collector) (model.KarteRecord, bool) {
	var rec model.KarteRecord

	visitedAt := locale.ParseJSTDate(row.Get(colVisitedAt))
	if visitedAt == nil {
		c.Errorf(line, colVisitedAt, "診療日を解釈できません: %q", row.Get(colVisitedAt))
		return rec, false
	}
	if !locale.IsOnOrAfterStart(*visitedAt) {
		return rec, false
	}

	dept := row.Get(colKarteDept)
	if dept == "" {
		c.Errorf(line, colKarteDept, "診療科が空です")
		return rec, false
	}

	key := identityKeyFromRow(row)
	if key == "" {
		c.Warnf(line, "", "患者を特定できる列が無いため患者種別の分類対象外になります")
	}

	return model.KarteRecord{
		VisitedAt:       *visitedAt,
		Department:      dept,
		DepartmentGroup: config.GroupForDepartment(dept),
		VisitType:       resolveVisitType(row.Get(colKarteVisitType)),
		IdentityKey:     key,
	}, true
}
