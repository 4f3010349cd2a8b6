package parsers

import (
	"io"

	"github.com/Yusuke0018/marumie-sub004/locale"
	"github.com/Yusuke0018/marumie-sub004/model"
)

const (
	colSurveyDate  = "日付"
	colFeverGoogle = "発熱Google"
)

// SurveyCategory はアンケートCSVの種別です。
type SurveyCategory string

const (
	SurveyOutpatient SurveyCategory = "outpatient"
	SurveyEndoscopy  SurveyCategory = "endoscopy"
)

// 来院経路のチャンネル列。存在する列だけ読み取ります。
var surveyChannels = []string{
	"Google検索",
	"Googleマップ",
	"ホームページ",
	"紹介",
	"看板",
	"SNS",
	"チラシ",
	"その他",
}

var surveyLabels = map[SurveyCategory]string{
	SurveyOutpatient: "アンケートCSV（外来）",
	SurveyEndoscopy:  "アンケートCSV（内視鏡）",
}

// ParseSurveyCSV は患者アンケート集計CSVを解析します。チャンネル列の
// 空セルは警告を記録した上で nil として行を保持します。
func ParseSurveyCSV(r io.Reader, category SurveyCategory) model.ParseResult[model.SurveyRecord] {
	label, ok := surveyLabels[category]
	if !ok {
		label = "アンケートCSV"
	}
	return ParseCSV(r, Schema[model.SurveyRecord]{
		Label:    label,
		Required: []string{colSurveyDate},
		ParseRow: func(row Row, line int, c *Collector) (model.SurveyRecord, bool) {
			return parseSurveyRow(row, line, c, category)
		},
	})
}

func parseSurveyRow(row Row, line int, c *Collector, category SurveyCategory) (model.SurveyRecord, bool) {
	var rec model.SurveyRecord

	date := locale.ParseJSTDate(row.Get(colSurveyDate))
	if date == nil {
		c.Errorf(line, colSurveyDate, "日付を解釈できません: %q", row.Get(colSurveyDate))
		return rec, false
	}

	channels := make(map[string]*float64, len(surveyChannels))
	for _, name := range surveyChannels {
		if !row.Has(name) {
			continue
		}
		raw := row.Get(name)
		if raw == "" {
			c.Warnf(line, name, "チャンネル列が未入力です")
			channels[name] = nil
			continue
		}
		v := locale.ParseNumber(raw)
		if v == nil {
			c.Warnf(line, name, "数値を解釈できません: %q", raw)
		}
		channels[name] = v
	}

	rec = model.SurveyRecord{
		Date:     *date,
		Category: string(category),
		Channels: channels,
	}
	if category == SurveyOutpatient && row.Has(colFeverGoogle) {
		rec.FeverGoogle = locale.ParseNumber(row.Get(colFeverGoogle))
	}
	return rec, true
}
