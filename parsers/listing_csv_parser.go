package parsers

import (
	"fmt"
	"io"

	"github.com/Yusuke0018/marumie-sub004/locale"
	"github.com/Yusuke0018/marumie-sub004/model"
)

// リスティングCSVの列名。日付以外は全て任意で、欠損は nil として保持
// されます (0 とは区別)。
const (
	colListingDate = "日付"
	colAmount      = "費用"
	colCV          = "CV"
	colCVR         = "CVR"
	colCPA         = "CPA"
)

// ListingCategory はリスティングレポートの診療カテゴリです。
type ListingCategory string

const (
	ListingInternal    ListingCategory = "internal"
	ListingGastroscopy ListingCategory = "gastroscopy"
	ListingColonoscopy ListingCategory = "colonoscopy"
)

var listingLabels = map[ListingCategory]string{
	ListingInternal:    "リスティングCSV（内科）",
	ListingGastroscopy: "リスティングCSV（胃カメラ）",
	ListingColonoscopy: "リスティングCSV（大腸カメラ）",
}

// ParseListingCSV はリスティング広告レポートCSVを解析します。
// 時間帯別CVは "0時CV"〜"23時CV" の列から読み、列が無い・値が空の
// 時間帯は nil のままにします。
func ParseListingCSV(r io.Reader, category ListingCategory) model.ParseResult[model.ListingRecord] {
	label, ok := listingLabels[category]
	if !ok {
		label = "リスティングCSV"
	}
	return ParseCSV(r, Schema[model.ListingRecord]{
		Label:    label,
		Required: []string{colListingDate},
		ParseRow: func(row Row, line int, c *Collector) (model.ListingRecord, bool) {
			return parseListingRow(row, line, c, category)
		},
	})
}

func parseListingRow(row Row, line int, c *Collector, category ListingCategory) (model.ListingRecord, bool) {
	var rec model.ListingRecord

	date := locale.ParseJSTDate(row.Get(colListingDate))
	if date == nil {
		c.Errorf(line, colListingDate, "日付を解釈できません: %q", row.Get(colListingDate))
		return rec, false
	}

	hourly := make([]*float64, 24)
	for h := 0; h < 24; h++ {
		name := fmt.Sprintf("%d時CV", h)
		if row.Has(name) {
			hourly[h] = locale.ParseNumber(row.Get(name))
		}
	}

	return model.ListingRecord{
		Date:     *date,
		Category: string(category),
		Amount:   locale.ParseNumber(row.Get(colAmount)),
		CV:       locale.ParseNumber(row.Get(colCV)),
		CVR:      locale.ParsePercent(row.Get(colCVR)),
		CPA:      locale.ParseNumber(row.Get(colCPA)),
		HourlyCV: hourly,
	}, true
}
