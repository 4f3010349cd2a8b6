package aggregation

import (
	"fmt"
	"time"

	"github.com/Yusuke0018/marumie-sub004/locale"
	"github.com/Yusuke0018/marumie-sub004/model"
)

// DefaultLeadTimeDays はリードタイム区分の既定の区切り日数です。
// 境界は上限含み (当日=0日以内、翌日=1日以内、…)。
var DefaultLeadTimeDays = []int{0, 1, 3, 7, 14}

var defaultLeadTimeLabels = []string{"当日以内", "翌日", "3日以内", "1週間以内", "2週間以内", "それ以降"}

func leadTimeLabels(cutDays []int) []string {
	if len(cutDays) == len(DefaultLeadTimeDays) {
		same := true
		for i, d := range cutDays {
			if d != DefaultLeadTimeDays[i] {
				same = false
				break
			}
		}
		if same {
			return defaultLeadTimeLabels
		}
	}
	labels := make([]string, 0, len(cutDays)+1)
	for _, d := range cutDays {
		labels = append(labels, fmt.Sprintf("%d日以内", d))
	}
	return append(labels, "それ以降")
}

// LeadTime は予約登録から受診までの間隔を固定の区分に分類します。
// 受付日時を持たないレコードは対象外です。件数は予約レコードの Count で
// 重み付けします。total がゼロの場合、平均と当日率は NaN ではなく 0 です。
func LeadTime(recs []model.ReservationRecord, cutDays []int) model.LeadTimeSummary {
	if len(cutDays) == 0 {
		cutDays = DefaultLeadTimeDays
	}
	labels := leadTimeLabels(cutDays)
	counts := make([]int, len(cutDays)+1)

	total := 0
	sameDay := 0
	var weightedHours float64

	for _, rec := range recs {
		if rec.BookedAt == nil {
			continue
		}
		days := calendarDaysBetween(*rec.BookedAt, rec.DateTime)
		idx := len(cutDays)
		for i, limit := range cutDays {
			if days <= limit {
				idx = i
				break
			}
		}
		counts[idx] += rec.Count
		total += rec.Count
		if days <= 0 {
			sameDay += rec.Count
		}
		weightedHours += rec.DateTime.Sub(*rec.BookedAt).Hours() * float64(rec.Count)
	}

	summary := model.LeadTimeSummary{
		Buckets: make([]model.LeadTimeBucket, len(counts)),
		Total:   total,
	}
	for i := range counts {
		summary.Buckets[i] = model.LeadTimeBucket{Label: labels[i], Count: counts[i]}
	}
	if total > 0 {
		summary.AverageHours = weightedHours / float64(total)
		summary.SameDayRate = float64(sameDay) / float64(total)
	}
	return summary
}

// calendarDaysBetween はJSTの暦日差を返します。同一暦日なら0、予約が
// 受診より後に記録されている異常データは負になります (当日以内に分類)。
func calendarDaysBetween(from, to time.Time) int {
	f := from.In(locale.JST)
	t := to.In(locale.JST)
	fd := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, locale.JST)
	td := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, locale.JST)
	return int(td.Sub(fd).Hours() / 24)
}
