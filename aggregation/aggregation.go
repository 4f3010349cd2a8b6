// Package aggregation は正規化済みレコードから各ダッシュボード表示用の
// 集計値を導出します。全ての関数は純粋で、同じ入力からは常に同じ結果を
// 返します。
package aggregation

import (
	"sort"

	"github.com/Yusuke0018/marumie-sub004/locale"
	"github.com/Yusuke0018/marumie-sub004/model"
)

var weekdayLabels = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// Monthly は予約レコードを月次バケットに集計します。結果は月キーの
// 昇順 (= 時系列順) に並びます。
func Monthly(recs []model.ReservationRecord) []model.MonthlyBucket {
	byMonth := make(map[string]*model.MonthlyBucket)
	for _, rec := range recs {
		key := locale.ToMonthKey(rec.DateTime)
		b, ok := byMonth[key]
		if !ok {
			b = &model.MonthlyBucket{Month: key}
			byMonth[key] = b
		}
		b.Total += rec.Count
		if rec.VisitType == model.VisitTypeFirst {
			b.FirstVisits += rec.Count
		} else {
			b.Revisits += rec.Count
		}
		if rec.IsSameDay {
			b.SameDay += rec.Count
		}
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]model.MonthlyBucket, 0, len(keys))
	for _, k := range keys {
		result = append(result, *byMonth[k])
	}
	return result
}

// Weekday は曜日別の件数を返します。7バケット全てを日曜始まりの順で
// 返し、件数ゼロの曜日も省略しません。
func Weekday(recs []model.ReservationRecord) []model.WeekdayBucket {
	buckets := make([]model.WeekdayBucket, 7)
	for i := range buckets {
		buckets[i] = model.WeekdayBucket{Index: i, Weekday: weekdayLabels[i]}
	}
	for _, rec := range recs {
		w := int(rec.DateTime.In(locale.JST).Weekday())
		buckets[w].Total += rec.Count
	}
	return buckets
}

// Hourly は時間帯別 (JSTの0〜23時) の件数を返します。24バケット固定です。
func Hourly(recs []model.ReservationRecord) []model.HourlyBucket {
	buckets := make([]model.HourlyBucket, 24)
	for i := range buckets {
		buckets[i] = model.HourlyBucket{Hour: i}
	}
	for _, rec := range recs {
		h := rec.DateTime.In(locale.JST).Hour()
		buckets[h].Total += rec.Count
	}
	return buckets
}

// DiagnosisMonthly はカルテレコードを診療科グループ×月で集計します。
// groups で渡された固定グループを全ての月に件数ゼロで埋めてから加算する
// ため、チャートの系列が月によって欠けることはありません。
func DiagnosisMonthly(recs []model.KarteRecord, groups []string) []model.DiagnosisMonthly {
	byMonth := make(map[string]map[string]int)
	for _, rec := range recs {
		key := locale.ToMonthKey(rec.VisitedAt)
		counts, ok := byMonth[key]
		if !ok {
			counts = make(map[string]int, len(groups))
			for _, g := range groups {
				counts[g] = 0
			}
			byMonth[key] = counts
		}
		group := rec.DepartmentGroup
		if _, known := counts[group]; !known {
			group = model.DepartmentGroupOther
		}
		counts[group]++
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]model.DiagnosisMonthly, 0, len(keys))
	for _, k := range keys {
		result = append(result, model.DiagnosisMonthly{Month: k, Counts: byMonth[k]})
	}
	return result
}
