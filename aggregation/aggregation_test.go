package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yusuke0018/marumie-sub004/locale"
	"github.com/Yusuke0018/marumie-sub004/model"
)

func jst(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, locale.JST)
}

func TestMonthlySortedAndCounted(t *testing.T) {
	recs := []model.ReservationRecord{
		{DateTime: jst(2025, 11, 3, 9, 0), VisitType: model.VisitTypeFirst, Count: 1},
		{DateTime: jst(2025, 10, 5, 9, 0), VisitType: model.VisitTypeRepeat, Count: 2, IsSameDay: true},
		{DateTime: jst(2025, 10, 20, 14, 0), VisitType: model.VisitTypeFirst, Count: 1},
	}
	buckets := Monthly(recs)

	require.Len(t, buckets, 2)
	assert.Equal(t, "2025-10", buckets[0].Month)
	assert.Equal(t, 3, buckets[0].Total)
	assert.Equal(t, 1, buckets[0].FirstVisits)
	assert.Equal(t, 2, buckets[0].Revisits)
	assert.Equal(t, 2, buckets[0].SameDay)

	assert.Equal(t, "2025-11", buckets[1].Month)
	assert.Equal(t, 1, buckets[1].Total)
}

func TestWeekdayZeroFilled(t *testing.T) {
	// 2025-10-05 は日曜
	recs := []model.ReservationRecord{
		{DateTime: jst(2025, 10, 5, 9, 0), Count: 2},
		{DateTime: jst(2025, 10, 6, 9, 0), Count: 1},
	}
	buckets := Weekday(recs)

	require.Len(t, buckets, 7)
	assert.Equal(t, "日", buckets[0].Weekday)
	assert.Equal(t, 2, buckets[0].Total)
	assert.Equal(t, 1, buckets[1].Total)
	assert.Equal(t, 0, buckets[2].Total) // 火曜はゼロのまま残る
}

func TestHourlyZeroFilled(t *testing.T) {
	recs := []model.ReservationRecord{
		{DateTime: jst(2025, 10, 5, 9, 30), Count: 1},
		{DateTime: jst(2025, 10, 5, 9, 45), Count: 1},
	}
	buckets := Hourly(recs)

	require.Len(t, buckets, 24)
	assert.Equal(t, 2, buckets[9].Total)
	assert.Equal(t, 0, buckets[10].Total)
}

func TestDiagnosisMonthlyFixedSeries(t *testing.T) {
	groups := []string{"総合内科", "皮膚科", model.DepartmentGroupOther}
	recs := []model.KarteRecord{
		{VisitedAt: jst(2025, 10, 5, 9, 0), DepartmentGroup: "総合内科"},
		{VisitedAt: jst(2025, 10, 6, 9, 0), DepartmentGroup: "存在しない科"},
		{VisitedAt: jst(2025, 11, 1, 9, 0), DepartmentGroup: "皮膚科"},
	}
	result := DiagnosisMonthly(recs, groups)

	require.Len(t, result, 2)
	assert.Equal(t, "2025-10", result[0].Month)
	assert.Equal(t, 1, result[0].Counts["総合内科"])
	assert.Equal(t, 0, result[0].Counts["皮膚科"]) // ゼロ埋めで系列が欠けない
	assert.Equal(t, 1, result[0].Counts[model.DepartmentGroupOther])

	assert.Equal(t, "2025-11", result[1].Month)
	assert.Equal(t, 1, result[1].Counts["皮膚科"])
	assert.Equal(t, 0, result[1].Counts["総合内科"])
}
