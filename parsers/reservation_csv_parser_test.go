package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yusuke0018/marumie-sub004/model"
)

func TestParseReservationCSVMissingRequiredColumn(t *testing.T) {
	csv := "予約日時,初再診\n2025-10-05 09:30,初診\n"
	res := ParseReservationCSV(strings.NewReader(csv))

	require.Len(t, res.Errors, 1)
	assert.Equal(t, 0, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Message, "診療科")
	assert.Empty(t, res.Data)
}

func TestParseReservationCSVBadRowDoesNotAbortBatch(t *testing.T) {
	csv := strings.Join([]string{
		"予約日時,診療科,初再診,当日予約,件数",
		"2025-10-05 09:30,内科,初診,○,1",
		"not a date,内科,再診,,1",
		"2025-10-06 10:00,胃カメラ,再診,,2",
	}, "\n")
	res := ParseReservationCSV(strings.NewReader(csv))

	require.Len(t, res.Data, 2)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Equal(t, "予約日時", res.Errors[0].Field)

	first := res.Data[0]
	assert.Equal(t, "総合内科", first.DepartmentGroup)
	assert.Equal(t, model.VisitTypeFirst, first.VisitType)
	assert.True(t, first.IsSameDay)
	assert.Equal(t, 1, first.Count)

	second := res.Data[1]
	assert.Equal(t, "内視鏡（胃）", second.DepartmentGroup)
	assert.Equal(t, model.VisitTypeRepeat, second.VisitType)
	assert.False(t, second.IsSameDay)
	assert.Equal(t, 2, second.Count)
}

func TestParseReservationCSVUnknownDepartmentFallsBack(t *testing.T) {
	csv := "予約日時,診療科,初再診\n2025-10-05 09:30,謎の診療科,初診\n"
	res := ParseReservationCSV(strings.NewReader(csv))

	require.Len(t, res.Data, 1)
	assert.Equal(t, model.DepartmentGroupOther, res.Data[0].DepartmentGroup)
}

func TestParseReservationCSVExcludesBeforeAnalysisStart(t *testing.T) {
	csv := strings.Join([]string{
		"予約日時,診療科,初再診",
		"2025-10-01 23:59,内科,初診", // 分析開始 (2025-10-02) より前
		"2025-10-02 00:00,内科,初診", // 境界ちょうどは含む
	}, "\n")
	res := ParseReservationCSV(strings.NewReader(csv))

	require.Len(t, res.Data, 1)
	assert.Empty(t, res.Errors) // 期間外はエラーではなく除外
}

func TestParseReservationCSVBadCount(t *testing.T) {
	csv := "予約日時,診療科,初再診,件数\n2025-10-05 09:30,内科,初診,abc\n"
	res := ParseReservationCSV(strings.NewReader(csv))

	assert.Empty(t, res.Data)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "件数", res.Errors[0].Field)
}

func TestParseReservationCSVIdentityAndBookedAt(t *testing.T) {
	csv := strings.Join([]string{
		"予約日時,診療科,初再診,受付日時,患者番号,患者名,生年月日",
		"2025-10-05 09:30,内科,初診,2025-10-03 12:00,00042,田中太郎,1980/1/2",
		"2025-10-05 10:00,内科,再診,ゴミ,,タナカ　タロウ,1980-01-02",
	}, "\n")
	res := ParseReservationCSV(strings.NewReader(csv))

	require.Len(t, res.Data, 2)
	assert.Equal(t, "pn:42", res.Data[0].IdentityKey)
	require.NotNil(t, res.Data[0].BookedAt)

	// 受付日時が解釈できない行は警告付きで保持される
	assert.Nil(t, res.Data[1].BookedAt)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 2, res.Warnings[0].Row)
	// 患者番号が無いので氏名+生年月日キーに落ちる
	assert.Equal(t, "nb:たなかたろう|1980-01-02", res.Data[1].IdentityKey)
}

func TestParseReservationCSVEmptyFile(t *testing.T) {
	res := ParseReservationCSV(strings.NewReader(""))
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 0, res.Errors[0].Row)
	assert.Empty(t, res.Data)
}
