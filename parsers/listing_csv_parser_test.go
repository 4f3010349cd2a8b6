package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListingCSVNilVersusZero(t *testing.T) {
	csv := strings.Join([]string{
		"日付,費用,CV,CVR,CPA,0時CV,1時CV",
		"2025-10-05,\"12,300\",5,16%,,0,",
	}, "\n")
	res := ParseListingCSV(strings.NewReader(csv), ListingInternal)

	require.Len(t, res.Data, 1)
	assert.Empty(t, res.Errors)
	rec := res.Data[0]

	require.NotNil(t, rec.Amount)
	assert.Equal(t, 12300.0, *rec.Amount)
	require.NotNil(t, rec.CV)
	assert.Equal(t, 5.0, *rec.CV)
	require.NotNil(t, rec.CVR)
	assert.InDelta(t, 0.16, *rec.CVR, 1e-9)
	// CPA空欄は欠損。0ではない
	assert.Nil(t, rec.CPA)

	require.Len(t, rec.HourlyCV, 24)
	require.NotNil(t, rec.HourlyCV[0])
	assert.Equal(t, 0.0, *rec.HourlyCV[0]) // 0時は実測0件
	assert.Nil(t, rec.HourlyCV[1])         // 1時は空欄なので欠損
	assert.Nil(t, rec.HourlyCV[2])         // 列自体が無い時間帯も欠損
}

func TestParseListingCSVCategoryAndBadDate(t *testing.T) {
	csv := strings.Join([]string{
		"日付,費用",
		"2025-10-05,100",
		"平日,200",
	}, "\n")
	res := ParseListingCSV(strings.NewReader(csv), ListingGastroscopy)

	require.Len(t, res.Data, 1)
	assert.Equal(t, string(ListingGastroscopy), res.Data[0].Category)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)
}

func TestParseListingCSVMissingDateColumn(t *testing.T) {
	res := ParseListingCSV(strings.NewReader("費用,CV\n100,5\n"), ListingInternal)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 0, res.Errors[0].Row)
	assert.Empty(t, res.Data)
}
