package upload

import (
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yusuke0018/marumie-sub004/database"
	"github.com/Yusuke0018/marumie-sub004/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Init(db))
	return db
}

const reservationCSV = `予約日時,診療科,初再診,当日予約,件数,受付日時,患者番号
2025-10-05 09:30,内科,初診,○,1,2025-10-05 08:00,101
not a date,内科,再診,,1,,102
2025-10-06 10:00,胃カメラ,再診,,2,2025-10-01 12:00,101
`

func TestParseAndStoreReservations(t *testing.T) {
	db := newTestDB(t)

	status, err := ParseAndStore(db, model.KindReservations, strings.NewReader(reservationCSV), "reservations.csv")
	require.NoError(t, err)

	assert.Equal(t, model.KindReservations, status.Kind)
	assert.Equal(t, 2, status.RowCount)
	assert.Equal(t, 1, status.ErrorCount)
	require.Len(t, status.Errors, 1)
	assert.Equal(t, 2, status.Errors[0].Row)

	// 保存→読み戻しで件数と中身が一致する
	recs, err := database.LoadReservations(db)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "総合内科", recs[0].DepartmentGroup)
	assert.True(t, recs[0].IsSameDay)
	assert.Equal(t, "pn:101", recs[0].IdentityKey)
	assert.Equal(t, 2, recs[1].Count)
	require.NotNil(t, recs[1].BookedAt)

	// 取込履歴が残る
	uploads, err := database.ListUploads(db)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, "reservations.csv", uploads[0].Filename)
}

func TestParseAndStoreReplacesWholesale(t *testing.T) {
	db := newTestDB(t)

	_, err := ParseAndStore(db, model.KindReservations, strings.NewReader(reservationCSV), "first.csv")
	require.NoError(t, err)

	second := "予約日時,診療科,初再診\n2025-10-07 09:00,皮膚科,初診\n"
	_, err = ParseAndStore(db, model.KindReservations, strings.NewReader(second), "second.csv")
	require.NoError(t, err)

	recs, err := database.LoadReservations(db)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "皮膚科", recs[0].DepartmentGroup)
}

func TestParseAndStoreSchemaFailureKeepsData(t *testing.T) {
	db := newTestDB(t)

	_, err := ParseAndStore(db, model.KindReservations, strings.NewReader(reservationCSV), "good.csv")
	require.NoError(t, err)

	// 必須列が無いファイルは既存データを壊さない
	bad := "予約日時,初再診\n2025-10-07 09:00,初診\n"
	status, err := ParseAndStore(db, model.KindReservations, strings.NewReader(bad), "bad.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, status.ErrorCount)

	recs, err := database.LoadReservations(db)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestParseAndStoreListingRoundTrip(t *testing.T) {
	db := newTestDB(t)

	csv := "日付,費用,CV,CVR,CPA,9時CV\n2025-10-05,\"12,300\",5,16%,,2\n"
	status, err := ParseAndStore(db, model.KindListingInternal, strings.NewReader(csv), "listing.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, status.RowCount)

	recs, err := database.LoadListings(db, "internal")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	require.NotNil(t, rec.Amount)
	assert.Equal(t, 12300.0, *rec.Amount)
	assert.Nil(t, rec.CPA) // 空欄は読み戻しても欠損のまま
	require.Len(t, rec.HourlyCV, 24)
	require.NotNil(t, rec.HourlyCV[9])
	assert.Equal(t, 2.0, *rec.HourlyCV[9])
	assert.Nil(t, rec.HourlyCV[10])
}

func TestParseAndStoreUnknownKind(t *testing.T) {
	db := newTestDB(t)
	_, err := ParseAndStore(db, model.CsvKind("bogus"), strings.NewReader(""), "x.csv")
	require.Error(t, err)
}
