package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Yusuke0018/marumie-sub004/locale"
	"github.com/Yusuke0018/marumie-sub004/model"
)

// 時刻はJSTのISO文字列で保存する。辞書順ソートが時系列順になる。
const timeFormat = "2006-01-02T15:04:05+09:00"

func formatTime(t time.Time) string {
	return t.In(locale.JST).Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeFormat, s, locale.JST)
}

type reservationRow struct {
	DateTime        string         `db:"date_time"`
	BookedAt        sql.NullString `db:"booked_at"`
	Department      string         `db:"department"`
	DepartmentGroup string         `db:"department_group"`
	VisitType       string         `db:"visit_type"`
	VisitCount      int            `db:"visit_count"`
	IsSameDay       bool           `db:"is_same_day"`
	IdentityKey     string         `db:"identity_key"`
}

const insertReservationQuery = `
INSERT INTO reservations (
    date_time, booked_at, department, department_group,
    visit_type, visit_count, is_same_day, identity_key
) VALUES (
    :date_time, :booked_at, :department, :department_group,
    :visit_type, :visit_count, :is_same_day, :identity_key
)`

// ReplaceReservations は予約データセットを丸ごと入れ替えます。
// 再アップロードは常に「置換」であり、マージはしません (last write wins)。
func ReplaceReservations(db *sqlx.DB, recs []model.ReservationRecord) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reservations`); err != nil {
		return fmt.Errorf("failed to clear reservations: %w", err)
	}
	for _, rec := range recs {
		row := reservationRow{
			DateTime:        formatTime(rec.DateTime),
			Department:      rec.Department,
			DepartmentGroup: rec.DepartmentGroup,
			VisitType:       rec.VisitType,
			VisitCount:      rec.Count,
			IsSameDay:       rec.IsSameDay,
			IdentityKey:     rec.IdentityKey,
		}
		if rec.BookedAt != nil {
			row.BookedAt = sql.NullString{String: formatTime(*rec.BookedAt), Valid: true}
		}
		if _, err := tx.NamedExec(insertReservationQuery, row); err != nil {
			return fmt.Errorf("failed to insert reservation: %w", err)
		}
	}
	return tx.Commit()
}

// LoadReservations は保存済みの予約データセットを時系列順で返します。
func LoadReservations(db *sqlx.DB) ([]model.ReservationRecord, error) {
	var rows []reservationRow
	err := db.Select(&rows, `
        SELECT date_time, booked_at, department, department_group,
               visit_type, visit_count, is_same_day, identity_key
        FROM reservations ORDER BY date_time, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}

	recs := make([]model.ReservationRecord, 0, len(rows))
	for _, row := range rows {
		dt, err := parseTime(row.DateTime)
		if err != nil {
			return nil, fmt.Errorf("broken date_time in reservations: %w", err)
		}
		rec := model.ReservationRecord{
			DateTime:        dt,
			Department:      row.Department,
			DepartmentGroup: row.DepartmentGroup,
			VisitType:       row.VisitType,
			Count:           row.VisitCount,
			IsSameDay:       row.IsSameDay,
			IdentityKey:     row.IdentityKey,
		}
		if row.BookedAt.Valid {
			if b, err := parseTime(row.BookedAt.String); err == nil {
				rec.BookedAt = &b
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

type listingRow struct {
	Category string          `db:"category"`
	Date     string          `db:"date"`
	Amount   sql.NullFloat64 `db:"amount"`
	CV       sql.NullFloat64 `db:"cv"`
	CVR      sql.NullFloat64 `db:"cvr"`
	CPA      sql.NullFloat64 `db:"cpa"`
	HourlyCV string          `db:"hourly_cv"`
}

const insertListingQuery = `
INSERT INTO listings (category, date, amount, cv, cvr, cpa, hourly_cv)
VALUES (:category, :date, :amount, :cv, :cvr, :cpa, :hourly_cv)`

// ReplaceListings は指定カテゴリのリスティングデータを入れ替えます。
func ReplaceListings(db *sqlx.DB, category string, recs []model.ListingRecord) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM listings WHERE category = ?`, category); err != nil {
		return fmt.Errorf("failed to clear listings: %w", err)
	}
	for _, rec := range recs {
		hourly, err := json.Marshal(rec.HourlyCV)
		if err != nil {
			return fmt.Errorf("failed to marshal hourly cv: %w", err)
		}
		row := listingRow{
			Category: category,
			Date:     formatTime(rec.Date),
			Amount:   toNullFloat(rec.Amount),
			CV:       toNullFloat(rec.CV),
			CVR:      toNullFloat(rec.CVR),
			CPA:      toNullFloat(rec.CPA),
			HourlyCV: string(hourly),
		}
		if _, err := tx.NamedExec(insertListingQuery, row); err != nil {
			return fmt.Errorf("failed to insert listing: %w", err)
		}
	}
	return tx.Commit()
}

// LoadListings は指定カテゴリのリスティングデータを日付順で返します。
func LoadListings(db *sqlx.DB, category string) ([]model.ListingRecord, error) {
	var rows []listingRow
	err := db.Select(&rows, `
        SELECT category, date, amount, cv, cvr, cpa, hourly_cv
        FROM listings WHERE category = ? ORDER BY date, id`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	recs := make([]model.ListingRecord, 0, len(rows))
	for _, row := range rows {
		date, err := parseTime(row.Date)
		if err != nil {
			return nil, fmt.Errorf("broken date in listings: %w", err)
		}
		var hourly []*float64
		if err := json.Unmarshal([]byte(row.HourlyCV), &hourly); err != nil {
			return nil, fmt.Errorf("broken hourly_cv in listings: %w", err)
		}
		recs = append(recs, model.ListingRecord{
			Date:     date,
			Category: row.Category,
			Amount:   fromNullFloat(row.Amount),
			CV:       fromNullFloat(row.CV),
			CVR:      fromNullFloat(row.CVR),
			CPA:      fromNullFloat(row.CPA),
			HourlyCV: hourly,
		})
	}
	return recs, nil
}

type surveyRow struct {
	Category    string          `db:"category"`
	Date        string          `db:"date"`
	Channels    string          `db:"channels"`
	FeverGoogle sql.NullFloat64 `db:"fever_google"`
}

const insertSurveyQuery = `
INSERT INTO surveys (category, date, channels, fever_google)
VALUES (:category, :date, :channels, :fever_google)`

// ReplaceSurveys は指定カテゴリのアンケートデータを入れ替えます。
func ReplaceSurveys(db *sqlx.DB, category string, recs []model.SurveyRecord) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM surveys WHERE category = ?`, category); err != nil {
		return fmt.Errorf("failed to clear surveys: %w", err)
	}
	for _, rec := range recs {
		channels, err := json.Marshal(rec.Channels)
		if err != nil {
			return fmt.Errorf("failed to marshal channels: %w", err)
		}
		row := surveyRow{
			Category:    category,
			Date:        formatTime(rec.Date),
			Channels:    string(channels),
			FeverGoogle: toNullFloat(rec.FeverGoogle),
		}
		if _, err := tx.NamedExec(insertSurveyQuery, row); err != nil {
			return fmt.Errorf("failed to insert survey: %w", err)
		}
	}
	return tx.Commit()
}

// LoadSurveys は指定カテゴリのアンケートデータを日付順で返します。
func LoadSurveys(db *sqlx.DB, category string) ([]model.SurveyRecord, error) {
	var rows []surveyRow
	err := db.Select(&rows, `
        SELECT category, date, channels, fever_google
        FROM surveys WHERE category = ? ORDER BY date, id`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to load surveys: %w", err)
	}

	recs := make([]model.SurveyRecord, 0, len(rows))
	for _, row := range rows {
		date, err := parseTime(row.Date)
		if err != nil {
			return nil, fmt.Errorf("broken date in surveys: %w", err)
		}
		channels := map[string]*float64{}
		if err := json.Unmarshal([]byte(row.Channels), &channels); err != nil {
			return nil, fmt.Errorf("broken channels in surveys: %w", err)
		}
		recs = append(recs, model.SurveyRecord{
			Date:        date,
			Category:    row.Category,
			Channels:    channels,
			FeverGoogle: fromNullFloat(row.FeverGoogle),
		})
	}
	return recs, nil
}

type karteRow struct {
	VisitedAt       string `db:"visited_at"`
	Department      string `db:"department"`
	DepartmentGroup string `db:"department_group"`
	VisitType       string `db:"visit_type"`
	IdentityKey     string `db:"identity_key"`
}

const insertKarteQuery = `
INSERT INTO karte_entries (visited_at, department, department_group, visit_type, identity_key)
VALUES (:visited_at, :department, :department_group, :visit_type, :identity_key)`

// ReplaceKarte はカルテデータセットを丸ごと入れ替えます。
func ReplaceKarte(db *sqlx.DB, recs []model.KarteRecord) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM karte_entries`); err != nil {
		return fmt.Errorf("failed to clear karte entries: %w", err)
	}
	for _, rec := range recs {
		row := karteRow{
			VisitedAt:       formatTime(rec.VisitedAt),
			Department:      rec.Department,
			DepartmentGroup: rec.DepartmentGroup,
			VisitType:       rec.VisitType,
			IdentityKey:     rec.IdentityKey,
		}
		if _, err := tx.NamedExec(insertKarteQuery, row); err != nil {
			return fmt.Errorf("failed to insert karte entry: %w", err)
		}
	}
	return tx.Commit()
}

// LoadKarte は保存済みのカルテデータセットを時系列順で返します。
func LoadKarte(db *sqlx.DB) ([]model.KarteRecord, error) {
	var rows []karteRow
	err := db.Select(&rows, `
        SELECT visited_at, department, department_group, visit_type, identity_key
        FROM karte_entries ORDER BY visited_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load karte entries: %w", err)
	}

	recs := make([]model.KarteRecord, 0, len(rows))
	for _, row := range rows {
		visitedAt, err := parseTime(row.VisitedAt)
		if err != nil {
			return nil, fmt.Errorf("broken visited_at in karte_entries: %w", err)
		}
		recs = append(recs, model.KarteRecord{
			VisitedAt:       visitedAt,
			Department:      row.Department,
			DepartmentGroup: row.DepartmentGroup,
			VisitType:       row.VisitType,
			IdentityKey:     row.IdentityKey,
		})
	}
	return recs, nil
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
