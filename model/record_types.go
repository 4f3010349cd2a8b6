package model

import "time"

// CsvKind は取込CSVの種別です。
type CsvKind string

const (
	KindReservations       CsvKind = "reservations"
	KindListingInternal    CsvKind = "listingInternal"
	KindListingGastroscopy CsvKind = "listingGastroscopy"
	KindListingColonoscopy CsvKind = "listingColonoscopy"
	KindSurveyOutpatient   CsvKind = "surveyOutpatient"
	KindSurveyEndoscopy    CsvKind = "surveyEndoscopy"
	KindKarte              CsvKind = "karte"
)

// Valid は既知のCSV種別かどうかを返します。
func (k CsvKind) Valid() bool {
	switch k {
	case KindReservations, KindListingInternal, KindListingGastroscopy,
		KindListingColonoscopy, KindSurveyOutpatient, KindSurveyEndoscopy, KindKarte:
		return true
	}
	return false
}

// 初診・再診の区分値。
const (
	VisitTypeFirst  = "初診"
	VisitTypeRepeat = "再診"
)

// DepartmentGroupOther は既知グループに一致しない診療科の受け皿です。
const DepartmentGroupOther = "その他"

// ReservationRecord は予約ログCSVの1行です。
type ReservationRecord struct {
	DateTime        time.Time  `json:"dateTime"`
	BookedAt        *time.Time `json:"bookedAt,omitempty"`
	Department      string     `json:"department"`
	DepartmentGroup string     `json:"departmentGroup"`
	VisitType       string     `json:"type"`
	Count           int        `json:"count"`
	IsSameDay       bool       `json:"isSameDay"`
	IdentityKey     string     `json:"identityKey,omitempty"`
}

// ListingRecord はリスティング広告レポートCSVの1行です。
// nil は「欠損・解釈不能」を表し、0 とは区別されます。
type ListingRecord struct {
	Date     time.Time  `json:"date"`
	Category string     `json:"category"`
	Amount   *float64   `json:"amount"`
	CV       *float64   `json:"cv"`
	CVR      *float64   `json:"cvr"`
	CPA      *float64   `json:"cpa"`
	HourlyCV []*float64 `json:"hourlyCV"` // 常に長さ24
}

// SurveyRecord は患者アンケート集計CSVの1行です。
type SurveyRecord struct {
	Date        time.Time           `json:"date"`
	Category    string              `json:"category"`
	Channels    map[string]*float64 `json:"channels"`
	FeverGoogle *float64            `json:"feverGoogle,omitempty"`
}

// KarteRecord は電子カルテ出力CSVの1行です。
type KarteRecord struct {
	VisitedAt       time.Time `json:"visitedAt"`
	Department      string    `json:"department"`
	DepartmentGroup string    `json:"departmentGroup"`
	VisitType       string    `json:"visitType"`
	IdentityKey     string    `json:"identityKey,omitempty"`
}

// UploadStatus はファイル単位の取込結果です。画面での診断表示に使います。
type UploadStatus struct {
	Kind         CsvKind        `json:"kind"`
	Filename     string         `json:"filename"`
	RowCount     int            `json:"rowCount"`
	ErrorCount   int            `json:"errorCount"`
	WarningCount int            `json:"warningCount"`
	Errors       []ParseError   `json:"errors,omitempty"`
	Warnings     []ParseWarning `json:"warnings,omitempty"`
	UploadedAt   string         `json:"uploadedAt"`
}

// Share は共有APIで保存されるスナップショットです。
type Share struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Category   string `json:"category,omitempty"`
	Data       string `json:"data"`
	UploadedAt string `json:"uploadedAt"`
}
