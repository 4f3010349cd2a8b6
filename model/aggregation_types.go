package model

// MonthlyBucket は月次集計の1バケットです。Month は "yyyy-MM" 形式で、
// 文字列比較がそのまま時系列順になります。
type MonthlyBucket struct {
	Month       string `json:"month"`
	Total       int    `json:"total"`
	FirstVisits int    `json:"firstVisits"`
	Revisits    int    `json:"revisits"`
	SameDay     int    `json:"sameDay"`
}

// WeekdayBucket は曜日別集計です。Index は time.Weekday 準拠 (0=日曜)。
type WeekdayBucket struct {
	Index   int    `json:"index"`
	Weekday string `json:"weekday"`
	Total   int    `json:"total"`
}

// HourlyBucket は時間帯別集計です (JST基準の0〜23時)。
type HourlyBucket struct {
	Hour  int `json:"hour"`
	Total int `json:"total"`
}

// LeadTimeBucket はリードタイム区分ごとの件数です。
type LeadTimeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LeadTimeSummary は予約登録から受診までの間隔の集計です。
type LeadTimeSummary struct {
	Buckets      []LeadTimeBucket `json:"buckets"`
	Total        int              `json:"total"`
	AverageHours float64          `json:"averageHours"`
	SameDayRate  float64          `json:"sameDayRate"`
}

// VisitEvent は患者単位の受診イベントです。OccurredAt はISO形式の文字列で、
// 辞書順比較が時系列順と一致します。
type VisitEvent struct {
	IdentityKey  string `json:"identityKey"`
	OccurredAt   string `json:"occurredAt"`
	DeclaredType string `json:"declaredType"`
}

// VisitClassification は初診・再診分類の集計結果です。
type VisitClassification struct {
	PureFirst      int `json:"pureFirst"`
	ReturningFirst int `json:"returningFirst"`
	Revisit        int `json:"revisit"`
	Unknown        int `json:"unknown"`
}

// DiagnosisMonthly は診療科グループ別の月次件数です。Counts は固定の
// グループ名を全て含み、件数ゼロのグループも省略されません。
type DiagnosisMonthly struct {
	Month  string         `json:"month"`
	Counts map[string]int `json:"counts"`
}
