// Package summary は保存済みデータセットを読み出して集計エンジンに渡し、
// チャート用のJSONを返すハンドラー群です。チャート側はこれらを読み取り
// 専用として扱います。
package summary

import (
	"encoding/json"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/Yusuke0018/marumie-sub004/aggregation"
	"github.com/Yusuke0018/marumie-sub004/config"
	"github.com/Yusuke0018/marumie-sub004/database"
)

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// MonthlyHandler は月次集計を返します。
func MonthlyHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := database.LoadReservations(db)
		if err != nil {
			http.Error(w, "Failed to load reservations: "+err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, aggregation.Monthly(recs))
	}
}

// WeekdayHandler は曜日別集計を返します。
func WeekdayHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := database.LoadReservations(db)
		if err != nil {
			http.Error(w, "Failed to load reservations: "+err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, aggregation.Weekday(recs))
	}
}

// HourlyHandler は時間帯別集計を返します。
func HourlyHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := database.LoadReservations(db)
		if err != nil {
			http.Error(w, "Failed to load reservations: "+err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, aggregation.Hourly(recs))
	}
}

// LeadTimeHandler はリードタイム集計を返します。区切り日数は設定値です。
func LeadTimeHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := database.LoadReservations(db)
		if err != nil {
			http.Error(w, "Failed to load reservations: "+err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, aggregation.LeadTime(recs, config.LeadTimeDays()))
	}
}

// VisitsHandler は初診・再診分類を返します。分類は予約とカルテの両方から
// 作った初回受診インデックスを根拠にします。
func VisitsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reservations, err := database.LoadReservations(db)
		if err != nil {
			http.Error(w, "Failed to load reservations: "+err.Error(), http.StatusInternalServerError)
			return
		}
		karte, err := database.LoadKarte(db)
		if err != nil {
			http.Error(w, "Failed to load karte entries: "+err.Error(), http.StatusInternalServerError)
			return
		}
		events := aggregation.CollectVisitEvents(reservations, karte)
		firstSeen := aggregation.BuildFirstSeenIndex(events)
		respondJSON(w, aggregation.ClassifyVisits(events, firstSeen))
	}
}

// DiagnosisHandler は診療科グループ別の月次件数を返します。
func DiagnosisHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		karte, err := database.LoadKarte(db)
		if err != nil {
			http.Error(w, "Failed to load karte entries: "+err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, aggregation.DiagnosisMonthly(karte, config.DepartmentGroupNames()))
	}
}

// ListingsHandler は保存済みリスティングレコードをそのまま返します。
func ListingsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		if category == "" {
			http.Error(w, "category parameter is required", http.StatusBadRequest)
			return
		}
		recs, err := database.LoadListings(db, category)
		if err != nil {
			http.Error(w, "Failed to load listings: "+err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, recs)
	}
}

// SurveysHandler は保存済みアンケートレコードをそのまま返します。
func SurveysHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		if category == "" {
			http.Error(w, "category parameter is required", http.StatusBadRequest)
			return
		}
		recs, err := database.LoadSurveys(db, category)
		if err != nil {
			http.Error(w, "Failed to load surveys: "+err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, recs)
	}
}
