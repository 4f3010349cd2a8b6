package main

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/Yusuke0018/marumie-sub004/automation"
	"github.com/Yusuke0018/marumie-sub004/export"
	"github.com/Yusuke0018/marumie-sub004/sharing"
	"github.com/Yusuke0018/marumie-sub004/summary"
	"github.com/Yusuke0018/marumie-sub004/upload"

	"github.com/Yusuke0018/marumie-sub004/config"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB) {
	mux.HandleFunc("/api/csv/upload", upload.UploadCSVHandler(dbConn))
	mux.HandleFunc("/api/csv/status", upload.StatusHandler(dbConn))

	mux.HandleFunc("/api/summary/monthly", summary.MonthlyHandler(dbConn))
	mux.HandleFunc("/api/summary/weekday", summary.WeekdayHandler(dbConn))
	mux.HandleFunc("/api/summary/hourly", summary.HourlyHandler(dbConn))
	mux.HandleFunc("/api/summary/leadtime", summary.LeadTimeHandler(dbConn))
	mux.HandleFunc("/api/summary/visits", summary.VisitsHandler(dbConn))
	mux.HandleFunc("/api/summary/diagnosis", summary.DiagnosisHandler(dbConn))
	mux.HandleFunc("/api/listings", summary.ListingsHandler(dbConn))
	mux.HandleFunc("/api/surveys", summary.SurveysHandler(dbConn))

	mux.HandleFunc("/api/export/monthly", export.MonthlyReportHandler(dbConn))

	// ダッシュボード共有API (CORS許可、認証なし)
	mux.HandleFunc("/api/upload", sharing.UploadHandler(dbConn, config.GetConfig().ShareBaseURL))
	mux.HandleFunc("/api/data/", sharing.DataHandler(dbConn))

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			GetConfigHandler()(w, r)
		case http.MethodPost:
			SaveConfigHandler()(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/automation/listing/download", automation.DownloadListingHandler())
}
