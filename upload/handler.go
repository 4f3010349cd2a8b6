package upload

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Yusuke0018/marumie-sub004/database"
	"github.com/Yusuke0018/marumie-sub004/locale"
	"github.com/Yusuke0018/marumie-sub004/model"
	"github.com/Yusuke0018/marumie-sub004/parsers"
)

func respondJSONError(w http.ResponseWriter, message string, statusCode int) {
	log.Println("Error response:", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": message,
		"results": []interface{}{},
	})
}

// ParseAndStore は1ファイル分のCSVを解析し、該当データセットを置換して
// 取込履歴を残します。ヘッダー検証エラー (行0) の場合はデータを一切
// 置換しません。watcher からも同じ入口を使います。
func ParseAndStore(db *sqlx.DB, kind model.CsvKind, r io.Reader, filename string) (model.UploadStatus, error) {
	status := model.UploadStatus{
		Kind:       kind,
		Filename:   filename,
		UploadedAt: time.Now().In(locale.JST).Format("2006-01-02T15:04:05+09:00"),
	}

	switch kind {
	case model.KindReservations:
		res := parsers.ParseReservationCSV(r)
		fill(&status, len(res.Data), res.Errors, res.Warnings)
		if !schemaFailed(res.Errors) {
			if err := database.ReplaceReservations(db, res.Data); err != nil {
				return status, err
			}
		}
	case model.KindListingInternal, model.KindListingGastroscopy, model.KindListingColonoscopy:
		category := listingCategoryFor(kind)
		res := parsers.ParseListingCSV(r, category)
		fill(&status, len(res.Data), res.Errors, res.Warnings)
		if !schemaFailed(res.Errors) {
			if err := database.ReplaceListings(db, string(category), res.Data); err != nil {
				return status, err
			}
		}
	case model.KindSurveyOutpatient, model.KindSurveyEndoscopy:
		category := surveyCategoryFor(kind)
		res := parsers.ParseSurveyCSV(r, category)
		fill(&status, len(res.Data), res.Errors, res.Warnings)
		if !schemaFailed(res.Errors) {
			if err := database.ReplaceSurveys(db, string(category), res.Data); err != nil {
				return status, err
			}
		}
	case model.KindKarte:
		res := parsers.ParseKarteCSV(r)
		fill(&status, len(res.Data), res.Errors, res.Warnings)
		if !schemaFailed(res.Errors) {
			if err := database.ReplaceKarte(db, res.Data); err != nil {
				return status, err
			}
		}
	default:
		return status, fmt.Errorf("未知のCSV種別: %s", kind)
	}

	if err := database.RecordUpload(db, status); err != nil {
		return status, err
	}
	return status, nil
}

func fill(status *model.UploadStatus, rows int, errs []model.ParseError, warns []model.ParseWarning) {
	status.RowCount = rows
	status.ErrorCount = len(errs)
	status.WarningCount = len(warns)
	status.Errors = errs
	status.Warnings = warns
}

// schemaFailed は行0エラー (必須列欠落など) があったかを返します。
// その場合は部分データを返さない契約なので、置換を行いません。
func schemaFailed(errs []model.ParseError) bool {
	for _, e := range errs {
		if e.Row == 0 {
			return true
		}
	}
	return false
}

func listingCategoryFor(kind model.CsvKind) parsers.ListingCategory {
	switch kind {
	case model.KindListingGastroscopy:
		return parsers.ListingGastroscopy
	case model.KindListingColonoscopy:
		return parsers.ListingColonoscopy
	default:
		return parsers.ListingInternal
	}
}

func surveyCategoryFor(kind model.CsvKind) parsers.SurveyCategory {
	if kind == model.KindSurveyEndoscopy {
		return parsers.SurveyEndoscopy
	}
	return parsers.SurveyOutpatient
}

// UploadCSVHandler はCSVの手動アップロードを受け付けます。複数ファイルに
// 対応し、ファイルごとの結果 (行数・エラー・警告) を返します。
func UploadCSVHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		kind := model.CsvKind(r.URL.Query().Get("kind"))
		if kind == "" {
			kind = model.CsvKind(r.FormValue("kind"))
		}
		if !kind.Valid() {
			respondJSONError(w, fmt.Sprintf("不正なCSV種別です: %q", kind), http.StatusBadRequest)
			return
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			respondJSONError(w, "File upload error: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		var allResults []model.UploadStatus
		for _, fileHeader := range r.MultipartForm.File["file"] {
			log.Printf("Processing %s file: %s", kind, fileHeader.Filename)

			file, openErr := fileHeader.Open()
			if openErr != nil {
				log.Printf("Failed to open uploaded file %s: %v", fileHeader.Filename, openErr)
				respondJSONError(w, "Failed to open file: "+openErr.Error(), http.StatusBadRequest)
				return
			}

			status, err := ParseAndStore(db, kind, file, fileHeader.Filename)
			file.Close()
			if err != nil {
				log.Printf("Failed to store %s file %s: %v", kind, fileHeader.Filename, err)
				respondJSONError(w, "取込に失敗しました: "+err.Error(), http.StatusInternalServerError)
				return
			}

			log.Printf("Parsed %d rows from %s (%d errors, %d warnings)",
				status.RowCount, fileHeader.Filename, status.ErrorCount, status.WarningCount)
			allResults = append(allResults, status)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "completed",
			"results": allResults,
		})
	}
}

// StatusHandler は種別ごとの最新取込結果を返します。
func StatusHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses, err := database.ListUploads(db)
		if err != nil {
			http.Error(w, "Failed to list uploads: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(statuses)
	}
}
