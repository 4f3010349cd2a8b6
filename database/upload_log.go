package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Yusuke0018/marumie-sub004/locale"
	"github.com/Yusuke0018/marumie-sub004/model"
)

type uploadLogRow struct {
	Kind         string `db:"kind"`
	Filename     string `db:"filename"`
	RowCount     int    `db:"row_count"`
	ErrorCount   int    `db:"error_count"`
	WarningCount int    `db:"warning_count"`
	Errors       string `db:"errors"`
	Warnings     string `db:"warnings"`
	UploadedAt   string `db:"uploaded_at"`
}

const insertUploadLogQuery = `
INSERT INTO upload_log (kind, filename, row_count, error_count, warning_count, errors, warnings, uploaded_at)
VALUES (:kind, :filename, :row_count, :error_count, :warning_count, :errors, :warnings, :uploaded_at)`

// RecordUpload は取込結果を履歴に残します。画面のファイル別ステータス
// 表示 (行数・エラー数・警告一覧) はこの履歴から作られます。
func RecordUpload(db *sqlx.DB, status model.UploadStatus) error {
	errs, err := json.Marshal(status.Errors)
	if err != nil {
		return fmt.Errorf("failed to marshal errors: %w", err)
	}
	warns, err := json.Marshal(status.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}
	row := uploadLogRow{
		Kind:         string(status.Kind),
		Filename:     status.Filename,
		RowCount:     status.RowCount,
		ErrorCount:   status.ErrorCount,
		WarningCount: status.WarningCount,
		Errors:       string(errs),
		Warnings:     string(warns),
		UploadedAt:   status.UploadedAt,
	}
	if row.UploadedAt == "" {
		row.UploadedAt = time.Now().In(locale.JST).Format(timeFormat)
	}
	if _, err := db.NamedExec(insertUploadLogQuery, row); err != nil {
		return fmt.Errorf("failed to insert upload log: %w", err)
	}
	return nil
}

// ListUploads は種別ごとの最新の取込結果を返します。
func ListUploads(db *sqlx.DB) ([]model.UploadStatus, error) {
	var rows []uploadLogRow
	err := db.Select(&rows, `
        SELECT kind, filename, row_count, error_count, warning_count, errors, warnings, uploaded_at
        FROM upload_log
        WHERE id IN (SELECT MAX(id) FROM upload_log GROUP BY kind)
        ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	statuses := make([]model.UploadStatus, 0, len(rows))
	for _, row := range rows {
		st := model.UploadStatus{
			Kind:         model.CsvKind(row.Kind),
			Filename:     row.Filename,
			RowCount:     row.RowCount,
			ErrorCount:   row.ErrorCount,
			WarningCount: row.WarningCount,
			UploadedAt:   row.UploadedAt,
		}
		if err := json.Unmarshal([]byte(row.Errors), &st.Errors); err != nil {
			return nil, fmt.Errorf("broken errors in upload_log: %w", err)
		}
		if err := json.Unmarshal([]byte(row.Warnings), &st.Warnings); err != nil {
			return nil, fmt.Errorf("broken warnings in upload_log: %w", err)
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
