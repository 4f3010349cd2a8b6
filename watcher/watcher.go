// Package watcher は取込フォルダを監視し、置かれたCSVを自動で取り込み
// ます。ファイル名の接頭辞からCSV種別を判定します。
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/jmoiron/sqlx"

	"github.com/Yusuke0018/marumie-sub004/model"
	"github.com/Yusuke0018/marumie-sub004/upload"
)

// Watcher は取込フォルダの監視です。
type Watcher struct {
	db  *sqlx.DB
	dir string
}

func New(db *sqlx.DB, dir string) *Watcher {
	return &Watcher{db: db, dir: dir}
}

// ファイル名接頭辞 → CSV種別。判定は小文字化した接頭辞一致です。
var kindPrefixes = []struct {
	prefix string
	kind   model.CsvKind
}{
	{"reservation", model.KindReservations},
	{"予約", model.KindReservations},
	{"listing_internal", model.KindListingInternal},
	{"listing_gastro", model.KindListingGastroscopy},
	{"listing_colono", model.KindListingColonoscopy},
	{"survey_outpatient", model.KindSurveyOutpatient},
	{"survey_endoscopy", model.KindSurveyEndoscopy},
	{"karte", model.KindKarte},
	{"カルテ", model.KindKarte},
}

// KindForFilename はファイル名からCSV種別を推定します。
func KindForFilename(name string) (model.CsvKind, bool) {
	base := strings.ToLower(filepath.Base(name))
	for _, p := range kindPrefixes {
		if strings.HasPrefix(base, p.prefix) {
			return p.kind, true
		}
	}
	return "", false
}

// Start は監視を開始します。ctx のキャンセルで停止します。
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	go func() {
		defer fw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-fw.Events:
				if evt.Op&(fsnotify.Create|fsnotify.Rename) != 0 && isCSV(evt.Name) {
					w.ingest(evt.Name)
				}
			case err := <-fw.Errors:
				log.Printf("watcher error: %v", err)
			}
		}
	}()
	return fw.Add(w.dir)
}

// Backfill は起動時点で既にフォルダにあるCSVを取り込みます。
func (w *Watcher) Backfill(ctx context.Context) error {
	entries, err := filepath.Glob(filepath.Join(w.dir, "*"))
	if err != nil {
		return err
	}
	for _, e := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if isCSV(e) {
			w.ingest(e)
		}
	}
	return nil
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

func (w *Watcher) ingest(path string) {
	kind, ok := KindForFilename(path)
	if !ok {
		log.Printf("WARN: CSV種別を判定できないためスキップ: %s", filepath.Base(path))
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("WARN: 取込ファイルを開けません %s: %v", path, err)
		return
	}
	defer f.Close()

	status, err := upload.ParseAndStore(w.db, kind, f, filepath.Base(path))
	if err != nil {
		log.Printf("Failed to import %s (%s): %v", path, kind, err)
		return
	}
	log.Printf("Auto-imported %s: %d rows (%d errors, %d warnings)",
		filepath.Base(path), status.RowCount, status.ErrorCount, status.WarningCount)
}
