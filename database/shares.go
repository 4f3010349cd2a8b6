package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Yusuke0018/marumie-sub004/locale"
	"github.com/Yusuke0018/marumie-sub004/model"
)

type shareRow struct {
	ID         string `db:"id"`
	Type       string `db:"type"`
	Category   string `db:"category"`
	Data       string `db:"data"`
	UploadedAt string `db:"uploaded_at"`
}

// SaveShare は共有スナップショットを保存します。同じIDは上書きします。
func SaveShare(db *sqlx.DB, share model.Share) error {
	row := shareRow{
		ID:         share.ID,
		Type:       share.Type,
		Category:   share.Category,
		Data:       share.Data,
		UploadedAt: share.UploadedAt,
	}
	if row.UploadedAt == "" {
		row.UploadedAt = time.Now().In(locale.JST).Format(timeFormat)
	}
	_, err := db.NamedExec(`
        INSERT OR REPLACE INTO shares (id, type, category, data, uploaded_at)
        VALUES (:id, :type, :category, :data, :uploaded_at)`, row)
	if err != nil {
		return fmt.Errorf("failed to save share: %w", err)
	}
	return nil
}

// GetShare はIDに対応する共有スナップショットを返します。存在しない場合
// は (nil, nil) です。
func GetShare(db *sqlx.DB, id string) (*model.Share, error) {
	var row shareRow
	err := db.Get(&row, `SELECT id, type, category, data, uploaded_at FROM shares WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	return &model.Share{
		ID:         row.ID,
		Type:       row.Type,
		Category:   row.Category,
		Data:       row.Data,
		UploadedAt: row.UploadedAt,
	}, nil
}
