// Package sharing はダッシュボードのスナップショットを他端末と共有する
// ための薄いキーバリューAPIです。認証はありません (社内運用前提)。
package sharing

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Yusuke0018/marumie-sub004/database"
	"github.com/Yusuke0018/marumie-sub004/model"
)

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func newShareID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

type uploadRequest struct {
	Type     string          `json:"type"`
	Category string          `json:"category,omitempty"`
	Data     json.RawMessage `json:"data"`
}

// UploadHandler は POST /api/upload を処理します。レスポンスは
// {id, url} です。
func UploadHandler(db *sqlx.DB, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusNoContent)
			return
		case http.MethodPost:
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		var req uploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
		if req.Type == "" || len(req.Data) == 0 {
			http.Error(w, "type and data are required", http.StatusBadRequest)
			return
		}

		id, err := newShareID()
		if err != nil {
			http.Error(w, "Failed to issue share id", http.StatusInternalServerError)
			return
		}
		err = database.SaveShare(db, model.Share{
			ID:       id,
			Type:     req.Type,
			Category: req.Category,
			Data:     string(req.Data),
		})
		if err != nil {
			log.Printf("Failed to save share %s: %v", id, err)
			http.Error(w, "Failed to save share", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"id":  id,
			"url": strings.TrimSuffix(baseURL, "/") + "/api/data/" + id,
		})
	}
}

type dataResponse struct {
	Type       string          `json:"type"`
	Category   string          `json:"category,omitempty"`
	Data       json.RawMessage `json:"data"`
	UploadedAt string          `json:"uploadedAt"`
}

// DataHandler は GET /api/data/{id} を処理します。未知のIDは404です。
func DataHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusNoContent)
			return
		case http.MethodGet:
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/api/data/")
		if id == "" || strings.Contains(id, "/") {
			http.Error(w, "share id is required", http.StatusBadRequest)
			return
		}

		share, err := database.GetShare(db, id)
		if err != nil {
			log.Printf("Failed to get share %s: %v", id, err)
			http.Error(w, "Failed to get share", http.StatusInternalServerError)
			return
		}
		if share == nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dataResponse{
			Type:       share.Type,
			Category:   share.Category,
			Data:       json.RawMessage(share.Data),
			UploadedAt: share.UploadedAt,
		})
	}
}
