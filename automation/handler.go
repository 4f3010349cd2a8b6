package automation

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Yusuke0018/marumie-sub004/config"
)

// DownloadListingHandler は広告コンソールからのCSVダウンロードを起動
// します。保存先は取込フォルダで、取り込み自体は watcher が行います。
func DownloadListingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		cfg := config.GetConfig()
		if cfg.ListingLoginURL == "" || cfg.ListingUserID == "" || cfg.ListingPassword == "" {
			http.Error(w, "広告コンソールのログイン情報が設定されていません。", http.StatusBadRequest)
			return
		}

		path, err := DownloadListingCSV(cfg.ListingLoginURL, cfg.ListingUserID, cfg.ListingPassword, cfg.ImportFolderPath)
		if err != nil {
			log.Printf("Listing CSV download failed: %v", err)
			http.Error(w, "ダウンロードに失敗しました: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"path": path})
	}
}
