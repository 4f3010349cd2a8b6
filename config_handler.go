package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Yusuke0018/marumie-sub004/config"
)

// GetConfigHandler は現在の設定を返します。
func GetConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := config.GetConfig()
		// パスワードは画面に返さない
		cfg.ListingPassword = ""
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg)
	}
}

// SaveConfigHandler は設定を保存します。
func SaveConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var newCfg config.Config
		if err := json.NewDecoder(r.Body).Decode(&newCfg); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
		// パスワード未指定なら既存値を維持
		if newCfg.ListingPassword == "" {
			newCfg.ListingPassword = config.GetConfig().ListingPassword
		}
		if err := config.SaveConfig(newCfg); err != nil {
			log.Printf("Failed to save config: %v", err)
			http.Error(w, "Failed to save config", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "saved"})
	}
}
