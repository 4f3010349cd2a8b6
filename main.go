package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/exec"
	"runtime"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Yusuke0018/marumie-sub004/config"
	"github.com/Yusuke0018/marumie-sub004/database"
	"github.com/Yusuke0018/marumie-sub004/watcher"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("WARN: Failed to load config file: %v. Using defaults.", err)
		cfg = config.GetConfig()
	}

	log.Println("Connecting to database...")
	dbConn, err := sqlx.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer dbConn.Close()
	log.Println("Database connection successful.")

	if err := database.Init(dbConn); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	log.Println("Database initialization complete.")

	mux := http.NewServeMux()

	if _, err := os.Stat(cfg.StaticDir); err == nil {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	} else {
		log.Printf("WARN: static directory %s not found. Serving API only.", cfg.StaticDir)
	}

	SetupRoutes(mux, dbConn)

	if cfg.EnableWatcher {
		w := watcher.New(dbConn, cfg.ImportFolderPath)
		ctx := context.Background()
		if err := w.Backfill(ctx); err != nil {
			log.Printf("WARN: import folder backfill failed: %v", err)
		}
		if err := w.Start(ctx); err != nil {
			log.Printf("WARN: failed to start import folder watcher: %v", err)
		} else {
			log.Printf("Watching import folder: %s", cfg.ImportFolderPath)
		}
	}

	addr := ":" + cfg.Port
	log.Printf("Starting server on http://localhost%s", addr)

	openBrowser("http://localhost" + addr)

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server start error: %v", err)
	}
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = exec.Command("xdg-open", url).Start()
	}
	if err != nil {
		log.Printf("failed to open browser: %v", err)
	}
}
