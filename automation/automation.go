package automation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
)

// DownloadListingCSV は広告コンソールにログインし、リスティングレポート
// CSVをダウンロードして保存先フォルダに置きます。保存先を取込フォルダに
// しておけば watcher がそのまま取り込みます。
// レポートデータが無い場合は "NO_DATA" を返します。
func DownloadListingCSV(loginURL, userID, password, saveDir string) (string, error) {
	if _, err := os.Stat(saveDir); os.IsNotExist(err) {
		if err := os.MkdirAll(saveDir, 0755); err != nil {
			return "", fmt.Errorf("保存先フォルダの作成に失敗: %v", err)
		}
	}

	// Leakless(false) でセキュリティソフト対策
	u := launcher.New().
		Headless(false).
		Leakless(false).
		MustLaunch()

	browser := rod.New().ControlURL(u).MustConnect()
	defer browser.MustClose()

	fmt.Println("広告コンソールにアクセス中...")
	page := browser.MustPage(loginURL)
	page.MustWaitStable()

	fmt.Println("ログイン情報を入力中...")
	if err := rod.Try(func() {
		page.MustElement("[name='email'], [name='userid']").MustInput(userID)
	}); err != nil {
		return "", fmt.Errorf("ユーザーID入力欄が見つかりません: %v", err)
	}
	if err := rod.Try(func() {
		page.MustElement("[name='password'], [name='userpsw']").MustInput(password)
	}); err != nil {
		return "", fmt.Errorf("パスワード入力欄が見つかりません: %v", err)
	}

	fmt.Println("ログインボタンをクリック...")
	loginBtn, err := page.ElementR("input, button, a", "ログイン")
	if err == nil {
		loginBtn.MustClick()
	} else {
		page.KeyActions().Press(input.Enter).MustDo()
	}
	page.MustWaitStable()

	fmt.Println("メニュー[レポート]を検索中...")
	if err := rod.Try(func() {
		page.MustElementR("a, span, div", "レポート").MustClick()
	}); err != nil {
		return "", fmt.Errorf("メニュー[レポート]が見つかりません（ログイン失敗の可能性あり）: %v", err)
	}
	page.MustWaitStable()

	wait := browser.MustWaitDownload()

	// ダイアログが出たら自動的にOKを押して閉じる
	go page.MustHandleDialog()

	fmt.Println("CSVダウンロードボタンをクリック...")
	clicked := false
	selectors := []string{
		"a[href*='csv']",
		"input[type='button']",
		"button",
	}
	for _, sel := range selectors {
		if el, err := page.ElementR(sel, "CSV"); err == nil {
			el.MustClick()
			clicked = true
			break
		}
	}
	if !clicked {
		return "", fmt.Errorf("CSVダウンロードボタンが見つかりませんでした")
	}

	fmt.Println("ダウンロード待機中...")
	var fileData []byte
	resultChan := make(chan string)

	// A. ダウンロード監視
	go func() {
		defer func() {
			_ = recover()
		}()
		data := wait()
		fileData = data
		resultChan <- "downloaded"
	}()

	// B. 画面メッセージ監視 (最大30秒)
	go func() {
		for i := 0; i < 60; i++ {
			time.Sleep(500 * time.Millisecond)
			if body, err := page.Element("body"); err == nil {
				text, _ := body.Text()
				if strings.Contains(text, "データがありません") {
					resultChan <- "no_data"
					return
				}
			}
		}
	}()

	select {
	case res := <-resultChan:
		if res == "no_data" {
			return "NO_DATA", nil
		}
	case <-time.After(60 * time.Second):
		return "", fmt.Errorf("処理がタイムアウトしました（ダウンロードもメッセージも確認できず）")
	}

	if len(fileData) == 0 {
		return "", fmt.Errorf("ダウンロードデータが空です")
	}

	fileName := fmt.Sprintf("listing_internal_%s.csv", time.Now().Format("20060102150405"))
	destPath := filepath.Join(saveDir, fileName)
	if err := os.WriteFile(destPath, fileData, 0644); err != nil {
		return "", fmt.Errorf("ファイルの書き込みに失敗: %v", err)
	}

	fmt.Printf("ダウンロード完了: %s\n", destPath)
	return destPath, nil
}
