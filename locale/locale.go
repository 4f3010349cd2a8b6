package locale

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// JST は全ての日付バケットの基準タイムゾーンです。
var JST = time.FixedZone("JST", 9*60*60)

var analysisStart = time.Date(2025, 10, 2, 0, 0, 0, 0, JST)

// AnalysisStart は分析対象期間の開始日時を返します。
func AnalysisStart() time.Time {
	return analysisStart
}

// SetAnalysisStart は分析開始日時を差し替えます。起動時の設定読込からのみ
// 呼び出される想定です。
func SetAnalysisStart(t time.Time) {
	analysisStart = t.In(JST)
}

// IsOnOrAfterStart は分析開始日時以降 (境界を含む) かどうかを返します。
func IsOnOrAfterStart(t time.Time) bool {
	return !t.Before(analysisStart)
}

// ParseNumber は数値文字列を解釈します。空文字や解釈できない値は nil を
// 返し、0 とは区別されます。桁区切りのカンマは除去します。
func ParseNumber(value string) *float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParsePercent はパーセント表記を小数に変換します ("16%" → 0.16)。
// 数値のみの場合もパーセント値として扱います ("16" → 0.16)。
func ParsePercent(value string) *float64 {
	s := strings.TrimSpace(value)
	s = strings.TrimSuffix(s, "%")
	f := ParseNumber(s)
	if f == nil {
		return nil
	}
	v := *f / 100
	return &v
}

// 日時→日付の優先順で試行する。"2025-10-05 9:30" のような
// 1桁の時・分も time.Parse がそのまま受け付ける。
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006-01-02",
	"2006/1/2",
}

// ParseJSTDate は4種類の日付表記 (ISO日時・スラッシュ日時・ISO日付・
// スラッシュ日付) を優先順に解釈し、Asia/Tokyo 基準の時刻を返します。
// どの形式にも一致しない場合は nil を返します。呼び出し側は nil を
// 「日付集計の対象外」として扱い、エラーにはしません。
func ParseJSTDate(value string) *time.Time {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, JST); err == nil {
			return &t
		}
	}
	return nil
}

// ToDateKey は日付バケット用キー "yyyy-MM-dd" を返します。
func ToDateKey(t time.Time) string {
	return t.In(JST).Format("2006-01-02")
}

// ToMonthKey は月次バケット用キー "yyyy-MM" を返します。
func ToMonthKey(t time.Time) string {
	return t.In(JST).Format("2006-01")
}

// 全角括弧は NFKC で半角に正規化されるため、半角括弧のみ対象にする。
var parentheticalRe = regexp.MustCompile(`\([^)]*\)`)

// NormalizeNameForMatching は患者名の表記揺れを吸収するための正規化です。
// NFKC正規化 → 括弧内のふりがな除去 → カタカナをひらがなに畳み込み →
// 空白の全除去、の順で行います。結果が空になった場合は空文字を返します。
func NormalizeNameForMatching(name string) string {
	s := norm.NFKC.String(name)
	s = parentheticalRe.ReplaceAllString(s, "")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		// カタカナ (ァ U+30A1 〜 ヶ U+30F6) をひらがなへ
		if r >= 0x30A1 && r <= 0x30F6 {
			r -= 0x60
		}
		b.WriteRune(r)
	}
	return b.String()
}
