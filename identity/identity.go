// Package identity は複数データソースをまたいで患者を同一視するための
// キー生成と初回受診インデックスを提供します。
package identity

import (
	"strconv"
	"strings"

	"github.com/Yusuke0018/marumie-sub004/locale"
)

// Input はキー生成に使える候補情報です。全て任意で、空文字は「なし」を
// 表します。
type Input struct {
	PatientID     string // ソース側で採番された患者ID
	PatientNumber string // 診察券番号など数値系の番号
	Name          string // 患者名 (未正規化でよい)
	BirthDateISO  string // "yyyy-mm-dd" 以上の長さのISO日付
}

// CreateKey は優先度付きのカスケードで安定キーを生成します。
// 強い識別子から順に 患者ID → 患者番号 → 氏名+生年月日 → 氏名のみ と
// 試行し、一度強いキーが確定したら弱いキーへは降格しません。どの候補も
// 使えない場合は空文字を返します。
func CreateKey(in Input) string {
	if id := strings.TrimSpace(in.PatientID); id != "" {
		return "pid:" + id
	}

	if digits := digitsOnly(in.PatientNumber); digits != "" {
		// 整数に往復させて先頭ゼロや書式差を消す
		if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
			return "pn:" + strconv.FormatInt(n, 10)
		}
	}

	name := locale.NormalizeNameForMatching(in.Name)
	birth := strings.TrimSpace(in.BirthDateISO)
	if name != "" && len(birth) >= 10 {
		return "nb:" + name + "|" + birth
	}
	if name != "" {
		return "n:" + name
	}
	return ""
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Event は初回受診インデックスの入力となるイベントです。
type Event struct {
	IdentityKey string
	OccurredAt  string // ISO形式。辞書順比較が時系列順と一致する
}

// BuildFirstSeenIndex は identityKey ごとに最も早いISOタイムスタンプを
// 保持するインデックスを構築します。キーが空、または OccurredAt が
// "yyyy-mm-dd" に満たないイベントは読み飛ばします。
func BuildFirstSeenIndex(events []Event) map[string]string {
	idx := make(map[string]string, len(events))
	for _, e := range events {
		if e.IdentityKey == "" || len(e.OccurredAt) < 10 {
			continue
		}
		if cur, ok := idx[e.IdentityKey]; !ok || e.OccurredAt < cur {
			idx[e.IdentityKey] = e.OccurredAt
		}
	}
	return idx
}
