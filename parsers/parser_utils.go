package parsers

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// SkipBOM はUTF-8 BOMをスキップします。
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	bom := []byte{0xEF, 0xBB, 0xBF}
	peeked, err := br.Peek(3)
	if err != nil {
		return br
	}
	isBOM := true
	for i, b := range bom {
		if peeked[i] != b {
			isBOM = false
			break
		}
	}
	if isBOM {
		br.Read(make([]byte, 3))
	}
	return br
}

// DecodeJapanese は文字コードを判定し、Shift-JISらしい入力をUTF-8へ
// 変換して返します。電子カルテや広告コンソールの出力はShift-JISの
// ことがあるため、先頭部分がUTF-8として不正ならデコーダーを挟みます。
func DecodeJapanese(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	peeked, _ := br.Peek(2048)
	if len(peeked) == 0 || looksLikeUTF8(peeked) {
		return br
	}
	return transform.NewReader(br, japanese.ShiftJIS.NewDecoder())
}

func looksLikeUTF8(b []byte) bool {
	// 末尾でマルチバイト文字が切れている場合があるため、不完全な
	// 末尾バイトは最大3バイトまで判定から外す
	for i := 0; i < 3 && len(b) > 0 && !utf8.Valid(b); i++ {
		b = b[:len(b)-1]
	}
	return utf8.Valid(b)
}

// validateRequiredColumns はヘッダー名から列インデックス表を作り、
// 不足している必須列の一覧を返します。
func validateRequiredColumns(header []string, required []string) (map[string]int, []string) {
	colIndex := make(map[string]int, len(header))
	for i, colName := range header {
		colIndex[strings.TrimSpace(colName)] = i
	}
	var missing []string
	for _, req := range required {
		if _, ok := colIndex[req]; !ok {
			missing = append(missing, req)
		}
	}
	return colIndex, missing
}
