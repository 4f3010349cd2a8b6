package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Yusuke0018/marumie-sub004/model"
)

// Row は1行分のセルへのヘッダー名アクセスを提供します。
type Row struct {
	cells []string
	index map[string]int
}

// Get は列名に対応するセルをトリムして返します。列が無い行 (列欠け) は
// 空文字になります。
func (r Row) Get(name string) string {
	idx, ok := r.index[name]
	if !ok || idx >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[idx])
}

// Has は列がヘッダーに存在するかを返します。
func (r Row) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Collector は行解析中のエラー・警告の収集先です。
type Collector struct {
	errors   []model.ParseError
	warnings []model.ParseWarning
}

func (c *Collector) Errorf(row int, field, format string, args ...any) {
	c.errors = append(c.errors, model.ParseError{
		Row:     row,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *Collector) Warnf(row int, field, format string, args ...any) {
	c.warnings = append(c.warnings, model.ParseWarning{
		Row:     row,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// Schema はCSV種別ごとの解析定義です。必須列の検証は共通処理が行い、
// ParseRow は1行をレコードへ変換します。第2返り値 false で行を除外します
// (除外理由をエラーにするかは ParseRow 側の責務)。
type Schema[T any] struct {
	Label    string
	Required []string
	ParseRow func(row Row, line int, c *Collector) (T, bool)
}

// ParseCSV は検証付きのCSV解析を行います。必須列が欠けている場合は
// 行0のエラー1件だけを返し、行解析には進みません。行単位の失敗は
// その行だけを落とし、後続行の解析は続行します。この関数自体が
// エラーを返すことはなく、全ての問題は ParseResult に収集されます。
func ParseCSV[T any](r io.Reader, s Schema[T]) model.ParseResult[T] {
	res := model.ParseResult[T]{
		Data:     []T{},
		Errors:   []model.ParseError{},
		Warnings: []model.ParseWarning{},
	}

	reader := csv.NewReader(DecodeJapanese(SkipBOM(r)))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		res.Errors = append(res.Errors, model.ParseError{Row: 0, Message: s.Label + ": CSVファイルが空です"})
		return res
	}
	if err != nil {
		res.Errors = append(res.Errors, model.ParseError{Row: 0, Message: fmt.Sprintf("%s: ヘッダーの読み取りに失敗: %v", s.Label, err)})
		return res
	}

	colIndex, missing := validateRequiredColumns(header, s.Required)
	if len(missing) > 0 {
		res.Errors = append(res.Errors, model.ParseError{
			Row:     0,
			Message: fmt.Sprintf("%s: 必須列が見つかりません: %s", s.Label, strings.Join(missing, ", ")),
		})
		return res
	}

	col := &Collector{}
	line := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			col.Errorf(line, "", "行の読み取りに失敗: %v", err)
			continue
		}
		v, ok := s.ParseRow(Row{cells: rec, index: colIndex}, line, col)
		if ok {
			res.Data = append(res.Data, v)
		}
	}

	res.Errors = append(res.Errors, col.errors...)
	res.Warnings = append(res.Warnings, col.warnings...)
	return res
}
