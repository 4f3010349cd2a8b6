package model

// ParseError は行単位の解析エラーです。Row は1始まり、0はヘッダーレベルを表します。
type ParseError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ParseWarning は行を保持したまま記録する軽微な問題です。
type ParseWarning struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ParseResult は1ファイル分の解析結果です。不正な行があっても
// バッチ全体は中断せず、エラー・警告として収集されます。
type ParseResult[T any] struct {
	Data     []T            `json:"data"`
	Errors   []ParseError   `json:"errors"`
	Warnings []ParseWarning `json:"warnings"`
}
