package aggregation

import (
	"time"

	"github.com/Yusuke0018/marumie-sub004/identity"
	"github.com/Yusuke0018/marumie-sub004/locale"
	"github.com/Yusuke0018/marumie-sub004/model"
)

// CollectVisitEvents は予約・カルテ両ソースから患者単位の受診イベントを
// 作ります。タイムスタンプはISO形式 (JST) で、初回受診インデックスの
// 辞書順比較にそのまま使えます。
func CollectVisitEvents(reservations []model.ReservationRecord, karte []model.KarteRecord) []model.VisitEvent {
	events := make([]model.VisitEvent, 0, len(reservations)+len(karte))
	for _, r := range reservations {
		events = append(events, model.VisitEvent{
			IdentityKey:  r.IdentityKey,
			OccurredAt:   isoTimestamp(r.DateTime),
			DeclaredType: r.VisitType,
		})
	}
	for _, k := range karte {
		events = append(events, model.VisitEvent{
			IdentityKey:  k.IdentityKey,
			OccurredAt:   isoTimestamp(k.VisitedAt),
			DeclaredType: k.VisitType,
		})
	}
	return events
}

// BuildFirstSeenIndex はイベント列から患者ごとの最初の受診時刻を求めます。
func BuildFirstSeenIndex(events []model.VisitEvent) map[string]string {
	in := make([]identity.Event, len(events))
	for i, e := range events {
		in[i] = identity.Event{IdentityKey: e.IdentityKey, OccurredAt: e.OccurredAt}
	}
	return identity.BuildFirstSeenIndex(in)
}

// ClassifyVisits は各イベントを純初診・再初診・再診に分類します。
// 分類の根拠は初回受診インデックスのタイムスタンプであり、「ファイル内で
// 最初の行かどうか」では判定しません。
//   - 純初診:   そのイベントが患者の初出 (first-seen と一致)
//   - 再初診:   ソース上は初診扱いだが、過去に受診記録がある
//   - 再診:     上記以外
//
// 患者を特定できないイベントは Unknown に数え、推測で分類しません。
func ClassifyVisits(events []model.VisitEvent, firstSeen map[string]string) model.VisitClassification {
	var c model.VisitClassification
	for _, e := range events {
		if e.IdentityKey == "" {
			c.Unknown++
			continue
		}
		fs, ok := firstSeen[e.IdentityKey]
		if !ok {
			c.Unknown++
			continue
		}
		switch {
		case e.OccurredAt == fs:
			c.PureFirst++
		case e.DeclaredType == model.VisitTypeFirst:
			c.ReturningFirst++
		default:
			c.Revisit++
		}
	}
	return c
}

func isoTimestamp(t time.Time) string {
	return t.In(locale.JST).Format("2006-01-02T15:04:05+09:00")
}
