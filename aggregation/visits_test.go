package aggregation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yusuke0018/marumie-sub004/model"
)

func TestClassifyVisits(t *testing.T) {
	// A: 初出が初診 → 純初診、その後の再診 → 再診
	// B: カルテ上の初出は再診扱いでも first-seen 一致なら純初診。
	//    後日「初診」と申告された予約は再初診。
	events := []model.VisitEvent{
		{IdentityKey: "pn:1", OccurredAt: "2025-10-05T09:00:00+09:00", DeclaredType: model.VisitTypeFirst},
		{IdentityKey: "pn:1", OccurredAt: "2025-10-20T09:00:00+09:00", DeclaredType: model.VisitTypeRepeat},
		{IdentityKey: "pn:2", OccurredAt: "2025-10-03T10:00:00+09:00", DeclaredType: model.VisitTypeRepeat},
		{IdentityKey: "pn:2", OccurredAt: "2025-10-10T10:00:00+09:00", DeclaredType: model.VisitTypeFirst},
		{IdentityKey: "", OccurredAt: "2025-10-05T09:00:00+09:00", DeclaredType: model.VisitTypeFirst},
	}
	firstSeen := BuildFirstSeenIndex(events)
	c := ClassifyVisits(events, firstSeen)

	assert.Equal(t, 2, c.PureFirst)
	assert.Equal(t, 1, c.ReturningFirst)
	assert.Equal(t, 1, c.Revisit)
	assert.Equal(t, 1, c.Unknown)
}

func TestClassifyVisitsMissingIndexEntry(t *testing.T) {
	events := []model.VisitEvent{
		{IdentityKey: "pn:9", OccurredAt: "2025-10-05T09:00:00+09:00", DeclaredType: model.VisitTypeFirst},
	}
	c := ClassifyVisits(events, map[string]string{})
	assert.Equal(t, 1, c.Unknown)
	assert.Equal(t, 0, c.PureFirst)
}

func TestCollectVisitEventsMergesSources(t *testing.T) {
	reservations := []model.ReservationRecord{
		{DateTime: jst(2025, 10, 5, 9, 30), VisitType: model.VisitTypeFirst, IdentityKey: "pn:1"},
	}
	karte := []model.KarteRecord{
		{VisitedAt: jst(2025, 10, 3, 14, 0), VisitType: model.VisitTypeRepeat, IdentityKey: "pn:1"},
	}
	events := CollectVisitEvents(reservations, karte)

	require.Len(t, events, 2)
	assert.Equal(t, "2025-10-05T09:30:00+09:00", events[0].OccurredAt)
	assert.Equal(t, "2025-10-03T14:00:00+09:00", events[1].OccurredAt)

	// カルテの方が早いので first-seen はカルテ側
	idx := BuildFirstSeenIndex(events)
	assert.Equal(t, "2025-10-03T14:00:00+09:00", idx["pn:1"])
}
