package postprocess

import (
	"testing"

	"github.com/bastiangx/lexcore/pkg/conn"
	"github.com/bastiangx/lexcore/pkg/viterbi"
)

func TestGroupSegmentsMergesFunctionWordIntoPrevious(t *testing.T) {
	roles := []byte{byte(conn.RoleContent), byte(conn.RoleFunction)}
	m := conn.NewOwned(2, 1, 1, roles, make([]int16, 4))

	segments := []viterbi.RichSegment{
		{Reading: "わたし", Surface: "私", LeftID: 0, RightID: 0},
		{Reading: "は", Surface: "は", LeftID: 1, RightID: 1},
	}
	grouped := GroupSegments(segments, m)
	if len(grouped) != 1 {
		t.Fatalf("expected merge into single group, got %+v", grouped)
	}
	if grouped[0].Surface != "私は" {
		t.Fatalf("expected 私は, got %s", grouped[0].Surface)
	}
}

func TestGroupSegmentsPrefixAbsorbsNextContentWord(t *testing.T) {
	roles := []byte{byte(conn.RolePrefix), byte(conn.RoleContent)}
	m := conn.NewOwned(2, 0, 0, roles, make([]int16, 4))

	segments := []viterbi.RichSegment{
		{Reading: "お", Surface: "お", LeftID: 0, RightID: 0},
		{Reading: "かね", Surface: "金", LeftID: 1, RightID: 1},
	}
	grouped := GroupSegments(segments, m)
	if len(grouped) != 1 || grouped[0].Surface != "お金" {
		t.Fatalf("expected prefix absorption into お金, got %+v", grouped)
	}
}

func TestGroupSegmentsLeadingFunctionWordStandalone(t *testing.T) {
	roles := []byte{byte(conn.RoleFunction), byte(conn.RoleContent)}
	m := conn.NewOwned(2, 0, 0, roles, make([]int16, 4))

	segments := []viterbi.RichSegment{
		{Reading: "は", Surface: "は", LeftID: 0, RightID: 0},
		{Reading: "ほん", Surface: "本", LeftID: 1, RightID: 1},
	}
	grouped := GroupSegments(segments, m)
	if len(grouped) != 2 {
		t.Fatalf("expected leading function word standalone, got %+v", grouped)
	}
	if grouped[0].Surface != "は" {
		t.Fatalf("expected standalone は, got %s", grouped[0].Surface)
	}
}

func TestGroupSegmentsSingleSegmentUnchanged(t *testing.T) {
	m := conn.NewOwned(1, 0, 0, nil, make([]int16, 1))
	segments := []viterbi.RichSegment{{Reading: "あ", Surface: "亜"}}
	grouped := GroupSegments(segments, m)
	if len(grouped) != 1 || grouped[0].Surface != "亜" {
		t.Fatalf("expected unchanged single segment, got %+v", grouped)
	}
}
