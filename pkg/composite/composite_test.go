package composite

import (
	"testing"

	"github.com/bastiangx/lexcore/pkg/dict"
)

func layerA() dict.Dictionary {
	return dict.BuildTrieDictionary(map[string][]dict.Entry{
		"きょう": {
			{Surface: "今日", Cost: 3000, LeftID: 100, RightID: 100},
			{Surface: "京", Cost: 5000, LeftID: 101, RightID: 101},
		},
		"は": {
			{Surface: "は", Cost: 2000, LeftID: 200, RightID: 200},
		},
	})
}

func layerB() dict.Dictionary {
	return dict.BuildTrieDictionary(map[string][]dict.Entry{
		"きょう": {
			{Surface: "今日", Cost: 2000, LeftID: 100, RightID: 100}, // lower cost override
			{Surface: "教", Cost: 4000, LeftID: 102, RightID: 102},  // new entry
		},
		"きょうと": {
			{Surface: "京都", Cost: 3500, LeftID: 103, RightID: 103},
		},
	})
}

func TestLookupMergesAndDeduplicates(t *testing.T) {
	d := New([]dict.Dictionary{layerA(), layerB()})
	results := d.Lookup("きょう")
	if len(results) != 3 {
		t.Fatalf("expected 3 unique surfaces, got %d: %+v", len(results), results)
	}
	var kyou dict.Entry
	for _, e := range results {
		if e.Surface == "今日" {
			kyou = e
		}
	}
	if kyou.Cost != 2000 {
		t.Fatalf("expected 今日 cost 2000 (layer_b override), got %d", kyou.Cost)
	}
}

func TestLookupEmptyLayers(t *testing.T) {
	d := New(nil)
	if len(d.Lookup("きょう")) != 0 {
		t.Fatal("expected empty result for no layers")
	}
}

func TestLookupSingleLayer(t *testing.T) {
	d := New([]dict.Dictionary{layerA()})
	if len(d.Lookup("きょう")) != 2 {
		t.Fatal("expected 2 entries from single layer")
	}
}

func TestLookupNotFound(t *testing.T) {
	d := New([]dict.Dictionary{layerA(), layerB()})
	if len(d.Lookup("そんざい")) != 0 {
		t.Fatal("expected no entries for unknown reading")
	}
}

func TestPredictMerges(t *testing.T) {
	d := New([]dict.Dictionary{layerA(), layerB()})
	results := d.Predict("きょう", 100)
	var kyou, kyouto *dict.Reading
	for i := range results {
		switch results[i].Reading {
		case "きょう":
			kyou = &results[i]
		case "きょうと":
			kyouto = &results[i]
		}
	}
	if kyou == nil || kyouto == nil {
		t.Fatalf("expected both きょう and きょうと, got %+v", results)
	}
	if len(kyou.Entries) != 3 {
		t.Fatalf("expected 3 merged entries for きょう, got %d", len(kyou.Entries))
	}
}

func TestCommonPrefixSearchMerges(t *testing.T) {
	d := New([]dict.Dictionary{layerA(), layerB()})
	results := d.CommonPrefixSearch("きょうは")
	found := false
	for _, r := range results {
		if r.Reading == "きょう" {
			found = true
			if len(r.Entries) != 3 {
				t.Fatalf("expected 3 merged entries, got %d", len(r.Entries))
			}
		}
	}
	if !found {
		t.Fatal("expected きょう in common-prefix results")
	}
}

func TestPredictMaxResults(t *testing.T) {
	d := New([]dict.Dictionary{layerA(), layerB()})
	if results := d.Predict("きょう", 1); len(results) != 1 {
		t.Fatalf("expected truncation to 1, got %d", len(results))
	}
}

func TestDedupKeepsLowestCost(t *testing.T) {
	entries := []dict.Entry{
		{Surface: "今日", Cost: 5000},
		{Surface: "今日", Cost: 2000},
		{Surface: "今日", Cost: 3000},
	}
	deduped := dedupEntries(entries)
	if len(deduped) != 1 || deduped[0].Cost != 2000 {
		t.Fatalf("expected single entry with cost 2000, got %+v", deduped)
	}
}

func TestUserDictRegisterUnregister(t *testing.T) {
	u := NewUserDict()
	u.Register("ねこ", "猫")
	u.Register("ねこ", "猫") // idempotent
	if entries := u.Lookup("ねこ"); len(entries) != 1 || entries[0].Cost != UserCost {
		t.Fatalf("expected single low-cost entry, got %+v", entries)
	}
	u.Unregister("ねこ", "猫")
	if entries := u.Lookup("ねこ"); len(entries) != 0 {
		t.Fatalf("expected empty after unregister, got %+v", entries)
	}
}

func TestUserDictRoundTrip(t *testing.T) {
	u := NewUserDict()
	u.Register("ねこ", "猫")
	u.Register("いぬ", "犬")
	data, err := u.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}
	u2, err := UserDictFromBytes(data)
	if err != nil {
		t.Fatalf("UserDictFromBytes: %v", err)
	}
	if entries := u2.Lookup("ねこ"); len(entries) != 1 || entries[0].Surface != "猫" {
		t.Fatalf("round-trip lost data: %+v", entries)
	}
}
