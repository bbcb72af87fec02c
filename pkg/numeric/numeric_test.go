package numeric

import "testing"

func check(t *testing.T, in string, want uint64, wantOK bool) {
	t.Helper()
	got, ok := ParseJapaneseNumber(in)
	if ok != wantOK || (ok && got != want) {
		t.Errorf("ParseJapaneseNumber(%q) = (%d, %v), want (%d, %v)", in, got, ok, want, wantOK)
	}
}

func TestSimpleDigits(t *testing.T) {
	check(t, "ぜろ", 0, true)
	check(t, "れい", 0, true)
	check(t, "いち", 1, true)
	check(t, "に", 2, true)
	check(t, "さん", 3, true)
	check(t, "し", 4, true)
	check(t, "よん", 4, true)
	check(t, "ご", 5, true)
	check(t, "ろく", 6, true)
	check(t, "しち", 7, true)
	check(t, "なな", 7, true)
	check(t, "はち", 8, true)
	check(t, "きゅう", 9, true)
	check(t, "く", 9, true)
}

func TestTens(t *testing.T) {
	check(t, "じゅう", 10, true)
	check(t, "にじゅう", 20, true)
	check(t, "にじゅうさん", 23, true)
	check(t, "さんじゅう", 30, true)
	check(t, "きゅうじゅうきゅう", 99, true)
}

func TestHundreds(t *testing.T) {
	check(t, "ひゃく", 100, true)
	check(t, "にひゃく", 200, true)
	check(t, "さんびゃく", 300, true)
	check(t, "ろっぴゃく", 600, true)
	check(t, "はっぴゃく", 800, true)
}

func TestThousands(t *testing.T) {
	check(t, "せん", 1000, true)
	check(t, "さんぜん", 3000, true)
	check(t, "はっせん", 8000, true)
}

func TestCompound(t *testing.T) {
	check(t, "さんびゃくよんじゅうご", 345, true)
	check(t, "いっせんにひゃくさんじゅうよん", 0, false)
	check(t, "せんにひゃくさんじゅうよん", 1234, true)
}

func TestLargeUnits(t *testing.T) {
	check(t, "いちまん", 10_000, true)
	check(t, "じゅうまん", 100_000, true)
	check(t, "いちおく", 100_000_000, true)
	check(t, "いっちょう", 0, false)
	check(t, "いちちょう", 1_000_000_000_000, true)
}

func TestComplex(t *testing.T) {
	check(t, "いちまんにせんさんびゃくよんじゅうご", 12345, true)
}

func TestNonNumeric(t *testing.T) {
	check(t, "こんにちは", 0, false)
	check(t, "きょう", 0, false)
	check(t, "あ", 0, false)
	check(t, "", 0, false)
}

func TestHalfwidth(t *testing.T) {
	cases := []struct {
		n    uint64
		want string
	}{
		{0, "0"}, {123, "123"}, {10000, "10000"},
	}
	for _, c := range cases {
		if got := ToHalfwidth(c.n); got != c.want {
			t.Errorf("ToHalfwidth(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestFullwidth(t *testing.T) {
	cases := []struct {
		n    uint64
		want string
	}{
		{0, "０"}, {123, "１２３"}, {10000, "１００００"},
	}
	for _, c := range cases {
		if got := ToFullwidth(c.n); got != c.want {
			t.Errorf("ToFullwidth(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}
