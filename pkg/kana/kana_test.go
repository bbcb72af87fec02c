package kana

import "testing"

func TestIsHiraganaReading(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"かんじ", true},
		{"あ", true},
		{"らーめん", true},
		{"カタカナ", false},
		{"abc", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsHiraganaReading(c.in); got != c.want {
			t.Errorf("IsHiraganaReading(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestHiraganaToKatakana(t *testing.T) {
	cases := []struct{ in, want string }{
		{"きょうは", "キョウハ"},
		{"らーめん", "ラーメン"},
		{"", ""},
		{"abc", "abc"},
		{"カタカナ", "カタカナ"},
	}
	for _, c := range cases {
		if got := HiraganaToKatakana(c.in); got != c.want {
			t.Errorf("HiraganaToKatakana(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCharClassification(t *testing.T) {
	if !IsHiragana('あ') || IsHiragana('ア') {
		t.Fatal("hiragana classification wrong")
	}
	if !IsKatakana('ア') || !IsKatakana('ー') || IsKatakana('あ') {
		t.Fatal("katakana classification wrong")
	}
	if !IsKanji('漢') || IsKanji('あ') {
		t.Fatal("kanji classification wrong")
	}
	if !IsLatin('a') || IsLatin('あ') {
		t.Fatal("latin classification wrong")
	}
}
