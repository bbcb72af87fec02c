package postprocess

import (
	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/bastiangx/lexcore/pkg/kana"
)

// ScriptCost scores a surface's script mix: mixed kanji+kana and pure-kanji
// surfaces get a bonus (negative cost), all-katakana surfaces get a
// penalty, and any Latin/ASCII character is a heavy penalty. Otherwise
// (pure hiragana, punctuation) no adjustment applies. The two kanji
// bonuses are scaled by min(readingChars, 3) / 3 so short readings get a
// proportionally smaller effect; the katakana and Latin penalties are not
// scaled.
func ScriptCost(cfg *config.Config, surface string, readingChars int) int64 {
	hasKanji := false
	hasKana := false
	allKatakana := surface != ""
	for _, c := range surface {
		if kana.IsLatin(c) {
			return cfg.Costs.LatinPenalty
		}
		if kana.IsKanji(c) {
			hasKanji = true
		}
		if kana.IsHiragana(c) || kana.IsKatakana(c) {
			hasKana = true
		}
		if !kana.IsKatakana(c) {
			allKatakana = false
		}
	}
	scale := int64(readingChars)
	if scale > 3 {
		scale = 3
	}
	switch {
	case hasKanji && hasKana:
		return -cfg.Costs.MixedScriptBonus * scale / 3
	case hasKanji:
		return -cfg.Costs.PureKanjiBonus * scale / 3
	case allKatakana:
		return cfg.Costs.KatakanaPenalty
	default:
		return 0
	}
}
