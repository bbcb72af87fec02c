package romaji

import "strings"

// ConvertResult is the outcome of draining a pending romaji buffer against
// already-composed kana.
type ConvertResult struct {
	ComposedKana  string
	PendingRomaji string
}

var kanaVowelToRomaji = map[rune]rune{
	'あ': 'a',
	'い': 'i',
	'う': 'u',
	'え': 'e',
	'お': 'o',
}

func isVowel(ch rune) bool {
	switch ch {
	case 'a', 'i', 'u', 'e', 'o':
		return true
	default:
		return false
	}
}

// collapseLatinKana collapses a run of ASCII lowercase consonants followed
// directly by a kana vowel character into the single kana mora they spell,
// e.g. "kあ" -> "か", "shあ" -> "しゃ". This recovers from a composed kana
// vowel trailing a latin consonant that didn't combine in the main loop
// (most commonly after the user deletes a character mid-composition).
func collapseLatinKana(input string, trie *Trie) string {
	chars := []rune(input)
	var result strings.Builder
	i := 0
	for i < len(chars) {
		ch := chars[i]
		if ch >= 'a' && ch <= 'z' {
			j := i + 1
			for j < len(chars) && chars[j] >= 'a' && chars[j] <= 'z' {
				j++
			}
			if j < len(chars) {
				if vowel, ok := kanaVowelToRomaji[chars[j]]; ok {
					latin := string(chars[i:j])
					candidate := latin + string(vowel)
					lr := trie.Lookup(candidate)
					if lr.hasKana() {
						result.WriteString(lr.Kana)
						i = j + 1
						continue
					}
				}
			}
			result.WriteRune(ch)
			i++
		} else {
			result.WriteRune(ch)
			i++
		}
	}
	return result.String()
}

// Convert drains pendingRomaji against composedKana, appending matched kana
// as it goes. When force is true, ambiguous sequences (an ExactAndPrefix
// match, or a trailing "n") resolve immediately instead of waiting for a
// longer keystroke run.
func Convert(composedKana, pendingRomaji string, force bool) ConvertResult {
	trie := Global()
	composed := composedKana
	pending := pendingRomaji

	changed := true
	for pending != "" && changed {
		changed = false
		lr := trie.Lookup(pending)

		switch lr.Kind {
		case lookupExact:
			composed += lr.Kana
			pending = ""
			changed = true

		case lookupExactAndPrefix:
			if force {
				composed += lr.Kana
				pending = ""
				changed = true
			}

		case lookupPrefix:
			if force {
				composed, pending, changed = handleNoMatch(trie, composed, pending, force)
			}

		case lookupNone:
			composed, pending, changed = handleNoMatch(trie, composed, pending, force)
		}

		if lr.Kind == lookupPrefix && !force {
			break
		}
	}

	if strings.ContainsFunc(composed, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		composed = collapseLatinKana(composed, trie)
	}

	return ConvertResult{ComposedKana: composed, PendingRomaji: pending}
}

// handleNoMatch resolves a pending buffer that failed to match in full:
// try progressively shorter sub-prefixes, then sokuon/hatsuon detection,
// then (if force) drain the first rune as-is.
func handleNoMatch(trie *Trie, composed, pending string, force bool) (newComposed, newPending string, changed bool) {
	pendingBytes := []byte(pending)
	for length := len(pendingBytes) - 1; length >= 1; length-- {
		sub := string(pendingBytes[:length])
		lr := trie.Lookup(sub)
		if lr.hasKana() {
			return composed + lr.Kana, string(pendingBytes[length:]), true
		}
	}

	chars := []rune(pending)
	if len(chars) >= 2 {
		first, second := chars[0], chars[1]
		switch {
		case first == second && first != 'n' && !isVowel(first):
			// Sokuon: doubled consonant.
			return composed + "っ", string(chars[1:]), true
		case first == 'n' && !isVowel(second) && second != 'n' && second != 'y':
			// Hatsuon: n before a non-vowel, non-n, non-y.
			return composed + "ん", string(chars[1:]), true
		case force:
			return composed + string(chars[0]), string(chars[1:]), true
		default:
			return composed, pending, false
		}
	}

	if pending == "n" {
		if force {
			return composed + "ん", "", true
		}
		return composed, pending, false
	}

	// Unrecognized single character: preserve it in composed rather than
	// discarding the keystroke.
	return composed + pending, "", true
}
