// Package numeric parses hiragana number words (いち, にじゅうさん,
// さんびゃくよんじゅうご, etc.) into numeric values and formats them as
// half-width or full-width digits. Supports rendaku (連濁) variants and
// values up to 兆 (10^12).
package numeric

import "strings"

var firstCharSet = map[rune]bool{
	'い': true, 'に': true, 'さ': true, 'し': true, 'よ': true, 'ご': true,
	'ろ': true, 'な': true, 'は': true, 'き': true, 'く': true, 'ぜ': true,
	'れ': true, 'じ': true, 'ひ': true, 'せ': true, 'ま': true, 'お': true,
	'ち': true,
}

type unitEntry struct {
	kana string
	val  uint64
}

var largeUnits = []unitEntry{
	{"ちょう", 1_000_000_000_000},
	{"おく", 100_000_000},
	{"まん", 10_000},
}

// ParseJapaneseNumber parses a hiragana number string into a numeric value.
// Returns ok=false if the input is not a valid Japanese number expression.
func ParseJapaneseNumber(kanaStr string) (uint64, bool) {
	runes := []rune(kanaStr)
	if len(runes) == 0 || !firstCharSet[runes[0]] {
		return 0, false
	}

	rest := kanaStr
	var result uint64
	group := parseGroup(&rest)

	for _, u := range largeUnits {
		pos := strings.Index(rest, u.kana)
		if pos < 0 {
			continue
		}
		if pos != 0 {
			return 0, false
		}
		rest = rest[len(u.kana):]
		if group == 0 {
			group = 1
		}
		result += group * u.val
		group = parseGroup(&rest)
	}

	result += group

	if rest != "" {
		return 0, false
	}
	if result == 0 && kanaStr != "ぜろ" && kanaStr != "れい" {
		return 0, false
	}
	return result, true
}

// parseGroup parses a group value (< 10000) from the front of *rest, advancing it.
func parseGroup(rest *string) uint64 {
	var value uint64
	value += parseUnit(rest, 1000)
	value += parseUnit(rest, 100)
	value += parseUnit(rest, 10)
	if d, length := consumeDigit(*rest); length > 0 {
		*rest = (*rest)[length:]
		value += d
	}
	return value
}

// parseUnit parses [digit] + unit from *rest. Returns the contribution (digit * unitVal).
func parseUnit(rest *string, unitVal uint64) uint64 {
	saved := *rest
	if d, dlen := consumeDigitOrRendakuPrefix(*rest, unitVal); dlen > 0 {
		afterDigit := saved[dlen:]
		if ulen := consumeUnitKana(afterDigit, unitVal); ulen > 0 {
			*rest = afterDigit[ulen:]
			return d * unitVal
		}
	}

	*rest = saved
	if ulen := consumeUnitKana(*rest, unitVal); ulen > 0 {
		*rest = (*rest)[ulen:]
		return unitVal
	}

	return 0
}

// consumeDigitOrRendakuPrefix tries to consume a digit (1-9) or a rendaku
// prefix from the front of s. Returns (digit_value, byte_length); length 0
// means no match.
func consumeDigitOrRendakuPrefix(s string, unitVal uint64) (uint64, int) {
	switch unitVal {
	case 100:
		if strings.HasPrefix(s, "ろっ") {
			return 6, len("ろっ")
		}
		if strings.HasPrefix(s, "はっ") {
			return 8, len("はっ")
		}
	case 1000:
		if strings.HasPrefix(s, "はっ") {
			return 8, len("はっ")
		}
	}
	return consumeDigit(s)
}

var digitTable = []struct {
	kana string
	val  uint64
}{
	{"きゅう", 9}, {"しち", 7}, {"よん", 4}, {"はち", 8}, {"ろく", 6},
	{"なな", 7}, {"いち", 1}, {"さん", 3}, {"ぜろ", 0}, {"れい", 0},
	{"に", 2}, {"し", 4}, {"ご", 5}, {"く", 9},
}

// consumeDigit tries to consume a standard digit (0-9) from the front of s.
func consumeDigit(s string) (uint64, int) {
	for _, d := range digitTable {
		if strings.HasPrefix(s, d.kana) {
			return d.val, len(d.kana)
		}
	}
	return 0, 0
}

// consumeUnitKana tries to consume a unit kana from the front of s. Returns
// byte length if matched, 0 otherwise.
func consumeUnitKana(s string, unitVal uint64) int {
	var variants []string
	switch unitVal {
	case 10:
		variants = []string{"じゅう", "じゅっ", "じっ"}
	case 100:
		variants = []string{"ひゃく", "びゃく", "ぴゃく"}
	case 1000:
		variants = []string{"せん", "ぜん"}
	default:
		return 0
	}
	for _, v := range variants {
		if strings.HasPrefix(s, v) {
			return len(v)
		}
	}
	return 0
}

// ToHalfwidth formats a number as half-width Arabic digits.
func ToHalfwidth(n uint64) string {
	return strconvUint(n)
}

// ToFullwidth formats a number as full-width Arabic digits.
func ToFullwidth(n uint64) string {
	half := strconvUint(n)
	out := make([]rune, 0, len(half))
	for _, c := range half {
		out = append(out, c-'0'+'０')
	}
	return string(out)
}

func strconvUint(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
