package romaji

// defaultTOML is the built-in romaji-to-kana mapping table, parsed once into
// the global trie. It covers the gojuon grid, voiced/semi-voiced rows, yōon
// digraphs, the long-vowel mark, and the ASCII punctuation and z-sequence
// shorthands IME users expect.
const defaultTOML = `
[mappings]
a = "あ"
i = "い"
u = "う"
e = "え"
o = "お"

ka = "か"
ki = "き"
ku = "く"
ke = "け"
ko = "こ"
ga = "が"
gi = "ぎ"
gu = "ぐ"
ge = "げ"
go = "ご"

sa = "さ"
si = "し"
shi = "し"
su = "す"
se = "せ"
so = "そ"
za = "ざ"
zi = "じ"
ji = "じ"
zu = "ず"
ze = "ぜ"
zo = "ぞ"

ta = "た"
ti = "ち"
chi = "ち"
tu = "つ"
tsu = "つ"
te = "て"
to = "と"
da = "だ"
di = "ぢ"
du = "づ"
de = "で"
do = "ど"

na = "な"
ni = "に"
nu = "ぬ"
ne = "ね"
no = "の"

ha = "は"
hi = "ひ"
hu = "ふ"
fu = "ふ"
he = "へ"
ho = "ほ"
ba = "ば"
bi = "び"
bu = "ぶ"
be = "べ"
bo = "ぼ"
pa = "ぱ"
pi = "ぴ"
pu = "ぷ"
pe = "ぺ"
po = "ぽ"

ma = "ま"
mi = "み"
mu = "む"
me = "め"
mo = "も"

ya = "や"
yu = "ゆ"
yo = "よ"

ra = "ら"
ri = "り"
ru = "る"
re = "れ"
ro = "ろ"

wa = "わ"
wo = "を"
nn = "ん"

qa = "くぁ"
qi = "くぃ"
qu = "く"
qe = "くぇ"
qo = "くぉ"

kya = "きゃ"
kyu = "きゅ"
kyo = "きょ"
gya = "ぎゃ"
gyu = "ぎゅ"
gyo = "ぎょ"
sya = "しゃ"
sha = "しゃ"
syu = "しゅ"
shu = "しゅ"
syo = "しょ"
sho = "しょ"
zya = "じゃ"
ja = "じゃ"
zyu = "じゅ"
ju = "じゅ"
zyo = "じょ"
jo = "じょ"
tya = "ちゃ"
cha = "ちゃ"
tyu = "ちゅ"
chu = "ちゅ"
tyo = "ちょ"
cho = "ちょ"
nya = "にゃ"
nyu = "にゅ"
nyo = "にょ"
hya = "ひゃ"
hyu = "ひゅ"
hyo = "ひょ"
bya = "びゃ"
byu = "びゅ"
byo = "びょ"
pya = "ぴゃ"
pyu = "ぴゅ"
pyo = "ぴょ"
mya = "みゃ"
myu = "みゅ"
myo = "みょ"
rya = "りゃ"
ryu = "りゅ"
ryo = "りょ"

xa = "ぁ"
xi = "ぃ"
xu = "ぅ"
xe = "ぇ"
xo = "ぉ"
xtu = "っ"
xtsu = "っ"
xya = "ゃ"
xyu = "ゅ"
xyo = "ょ"

"-" = "ー"
"." = "。"
"," = "、"
"?" = "？"
"!" = "！"
"[" = "「"
"]" = "」"
"/" = "・"
"~" = "〜"

zh = "←"
zj = "↓"
zk = "↑"
zl = "→"
"z." = "…"
"z," = "‥"
"z-" = "〜"
"z/" = "・"
"z[" = "『"
"z]" = "』"
`
