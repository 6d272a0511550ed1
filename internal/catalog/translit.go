package catalog

import "strings"

// translitMap maps Bulgarian Cyrillic letters to their Latin renditions.
// Compound sounds become digraphs. Anything not in the map passes through.
var translitMap = map[rune]string{
	'Щ': "Sht", 'Ш': "Sh", 'Ч': "Ch", 'Ж': "Zh", 'Ц': "Ts", 'Ю': "Yu", 'Я': "Qa",
	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D", 'Е': "E", 'З': "Z", 'И': "I",
	'Й': "Y", 'К': "K", 'Л': "L", 'М': "M", 'Н': "N", 'О': "O", 'П': "P", 'Р': "R",
	'С': "S", 'Т': "T", 'У': "U", 'Ф': "F", 'Х': "H", 'Ъ': "A", 'Ь': "Y",
	'щ': "sht", 'ш': "sh", 'ч': "ch", 'ж': "zh", 'ц': "ts", 'ю': "yu", 'я': "q",
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o", 'п': "p", 'р': "r",
	'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "h", 'ъ': "a", 'ь': "y",
}

// Transliterate renders Cyrillic text into Latin letters, character by
// character. The derivation is total: unmapped characters pass through
// unchanged and blank input yields an empty string, so it never fails.
func Transliterate(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if latin, ok := translitMap[r]; ok {
			b.WriteString(latin)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
