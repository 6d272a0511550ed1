package catalog

import "testing"

func TestTransliterate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Щипка", "Shtipka"},
		{"Чаша", "Chasha"},
		{"Жълт", "Zhalt"},
		{"Цена", "Tsena"},
		{"Юг", "Yug"},
		{"Ябълка", "Qabalka"},
		{"бр.", "br."},
		{"Стока 12 (кг)", "Stoka 12 (kg)"},
		{"Widget", "Widget"},            // Latin passes through
		{"Мléко", "Mléko"},              // unmapped accents pass through
		{"съёмка", "saёmka"},            // non-Bulgarian Cyrillic passes through
	}

	for _, tt := range tests {
		if got := Transliterate(tt.in); got != tt.want {
			t.Errorf("Transliterate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Applying the transliteration to already-Latin output must be a no-op.
func TestTransliterate_IdempotentOnLatin(t *testing.T) {
	inputs := []string{"Щипка", "Чаша за кафе", "бр.", "Widget"}

	for _, in := range inputs {
		once := Transliterate(in)
		twice := Transliterate(once)
		if once != twice {
			t.Errorf("Transliterate not idempotent on %q: %q != %q", in, once, twice)
		}
	}
}

func TestTransliterate_Deterministic(t *testing.T) {
	in := "Щастие и Чудо"
	first := Transliterate(in)
	for i := 0; i < 10; i++ {
		if got := Transliterate(in); got != first {
			t.Fatalf("Transliterate(%q) changed between calls: %q != %q", in, got, first)
		}
	}
}
