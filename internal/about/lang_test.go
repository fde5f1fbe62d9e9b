package about

import "testing"

func TestToggler_Sequence(t *testing.T) {
	var tg Toggler

	if got := tg.Current(); got != EN {
		t.Fatalf("初期言語 = %q, want %q", got, EN)
	}
	if got := tg.Current().ButtonLabel(); got != "Cambiar a Español" {
		t.Errorf("英語表示中のボタン = %q", got)
	}

	if got := tg.Switch(); got != ES {
		t.Errorf("1回目の切り替え = %q, want %q", got, ES)
	}
	if got := tg.Current().ButtonLabel(); got != "Switch to English" {
		t.Errorf("スペイン語表示中のボタン = %q", got)
	}

	if got := tg.Switch(); got != EN {
		t.Errorf("2回目の切り替え = %q, want %q", got, EN)
	}
}

func TestLang_SectionID(t *testing.T) {
	if got := EN.SectionID(); got != "about-en" {
		t.Errorf("EN.SectionID() = %q", got)
	}
	if got := ES.SectionID(); got != "about-es" {
		t.Errorf("ES.SectionID() = %q", got)
	}
}

func TestParseLang(t *testing.T) {
	tests := []struct {
		in      string
		want    Lang
		wantErr bool
	}{
		{"", EN, false},
		{"en", EN, false},
		{"ES", ES, false},
		{" es ", ES, false},
		{"fr", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLang(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLang(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLang(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
