package source

import (
	"testing"
)

func TestSanitizeStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dante", "Dante"},
		{"Edwin Arles", "Edwin_Arles"},
		{"  José   Emiliano \n", "José_Emiliano"},
		{`a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"Data Science / IA", "Data_Science_IA"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeStem(tt.in); got != tt.want {
				t.Errorf("SanitizeStem(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStemAllocator(t *testing.T) {
	a := NewStemAllocator()

	tests := []struct {
		name    string
		want    string
		renamed bool
	}{
		{"Luis Aldair", "Luis_Aldair", false},
		{"Luis  Aldair", "Luis_Aldair_2", true},
		{"Luis Aldair", "Luis_Aldair_3", true},
		// A literal name that matches an earlier suffix is pushed further.
		{"Luis Aldair 2", "Luis_Aldair_2_2", true},
	}

	for _, tt := range tests {
		stem, renamed := a.Allocate(tt.name)
		if stem != tt.want {
			t.Errorf("Allocate(%q) stem = %q, want %q", tt.name, stem, tt.want)
		}
		if renamed != tt.renamed {
			t.Errorf("Allocate(%q) renamed = %v, want %v", tt.name, renamed, tt.renamed)
		}
	}
}

func TestStemAllocator_Unusable(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{
			name:  "only disallowed characters",
			names: []string{"**", "<>"},
			want:  []string{"candidato", "candidato_2"},
		},
		{
			name:  "dots",
			names: []string{"..", "candidato"},
			want:  []string{"candidato", "candidato_2"},
		},
		{
			name:  "index pages",
			names: []string{"index", "Index", "index general", "index_2"},
			want:  []string{"index_2", "Index_2", "index_general_2", "index_2_2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewStemAllocator()
			for i, name := range tt.names {
				stem, renamed := a.Allocate(name)
				if stem != tt.want[i] {
					t.Errorf("Allocate(%q) stem = %q, want %q", name, stem, tt.want[i])
				}
				if !renamed {
					t.Errorf("Allocate(%q) should report the stem as adjusted", name)
				}
			}
		})
	}
}

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trailing newline", "Nombres:\n", "Nombres:"},
		{"inner whitespace", "¿Crees que podrás?\n\n Sí  ", "¿Crees que podrás? Sí"},
		// Decomposed "ó" (o + combining acute) composes to the precomposed rune.
		{"nfc", "Co\u0301digo", "C\u00f3digo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalKey(tt.in); got != tt.want {
				t.Errorf("CanonicalKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
