package textmatch

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips surrounding bold",
			input: "**Despacho n.º 12/2012**",
			want:  "Despacho n.º 12/2012",
		},
		{
			name:  "collapses whitespace runs",
			input: "Despacho   n.º\t12",
			want:  "Despacho n.º 12",
		},
		{
			name:  "joins interletter spacing in caps",
			input: "D IREÇÃO R EGIONAL",
			want:  "DIREÇÃOREGIONAL",
		},
		{
			name:  "rejoins hyphen line wraps",
			input: "regula-\nmento interno",
			want:  "regulamento interno",
		},
		{
			name:  "removes dot leaders",
			input: "Despacho n.º 3 ........... 12",
			want:  "Despacho n.º 3 12",
		},
		{
			name:  "drops trailing colon",
			input: "**Anúncios:**",
			want:  "Anúncios",
		},
		{
			name:  "empty stays empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"**D IREÇÃO R EGIONAL DA S AÚDE**",
		"Despacho n.º 12/2012 ....... 4",
		"regula-\nmento   interno:",
		"MINISTÉRIO DAS FINANÇAS",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		input       string
		tight       string
		lettersOnly string
		orgKey      string
	}{
		{"Despacho 1", "Despacho1", "despacho1", "DESPACHO1"},
		{"D ESPACHO 1", "DESPACHO1", "despacho1", "DESPACHO1"},
		{"DIREÇÃO REGIONAL", "DIREÇÃOREGIONAL", "direcaoregional", "DIRECAOREGIONAL"},
		{"**Aviso n.º 4**", "Avison.º4", "avison4", "AVISON4"},
	}
	for _, tt := range tests {
		if got := Tight(tt.input); got != tt.tight {
			t.Errorf("Tight(%q) = %q, want %q", tt.input, got, tt.tight)
		}
		if got := LettersOnly(tt.input); got != tt.lettersOnly {
			t.Errorf("LettersOnly(%q) = %q, want %q", tt.input, got, tt.lettersOnly)
		}
		if got := OrgKey(tt.input); got != tt.orgKey {
			t.Errorf("OrgKey(%q) = %q, want %q", tt.input, got, tt.orgKey)
		}
	}
}

func TestTokenJaccard(t *testing.T) {
	a := Tokens("Direção Regional da Saúde")
	b := Tokens("**DIREÇÃO REGIONAL**")
	if got := TokenOverlap(a, b); got != 2 {
		t.Fatalf("TokenOverlap = %d, want 2 (direção, regional)", got)
	}

	c := Tokens("Câmara Municipal da Praia")
	d := Tokens("Câmara Municipal da Praia")
	if got := TokenJaccard(c, d); got != 1.0 {
		t.Errorf("TokenJaccard(identical) = %v, want 1.0", got)
	}
	if got := TokenJaccard(map[string]struct{}{}, map[string]struct{}{}); got != 0 {
		t.Errorf("TokenJaccard(empty, empty) = %v, want 0", got)
	}
}
