package rules

import "testing"

func TestNormalizeInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii untouched", "git status", "git status"},
		{"fullwidth letters folded", "ｇｉｔ ｒｅｓｅｔ --hard", "git reset --hard"},
		{"fullwidth space folded", "git　status", "git status"},
		{"zero-width space stripped", "r​m -rf /", "rm -rf /"},
		{"zero-width joiner stripped", "r‍m -rf /", "rm -rf /"},
		{"soft hyphen stripped", "g­it push -f", "git push -f"},
		{"rtl override stripped", "‮rm -rf /", "rm -rf /"},
		{"bom stripped", "\ufeffgit status", "git status"},
		{"cyrillic confusables mapped", "са​t ~/.ssh/id_rsa", "cat ~/.ssh/id_rsa"},
		{"null bytes dropped", "git\x00 status", "git status"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeInput(tt.in); got != tt.want {
				t.Errorf("NormalizeInput(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCmdToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"git", "git"},
		{"GIT", "git"},
		{" rm ", "rm"},
		{"/usr/bin/rm", "rm"},
		{"$(rm", "rm"},
		{"$($(rm", "rm"},
		{"`git", "git"},
		{"(cd", "cd"},
		{"{rm", "rm"},
		{"rm)", "rm"},
		{"rm`", "rm"},
		{"git;", "git"},
		{"$(/usr/bin/GIT", "git"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := normalizeCmdToken(tt.token); got != tt.want {
				t.Errorf("normalizeCmdToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}
