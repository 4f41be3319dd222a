package engine

import "testing"

func TestExcluded(t *testing.T) {
	tests := []struct {
		name     string
		folder   string
		patterns []string
		want     bool
	}{
		{"no patterns", "api", nil, false},
		{"exact", "api", []string{"api"}, true},
		{"glob suffix", "api-old", []string{"*-old"}, true},
		{"glob prefix", "tmp-1", []string{"tmp-*"}, true},
		{"character class", "svc2", []string{"svc[0-9]"}, true},
		{"trailing slash", "vendor", []string{"vendor/"}, true},
		{"blank pattern ignored", "api", []string{"  "}, false},
		{"no match", "web", []string{"api", "*-old"}, false},
		{"malformed pattern never matches", "api", []string{"[api"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excluded(tt.folder, tt.patterns); got != tt.want {
				t.Fatalf("Excluded(%q, %v) = %v, want %v", tt.folder, tt.patterns, got, tt.want)
			}
		})
	}
}
