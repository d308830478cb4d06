package textutil

import "testing"

func TestSanitizeToken(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"My Script!", "my_script"},
		{"hello-world_2", "hello-world_2"},
		{"  ", "session"},
		{"///", "session"},
		{"Äöü", "session"},
		{"Clip 01: intro", "clip_01__intro"},
	}
	for _, tc := range cases {
		if got := SanitizeToken(tc.in); got != tc.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("hello  world\nagain"); got != 3 {
		t.Fatalf("WordCount = %d, want 3", got)
	}
	if got := WordCount("   "); got != 0 {
		t.Fatalf("WordCount = %d, want 0", got)
	}
}
