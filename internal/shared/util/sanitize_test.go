package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "portfolio-cv-modern-es-2026-03-05.pdf", want: "portfolio-cv-modern-es-2026-03-05.pdf"},
		{in: " a/b\\c.pdf ", want: "a_b_c.pdf"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "cv\"; x=\"y.pdf", want: "cv; x=y.pdf"},
		{in: "cv\r\nSet-Cookie: a.pdf", want: "cvSet-Cookie: a.pdf"},
		{in: "\"\"", wantErr: true},
		{in: "currículum.pdf", want: "currículum.pdf"},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}
