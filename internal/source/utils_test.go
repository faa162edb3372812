package source

import (
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		want        string
		wantChanged bool
	}{
		{name: "no carriage returns", in: "a\nb\n", want: "a\nb\n", wantChanged: false},
		{name: "crlf pairs", in: "a\r\nb\r\n", want: "a\nb\n", wantChanged: true},
		{name: "lone cr is kept", in: "a\rb\n", want: "a\rb\n", wantChanged: false},
		{name: "mixed", in: "a\r\nb\rc\n", want: "a\nb\rc\n", wantChanged: true},
		{name: "empty", in: "", want: "", wantChanged: false},
		{name: "cr at end", in: "a\r", want: "a\r", wantChanged: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := normalizeCRLF([]byte(tt.in))
			if string(got) != tt.want {
				t.Errorf("normalizeCRLF(%q) = %q, want %q", tt.in, string(got), tt.want)
			}
			if changed != tt.wantChanged {
				t.Errorf("normalizeCRLF(%q) changed = %v, want %v", tt.in, changed, tt.wantChanged)
			}
		})
	}
}

func TestRemoveBOM(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		want    string
		wantBOM bool
	}{
		{name: "with BOM", in: []byte{0xEF, 0xBB, 0xBF, 'x'}, want: "x", wantBOM: true},
		{name: "without BOM", in: []byte("x\n"), want: "x\n", wantBOM: false},
		{name: "too short", in: []byte{0xEF, 0xBB}, want: "\xEF\xBB", wantBOM: false},
		{name: "empty", in: []byte{}, want: "", wantBOM: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hadBOM := removeBOM(tt.in)
			if string(got) != tt.want {
				t.Errorf("removeBOM = %q, want %q", string(got), tt.want)
			}
			if hadBOM != tt.wantBOM {
				t.Errorf("removeBOM hadBOM = %v, want %v", hadBOM, tt.wantBOM)
			}
		})
	}
}

func TestToLineCol(t *testing.T) {
	// Index for "ab\ncd\n" -> \n at 2 and 5.
	lineIdx := []uint32{2, 5}

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{1, LineCol{Line: 1, Col: 2}},
		{2, LineCol{Line: 1, Col: 3}}, // the \n itself belongs to line 1
		{3, LineCol{Line: 2, Col: 1}},
		{5, LineCol{Line: 2, Col: 3}},
		{6, LineCol{Line: 3, Col: 1}},
	}

	for _, tt := range tests {
		if got := toLineCol(lineIdx, tt.off); got != tt.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}

	if got := toLineCol(nil, 4); got != (LineCol{Line: 1, Col: 5}) {
		t.Errorf("toLineCol with empty index = %+v, want 1:5", got)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := normalizePath("./a/b/../c.dv6"); got != "a/c.dv6" {
		t.Errorf("normalizePath = %q, want %q", got, "a/c.dv6")
	}
}
