package mars

import (
	"testing"
)

func TestJoinKey(t *testing.T) {
	tests := []struct {
		segments []string
		want     string
	}{
		{[]string{"Pix5"}, "Pix5"},
		{[]string{"Cams1", "Pix5"}, "Cams1_Pix5"},
		{[]string{"Cams1", "pad1", "Pix5"}, "Cams1_pad1_Pix5"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := JoinKey(tt.segments...)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJoinPath(t *testing.T) {
	if got := JoinPath(); got != "/" {
		t.Errorf("got %q, want %q", got, "/")
	}
	if got := JoinPath("Cams1", "pad1", "Gain"); got != "/Cams1/pad1/Gain" {
		t.Errorf("got %q", got)
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{}},
		{"/Cams1", []string{"Cams1"}},
		{"/Cams1/Gain", []string{"Cams1", "Gain"}},
		{"Cams1//pad1/Gain/", []string{"Cams1", "pad1", "Gain"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := SplitPath(tt.path)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("component %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
