package mode

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"free", Free, false},
		{"FOCUS", Focus, false},
		{" game ", Game, false},
		{"spacecraft", Spacecraft, false},
		{"warp", Free, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	if !Focus.UseFocus() || Free.UseFocus() {
		t.Error("only focus mode uses the focus for speed scaling")
	}
	if !Free.UseClosest() || !Game.UseClosest() || Focus.UseClosest() || Spacecraft.UseClosest() {
		t.Error("free and game modes use the closest object")
	}
	if Spacecraft.IsNatural() || !Game.IsNatural() {
		t.Error("unexpected IsNatural result")
	}
	if Game.String() != "game" {
		t.Errorf("unexpected String %q", Game.String())
	}
}
