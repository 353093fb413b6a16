package mosaic

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name string
		want Strategy
	}{
		{"ColorMatch", ColorMatch},
		{"HistogramMatch", HistogramMatch},
		{"PatternMatch", PatternMatch},
		{"RotateMatch", RotateMatch},
		{"colormatch", ColorMatch},
		{"ROTATEMATCH", RotateMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.name)
			if err != nil {
				t.Fatalf("ParseStrategy(%q) failed: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseStrategy(%q): got %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseStrategy_Unknown(t *testing.T) {
	for _, name := range []string{"", "EdgeMatch", "Color"} {
		if _, err := ParseStrategy(name); !errors.Is(err, ErrUnknownStrategy) {
			t.Errorf("ParseStrategy(%q): got %v, want ErrUnknownStrategy", name, err)
		}
	}
}

func TestStrategy_String(t *testing.T) {
	for _, s := range Strategies() {
		parsed, err := ParseStrategy(s.String())
		if err != nil || parsed != s {
			t.Errorf("%v does not parse back: got %v, %v", s, parsed, err)
		}
	}
	if got := Strategy(9).String(); got != "Strategy(9)" {
		t.Errorf("unknown strategy String: got %q", got)
	}
}

func TestStrategy_JSON(t *testing.T) {
	var p Params
	if err := json.Unmarshal([]byte(`{"chunk_size":16,"strategy":"PatternMatch","overlap":30}`), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.Strategy != PatternMatch || p.ChunkSize != 16 || p.Overlap != 30 {
		t.Errorf("unexpected params: %+v", p)
	}

	out, err := json.Marshal(Params{ChunkSize: 8, Strategy: RotateMatch})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"chunk_size":8,"strategy":"RotateMatch","overlap":0,"seed":0}`
	if string(out) != want {
		t.Errorf("Marshal: got %s, want %s", out, want)
	}

	if _, err := json.Marshal(Params{Strategy: Strategy(-1)}); err == nil {
		t.Error("Marshal should fail for an unknown strategy")
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   error
	}{
		{"defaults", Params{ChunkSize: DefaultChunkSize}, nil},
		{"chunk size one", Params{ChunkSize: 1, Strategy: HistogramMatch}, nil},
		{"zero chunk size", Params{ChunkSize: 0}, ErrInvalidChunkSize},
		{"negative chunk size", Params{ChunkSize: -4}, ErrInvalidChunkSize},
		{"unknown strategy", Params{ChunkSize: 8, Strategy: Strategy(4)}, ErrUnknownStrategy},
		{"pattern max overlap", Params{ChunkSize: 8, Strategy: PatternMatch, Overlap: MaxOverlap}, nil},
		{"pattern overlap too large", Params{ChunkSize: 8, Strategy: PatternMatch, Overlap: 71}, ErrInvalidOverlap},
		{"pattern negative overlap", Params{ChunkSize: 8, Strategy: PatternMatch, Overlap: -1}, ErrInvalidOverlap},
		{"overlap ignored for color", Params{ChunkSize: 8, Strategy: ColorMatch, Overlap: 500}, nil},
		{"overlap ignored for rotate", Params{ChunkSize: 8, Strategy: RotateMatch, Overlap: -10}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate: unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate: got %v, want %v", err, tt.want)
			}
		})
	}
}
