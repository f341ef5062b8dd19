package texconvert

import (
	"testing"

	"github.com/okonak/paatools/pkg/paa"
)

const sampleConfig = `
// global comment
class TextureHints {
	class colormap {
		name = "*_co.*";
		format = "DXT5";
		dynRange = 0;
		autoreduce = 1;
	};

	/* inherits everything from colormap,
	   overrides only the pattern and format */
	class colormap_alpha : colormap {
		name = "*_ca.*";
		format = "DXT5";
		errorMetrics = Distance;
	};

	class normalmap_hq {
		name = "*_nohq.*";
		format = "DXT5";
		// negate so the shader can share a path with DXT1
		channelSwizzleA = "1-R";
		channelSwizzleR = "1-A";
		channelSwizzleG = "G";
		channelSwizzleB = "B";
		dynRange = 0;
		mipmapFilter = NormalizeNormalMapAlpha;
	};

	class legacy {
		name = "*_lco.*";
		enableDXT = 0;
	};
};
`

func TestParseHints(t *testing.T) {
	hints, err := ParseHints(sampleConfig)
	if err != nil {
		t.Fatalf("ParseHints failed: %v", err)
	}
	if len(hints) != 4 {
		t.Fatalf("got %d hints: %v", len(hints), hints)
	}

	t.Run("basic class", func(t *testing.T) {
		s, ok := hints["CO"]
		if !ok {
			t.Fatal("no CO hint")
		}
		if s.Format != paa.TypeDXT5 {
			t.Errorf("format = %s", s.Format)
		}
		if !s.Autoreduce || s.DynRange {
			t.Errorf("autoreduce=%v dynRange=%v", s.Autoreduce, s.DynRange)
		}
		if !s.Swizzle.IsIdentity() {
			t.Error("swizzle should default to identity")
		}
	})

	t.Run("inheritance", func(t *testing.T) {
		s, ok := hints["CA"]
		if !ok {
			t.Fatal("no CA hint")
		}
		if !s.Autoreduce {
			t.Error("autoreduce not inherited from parent")
		}
		if s.ErrorMetrics != "Distance" {
			t.Errorf("errorMetrics = %q", s.ErrorMetrics)
		}
	})

	t.Run("swizzle rules", func(t *testing.T) {
		s, ok := hints["NOHQ"]
		if !ok {
			t.Fatal("no NOHQ hint")
		}
		want := paa.ChannelRule{Source: paa.SourceRed, Negate: true}
		if s.Swizzle.A != want {
			t.Errorf("A rule = %+v, want %+v", s.Swizzle.A, want)
		}
		if s.MipmapFilter != "NormalizeNormalMapAlpha" {
			t.Errorf("mipmapFilter = %q", s.MipmapFilter)
		}
	})

	t.Run("legacy enableDXT", func(t *testing.T) {
		s, ok := hints["LCO"]
		if !ok {
			t.Fatal("no LCO hint")
		}
		if s.Format != paa.TypeARGB8888 {
			t.Errorf("format = %s, want ARGB8888", s.Format)
		}
	})
}

func TestParseHintsWithoutRoot(t *testing.T) {
	hints, err := ParseHints(`class Other { x = 1; };`)
	if err != nil {
		t.Fatalf("ParseHints failed: %v", err)
	}
	if len(hints) != 0 {
		t.Errorf("got %d hints, want 0", len(hints))
	}
}

func TestParseHintsErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"unknown parent", `class TextureHints { class a : nope { name = "*_a.*"; }; };`},
		{"missing name", `class TextureHints { class a { format = "DXT1"; }; };`},
		{"bad pattern", `class TextureHints { class a { name = "a.paa"; }; };`},
		{"bad format", `class TextureHints { class a { name = "*_a.*"; format = "BC7"; }; };`},
		{"unterminated class", `class TextureHints { class a { name = "*_a.*";`},
		{"missing semicolon", `class TextureHints { class a { name = "*_a.*" } };`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseHints(tc.input); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestSuffixFromFilename(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"raindrop3_smdi.paa", "SMDI"},
		{"data/textures/rock_big_nohq.paa", "NOHQ"},
		{"shoreWetNormal_nohq.png", "NOHQ"},
		{"plain.paa", ""},
		{"multi_part_name_co.paa", "CO"},
	}
	for _, tc := range cases {
		if got := SuffixFromFilename(tc.path); got != tc.want {
			t.Errorf("SuffixFromFilename(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestForFilename(t *testing.T) {
	hints, err := ParseHints(sampleConfig)
	if err != nil {
		t.Fatalf("ParseHints failed: %v", err)
	}
	s, ok := hints.ForFilename("terrain_rock_co.paa")
	if !ok {
		t.Fatal("no hint for *_co.* file")
	}
	if s.Format != paa.TypeDXT5 {
		t.Errorf("format = %s", s.Format)
	}
	if _, ok := hints.ForFilename("unknown_zzz.paa"); ok {
		t.Error("unexpected hint for unknown suffix")
	}
}
