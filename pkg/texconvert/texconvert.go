// Package texconvert reads the texture conversion config that maps
// filename suffixes to per-texture-type encoding settings. A texture's
// type is the last underscore-separated token of its file stem: the file
// "rock_big_nohq.paa" has suffix NOHQ and picks up the settings of the
// hint class whose name pattern is "*_nohq.*".
package texconvert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okonak/paatools/pkg/paa"
)

// Settings are the per-suffix encoding directions. A zero Format means
// the config did not specify one.
type Settings struct {
	Format       paa.Type
	DynRange     bool
	Autoreduce   bool
	MipmapFilter string
	ErrorMetrics string
	Swizzle      paa.Swizzle
}

// DefaultSettings returns settings with an identity swizzle and no format.
func DefaultSettings() Settings {
	return Settings{Swizzle: paa.IdentitySwizzle()}
}

// Hints maps an uppercased filename suffix to its encoding settings.
type Hints map[string]Settings

// ParseHints parses a config document. Hint classes live inside a class
// named TextureHints; a document without one yields an empty map. A hint
// class may inherit from an earlier sibling by name.
func ParseHints(input string) (Hints, error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	classes, err := p.parseTopLevel()
	if err != nil {
		return nil, err
	}

	hints := make(Hints)
	var root *class
	for i := range classes {
		if strings.EqualFold(classes[i].name, "TextureHints") {
			root = &classes[i]
			break
		}
	}
	if root == nil {
		return hints, nil
	}

	byClassname := make(map[string]Settings)
	for i := range root.children {
		cls := &root.children[i]
		suffix, settings, err := classSettings(cls, byClassname)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", cls.name, err)
		}
		byClassname[strings.ToUpper(cls.name)] = settings
		hints[suffix] = settings
	}
	return hints, nil
}

// classSettings resolves one hint class against the already-resolved
// sibling classes it may inherit from.
func classSettings(cls *class, siblings map[string]Settings) (string, Settings, error) {
	settings := DefaultSettings()
	if cls.parent != "" {
		parent, ok := siblings[strings.ToUpper(cls.parent)]
		if !ok {
			return "", Settings{}, fmt.Errorf("unknown parent class %q", cls.parent)
		}
		settings = parent
	}

	name, ok := cls.prop("name")
	if !ok || !name.isStr {
		return "", Settings{}, fmt.Errorf("missing name pattern")
	}
	suffix, err := suffixFromPattern(name.str)
	if err != nil {
		return "", Settings{}, err
	}

	if v, ok := cls.prop("format"); ok && v.isStr {
		format, err := parseFormatName(v.str)
		if err != nil {
			return "", Settings{}, err
		}
		settings.Format = format
	} else if v, ok := cls.prop("enableDXT"); ok && v.isInt {
		// Legacy switch predating explicit format names.
		if v.integer != 0 {
			settings.Format = paa.TypeDXT5
		} else {
			settings.Format = paa.TypeARGB8888
		}
	}

	if v, ok := cls.prop("dynRange"); ok && v.isInt {
		settings.DynRange = v.integer != 0
	}
	if v, ok := cls.prop("autoreduce"); ok && v.isInt {
		settings.Autoreduce = v.integer != 0
	}
	if v, ok := cls.prop("mipmapFilter"); ok && v.ident != "" {
		settings.MipmapFilter = v.ident
	}
	if v, ok := cls.prop("errorMetrics"); ok && v.ident != "" {
		settings.ErrorMetrics = v.ident
	}

	rules := [4]struct {
		key  string
		dst  *paa.ChannelRule
	}{
		{"channelSwizzleA", &settings.Swizzle.A},
		{"channelSwizzleR", &settings.Swizzle.R},
		{"channelSwizzleG", &settings.Swizzle.G},
		{"channelSwizzleB", &settings.Swizzle.B},
	}
	for _, r := range rules {
		v, ok := cls.prop(r.key)
		if !ok || !v.isStr {
			continue
		}
		rule, err := paa.ParseChannelRule(v.str)
		if err != nil {
			return "", Settings{}, err
		}
		*r.dst = rule
	}

	return suffix, settings, nil
}

// suffixFromPattern extracts the suffix from a "*_xxx.*" name pattern.
func suffixFromPattern(pattern string) (string, error) {
	if !strings.HasPrefix(pattern, "*_") || !strings.HasSuffix(pattern, ".*") {
		return "", fmt.Errorf("name pattern %q is not of the form *_suffix.*", pattern)
	}
	return strings.ToUpper(pattern[2 : len(pattern)-2]), nil
}

func parseFormatName(name string) (paa.Type, error) {
	switch strings.ToUpper(name) {
	case "DXT1":
		return paa.TypeDXT1, nil
	case "DXT2":
		return paa.TypeDXT2, nil
	case "DXT3":
		return paa.TypeDXT3, nil
	case "DXT4":
		return paa.TypeDXT4, nil
	case "DXT5":
		return paa.TypeDXT5, nil
	case "ARGB1555":
		return paa.TypeARGB1555, nil
	case "ARGB4444":
		return paa.TypeARGB4444, nil
	case "ARGB8888":
		return paa.TypeARGB8888, nil
	case "AI88":
		return paa.TypeAI88, nil
	}
	return 0, fmt.Errorf("unknown format %q", name)
}

// SuffixFromFilename returns the uppercased texture type suffix of a
// path, or "" when the file stem has no underscore.
func SuffixFromFilename(path string) string {
	stem := filepath.Base(path)
	if dot := strings.LastIndexByte(stem, '.'); dot >= 0 {
		stem = stem[:dot]
	}
	idx := strings.LastIndexByte(stem, '_')
	if idx < 0 {
		return ""
	}
	return strings.ToUpper(stem[idx+1:])
}

// ForFilename looks up the settings for a texture path by its suffix.
func (h Hints) ForFilename(path string) (Settings, bool) {
	s, ok := h[SuffixFromFilename(path)]
	return s, ok
}
