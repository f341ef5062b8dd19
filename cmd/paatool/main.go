// paatool - PAA texture container converter
//
// PAA files carry a pixel format word, GGAT metadata records (average and
// maximum color, alpha flags, mipmap offsets, channel swizzles), and a
// chain of individually compressed mipmaps. This tool converts between
// PAA and PNG, inspects containers, and dumps raw mipmap payloads into a
// zstd-framed container for external tooling.
//
// Usage:
//   paatool info input.paa                     # Show container info
//   paatool decode input.paa output.png        # PAA → PNG (top mipmap)
//   paatool encode input.png output.paa        # PNG → PAA
//   paatool dump input.paa output.ptd          # Dump a mipmap payload

package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/okonak/paatools/pkg/paa"
	"github.com/okonak/paatools/pkg/rawdump"
	"github.com/okonak/paatools/pkg/texconvert"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "decode":
		err = cmdDecode(args)
	case "encode":
		err = cmdEncode(args)
	case "dump":
		err = cmdDump(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("paatool - PAA texture container converter")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  paatool info <input.paa>                        # Show container info")
	fmt.Println("  paatool decode [-mip N] <input.paa> <out.png>   # PAA → PNG")
	fmt.Println("  paatool encode [options] <input.png> <out.paa>  # PNG → PAA")
	fmt.Println("  paatool dump [-mip N] <input.paa> <out.ptd>     # Dump mipmap payload")
	fmt.Println()
	fmt.Println("Encode options:")
	fmt.Println("  -format NAME   output format (DXT1..DXT5, ARGB1555, ARGB4444, ARGB8888, AI88)")
	fmt.Println("  -cfg FILE      TexConvert config; settings are picked by filename suffix")
	fmt.Println("  -autoreduce    shrink solid-color textures to 1x1")
}

func readContainer(path string) (*paa.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	img, err := paa.ReadImage(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return img, nil
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: paatool info <input.paa>")
	}

	img, err := readContainer(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("Format:  %s\n", img.Type)
	fmt.Printf("Taggs:   %d\n", len(img.Taggs))
	for i := range img.Taggs {
		tagg := &img.Taggs[i]
		switch tagg.Name {
		case paa.TaggAverageColor, paa.TaggMaxColor:
			b, g, r, a, err := tagg.Color()
			if err == nil {
				fmt.Printf("  %s: r=%d g=%d b=%d a=%d\n", tagg.Name, r, g, b, a)
				continue
			}
		case paa.TaggFlags:
			tr, err := tagg.Transparency()
			if err == nil {
				fmt.Printf("  %s: transparency=%d\n", tagg.Name, tr)
				continue
			}
		case paa.TaggOffsets:
			offsets, err := tagg.Offsets()
			if err == nil {
				fmt.Printf("  %s: %v\n", tagg.Name, offsets)
				continue
			}
		}
		fmt.Printf("  %s: %d byte payload\n", tagg.Name, len(tagg.Payload))
	}

	fmt.Printf("Mipmaps: %d\n", len(img.Mipmaps))
	for i, slot := range img.Mipmaps {
		if slot.Err != nil {
			fmt.Printf("  #%d: unreadable: %v\n", i, slot.Err)
			continue
		}
		m := slot.Mipmap
		fmt.Printf("  #%d: %dx%d, %s, %d bytes\n", i, m.Width, m.Height, m.Compression, len(m.Data))
	}
	return nil
}

func cmdDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	mip := fs.Int("mip", 0, "mipmap index to decode")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: paatool decode [-mip N] <input.paa> <output.png>")
	}

	img, err := readContainer(fs.Arg(0))
	if err != nil {
		return err
	}
	m, err := selectMipmap(img, *mip)
	if err != nil {
		return err
	}

	decoded, err := m.Decode()
	if err != nil {
		return fmt.Errorf("decode mipmap %d: %w", *mip, err)
	}

	out, err := os.Create(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, decoded); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	fmt.Printf("Decoded %s mipmap %d (%dx%d) to %s\n", img.Type, *mip, m.Width, m.Height, fs.Arg(1))
	return nil
}

func cmdEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	formatName := fs.String("format", "DXT5", "output pixel format")
	cfgPath := fs.String("cfg", "", "TexConvert config file")
	autoreduce := fs.Bool("autoreduce", false, "shrink solid-color textures to 1x1")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: paatool encode [options] <input.png> <output.paa>")
	}
	inPath := fs.Arg(0)
	outPath := fs.Arg(1)

	settings := texconvert.DefaultSettings()
	if *cfgPath != "" {
		raw, err := os.ReadFile(*cfgPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		hints, err := texconvert.ParseHints(string(raw))
		if err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		if s, ok := hints.ForFilename(outPath); ok {
			settings = s
			fmt.Printf("Using config settings for suffix %s\n", texconvert.SuffixFromFilename(outPath))
		} else {
			fmt.Printf("No config entry for suffix %q, using defaults\n", texconvert.SuffixFromFilename(outPath))
		}
	}
	if settings.Format == 0 || *cfgPath == "" {
		format, err := paa.ParseType(formatCode(*formatName))
		if err != nil {
			return fmt.Errorf("bad format %q", *formatName)
		}
		settings.Format = format
	}
	if *autoreduce {
		settings.Autoreduce = true
	}
	if settings.MipmapFilter != "" {
		fmt.Printf("Note: mipmapFilter=%s is not applied\n", settings.MipmapFilter)
	}
	if settings.ErrorMetrics != "" {
		fmt.Printf("Note: errorMetrics=%s is not applied\n", settings.ErrorMetrics)
	}

	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("decode png: %w", err)
	}

	img, err := paa.Encode(toNRGBA(src), paa.EncodeSettings{
		Type:         settings.Format,
		Swizzle:      settings.Swizzle,
		Autoreduce:   settings.Autoreduce,
		DynRange:     settings.DynRange,
		MipmapFilter: settings.MipmapFilter,
		ErrorMetrics: settings.ErrorMetrics,
	})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	wire, err := img.ToBytes()
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	if err := os.WriteFile(outPath, wire, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Encoded %s as %s with %d mipmaps to %s\n", inPath, settings.Format, len(img.Mipmaps), outPath)
	return nil
}

func cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	mip := fs.Int("mip", 0, "mipmap index to dump")
	level := fs.Int("level", int(rawdump.DefaultCompressionLevel), "zstd compression level")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: paatool dump [-mip N] <input.paa> <output.ptd>")
	}

	img, err := readContainer(fs.Arg(0))
	if err != nil {
		return err
	}
	m, err := selectMipmap(img, *mip)
	if err != nil {
		return err
	}

	out, err := os.Create(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	err = rawdump.Encode(out, uint32(m.Width), uint32(m.Height), uint32(m.Type), m.Data,
		rawdump.WithCompressionLevel(*level))
	if err != nil {
		return fmt.Errorf("write dump: %w", err)
	}
	fmt.Printf("Dumped mipmap %d (%dx%d %s, %d bytes) to %s\n", *mip, m.Width, m.Height, m.Type, len(m.Data), fs.Arg(1))
	return nil
}

func selectMipmap(img *paa.Image, index int) (*paa.Mipmap, error) {
	if index < 0 || index >= len(img.Mipmaps) {
		return nil, fmt.Errorf("mipmap %d out of range, container has %d", index, len(img.Mipmaps))
	}
	slot := img.Mipmaps[index]
	if slot.Err != nil {
		return nil, fmt.Errorf("mipmap %d is unreadable: %w", index, slot.Err)
	}
	return slot.Mipmap, nil
}

func formatCode(name string) uint16 {
	switch name {
	case "DXT1":
		return uint16(paa.TypeDXT1)
	case "DXT2":
		return uint16(paa.TypeDXT2)
	case "DXT3":
		return uint16(paa.TypeDXT3)
	case "DXT4":
		return uint16(paa.TypeDXT4)
	case "DXT5":
		return uint16(paa.TypeDXT5)
	case "ARGB1555":
		return uint16(paa.TypeARGB1555)
	case "ARGB4444":
		return uint16(paa.TypeARGB4444)
	case "ARGB8888":
		return uint16(paa.TypeARGB8888)
	case "AI88":
		return uint16(paa.TypeAI88)
	}
	return 0
}

func toNRGBA(src image.Image) *image.NRGBA {
	if img, ok := src.(*image.NRGBA); ok {
		return img
	}
	out := image.NewNRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out
}
