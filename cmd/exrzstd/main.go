// exrzstd exercises the split-compression chunk codec on synthetic pixel
// data and reports sizes and throughput.
//
// Usage:
//
//	exrzstd [options]
//
// Options:
//
//	-width <n>     pixels per line (default 1024)
//	-height <n>    lines per chunk (default 16)
//	-channels <s>  channel spec, one letter per channel: h=half,
//	               f=float, u=uint (default "hhhf")
//	-deep          synthesize a deep chunk with varying sample counts
//	-level <n>     compression level (default 5)
//	-backend <s>   block backend: zstd or deflate (default zstd)
//	-passes <n>    timing passes per direction (default 20)
//	-v             verbose output (per-section sizes, pool state)
//	-h, --help     print this message
//	--version      print version information
package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mrjoshuak/go-exrzstd/block"
	"github.com/mrjoshuak/go-exrzstd/chunk"
)

const version = "0.1.0"

type options struct {
	width    int
	height   int
	channels string
	deep     bool
	level    int
	backend  string
	passes   int
	verbose  bool
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-h" || arg == "--help" {
			usageMessage(os.Stdout)
			os.Exit(0)
		}
		if arg == "--version" {
			fmt.Printf("exrzstd (go-exrzstd) %s\n", version)
			fmt.Println("https://github.com/mrjoshuak/go-exrzstd")
			os.Exit(0)
		}
	}

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "exrzstd: %v\n", err)
		usageMessage(os.Stderr)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "exrzstd: %v\n", err)
		os.Exit(1)
	}
}

func usageMessage(w *os.File) {
	fmt.Fprintln(w, "Usage: exrzstd [options]")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -width <n>     pixels per line (default 1024)")
	fmt.Fprintln(w, "  -height <n>    lines per chunk (default 16)")
	fmt.Fprintln(w, "  -channels <s>  channel letters: h=half, f=float, u=uint (default hhhf)")
	fmt.Fprintln(w, "  -deep          synthesize a deep chunk")
	fmt.Fprintln(w, "  -level <n>     compression level (default 5)")
	fmt.Fprintln(w, "  -backend <s>   zstd or deflate (default zstd)")
	fmt.Fprintln(w, "  -passes <n>    timing passes per direction (default 20)")
	fmt.Fprintln(w, "  -v             verbose output")
	fmt.Fprintln(w, "  -h, --help     print this message")
	fmt.Fprintln(w, "  --version      print version information")
}

func parseArgs(args []string) (*options, error) {
	opts := &options{
		width:    1024,
		height:   16,
		channels: "hhhf",
		level:    chunk.DefaultLevel,
		backend:  "zstd",
		passes:   20,
	}

	intArg := func(i int, name string) (int, error) {
		if i+1 >= len(args) {
			return 0, fmt.Errorf("%s requires an argument", name)
		}
		n, err := strconv.Atoi(args[i+1])
		if err != nil {
			return 0, fmt.Errorf("invalid %s value: %s", name, args[i+1])
		}
		return n, nil
	}

	i := 0
	for i < len(args) {
		arg := args[i]
		switch arg {
		case "-width":
			n, err := intArg(i, "-width")
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid width: %s", args[i+1])
			}
			opts.width = n
			i += 2
		case "-height":
			n, err := intArg(i, "-height")
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid height: %s", args[i+1])
			}
			opts.height = n
			i += 2
		case "-channels":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-channels requires an argument")
			}
			opts.channels = args[i+1]
			i += 2
		case "-deep":
			opts.deep = true
			i++
		case "-level":
			n, err := intArg(i, "-level")
			if err != nil {
				return nil, err
			}
			opts.level = n
			i += 2
		case "-backend":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-backend requires an argument")
			}
			opts.backend = args[i+1]
			i += 2
		case "-passes":
			n, err := intArg(i, "-passes")
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid pass count: %s", args[i+1])
			}
			opts.passes = n
			i += 2
		case "-v":
			opts.verbose = true
			i++
		default:
			return nil, fmt.Errorf("unknown option: %s", arg)
		}
	}

	if opts.backend != "zstd" && opts.backend != "deflate" {
		return nil, fmt.Errorf("unknown backend: %s", opts.backend)
	}
	if opts.channels == "" {
		return nil, fmt.Errorf("channel spec is empty")
	}

	return opts, nil
}

// parseChannels turns a letter spec into a channel list.
func parseChannels(spec string) ([]chunk.Channel, error) {
	channels := make([]chunk.Channel, 0, len(spec))
	for _, r := range strings.ToLower(spec) {
		var t chunk.PixelType
		switch r {
		case 'h':
			t = chunk.PixelTypeHalf
		case 'f':
			t = chunk.PixelTypeFloat
		case 'u':
			t = chunk.PixelTypeUint
		default:
			return nil, fmt.Errorf("unknown channel letter %q (want h, f, or u)", r)
		}
		channels = append(channels, chunk.Channel{Type: t})
	}
	return channels, nil
}

// synthesize builds a packed chunk with render-like smoothness: sample
// values vary slowly along the line so the backend has structure to find.
func synthesize(g chunk.Geometry, channels []chunk.Channel) ([]byte, error) {
	lay, err := chunk.PlanLayout(channels, g.TotalSamples())
	if err != nil {
		return nil, err
	}
	packed := make([]byte, 0, lay.Size())
	cum := g.Cumulative()
	for line := 0; line < g.Height; line++ {
		samples := cum[line+1] - cum[line]
		for ci, ch := range channels {
			for s := 0; s < samples; s++ {
				v := uint32(line*1541+s*17+ci*97) & 0x3FFF
				if ch.Type == chunk.PixelTypeHalf {
					packed = binary.LittleEndian.AppendUint16(packed, uint16(0x3800|v))
				} else {
					packed = binary.LittleEndian.AppendUint32(packed, 0x3F000000|v<<8)
				}
			}
		}
	}
	if len(packed) != lay.Size() {
		return nil, fmt.Errorf("synthesized %d bytes, layout wants %d", len(packed), lay.Size())
	}
	return packed, nil
}

// deepCounts fabricates per-line sample counts with the unevenness of
// real deep renders, empty lines included.
func deepCounts(width, height int) []int {
	counts := make([]int, height)
	if width <= 0 {
		return counts
	}
	for y := range counts {
		if y%5 == 4 {
			continue
		}
		counts[y] = (y*7919)%(2*width) + width/2
	}
	return counts
}

func run(opts *options) error {
	channels, err := parseChannels(opts.channels)
	if err != nil {
		return err
	}

	g := chunk.Geometry{Width: opts.width, Height: opts.height}
	if opts.deep {
		g.SampleCounts = deepCounts(opts.width, opts.height)
	}

	var backend block.Compressor
	switch opts.backend {
	case "zstd":
		backend = block.NewZstd()
	case "deflate":
		backend = block.NewDeflate()
	}
	codec := &chunk.Codec{Compressor: backend, Level: opts.level}

	packed, err := synthesize(g, channels)
	if err != nil {
		return err
	}

	frame, err := codec.Encode(packed, g, channels)
	if err != nil {
		return err
	}
	decoded, err := codec.Decode(frame, g, channels)
	if err != nil {
		return err
	}
	if !bytes.Equal(decoded, packed) {
		return fmt.Errorf("round trip mismatch on %d-byte chunk", len(packed))
	}

	kind := "flat"
	if opts.deep {
		kind = "deep"
	}
	fmt.Printf("chunk:      %dx%d %s, channels %q (%d)\n",
		opts.width, opts.height, kind, opts.channels, len(channels))
	fmt.Printf("backend:    %s, level %d, %d lines/chunk recommended\n",
		opts.backend, opts.level, codec.LinesPerChunk())
	fmt.Printf("packed:     %d bytes\n", len(packed))
	fmt.Printf("frame:      %d bytes (%.2f%% of packed)\n",
		len(frame), 100*float64(len(frame))/float64(len(packed)))

	if opts.verbose {
		n1 := binary.LittleEndian.Uint64(frame)
		n2 := binary.LittleEndian.Uint64(frame[8+n1:])
		fmt.Printf("sections:   half %d bytes, full %d bytes\n", n1, n2)
		if bound, err := chunk.MaxFrameSize(g, channels); err == nil {
			fmt.Printf("worst case: %d bytes\n", bound)
		}
	}

	encodeSecs := timePasses(opts.passes, func() error {
		_, err := codec.Encode(packed, g, channels)
		return err
	})
	decodeSecs := timePasses(opts.passes, func() error {
		_, err := codec.Decode(frame, g, channels)
		return err
	})
	mb := float64(len(packed)) / (1 << 20)
	fmt.Printf("encode:     %.1f MB/s\n", mb*float64(opts.passes)/encodeSecs)
	fmt.Printf("decode:     %.1f MB/s\n", mb*float64(opts.passes)/decodeSecs)

	if opts.deep {
		if err := reportSampleTable(codec, g); err != nil {
			return err
		}
	}
	return nil
}

// reportSampleTable runs the accounting table for a deep chunk through
// the table path and reports its ratio.
func reportSampleTable(codec *chunk.Codec, g chunk.Geometry) error {
	cum := g.Cumulative()
	table := make([]byte, 0, 4*len(cum))
	for _, n := range cum {
		table = binary.LittleEndian.AppendUint32(table, uint32(n))
	}

	payload, err := codec.EncodeSampleTable(table)
	if err != nil {
		return err
	}
	back, err := codec.DecodeSampleTable(payload, len(table))
	if err != nil {
		return err
	}
	if !bytes.Equal(back, table) {
		return fmt.Errorf("sample table round trip mismatch")
	}
	fmt.Printf("table:      %d bytes -> %d bytes\n", len(table), len(payload))
	return nil
}

func timePasses(passes int, f func() error) float64 {
	start := time.Now()
	for i := 0; i < passes; i++ {
		if err := f(); err != nil {
			fmt.Fprintf(os.Stderr, "exrzstd: pass failed: %v\n", err)
			os.Exit(1)
		}
	}
	return time.Since(start).Seconds()
}
