package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/i5heu/steganon"
	"github.com/i5heu/steganon/internal/config"
	"github.com/i5heu/steganon/pkg/imageio"
	"github.com/i5heu/steganon/pkg/logging"
	"github.com/i5heu/steganon/pkg/pixels"
	"github.com/i5heu/steganon/pkg/seal"
)

const (
	version = "0.1.0"
	stdout  = "STDOUT"
)

func usage() {
	fmt.Println("Usage: steganon <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  hide      -i <image> -d <data> -s <seed> [-d <data> -s <seed> ...] [-o <out>|STDOUT]")
	fmt.Println("  extract   -i <image> -s <seed> [-s <seed> ...] [-o <out>]")
	fmt.Println("  info-size -i <image> -s <seed> [-s <seed> ...]")
	fmt.Println("  pngify    -i <image> -o <out>|STDOUT")
	fmt.Println("  info")
	fmt.Println("Data and seeds can be a file, hex or text.")
}

// common holds the flags every image command takes.
type common struct {
	input      string
	seeds      multiFlag
	raw        bool
	passphrase string
	configPath string
	verbose    bool
	progress   bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.input, "i", "", "input image")
	fs.Var(&c.seeds, "s", "seed, repeat for each layer (file, hex or text)")
	fs.BoolVar(&c.raw, "raw", false, "use seeds verbatim as generator keys (1..32 bytes)")
	fs.StringVar(&c.passphrase, "passphrase", "", "seal or open payloads with this passphrase")
	fs.StringVar(&c.configPath, "config", config.DefaultPath(), "config file")
	fs.BoolVar(&c.verbose, "v", false, "debug logging")
	fs.BoolVar(&c.progress, "progress", false, "print progress to stderr")
}

// env is the state shared by the commands after flag parsing.
type env struct {
	conf config.Config
	log  *slog.Logger
}

func (c *common) load() (*env, error) {
	conf, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.raw {
		conf.RawSeeds = true
	}
	if c.progress {
		conf.Progress = true
	}
	level := conf.Level()
	if c.verbose {
		level = slog.LevelDebug
	}
	return &env{conf: conf, log: logging.New(os.Stderr, level)}, nil
}

// session opens the input image and builds a Session over a copy of it.
func (c *common) session(e *env, testMode bool) (*steganon.Session, error) {
	if c.input == "" {
		return nil, errors.New("missing -i")
	}
	if len(c.seeds) == 0 {
		return nil, errors.New("missing -s")
	}
	seeds, err := resolveAll(c.seeds)
	if err != nil {
		return nil, err
	}
	img, err := imageio.Open(c.input)
	if err != nil {
		return nil, err
	}

	var progress steganon.ProgressFunc
	if e.conf.Progress {
		progress = func(cur, total, seg int) {
			fmt.Fprintf(os.Stderr, "\r@ Working on layer %d... %d%%", seg+1, cur*100/total)
			if cur == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}
	return steganon.New(pixels.FromImage(img), steganon.Config{
		Seeds:    seeds,
		RawSeeds: e.conf.RawSeeds,
		TestMode: testMode,
		Progress: progress,
		Logger:   e.log,
	})
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "hide":
		err = runHide(os.Args[2:])
	case "extract":
		err = runExtract(os.Args[2:])
	case "info-size":
		err = runInfoSize(os.Args[2:])
	case "pngify":
		err = runPngify(os.Args[2:])
	case "info":
		fmt.Printf("steganon_version=%s, go_version=%s, github=github.com/i5heu/steganon\n", version, runtime.Version())
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runHide(args []string) error {
	hideCmd := flag.NewFlagSet("hide", flag.ExitOnError)
	var c common
	c.register(hideCmd)
	var data multiFlag
	hideCmd.Var(&data, "d", "data to hide, one per seed (file, hex or text)")
	output := hideCmd.String("o", "", "output image, STDOUT, or empty to overwrite -i")
	format := hideCmd.String("format", "", "output format: png, bmp or tiff")
	testMode := hideCmd.Bool("testmode", false, "paint changed pixels instead of hiding")
	hideCmd.Parse(args)

	if len(data) == 0 {
		return errors.New("missing -d")
	}
	if len(data) != len(c.seeds) {
		return fmt.Errorf("got %d -d values for %d seeds; pass one per layer", len(data), len(c.seeds))
	}
	e, err := c.load()
	if err != nil {
		return err
	}
	s, err := c.session(e, *testMode)
	if err != nil {
		return err
	}

	payloads, err := resolveAll(data)
	if err != nil {
		return err
	}
	for i, p := range payloads {
		if i > 0 {
			if err := s.Next(); err != nil {
				return err
			}
		}
		if c.passphrase != "" {
			if p, err = seal.Seal([]byte(c.passphrase), p); err != nil {
				return err
			}
		}
		if _, err := s.Hide(p); err != nil {
			return fmt.Errorf("layer %d: %w", i+1, err)
		}
	}

	out := *output
	if out == "" {
		out = c.input
	}
	f, err := outputFormat(*format, out, e.conf)
	if err != nil {
		return err
	}
	w, closeOut, err := create(out)
	if err != nil {
		return err
	}
	if err := s.Save(w, f); err != nil {
		closeOut()
		return err
	}
	e.log.Info("data hidden", "layers", len(payloads), "bytes", s.TotalWritten(), "capacity", s.MaxAllowedBytes())
	return closeOut()
}

// walkToLast moves the reader to the last seed of the chain.
func walkToLast(s *steganon.Session) error {
	for s.CurrentSeedPos() < s.Seeds()-1 {
		if _, err := s.ExtractInfoSize(); err != nil {
			return fmt.Errorf("layer %d: %w", s.CurrentSeedPos()+1, err)
		}
		if err := s.Next(); err != nil {
			return err
		}
	}
	return nil
}

func runExtract(args []string) error {
	extractCmd := flag.NewFlagSet("extract", flag.ExitOnError)
	var c common
	c.register(extractCmd)
	output := extractCmd.String("o", "", "output file, empty for stdout")
	chunk := extractCmd.Int("chunk", 0, "stream chunk size in bytes, 0 for the config value")
	extractCmd.Parse(args)

	e, err := c.load()
	if err != nil {
		return err
	}
	s, err := c.session(e, false)
	if err != nil {
		return err
	}
	if err := walkToLast(s); err != nil {
		return err
	}

	out := *output
	if out == "" {
		out = stdout
	}
	w, closeOut, err := create(out)
	if err != nil {
		return err
	}

	if c.passphrase != "" {
		sealed, err := s.Extract()
		if err != nil {
			closeOut()
			return err
		}
		plain, err := seal.Open([]byte(c.passphrase), sealed)
		if err != nil {
			closeOut()
			return err
		}
		if _, err := w.Write(plain); err != nil {
			closeOut()
			return err
		}
		return closeOut()
	}

	size := *chunk
	if size <= 0 {
		size = e.conf.ChunkSize
	}
	st, err := s.ExtractStream(size)
	if err != nil {
		closeOut()
		return err
	}
	defer st.Close()
	n, err := io.Copy(w, st)
	if err != nil {
		closeOut()
		return err
	}
	e.log.Debug("data extracted", "layer", s.CurrentSeedPos()+1, "bytes", n)
	return closeOut()
}

func runInfoSize(args []string) error {
	infoCmd := flag.NewFlagSet("info-size", flag.ExitOnError)
	var c common
	c.register(infoCmd)
	infoCmd.Parse(args)

	e, err := c.load()
	if err != nil {
		return err
	}
	s, err := c.session(e, false)
	if err != nil {
		return err
	}
	fmt.Printf("Capacity: %d bytes\n", s.MaxAllowedBytes())
	for {
		n, err := s.ExtractInfoSize()
		if err != nil {
			return fmt.Errorf("layer %d: %w", s.CurrentSeedPos()+1, err)
		}
		fmt.Printf("  Layer %d: %d bytes\n", s.CurrentSeedPos()+1, n)
		if s.CurrentSeedPos() == s.Seeds()-1 {
			return nil
		}
		if err := s.Next(); err != nil {
			return err
		}
	}
}

func runPngify(args []string) error {
	pngifyCmd := flag.NewFlagSet("pngify", flag.ExitOnError)
	input := pngifyCmd.String("i", "", "input image")
	output := pngifyCmd.String("o", "", "output PNG file or STDOUT")
	pngifyCmd.Parse(args)

	if *input == "" || *output == "" {
		return errors.New("usage: steganon pngify -i <image> -o <out>|STDOUT")
	}
	img, err := imageio.Open(*input)
	if err != nil {
		return err
	}
	png, err := imageio.Pngify(img)
	if err != nil {
		return err
	}
	w, closeOut, err := create(*output)
	if err != nil {
		return err
	}
	if err := imageio.Encode(w, png, imageio.PNG); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

// outputFormat picks the -format flag, then the output extension, then the
// config default.
func outputFormat(flagValue, out string, conf config.Config) (imageio.Format, error) {
	if flagValue != "" {
		return imageio.ParseFormat(flagValue)
	}
	if out != stdout {
		return imageio.FormatFor(out), nil
	}
	return imageio.ParseFormat(conf.Format)
}

// create opens path for writing; STDOUT writes to standard output.
func create(path string) (io.Writer, func() error, error) {
	if path == stdout {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
