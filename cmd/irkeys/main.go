package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/sparques/irkeys"
	"github.com/sparques/irkeys/internal/cliconfig"
	"github.com/sparques/irkeys/nec"
	"github.com/sparques/irkeys/periphrx"
	"github.com/sparques/irkeys/replay"
)

var exampleUsage = strings.TrimSpace(`
  irkeys run --pin GPIO17
  irkeys encode 1 --repeats 3 > press.txt
  irkeys replay press.txt --log-level debug
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "irkeys",
		Short:         "Decode an NEC IR remote into keypad input",
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// load resolves file, env and flags into cfg, flags taking precedence.
	load := func(cmd *cobra.Command) error {
		cfgFile := cfgPath
		if cfgFile == "" {
			cfgFile = cliconfig.DefaultConfigPath()
		}

		changed := map[string]bool{}
		cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		if cfgFile != "" && cliconfig.FileExists(cfgFile) {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
				return err
			}
		}
		if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		log = cliconfig.LoggerAt(cfg.LogLevel)
		log.Debug().Interface("timing", cfg.Timing).Dur("quiet_window", cfg.QuietWindow).Msg("configuration")
		return nil
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.irkeys/config.toml)")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().DurationVar(&cfg.QuietWindow, "quiet-window", cfg.QuietWindow, "minimum time between two accepted keys")
	root.PersistentFlags().IntVar(&cfg.Timing.Tolerance, "tolerance", cfg.Timing.Tolerance, "timing tolerance in percent")
	root.PersistentFlags().IntVar(&cfg.Timing.AddressBits, "address-bits", cfg.Timing.AddressBits, "address bits before the command (0, 8 or 16)")
	root.PersistentFlags().IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "capacity of the key queue")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Decode keys from a receiver on a GPIO pin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd); err != nil {
				return err
			}
			cfg.Timing.TickRate = periphrx.TickRate
			src, err := periphrx.Open(cfg.Pin)
			if err != nil {
				return err
			}
			defer src.Close()
			log.Info().Str("pin", cfg.Pin).Msg("listening")
			return decode(cmd.Context(), cfg, src, log, cmd.OutOrStdout())
		},
	}
	runCmd.Flags().StringVar(&cfg.Pin, "pin", cfg.Pin, "GPIO pin connected to the IR receiver output")

	var pace bool
	replayCmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Decode keys from a file of captured timestamps (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd); err != nil {
				return err
			}
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			src := replay.NewSource(r)
			var opts []irkeys.Option
			if pace {
				src.Pace = cfg.Timing.TickRate
			} else {
				opts = append(opts, irkeys.WithEdgeClock(cfg.Timing.TickRate))
			}
			return decode(cmd.Context(), cfg, src, log, cmd.OutOrStdout(), opts...)
		},
	}
	replayCmd.Flags().BoolVar(&pace, "pace", false, "replay in real time (default decodes as fast as possible)")

	var (
		repeats int
		start   uint32
		corrupt bool
		address uint16
	)
	encodeCmd := &cobra.Command{
		Use:   "encode KEY|CODE",
		Short: "Print the edge timestamps of a button press",
		Long:  "Print the edge timestamps a receiver would capture for one frame followed by repeat codes. KEY is a key name (0-9, submit, backspace); CODE is a command byte.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd); err != nil {
				return err
			}
			code, err := commandFor(cfg.Keymap, args[0])
			if err != nil {
				return err
			}
			f := nec.Frame{Timing: cfg.Timing, Address: address, Cmd: code}
			if corrupt {
				bad := code
				f.Check = &bad
			}
			ts := press(cfg.Timing, start, f, repeats)
			return replay.Write(cmd.OutOrStdout(), ts)
		},
	}
	encodeCmd.Flags().IntVar(&repeats, "repeats", 0, "repeat codes to send after the frame")
	encodeCmd.Flags().Uint32Var(&start, "start", 0, "counter value of the first edge")
	encodeCmd.Flags().BoolVar(&corrupt, "corrupt", false, "send a wrong complement byte")
	encodeCmd.Flags().Uint16Var(&address, "address", 0, "address sent with the command")

	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Print the keymap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd); err != nil {
				return err
			}
			codes := make([]int, 0, len(cfg.Keymap))
			for c := range cfg.Keymap {
				codes = append(codes, int(c))
			}
			sort.Ints(codes)
			for _, c := range codes {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d 0x%02X %s\n", c, c, cfg.Keymap[uint8(c)])
			}
			return nil
		},
	}

	root.AddCommand(runCmd, replayCmd, encodeCmd, keysCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("irkeys")
		os.Exit(1)
	}
}

// decode runs a Loop over src and prints each key on its own line.
func decode(ctx context.Context, cfg cliconfig.Config, src irkeys.EdgeSource, log zerolog.Logger, w io.Writer, opts ...irkeys.Option) error {
	dec, err := nec.NewDecoder(cfg.Timing)
	if err != nil {
		return err
	}
	keys := make(chan irkeys.Key, cfg.QueueSize)
	opts = append([]irkeys.Option{
		irkeys.WithKeymap(cfg.Keymap),
		irkeys.WithQuietWindow(cfg.QuietWindow),
		irkeys.WithLogger(log),
	}, opts...)
	loop := irkeys.NewLoop(src, dec, keys, opts...)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for k := range keys {
			fmt.Fprintln(w, k)
		}
	}()

	err = loop.Run(ctx)
	close(keys)
	<-done

	log.Info().Interface("stats", loop.Stats()).Msg("stopped")
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// commandFor resolves a key name through km, or parses a raw command byte.
func commandFor(km irkeys.Keymap, arg string) (uint8, error) {
	if k, err := irkeys.ParseKey(arg); err == nil {
		code, ok := km.Code(k)
		if !ok {
			return 0, fmt.Errorf("key %s is not in the keymap", k)
		}
		return code, nil
	}
	c, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%q is neither a key nor a command byte", arg)
	}
	return uint8(c), nil
}

// press is one frame followed by repeat codes.
func press(t nec.Timing, start uint32, f nec.Frame, repeats int) []uint32 {
	frames := []irkeys.FrameMarshaller{f}
	for i := 0; i < repeats; i++ {
		frames = append(frames, nec.Repeat{Timing: t})
	}
	return irkeys.Train(start, t.TickRate, frames...)
}
