// Package main is the entry point for the phaseseq CLI
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Southclaws/fault/fmsg"
	"github.com/james-see/phaseseq/pkg/api"
	"github.com/james-see/phaseseq/pkg/live"
	"github.com/james-see/phaseseq/pkg/pattern"
	"github.com/james-see/phaseseq/pkg/phase"
	"github.com/james-see/phaseseq/pkg/render"
	"github.com/james-see/phaseseq/pkg/tui"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile  string
	patternFile string
	seed        int64
	verbose     bool
	serverPort  int
	inPortName  string
	outPortName string
	bpm         float64
	servePort   int
	withTUI     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		msg := fmsg.GetIssue(err)
		if msg == "" {
			msg = err.Error()
		}
		fmt.Fprintln(os.Stderr, "Error:", msg)
		slog.Debug("command failed", "err", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "phaseseq",
	Short: "Turn single MIDI notes into patterned sequences",
	Long: `phaseseq is a MIDI sequence generator. Every note-on it receives
triggers a configurable sequence of notes, chords and controller changes
with per-step durations, pitch offsets, gates, chances and velocities.

Examples:
  phaseseq render riff.mid -o riff.phase.mid --pattern arp.yaml
  phaseseq live --in KeyStep --out Synth --bpm 100 --pattern arp.yaml
  phaseseq params
  phaseseq tui --pattern arp.yaml
  phaseseq serve --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(verbose)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render <input.mid>",
	Short: "Render a MIDI file through the sequencer",
	Long:  `Every note-on in the input triggers the pattern. All other events pass through unchanged.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Sequence a MIDI input port into a MIDI output port",
	RunE:  runLive,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports",
	RunE:  runPorts,
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "List engine parameters",
	RunE:  runParams,
}

var chordsCmd = &cobra.Command{
	Use:   "chords",
	Short: "List chord types",
	RunE:  runChords,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	// render command
	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path (default <input>.phase.mid)")
	renderCmd.Flags().StringVarP(&patternFile, "pattern", "p", "", "Pattern YAML file")
	renderCmd.Flags().Int64Var(&seed, "seed", -1, "Seed for reproducible humanization")

	// live command
	liveCmd.Flags().StringVar(&inPortName, "in", "", "MIDI input port (name or part of it)")
	liveCmd.Flags().StringVar(&outPortName, "out", "", "MIDI output port (name or part of it)")
	liveCmd.Flags().Float64Var(&bpm, "bpm", live.DefaultBPM, "Tempo in beats per minute")
	liveCmd.Flags().StringVarP(&patternFile, "pattern", "p", "", "Pattern YAML file")
	liveCmd.Flags().IntVar(&servePort, "serve", 0, "Also serve the API on this port")
	liveCmd.Flags().BoolVar(&withTUI, "tui", false, "Edit parameters in the terminal UI while playing")
	_ = liveCmd.MarkFlagRequired("in")
	_ = liveCmd.MarkFlagRequired("out")

	// params command
	paramsCmd.Flags().StringVarP(&patternFile, "pattern", "p", "", "Pattern YAML file")

	// tui command
	tuiCmd.Flags().StringVarP(&patternFile, "pattern", "p", "", "Pattern YAML file")

	// serve command
	serveCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serveCmd.Flags().StringVarP(&patternFile, "pattern", "p", "", "Pattern YAML file")

	// Add commands
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(paramsCmd)
	rootCmd.AddCommand(chordsCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// initLogger installs a text handler on stderr as the default logger
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger := slog.New(h)
	slog.SetDefault(logger)
	phase.SetLogger(logger)
}

// idleEngine is an engine with nowhere to play, used to edit settings
// for renders
func idleEngine(f *pattern.File) *phase.Engine {
	return phase.NewEngine(phase.HostFunc(func(phase.Event) {}),
		phase.WithPattern(f.Pattern),
		phase.WithSettings(f.Settings),
	)
}

func runRender(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := outputFile
	if output == "" {
		output = render.OutputPath(input)
	}

	f, err := pattern.Load(patternFile)
	if err != nil {
		return err
	}

	var opts []phase.Option
	if seed >= 0 {
		opts = append(opts, phase.WithRandom(phase.NewSeededSource(uint64(seed))))
	}

	fmt.Printf("Rendering %s -> %s (pattern %s)\n", input, output, f.Name)
	result, err := render.New(f.Pattern, f.Settings, opts...).RenderFile(input, output)
	if err != nil {
		return err
	}
	fmt.Printf("Render complete! %d notes from %d triggers in %d tracks\n", result.Notes, result.Triggers, result.Tracks)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	defer midi.CloseDriver()

	f, err := pattern.Load(patternFile)
	if err != nil {
		return err
	}

	in, out, err := live.FindPorts(inPortName, outPortName)
	if err != nil {
		return err
	}

	session, err := live.Open(in, out, live.Options{
		BPM:      bpm,
		Pattern:  f.Pattern,
		Settings: f.Settings,
		Logger:   slog.Default(),
	})
	if err != nil {
		return err
	}
	defer session.Close()

	if servePort > 0 {
		go func() {
			if err := api.StartServer(servePort, session.Engine(), f.Name); err != nil {
				slog.Error("API server stopped", "err", err)
			}
		}()
	}

	if withTUI {
		return tui.Run(session.Engine(), f.Name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Printf("Sequencing %s -> %s at %.0f BPM (pattern %s). Press ctrl+c to stop.\n", in.String(), out.String(), bpm, f.Name)
	<-ctx.Done()
	return nil
}

func runPorts(cmd *cobra.Command, args []string) error {
	defer midi.CloseDriver()

	ins, outs := live.ListPorts()
	fmt.Println("Inputs:")
	for _, name := range ins {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("Outputs:")
	for _, name := range outs {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func runParams(cmd *cobra.Command, args []string) error {
	f, err := pattern.Load(patternFile)
	if err != nil {
		return err
	}

	for _, d := range phase.Descriptors(phase.DefaultSettings()) {
		if d.Type == phase.ParamText {
			fmt.Printf("\n%s\n", d.Name)
			continue
		}
		value, _ := f.Settings.Value(d.ID)
		fmt.Printf("%2d  %-20s %8.4g%-2s [%g..%g] default %g\n", d.ID, d.Name, value, d.Unit, d.Min, d.Max, d.Default)
	}
	return nil
}

func runChords(cmd *cobra.Command, args []string) error {
	for _, t := range phase.ChordTypes() {
		intervals, _ := t.Intervals()
		fmt.Printf("%-5s %v\n", t, intervals)
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	f, err := pattern.Load(patternFile)
	if err != nil {
		return err
	}
	return tui.Run(idleEngine(f), f.Name)
}

func runServe(cmd *cobra.Command, args []string) error {
	f, err := pattern.Load(patternFile)
	if err != nil {
		return err
	}
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", serverPort)
	return api.StartServer(serverPort, idleEngine(f), f.Name)
}
