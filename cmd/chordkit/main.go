// Package main is the entry point for the chordkit CLI
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/james-see/chordkit/pkg/api"
	"github.com/james-see/chordkit/pkg/chord"
	"github.com/james-see/chordkit/pkg/config"
	"github.com/james-see/chordkit/pkg/converter"
	"github.com/james-see/chordkit/pkg/logger"
	"github.com/james-see/chordkit/pkg/scale"
	"github.com/james-see/chordkit/pkg/theory"
	"github.com/james-see/chordkit/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfg        *config.Config
	outputFile string
	bassNote   string
	scaleChord string
	serverPort int
	debug      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chordkit",
	Short: "Name, describe and convert musical chords",
	Long: `chordkit identifies chords from their notes, spells out chord names
and converts chord progressions between text and standard MIDI files.

Examples:
  chordkit describe Cmaj9/G
  chordkit identify E C G --bass E
  chordkit transpose Bbm7 3
  chordkit scale D dorian --chord Dm7
  chordkit convert song.mid -o song.txt
  chordkit tui
  chordkit serve --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger.SetDebug(debug || cfg.Debug)
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe <name>...",
	Short: "Describe one or more chords by name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDescribe,
}

var identifyCmd = &cobra.Command{
	Use:   "identify <note>...",
	Short: "Name the chord formed by a set of notes",
	Long:  `Names the chord formed by the given notes. Without --bass the first note is the bass.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIdentify,
}

var qualitiesCmd = &cobra.Command{
	Use:   "qualities",
	Short: "List every known chord quality",
	Args:  cobra.NoArgs,
	RunE:  runQualities,
}

var transposeCmd = &cobra.Command{
	Use:   "transpose <name> <semitones>",
	Short: "Transpose a chord by a number of semitones",
	Args:  cobra.ExactArgs(2),
	RunE:  runTranspose,
}

var scaleCmd = &cobra.Command{
	Use:   "scale <root> <mode>",
	Short: "Show a scale and its diatonic chords",
	Long:  fmt.Sprintf("Shows the notes and diatonic chords of a scale.\n\nModes: %s", modeList()),
	Args:  cobra.ExactArgs(2),
	RunE:  runScale,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert between MIDI files and text chord progressions",
	Long:  `Detects the input format and converts to the format given by the output file extension (.mid or .txt).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
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
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	identifyCmd.Flags().StringVarP(&bassNote, "bass", "b", "", "Bass note (defaults to the first note)")

	scaleCmd.Flags().StringVarP(&scaleChord, "chord", "c", "", "Report whether this chord fits the scale")

	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	_ = convertCmd.MarkFlagRequired("output")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Server port (defaults to PORT or 8080)")

	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(qualitiesCmd)
	rootCmd.AddCommand(transposeCmd)
	rootCmd.AddCommand(scaleCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func modeList() string {
	modes := scale.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func printChord(cmd *cobra.Command, c *chord.Chord) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, c.Name())
	fmt.Fprintf(out, "  notes: %s\n", joinNotes(c.Notes()))
	fmt.Fprintf(out, "  %s\n", c.Description())
}

func joinNotes(notes []theory.PitchClass) string {
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = n.String()
	}
	return strings.Join(names, " ")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	for _, name := range args {
		c, err := chord.Parse(name)
		if err != nil {
			return err
		}
		printChord(cmd, c)
	}
	return nil
}

func runIdentify(cmd *cobra.Command, args []string) error {
	notes := make([]theory.PitchClass, 0, len(args)+1)
	for _, a := range args {
		p, err := theory.ParsePitchClass(a)
		if err != nil {
			return err
		}
		notes = append(notes, p)
	}

	bass := notes[0]
	if bassNote != "" {
		p, err := theory.ParsePitchClass(bassNote)
		if err != nil {
			return fmt.Errorf("--bass: %w", err)
		}
		bass = p
		notes = append(notes, bass)
	}

	c, err := chord.Identify(notes, bass)
	if err != nil {
		return err
	}
	logger.Debug("Identified chord", logger.Fields{"notes": joinNotes(notes), "chord": c.Name()})
	printChord(cmd, c)
	return nil
}

func runQualities(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, q := range chord.Qualities() {
		label := q.Label
		if label == "" {
			label = "(major)"
		}
		short := make([]string, len(q.Intervals))
		for i, iv := range q.Intervals {
			short[i] = iv.ShortName()
		}
		fmt.Fprintf(out, "%-8s %-32s %s\n", label, q.Description, strings.Join(short, " "))
	}
	return nil
}

func runTranspose(cmd *cobra.Command, args []string) error {
	c, err := chord.Parse(args[0])
	if err != nil {
		return err
	}
	semitones, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("semitones must be an integer: %q", args[1])
	}
	moved, err := c.Transpose(semitones)
	if err != nil {
		return err
	}
	printChord(cmd, moved)
	return nil
}

func runScale(cmd *cobra.Command, args []string) error {
	root, err := theory.ParsePitchClass(args[0])
	if err != nil {
		return err
	}
	mode, err := scale.ParseMode(args[1])
	if err != nil {
		return err
	}
	s, err := scale.New(root, mode)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, s.Name())
	fmt.Fprintf(out, "  notes:    %s\n", joinNotes(s.Notes()))
	if triads := s.Triads(); len(triads) > 0 {
		fmt.Fprintf(out, "  triads:   %s\n", chordNames(triads))
		fmt.Fprintf(out, "  sevenths: %s\n", chordNames(s.Sevenths()))
	}

	if scaleChord != "" {
		c, err := chord.Parse(scaleChord)
		if err != nil {
			return err
		}
		verdict := "does not fit"
		if s.ContainsChord(c) {
			verdict = "fits"
		}
		fmt.Fprintf(out, "  %s %s %s\n", c.Name(), verdict, s.Name())
	}
	return nil
}

func chordNames(chords []*chord.Chord) string {
	names := make([]string, len(chords))
	for i, c := range chords {
		names[i] = c.Name()
	}
	return strings.Join(names, " ")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	conv := converter.New(cfg.Voicing())

	logger.Debug("Converting", logger.Fields{"input": input, "output": outputFile})
	fmt.Fprintf(cmd.OutOrStdout(), "Converting %s -> %s\n", input, outputFile)
	if err := conv.ConvertFile(input, outputFile); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Conversion complete!")
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(converter.New(cfg.Voicing()))
}

func runServe(cmd *cobra.Command, args []string) error {
	if serverPort != 0 {
		cfg.Port = serverPort
	}

	flush, err := logger.InitSentry(cfg.SentryDSN, cfg.Environment, version)
	if err != nil {
		logger.Error("Failed to initialize Sentry", err, nil)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting API server on port %d...\n", cfg.Port)
	return api.Run(ctx, cfg)
}
