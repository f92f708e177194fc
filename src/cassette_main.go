package cassette

/*------------------------------------------------------------------
 *
 * Purpose:	Main program for recovering Exidy Sorcerer programs from
 *		cassette recordings.
 *
 * Description:	Each WAV file given on the command line is decoded and
 *		the program written next to it, foo.wav -> foo.bin.
 *		Several files are decoded in parallel.
 *
 *		With --capture, audio comes from the sound card instead.
 *
 * Exit status:	0	Everything decoded.
 *		1	At least one recording could not be decoded.
 *		2	--strict and at least one checksum failed.
 *
 *		Interrupting a batch stops it, no more binaries are
 *		written, and the status is 1.  Interrupting --capture just ends the
 *		recording early.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

const (
	exitOK       = 0
	exitFatal    = 1
	exitChecksum = 2
)

type cassetteArgs struct {
	output     string
	configPath string
	reportPath string
	dump       bool
	verbose    bool
	strict     bool
	dryRun     bool
	withHeader bool
	capture    bool
	seconds    int
	workers    int
	silence    int
	version    bool
	inputs     []string
}

// One decode, from wherever the audio came from.
type job struct {
	source string
	output string
	image  *ProgramImage
	err    error
}

func CassetteMain() {
	os.Exit(RunCassette(os.Args[1:], os.Stdout, os.Stderr))
}

func parseCassetteArgs(argv []string, stderr io.Writer) (*cassetteArgs, error) {
	var flags = pflag.NewFlagSet("cassette", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var a = new(cassetteArgs)
	flags.StringVarP(&a.output, "output", "o", "", "File to which the binary will be written.  Only with a single input.")
	flags.StringVarP(&a.configPath, "config", "c", "", "Settings file.  Default: search for cassette.yaml.")
	flags.StringVarP(&a.reportPath, "report", "r", "", "Write a YAML report of each decode to this file.")
	flags.BoolVarP(&a.dump, "dump", "d", false, "Hex dump the header and every block to stdout.")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging.")
	flags.BoolVar(&a.strict, "strict", false, "Exit with status 2 if any checksum fails.")
	flags.BoolVarP(&a.dryRun, "dry-run", "n", false, "Decode but don't write any binaries.")
	flags.BoolVar(&a.withHeader, "with-header", false, "Start the binary with the 16 byte tape header.  Without it the binary is the program bytes only.")
	flags.BoolVar(&a.capture, "capture", false, "Record from the sound card instead of reading WAV files.")
	flags.IntVar(&a.seconds, "seconds", 0, "How long to record with --capture.  0 means use the settings file.")
	flags.IntVarP(&a.workers, "workers", "j", 0, "Goroutines for frequency estimation.  0 means use the settings file.")
	flags.IntVarP(&a.silence, "silence", "s", 0, "Silence threshold.  0 means use the settings file.")
	flags.BoolVar(&a.version, "version", false, "Print version and exit.")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: cassette [options] recording.wav ...\n")
		fmt.Fprintf(stderr, "       cassette [options] --capture -o program.bin\n\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(argv); err != nil {
		return nil, err
	}

	a.inputs = flags.Args()

	if a.version {
		return a, nil
	}

	switch {
	case a.capture && len(a.inputs) > 0:
		return nil, errors.New("--capture takes no input files")
	case !a.capture && len(a.inputs) == 0:
		flags.Usage()
		return nil, errors.New("no input files")
	case a.output != "" && len(a.inputs) > 1:
		return nil, errors.New("--output can only be used with a single input")
	}

	return a, nil
}

// Command line values override the settings file.
func (a *cassetteArgs) apply(cfg *Config) {
	if a.workers > 0 {
		cfg.Workers = a.workers
	}
	if a.silence > 0 {
		cfg.SilenceThreshold = a.silence
	}
	if a.seconds > 0 {
		cfg.Capture.Seconds = a.seconds
	}
	if a.withHeader {
		cfg.IncludeHeader = true
	}
}

func outputPath(input string, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

/*------------------------------------------------------------------
 *
 * Name:	RunCassette
 *
 * Purpose:	Everything main does, minus os.Exit, so it can be tested.
 *
 * Returns:	Exit status.
 *
 *------------------------------------------------------------------*/

func RunCassette(argv []string, stdout io.Writer, stderr io.Writer) int {
	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer stop()

	return runCassette(ctx, argv, stdout, stderr)
}

// runCassette stops decoding and writing files once ctx is done.  With
// --capture, ctx ending only stops the recording.
func runCassette(ctx context.Context, argv []string, stdout io.Writer, stderr io.Writer) int {
	var a, err = parseCassetteArgs(argv, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "cassette: %s\n", err)
		return exitFatal
	}

	if a.version {
		PrintVersion(stdout)
		return exitOK
	}

	cfg, cfgPath, err := LoadConfig(a.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "cassette: %s\n", err)
		return exitFatal
	}
	a.apply(&cfg)

	logger, err := NewLogger(stderr, cfg.LogLevel, a.verbose)
	if err != nil {
		fmt.Fprintf(stderr, "cassette: log_level: %s\n", err)
		return exitFatal
	}
	if cfgPath != "" {
		logger.Debug("Settings", "file", cfgPath)
	}

	if a.capture {
		var j = captureJob(ctx, a, cfg, logger)
		return finish(context.WithoutCancel(ctx), a, cfg, []*job{j}, stdout, logger)
	}

	return finish(ctx, a, cfg, decodeFiles(ctx, a, cfg, logger), stdout, logger)
}

func captureJob(ctx context.Context, a *cassetteArgs, cfg Config, logger *log.Logger) *job {
	var j = &job{source: "line-in", output: a.output} //nolint:exhaustruct
	if j.output == "" {
		j.output = "capture" + cfg.OutputSuffix
	}

	var seconds = time.Duration(cfg.Capture.Seconds) * time.Second
	logger.Info("Recording, press Ctrl-C to stop early", "seconds", cfg.Capture.Seconds, "rate", cfg.Capture.SampleRate)

	var rec, err = Capture(ctx, CaptureOptions{SampleRate: cfg.Capture.SampleRate, Duration: seconds})
	if err != nil {
		j.err = err
		return j
	}

	decodeJob(j, rec, cfg, logger)
	return j
}

func decodeFiles(ctx context.Context, a *cassetteArgs, cfg Config, logger *log.Logger) []*job {
	var jobs = make([]*job, len(a.inputs))

	// Each recording is held in memory while it is decoded.
	var g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, input := range a.inputs {
		var j = &job{source: input, output: a.output} //nolint:exhaustruct
		if j.output == "" {
			j.output = outputPath(input, cfg.OutputSuffix)
		}
		jobs[i] = j

		g.Go(func() error {
			decodeFile(gctx, j, cfg, logger.WithPrefix(filepath.Base(input)))
			return nil
		})
	}

	_ = g.Wait() // Failures are kept per job.

	return jobs
}

func decodeFile(ctx context.Context, j *job, cfg Config, logger *log.Logger) {
	if j.err = ctx.Err(); j.err != nil {
		return
	}

	var fp, err = os.Open(j.source)
	if err != nil {
		j.err = err
		return
	}
	defer fp.Close()

	rec, err := ReadWAV(fp)
	if err != nil {
		j.err = err
		return
	}

	logger.Info("WAV",
		"channels", rec.Channels,
		"bits", rec.Bits,
		"rate", rec.SampleRate,
		"frames", len(rec.Samples),
		"compressed", rec.Compressed,
		"duration", rec.Duration().Round(100*time.Millisecond))

	if j.err = ctx.Err(); j.err != nil {
		return
	}

	decodeJob(j, rec, cfg, logger)
}

func decodeJob(j *job, rec *Recording, cfg Config, logger *log.Logger) {
	var opts = cfg.Options()
	opts.Logger = logger

	j.image, j.err = NewDecoder(opts).DecodeRecording(rec)
}

func writeBinary(path string, image *ProgramImage, withHeader bool) error {
	var fp, err = os.Create(path)
	if err != nil {
		return err
	}

	if withHeader {
		_, err = image.WriteWithHeader(fp)
	} else {
		_, err = image.WriteTo(fp)
	}

	if closeErr := fp.Close(); err == nil {
		err = closeErr
	}

	return err
}

func writeReports(path string, cfg Config, jobs []*job) error {
	var now = time.Now()

	var reports = make([]*Report, 0, len(jobs))
	for _, j := range jobs {
		var r, err = NewReport(j.source, now, cfg.TimestampFormat, j.image, j.err)
		if err != nil {
			return err
		}
		reports = append(reports, r)
	}

	var fp, err = os.Create(path)
	if err != nil {
		return err
	}

	err = WriteReports(fp, reports)
	if closeErr := fp.Close(); err == nil {
		err = closeErr
	}

	return err
}

func finish(ctx context.Context, a *cassetteArgs, cfg Config, jobs []*job, stdout io.Writer, logger *log.Logger) int {
	var status = exitOK

	for _, j := range jobs {
		if j.err == nil && ctx.Err() != nil {
			j.err = ctx.Err()
		}

		if j.err != nil {
			logger.Error("Decode failed", "source", j.source, "err", j.err)
			status = exitFatal
			continue
		}

		if a.dump {
			fmt.Fprintf(stdout, "%s:\n", j.source)
			j.image.Dump(stdout)
		}

		if bad := j.image.ChecksumErrors(); bad != nil {
			logger.Warn("Checksum errors", "source", j.source, "err", bad)
			if a.strict && status == exitOK {
				status = exitChecksum
			}
		}

		if a.dryRun {
			continue
		}

		if err := writeBinary(j.output, j.image, cfg.IncludeHeader); err != nil {
			logger.Error("Could not write output", "file", j.output, "err", err)
			status = exitFatal
			continue
		}
		logger.Info("Wrote", "file", j.output, "bytes", j.image.Len()+IfThenElse(cfg.IncludeHeader, HeaderSize, 0))
	}

	if a.reportPath != "" {
		if err := writeReports(a.reportPath, cfg, jobs); err != nil {
			logger.Error("Could not write report", "file", a.reportPath, "err", err)
			status = exitFatal
		}
	}

	return status
}
