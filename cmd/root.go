package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/priyxstudio/treesize/config"
	"github.com/priyxstudio/treesize/loggers/cli"
	"github.com/priyxstudio/treesize/system"
	"github.com/priyxstudio/treesize/treesize"
)

const (
	exitUsage     = 1
	exitTraversal = 2
)

var (
	configPath = config.DefaultLocation
	debug      = false
)

var rootArgs struct {
	Threads      int
	Method       int
	NonRecursive bool
	GlobalLimit  int
	OnError      string
	Timeout      time.Duration
	Human        bool
	Volume       bool
	JSON         bool
	WriteConfig  bool
}

// usageError marks a malformed invocation, as opposed to a failure while
// computing the size.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// exitError carries the process exit code for failures that are not usage
// errors.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func newRootCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "treesize [path]",
		Short: "Print the total size of a directory tree.",
		Long: "Prints the total size, in mebibytes, of all regular files below path (the current " +
			"directory by default). Sibling directories are read in parallel. Symbolic links, " +
			"junctions and other reparse points are never followed.",
		Example:       "  treesize /var/lib\n  treesize -t 4 /var/lib",
		Args:          validateArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetHandler(cli.Default)
			return initConfig(cmd)
		},
		RunE: rootCmdRun,
	}
	command.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	command.PersistentFlags().StringVar(&configPath, "config", config.DefaultLocation, "set the location for the configuration file")
	command.PersistentFlags().BoolVar(&debug, "debug", false, "pass in order to run treesize in debug mode")

	command.Flags().IntVarP(&rootArgs.Threads, "threads", "t", 0, "number of subdirectories of one directory to read at once (defaults to the number of CPUs)")
	command.Flags().IntVarP(&rootArgs.Method, "method", "m", 1, "traversal method, accepted for compatibility (all methods share one traversal)")
	command.Flags().BoolVar(&rootArgs.NonRecursive, "non-recursive", false, "only count the files directly inside path")
	command.Flags().IntVar(&rootArgs.GlobalLimit, "global-limit", 0, "maximum number of directories read at once across the whole tree (0 for no limit)")
	command.Flags().StringVar(&rootArgs.OnError, "on-error", "skip", "what to do with unreadable directories: skip or abort")
	command.Flags().DurationVar(&rootArgs.Timeout, "timeout", 0, "give up after this long (0 for no limit)")
	command.Flags().BoolVar(&rootArgs.Human, "human", false, "print the size with a binary unit suffix, e.g. 1.5MiB")
	command.Flags().BoolVar(&rootArgs.Volume, "volume", false, "also print the share of the containing volume used by the tree")
	command.Flags().BoolVar(&rootArgs.JSON, "json", false, "print a JSON report with counters and failures")
	command.Flags().BoolVar(&rootArgs.WriteConfig, "write-config", false, "write the effective configuration to --config and exit")

	command.AddCommand(newVersionCommand())

	return command
}

// Execute runs the root command and exits with a non-zero status on failure.
func Execute() {
	command := newRootCommand()
	if err := command.Execute(); err != nil {
		os.Exit(handleError(command, err))
	}
}

// handleError reports err in the way that fits its kind and returns the exit
// code to use.
func handleError(command *cobra.Command, err error) int {
	var uErr *usageError
	if errors.As(err, &uErr) {
		out := command.OutOrStdout()
		color.New(color.FgRed).Fprintln(out, "Error parsing commandline.")
		fmt.Fprintln(out, uErr.err)
		fmt.Fprint(out, command.UsageString())
		return exitUsage
	}
	var eErr *exitError
	if errors.As(err, &eErr) {
		log.WithField("error", eErr.err).Error("failed to compute directory size")
		return eErr.code
	}
	log.WithField("error", err).Error("failed to run command")
	return exitUsage
}

func validateArgs(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return &usageError{err: errors.Errorf("accepts at most one path, received %d", len(args))}
	}
	return nil
}

// initConfig loads the configuration file and applies any flags that were
// explicitly set on top of it.
func initConfig(cmd *cobra.Command) error {
	// --write-config may point --config at a file that does not exist yet.
	explicit := cmd.Flags().Changed("config") && !rootArgs.WriteConfig
	if err := config.Load(configPath, explicit); err != nil {
		return err
	}
	if debug {
		config.SetDebugViaFlag(debug)
	}

	flags := cmd.Flags()
	config.Update(func(c *config.Configuration) {
		if flags.Changed("threads") {
			c.Scan.Threads = rootArgs.Threads
		}
		if flags.Changed("non-recursive") {
			c.Scan.Recursive = !rootArgs.NonRecursive
		}
		if flags.Changed("global-limit") {
			c.Scan.GlobalLimit = rootArgs.GlobalLimit
		}
		if flags.Changed("on-error") {
			c.Scan.OnError = rootArgs.OnError
		}
		if flags.Changed("timeout") {
			c.Scan.Timeout = int(rootArgs.Timeout.Round(time.Second) / time.Second)
		}
		if flags.Changed("human") {
			c.Output.Human = rootArgs.Human
		}
		if flags.Changed("volume") {
			c.Output.ShowVolume = rootArgs.Volume
		}
		if flags.Changed("json") {
			c.Output.JSON = rootArgs.JSON
		}
	})

	c := config.Get()
	if err := c.Validate(); err != nil {
		if flags.Changed("on-error") || flags.Changed("global-limit") || flags.Changed("timeout") {
			return &usageError{err: err}
		}
		return err
	}
	if c.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if flags.Changed("method") {
		log.WithField("method", rootArgs.Method).Debug("all traversal methods share one implementation, ignoring the selector")
	}
	return nil
}

func rootCmdRun(cmd *cobra.Command, args []string) error {
	c := config.Get()

	if rootArgs.WriteConfig {
		if err := config.WriteToDisk(c); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", c.Path())
		return nil
	}

	path := "."
	if len(args) == 1 {
		path = args[0]
	} else if wd, err := os.Getwd(); err == nil {
		path = wd
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	// Sub-second flag values would be lost going through the configuration.
	timeout := time.Duration(c.Scan.Timeout) * time.Second
	if cmd.Flags().Changed("timeout") {
		timeout = rootArgs.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	a := treesize.New(
		treesize.WithRecursive(c.Scan.Recursive),
		treesize.WithMaxParallelism(c.Scan.Threads),
		treesize.WithGlobalLimit(c.Scan.GlobalLimit),
		treesize.WithFailurePolicy(c.FailurePolicy()),
	)

	start := time.Now()
	res, err := a.Compute(ctx, path)
	if err != nil {
		return &exitError{code: exitTraversal, err: err}
	}
	log.WithField("path", path).
		WithField("bytes", res.Bytes).
		WithField("files", res.Files).
		WithField("directories", res.Directories).
		WithField("reparse_points", res.ReparsePoints).
		WithField("threads", a.MaxParallelism()).
		WithField("elapsed", time.Since(start).Round(time.Millisecond)).
		Debug("computed directory size")
	if n := len(res.Failures); n > 0 {
		log.WithField("count", n).Warn("some paths could not be read, the total only covers what was readable")
	}

	if c.Output.JSON {
		return printReport(cmd.OutOrStdout(), path, res)
	}
	printSize(cmd.OutOrStdout(), path, res.Bytes, c.Output)
	return nil
}

type report struct {
	Path          string   `json:"path"`
	Bytes         int64    `json:"bytes"`
	Files         int64    `json:"files"`
	Directories   int64    `json:"directories"`
	ReparsePoints int64    `json:"reparse_points"`
	Failures      []string `json:"failures"`
}

func printReport(w io.Writer, path string, res treesize.Result) error {
	r := report{
		Path:          path,
		Bytes:         res.Bytes,
		Files:         res.Files,
		Directories:   res.Directories,
		ReparsePoints: res.ReparsePoints,
		Failures:      make([]string, 0, len(res.Failures)),
	}
	for _, err := range res.Failures {
		r.Failures = append(r.Failures, err.Error())
	}
	b, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "cmd: failed to marshal report")
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func printSize(w io.Writer, path string, size int64, o config.OutputConfiguration) {
	s := formatSize(size, o.Human)
	if !o.ShowVolume {
		fmt.Fprintln(w, s)
		return
	}
	v, err := system.GetVolume(path)
	if err != nil {
		log.WithField("path", path).WithField("error", err).Warn("failed to determine the containing volume")
		fmt.Fprintln(w, s)
		return
	}
	fmt.Fprintf(w, "%s (%.2f%% of %s)\n", s, v.Share(size), v.Name())
}

// formatSize renders size as mebibytes with two decimals, or with a binary
// unit suffix when human is set.
func formatSize(size int64, human bool) string {
	if human {
		return units.BytesSize(float64(size))
	}
	return strconv.FormatFloat(float64(size)/units.MiB, 'f', 2, 64) + "M"
}
