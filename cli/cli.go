package cli

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/hdt3213/resp/config"
	"github.com/hdt3213/resp/lib/logger"
	"github.com/hdt3213/resp/lib/utils"
	"github.com/hdt3213/resp/redis/parser"
	"github.com/hdt3213/resp/redis/protocol"
	"github.com/spf13/cobra"
	"io"
	"os"
	"strings"
)

// ruleAuto detects the element type from its leading byte
const ruleAuto = "auto"

var ruleNames = map[string]parser.Rule{
	"integer": parser.RuleInteger,
	"bulk":    parser.RuleBulkString,
	"array":   parser.RuleArray,
}

type flags struct {
	rule       string
	configFile string
	lenient    bool
	nullBulk   bool
	maxInput   int
}

// NewRootCommand builds the respdump command tree
func NewRootCommand() *cobra.Command {
	f := &flags{}
	rootCmd := &cobra.Command{
		Use:           "respdump [file]",
		Short:         "respdump decodes RESP elements from a file or stdin and prints their values like redis-cli",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f, func(v protocol.Value) {
				fmt.Fprintln(cmd.OutOrStdout(), protocol.Format(v))
			})
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.rule, "rule", "r", ruleAuto, "element type to expect: auto, integer, bulk or array")
	pf.StringVarP(&f.configFile, "config", "c", "", "config file, redis.conf style or .yaml")
	pf.BoolVar(&f.lenient, "lenient", false, "accept arrays followed by more elements than declared")
	pf.BoolVar(&f.nullBulk, "null-bulk", false, "accept $-1 as a null bulk string")
	pf.IntVar(&f.maxInput, "max-input", 0, "max bytes to read, overrides max-input-len")

	rootCmd.AddCommand(newCheckCommand(f))
	return rootCmd
}

func newCheckCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate the input and report the number of elements",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 0
			err := run(cmd, args, f, func(protocol.Value) {
				count++
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK %d elements\n", count)
			return nil
		},
	}
}

// Execute runs the root command with os.Args
func Execute() error {
	return NewRootCommand().Execute()
}

func run(cmd *cobra.Command, args []string, f *flags, emit func(protocol.Value)) error {
	opts, err := setup(cmd, f)
	if err != nil {
		return err
	}
	var src io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()
		src = file
	}
	if f.rule == ruleAuto {
		err = decodeStream(src, opts, emit)
	} else {
		rule, ok := ruleNames[strings.ToLower(f.rule)]
		if !ok {
			return fmt.Errorf("unknown rule %q", f.rule)
		}
		err = decodeRule(src, rule, opts, emit)
	}
	return err
}

// setup loads config and logging, then applies flags set on the command line
func setup(cmd *cobra.Command, f *flags) (parser.Options, error) {
	if err := config.SetupConfig(f.configFile); err != nil {
		return parser.Options{}, err
	}
	props := config.Properties
	if props.LogDir != "" {
		err := logger.Setup(&logger.Settings{
			Path:       props.LogDir,
			Name:       "respdump",
			Ext:        "log",
			TimeFormat: "2006-01-02",
		})
		if err != nil {
			return parser.Options{}, err
		}
	}
	level, err := logger.ParseLevel(props.LogLevel)
	if err != nil {
		return parser.Options{}, err
	}
	if l, ok := logger.DefaultLogger.(*logger.Logger); ok {
		l.SetLevel(level)
	}

	opts := props.ParserOptions()
	flagSet := cmd.Flags()
	if flagSet.Changed("lenient") {
		opts.LenientArrays = f.lenient
	}
	if flagSet.Changed("null-bulk") {
		opts.AllowNullBulk = f.nullBulk
	}
	if flagSet.Changed("max-input") {
		opts.MaxInputLen = f.maxInput
	}
	logger.Debugf("parser options %+v", opts)
	return opts, nil
}

func decodeStream(src io.Reader, opts parser.Options, emit func(protocol.Value)) error {
	for payload := range parser.ParseStream(src, opts) {
		if payload.Err != nil {
			return payload.Err
		}
		emit(payload.Data)
	}
	return nil
}

// decodeRule pulls elements of a single rule until the input is exhausted
func decodeRule(src io.Reader, rule parser.Rule, opts parser.Options, emit func(protocol.Value)) error {
	reader := utils.NewLimitedReader(src, opts.MaxInputLen)
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		if errors.Is(err, utils.ErrReadLimit) {
			err = parser.MakeInputLimitError(reader.Limit())
		}
		return err
	}
	data := buf.Bytes()
	logger.Debugf("read %d bytes", reader.Count())
	for pos := 0; pos < len(data); {
		node, err := parser.ParseWithOptions(rule, data[pos:], opts)
		if err != nil {
			return fmt.Errorf("element at offset %d: %w", pos, err)
		}
		value, err := parser.Extract(node)
		if err != nil {
			return err
		}
		emit(value)
		pos += node.End()
	}
	return nil
}
