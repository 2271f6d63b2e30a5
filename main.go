package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/thiremani/irgen/codegen"
	"github.com/thiremani/irgen/config"
	"github.com/thiremani/irgen/intrinsics"
	"github.com/thiremani/irgen/ir"
	"github.com/thiremani/irgen/llvmgen"
	"github.com/thiremani/irgen/samples"
)

// rootOptions holds the global flags.
type rootOptions struct {
	LogToStderr bool
	Verbose     int
}

// initLogging forwards the logging flags to glog, which reads them from the
// standard flag set.
func initLogging(opts *rootOptions) {
	if !flag.Parsed() {
		_ = flag.CommandLine.Parse([]string{})
	}
	if opts.LogToStderr {
		_ = flag.Set("logtostderr", "true")
	}
	if opts.Verbose > 0 {
		_ = flag.Set("v", strconv.Itoa(opts.Verbose))
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "irgen",
		Short: "Lower bound programs to block IR",
		Long: `irgen compiles bound programs to a register-based block IR and,
optionally, to LLVM assembly.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			glog.Flush()
		},
	}
	cmd.PersistentFlags().BoolVar(&opts.LogToStderr, "logtostderr", false, "log to standard error instead of files")
	cmd.PersistentFlags().IntVarP(&opts.Verbose, "verbose", "v", 0, "log verbosity level")

	cmd.AddCommand(newBuildCommand())
	cmd.AddCommand(newSamplesCommand())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

type buildOptions struct {
	ConfigPath string
	Output     string
	EmitLLVM   bool
}

func newBuildCommand() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build <sample>",
		Short: "Compile a sample program",
		Long: `Compile a sample program and write <assembly>.ir, plus <assembly>.ll
when LLVM output is enabled.

Without --config the assembly is named after the sample and uses the
sample's entry convention.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML build file")
	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "output directory (overrides the build file)")
	cmd.Flags().BoolVar(&opts.EmitLLVM, "llvm", false, "also emit LLVM assembly")
	return cmd
}

func runBuild(cmd *cobra.Command, opts *buildOptions, name string) error {
	s, ok := samples.Lookup(name)
	if !ok {
		return errors.Errorf("unknown sample %q, see `irgen samples`", name)
	}

	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return err
		}
	} else {
		cfg.Assembly = s.Name
		cfg.Entry = config.EntryName(s.Entry)
	}
	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	cfg.EmitLLVM = cfg.EmitLLVM || opts.EmitLLVM

	cg, err := cfg.Codegen(intrinsics.WellKnown())
	if err != nil {
		return err
	}
	asm, err := codegen.GenerateAssembly(s.Build(), cg)
	if err != nil {
		return err
	}

	var ll string
	if cfg.EmitLLVM {
		if ll, err = llvmgen.Emit(asm); err != nil {
			return err
		}
	}
	written, err := writeOutputs(cfg.Output, asm.Name, ir.Format(asm), ll)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

func newSamplesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "samples",
		Short: "List the sample programs",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			listSamples(cmd.OutOrStdout())
		},
	}
}

func listSamples(w io.Writer) {
	for _, s := range samples.All() {
		fmt.Fprintf(w, "%-10s %s\n", s.Name, s.Description)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
