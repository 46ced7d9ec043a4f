package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

// CobraProfiler adds --cpu-profile, --mem-profile and --timing to a command
// tree.
type CobraProfiler struct {
	cpuPath string
	memPath string
	timing  bool
	cpuFile *os.File
}

// NewCobraProfiler creates a profiler with no flags set.
func NewCobraProfiler() *CobraProfiler {
	return &CobraProfiler{}
}

// Attach registers the flags on cmd and hooks the profiler into its
// persistent pre and post run.
func (p *CobraProfiler) Attach(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuPath, "cpu-profile", "", "Write a CPU profile to file")
	cmd.PersistentFlags().StringVar(&p.memPath, "mem-profile", "", "Write a heap profile to file")
	cmd.PersistentFlags().BoolVar(&p.timing, "timing", false, "Print a timing summary on exit")
	cmd.PersistentPreRunE = p.PreRun
	cmd.PersistentPostRun = p.PostRun
}

// PreRun starts the requested profiles.
func (p *CobraProfiler) PreRun(cmd *cobra.Command, args []string) error {
	if p.timing {
		Enable()
	}
	if p.cpuPath == "" {
		return nil
	}
	f, err := os.Create(p.cpuPath)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("could not start CPU profile: %w", err)
	}
	p.cpuFile = f
	return nil
}

// PostRun writes profiles and the timing summary to stderr.
func (p *CobraProfiler) PostRun(cmd *cobra.Command, args []string) {
	errOut := cmd.ErrOrStderr()
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
		p.cpuFile = nil
		fmt.Fprintf(errOut, "CPU profile written to %s\n", p.cpuPath)
	}
	if p.memPath != "" {
		if err := writeHeapProfile(p.memPath); err != nil {
			fmt.Fprintf(errOut, "could not write memory profile: %v\n", err)
		} else {
			fmt.Fprintf(errOut, "Memory profile written to %s\n", p.memPath)
		}
	}
	if p.timing {
		Summarize(errOut)
	}
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
