package internal

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goplus/winebuild/internal/config"
	"github.com/goplus/winebuild/internal/env"
	"github.com/goplus/winebuild/internal/logging"
	"github.com/goplus/winebuild/internal/orchestrator"
	"github.com/goplus/winebuild/internal/targets"
)

var (
	noCCache bool
	srcDir   string
	logLevel string
	dryRun   bool
)

var rootCmd = &cobra.Command{
	Use:   "winebuild",
	Short: "winebuild configures and builds Wine and DXVK",
	Long: `winebuild configures, builds and installs Wine and DXVK from a source tree
into the current directory. Option scripts in <src>/config_scripts may adjust
the flags and arguments of every project before it is configured.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&noCCache, "no-ccache", false, "Do not use ccache compiler shims")
	pf.StringVar(&srcDir, "src", "", "Source root (default: directory of the winebuild executable)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, or json[:level] (default $"+logging.EnvLevel+" or info)")
	pf.BoolVar(&dryRun, "dry-run", false, "Print the toolchain commands instead of running them")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}

// kindArgs accepts one or more of the known kinds.
var kindArgs = cobra.MatchAll(cobra.MinimumNArgs(1), cobra.OnlyValidArgs)

// runOptions merges the command line with winebuild.toml in buildDir.
// jobs < 0 means the flag was not given.
func runOptions(buildDir string, cmd orchestrator.Command, kinds []string, jobs int) (orchestrator.Options, error) {
	cfg, err := config.Load(filepath.Join(buildDir, config.FileName))
	if err != nil {
		return orchestrator.Options{}, err
	}

	src := srcDir
	if src == "" {
		src = cfg.Src
	}
	if src == "" {
		if src, err = env.DefaultSrcDir(); err != nil {
			return orchestrator.Options{}, fmt.Errorf("failed to locate source root: %w", err)
		}
	}
	if jobs < 0 {
		jobs = cfg.Jobs
	}
	var scripts string
	if cfg.Scripts != "" {
		scripts = cfg.ScriptsDir(src)
	}

	return orchestrator.Options{
		Command:    cmd,
		Kinds:      kinds,
		SrcDir:     src,
		BuildDir:   buildDir,
		Environ:    os.Environ(),
		Env:        cfg.Env,
		ScriptsDir: scripts,
		Jobs:       jobs,
		CCache:     cfg.CCacheEnabled(true) && !noCCache,
		DryRun:     dryRun,
		Logger:     logging.New("winebuild", logging.Level(logLevel), os.Stderr),
		Out:        os.Stdout,
	}, nil
}

// run executes the orchestrator command named like cmd.
func run(cmd *cobra.Command, kinds []string, jobs int) error {
	command, err := orchestrator.ParseCommand(cmd.Name())
	if err != nil {
		return err
	}
	buildDir, err := os.Getwd()
	if err != nil {
		return err
	}
	opts, err := runOptions(buildDir, command, kinds, jobs)
	if err != nil {
		return err
	}
	return orchestrator.Run(cmd.Context(), opts)
}

func validKinds() []string {
	return append([]string(nil), targets.Kinds...)
}
