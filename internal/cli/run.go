package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"convcompare/internal/config"
	"convcompare/internal/runner"
	"convcompare/internal/target"
	"convcompare/internal/ui/live"
)

// Test seams.
var (
	runAndWrite                  = runner.RunAndWrite
	sleep       target.SleepFunc = target.Sleep
)

type runOptions struct {
	baseURL     string
	outputDir   string
	assumeReady bool
	uiMode      string
}

func newRunCommand(global *globalOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [configuration...]",
		Short: "Run every scenario against each server configuration and write the JSON dump and report",
		Long: "Runs the scenario catalog once per configuration. Between configurations the\n" +
			"command prints what to change on the server and waits for Enter.\n" +
			"Configuration names may be given to run a subset, in the given order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(cmd, global, opts, args)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.baseURL, "base-url", "", "Target server base URL (default: target.base_url from config)")
	flags.StringVar(&opts.outputDir, "output-dir", "", "Override output directory")
	flags.BoolVar(&opts.assumeReady, "assume-ready", false, "Do not wait for confirmation between configurations")
	flags.StringVar(&opts.uiMode, "ui", "auto", "Progress display (auto|live|plain)")
	return cmd
}

func executeRun(cmd *cobra.Command, global *globalOptions, opts *runOptions, args []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	logger, err := newLogger(stderr, global)
	if err != nil {
		return err
	}
	if opts.baseURL != "" {
		if err := config.ValidateBaseURL(opts.baseURL); err != nil {
			return usageErrorf("invalid --base-url: %v", err)
		}
	}
	decision, err := resolveUIMode(opts.uiMode, stdout)
	if err != nil {
		return usageErrorf("%v", err)
	}
	if decision.warning != "" {
		fmt.Fprintln(stderr, decision.warning)
	}

	cfg, source, err := loadConfig(global, logger)
	if err != nil {
		return failf("Failed to load config: %v", err)
	}
	selectors := runner.ParseSelectors(args)
	if _, err := runner.SelectConfigurations(cfg, selectors); err != nil {
		return usageErrorf("%v", err)
	}
	logger.Info().Str("config", source).Msg("starting run")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var observer runner.RunObserver
	if decision.useLive {
		controller := live.NewController(stdout, live.Options{
			NoColor:   global.noColor,
			AltScreen: true,
			Interrupt: cancel,
		})
		defer controller.Close()
		observer = controller
	} else {
		observer = runner.NewConsole(stdout, global.noColor)
	}

	var gate runner.Gate = runner.ReadyGate{}
	if !opts.assumeReady {
		gate = newPromptGate(stdin, stdout)
	}

	run, paths, err := runAndWrite(ctx, cfg, runner.RunParams{
		BaseURL:   opts.baseURL,
		Selectors: selectors,
		OutputDir: opts.outputDir,
		Deps: runner.RunDependencies{
			Gate:     gate,
			Observer: observer,
			Sleep:    sleep,
			Logger:   logger,
		},
	})
	if errors.Is(err, runner.ErrTargetUnavailable) {
		return failf("서버에 연결할 수 없습니다. 서버가 실행 중인지 확인하세요.\n%v", err)
	}
	if err != nil {
		if run.RunID != "" {
			return failf("Run %s finished but its outputs could not be written: %v", run.RunID, err)
		}
		return failf("Run failed: %v", err)
	}

	fmt.Fprintf(stdout, "\n📄 결과 저장: %s\n", paths.ResultsPath())
	fmt.Fprintf(stdout, "📊 보고서 저장: %s\n", paths.ReportPath())
	if run.Aborted {
		return failf("Run %s was aborted; outputs contain %d configuration(s).", run.RunID, len(run.Configurations))
	}
	return nil
}
