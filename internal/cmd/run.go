package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roleflow/roleflow/internal/config"
	"github.com/roleflow/roleflow/internal/core"
	"github.com/roleflow/roleflow/internal/errors"
	"github.com/roleflow/roleflow/internal/prompt"
	"github.com/roleflow/roleflow/internal/runner"
	"github.com/roleflow/roleflow/internal/scheduler"
)

var runFlags struct {
	extra           string
	profile         string
	vars            []string
	strictVars      bool
	dryRun          bool
	printCommand    bool
	repeatFor       string
	repeatEvery     string
	maxRuns         int
	continueOnError bool
}

var runCmd = &cobra.Command{
	Use:   "run <name> <task>",
	Short: "Run a template against a task",
	Long: `Compose the template's prompt with the given task and drive the
configured runner command with it, once or on a repeat cadence.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := config.Load(s)
		if err != nil {
			return err
		}
		_, template, err := s.LoadTemplate(args[0])
		if err != nil {
			return err
		}

		// Profile precedence: --profile, then the template binding, then
		// the config default.
		requested := runFlags.profile
		if requested == "" {
			requested = template.Profile
		}
		profileName, profile, err := config.ResolveProfile(cfg, requested)
		if err != nil {
			return err
		}

		userVars, err := prompt.ParseVars(runFlags.vars)
		if err != nil {
			return err
		}
		rendered, missing := prompt.Build(template, args[1], runFlags.extra, s.Root(), profileName, userVars)
		if len(missing) > 0 {
			if runFlags.strictVars {
				return errors.Newf(errors.CodeInvalidInput,
					"missing variable values for: %s", strings.Join(missing, ", "))
			}
			fmt.Fprintf(os.Stderr, "Warning: unresolved placeholders kept as-is: %s\n",
				strings.Join(missing, ", "))
		}

		repeatFor := strings.TrimSpace(runFlags.repeatFor)
		if repeatFor == "" {
			repeatFor = strings.TrimSpace(template.RepeatFor)
		}
		repeatEvery := strings.TrimSpace(runFlags.repeatEvery)
		if repeatEvery == "" {
			repeatEvery = strings.TrimSpace(template.RepeatEvery)
		}

		if cmd.Flags().Changed("max-runs") && runFlags.maxRuns <= 0 {
			return errors.New(errors.CodeInvalidCadence, "--max-runs must be greater than zero")
		}
		if repeatEvery != "" && repeatFor == "" {
			return errors.New(errors.CodeDanglingRepeatEvery,
				"--repeat-every requires repeat-for (CLI or template default)")
		}

		opts := scheduler.Options{
			MaxRuns:         runFlags.maxRuns,
			ContinueOnError: runFlags.continueOnError,
		}
		if repeatFor != "" {
			opts.RepeatForSeconds, err = core.ParseDurationSeconds(repeatFor, "repeat_for")
			if err != nil {
				return err
			}
			if repeatEvery == "" {
				repeatEvery = core.DefaultRepeatEvery
			}
		}
		if repeatEvery != "" {
			opts.RepeatEverySeconds, err = core.ParseDurationSeconds(repeatEvery, "repeat_every")
			if err != nil {
				return err
			}
		}
		if err := opts.Validate(); err != nil {
			return err
		}

		if runFlags.dryRun {
			fmt.Printf("# profile: %s\n\n", profileName)
			if opts.RepeatForSeconds > 0 {
				cadence := fmt.Sprintf("# cadence: repeat-for=%s repeat-every=%s", repeatFor, repeatEvery)
				if cmd.Flags().Changed("max-runs") {
					cadence += fmt.Sprintf(" max-runs=%d", runFlags.maxRuns)
				}
				fmt.Printf("%s\n\n", cadence)
			}
			fmt.Println(rendered)
			return nil
		}

		exec := runner.NewExecRunner()
		invoke := func(ctx context.Context) (int, error) {
			if runFlags.printCommand {
				fmt.Fprintln(os.Stderr, "Executing:", strings.Join(runner.CommandLine(profile, rendered), " "))
			}
			result, err := exec.Run(ctx, profile, rendered, runner.Options{})
			if err != nil {
				return 0, err
			}
			return result.ExitCode, nil
		}

		code, err := scheduler.New().Run(cmd.Context(), opts, invoke)
		if err != nil {
			return err
		}
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	flags := runCmd.Flags()
	flags.StringVar(&runFlags.extra, "extra", "", "additional context text")
	flags.StringVar(&runFlags.profile, "profile", "", "override the runner profile for this run")
	flags.StringArrayVar(&runFlags.vars, "var", nil, "template variable KEY=VALUE, repeatable")
	flags.BoolVar(&runFlags.strictVars, "strict-vars", false, "fail when any {{variable}} placeholder is unresolved")
	flags.BoolVar(&runFlags.dryRun, "dry-run", false, "print the composed prompt without executing the runner")
	flags.BoolVar(&runFlags.printCommand, "print-command", false, "print the runner command before execution")
	flags.StringVar(&runFlags.repeatFor, "repeat-for", "", "override the runtime window for repeated execution (e.g. 2h)")
	flags.StringVar(&runFlags.repeatEvery, "repeat-every", "", "override the repeat interval (e.g. 10m)")
	flags.IntVar(&runFlags.maxRuns, "max-runs", 0, "cap the number of repeated runs")
	flags.BoolVar(&runFlags.continueOnError, "continue-on-error", false, "keep repeating after a nonzero exit")
}
