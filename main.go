package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/purenv/environment/envconfig"
	"github.com/samuelfneumann/purenv/experiment"
	"github.com/samuelfneumann/purenv/experiment/trackers"
	"github.com/samuelfneumann/purenv/utils/progressbar"
)

func main() {
	// PURENV_CONFIG may be given in a .env file
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "purenv",
		Short: "purenv runs policies in pure reinforcement learning environments",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered environments",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range envconfig.Default().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a uniform random policy in a configured environment",
		RunE:  run,
	}
	runCmd.Flags().StringP("config", "c", os.Getenv("PURENV_CONFIG"),
		"environment config file")
	runCmd.Flags().IntP("steps", "n", 10_000, "steps per trajectory")
	runCmd.Flags().IntP("workers", "w", 1,
		"goroutines stepping the batch, < 1 uses all CPUs")
	runCmd.Flags().StringP("out", "o", ".", "directory to save data in")
	runCmd.Flags().BoolP("verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(listCmd, runCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config")
	steps, _ := flags.GetInt("steps")
	workers, _ := flags.GetInt("workers")
	out, _ := flags.GetString("out")
	verbose, _ := flags.GetBool("verbose")

	if configFile == "" {
		return fmt.Errorf("run: no config file given")
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
		&slog.HandlerOptions{Level: level}))

	config, err := envconfig.LoadConfigFile(configFile)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	env, params, err := config.Create(
		envconfig.Default(envconfig.WithLogger(logger)))
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	returns := trackers.NewReturn(filepath.Join(out, "returns.bin"))
	lengths := trackers.NewEpisodeLength(filepath.Join(out, "lengths.bin"))
	bar := progressbar.NewProgressBar(cmd.ErrOrStderr(), 40, steps)

	e := experiment.NewOnline(env, params, experiment.NewRandom(env, params),
		steps,
		experiment.WithWorkers(workers),
		experiment.WithTrackers(returns, lengths),
		experiment.WithProgress(bar),
		experiment.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = e.Run(ctx, config.Keys())
	bar.Close()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := e.Save(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if data := returns.Data(); len(data) > 0 {
		mean, std := stat.MeanStdDev(data, nil)
		fmt.Fprintf(cmd.OutOrStdout(), "episodes: %d return: %.3f ± %.3f "+
			"length: %.1f\n", len(data), mean, std,
			stat.Mean(lengths.Data(), nil))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "no episodes finished")
	}
	return nil
}
