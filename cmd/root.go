package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kilianp07/carrierassign/app"
	"github.com/kilianp07/carrierassign/config"
	"github.com/kilianp07/carrierassign/infra/logger"
)

var (
	cfgPath string
	envFile string

	inputPath  string
	sense      string
	outputPath string
	format     string
)

var rootCmd = &cobra.Command{
	Use:   "carrierassign",
	Short: "Assign shipments to carriers from historical lateness",
	Long: `carrierassign scores every carrier from its historical lateness, solves the
exactly-one-carrier-per-shipment assignment as a linear program and prints a
summary of the result.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnv,
	RunE:              runAssign,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Solve the assignment and write the report (default command)",
	RunE:  runAssign,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "shipment dataset (.csv or .json)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "report format: text, json or csv")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "report file, stdout when empty")
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().StringVar(&sense, "sense", "", "objective direction: maximize or minimize")
	}
	rootCmd.AddCommand(runCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadEnv reads the dotenv file so K_ variables can override the configuration.
func loadEnv(*cobra.Command, []string) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

// loadConfig loads the configuration and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if inputPath != "" {
		cfg.Input.Path = inputPath
	}
	if sense != "" {
		cfg.Optimizer.Sense = sense
	}
	if outputPath != "" {
		cfg.Report.Output = outputPath
	}
	if format != "" {
		cfg.Report.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Input.Path == "" {
		return nil, fmt.Errorf("no input dataset: set --input or input.path")
	}
	return cfg, nil
}

func runAssign(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			logger.New("main").Errorf("pipeline close: %v", err)
		}
	}()

	rep, err := p.Run(ctx, cfg.Input.Path)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), cfg.Report.Output, func(w io.Writer) error {
		return app.WriteReport(w, cfg.Report.Format, rep)
	})
}

// writeOutput sends the rendering of write to path, or to stdout when path
// is empty.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
