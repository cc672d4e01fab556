package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/DrSkyle/amlgraph/pkg/config"
	"github.com/DrSkyle/amlgraph/pkg/engine"
	"github.com/DrSkyle/amlgraph/pkg/metrics"
	"github.com/DrSkyle/amlgraph/pkg/source"
	"github.com/DrSkyle/amlgraph/pkg/telemetry"
	"github.com/DrSkyle/amlgraph/pkg/version"
)

var (
	cfgFile string
	logger  *slog.Logger
	cfg     config.Config

	shutdownTracing func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   version.AppName,
	Short: "AML entity and transaction network graph engine",
	Long: `amlgraph - Anti-Money-Laundering Network Analysis

Normalize. Classify. Analyze. Explore.`,
	Version:       version.Current,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shutdownTracing == nil {
			return nil
		}
		return shutdownTracing(context.Background())
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Threshold and rule config file (YAML)")
	pf.Bool("log-json", false, "Emit JSON logs")
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.String("otel-endpoint", "", "OTLP/HTTP trace endpoint")
	pf.String("profile", "", "AWS shared config profile for s3:// payloads")
	pf.String("region", "", "AWS region for s3:// payloads")
	pf.String("s3-endpoint", "", "Custom S3 endpoint (path-style), e.g. LocalStack")
	_ = viper.BindPFlags(pf)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

func initConfig() {
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// setup builds the logger, loads thresholds and starts tracing.
func setup(ctx context.Context) error {
	logger = engine.NewLogger(os.Stderr, viper.GetBool("log-json"), logLevel())
	slog.SetDefault(logger)

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	shutdownTracing, err = telemetry.Init(ctx, telemetry.Config{
		ServiceName:    version.AppName,
		ServiceVersion: version.Current,
		Endpoint:       viper.GetString("otel-endpoint"),
	})
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	return nil
}

func logLevel() slog.Level {
	if viper.GetBool("verbose") {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// newPipeline builds the pipeline from the loaded config.
func newPipeline(m *metrics.Collector) (*engine.Pipeline, error) {
	return engine.New(
		engine.WithLogger(logger),
		engine.WithConfig(cfg),
		engine.WithMetrics(m),
	)
}

// sourceOptions maps the AWS flags onto the S3 client.
func sourceOptions() source.Options {
	opts := source.Options{Logger: logger}
	if p := viper.GetString("profile"); p != "" {
		opts.AWS = append(opts.AWS, awsconfig.WithSharedConfigProfile(p))
	}
	if r := viper.GetString("region"); r != "" {
		opts.AWS = append(opts.AWS, awsconfig.WithRegion(r))
	}
	if ep := viper.GetString("s3-endpoint"); ep != "" {
		opts.S3 = append(opts.S3, func(o *s3.Options) {
			o.BaseEndpoint = &ep
			o.UsePathStyle = true
		})
	}
	return opts
}

// auditRead logs which AWS account an s3:// payload is read with.
func auditRead(ctx context.Context, uri string, opts source.Options) {
	loc, err := source.Parse(uri)
	if err != nil || loc.Local {
		return
	}
	account, err := source.CallerAccount(ctx, opts)
	if err != nil {
		logger.Warn("Could not resolve AWS identity", "uri", uri, "error", err)
		return
	}
	logger.Info("Reading case payload", "uri", uri, "account", account)
}

func renderHelp(cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Println(titleStyle.Render(fmt.Sprintf("AMLGRAPH %s", version.Current)))
	fmt.Println("Entity and transaction network analysis for AML investigations.")

	fmt.Println(titleStyle.Render("USAGE"))
	fmt.Printf("  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Println(titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Printf("  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Println("")
	}

	fmt.Println(titleStyle.Render("EXAMPLES"))
	fmt.Println("  amlgraph analyze network.json --center E-1001   # Headless summary")
	fmt.Println("  amlgraph explore s3://cases/case-42.yaml        # Interactive explorer")
	fmt.Println("")

	fmt.Println(titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Println(flagStyle.Render(output))
	})
	fmt.Println("")
}
