package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pior/memcadm"
)

var rootCmd = &cobra.Command{
	Use:   "memcadm",
	Short: "An admin console for memcached's text protocol",
	Long: `memcadm talks to a single memcached server over the classic text
protocol. Run a subcommand for one-shot batch use, or run without a
subcommand to open an interactive shell.`,

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd)
	},
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file to load")

	configFlags := pflag.NewFlagSet("", pflag.ContinueOnError)
	configFlags.String("server", memcadm.DefaultAddr, "server address (host:port or unix socket path)")
	configFlags.Duration("timeout", memcadm.DefaultTimeout, "connect/read/write timeout")
	configFlags.Bool("verbose", false, "enable debug logging")

	rootCmd.PersistentFlags().AddFlagSet(configFlags)
	_ = viper.BindPFlags(configFlags)

	viper.SetEnvPrefix("MEMCADM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(
		getCmd,
		setCmd,
		deleteCmd,
		incrCmd,
		decrCmd,
		touchCmd,
		versionCmd,
		statsCmd,
		dumpCmd,
		flushCmd,
		shellCmd,
	)
}

func loadConfig() error {
	if cfgFile == "" {
		return nil
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	return nil
}

func newLogger() *zap.Logger {
	level := zap.InfoLevel
	if viper.GetBool("verbose") {
		level = zap.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)
	return zap.New(core)
}

// newDataSource builds the session from the merged flag/env/file config.
// The breaker keeps an interactive session from hammering a dead server.
func newDataSource() (*memcadm.DataSource, error) {
	if err := loadConfig(); err != nil {
		return nil, err
	}

	ds := memcadm.New(memcadm.Config{
		Addr:              viper.GetString("server"),
		Timeout:           viper.GetDuration("timeout"),
		Logger:            newLogger(),
		NewCircuitBreaker: memcadm.NewCircuitBreakerConfig(1, 30*time.Second, 5*time.Second),
	})
	return ds, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
