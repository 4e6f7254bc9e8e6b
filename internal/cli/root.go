package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/veritas/internal/model"
)

const version = "veritas v0.1.0"

var (
	cfgFile     string
	verbose     bool
	format      string
	noDelay     bool
	noCache     bool
	endpoint    string
	llmProvider string
	llmModel    string
	seed        int64
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "veritas",
	Short: "Veritas - content authenticity checker (demo)",
	Long: `Veritas checks article text, article URLs, images and videos and
reports how likely they are to be fake or manipulated.

Scores come from a randomized demo generator, a remote video analysis
service, or an optional LLM backend. They are not a verdict on truth.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.veritas/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&format, "format", "text", "output format (text, html, json)")
	flags.BoolVar(&noDelay, "no-delay", false, "skip the demo analysis delay")
	flags.BoolVar(&noCache, "no-cache", false, "disable the page cache")
	flags.StringVar(&endpoint, "endpoint", "", "video analysis endpoint")
	flags.StringVar(&llmProvider, "llm", "", "LLM provider for text analysis (openai)")
	flags.StringVar(&llmModel, "llm-model", "", "LLM model name")
	flags.Int64Var(&seed, "seed", 0, "demo generator seed (0 = random)")

	_ = viper.BindPFlag("output.verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("output.format", flags.Lookup("format"))
	_ = viper.BindPFlag("remote.endpoint", flags.Lookup("endpoint"))
	_ = viper.BindPFlag("llm.provider", flags.Lookup("llm"))
	_ = viper.BindPFlag("llm.model", flags.Lookup("llm-model"))
	_ = viper.BindPFlag("demo.seed", flags.Lookup("seed"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.veritas")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := setDefaults(viper.GetViper(), model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
	}

	// VERITAS_LLM_API_KEY, VERITAS_REMOTE_ENDPOINT, ...
	viper.SetEnvPrefix("VERITAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("llm.api_key", "VERITAS_LLM_API_KEY", "OPENAI_API_KEY")
	// Keys omitted from the defaults
	for _, key := range []string{"http.http_proxy", "http.https_proxy", "llm.base_url"} {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key of cfg with v so env variables can
// override keys that no config file sets
func setDefaults(v *viper.Viper, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	flattenInto(v, "", tree)
	return nil
}

func flattenInto(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok {
			flattenInto(v, full, sub)
			continue
		}
		v.SetDefault(full, value)
	}
}

// loadConfig builds the effective configuration from defaults, config
// file, environment and flags
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if noDelay {
		cfg.Demo.TextDelay = 0
		cfg.Demo.MediaDelay = 0
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	switch cfg.Output.Format {
	case "text", "html", "json":
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, html or json)", cfg.Output.Format)
	}
	return cfg, nil
}

// newLogger returns the structured logger; quiet unless verbose
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
