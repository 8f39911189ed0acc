package cmd

import (
	"os"
	"strings"

	"github.com/imagespy/archcheck/checker"
	"github.com/imagespy/archcheck/registry"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "archcheck",
	Short: "Checks which architectures images on Docker Hub support",
	Long: `archcheck verifies that images on Docker Hub are published for the
amd64 and arm64 architectures.

The check is offered as a tool of an MCP server (archcheck mcp), through an
HTTP API (archcheck server) and on the command line (archcheck check).`,
	SilenceUsage: true,
}

// Execute runs the command line interface.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("archcheck")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	if configFile == "" {
		return
	}

	viper.SetConfigFile(configFile)
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatalf("reading configuration file %s: %s", configFile, err)
	}
}

func mustInitLogging() {
	lvl, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.Fatal(err)
	}

	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	registry.SetLog(log.StandardLogger())
}

func newChecker() *checker.Checker {
	c := registry.NewClient(registry.Opts{
		AuthURL:     viper.GetString("registry.auth-url"),
		RegistryURL: viper.GetString("registry.url"),
		Timeout:     viper.GetDuration("registry.timeout"),
	})
	return checker.NewChecker(c)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a configuration file")
	rootCmd.PersistentFlags().String("log.level", "warn", "set the log level")
	rootCmd.PersistentFlags().String("registry.auth-url", registry.DefaultAuthURL, "the token service to request pull tokens from")
	rootCmd.PersistentFlags().String("registry.url", registry.DefaultRegistryURL, "the registry to read manifest lists from")
	rootCmd.PersistentFlags().Duration("registry.timeout", registry.DefaultTimeout, "timeout of each request sent to the token service or the registry")
	viper.BindPFlags(rootCmd.PersistentFlags())
}
