package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joshuapare/regkeyitem/keyitem"
)

var (
	cfgFile      string
	maxDepth     int
	cacheSize    int
	codepageName string
	tolerant     bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "regkeyitem",
	Short: "Decode the key-item subtree of a REGF hive file",
	Long: `regkeyitem opens a Windows Registry hive file and decodes its
key-item subtree: nk/sk cells, class names, values lists, and the
sub-keys index, under a mark-corrupted-but-continue traversal policy.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("max-depth") {
			viper.Set("max_depth", maxDepth)
		}
		if cmd.Flags().Changed("cache-size") {
			viper.Set("cache_size", cacheSize)
		}
		if cmd.Flags().Changed("codepage") {
			viper.Set("codepage", codepageName)
		}
		if cmd.Flags().Changed("tolerant") {
			viper.Set("tolerant", tolerant)
		}
		if verbose {
			keyitem.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: search standard locations)")
	rootCmd.PersistentFlags().
		IntVar(&maxDepth, "max-depth", keyitem.DefaultMaxSubkeyRecursionDepth, "sub-keys ri recursion depth cap")
	rootCmd.PersistentFlags().
		IntVar(&cacheSize, "cache-size", keyitem.DefaultMaxValueCacheEntries, "per-key value cache capacity")
	rootCmd.PersistentFlags().StringVar(&codepageName, "codepage", "cp1252", "single-byte code page for ASCII-flagged names")
	rootCmd.PersistentFlags().BoolVar(&tolerant, "tolerant", true, "continue past out-of-range offsets instead of failing")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")

	viper.BindPFlag("max_depth", rootCmd.PersistentFlags().Lookup("max-depth"))
	viper.BindPFlag("cache_size", rootCmd.PersistentFlags().Lookup("cache-size"))
	viper.BindPFlag("codepage", rootCmd.PersistentFlags().Lookup("codepage"))
	viper.BindPFlag("tolerant", rootCmd.PersistentFlags().Lookup("tolerant"))

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("regkeyitem")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}
	viper.SetEnvPrefix("REGKEYITEM")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // absence of a config file is not an error
}

func execute() {
	rootCmd.AddCommand(newDumpCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
