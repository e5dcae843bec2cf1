package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "auditparser",
	Short: "auditparser — AppArmor event reports from auditd logs",
	Long: `auditparser reads auditd logs, classifies the embedded AppArmor AVC
events, and summarizes them per profile: deduplicated denial reports,
candidate policy-rule fixes, or a live stream of events as they happen.`,
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

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.auditparser.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".auditparser")
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("logfile", "/var/log/audit/audit.log")
	viper.SetDefault("since", "1d")
	viper.SetDefault("port", "8080")

	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}
