package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "shopchat",
	Short: "Conversational product-discovery assistant",
	Long: `Shopchat turns free-text shopper messages into classified intents,
extracts price and category constraints, ranks a cached product catalog,
and replies with product suggestions, escalating to a human operator
when the conversation calls for it.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".shopchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
