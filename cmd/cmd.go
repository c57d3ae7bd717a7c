package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Nrich-sunny/ptt-crawler/cmd/crawl"
	"github.com/Nrich-sunny/ptt-crawler/parse/ptt"
	"github.com/Nrich-sunny/ptt-crawler/version"
	"github.com/spf13/cobra"
)

var ConfigPath string
var SpiderNames []string

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "run ptt spiders.",
	Long:  "crawl provinces, districts and neighborhoods and emit every post office / parcel locker.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return crawl.Run(ctx, ConfigPath, SpiderNames)
	},
}

var hoursCmd = &cobra.Command{
	Use:   "hours WEEKDAY SATURDAY SUNDAY",
	Short: "convert ptt hour strings to opening_hours.",
	Long:  `convert ptt hour strings to opening_hours, e.g. crawler hours "08:30-17:30" "09:00-13:00" KAPALI`,
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		oh := ptt.ParseOpeningHours(args[0], args[1], args[2])
		fmt.Fprintln(cmd.OutOrStdout(), oh.AsOpeningHours())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Fprint(cmd.OutOrStdout())
	},
}

func NewRootCmd() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:           "crawler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(crawlCmd, hoursCmd, versionCmd)
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	crawlCmd.Flags().StringVar(&ConfigPath, "config", "config.toml", "set config file path")
	crawlCmd.Flags().StringSliceVar(&SpiderNames, "spider", nil, "run only the named spiders (ptt_tr, ptt_kargomat_tr)")
}
