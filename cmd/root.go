package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version   = "0.1.0"
	verbose   bool
	logFormat string

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "colorfx",
	Short: "Apply color-matrix filters to images",
	Long: `colorfx applies 5x4 color matrices (sepia, grayscale, hue rotation,
color-blindness simulation, or your own) to whole images or rectangular
regions, in parallel, and records every output in a manifest.`,
	Version: version,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return initLogger()
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"colorfx %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

func initLogger() error {
	log.SetOutput(os.Stderr)
	switch logFormat {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: !verbose})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown --log-format %q (want text or json)", logFormat)
	}
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return nil
}
