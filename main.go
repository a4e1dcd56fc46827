package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"id3/pkg"
	"id3/pkg/config"
)

func TrainCommand() *cobra.Command {

	var configFile string
	flags := config.Default()

	var cmd = &cobra.Command{
		Use:          "train -s setupFile -i trainFile [--test-file testFile]",
		Short:        "Builds a decision tree on the provided training data and scores it on the test data",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(configFile)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), &conf, &flags)
			_, err = pkg.Train(conf, cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "configuration file (yaml, toml or json)")
	cmd.Flags().StringVarP(&flags.Dataset.SetupFile, "setup-file", "s", "", "name of the attribute setup file")
	cmd.Flags().StringVarP(&flags.Dataset.TrainFile, "train-file", "i", "", "name of train file")
	cmd.Flags().StringVarP(&flags.Dataset.TestFile, "test-file", "", "", "name of test file")
	cmd.Flags().Float64VarP(&flags.Dataset.HoldoutFraction, "holdout", "", flags.Dataset.HoldoutFraction, "fraction of training rows to test on when no test file is given")
	cmd.Flags().Int64VarP(&flags.Dataset.Seed, "random-seed", "x", flags.Dataset.Seed, "random seed for the holdout split")
	cmd.Flags().StringVarP(&flags.Dataset.UnknownToken, "unknown-token", "", flags.Dataset.UnknownToken, "token marking an unknown value")
	cmd.Flags().StringVarP(&flags.Dataset.Separator, "separator", "", flags.Dataset.Separator, "field separator of the data files")
	cmd.Flags().IntVarP(&flags.Tree.MaxContinuousUses, "max-continuous-uses", "u", flags.Tree.MaxContinuousUses, "maximum number of splits on one continuous attribute")
	cmd.Flags().StringVarP(&flags.Output.PredictionsFile, "output-file", "o", "", "name of the file to write test predictions to")
	cmd.Flags().BoolVarP(&flags.Output.PrintTree, "print-tree", "p", false, "print the tree")

	return cmd
}

// applyFlags copies the flags set on the command line over the configuration.
func applyFlags(fs *pflag.FlagSet, conf, flags *config.Config) {
	overrides := map[string]func(){
		"setup-file":          func() { conf.Dataset.SetupFile = flags.Dataset.SetupFile },
		"train-file":          func() { conf.Dataset.TrainFile = flags.Dataset.TrainFile },
		"test-file":           func() { conf.Dataset.TestFile = flags.Dataset.TestFile },
		"holdout":             func() { conf.Dataset.HoldoutFraction = flags.Dataset.HoldoutFraction },
		"random-seed":         func() { conf.Dataset.Seed = flags.Dataset.Seed },
		"unknown-token":       func() { conf.Dataset.UnknownToken = flags.Dataset.UnknownToken },
		"separator":           func() { conf.Dataset.Separator = flags.Dataset.Separator },
		"max-continuous-uses": func() { conf.Tree.MaxContinuousUses = flags.Tree.MaxContinuousUses },
		"output-file":         func() { conf.Output.PredictionsFile = flags.Output.PredictionsFile },
		"print-tree":          func() { conf.Output.PrintTree = flags.Output.PrintTree },
	}
	for name, apply := range overrides {
		if fs.Changed(name) {
			apply()
		}
	}
}

var logLevel string
var logFormat string

func main() {

	Main := &cobra.Command{Use: "id3", PersistentPreRunE: setupLogging}

	Main.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "Logging level: info error or debug")
	Main.PersistentFlags().StringVarP(&logFormat, "log-format", "", "pretty", "Logging format: pretty or json")

	Main.AddCommand(TrainCommand())

	if err := Main.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {

	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		return fmt.Errorf("invalid logging level %q", logLevel)
	}

	switch logFormat {
	case "pretty":
		setupPrettyLogging()
	case "json":
	default:
		return fmt.Errorf("invalid log format %q", logFormat)
	}
	return nil
}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = func(i interface{}) string {
		switch v := i.(type) {
		case json.Number:
			val, _ := v.Float64()
			return fmt.Sprintf("%.3f", val)
		default:
			return fmt.Sprintf("%s", i)
		}

	}
	log.Logger = log.Output(writer)

}
