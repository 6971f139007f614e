package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clinscan/clinscan/internal/patterns"
	"github.com/clinscan/clinscan/pkg/icd"
	"github.com/clinscan/clinscan/pkg/reference"
)

var (
	cfgFile string
	quiet   bool
	output  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clinscan",
	Short: "A CLI tool for extracting structured data from clinical documents",
	Long: `Clinscan extracts structured data from medical documents: clinical
narrative sections (diagnosis, treatment, history), blood test readings
from lab report PDFs, reference range classification, and ICD-10 code
identification.

All pattern data (section headers, trigger phrases, blood test synonyms,
reference ranges, ICD code tables) can be overlaid from YAML files via
the config file, so vocabulary changes never require a rebuild.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.clinscan.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (suppress verbose messages)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "human", "output format (human, json)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".clinscan" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".clinscan")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && !quiet {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadLibrary returns the pattern library, applying a YAML overlay when
// the config names one under the "patterns" key.
func loadLibrary() (*patterns.Library, error) {
	if path := viper.GetString("patterns"); path != "" {
		lib, err := patterns.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load pattern overlay: %w", err)
		}

		return lib, nil
	}

	return patterns.Default(), nil
}

// loadReferenceTable returns the reference range table, applying a YAML
// overlay when the config names one under "reference_ranges".
func loadReferenceTable() (*reference.Table, error) {
	if path := viper.GetString("reference_ranges"); path != "" {
		table, err := reference.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load reference range overlay: %w", err)
		}

		return table, nil
	}

	return reference.Default(), nil
}

// loadMapper returns the ICD mapper, applying a code table overlay when
// the config names one under "icd_codes".
func loadMapper() (*icd.Mapper, error) {
	if path := viper.GetString("icd_codes"); path != "" {
		mapper, err := icd.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load ICD code table: %w", err)
		}

		return mapper, nil
	}

	return icd.Default(), nil
}
