// Package cmd implements the print-macho command line.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	macho "github.com/appsworld/print-macho"
	"github.com/appsworld/print-macho/pkg/report"
	"github.com/appsworld/print-macho/types"
)

// EnvPrefix prefixes the environment variables that override flags, e.g.
// PRINT_MACHO_VERBOSE=1.
const EnvPrefix = "PRINT_MACHO"

// NewRootCmd returns the print-macho command with its own config registry.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "print-macho <MACHO>",
		Short: "The MachO file format analyzer",
		Long: `Dump the mach header, load commands, segments, sections, symbol table
and dynamic symbol table of a thin little-endian MachO file.

With no part selected every part is printed.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
				return nil
			}

			if v.GetBool("verbose") {
				log.SetLevel(log.DebugLevel)
			}

			filter, err := loadFilter(v.GetStringSlice("filter"))
			if err != nil {
				return err
			}

			opts := report.Options{
				Header:  v.GetBool("header"),
				Loads:   v.GetBool("loads"),
				Symbols: v.GetBool("symbols"),
				Strings: v.GetBool("strings"),
			}
			if opts == (report.Options{}) {
				opts = report.All
			}

			machoPath := filepath.Clean(args[0])

			fp, err := os.Open(machoPath)
			if err != nil {
				return errors.Wrapf(err, "couldn't open %s", machoPath)
			}
			defer fp.Close()

			m, err := macho.NewFile(fp, macho.FileConfig{LoadFilter: filter})
			if err != nil {
				return errors.Wrapf(err, "failed to parse %s", machoPath)
			}

			log.WithFields(log.Fields{
				"file":  machoPath,
				"loads": len(m.Loads),
				"end":   m.EndOffset,
			}).Debug("parsed MachO")

			return report.Write(cmd.OutOrStdout(), m, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/print-macho/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "verbose output")
	rootCmd.Flags().BoolP("header", "d", false, "Print the mach header")
	rootCmd.Flags().BoolP("loads", "l", false, "Print the load commands")
	rootCmd.Flags().BoolP("symbols", "n", false, "Print the symbol table")
	rootCmd.Flags().BoolP("strings", "c", false, "Print the string table")
	rootCmd.Flags().StringSliceP("filter", "f", nil, "Only decode these load commands (e.g. LC_SEGMENT_64,LC_SYMTAB)")

	v.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	v.BindPFlag("header", rootCmd.Flags().Lookup("header"))
	v.BindPFlag("loads", rootCmd.Flags().Lookup("loads"))
	v.BindPFlag("symbols", rootCmd.Flags().Lookup("symbols"))
	v.BindPFlag("strings", rootCmd.Flags().Lookup("strings"))
	v.BindPFlag("filter", rootCmd.Flags().Lookup("filter"))

	return rootCmd
}

// initConfig reads the config file, if any, and enables the environment overrides.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(filepath.Join(home, ".config", "print-macho"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return errors.Wrap(err, "failed to read config")
	}
	log.WithField("config", v.ConfigFileUsed()).Debug("using config file")
	return nil
}

// loadFilter resolves load command names. Each entry may itself be a comma
// separated list, as env and config values arrive unsplit.
func loadFilter(names []string) ([]types.LoadCmd, error) {
	var filter []types.LoadCmd
	for _, entry := range names {
		for _, name := range strings.Split(entry, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			lc, ok := types.LoadCmdFromName(name)
			if !ok {
				return nil, errors.Errorf("unknown load command %q", name)
			}
			filter = append(filter, lc)
		}
	}
	return filter, nil
}
