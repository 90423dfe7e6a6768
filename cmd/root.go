/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/nekrea/readfiles"
)

var (
	cfgFile     string
	profileMode string
	profiler    interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nekrea",
	Short: "Read, inspect, edit and rewrite Nek5000 reafiles",
	Long: `
Reads Nek5000 .rea files (plain or zstd compressed .rea.zst), reports on their
mesh and boundary conditions, applies YAML edit files and writes them back out.

nekrea info box.rea
nekrea edit box.rea edits.yaml box_heated.rea`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch profileMode {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		default:
			return fmt.Errorf("unknown profile mode %q, use cpu or mem", profileMode)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
			profiler = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.nekrea.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log each section as it is read and written")
	rootCmd.PersistentFlags().StringVar(&profileMode, "profile", "", "write a cpu or mem profile to the current directory")
	rootCmd.PersistentFlags().Bool("noProvenance", false, "do not append the generator comment block to written files")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("provenance.disable", rootCmd.PersistentFlags().Lookup("noProvenance"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(expandPath(cfgFile))
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".nekrea" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".nekrea")
	}

	viper.SetEnvPrefix("NEKREA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// expandPath resolves a leading ~ in paths given on the command line or in the config.
func expandPath(path string) string {
	if expanded, err := homedir.Expand(path); err == nil {
		return expanded
	}
	return path
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func readOptions(cmd *cobra.Command) []readfiles.Option {
	return []readfiles.Option{readfiles.WithLogger(newLogger(cmd.ErrOrStderr()))}
}

// writeOptions stamps written files unless provenance.disable is set, user and
// host can be overridden for reproducible output.
func writeOptions(cmd *cobra.Command) []readfiles.Option {
	opts := readOptions(cmd)
	if viper.GetBool("provenance.disable") {
		return append(opts, readfiles.WithoutProvenance())
	}
	p := readfiles.DefaultProvenance()
	if user := viper.GetString("provenance.user"); user != "" {
		p.User = user
	}
	if host := viper.GetString("provenance.host"); host != "" {
		p.Host = host
	}
	return append(opts, readfiles.WithProvenance(p))
}
