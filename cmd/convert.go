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

	"github.com/spf13/cobra"

	"github.com/notargets/nekrea/readfiles"
)

// ConvertCmd represents the convert command
var ConvertCmd = &cobra.Command{
	Use:   "convert IN OUT",
	Short: "Read a reafile and write it back out, compressing or decompressing by the .zst suffix",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readfiles.ReadReaFile(expandPath(args[0]), readOptions(cmd)...)
		if err != nil {
			return err
		}
		out := expandPath(args[1])
		if err = readfiles.WriteReaFile(out, doc, writeOptions(cmd)...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %s\n", out, doc.Properties)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ConvertCmd)
}
