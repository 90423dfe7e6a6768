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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/nekrea/InputParameters"
	"github.com/notargets/nekrea/readfiles"
)

// EditCmd represents the edit command
var EditCmd = &cobra.Command{
	Use:   "edit IN EDITS OUT",
	Short: "Apply a YAML edit file to a reafile",
	Long: `
Applies parameter, switch and boundary condition changes from a YAML file and
writes the result. Problem sizes and NPSCAL are re-derived from the mesh.

########################################
Title: "Heated channel"
Parameters:
  P002: -200     # by name
  NPSCAL: 1      # or by keyword
Switches:
  IFHEAT: true
BCs:             # category, element, local edge
  thermal:
    1:
      4: "t 1.0"
  scalar1:
    1:
      4: "I"
########################################`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			doc  *readfiles.Document
			data []byte
			ep   InputParameters.EditParameters
		)
		if doc, err = readfiles.ReadReaFile(expandPath(args[0]), readOptions(cmd)...); err != nil {
			return
		}
		if data, err = os.ReadFile(expandPath(args[1])); err != nil {
			return
		}
		if err = ep.Parse(data); err != nil {
			return fmt.Errorf("edit file %s: %w", args[1], err)
		}
		if viper.GetBool("verbose") {
			ep.Print(cmd.ErrOrStderr())
		}
		if err = ep.Apply(doc); err != nil {
			return fmt.Errorf("edit file %s: %w", args[1], err)
		}
		out := expandPath(args[2])
		if err = readfiles.WriteReaFile(out, doc, writeOptions(cmd)...); err != nil {
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %s\n", out, doc.Properties)
		return
	},
}

func init() {
	rootCmd.AddCommand(EditCmd)
}
