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
	"sort"

	"github.com/spf13/cobra"

	"github.com/notargets/nekrea/readfiles"
	"github.com/notargets/nekrea/types"
)

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Summarize the problem size, sections, geometry and boundary conditions of a reafile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readfiles.ReadReaFile(expandPath(args[0]), readOptions(cmd)...)
		if err != nil {
			return err
		}
		PrintInfo(cmd.OutOrStdout(), doc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(InfoCmd)
}

func PrintInfo(w io.Writer, doc *readfiles.Document) {
	var (
		pp  = doc.Properties
		msh = doc.Mesh()
	)
	fmt.Fprintf(w, "[%d]\t\t\t= Dimensions\n", pp.NumDimensions)
	fmt.Fprintf(w, "[%d]\t\t\t= Elements (NEL)\n", pp.NumThermalElements)
	fmt.Fprintf(w, "[%d]\t\t\t= Fluid Elements (NELV)\n", pp.NumFluidElements)
	fmt.Fprintf(w, "[%d]\t\t\t= Passive Scalars (NPSCAL)\n", pp.NumPassiveScalars)
	fmt.Fprintf(w, "[%s]\t\t\t= IFFLOW\n", types.NewSwitch(doc.IfFlow))
	fmt.Fprintf(w, "[%s]\t\t\t= IFHEAT\n", types.NewSwitch(doc.IfHeat))
	for _, sec := range doc.Sections {
		if sec.Kind == types.SectionMesh {
			continue
		}
		fmt.Fprintf(w, "%-28s %4d entries\n", sec.Name(), len(sec.Entries))
	}
	if msh.NumElements() == 0 {
		return
	}
	box := msh.BoundingBox()
	fmt.Fprintf(w, "Bounding Box: [%8.5f, %8.5f] x [%8.5f, %8.5f]\n", box.Min.X, box.Max.X, box.Min.Y, box.Max.Y)
	fmt.Fprintf(w, "Area: %8.5f\n", msh.Area())
	for _, c := range doc.Categories() {
		counts := make(map[types.BCType]int)
		for _, q := range msh.Quads {
			for local := 1; local <= len(q.Edges); local++ {
				if bc := q.Condition(local, c); !bc.Type.IsNone() {
					counts[bc.Type]++
				}
			}
		}
		fmt.Fprintf(w, "BCs[%s] = %d", c, msh.ConditionCount(c))
		for _, bc := range sortedTypes(counts) {
			fmt.Fprintf(w, " %s(%s):%d", bc, bc.Describe(), counts[bc])
		}
		fmt.Fprintln(w)
	}
}

func sortedTypes(counts map[types.BCType]int) (keys []types.BCType) {
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return
}
