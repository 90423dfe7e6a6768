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
	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"

	"github.com/notargets/nekrea/readfiles"
	"github.com/notargets/nekrea/types"
)

// DumpCmd represents the dump command
var DumpCmd = &cobra.Command{
	Use:   "dump FILE",
	Short: "Print a reafile as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readfiles.ReadReaFile(expandPath(args[0]), readOptions(cmd)...)
		if err != nil {
			return err
		}
		withMesh, _ := cmd.Flags().GetBool("mesh")
		data, err := yaml.Marshal(NewDump(doc, withMesh))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(DumpCmd)
	DumpCmd.Flags().BoolP("mesh", "m", true, "include element corners and boundary conditions")
}

type Dump struct {
	Properties types.ProblemProperties `json:"Properties"`
	IfFlow     bool                    `json:"IFFLOW"`
	IfHeat     bool                    `json:"IFHEAT"`
	Sections   []DumpSection           `json:"Sections"`
	Elements   []DumpElement           `json:"Elements,omitempty"`
}

type DumpSection struct {
	Name     string        `json:"Name"`
	Preamble []types.Entry `json:"Preamble,omitempty"`
	Entries  []types.Entry `json:"Entries,omitempty"`
}

type DumpElement struct {
	Element    int                                                `json:"Element"`
	MaterialID string                                             `json:"MaterialID,omitempty"`
	Group      int                                                `json:"Group"`
	Corners    [4][3]float64                                      `json:"Corners"`
	Conditions map[types.Category]map[int]types.BoundaryCondition `json:"Conditions,omitempty"` // Keyed by local edge 1-4
}

func NewDump(doc *readfiles.Document, withMesh bool) (d Dump) {
	d.Properties = doc.Properties
	d.IfFlow, d.IfHeat = doc.IfFlow, doc.IfHeat
	for _, sec := range doc.Sections {
		if sec.Kind == types.SectionMesh {
			continue
		}
		d.Sections = append(d.Sections, DumpSection{
			Name:     sec.Name(),
			Preamble: sec.Preamble,
			Entries:  sec.Entries,
		})
	}
	if !withMesh {
		return
	}
	for n, q := range doc.Mesh().Quads {
		de := DumpElement{Element: n + 1, MaterialID: q.MaterialID, Group: q.Group}
		for i, v := range q.Corners() {
			de.Corners[i] = [3]float64{v.Position.X, v.Position.Y, v.Position.Z}
		}
		for i, conds := range q.Conditions {
			for c, bc := range conds {
				if de.Conditions == nil {
					de.Conditions = make(map[types.Category]map[int]types.BoundaryCondition)
				}
				if de.Conditions[c] == nil {
					de.Conditions[c] = make(map[int]types.BoundaryCondition)
				}
				de.Conditions[c][i+1] = bc
			}
		}
		d.Elements = append(d.Elements, de)
	}
	return
}
