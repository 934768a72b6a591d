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

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gonwp/dycore/params"
	"github.com/gonwp/dycore/sim"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation case from a YAML input file",
	Long: `
Reads the simulation parameters, assembles the named case and steps it to the
final time,

dycore run -i input.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		if input == "" {
			return fmt.Errorf("an input file is required, use -i")
		}
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start().Stop()
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading input file: %w", err)
		}
		var p params.SimulationParameters
		if err = p.Parse(data); err != nil {
			return err
		}
		p.Print()

		model, err := sim.Build(&p, logrus.StandardLogger())
		if err != nil {
			return err
		}
		return model.Run(p.FinalTime)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("input", "i", "", "YAML input parameter file")
	runCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
	runCmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
}
