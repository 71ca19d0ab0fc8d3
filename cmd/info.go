/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/motiflab-data/engine"
)

var infoTypes = []engine.ItemType{ //nolint:gochecknoglobals
	engine.TypeMotif, engine.TypeModule, engine.TypeSequence, engine.TypeNumericMap,
	engine.TypeTrack, engine.TypeCollection, engine.TypePartition,
}

// infoCmd represents the info command.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show loaded data.",
	Long: `Show loaded data.

Loads data as specified by the global flags and lists the names of the data
items of each type, so you can check what is available to construction
strings in the other sub-commands.
`,
	Run: func(_ *cobra.Command, _ []string) {
		err := dataInfo()
		if err != nil {
			die("%s", err.Error())
		}
	},
}

func init() {
	RootCmd.AddCommand(infoCmd)
}

func dataInfo() error {
	r, _, err := loadData()
	if err != nil {
		return err
	}

	for _, t := range infoTypes {
		names := r.Names(t)

		cliPrint("%s (%d):\n", t, len(names))

		if len(names) > 0 {
			cliPrint("  %s\n", strings.Join(names, ", "))
		}
	}

	return nil
}
