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
	"github.com/wtsi-hgi/motiflab-data/collection"
	"github.com/wtsi-hgi/motiflab-data/output"
	"github.com/wtsi-hgi/motiflab-data/types"
)

// collectionCmd represents the collection command.
var collectionCmd = &cobra.Command{
	Use:   "collection <name> <motif|module|sequence> <construction>",
	Short: "Build a collection.",
	Long: `Build a collection.

Builds a named collection of motifs, modules or sequences from a construction
string, and prints its members one per line. The construction string can be
one of:

  predefined:<collection>
  random <n>[%] [from <collection>]
  list:<entry>,<entry>,...
  map:<map> <operator> <value>
  property:<property> <operator> <value>
  track:<track>, support|regions|coverage <operator> <value> [, collection=<seqs>]

List entries can be entity names, collection names, partition->cluster
references, wildcard patterns like "MA00*" or ranges like "seq1-seq10".
Track coverage is the percentage of a sequence covered by its regions.

For example:
$ motiflab-data -m motifs.tsv collection liverTFs motif 'property:Factors matches "HNF.*"'
`,
	Args: cobra.ExactArgs(3), //nolint:mnd
	Run: func(_ *cobra.Command, args []string) {
		err := buildCollection(args[0], args[1], args[2])
		if err != nil {
			die("%s", err.Error())
		}
	},
}

func init() {
	RootCmd.AddCommand(collectionCmd)
}

func buildCollection(name, kindStr, text string) error {
	kind, err := types.StringToKind(kindStr)
	if err != nil {
		return err
	}

	r, settings, err := loadData()
	if err != nil {
		return err
	}

	c, err := collection.Build(r, name, kind, text, randomSource(settings))
	if err != nil {
		return err
	}

	if missing := c.Missing(r); len(missing) > 0 {
		warn("collection refers to unknown %ss: %s", kind, strings.Join(missing, ", "))
	}

	for _, member := range c.Names() {
		cliPrint("%s\n", member)
	}

	if err = r.AddCollection(c); err != nil {
		return err
	}

	doc, err := output.New(name+"_members", outputFormat)
	if err != nil {
		return err
	}

	doc.Appendf("# %s collection %s: %s\n", kind, name, c.Origin())
	doc.Append(strings.Join(c.Names(), "\n") + "\n")

	return saveOutput(r, doc)
}
