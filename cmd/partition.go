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
	"github.com/wtsi-hgi/motiflab-data/output"
	"github.com/wtsi-hgi/motiflab-data/partition"
	"github.com/wtsi-hgi/motiflab-data/types"
)

// partitionCmd represents the partition command.
var partitionCmd = &cobra.Command{
	Use:   "partition <name> <motif|module|sequence> <construction>",
	Short: "Build a partition.",
	Long: `Build a partition.

Builds a named partition of motifs, modules or sequences from a construction
string, and prints each entity and its cluster, tab separated, grouped by
cluster. The construction string can be one of:

  predefined:<partition>
  random <n> clusters [from <collection>]
  list:<entry>=<cluster>,<entry>=<cluster>,...
  map:<map>, bins=<n>|quantiles=<n>|breaks=<b1>,<b2>,... [, collection=<c>]
  property:<property> [, level=<n>] [, collection=<c>]
  alternatives[:<collection>]

The alternatives form groups motifs that are known alternatives of each other
(directly or through a chain of alternatives) in to the same cluster.

For example:
$ motiflab-data -m motifs.tsv partition families motif 'property:Classification, level=2'
`,
	Args: cobra.ExactArgs(3), //nolint:mnd
	Run: func(_ *cobra.Command, args []string) {
		err := buildPartition(args[0], args[1], args[2])
		if err != nil {
			die("%s", err.Error())
		}
	},
}

func init() {
	RootCmd.AddCommand(partitionCmd)
}

func buildPartition(name, kindStr, text string) error {
	kind, err := types.StringToKind(kindStr)
	if err != nil {
		return err
	}

	r, settings, err := loadData()
	if err != nil {
		return err
	}

	p, err := partition.Build(r, name, kind, text, randomSource(settings))
	if err != nil {
		return err
	}

	if missing := p.Missing(r); len(missing) > 0 {
		warn("partition refers to unknown %ss: %s", kind, strings.Join(missing, ", "))
	}

	doc, err := output.New(name+"_clusters", outputFormat)
	if err != nil {
		return err
	}

	doc.Appendf("# %s partition %s: %s\n", kind, name, p.Origin())

	for _, cluster := range p.Clusters() {
		for _, member := range p.Members(cluster) {
			cliPrint("%s\t%s\n", member, cluster)
			doc.Appendf("%s\t%s\n", member, cluster)
		}
	}

	if err = r.AddPartition(p); err != nil {
		return err
	}

	return saveOutput(r, doc)
}
