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
	"github.com/wtsi-hgi/motiflab-data/modules"
	"github.com/wtsi-hgi/motiflab-data/output"
	"github.com/wtsi-hgi/motiflab-data/types"
)

// options for this cmd.
var (
	modulesCollection   string
	modulesMinSize      int
	modulesMaxSize      int
	modulesAlternatives bool
)

// modulesCmd represents the modules command.
var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Find candidate modules of interacting motifs.",
	Long: `Find candidate modules of interacting motifs.

Two motifs are taken to interact if either lists the other in its
interactions. Every maximal group of mutually interacting motifs with at
least --min-size members (and no more than --max-size, if given) becomes a
candidate module, largest first. Module names, default sizes and the maximum
module length come from the modules section of the --settings file.

Each module is printed as its name followed by its tab-separated constituents,
where a constituent matched by alternatives is shown as motif|alt1|alt2.

Restrict the motifs considered with --collection; by default all loaded motifs
are used.
`,
	Run: func(_ *cobra.Command, _ []string) {
		err := buildModules()
		if err != nil {
			die("%s", err.Error())
		}
	},
}

func init() {
	RootCmd.AddCommand(modulesCmd)

	modulesCmd.Flags().StringVar(&modulesCollection, "collection", "",
		"only consider motifs in this collection")
	modulesCmd.Flags().IntVar(&modulesMinSize, "min-size", 0,
		"minimum number of motifs in a module (overrides settings)")
	modulesCmd.Flags().IntVar(&modulesMaxSize, "max-size", 0,
		"maximum number of motifs in a module (overrides settings)")
	modulesCmd.Flags().BoolVar(&modulesAlternatives, "alternatives", false,
		"let each module motif be matched by its known alternatives too")
}

func buildModules() error {
	r, settings, err := loadData()
	if err != nil {
		return err
	}

	motifs, err := moduleMotifs(r)
	if err != nil {
		return err
	}

	opts := modules.Options{
		MinSize:             settings.Modules.MinSize,
		MaxSize:             settings.Modules.MaxSize,
		Prefix:              settings.Modules.Prefix,
		MaxLength:           settings.Modules.MaxLength,
		IncludeAlternatives: modulesAlternatives,
	}

	if modulesMinSize > 0 {
		opts.MinSize = modulesMinSize
	}

	if modulesMaxSize > 0 {
		opts.MaxSize = modulesMaxSize
	}

	found, err := modules.FromInteractions(r, motifs, opts)
	if err != nil {
		return err
	}

	info("found %d modules amongst %d motifs", len(found), len(motifs))

	if err = modules.Register(r, found); err != nil {
		return err
	}

	doc, err := output.New("modules", outputFormat)
	if err != nil {
		return err
	}

	for _, m := range found {
		line := m.Name + "\t" + strings.Join(constituentStrings(m), "\t") + "\n"
		cliPrint("%s", line)
		doc.Append(line)
	}

	return saveOutput(r, doc)
}

func moduleMotifs(r *engine.Registry) ([]string, error) {
	if modulesCollection == "" {
		return r.EntityNames(types.KindMotif), nil
	}

	c, err := r.CollectionOfKind(modulesCollection, types.KindMotif)
	if err != nil {
		return nil, err
	}

	return c.Names(), nil
}

func constituentStrings(m *types.ModuleCRM) []string {
	strs := make([]string, len(m.Constituents))
	for i, c := range m.Constituents {
		strs[i] = strings.Join(c.Motifs, "|")
	}

	return strs
}
