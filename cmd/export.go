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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/output"
	"github.com/wtsi-hgi/motiflab-data/types"
)

const (
	ErrNoTrack = Error("region track not loaded")

	exportFormat = "gff"
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export <track> [sequence collection]",
	Short: "Export a region track as GFF.",
	Long: `Export a region track as GFF.

Writes the regions of a loaded track (see --track) in GFF format, optionally
only for the sequences in the given sequence collection (in collection order).
A tab-separated summary of the number of regions of each type on each sequence
is written alongside.

With --output, the GFF is saved as <track>.gff in that directory, along with
the summary as <track>_summary.tsv. Otherwise the GFF is written to STDOUT and
the summary to a temporary file in the settings temp-dir, whose path is
logged.
`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd
	Run: func(_ *cobra.Command, args []string) {
		var seqCollection string
		if len(args) == 2 { //nolint:mnd
			seqCollection = args[1]
		}

		err := exportTrack(args[0], seqCollection)
		if err != nil {
			die("%s", err.Error())
		}
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)
}

func exportTrack(trackName, seqCollection string) error {
	r, settings, err := loadData()
	if err != nil {
		return err
	}

	track, ok := r.Track(trackName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTrack, trackName)
	}

	sequences, err := exportSequences(r, track, seqCollection)
	if err != nil {
		return err
	}

	doc, err := output.New(trackName, exportFormat)
	if err != nil {
		return err
	}

	if err = doc.AppendRegions(track, sequences...); err != nil {
		return err
	}

	pool := output.NewPool()

	summary, err := pool.Shared(trackName+"_summary", trackName+"_summary.tsv", false,
		func(w io.Writer) error { return writeTrackSummary(w, track, sequences) })
	if err != nil {
		return err
	}

	doc.AddDependency(summary)

	if outputDir != "" {
		defer pool.Close()

		return saveOutput(r, doc)
	}

	if _, err = doc.WriteTo(os.Stdout); err != nil {
		return err
	}

	path, err := summary.File(settings.TempDir)
	if err != nil {
		return err
	}

	info("region summary written to %s", path)

	return nil
}

func exportSequences(r *engine.Registry, track *types.RegionTrack, seqCollection string) ([]string, error) {
	if seqCollection == "" {
		return track.SequenceNames(), nil
	}

	c, err := r.CollectionOfKind(seqCollection, types.KindSequence)
	if err != nil {
		return nil, err
	}

	return c.Names(), nil
}

func writeTrackSummary(w io.Writer, track *types.RegionTrack, sequences []string) error {
	if _, err := fmt.Fprintf(w, "sequence\ttype\tregions\n"); err != nil {
		return err
	}

	for _, seq := range sequences {
		counts := make(map[string]int)

		var order []string

		for _, region := range track.Regions(seq) {
			if counts[region.Type] == 0 {
				order = append(order, region.Type)
			}

			counts[region.Type]++
		}

		for _, t := range order {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%d\n", seq, t, counts[t]); err != nil {
				return err
			}
		}
	}

	return nil
}
