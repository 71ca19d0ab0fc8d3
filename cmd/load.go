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
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/motiflab-data/catalog"
	"github.com/wtsi-hgi/motiflab-data/config"
	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/formats"
	"github.com/wtsi-hgi/motiflab-data/output"
	"github.com/wtsi-hgi/motiflab-data/sheets"
	"github.com/wtsi-hgi/motiflab-data/store"
	"github.com/wtsi-hgi/motiflab-data/types"
)

const (
	ErrBadDataSpec  = Error("data files must be given as name=path (maps as name:kind=path)")
	ErrNoCatalogue  = Error("the motif catalogue database is not configured")
	ErrNoSheets     = Error("no metadata spreadsheet is configured")
	ErrBadSheetSpec = Error("sheets must be given as name:collection|partition|map[:kind]=sheet")
	cacheLifetime   = 10 * time.Minute
	outputFormat    = "txt"
	defaultMapKind  = types.KindSequence
	dataSpecNameSep = "="
	dataSpecKindSep = ":"
)

// global options for loading data.
var (
	motifsPath    string
	sequencesPath string
	mapSpecs      []string
	trackSpecs    []string
	sheetSpecs    []string
	useCatalogue  bool
	settingsPath  string
	envDir        string
	outputDir     string
)

func addLoadFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&motifsPath, "motifs", "m", "", "tab-separated file of motifs")
	pf.StringVarP(&sequencesPath, "sequences", "s", "", "tab-separated file of sequences")
	pf.StringArrayVar(&mapSpecs, "map", nil,
		"numeric map as name:kind=path of a tab-separated name/value file (repeatable; kind defaults to sequence)")
	pf.StringArrayVar(&trackSpecs, "track", nil, "region track as name=path of a GFF file (repeatable)")
	pf.StringArrayVar(&sheetSpecs, "sheet", nil,
		"collection, partition or numeric map as name:collection|partition|map[:kind]=sheet, "+
			"read from the spreadsheet configured with MOTIFLAB_* env vars (repeatable; kind defaults to sequence)")
	pf.BoolVarP(&useCatalogue, "catalogue", "c", false,
		"also load motifs and predefined collections from the catalogue configured with MOTIFLAB_* env vars")
	pf.StringVar(&envDir, "env-dir", "", "directory containing a .env file of MOTIFLAB_* settings")
	pf.StringVar(&settingsPath, "settings", "", "YAML file of analysis settings")
	pf.StringVarP(&outputDir, "output", "o", "", "save results as an output document in this directory")
}

// loadData returns a registry populated from the files given on the command
// line (and the catalogue, if requested), along with the analysis settings.
func loadData() (*engine.Registry, *config.Settings, error) {
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, nil, err
	}

	r := engine.New(appLogger.New("pkg", "engine"))

	if useCatalogue {
		if err = loadCatalogue(r); err != nil {
			return nil, nil, err
		}
	}

	if err = loadFiles(r); err != nil {
		return nil, nil, err
	}

	if err = loadSheets(r); err != nil {
		return nil, nil, err
	}

	info("loaded %d motifs, %d sequences, %d numeric maps and %d tracks",
		len(r.Names(engine.TypeMotif)), len(r.Names(engine.TypeSequence)),
		len(r.Names(engine.TypeNumericMap)), len(r.Names(engine.TypeTrack)))

	return r, settings, nil
}

func envConfig() (*config.Config, error) {
	var dirs []string
	if envDir != "" {
		dirs = append(dirs, envDir)
	}

	return config.FromEnv(dirs...)
}

func loadCatalogue(r *engine.Registry) error {
	c, err := envConfig()
	if err != nil {
		return err
	}

	if !c.HasDB() {
		return ErrNoCatalogue
	}

	s, err := store.New(store.MySQLConfigFromConfig(c))
	if err != nil {
		return err
	}

	var ps catalog.PropertySource

	if c.HasSheets() {
		sc, errc := sheets.ServiceCredentialsFromConfig(c)
		if errc != nil {
			return errc
		}

		sh, errs := sheets.New(sc)
		if errs != nil {
			return errs
		}

		ps = sh
	} else {
		warn("no metadata sheet configured; catalogue motifs will have no extra properties")
	}

	client := catalog.New(s, ps, catalog.ClientOptions{
		SheetID:       c.SheetID,
		CacheLifetime: cacheLifetime,
		Logger:        appLogger.New("pkg", "catalog"),
	})

	defer client.Close()

	return client.Load(r)
}

// loadSheets registers the collections, partitions and numeric maps requested
// with --sheet.
func loadSheets(r *engine.Registry) error {
	if len(sheetSpecs) == 0 {
		return nil
	}

	c, err := envConfig()
	if err != nil {
		return err
	}

	if !c.HasSheets() {
		return ErrNoSheets
	}

	sc, err := sheets.ServiceCredentialsFromConfig(c)
	if err != nil {
		return err
	}

	sh, err := sheets.New(sc)
	if err != nil {
		return err
	}

	for _, spec := range sheetSpecs {
		if err = loadSheet(r, sh, c.SheetID, spec); err != nil {
			return fmt.Errorf("%s: %w", spec, err)
		}
	}

	return nil
}

func loadSheet(r *engine.Registry, sh *sheets.Sheets, docID, spec string) error {
	name, what, sheetName, err := splitDataSpec(spec)
	if err != nil || what == "" {
		return ErrBadSheetSpec
	}

	what, kindStr, _ := strings.Cut(what, dataSpecKindSep)
	kind := defaultMapKind

	if kindStr != "" {
		if kind, err = types.StringToKind(kindStr); err != nil {
			return err
		}
	}

	switch strings.ToLower(what) {
	case "collection":
		coll, errc := sh.Collection(docID, sheetName, name, kind)
		if errc != nil {
			return errc
		}

		return r.AddCollection(coll)
	case "partition":
		part, errp := sh.Partition(docID, sheetName, name, kind)
		if errp != nil {
			return errp
		}

		return r.AddPartition(part)
	case "map":
		m, errm := sh.NumericMap(docID, sheetName, name, kind)
		if errm != nil {
			return errm
		}

		return r.AddNumericMap(m)
	default:
		return ErrBadSheetSpec
	}
}

func loadFiles(r *engine.Registry) error {
	if err := loadMotifs(r); err != nil {
		return err
	}

	if err := loadSequences(r); err != nil {
		return err
	}

	for _, spec := range mapSpecs {
		if err := loadMap(r, spec); err != nil {
			return err
		}
	}

	for _, spec := range trackSpecs {
		if err := loadTrack(r, spec); err != nil {
			return err
		}
	}

	return nil
}

func loadMotifs(r *engine.Registry) error {
	if motifsPath == "" {
		return nil
	}

	f, err := os.Open(motifsPath)
	if err != nil {
		return err
	}
	defer f.Close()

	motifs, err := formats.ReadMotifs(f)
	if err != nil {
		return fmt.Errorf("%s: %w", motifsPath, err)
	}

	for _, m := range motifs {
		if err = r.AddMotif(m); err != nil {
			return fmt.Errorf("motif %s: %w", m.Name, err)
		}
	}

	return nil
}

func loadSequences(r *engine.Registry) error {
	if sequencesPath == "" {
		return nil
	}

	f, err := os.Open(sequencesPath)
	if err != nil {
		return err
	}
	defer f.Close()

	sequences, err := formats.ReadSequences(f)
	if err != nil {
		return fmt.Errorf("%s: %w", sequencesPath, err)
	}

	for _, s := range sequences {
		if err = r.AddSequence(s); err != nil {
			return fmt.Errorf("sequence %s: %w", s.Name, err)
		}
	}

	return nil
}

// splitDataSpec splits "name=path" or "name:kind=path".
func splitDataSpec(spec string) (string, string, string, error) {
	name, path, ok := strings.Cut(spec, dataSpecNameSep)
	if !ok || name == "" || path == "" {
		return "", "", "", fmt.Errorf("%w: %s", ErrBadDataSpec, spec)
	}

	name, kind, _ := strings.Cut(name, dataSpecKindSep)

	return name, kind, path, nil
}

func loadMap(r *engine.Registry, spec string) error {
	name, kindStr, path, err := splitDataSpec(spec)
	if err != nil {
		return err
	}

	kind := defaultMapKind

	if kindStr != "" {
		if kind, err = types.StringToKind(kindStr); err != nil {
			return fmt.Errorf("%s: %w", spec, err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := formats.ReadNumericMap(f, name, kind)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return r.AddNumericMap(m)
}

func loadTrack(r *engine.Registry, spec string) error {
	name, _, path, err := splitDataSpec(spec)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	track, err := formats.ReadTrack(f, name)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return r.AddTrack(track)
}

// randomSource returns a source seeded from the settings, or nil to have a
// randomly seeded one used.
func randomSource(settings *config.Settings) rand.Source {
	if settings.Seed == 0 {
		return nil
	}

	return rand.NewPCG(settings.Seed, settings.Seed)
}

// saveOutput saves the document in the --output directory, if one was given.
func saveOutput(r *engine.Registry, doc *output.Data) error {
	if outputDir == "" {
		return nil
	}

	if err := r.AddOutput(doc); err != nil {
		return err
	}

	path, err := doc.Save(outputDir)
	if err != nil {
		return err
	}

	info("saved %s", path)

	return nil
}
