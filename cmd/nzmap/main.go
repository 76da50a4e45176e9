// Command nzmap runs the whole pipeline once: load boundaries and
// population, join them, render the maps, write the artifacts.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot/vg/vgimg"

	"nzmap"
)

func main() {
	var (
		configFile = flag.String("config", "", "path to YAML config file (optional)")
		debug      = flag.Bool("debug", false, "dump the resolved configuration and force debug logging")
	)
	flag.Parse()

	cfg, err := nzmap.LoadConfig(*configFile)
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}
	initLog(cfg.LogLevel, *debug)
	if *debug {
		spew.Dump(cfg)
	}

	style, err := cfg.Style()
	if err != nil {
		log.WithError(err).Fatal("resolving map style")
	}

	boundaries, err := nzmap.LoadBoundaries(cfg.BoundaryFile, cfg.BoundaryNameProperty)
	if err != nil {
		log.WithError(err).Fatal("loading boundaries")
	}
	log.WithFields(log.Fields{"file": cfg.BoundaryFile, "features": len(boundaries)}).
		Info("loaded boundaries")

	records, err := nzmap.LoadPopulation(cfg.PopulationFile, cfg.PopulationColumns)
	if err != nil {
		log.WithError(err).Fatal("loading population table")
	}
	log.WithFields(log.Fields{"file": cfg.PopulationFile, "records": len(records)}).
		Info("loaded population table")

	features, diag := nzmap.Join(boundaries, records)
	reportJoin(diag)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.WithError(err).Fatal("creating output directory")
	}

	// A failed artifact must not take the remaining artifacts with it:
	// each render+write is attempted independently and failures are
	// only reflected in the exit code.
	failed := 0
	writePNG := func(name string, render func() (*vgimg.Canvas, error)) {
		path := filepath.Join(cfg.OutputDir, name)
		img, err := render()
		if err == nil {
			err = nzmap.WritePNG(img, path)
		}
		if err != nil {
			log.WithError(err).WithField("artifact", path).Error("artifact failed")
			failed++
			return
		}
		log.WithField("artifact", path).Info("wrote artifact")
	}
	writeHTML := func(name string, render func() ([]byte, error)) {
		path := filepath.Join(cfg.OutputDir, name)
		doc, err := render()
		if err == nil {
			err = nzmap.WriteHTML(doc, path)
		}
		if err != nil {
			log.WithError(err).WithField("artifact", path).Error("artifact failed")
			failed++
			return
		}
		log.WithField("artifact", path).Info("wrote artifact")
	}

	locator := nzmap.NewTerritoryIndex(boundaries)

	writePNG(cfg.Outputs.Outline, func() (*vgimg.Canvas, error) {
		return nzmap.RenderOutline(features, style)
	})
	writePNG(cfg.Outputs.Markers, func() (*vgimg.Canvas, error) {
		return nzmap.RenderMarkers(features, cfg.Cities, style)
	})
	writePNG(cfg.Outputs.Density, func() (*vgimg.Canvas, error) {
		return nzmap.RenderDensity(cfg.Cities, features, cfg.Density, style)
	})
	writePNG(cfg.Outputs.Choropleth, func() (*vgimg.Canvas, error) {
		return nzmap.RenderChoropleth(features, nzmap.FieldPopulation, style)
	})
	writePNG(cfg.Outputs.ChoroplethLog, func() (*vgimg.Canvas, error) {
		return nzmap.RenderChoropleth(features, nzmap.FieldLogPopulation, style)
	})
	writeHTML(cfg.Outputs.InteractiveChoropleth, func() ([]byte, error) {
		return nzmap.RenderInteractiveChoropleth(features, nzmap.FieldPopulation, style, cfg.View)
	})
	writeHTML(cfg.Outputs.CityMap, func() ([]byte, error) {
		return nzmap.RenderCityMap(cfg.Cities, locator, cfg.View, cfg.Heat)
	})

	if failed > 0 {
		log.WithField("failed", failed).Error("run finished with failed artifacts")
		os.Exit(1)
	}
}

func initLog(level string, debug bool) {
	lvl, err := log.ParseLevel(level)
	if err != nil || debug {
		lvl = log.DebugLevel
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stdout)
}

// reportJoin surfaces the join diagnostics: the summary on stdout, every
// mismatch in the log. Mismatches are never fatal, but they are never
// silent either.
func reportJoin(d nzmap.Diagnostic) {
	p := message.NewPrinter(language.English)
	p.Printf("Matched %d territories; %d boundaries without a population record; %d population rows unused.\n",
		d.Matched, len(d.UnmatchedBoundaries), len(d.UnusedRecords))

	for _, name := range d.UnmatchedBoundaries {
		log.WithField("boundary", name).Warn("no population record for boundary")
	}
	for _, name := range d.UnusedRecords {
		log.WithField("territory", name).Debug("population row matched no boundary")
	}
	for _, m := range d.NearMisses {
		log.WithFields(log.Fields{"boundary": m.Boundary, "record": m.Record}).
			Warn("names differ only in case, whitespace or diacritics; join is exact, so they did not match")
	}
}
