// Command patterngen drafts a garment pattern from body measurements and
// writes full-scale SVG drawings, printable tiles, a cut list and a preview.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"honnef.co/go/pattern"
	"honnef.co/go/pattern/internal/export"
)

// easeFlag collects repeated name=value flags.
type easeFlag map[string]float64

func (f easeFlag) String() string {
	var parts []string
	for k, v := range f {
		parts = append(parts, fmt.Sprintf("%s=%g", k, v))
	}
	return strings.Join(parts, ",")
}

func (f easeFlag) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("want name=value, got %q", s)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	f[name] = v
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		garment      = flag.String("garment", "shirt", "garment to draft")
		profile      = flag.String("profile", "mens", "measurement profile (mens or womens)")
		measurements = flag.String("measurements", "", "JSON file of measurement overrides")
		features     = flag.String("features", "", "comma-separated optional features")
		sleevePieces = flag.Int("sleeve-pieces", 0, "split the sleeve into 2 or 3 pieces")
		fallback     = flag.Bool("fallback", false, "keep an unsplittable sleeve whole instead of failing")
		paper        = flag.String("paper", "a4", "page size for tiling (a4, letter or none)")
		out          = flag.String("out", "out", "output directory")
		precision    = flag.Int("precision", export.DefaultOptions.Precision, "decimal places in SVG coordinates")
		listM        = flag.Bool("list-measurements", false, "list known measurements and exit")
		listG        = flag.Bool("list-garments", false, "list garments and exit")
		verbose      = flag.Bool("v", false, "log debugging information")
	)
	eases := easeFlag{}
	flag.Var(eases, "ease", "override an ease as name=value (repeatable)")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *listG {
		tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		for _, r := range pattern.Recipes() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Garment, r.Description, strings.Join(r.Features, ","))
		}
		tw.Flush()
		return 0
	}
	if *listM {
		tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		for _, info := range pattern.KnownMeasurements {
			fmt.Fprintf(tw, "%s\t%g\t%g\t%s\n", info.Name, pattern.MensMedium.Values[info.Name], pattern.WomensMedium.Values[info.Name], info.Description)
		}
		tw.Flush()
		return 0
	}

	prof, ok := pattern.ProfileByName(*profile)
	if !ok {
		log.Error("unknown profile", "profile", *profile)
		return 2
	}
	m, err := pattern.NewMeasurements(prof, nil)
	if *measurements != "" {
		m, err = loadMeasurements(*measurements, prof)
	}
	if err != nil {
		log.Error("invalid measurements", "err", err)
		return 1
	}
	for _, name := range m.Names() {
		if m.IsOverridden(name) {
			v, _ := m.Get(name)
			log.Debug("measurement override", "name", name, "value", v)
		}
	}

	req := pattern.Request{
		Garment:               *garment,
		Measurements:          m,
		Style:                 pattern.Style{Eases: eases},
		SleevePieces:          *sleevePieces,
		FallbackToSinglePiece: *fallback,
	}
	if *features != "" {
		req.Style.Features = strings.Split(*features, ",")
	}
	switch strings.ToLower(*paper) {
	case "a4":
		pg := pattern.A4
		req.Page = &pg
	case "letter":
		pg := pattern.Letter
		req.Page = &pg
	case "none", "":
	default:
		log.Error("unknown paper", "paper", *paper)
		return 2
	}

	res, err := pattern.Generate(req)
	if err != nil {
		log.Error("drafting failed", "garment", *garment, "err", err)
		return 1
	}
	for _, n := range res.Notices {
		log.Warn(n.Message, "piece", n.Piece)
	}
	for _, p := range res.Pieces {
		bbox := p.BoundingBox()
		log.Debug("piece", "name", p.Name, "width", bbox.Width(), "height", bbox.Height(), "area", p.Area())
	}

	paths, err := export.WriteDir(*out, export.Files(res, m, export.Options{Precision: *precision}))
	if err != nil {
		log.Error("writing output", "err", err)
		return 1
	}
	log.Info("wrote pattern", "garment", res.Garment, "pieces", len(res.Pieces), "pages", len(res.Tiles), "files", len(paths), "dir", *out)
	return 0
}

func loadMeasurements(path string, def pattern.Profile) (pattern.Measurements, error) {
	f, err := os.Open(path)
	if err != nil {
		return pattern.Measurements{}, err
	}
	defer f.Close()
	m, err := pattern.LoadMeasurements(f, def)
	if err != nil {
		return pattern.Measurements{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
