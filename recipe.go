package pattern

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"honnef.co/go/curve"
)

// RunKind selects how a run of construction points becomes part of a
// boundary.
type RunKind int

const (
	// LineRun joins the points with straight lines.
	LineRun RunKind = iota + 1
	// CurveRun interpolates the points with a single smooth curve.
	CurveRun
)

func (k RunKind) String() string {
	switch k {
	case LineRun:
		return "line"
	case CurveRun:
		return "curve"
	default:
		return fmt.Sprintf("RunKind(%d)", int(k))
	}
}

// Run is a consecutive run of construction points in a piece's outline.
// Consecutive runs share their end points: each run starts on the point the
// previous run ended on, and the last run ends on the first run's start.
type Run struct {
	Kind   RunKind
	Points []string
	// Feature, if set, includes the run only when the style enables the
	// feature.
	Feature string
	// Unless, if set, excludes the run when the style enables the feature.
	Unless string
}

func (r Run) active(features map[string]bool) bool {
	if r.Feature != "" && !features[r.Feature] {
		return false
	}
	if r.Unless != "" && features[r.Unless] {
		return false
	}
	return true
}

// PointRule computes one construction point.
type PointRule struct {
	Name string
	// Deps lists the construction points Eval reads.
	Deps []string
	// Measures lists the measurements Eval reads.
	Measures []string
	// Eval computes the point. It must be a pure function of the points and
	// measurements it declares.
	Eval func(env Env) curve.Point
}

// Env gives a [PointRule] access to the points and eased measurements it
// declared. Reading anything undeclared panics.
type Env struct {
	rule     *PointRule
	points   map[string]curve.Point
	measures map[string]float64
}

// P returns the named construction point.
func (env Env) P(name string) curve.Point {
	if !slices.Contains(env.rule.Deps, name) {
		panic(fmt.Sprintf("point rule %q reads undeclared point %q", env.rule.Name, name))
	}
	return env.points[name]
}

// M returns the named measurement, with ease applied.
func (env Env) M(name string) float64 {
	if !slices.Contains(env.rule.Measures, name) {
		panic(fmt.Sprintf("point rule %q reads undeclared measurement %q", env.rule.Name, name))
	}
	return env.measures[name]
}

// PieceRecipe describes how to assemble one piece from construction points.
type PieceRecipe struct {
	Name    string
	Label   string
	Cutting string
	Outline []Run
	// Grain names the start and end points of the grainline.
	Grain   [2]string
	Notches []string
}

// Recipe is the declarative drafting recipe of a garment: an ordered table of
// point formulas and the pieces assembled from the resulting points.
type Recipe struct {
	Garment     string
	Description string
	// Eases are the default additive allowances, in cm, keyed by measurement.
	Eases map[string]float64
	// Features lists the optional features the recipe's runs refer to.
	Features []string
	Points   []PointRule
	Pieces   []PieceRecipe
}

// Style selects the optional parts of a recipe.
type Style struct {
	// Eases override the recipe's default eases, keyed by measurement.
	Eases map[string]float64
	// Features enables optional features by name.
	Features []string
}

// Check validates the structure of the recipe without evaluating any
// formulas. It returns a [*RecipeCycleError] if point rules depend on each
// other cyclically, an [*UndefinedPointError] if a rule or piece refers to a
// point no rule defines, and a [*RecipeError] for other structural problems.
func (r *Recipe) Check() error {
	_, err := r.order()
	if err != nil {
		return err
	}
	for _, pr := range r.Pieces {
		if err := r.checkPiece(pr); err != nil {
			return err
		}
	}
	return nil
}

// order returns the indices of r.Points in an order in which every rule comes
// after the rules it depends on. Among rules whose dependencies are met,
// declaration order is kept.
func (r *Recipe) order() ([]int, error) {
	index := make(map[string]int, len(r.Points))
	for i, rule := range r.Points {
		if _, ok := index[rule.Name]; ok {
			return nil, &RecipeError{Garment: r.Garment, Reason: fmt.Sprintf("point %q defined more than once", rule.Name)}
		}
		if rule.Eval == nil {
			return nil, &RecipeError{Garment: r.Garment, Reason: fmt.Sprintf("point %q has no formula", rule.Name)}
		}
		index[rule.Name] = i
	}
	for _, rule := range r.Points {
		for _, dep := range rule.Deps {
			if _, ok := index[dep]; !ok {
				return nil, &UndefinedPointError{Garment: r.Garment, Referrer: "point " + rule.Name, Point: dep}
			}
		}
	}

	done := make([]bool, len(r.Points))
	out := make([]int, 0, len(r.Points))
	for len(out) < len(r.Points) {
		progress := false
		for i, rule := range r.Points {
			if done[i] {
				continue
			}
			ready := true
			for _, dep := range rule.Deps {
				if !done[index[dep]] {
					ready = false
					break
				}
			}
			if ready {
				done[i] = true
				out = append(out, i)
				progress = true
				// Restart so that earlier rules unblocked by this one keep
				// their declaration order.
				break
			}
		}
		if !progress {
			var stuck []string
			for i, rule := range r.Points {
				if !done[i] {
					stuck = append(stuck, rule.Name)
				}
			}
			return nil, &RecipeCycleError{Garment: r.Garment, Points: stuck}
		}
	}
	return out, nil
}

func (r *Recipe) hasPoint(name string) bool {
	return slices.ContainsFunc(r.Points, func(rule PointRule) bool { return rule.Name == name })
}

func (r *Recipe) checkPiece(pr PieceRecipe) error {
	referrer := "piece " + pr.Name
	for _, run := range pr.Outline {
		for _, name := range run.Points {
			if !r.hasPoint(name) {
				return &UndefinedPointError{Garment: r.Garment, Referrer: referrer, Point: name}
			}
		}
		for _, f := range []string{run.Feature, run.Unless} {
			if f != "" && !slices.Contains(r.Features, f) {
				return &RecipeError{Garment: r.Garment, Reason: fmt.Sprintf("%s uses undeclared feature %q", referrer, f)}
			}
		}
		switch run.Kind {
		case LineRun:
			if len(run.Points) < 2 {
				return &RecipeError{Garment: r.Garment, Reason: referrer + ": line run needs at least 2 points"}
			}
		case CurveRun:
			if len(run.Points) < 3 {
				return &RecipeError{Garment: r.Garment, Reason: referrer + ": curve run needs at least 3 points"}
			}
		default:
			return &RecipeError{Garment: r.Garment, Reason: fmt.Sprintf("%s: invalid run kind %d", referrer, int(run.Kind))}
		}
	}
	for _, name := range append([]string{pr.Grain[0], pr.Grain[1]}, pr.Notches...) {
		if !r.hasPoint(name) {
			return &UndefinedPointError{Garment: r.Garment, Referrer: referrer, Point: name}
		}
	}

	// Every combination of features must produce a connected outline. Runs
	// only depend on one feature each, so it suffices to check with all
	// features off and with each one on by itself.
	combos := []map[string]bool{{}}
	for _, f := range r.Features {
		combos = append(combos, map[string]bool{f: true})
	}
	for _, features := range combos {
		if err := r.checkChain(pr, features); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recipe) checkChain(pr PieceRecipe, features map[string]bool) error {
	var runs []Run
	for _, run := range pr.Outline {
		if run.active(features) {
			runs = append(runs, run)
		}
	}
	if len(runs) == 0 {
		return &RecipeError{Garment: r.Garment, Reason: fmt.Sprintf("piece %s has no outline", pr.Name)}
	}
	for i, run := range runs {
		next := runs[(i+1)%len(runs)]
		if end := run.Points[len(run.Points)-1]; end != next.Points[0] {
			return &RecipeError{
				Garment: r.Garment,
				Reason:  fmt.Sprintf("piece %s: run ending at %q is followed by run starting at %q", pr.Name, end, next.Points[0]),
			}
		}
	}
	return nil
}

// Evaluate computes every construction point of the recipe, applying the
// recipe's eases and those of style to the measurements first. Eased
// measurements must remain positive and finite.
func (r *Recipe) Evaluate(m Measurements, style Style) (map[string]curve.Point, error) {
	order, err := r.order()
	if err != nil {
		return nil, err
	}
	eases := maps.Clone(r.Eases)
	if eases == nil {
		eases = map[string]float64{}
	}
	maps.Copy(eases, style.Eases)

	points := make(map[string]curve.Point, len(r.Points))
	for _, i := range order {
		rule := &r.Points[i]
		measures := make(map[string]float64, len(rule.Measures))
		for _, name := range rule.Measures {
			v, ok := m.Get(name)
			if !ok {
				return nil, &UnknownMeasurementError{Name: name}
			}
			eased := v + eases[name]
			if !(eased > 0) || math.IsInf(eased, 0) {
				return nil, &InvalidMeasurementError{Name: name, Value: eased}
			}
			measures[name] = eased
		}
		points[rule.Name] = rule.Eval(Env{rule: rule, points: points, measures: measures})
	}
	return points, nil
}

// Build evaluates the recipe and assembles its pieces. Pieces are returned in
// recipe order, with their boundaries verified to be closed and simple.
func (r *Recipe) Build(m Measurements, style Style) ([]Piece, error) {
	features := map[string]bool{}
	for _, f := range style.Features {
		if !slices.Contains(r.Features, f) {
			return nil, &UnknownFeatureError{Garment: r.Garment, Feature: f}
		}
		features[f] = true
	}
	if err := r.Check(); err != nil {
		return nil, err
	}
	points, err := r.Evaluate(m, style)
	if err != nil {
		return nil, err
	}

	pieces := make([]Piece, 0, len(r.Pieces))
	for _, pr := range r.Pieces {
		p, err := r.assemble(pr, points, features)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, p)
	}
	return pieces, nil
}

func (r *Recipe) assemble(pr PieceRecipe, points map[string]curve.Point, features map[string]bool) (Piece, error) {
	p := Piece{
		Name:      pr.Name,
		Label:     pr.Label,
		Cutting:   pr.Cutting,
		Grainline: curve.Line{P0: points[pr.Grain[0]], P1: points[pr.Grain[1]]},
	}
	for _, run := range pr.Outline {
		if !run.active(features) {
			continue
		}
		pts := make([]curve.Point, len(run.Points))
		for i, name := range run.Points {
			pts[i] = points[name]
		}
		switch run.Kind {
		case LineRun:
			p.Edges = append(p.Edges, LineEdge(pts...))
		case CurveRun:
			e, err := CurveEdge(pts...)
			if err != nil {
				return Piece{}, fmt.Errorf("piece %s: %w", pr.Name, err)
			}
			p.Edges = append(p.Edges, e)
		default:
			panic("unreachable")
		}
	}
	for _, name := range pr.Notches {
		p.Notches = append(p.Notches, points[name])
	}

	first, last := p.Edges[0].Start(), p.Edges[len(p.Edges)-1].End()
	if gap := first.Distance(last); gap > coincidenceEpsilon {
		return Piece{}, &OpenContourError{Piece: pr.Name, Gap: gap}
	}
	if err := p.Validate(DefaultTolerance); err != nil {
		return Piece{}, err
	}
	return p, nil
}

// BuildPieces drafts the pieces of garment for the measurements m.
//
// It returns an [*UnknownGarmentError] for garments without a recipe, an
// [*UnknownFeatureError] for features the garment doesn't offer, and an
// [*UnknownMeasurementError] if the recipe needs a measurement m lacks.
// Recipe defects are reported as [*RecipeCycleError], [*UndefinedPointError]
// or [*OpenContourError].
func BuildPieces(m Measurements, garment string, style Style) ([]Piece, error) {
	r, ok := LookupRecipe(garment)
	if !ok {
		return nil, &UnknownGarmentError{Garment: garment}
	}
	return r.Build(m, style)
}
