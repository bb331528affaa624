package pattern

import (
	"slices"

	"honnef.co/go/curve"
)

// FeatureHipCurve extends a shirt body to the hip with a curved side seam,
// and curves a skirt's side seam over the hip.
const FeatureHipCurve = "hip-curve"

var recipes = []Recipe{
	shirtRecipe(),
	vestRecipe(),
	coatRecipe(),
	trousersRecipe(),
	skirtRecipe(),
}

// Garments returns the names of the garments with a built-in recipe.
func Garments() []string {
	names := make([]string, len(recipes))
	for i, r := range recipes {
		names[i] = r.Garment
	}
	return names
}

// Recipes returns the built-in recipes.
func Recipes() []Recipe {
	return slices.Clone(recipes)
}

// LookupRecipe returns the built-in recipe for garment.
func LookupRecipe(garment string) (Recipe, bool) {
	i := slices.IndexFunc(recipes, func(r Recipe) bool { return r.Garment == garment })
	if i < 0 {
		return Recipe{}, false
	}
	return recipes[i], true
}

func ms(names ...string) []string { return names }

type bodiceKind int

const (
	plainBodice bodiceKind = iota
	vestBodice
	coatBodice
)

// bodicePoints returns the construction points of a front or back bodice.
// Points are prefixed with prefix and a dot. The center line lies on x = 0,
// the side seam to the right, and y grows downwards from the neck point.
func bodicePoints(prefix string, front bool, kind bodiceKind) []PointRule {
	n := func(s string) string { return prefix + "." + s }

	drop := 3.5
	if front {
		drop = 4.5
	}
	return []PointRule{
		{
			Name:     n("neck_side"),
			Measures: ms("neck"),
			Eval:     func(e Env) curve.Point { return curve.Pt(e.M("neck")/6, 0) },
		},
		{
			Name:     n("neck_cf"),
			Measures: ms("neck"),
			Eval: func(e Env) curve.Point {
				neck := e.M("neck")
				switch {
				case !front:
					return curve.Pt(0, neck/20)
				case kind == vestBodice:
					return curve.Pt(0, neck/4+4)
				case kind == coatBodice:
					return curve.Pt(0, neck/4)
				default:
					return curve.Pt(0, neck/6+1)
				}
			},
		},
		{
			Name: n("neck_mid"),
			Deps: ms(n("neck_side"), n("neck_cf")),
			Eval: func(e Env) curve.Point {
				side, cf := e.P(n("neck_side")), e.P(n("neck_cf"))
				if front {
					return curve.Pt(0.7*side.X, 0.7*cf.Y)
				}
				return curve.Pt(0.55*side.X, 0.85*cf.Y)
			},
		},
		{
			Name:     n("shoulder"),
			Measures: ms("shoulder_width"),
			Eval:     func(e Env) curve.Point { return curve.Pt(e.M("shoulder_width")/2, drop) },
		},
		{
			Name:     n("underarm"),
			Measures: ms("chest"),
			Eval: func(e Env) curve.Point {
				depth := e.M("chest")/8 + 7
				if kind == vestBodice {
					depth += 2
				}
				return curve.Pt(e.M("chest")/4, depth)
			},
		},
		{
			Name: n("arm_mid"),
			Deps: ms(n("shoulder"), n("underarm")),
			Eval: func(e Env) curve.Point {
				sh, ua := e.P(n("shoulder")), e.P(n("underarm"))
				in := 0.8
				if front {
					in = 1.5
				}
				return curve.Pt(sh.X-in, sh.Y+0.6*(ua.Y-sh.Y))
			},
		},
		{
			Name:     n("waist_side"),
			Measures: ms("waist", "nape_to_waist"),
			Eval: func(e Env) curve.Point {
				l := e.M("nape_to_waist")
				if kind == coatBodice {
					// The coat's length includes the skirt below the waist.
					l *= 0.55
				}
				return curve.Pt(e.M("waist")/4, l)
			},
		},
		{
			Name:     n("waist_cf"),
			Measures: ms("nape_to_waist"),
			Eval:     func(e Env) curve.Point { return curve.Pt(0, e.M("nape_to_waist")) },
		},
		{
			Name:     n("grain_top"),
			Deps:     ms(n("underarm")),
			Measures: ms("waist"),
			Eval: func(e Env) curve.Point {
				return curve.Pt(e.M("waist")/8, e.P(n("underarm")).Y)
			},
		},
		{
			Name:     n("grain_bottom"),
			Deps:     ms(n("grain_top")),
			Measures: ms("nape_to_waist"),
			Eval: func(e Env) curve.Point {
				return curve.Pt(e.P(n("grain_top")).X, e.M("nape_to_waist")-5)
			},
		},
	}
}

// bodiceTop returns the runs from the center front neck to the underarm.
func bodiceTop(prefix string, straightNeck bool) []Run {
	n := func(s string) string { return prefix + "." + s }
	neck := Run{Kind: CurveRun, Points: ms(n("neck_cf"), n("neck_mid"), n("neck_side"))}
	if straightNeck {
		neck = Run{Kind: LineRun, Points: ms(n("neck_cf"), n("neck_side"))}
	}
	return []Run{
		neck,
		{Kind: LineRun, Points: ms(n("neck_side"), n("shoulder"))},
		{Kind: CurveRun, Points: ms(n("shoulder"), n("arm_mid"), n("underarm"))},
	}
}

func prefixed(prefix string, names ...string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = prefix + "." + name
	}
	return out
}

func hipPoints(prefix string) []PointRule {
	n := func(s string) string { return prefix + "." + s }
	return []PointRule{
		{
			Name:     n("hip_side"),
			Measures: ms("hip", "nape_to_waist", "waist_to_hip"),
			Eval: func(e Env) curve.Point {
				return curve.Pt(e.M("hip")/4, e.M("nape_to_waist")+e.M("waist_to_hip"))
			},
		},
		{
			Name: n("hip_cf"),
			Deps: ms(n("hip_side")),
			Eval: func(e Env) curve.Point { return curve.Pt(0, e.P(n("hip_side")).Y) },
		},
	}
}

// sleevePoints returns the construction points of a one-piece set-in sleeve.
// The back of the sleeve lies to the left; the cap's apex sits slightly
// towards the front.
func sleevePoints() []PointRule {
	return []PointRule{
		{
			Name:     "sleeve.back_underarm",
			Measures: ms("bicep"),
			Eval:     func(e Env) curve.Point { return curve.Pt(0, e.M("bicep")/3) },
		},
		{
			Name:     "sleeve.back_cap",
			Measures: ms("bicep"),
			Eval: func(e Env) curve.Point {
				return curve.Pt(0.22*e.M("bicep"), 0.42*e.M("bicep")/3)
			},
		},
		{
			Name:     "sleeve.apex",
			Measures: ms("bicep"),
			Eval:     func(e Env) curve.Point { return curve.Pt(e.M("bicep")/2+1, 0) },
		},
		{
			Name:     "sleeve.front_cap",
			Measures: ms("bicep"),
			Eval: func(e Env) curve.Point {
				return curve.Pt(0.8*e.M("bicep"), 0.5*e.M("bicep")/3)
			},
		},
		{
			Name:     "sleeve.front_underarm",
			Measures: ms("bicep"),
			Eval:     func(e Env) curve.Point { return curve.Pt(e.M("bicep"), e.M("bicep")/3) },
		},
		{
			Name:     "sleeve.front_cuff",
			Measures: ms("bicep", "wrist", "sleeve_length"),
			Eval: func(e Env) curve.Point {
				return curve.Pt(e.M("bicep")/2+e.M("wrist")/2, e.M("sleeve_length"))
			},
		},
		{
			Name:     "sleeve.back_cuff",
			Measures: ms("bicep", "wrist", "sleeve_length"),
			Eval: func(e Env) curve.Point {
				return curve.Pt(e.M("bicep")/2-e.M("wrist")/2, e.M("sleeve_length"))
			},
		},
		{
			Name: "sleeve.grain_top",
			Deps: ms("sleeve.back_underarm", "sleeve.front_underarm"),
			Eval: func(e Env) curve.Point {
				return e.P("sleeve.back_underarm").Midpoint(e.P("sleeve.front_underarm"))
			},
		},
		{
			Name:     "sleeve.grain_bottom",
			Deps:     ms("sleeve.grain_top"),
			Measures: ms("sleeve_length"),
			Eval: func(e Env) curve.Point {
				return curve.Pt(e.P("sleeve.grain_top").X, e.M("sleeve_length")-5)
			},
		},
	}
}

func sleevePiece() PieceRecipe {
	return PieceRecipe{
		Name:    "sleeve",
		Label:   "Sleeve",
		Cutting: "Cut 2",
		Outline: []Run{
			{Kind: CurveRun, Points: prefixed("sleeve", "back_underarm", "back_cap", "apex", "front_cap", "front_underarm")},
			{Kind: LineRun, Points: prefixed("sleeve", "front_underarm", "front_cuff", "back_cuff", "back_underarm")},
		},
		Grain:   [2]string{"sleeve.grain_top", "sleeve.grain_bottom"},
		Notches: prefixed("sleeve", "back_cap", "apex", "front_cap"),
	}
}

func shirtRecipe() Recipe {
	var points []PointRule
	var pieces []PieceRecipe
	for _, side := range []struct {
		prefix, label string
		front         bool
	}{
		{"front", "Front", true},
		{"back", "Back", false},
	} {
		points = append(points, bodicePoints(side.prefix, side.front, plainBodice)...)
		points = append(points, hipPoints(side.prefix)...)
		outline := append(bodiceTop(side.prefix, false),
			Run{Kind: LineRun, Points: prefixed(side.prefix, "underarm", "waist_side", "waist_cf", "neck_cf"), Unless: FeatureHipCurve},
			Run{Kind: CurveRun, Points: prefixed(side.prefix, "underarm", "waist_side", "hip_side"), Feature: FeatureHipCurve},
			Run{Kind: LineRun, Points: prefixed(side.prefix, "hip_side", "hip_cf", "neck_cf"), Feature: FeatureHipCurve},
		)
		pieces = append(pieces, PieceRecipe{
			Name:    side.prefix,
			Label:   "Shirt " + side.label,
			Cutting: "Cut 1 on fold",
			Outline: outline,
			Grain:   [2]string{side.prefix + ".grain_top", side.prefix + ".grain_bottom"},
			Notches: prefixed(side.prefix, "arm_mid", "waist_side"),
		})
	}
	points = append(points, sleevePoints()...)
	pieces = append(pieces, sleevePiece())

	return Recipe{
		Garment:     "shirt",
		Description: "Fitted shirt with set-in sleeves",
		Eases: map[string]float64{
			"chest": 10,
			"waist": 10,
			"hip":   10,
			"bicep": 5,
			"wrist": 4,
		},
		Features: ms(FeatureHipCurve),
		Points:   points,
		Pieces:   pieces,
	}
}

func vestRecipe() Recipe {
	points := bodicePoints("front", true, vestBodice)
	points = append(points, bodicePoints("back", false, vestBodice)...)
	points = append(points,
		PointRule{
			Name:     "front.point",
			Measures: ms("nape_to_waist"),
			Eval:     func(e Env) curve.Point { return curve.Pt(5, e.M("nape_to_waist")+5) },
		},
		PointRule{
			Name:     "front.hem_cf",
			Measures: ms("nape_to_waist"),
			Eval:     func(e Env) curve.Point { return curve.Pt(0, e.M("nape_to_waist")+3) },
		},
	)

	front := append(bodiceTop("front", true),
		Run{Kind: LineRun, Points: prefixed("front", "underarm", "waist_side", "point", "hem_cf", "neck_cf")})
	back := append(bodiceTop("back", false),
		Run{Kind: LineRun, Points: prefixed("back", "underarm", "waist_side", "waist_cf", "neck_cf")})

	return Recipe{
		Garment:     "vest",
		Description: "Sleeveless waistcoat with V-neck and pointed front",
		Eases: map[string]float64{
			"chest": 8,
			"waist": 8,
		},
		Points: points,
		Pieces: []PieceRecipe{
			{
				Name:    "front",
				Label:   "Vest Front",
				Cutting: "Cut 2",
				Outline: front,
				Grain:   [2]string{"front.grain_top", "front.grain_bottom"},
				Notches: ms("front.waist_side"),
			},
			{
				Name:    "back",
				Label:   "Vest Back",
				Cutting: "Cut 1 on fold",
				Outline: back,
				Grain:   [2]string{"back.grain_top", "back.grain_bottom"},
				Notches: ms("back.waist_side"),
			},
		},
	}
}

func coatRecipe() Recipe {
	var points []PointRule
	var pieces []PieceRecipe
	for _, side := range []struct {
		prefix, label, cutting string
		front                  bool
	}{
		{"front", "Coat Front", "Cut 2", true},
		{"back", "Coat Back", "Cut 1 on fold", false},
	} {
		n := func(s string) string { return side.prefix + "." + s }
		points = append(points, bodicePoints(side.prefix, side.front, coatBodice)...)
		points = append(points,
			PointRule{
				Name:     n("hem_side"),
				Measures: ms("hip", "nape_to_waist"),
				Eval: func(e Env) curve.Point {
					return curve.Pt(e.M("hip")/4+2, e.M("nape_to_waist"))
				},
			},
			PointRule{
				Name: n("hem_cf"),
				Deps: ms(n("hem_side")),
				Eval: func(e Env) curve.Point { return curve.Pt(0, e.P(n("hem_side")).Y) },
			},
		)
		pieces = append(pieces, PieceRecipe{
			Name:    side.prefix,
			Label:   side.label,
			Cutting: side.cutting,
			Outline: append(bodiceTop(side.prefix, false),
				Run{Kind: CurveRun, Points: prefixed(side.prefix, "underarm", "waist_side", "hem_side")},
				Run{Kind: LineRun, Points: prefixed(side.prefix, "hem_side", "hem_cf", "neck_cf")},
			),
			Grain:   [2]string{n("grain_top"), n("grain_bottom")},
			Notches: prefixed(side.prefix, "arm_mid", "waist_side"),
		})
	}
	points = append(points, sleevePoints()...)
	pieces = append(pieces, sleevePiece())

	return Recipe{
		Garment:     "coat",
		Description: "Hip-length coat with roomy set-in sleeves",
		Eases: map[string]float64{
			"chest":         15,
			"waist":         15,
			"hip":           15,
			"bicep":         10,
			"wrist":         6,
			"sleeve_length": 5,
			"nape_to_waist": 30,
		},
		Points: points,
		Pieces: pieces,
	}
}

// trouserPoints returns the construction points of a front or back trouser
// leg. The side seam lies to the left, the crotch to the right, and y grows
// downwards from the waist.
func trouserPoints(prefix string, front bool) []PointRule {
	n := func(s string) string { return prefix + "." + s }

	// Crotch extension as a fraction of the quarter hip, crotch depth below
	// the rise line, leg center as a fraction of the quarter hip, and extra
	// width at knee and hem.
	ext, deep, center, extra := 1.0/5, 0.0, 0.55, 0.0
	if !front {
		ext, deep, center, extra = 1.0/3, 2, 0.6, 4
	}
	kneeY := func(e Env) float64 { return e.M("rise") + e.M("inseam")/2 - 5 }
	legX := func(e Env) float64 { return center * e.M("hip") / 4 }

	return []PointRule{
		{
			Name: n("waist_side"),
			Eval: func(e Env) curve.Point {
				if front {
					return curve.Pt(1, 0)
				}
				return curve.Pt(2, 0)
			},
		},
		{
			Name:     n("hip_side"),
			Measures: ms("rise"),
			Eval:     func(e Env) curve.Point { return curve.Pt(0, 0.75*e.M("rise")) },
		},
		{
			Name:     n("knee_side"),
			Measures: ms("hip", "knee", "rise", "inseam"),
			Eval: func(e Env) curve.Point {
				return curve.Pt(legX(e)-(e.M("knee")/2+extra)/2, kneeY(e))
			},
		},
		{
			Name:     n("knee_in"),
			Measures: ms("hip", "knee", "rise", "inseam"),
			Eval: func(e Env) curve.Point {
				return curve.Pt(legX(e)+(e.M("knee")/2+extra)/2, kneeY(e))
			},
		},
		{
			Name:     n("hem_side"),
			Measures: ms("hip", "ankle", "rise", "inseam"),
			Eval: func(e Env) curve.Point {
				return curve.Pt(legX(e)-(0.85*e.M("ankle")+extra)/2, e.M("rise")+e.M("inseam"))
			},
		},
		{
			Name:     n("hem_in"),
			Measures: ms("hip", "ankle", "rise", "inseam"),
			Eval: func(e Env) curve.Point {
				return curve.Pt(legX(e)+(0.85*e.M("ankle")+extra)/2, e.M("rise")+e.M("inseam"))
			},
		},
		{
			Name:     n("crotch"),
			Measures: ms("hip", "rise"),
			Eval: func(e Env) curve.Point {
				qh := e.M("hip") / 4
				return curve.Pt(qh+ext*qh, e.M("rise")+deep)
			},
		},
		{
			Name: n("inseam_mid"),
			Deps: ms(n("knee_in"), n("crotch")),
			Eval: func(e Env) curve.Point {
				knee, crotch := e.P(n("knee_in")), e.P(n("crotch"))
				return curve.Pt((knee.X+crotch.X)/2-1.2, (knee.Y+crotch.Y)/2)
			},
		},
		{
			Name:     n("crotch_mid"),
			Measures: ms("hip", "rise"),
			Eval: func(e Env) curve.Point {
				qh := e.M("hip") / 4
				return curve.Pt(qh+0.3*ext*qh, e.M("rise")+deep-0.35*ext*qh)
			},
		},
		{
			Name:     n("hip_cf"),
			Measures: ms("hip", "rise"),
			Eval:     func(e Env) curve.Point { return curve.Pt(e.M("hip")/4, e.M("rise")-8) },
		},
		{
			Name:     n("waist_cf"),
			Measures: ms("waist"),
			Eval: func(e Env) curve.Point {
				if front {
					return curve.Pt(e.M("waist")/4+1, 0)
				}
				return curve.Pt(e.M("waist")/4+3, -3)
			},
		},
		{
			Name:     n("grain_top"),
			Measures: ms("hip", "rise"),
			Eval:     func(e Env) curve.Point { return curve.Pt(legX(e), e.M("rise")) },
		},
		{
			Name:     n("grain_bottom"),
			Deps:     ms(n("grain_top")),
			Measures: ms("rise", "inseam"),
			Eval: func(e Env) curve.Point {
				return curve.Pt(e.P(n("grain_top")).X, e.M("rise")+e.M("inseam")-10)
			},
		},
	}
}

func trousersRecipe() Recipe {
	var points []PointRule
	var pieces []PieceRecipe
	for _, side := range []struct {
		prefix, label string
		front         bool
	}{
		{"front", "Trouser Front", true},
		{"back", "Trouser Back", false},
	} {
		points = append(points, trouserPoints(side.prefix, side.front)...)
		pieces = append(pieces, PieceRecipe{
			Name:    side.prefix,
			Label:   side.label,
			Cutting: "Cut 2",
			Outline: []Run{
				{Kind: CurveRun, Points: prefixed(side.prefix, "waist_side", "hip_side", "knee_side")},
				{Kind: LineRun, Points: prefixed(side.prefix, "knee_side", "hem_side", "hem_in", "knee_in")},
				{Kind: CurveRun, Points: prefixed(side.prefix, "knee_in", "inseam_mid", "crotch")},
				{Kind: CurveRun, Points: prefixed(side.prefix, "crotch", "crotch_mid", "hip_cf")},
				{Kind: LineRun, Points: prefixed(side.prefix, "hip_cf", "waist_cf", "waist_side")},
			},
			Grain:   [2]string{side.prefix + ".grain_top", side.prefix + ".grain_bottom"},
			Notches: prefixed(side.prefix, "knee_side", "knee_in"),
		})
	}
	return Recipe{
		Garment:     "trousers",
		Description: "Straight-leg trousers",
		Eases: map[string]float64{
			"waist": 8,
			"hip":   8,
			"knee":  4,
		},
		Points: points,
		Pieces: pieces,
	}
}

func skirtRecipe() Recipe {
	points := []PointRule{
		{
			Name: "waist_cf",
			Eval: func(e Env) curve.Point { return curve.Pt(0, 0) },
		},
		{
			Name: "back_waist_cf",
			Eval: func(e Env) curve.Point { return curve.Pt(0, 1) },
		},
		{
			Name:     "waist_side",
			Measures: ms("waist"),
			Eval:     func(e Env) curve.Point { return curve.Pt(e.M("waist")/4+2, -1) },
		},
		{
			Name:     "hip_side",
			Measures: ms("hip", "waist_to_hip"),
			Eval:     func(e Env) curve.Point { return curve.Pt(e.M("hip")/4, e.M("waist_to_hip")) },
		},
		{
			Name: "hip_mid",
			Deps: ms("hip_side"),
			Eval: func(e Env) curve.Point {
				hip := e.P("hip_side")
				return curve.Pt(hip.X-0.6, 0.45*hip.Y)
			},
		},
		{
			Name:     "hem_side",
			Measures: ms("hip", "skirt_length"),
			Eval:     func(e Env) curve.Point { return curve.Pt(e.M("hip")/4+2, e.M("skirt_length")) },
		},
		{
			Name: "hem_cf",
			Deps: ms("hem_side"),
			Eval: func(e Env) curve.Point { return curve.Pt(0, e.P("hem_side").Y) },
		},
		{
			Name: "grain_top",
			Deps: ms("hip_side"),
			Eval: func(e Env) curve.Point { return curve.Pt(e.P("hip_side").X/2, e.P("hip_side").Y) },
		},
		{
			Name: "grain_bottom",
			Deps: ms("grain_top", "hem_side"),
			Eval: func(e Env) curve.Point { return curve.Pt(e.P("grain_top").X, e.P("hem_side").Y-5) },
		},
	}

	outline := func(cf string) []Run {
		return []Run{
			{Kind: LineRun, Points: ms(cf, "waist_side")},
			{Kind: LineRun, Points: ms("waist_side", "hip_side"), Unless: FeatureHipCurve},
			{Kind: CurveRun, Points: ms("waist_side", "hip_mid", "hip_side"), Feature: FeatureHipCurve},
			{Kind: LineRun, Points: ms("hip_side", "hem_side", "hem_cf", cf)},
		}
	}

	return Recipe{
		Garment:     "skirt",
		Description: "A-line skirt",
		Eases: map[string]float64{
			"waist": 2,
			"hip":   4,
		},
		Features: ms(FeatureHipCurve),
		Points:   points,
		Pieces: []PieceRecipe{
			{
				Name:    "front",
				Label:   "Skirt Front",
				Cutting: "Cut 1 on fold",
				Outline: outline("waist_cf"),
				Grain:   [2]string{"grain_top", "grain_bottom"},
				Notches: ms("hip_side"),
			},
			{
				Name:    "back",
				Label:   "Skirt Back",
				Cutting: "Cut 1 on fold",
				Outline: outline("back_waist_cf"),
				Grain:   [2]string{"grain_top", "grain_bottom"},
				Notches: ms("hip_side"),
			},
		},
	}
}
