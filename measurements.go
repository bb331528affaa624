package pattern

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strings"
)

// Profile is a named set of default body measurements, in centimeters.
type Profile struct {
	Name   string
	Values map[string]float64
}

// MensMedium is a men's size medium (chest 96.5–101.5 cm).
var MensMedium = Profile{
	Name: "mens",
	Values: map[string]float64{
		"chest":          99.0,
		"waist":          84.0,
		"hip":            99.0,
		"shoulder_width": 46.0,
		"across_back":    40.0,
		"neck":           39.0,
		"sleeve_length":  64.0,
		"arm_length":     84.0,
		"bicep":          33.0,
		"wrist":          17.0,

		"inseam":  81.0,
		"outseam": 108.0,
		"thigh":   61.0,
		"knee":    40.0,
		"ankle":   23.0,
		"rise":    27.0,

		"height":        178.0,
		"nape_to_waist": 48.0,
		"waist_to_hip":  20.0,
		"skirt_length":  58.0,
	},
}

// WomensMedium is a women's size medium (UK 12–14, US 8–10). Chest equals
// bust.
var WomensMedium = Profile{
	Name: "womens",
	Values: map[string]float64{
		"bust":           96.5,
		"chest":          96.5,
		"underbust":      79.0,
		"waist":          76.0,
		"hip":            101.5,
		"shoulder_width": 39.0,
		"across_back":    36.0,
		"neck":           35.0,
		"sleeve_length":  60.0,
		"arm_length":     78.0,
		"bicep":          28.0,
		"wrist":          15.0,

		"inseam":  79.0,
		"outseam": 104.0,
		"thigh":   58.0,
		"knee":    38.0,
		"ankle":   22.0,
		"rise":    26.0,

		"height":        168.0,
		"nape_to_waist": 42.0,
		"waist_to_hip":  20.0,
		"skirt_length":  60.0,
	},
}

// Profiles lists the built-in profiles.
var Profiles = []Profile{MensMedium, WomensMedium}

// ProfileByName returns the built-in profile with the given name. Matching is
// case-insensitive.
func ProfileByName(name string) (Profile, bool) {
	for _, p := range Profiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Profile{}, false
}

// MeasurementInfo describes a measurement for help output.
type MeasurementInfo struct {
	Name        string
	Group       string
	Description string
}

// KnownMeasurements describes every measurement used by the built-in profiles.
var KnownMeasurements = []MeasurementInfo{
	{"chest", "Upper body", "Fullest part of the chest, under the arms"},
	{"bust", "Upper body", "Fullest part of the bust"},
	{"underbust", "Upper body", "Directly under the bust"},
	{"waist", "Upper body", "Natural waistline"},
	{"hip", "Lower body", "Fullest part of the hips"},
	{"shoulder_width", "Upper body", "Shoulder point to shoulder point across the back"},
	{"across_back", "Upper body", "Across the back between the armpit creases"},
	{"neck", "Upper body", "Around the base of the neck"},
	{"sleeve_length", "Upper body", "Shoulder point to wrist"},
	{"arm_length", "Upper body", "Nape to wrist over the shoulder"},
	{"bicep", "Upper body", "Fullest part of the upper arm"},
	{"wrist", "Upper body", "Around the wrist bone"},
	{"inseam", "Lower body", "Crotch to floor"},
	{"outseam", "Lower body", "Waist to floor at the side"},
	{"thigh", "Lower body", "Fullest part of the thigh"},
	{"knee", "Lower body", "Around the knee"},
	{"ankle", "Lower body", "Around the ankle"},
	{"rise", "Lower body", "Waist to seat, seated"},
	{"height", "Vertical", "Total body height"},
	{"nape_to_waist", "Vertical", "Nape of the neck to the waistline"},
	{"waist_to_hip", "Vertical", "Waistline to fullest part of the hips"},
	{"skirt_length", "Vertical", "Waistline to desired hem"},
}

// Measurements is an immutable set of body measurements. Values not
// overridden fall back to the profile's.
//
// The zero value has no measurements at all.
type Measurements struct {
	profile   Profile
	overrides map[string]float64
}

// NewMeasurements returns the measurements of profile, with individual values
// replaced by overrides. Every override must be positive and finite. Neither
// map is retained.
func NewMeasurements(profile Profile, overrides map[string]float64) (Measurements, error) {
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		if v := overrides[name]; !(v > 0) || math.IsInf(v, 0) {
			return Measurements{}, &InvalidMeasurementError{Name: name, Value: v}
		}
	}
	profile.Values = maps.Clone(profile.Values)
	return Measurements{profile: profile, overrides: maps.Clone(overrides)}, nil
}

// Profile returns a copy of the profile the measurements fall back to.
func (m Measurements) Profile() Profile {
	p := m.profile
	p.Values = maps.Clone(p.Values)
	return p
}

// Get returns the named measurement.
func (m Measurements) Get(name string) (float64, bool) {
	if v, ok := m.overrides[name]; ok {
		return v, true
	}
	v, ok := m.profile.Values[name]
	return v, ok
}

// IsOverridden reports whether name was set explicitly instead of coming from
// the profile.
func (m Measurements) IsOverridden(name string) bool {
	_, ok := m.overrides[name]
	return ok
}

// Names returns the names of all available measurements, sorted.
func (m Measurements) Names() []string {
	names := slices.Collect(maps.Keys(m.profile.Values))
	for name := range m.overrides {
		if _, ok := m.profile.Values[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Map returns a copy of all measurements.
func (m Measurements) Map() map[string]float64 {
	out := maps.Clone(m.profile.Values)
	if out == nil {
		out = map[string]float64{}
	}
	maps.Copy(out, m.overrides)
	return out
}

// LoadMeasurements reads measurements as JSON from r. Two forms are accepted:
// an object with "profile" and "measurements" keys, or a flat object mapping
// measurement names to numbers. Non-numeric keys of the flat form are ignored,
// which allows files that also carry garment options. The profile named in the
// file takes precedence over def.
func LoadMeasurements(r io.Reader, def Profile) (Measurements, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Measurements{}, fmt.Errorf("decoding measurements: %w", err)
	}

	profile := def
	if b, ok := raw["profile"]; ok {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return Measurements{}, fmt.Errorf("decoding profile: %w", err)
		}
		p, ok := ProfileByName(name)
		if !ok {
			return Measurements{}, fmt.Errorf("unknown profile %q", name)
		}
		profile = p
	}

	overrides := map[string]float64{}
	if b, ok := raw["measurements"]; ok {
		if err := json.Unmarshal(b, &overrides); err != nil {
			return Measurements{}, fmt.Errorf("decoding measurements: %w", err)
		}
	} else {
		for k, b := range raw {
			var v float64
			if json.Unmarshal(b, &v) == nil {
				overrides[k] = v
			}
		}
	}
	return NewMeasurements(profile, overrides)
}
