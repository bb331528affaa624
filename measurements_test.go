package pattern

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestMeasurementsDefaults(t *testing.T) {
	m, err := NewMeasurements(MensMedium, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := m.Get("chest"); !ok || v != 99 {
		t.Errorf("got chest %g, %t, want 99, true", v, ok)
	}
	if _, ok := m.Get("bust"); ok {
		t.Error("men's profile has a bust measurement")
	}
	if m.IsOverridden("chest") {
		t.Error("chest reported as overridden")
	}
	diff(t, len(MensMedium.Values), len(m.Names()))
}

func TestMeasurementsOverride(t *testing.T) {
	overrides := map[string]float64{"chest": 104, "inside_leg": 80}
	m, err := NewMeasurements(WomensMedium, overrides)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := m.Get("chest"); v != 104 {
		t.Errorf("got chest %g, want 104", v)
	}
	if v, _ := m.Get("waist"); v != 76 {
		t.Errorf("got waist %g, want 76", v)
	}
	if !m.IsOverridden("chest") || m.IsOverridden("waist") {
		t.Error("wrong override status")
	}

	names := m.Names()
	if len(names) != len(WomensMedium.Values)+1 {
		t.Errorf("got %d names, want %d", len(names), len(WomensMedium.Values)+1)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names aren't sorted: %v", names)
		}
	}

	// Neither the caller's map nor the returned copies alias the stored
	// values.
	overrides["chest"] = 1
	mp := m.Map()
	mp["waist"] = 1
	if v, _ := m.Get("chest"); v != 104 {
		t.Errorf("chest changed to %g through the overrides map", v)
	}
	if v, _ := m.Get("waist"); v != 76 {
		t.Errorf("waist changed to %g through Map", v)
	}
	if WomensMedium.Values["chest"] != 96.5 {
		t.Error("profile was modified")
	}
}

func TestMeasurementsProfileCopied(t *testing.T) {
	prof := Profile{Name: "custom", Values: map[string]float64{"chest": 90, "waist": 70}}
	m, err := NewMeasurements(prof, nil)
	if err != nil {
		t.Fatal(err)
	}
	prof.Values["chest"] = 1
	delete(prof.Values, "waist")
	if v, _ := m.Get("chest"); v != 90 {
		t.Errorf("chest changed to %g through the profile's map", v)
	}
	if v, ok := m.Get("waist"); !ok || v != 70 {
		t.Errorf("got waist %g, %t after deleting it from the profile's map, want 70, true", v, ok)
	}

	m.Profile().Values["chest"] = 2
	if v, _ := m.Get("chest"); v != 90 {
		t.Errorf("chest changed to %g through Profile", v)
	}
}

func TestMeasurementsInvalid(t *testing.T) {
	for _, v := range []float64{0, -5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewMeasurements(MensMedium, map[string]float64{"waist": 80, "chest": v})
		var merr *InvalidMeasurementError
		if !errors.As(err, &merr) {
			t.Errorf("%g: got error %v, want InvalidMeasurementError", v, err)
			continue
		}
		if merr.Name != "chest" {
			t.Errorf("%g: error names %q, want chest", v, merr.Name)
		}
	}
}

func TestProfileByName(t *testing.T) {
	for _, name := range []string{"mens", "Womens", "MENS"} {
		if _, ok := ProfileByName(name); !ok {
			t.Errorf("profile %q not found", name)
		}
	}
	if _, ok := ProfileByName("kids"); ok {
		t.Error("found a profile that doesn't exist")
	}
}

func TestKnownMeasurementsCoverProfiles(t *testing.T) {
	known := map[string]bool{}
	for _, info := range KnownMeasurements {
		known[info.Name] = true
	}
	for _, p := range Profiles {
		for name := range p.Values {
			if !known[name] {
				t.Errorf("measurement %q of profile %s is undocumented", name, p.Name)
			}
		}
	}
}

func TestLoadMeasurements(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		profile string
		want    map[string]float64
	}{
		{
			name:    "flat",
			in:      `{"chest": 104, "waist": 90, "style": "slim"}`,
			profile: "mens",
			want:    map[string]float64{"chest": 104, "waist": 90, "hip": 99},
		},
		{
			name:    "nested",
			in:      `{"profile": "womens", "measurements": {"hip": 110}}`,
			profile: "womens",
			want:    map[string]float64{"chest": 96.5, "hip": 110},
		},
		{
			name:    "profile only",
			in:      `{"profile": "WOMENS"}`,
			profile: "womens",
			want:    map[string]float64{"waist": 76},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := LoadMeasurements(strings.NewReader(tt.in), MensMedium)
			if err != nil {
				t.Fatal(err)
			}
			if m.Profile().Name != tt.profile {
				t.Errorf("got profile %q, want %q", m.Profile().Name, tt.profile)
			}
			for name, want := range tt.want {
				if got, _ := m.Get(name); got != want {
					t.Errorf("got %s = %g, want %g", name, got, want)
				}
			}
			if _, ok := m.Get("style"); ok {
				t.Error("non-numeric key was loaded as a measurement")
			}
		})
	}
}

func TestLoadMeasurementsErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"syntax", `{"chest": `},
		{"unknown profile", `{"profile": "kids"}`},
		{"profile not a string", `{"profile": 3}`},
		{"measurements not numbers", `{"measurements": {"chest": "big"}}`},
		{"zero", `{"chest": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadMeasurements(strings.NewReader(tt.in), MensMedium); err == nil {
				t.Error("expected an error")
			}
		})
	}

	_, err := LoadMeasurements(strings.NewReader(`{"hip": -1}`), MensMedium)
	var merr *InvalidMeasurementError
	if !errors.As(err, &merr) || merr.Name != "hip" {
		t.Errorf("got error %v, want InvalidMeasurementError for hip", err)
	}
}
