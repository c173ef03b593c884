// Package suggest serves the crop recommendation panel. The
// recommendations are a fixed catalog; the growing parameters are
// validated but do not influence the result.
package suggest

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSoilType   = errors.New("soil type is required")
	ErrMissingExperience = errors.New("experience level is required")
	ErrUnknownSoilType   = errors.New("unknown soil type")
	ErrUnknownExperience = errors.New("unknown experience level")
	ErrOutOfRange        = errors.New("parameter out of range")
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

type Suggestion struct {
	Name       string     `yaml:"name" json:"name"`
	Confidence int        `yaml:"confidence" json:"confidence"`
	GrowthTime string     `yaml:"growth_time" json:"growth_time"`
	Difficulty Difficulty `yaml:"difficulty" json:"difficulty"`
	Yield      string     `yaml:"yield" json:"yield"`
	WaterNeeds Level      `yaml:"water_needs" json:"water_needs"`
	LightNeeds Level      `yaml:"light_needs" json:"light_needs"`
	Benefits   []string   `yaml:"benefits" json:"benefits"`
	Tips       []string   `yaml:"tips" json:"tips"`
}

func (s Suggestion) clone() Suggestion {
	s.Benefits = append([]string(nil), s.Benefits...)
	s.Tips = append([]string(nil), s.Tips...)
	return s
}

type SoilType string

const (
	SoilHydroponic SoilType = "hydroponic"
	SoilCocoCoir   SoilType = "coco-coir"
	SoilPerlite    SoilType = "perlite"
	SoilRockwool   SoilType = "rockwool"
	SoilOrganic    SoilType = "organic"
)

var SoilTypes = []SoilType{SoilHydroponic, SoilCocoCoir, SoilPerlite, SoilRockwool, SoilOrganic}

type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

var ExperienceLevels = []Experience{ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced}

type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

func (r Range) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var (
	TemperatureRange = Range{Min: 10, Max: 35, Step: 1}
	HumidityRange    = Range{Min: 30, Max: 90, Step: 5}
	PHRange          = Range{Min: 4.5, Max: 8.5, Step: 0.1}
	AreaRange        = Range{Min: 1, Max: 100, Step: 1}
)

// Parameters are the panel's slider and select values.
type Parameters struct {
	Temperature float64    `json:"temperature"` // °C
	Humidity    float64    `json:"humidity"`    // %
	PH          float64    `json:"ph"`
	Area        float64    `json:"area"` // sq ft
	SoilType    SoilType   `json:"soil_type"`
	Experience  Experience `json:"experience"`
}

func DefaultParameters() Parameters {
	return Parameters{Temperature: 24, Humidity: 65, PH: 6.5, Area: 10}
}

func (p Parameters) Validate() error {
	checks := []struct {
		name string
		v    float64
		r    Range
	}{
		{"temperature", p.Temperature, TemperatureRange},
		{"humidity", p.Humidity, HumidityRange},
		{"ph", p.PH, PHRange},
		{"area", p.Area, AreaRange},
	}
	for _, c := range checks {
		if !c.r.contains(c.v) {
			return fmt.Errorf("%w: %s=%g not in [%g, %g]", ErrOutOfRange, c.name, c.v, c.r.Min, c.r.Max)
		}
	}

	if p.SoilType == "" {
		return ErrMissingSoilType
	}
	if !containsSoil(p.SoilType) {
		return fmt.Errorf("%w: %q", ErrUnknownSoilType, p.SoilType)
	}
	if p.Experience == "" {
		return ErrMissingExperience
	}
	if !containsExperience(p.Experience) {
		return fmt.Errorf("%w: %q", ErrUnknownExperience, p.Experience)
	}
	return nil
}

func containsSoil(s SoilType) bool {
	for _, v := range SoilTypes {
		if v == s {
			return true
		}
	}
	return false
}

func containsExperience(e Experience) bool {
	for _, v := range ExperienceLevels {
		if v == e {
			return true
		}
	}
	return false
}

type Generator struct {
	catalog []Suggestion
}

func NewGenerator(catalog []Suggestion) *Generator {
	g := &Generator{catalog: make([]Suggestion, 0, len(catalog))}
	for _, s := range catalog {
		g.catalog = append(g.catalog, s.clone())
	}
	return g
}

// Generate returns the catalog in order. The parameters are ignored.
func (g *Generator) Generate(_ Parameters) []Suggestion {
	out := make([]Suggestion, 0, len(g.catalog))
	for _, s := range g.catalog {
		out = append(out, s.clone())
	}
	return out
}
