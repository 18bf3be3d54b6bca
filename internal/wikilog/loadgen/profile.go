package loadgen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mix weights the kinds of request a generated line makes. Weights are
// relative; they are normalized before use.
type Mix struct {
	Display   float64 `yaml:"display"`
	Download  float64 `yaml:"download"`
	Labels    float64 `yaml:"labels"`
	Spaces    float64 `yaml:"spaces"`
	Pages     float64 `yaml:"pages"`
	Homepage  float64 `yaml:"homepage"`
	Unknown   float64 `yaml:"unknown"`
	Malformed float64 `yaml:"malformed"`
}

// Profile describes a synthetic access log.
type Profile struct {
	Seed          int64   `yaml:"seed"`
	Lines         int     `yaml:"lines"`
	Host          string  `yaml:"host"`
	Start         string  `yaml:"start"`
	Users         int     `yaml:"users"`
	Spaces        int     `yaml:"spaces"`
	AnonymousRate float64 `yaml:"anonymous_rate"`
	Mix           Mix     `yaml:"mix"`
}

// DefaultProfile returns the profile used when no profile file is given.
func DefaultProfile() Profile {
	return Profile{
		Lines:         1000,
		Host:          "wiki.example.com",
		Users:         25,
		Spaces:        8,
		AnonymousRate: 0.1,
		Mix: Mix{
			Display:  0.35,
			Download: 0.1,
			Labels:   0.05,
			Spaces:   0.1,
			Pages:    0.3,
			Homepage: 0.05,
			Unknown:  0.05,
		},
	}
}

// ReadProfile loads a YAML profile. Fields the file leaves unset keep their
// DefaultProfile values.
func ReadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, p.validate()
}

func (p Profile) validate() error {
	if p.Lines < 0 {
		return fmt.Errorf("lines must be >= 0, got %d", p.Lines)
	}
	if p.AnonymousRate < 0 || p.AnonymousRate > 1 {
		return fmt.Errorf("anonymous_rate must be within [0,1], got %g", p.AnonymousRate)
	}
	m := p.Mix
	for _, w := range []float64{m.Display, m.Download, m.Labels, m.Spaces, m.Pages, m.Homepage, m.Unknown, m.Malformed} {
		if w < 0 {
			return fmt.Errorf("mix weights must be >= 0")
		}
	}
	return nil
}

// normalize scales the weights so they sum to 1. An all-zero mix falls back
// to the default mix.
func (m Mix) normalize() Mix {
	total := m.Display + m.Download + m.Labels + m.Spaces + m.Pages + m.Homepage + m.Unknown + m.Malformed
	if total == 0 {
		return DefaultProfile().Mix.normalize()
	}
	return Mix{
		Display:   m.Display / total,
		Download:  m.Download / total,
		Labels:    m.Labels / total,
		Spaces:    m.Spaces / total,
		Pages:     m.Pages / total,
		Homepage:  m.Homepage / total,
		Unknown:   m.Unknown / total,
		Malformed: m.Malformed / total,
	}
}
