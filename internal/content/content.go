// Package content holds the site copy: profile, experience, education and projects.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteYAML []byte

var ErrProjectNotFound = errors.New("project not found")

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Text is copy keyed by locale.
type Text map[string]string

// In returns the copy for locale, or the English copy when it is missing.
func (t Text) In(locale string) string {
	if v, ok := t[locale]; ok && v != "" {
		return v
	}
	return t["en"]
}

type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

type Profile struct {
	Name     string `yaml:"name"`
	Title    Text   `yaml:"title"`
	Location string `yaml:"location"`
	Email    string `yaml:"email"`
	Links    []Link `yaml:"links"`
	About    Text   `yaml:"about"`
}

// Position is one entry of the experience timeline. End is empty while ongoing.
type Position struct {
	Company string `yaml:"company"`
	Role    Text   `yaml:"role"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
	Summary Text   `yaml:"summary"`
}

type Degree struct {
	School string `yaml:"school"`
	Degree Text   `yaml:"degree"`
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
}

type SpokenLanguage struct {
	Code  string `yaml:"code"`
	Level string `yaml:"level"`
}

type Image struct {
	Src string `yaml:"src"`
	Alt string `yaml:"alt"`
}

// Project is a showcase page. Video and Model3D are optional embeds.
type Project struct {
	Slug     string   `yaml:"slug"`
	Name     string   `yaml:"name"`
	Year     int      `yaml:"year"`
	Featured bool     `yaml:"featured"`
	Role     Text     `yaml:"role"`
	Tech     []string `yaml:"tech"`
	Summary  Text     `yaml:"summary"`
	Gallery  []Image  `yaml:"gallery"`
	Video    string   `yaml:"video"`
	Model3D  string   `yaml:"model3d"`
	Link     string   `yaml:"link"`
}

// Site is the whole decoded content file.
type Site struct {
	Profile    Profile          `yaml:"profile"`
	Experience []Position       `yaml:"experience"`
	Education  []Degree         `yaml:"education"`
	Skills     []string         `yaml:"skills"`
	Languages  []SpokenLanguage `yaml:"languages"`
	Projects   []Project        `yaml:"projects"`
}

// Load decodes the embedded site content.
func Load() (*Site, error) {
	return Parse(siteYAML)
}

// Parse decodes and validates site content.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse site content: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Site) validate() error {
	if s.Profile.Name == "" {
		return errors.New("site content: profile name is required")
	}
	seen := make(map[string]bool, len(s.Projects))
	for i, p := range s.Projects {
		if !slugPattern.MatchString(p.Slug) {
			return fmt.Errorf("site content: project %d: invalid slug %q", i, p.Slug)
		}
		if seen[p.Slug] {
			return fmt.Errorf("site content: duplicate project slug %q", p.Slug)
		}
		seen[p.Slug] = true
		if p.Summary.In("en") == "" {
			return fmt.Errorf("site content: project %q needs an English summary", p.Slug)
		}
	}
	return nil
}

// Project looks a project up by slug.
func (s *Site) Project(slug string) (Project, error) {
	for _, p := range s.Projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, slug)
}

// Featured returns the projects shown on the landing page, in file order.
func (s *Site) Featured() []Project {
	var out []Project
	for _, p := range s.Projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}
