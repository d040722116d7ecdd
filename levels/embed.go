package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

const DefaultLevel = "vault.yaml"

// Level is a top-down map: solid walls, named patrol points, guards that
// patrol between two of them and scripted intruders.
type Level struct {
	Name         string        `yaml:"name" json:"name" jsonschema:"title=Level name"`
	Width        float64       `yaml:"width" json:"width" jsonschema:"required,minimum=1,description=World width in units"`
	Height       float64       `yaml:"height" json:"height" jsonschema:"required,minimum=1,description=World height in units"`
	GridSize     float64       `yaml:"grid_size,omitempty" json:"grid_size,omitempty" jsonschema:"description=Navigation grid cell size; defaults to 32"`
	Walls        []Wall        `yaml:"walls,omitempty" json:"walls,omitempty"`
	PatrolPoints []PatrolPoint `yaml:"patrol_points,omitempty" json:"patrol_points,omitempty"`
	Guards       []Guard       `yaml:"guards,omitempty" json:"guards,omitempty"`
	Intruders    []Intruder    `yaml:"intruders,omitempty" json:"intruders,omitempty"`
}

// Wall is an axis aligned box given by its top-left corner.
type Wall struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	W float64 `yaml:"w" json:"w" jsonschema:"minimum=0"`
	H float64 `yaml:"h" json:"h" jsonschema:"minimum=0"`
}

type PatrolPoint struct {
	Name string  `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	X    float64 `yaml:"x" json:"x"`
	Y    float64 `yaml:"y" json:"y"`
}

type Guard struct {
	Name     string  `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	X        float64 `yaml:"x" json:"x"`
	Y        float64 `yaml:"y" json:"y"`
	Rotation float64 `yaml:"rotation" json:"rotation" jsonschema:"description=Initial facing in degrees; 0 faces +x"`
	Patrol   bool    `yaml:"patrol" json:"patrol"`
	First    string  `yaml:"first,omitempty" json:"first,omitempty" jsonschema:"description=Name of the first patrol point"`
	Second   string  `yaml:"second,omitempty" json:"second,omitempty" jsonschema:"description=Name of the second patrol point"`
	Prefab   string  `yaml:"prefab,omitempty" json:"prefab,omitempty" jsonschema:"description=Guard prefab; defaults to guard.yaml"`
	Script   string  `yaml:"script,omitempty" json:"script,omitempty" jsonschema:"description=Overrides the prefab presentation script"`
}

type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

type Intruder struct {
	Name          string  `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	X             float64 `yaml:"x" json:"x"`
	Y             float64 `yaml:"y" json:"y"`
	Player        bool    `yaml:"player" json:"player" jsonschema:"description=Counts as a player for guards that only sense players"`
	Prefab        string  `yaml:"prefab,omitempty" json:"prefab,omitempty"`
	Route         []Point `yaml:"route,omitempty" json:"route,omitempty"`
	Loop          bool    `yaml:"loop" json:"loop"`
	NoiseInterval float64 `yaml:"noise_interval,omitempty" json:"noise_interval,omitempty" jsonschema:"description=Seconds between noises; 0 uses the prefab"`
	Loudness      float64 `yaml:"loudness,omitempty" json:"loudness,omitempty"`
}

func Load(name string) (*Level, error) {
	if name == "" {
		name = DefaultLevel
	}

	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = fs.ReadFile(LevelsFS, name)
	}
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("levels: %s: width and height must be positive", l.Name)
	}

	points := make(map[string]struct{}, len(l.PatrolPoints))
	for _, p := range l.PatrolPoints {
		if p.Name == "" {
			return fmt.Errorf("levels: %s: patrol point without a name", l.Name)
		}
		if _, dup := points[p.Name]; dup {
			return fmt.Errorf("levels: %s: duplicate patrol point %q", l.Name, p.Name)
		}
		points[p.Name] = struct{}{}
	}

	for _, g := range l.Guards {
		for _, ref := range []string{g.First, g.Second} {
			if ref == "" {
				continue
			}
			if _, ok := points[ref]; !ok {
				return fmt.Errorf("levels: %s: guard %q references unknown patrol point %q", l.Name, g.Name, ref)
			}
		}
	}

	for _, w := range l.Walls {
		if w.W < 0 || w.H < 0 {
			return fmt.Errorf("levels: %s: wall at %.0f,%.0f has negative size", l.Name, w.X, w.Y)
		}
	}

	return nil
}

func (l *Level) PatrolPoint(name string) (PatrolPoint, bool) {
	for _, p := range l.PatrolPoints {
		if p.Name == name {
			return p, true
		}
	}
	return PatrolPoint{}, false
}

func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(new(Level))
	schema.Title = "Guard patrol level"
	schema.Description = "Walls, patrol points, guards and intruders loaded by guardsim"
	return schema
}
