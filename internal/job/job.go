// Package job parses YAML batch files describing a list of clip invocations.
package job

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/tiger-clip/internal/model"
	"github.com/sells-group/tiger-clip/internal/tiger"
)

// Spec is one clip invocation from a job file. Exactly one selector applies:
// county wins over place, place over state. Year 0 and empty Out inherit the
// runtime configuration.
type Spec struct {
	Name   string   `yaml:"name"`
	State  string   `yaml:"state"`
	Place  string   `yaml:"place"`
	County string   `yaml:"county"`
	Year   int      `yaml:"year"`
	Layers []string `yaml:"layers"`
	Out    string   `yaml:"out"`
	Report string   `yaml:"report"`
}

// Defaults fill unset fields of every job in the file.
type Defaults struct {
	Year   int      `yaml:"year"`
	Layers []string `yaml:"layers"`
	Out    string   `yaml:"out"`
}

// File is a parsed job file.
type File struct {
	Defaults Defaults `yaml:"defaults"`
	Jobs     []Spec   `yaml:"jobs"`
}

// Load reads a job file, applies its defaults, and validates every job.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "job: read %s", path)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "job: parse %s", path)
	}
	if len(f.Jobs) == 0 {
		return nil, eris.Errorf("job: %s defines no jobs", path)
	}

	f.applyDefaults()
	if err := f.validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Request maps the job's selector onto a clip request.
func (s *Spec) Request() (model.Request, error) {
	req := model.Request{Year: s.Year, Layers: s.Layers}

	switch {
	case s.County != "" && s.Place != "":
		return req, eris.New("county and place are mutually exclusive")
	case s.County != "":
		req.Kind = model.KindCounty
		req.CountyGEOID = s.County
	case s.Place != "":
		req.Kind = model.KindPlace
		req.PlaceName = s.Place
		req.StateText = s.State
	case s.State != "":
		req.Kind = model.KindState
		req.StateText = s.State
	default:
		return req, eris.New("no selector: set state, place, or county")
	}

	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

// Label returns the job's name, or its position when unnamed.
func (s *Spec) Label(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("#%d", index+1)
}

func (f *File) applyDefaults() {
	for i := range f.Jobs {
		j := &f.Jobs[i]
		if j.Year == 0 {
			j.Year = f.Defaults.Year
		}
		if len(j.Layers) == 0 {
			j.Layers = append([]string(nil), f.Defaults.Layers...)
		}
		if j.Out == "" {
			j.Out = f.Defaults.Out
		}
		for k, l := range j.Layers {
			j.Layers[k] = strings.ToUpper(strings.TrimSpace(l))
		}
	}
}

func (f *File) validate() error {
	var problems []string
	for i := range f.Jobs {
		j := &f.Jobs[i]
		label := j.Label(i)

		if _, err := j.Request(); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", label, err))
		}
		for _, l := range j.Layers {
			if _, ok := tiger.LayerByName(l); !ok {
				problems = append(problems, fmt.Sprintf("%s: unknown layer %q", label, l))
			}
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("job: invalid job file: %s", strings.Join(problems, "; "))
	}
	return nil
}
