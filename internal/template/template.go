// internal/template/template.go
//
// Curriculum templates seed the very first run, before a state file exists.
// A default template ships with the binary and is written to
// .studytrack/template.yaml so the user can adjust it to their program.

package template

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lbehrendt/studytrack/internal/curriculum"
)

const defaultTemplateYAML = `# studytrack curriculum template
# Used once, on first start, to seed the state file. Edit freely before the
# first run; afterwards manage modules from inside the dashboard.
name: B.Sc. Informatik

semesters:
  - label: "1"
    modules:
      - id: MAT101
        name: Mathematik I
        ects: 6
      - id: PRG101
        name: Programmierung I
        ects: 9
      - id: GDI101
        name: Grundlagen der Informatik
        ects: 6
      - id: SWE101
        name: Softwaretechnik I
        ects: 9
  - label: "2"
    modules:
      - id: MAT102
        name: Mathematik II
        ects: 6
      - id: PRG102
        name: Programmierung II
        ects: 9
      - id: DBS201
        name: Datenbanken
        ects: 6
      - id: THE201
        name: Theoretische Informatik
        ects: 9
  - label: "3"
    modules:
      - id: BSY301
        name: Betriebssysteme
        ects: 6
      - id: NET301
        name: Rechnernetze
        ects: 6
      - id: SWE301
        name: Softwaretechnik II
        ects: 9
      - id: STA301
        name: Statistik
        ects: 6
`

// Template mirrors the YAML structure of a curriculum seed file.
type Template struct {
	Name      string             `yaml:"name"`
	Semesters []SemesterTemplate `yaml:"semesters"`
}

// SemesterTemplate is one semester entry of the seed file.
type SemesterTemplate struct {
	Label   string           `yaml:"label"`
	Modules []ModuleTemplate `yaml:"modules"`
}

// ModuleTemplate is one module entry of the seed file.
type ModuleTemplate struct {
	ID   string  `yaml:"id"`
	Name string  `yaml:"name"`
	ECTS float64 `yaml:"ects"`
}

// Parse reads a template from YAML bytes.
func Parse(data []byte) (Template, error) {
	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return Template{}, fmt.Errorf("template: parse: %w", err)
	}
	return tpl, nil
}

// Load reads and parses the template file at path.
func Load(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("template: read %s: %w", path, err)
	}
	return Parse(data)
}

// Ensure writes the default template to path if no file exists there yet.
func Ensure(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultTemplateYAML), 0o644)
}

// Build constructs a fresh curriculum from the template. Construction goes
// through the regular repository operations, so a template with duplicate
// ids or bad credits fails here instead of producing an invalid aggregate.
func (t Template) Build() (*curriculum.Curriculum, error) {
	c := curriculum.New(t.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("template: program name is required")
	}
	for _, st := range t.Semesters {
		if _, err := c.AddSemester(st.Label); err != nil {
			return nil, fmt.Errorf("template: %w", err)
		}
		for _, mt := range st.Modules {
			spec := curriculum.ModuleSpec{ID: mt.ID, Name: mt.Name, ECTS: mt.ECTS}
			if _, err := c.AddModule(st.Label, spec); err != nil {
				return nil, fmt.Errorf("template: %w", err)
			}
		}
	}
	return c, nil
}

// Default returns the built-in template.
func Default() Template {
	tpl, err := Parse([]byte(defaultTemplateYAML))
	if err != nil {
		// The default template is a compile-time constant covered by
		// tests; failing to parse it is a programming error.
		panic(fmt.Sprintf("template: default template broken: %v", err))
	}
	return tpl
}
