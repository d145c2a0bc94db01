// Package suite runs a YAML manifest of source files through the checker
// and compares each outcome with its expectation.
//
//	name: conformance
//	timeout: 5s
//	cases:
//	  - path: ok/basic.rx
//	    expect: pass
//	  - path: fail/assign.rx
//	    expect: fail
//	    codes: [SEM3400]
//	    timeout: 1s
package suite

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Expect is the outcome a case must have.
type Expect string

const (
	ExpectPass Expect = "pass"
	ExpectFail Expect = "fail"
)

const defaultTimeout = 10 * time.Second

// Manifest is a validated suite file.
type Manifest struct {
	Path    string
	Dir     string
	Name    string
	Timeout time.Duration
	// ThrowOnError runs every case in fail-fast mode.
	ThrowOnError bool
	Cases        []Case
}

// Case is one file and its expectation. Path is absolute after loading.
type Case struct {
	Path    string
	Expect  Expect
	Codes   []string
	Timeout time.Duration
}

type manifestFile struct {
	Name         string     `yaml:"name"`
	Timeout      string     `yaml:"timeout"`
	ThrowOnError bool       `yaml:"throw_on_error"`
	Cases        []caseFile `yaml:"cases"`
}

type caseFile struct {
	Path    string   `yaml:"path"`
	Expect  string   `yaml:"expect"`
	Codes   []string `yaml:"codes"`
	Timeout string   `yaml:"timeout"`
}

// ValidationError aggregates manifest problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "suite: invalid manifest"
	}
	var b strings.Builder
	b.WriteString("suite validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest reads and validates a suite file.
func LoadManifest(path string) (*Manifest, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("suite: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("suite: open %s: %w", absPath, err)
	}
	defer file.Close()
	m, err := Decode(file, filepath.Dir(absPath))
	if err != nil {
		return nil, fmt.Errorf("suite: %s: %w", absPath, err)
	}
	m.Path = absPath
	return m, nil
}

// Decode parses a manifest whose case paths are relative to dir.
func Decode(r io.Reader, dir string) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var raw manifestFile
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty manifest")
		}
		return nil, fmt.Errorf("parse: %w", err)
	}
	return raw.toManifest(dir)
}

func (raw *manifestFile) toManifest(dir string) (*Manifest, error) {
	var errs ValidationError
	m := &Manifest{Dir: dir, Name: raw.Name, ThrowOnError: raw.ThrowOnError, Timeout: defaultTimeout}
	if m.Name == "" {
		m.Name = filepath.Base(dir)
	}
	if raw.Timeout != "" {
		d, err := parseTimeout(raw.Timeout)
		if err != nil {
			errs.Issues = append(errs.Issues, "timeout: "+err.Error())
		}
		m.Timeout = d
	}
	if len(raw.Cases) == 0 {
		errs.Issues = append(errs.Issues, "cases must not be empty")
	}

	seen := make(map[string]int, len(raw.Cases))
	for i, rc := range raw.Cases {
		c := Case{Codes: rc.Codes, Timeout: m.Timeout}
		switch {
		case rc.Path == "":
			errs.Issues = append(errs.Issues, fmt.Sprintf("cases[%d].path must be provided", i))
		case filepath.IsAbs(rc.Path):
			c.Path = filepath.Clean(rc.Path)
		default:
			c.Path = filepath.Join(dir, filepath.FromSlash(rc.Path))
		}
		if prev, ok := seen[c.Path]; ok && c.Path != "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("cases[%d] repeats cases[%d] (%s)", i, prev, rc.Path))
		}
		seen[c.Path] = i

		switch Expect(rc.Expect) {
		case ExpectPass, ExpectFail:
			c.Expect = Expect(rc.Expect)
		case "":
			c.Expect = ExpectPass
			if len(rc.Codes) > 0 {
				c.Expect = ExpectFail
			}
		default:
			errs.Issues = append(errs.Issues, fmt.Sprintf("cases[%d].expect must be pass or fail, got %q", i, rc.Expect))
		}
		if c.Expect == ExpectPass && len(rc.Codes) > 0 {
			errs.Issues = append(errs.Issues, fmt.Sprintf("cases[%d] expects pass but lists codes", i))
		}
		if rc.Timeout != "" {
			d, err := parseTimeout(rc.Timeout)
			if err != nil {
				errs.Issues = append(errs.Issues, fmt.Sprintf("cases[%d].timeout: %v", i, err))
			}
			c.Timeout = d
		}
		m.Cases = append(m.Cases, c)
	}
	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return m, nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}
