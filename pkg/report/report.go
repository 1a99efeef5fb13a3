// Package report summarizes the SARIF file an analysis leaves in infer-out.
package report

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/pkg/errors"
)

const SarifFile = "report.sarif"

// Path returns the SARIF location for an analyzed folder.
func Path(folder string) string {
	return filepath.Join(folder, "infer-out", SarifFile)
}

type Issue struct {
	Rule    string `json:"rule"`
	Level   string `json:"level"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type Summary struct {
	Issues []Issue        `json:"issues"`
	ByRule map[string]int `json:"by_rule"`
	Files  map[string]int `json:"files"`
}

func Load(path string) (Summary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, errors.Wrap(err, "read sarif")
	}
	return Parse(b)
}

func Parse(b []byte) (Summary, error) {
	l, err := sarif.FromBytes(b)
	if err != nil {
		return Summary{}, errors.Wrap(err, "parse sarif")
	}
	s := Summary{ByRule: map[string]int{}, Files: map[string]int{}}
	for _, run := range l.Runs {
		if run == nil {
			continue
		}
		for _, r := range run.Results {
			if r == nil {
				continue
			}
			is := issueOf(r)
			s.Issues = append(s.Issues, is)
			s.ByRule[is.Rule]++
			if is.File != "" {
				s.Files[is.File]++
			}
		}
	}
	sort.SliceStable(s.Issues, func(i, j int) bool {
		if s.Issues[i].File != s.Issues[j].File {
			return s.Issues[i].File < s.Issues[j].File
		}
		return s.Issues[i].Line < s.Issues[j].Line
	})
	return s, nil
}

func issueOf(r *sarif.Result) Issue {
	is := Issue{Rule: deref(r.RuleID), Level: deref(r.Level), Message: deref(r.Message.Text)}
	if is.Level == "" {
		is.Level = "warning"
	}
	if len(r.Locations) == 0 || r.Locations[0] == nil {
		return is
	}
	loc := r.Locations[0].PhysicalLocation
	if loc == nil {
		return is
	}
	if loc.ArtifactLocation != nil {
		is.File = deref(loc.ArtifactLocation.URI)
	}
	if loc.Region != nil && loc.Region.StartLine != nil {
		is.Line = *loc.Region.StartLine
	}
	return is
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type RuleCount struct {
	Rule  string
	Count int
}

// Rules orders rules by descending count, then name.
func (s Summary) Rules() []RuleCount {
	out := make([]RuleCount, 0, len(s.ByRule))
	for r, n := range s.ByRule {
		out = append(out, RuleCount{Rule: r, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Rule < out[j].Rule
	})
	return out
}
