package pipeline

import (
	"strings"
)

// Step is either a DisplayStep or a CommandStep.
type Step interface {
	step()
}

// DisplayStep surfaces a line to the observer without executing anything.
type DisplayStep struct {
	Text string
}

// CommandStep is an external command. Args never contains Program.
//
// WorkDir is a path inside the distribution. Host steps run on the host
// machine (the distribution installer) and have no WorkDir.
type CommandStep struct {
	Label   string
	Program string
	Args    []string
	WorkDir string
	Elevate bool
	Host    bool
}

func (DisplayStep) step() {}
func (CommandStep) step() {}

// CommandLine renders program and arguments for logs and progress text.
func (c CommandStep) CommandLine() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Program)
	parts = append(parts, c.Args...)
	return strings.Join(parts, " ")
}

// Mentions reports whether s appears in the program, any argument or the
// working directory.
func (c CommandStep) Mentions(s string) bool {
	if s == "" {
		return false
	}
	if strings.Contains(c.Program, s) || strings.Contains(c.WorkDir, s) {
		return true
	}
	for _, a := range c.Args {
		if strings.Contains(a, s) {
			return true
		}
	}
	return false
}

// Pipeline is an ordered, immutable list of steps. An empty name marks a
// silent run.
type Pipeline struct {
	name  string
	steps []Step
}

func New(name string, steps ...Step) Pipeline {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		if c, ok := s.(CommandStep); ok {
			c.Args = append([]string{}, c.Args...)
			s = c
		}
		out = append(out, s)
	}
	return Pipeline{name: name, steps: out}
}

func (p Pipeline) Name() string { return p.name }
func (p Pipeline) Silent() bool { return p.name == "" }
func (p Pipeline) Len() int     { return len(p.steps) }

// Steps returns a copy of the steps in execution order.
func (p Pipeline) Steps() []Step {
	out := make([]Step, 0, len(p.steps))
	for _, s := range p.steps {
		if c, ok := s.(CommandStep); ok {
			c.Args = append([]string{}, c.Args...)
			s = c
		}
		out = append(out, s)
	}
	return out
}

// Commands returns only the command steps, in order.
func (p Pipeline) Commands() []CommandStep {
	var out []CommandStep
	for _, s := range p.Steps() {
		if c, ok := s.(CommandStep); ok {
			out = append(out, c)
		}
	}
	return out
}
