package pipeline

// StepDescription is the printable form of a step, used by dry runs and the
// plan command.
type StepDescription struct {
	Index   int      `json:"index"`
	Kind    string   `json:"kind"` // "display"|"command"
	Text    string   `json:"text,omitempty"`
	Label   string   `json:"label,omitempty"`
	Program string   `json:"program,omitempty"`
	Args    []string `json:"args,omitempty"`
	WorkDir string   `json:"workdir,omitempty"`
	Elevate bool     `json:"elevate,omitempty"`
	Host    bool     `json:"host,omitempty"`
}

func Describe(p Pipeline) []StepDescription {
	out := make([]StepDescription, 0, p.Len())
	for i, s := range p.Steps() {
		switch v := s.(type) {
		case DisplayStep:
			out = append(out, StepDescription{Index: i + 1, Kind: "display", Text: v.Text})
		case CommandStep:
			out = append(out, StepDescription{
				Index:   i + 1,
				Kind:    "command",
				Label:   v.Label,
				Program: v.Program,
				Args:    v.Args,
				WorkDir: v.WorkDir,
				Elevate: v.Elevate,
				Host:    v.Host,
			})
		}
	}
	return out
}
