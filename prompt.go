package mend

// Prompt is one instruction sent to the generation service: free-form text
// plus the files it refers to. A Prompt is built fresh for the initial
// rewrite request and for every follow-up; it is never mutated after
// construction.
type Prompt struct {
	Text  string
	Files []FilePart
}

// Parts flattens the prompt into the ordered part list sent over the wire:
// the instruction text first, then each file attachment.
func (p Prompt) Parts() []Part {
	parts := make([]Part, 0, 1+len(p.Files))
	if p.Text != "" {
		parts = append(parts, TextPart{Text: p.Text})
	}
	for _, f := range p.Files {
		parts = append(parts, f)
	}
	return parts
}
