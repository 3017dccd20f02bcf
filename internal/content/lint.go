package content

import "fmt"

// Lint runs the variant's authoring checks. Findings never fail a build.
func (s *Scene) Lint() []string {
	if s == nil || s.Variant == nil {
		return nil
	}
	return s.Variant.Lint()
}

func (v *ImmersionScene) Lint() []string {
	var out []string
	for i, c := range v.Media.Cues {
		if c.T[0] > c.T[1] {
			out = append(out, fmt.Sprintf("media.cues.%d: start %.2f is after end %.2f", i, c.T[0], c.T[1]))
		}
	}
	return out
}

func (v *VisualRecallScene) Lint() []string {
	blocks := make(map[string]bool, len(v.Blocks))
	for _, b := range v.Blocks {
		blocks[b] = true
	}
	var out []string
	for i, a := range v.Answer {
		if !blocks[a] {
			out = append(out, fmt.Sprintf("answer.%d: %q is not one of the blocks", i, a))
		}
	}
	return out
}

func (v *AudioChoiceScene) Lint() []string {
	for _, o := range v.Options {
		if o.Correct {
			return nil
		}
	}
	return []string{"options: no option is marked correct"}
}

func (v *EchoAuditifScene) Lint() []string {
	for _, o := range v.ContextOptions {
		if o.Correct {
			return nil
		}
	}
	return []string{"contextOptions: no option is marked correct"}
}

func (v *MicroDialogueScene) Lint() []string {
	var out []string
	if len(v.Dialogue) == 0 {
		out = append(out, "dialogue: no lines")
	}
	correct := false
	for _, r := range v.Responses {
		correct = correct || r.Correct
	}
	if !correct {
		out = append(out, "responses: no response is marked correct")
	}
	return out
}

func (*CultureMinuteScene) Lint() []string { return nil }

func (v *ErreurVivanteScene) Lint() []string {
	if v.IncorrectPhrase != "" && v.IncorrectPhrase == v.CorrectPhrase {
		return []string{"incorrectPhrase: identical to correctPhrase"}
	}
	return nil
}

func (v *AssociationSensorielleScene) Lint() []string {
	var out []string
	if len(v.SensoryElements) == 0 {
		out = append(out, "sensoryElements: empty")
	}
	related := false
	for _, a := range v.Associations {
		related = related || a.Related
	}
	if len(v.Associations) > 0 && !related {
		out = append(out, "associations: no word is marked related")
	}
	return out
}
