package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLint(t *testing.T) {
	tests := []struct {
		name string
		v    Variant
		want []string
	}{
		{
			name: "immersion reversed cue",
			v:    &ImmersionScene{Media: Media{Cues: []Cue{{T: [2]float64{0, 1}}, {T: [2]float64{3, 2}}}}},
			want: []string{"media.cues.1: start 3.00 is after end 2.00"},
		},
		{
			name: "visual recall answer outside blocks",
			v:    &VisualRecallScene{Blocks: []string{"je", "suis"}, Answer: []string{"je", "es"}},
			want: []string{`answer.1: "es" is not one of the blocks`},
		},
		{
			name: "audio choice without correct option",
			v:    &AudioChoiceScene{Options: []AudioOption{{Label: "a"}, {Label: "b"}}},
			want: []string{"options: no option is marked correct"},
		},
		{
			name: "audio choice with several correct options is fine",
			v:    &AudioChoiceScene{Options: []AudioOption{{Correct: true}, {Correct: true}}},
		},
		{
			name: "echo without correct option",
			v:    &EchoAuditifScene{ContextOptions: []ContextOption{{Text: "a"}, {Text: "b"}}},
			want: []string{"contextOptions: no option is marked correct"},
		},
		{
			name: "micro dialogue empty",
			v:    &MicroDialogueScene{},
			want: []string{"dialogue: no lines", "responses: no response is marked correct"},
		},
		{
			name: "culture minute",
			v:    &CultureMinuteScene{Word: "pain"},
		},
		{
			name: "erreur vivante identical phrases",
			v:    &ErreurVivanteScene{IncorrectPhrase: "j'ai faim", CorrectPhrase: "j'ai faim"},
			want: []string{"incorrectPhrase: identical to correctPhrase"},
		},
		{
			name: "association without related word",
			v:    &AssociationSensorielleScene{SensoryElements: []SensoryElement{{Type: SensoryColor}}, Associations: []Association{{Word: "bleu"}}},
			want: []string{"associations: no word is marked related"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scene{Variant: tt.v}
			assert.Equal(t, tt.want, s.Lint())
		})
	}
}

func TestLintNilScene(t *testing.T) {
	var s *Scene
	assert.Nil(t, s.Lint())
	assert.Nil(t, (&Scene{}).Lint())
}
