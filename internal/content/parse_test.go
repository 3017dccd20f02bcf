package content

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, doc string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(doc), &v))
	return v
}

func TestParseWorld(t *testing.T) {
	w, err := ParseWorld(record(t, `{"id":"w1","slug":"moi-et-le-monde","title":"Moi et le monde","order":1,"cover":"/covers/w1.png","extra":"dropped"}`))
	require.NoError(t, err)
	cover := "/covers/w1.png"
	assert.Equal(t, World{ID: "w1", Slug: "moi-et-le-monde", Title: "Moi et le monde", Order: 1, Cover: &cover}, *w)

	out, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"w1","slug":"moi-et-le-monde","title":"Moi et le monde","order":1,"cover":"/covers/w1.png"}`, string(out))
}

func TestParseKeepsEmptyOptionalFields(t *testing.T) {
	w, err := ParseWorld(record(t, `{"id":"w1","slug":"moi","title":"Moi","order":1,"level":"","cover":""}`))
	require.NoError(t, err)
	out, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"w1","slug":"moi","title":"Moi","order":1,"level":"","cover":""}`, string(out))

	w, err = ParseWorld(record(t, `{"id":"w1","slug":"moi","title":"Moi","order":1}`))
	require.NoError(t, err)
	assert.Nil(t, w.Level)
	assert.Nil(t, w.Cover)

	l, err := ParseLesson(record(t, `{"id":"l1","worldId":"w1","slug":"salut","title":"Salut","order":1,"cover":""}`))
	require.NoError(t, err)
	out, err = json.Marshal(l)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"cover":""`)
}

func TestParseWorldViolation(t *testing.T) {
	_, err := ParseWorld(record(t, `{"id":"w1","title":"Moi","order":"1"}`))
	var sv *SchemaViolation
	require.True(t, errors.As(err, &sv), "got %v", err)
	assert.Equal(t, "world", sv.Record)
	assert.Equal(t, "w1", sv.ID)
	assert.Contains(t, err.Error(), `world "w1" violates schema`)
	assert.Contains(t, err.Error(), "slug")
}

func TestParseLessonDefaults(t *testing.T) {
	l, err := ParseLesson(record(t, `{"id":"l1","worldId":"w1","slug":"salut","title":"Salut","order":2}`))
	require.NoError(t, err)
	assert.False(t, l.IsCore)
	assert.Equal(t, DefaultDifficulty, l.Difficulty)

	l, err = ParseLesson(record(t, `{"id":"l1","worldId":"w1","slug":"salut","title":"Salut","order":2,"isCore":true,"difficulty":3}`))
	require.NoError(t, err)
	assert.True(t, l.IsCore)
	assert.Equal(t, 3, l.Difficulty)

	out, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"l1","worldId":"w1","slug":"salut","title":"Salut","order":2,"isCore":true,"difficulty":3}`, string(out))
}

func TestParseSceneVariants(t *testing.T) {
	tests := []struct {
		doc  string
		want SceneType
		tc   func(t *testing.T, v Variant)
	}{
		{
			doc:  `{"id":"s1","type":"immersion","order":0,"lessonId":"l1","media":{"lottie":"/a/m.json","audioSprite":"/a/m.mp3","cues":[{"t":[0,1.5],"text":"Bonjour"}]},"successFX":"confetti"}`,
			want: Immersion,
			tc: func(t *testing.T, v Variant) {
				im := v.(*ImmersionScene)
				assert.Equal(t, "/a/m.json", im.Media.Lottie)
				assert.Equal(t, [2]float64{0, 1.5}, im.Media.Cues[0].T)
			},
		},
		{
			doc:  `{"id":"s2","type":"visual-recall","order":1,"lessonId":"l1","image":"/i.png","blocks":["je","suis"],"answer":["je","suis"],"onCorrect":{"fx":"glow","unlock":"s3"}}`,
			want: VisualRecall,
			tc: func(t *testing.T, v Variant) {
				vr := v.(*VisualRecallScene)
				require.NotNil(t, vr.OnCorrect)
				assert.Equal(t, "s3", vr.OnCorrect.Unlock)
			},
		},
		{
			doc:  `{"id":"s3","type":"audio-choice","order":2,"lessonId":"l1","audio":"/a.mp3","options":[{"image":"/x.png","label":"X","correct":true},{"image":"/y.png","label":"Y","correct":true}]}`,
			want: AudioChoice,
			tc: func(t *testing.T, v Variant) {
				assert.Len(t, v.(*AudioChoiceScene).Options, 2)
			},
		},
		{
			doc:  `{"id":"s4","type":"echo-auditif","order":3,"lessonId":"l1","audio":"/e.mp3","emotionTags":["joie"],"contextOptions":[{"text":"a","correct":false},{"text":"b","emotion":"joie","correct":true}]}`,
			want: EchoAuditif,
			tc: func(t *testing.T, v Variant) {
				assert.Equal(t, "joie", v.(*EchoAuditifScene).ContextOptions[1].Emotion)
			},
		},
		{
			doc:  `{"id":"s5","type":"micro-dialogue","order":4,"lessonId":"l1","situation":"Boulangerie","dialogue":[{"speaker":"Vendeuse","text":"Bonjour !","audio":"/d1.mp3"}],"userPrompt":"Répondez","responses":[{"text":"Une baguette","correct":true,"feedback":"Parfait"}]}`,
			want: MicroDialogue,
			tc: func(t *testing.T, v Variant) {
				md := v.(*MicroDialogueScene)
				assert.Equal(t, "/d1.mp3", md.Dialogue[0].Audio)
				assert.Equal(t, "Parfait", md.Responses[0].Feedback)
			},
		},
		{
			doc:  `{"id":"s6","type":"culture-minute","order":5,"lessonId":"l1","word":"croissant","etymology":"de croître","funFact":"autrichien","examples":[{"text":"un croissant"}]}`,
			want: CultureMinute,
			tc: func(t *testing.T, v Variant) {
				assert.Equal(t, "croissant", v.(*CultureMinuteScene).Word)
			},
		},
		{
			doc:  `{"id":"s7","type":"erreur-vivante","order":6,"lessonId":"l1","incorrectPhrase":"je suis 20 ans","correctPhrase":"j'ai 20 ans","explanation":"avoir","similarMistakes":[{"incorrect":"je suis faim","correct":"j'ai faim"}]}`,
			want: ErreurVivante,
			tc: func(t *testing.T, v Variant) {
				assert.Len(t, v.(*ErreurVivanteScene).SimilarMistakes, 1)
			},
		},
		{
			doc:  `{"id":"s8","type":"association-sensorielle","order":7,"lessonId":"l1","targetWord":"pomme","sensoryElements":[{"type":"color","value":"#f00"},{"type":"image","value":"/p.png","label":"pomme"}],"associations":[{"word":"rouge","related":true}]}`,
			want: AssociationSensorielle,
			tc: func(t *testing.T, v Variant) {
				as := v.(*AssociationSensorielleScene)
				assert.Equal(t, SensoryImage, as.SensoryElements[1].Type)
			},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			rec := record(t, tt.doc)
			s, err := ParseScene(rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Type)
			require.NotNil(t, s.Variant)
			assert.Equal(t, tt.want, s.Variant.Kind())
			assert.Equal(t, "l1", s.LessonID)
			assert.Equal(t, rec, s.Record)
			tt.tc(t, s.Variant)
		})
	}
}

func TestParseSceneRejectsSingleAudioOption(t *testing.T) {
	_, err := ParseScene(record(t, `{"id":"s3","type":"audio-choice","order":2,"lessonId":"l1","audio":"/a.mp3","options":[{"image":"/x.png","label":"X","correct":true}]}`))
	var sv *SchemaViolation
	require.True(t, errors.As(err, &sv))
	assert.Equal(t, "scene", sv.Record)
	assert.Equal(t, "s3", sv.ID)
	assert.Contains(t, err.Error(), "options")
}

func TestParseSceneRejectsNonObject(t *testing.T) {
	_, err := ParseScene(record(t, `[1,2,3]`))
	var sv *SchemaViolation
	require.True(t, errors.As(err, &sv))
	assert.Empty(t, sv.ID)
}

func TestInjectLessonID(t *testing.T) {
	tests := []struct {
		doc     string
		changed bool
		want    string
	}{
		{doc: `{"id":"s"}`, changed: true, want: "l1"},
		{doc: `{"id":"s","lessonId":null}`, changed: true, want: "l1"},
		{doc: `{"id":"s","lessonId":""}`, changed: true, want: "l1"},
		{doc: `{"id":"s","lessonId":"other"}`, changed: false, want: "other"},
	}
	for _, tt := range tests {
		rec := record(t, tt.doc)
		assert.Equal(t, tt.changed, InjectLessonID(rec, "l1"), tt.doc)
		assert.Equal(t, tt.want, rec.(map[string]any)["lessonId"], tt.doc)
	}
	assert.False(t, InjectLessonID([]any{}, "l1"))
}

func TestSceneTypeValid(t *testing.T) {
	for _, st := range SceneTypes {
		assert.True(t, st.Valid(), st)
		assert.NotNil(t, newVariant(st))
	}
	assert.False(t, SceneType("karaoke").Valid())
	assert.Nil(t, newVariant("karaoke"))
}
