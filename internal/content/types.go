// Package content holds the typed records of the lesson tree: worlds, lessons and the eight
// scene variants. Values are only produced by the Parse functions, so a *Scene is always valid.
package content

// World is a top-level grouping of lessons. Optional strings are pointers so an explicit ""
// in the source survives into the manifest.
type World struct {
	ID    string  `json:"id"`
	Slug  string  `json:"slug"`
	Title string  `json:"title"`
	Order int     `json:"order"`
	Level *string `json:"level,omitempty"`
	Cover *string `json:"cover,omitempty"`
}

// Lesson is an ordered grouping of scenes within a world.
type Lesson struct {
	ID         string  `json:"id"`
	WorldID    string  `json:"worldId"`
	Slug       string  `json:"slug"`
	Title      string  `json:"title"`
	Order      int     `json:"order"`
	IsCore     bool    `json:"isCore"`
	Difficulty int     `json:"difficulty"`
	Cover      *string `json:"cover,omitempty"`
}

// DefaultDifficulty applies when lesson.json has no difficulty.
const DefaultDifficulty = 1

// SceneType is the discriminator tag of a scene record.
type SceneType string

const (
	Immersion              SceneType = "immersion"
	VisualRecall           SceneType = "visual-recall"
	AudioChoice            SceneType = "audio-choice"
	EchoAuditif            SceneType = "echo-auditif"
	MicroDialogue          SceneType = "micro-dialogue"
	CultureMinute          SceneType = "culture-minute"
	ErreurVivante          SceneType = "erreur-vivante"
	AssociationSensorielle SceneType = "association-sensorielle"
)

// SceneTypes lists every recognised tag in declaration order.
var SceneTypes = []SceneType{
	Immersion,
	VisualRecall,
	AudioChoice,
	EchoAuditif,
	MicroDialogue,
	CultureMinute,
	ErreurVivante,
	AssociationSensorielle,
}

// Valid reports whether t is one of the recognised tags.
func (t SceneType) Valid() bool {
	for _, known := range SceneTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Scene carries the fields every variant shares plus the typed variant body.
type Scene struct {
	ID       string    `json:"id"`
	Type     SceneType `json:"type"`
	Order    int       `json:"order"`
	LessonID string    `json:"lessonId"`
	Title    string    `json:"title,omitempty"`

	Variant Variant `json:"-"`
	// Record is the normalised JSON object the scene was parsed from (lessonId injected).
	Record map[string]any `json:"-"`
}

// Variant is implemented by the eight scene bodies.
type Variant interface {
	Kind() SceneType
	// Lint returns non-fatal authoring problems the schema cannot express.
	Lint() []string
}

// FX describes feedback effects on an answer.
type FX struct {
	FX     string `json:"fx,omitempty"`
	Unlock string `json:"unlock,omitempty"`
}

type Cue struct {
	T    [2]float64 `json:"t"` // [start, end] in seconds
	Text string     `json:"text"`
}

type Media struct {
	Lottie      string `json:"lottie"`
	AudioSprite string `json:"audioSprite"`
	Cues        []Cue  `json:"cues"`
}

type Hint struct {
	Icon string `json:"icon"`
	Hint string `json:"hint"`
}

type Check struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
}

type ImmersionScene struct {
	Media     Media   `json:"media"`
	Hints     []Hint  `json:"hints,omitempty"`
	Checks    []Check `json:"checks,omitempty"`
	SuccessFX string  `json:"successFX,omitempty"`
}

type VisualRecallScene struct {
	Image     string   `json:"image"`
	Blocks    []string `json:"blocks"`
	Answer    []string `json:"answer"`
	TTS       string   `json:"tts,omitempty"`
	OnCorrect *FX      `json:"onCorrect,omitempty"`
	OnWrong   *FX      `json:"onWrong,omitempty"`
}

type AudioOption struct {
	Image   string `json:"image"`
	Label   string `json:"label"`
	Correct bool   `json:"correct"`
}

type AudioChoiceScene struct {
	Audio     string        `json:"audio"`
	Options   []AudioOption `json:"options"`
	OnCorrect *FX           `json:"onCorrect,omitempty"`
	OnWrong   *FX           `json:"onWrong,omitempty"`
}

type ContextOption struct {
	Text    string `json:"text"`
	Emotion string `json:"emotion,omitempty"`
	Correct bool   `json:"correct"`
}

type EchoAuditifScene struct {
	Audio          string          `json:"audio"`
	Description    string          `json:"description,omitempty"`
	EmotionTags    []string        `json:"emotionTags,omitempty"`
	ContextOptions []ContextOption `json:"contextOptions"`
}

type DialogueLine struct {
	Speaker     string `json:"speaker"`
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
	Audio       string `json:"audio,omitempty"`
}

type Response struct {
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
	Correct     bool   `json:"correct"`
	Feedback    string `json:"feedback,omitempty"`
}

type MicroDialogueScene struct {
	Situation  string         `json:"situation"`
	Image      string         `json:"image,omitempty"`
	Audio      string         `json:"audio,omitempty"`
	Dialogue   []DialogueLine `json:"dialogue"`
	UserPrompt string         `json:"userPrompt"`
	Responses  []Response     `json:"responses"`
}

type Example struct {
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
}

type CultureMinuteScene struct {
	Word      string    `json:"word"`
	Etymology string    `json:"etymology"`
	FunFact   string    `json:"funFact"`
	Image     string    `json:"image,omitempty"`
	Audio     string    `json:"audio,omitempty"`
	Examples  []Example `json:"examples,omitempty"`
}

type Mistake struct {
	Incorrect string `json:"incorrect"`
	Correct   string `json:"correct"`
}

type ErreurVivanteScene struct {
	IncorrectPhrase string    `json:"incorrectPhrase"`
	CorrectPhrase   string    `json:"correctPhrase"`
	Explanation     string    `json:"explanation"`
	Translation     string    `json:"translation,omitempty"`
	Image           string    `json:"image,omitempty"`
	Audio           string    `json:"audio,omitempty"`
	SimilarMistakes []Mistake `json:"similarMistakes,omitempty"`
}

// SensoryKind is the kind of a sensory element: image, sound, color or emotion.
type SensoryKind string

const (
	SensoryImage   SensoryKind = "image"
	SensorySound   SensoryKind = "sound"
	SensoryColor   SensoryKind = "color"
	SensoryEmotion SensoryKind = "emotion"
)

type SensoryElement struct {
	Type  SensoryKind `json:"type"`
	Value string      `json:"value"`
	Label string      `json:"label,omitempty"`
}

type Association struct {
	Word    string `json:"word"`
	Related bool   `json:"related"`
}

type AssociationSensorielleScene struct {
	TargetWord      string           `json:"targetWord"`
	Translation     string           `json:"translation,omitempty"`
	SensoryElements []SensoryElement `json:"sensoryElements"`
	Associations    []Association    `json:"associations"`
}

func (*ImmersionScene) Kind() SceneType              { return Immersion }
func (*VisualRecallScene) Kind() SceneType           { return VisualRecall }
func (*AudioChoiceScene) Kind() SceneType            { return AudioChoice }
func (*EchoAuditifScene) Kind() SceneType            { return EchoAuditif }
func (*MicroDialogueScene) Kind() SceneType          { return MicroDialogue }
func (*CultureMinuteScene) Kind() SceneType          { return CultureMinute }
func (*ErreurVivanteScene) Kind() SceneType          { return ErreurVivante }
func (*AssociationSensorielleScene) Kind() SceneType { return AssociationSensorielle }

// newVariant returns an empty body for t, or nil for an unknown tag.
func newVariant(t SceneType) Variant {
	switch t {
	case Immersion:
		return &ImmersionScene{}
	case VisualRecall:
		return &VisualRecallScene{}
	case AudioChoice:
		return &AudioChoiceScene{}
	case EchoAuditif:
		return &EchoAuditifScene{}
	case MicroDialogue:
		return &MicroDialogueScene{}
	case CultureMinute:
		return &CultureMinuteScene{}
	case ErreurVivante:
		return &ErreurVivanteScene{}
	case AssociationSensorielle:
		return &AssociationSensorielleScene{}
	default:
		return nil
	}
}
