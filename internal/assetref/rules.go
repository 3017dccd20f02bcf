// Package assetref derives the asset paths a scene references and computes the content
// hashes written to the manifest.
package assetref

import (
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/souffle-app/souffle-content/internal/content"
)

// Rule lists, in output order, the JSONPath expressions whose string results are asset
// paths for one scene type. Keep filters pure: a rule only selects, it never rewrites.
type Rule struct {
	Fields []jp.Expr
	Keep   func(string) bool // nil keeps every non-empty string
}

func fields(exprs ...string) []jp.Expr {
	out := make([]jp.Expr, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, jp.MustParseString(e))
	}
	return out
}

// webRooted keeps values that look like deploy-root paths; sensory element values are
// often colours or words rather than files.
func webRooted(s string) bool {
	return strings.HasPrefix(s, "/")
}

// Rules maps every scene type to the fields holding its media. Used for manifest asset
// lists and by anything that needs to check referenced files.
var Rules = map[content.SceneType]Rule{
	content.Immersion:     {Fields: fields("$.media.lottie", "$.media.audioSprite")},
	content.VisualRecall:  {Fields: fields("$.image")},
	content.AudioChoice:   {Fields: fields("$.audio", "$.options[*].image")},
	content.EchoAuditif:   {Fields: fields("$.audio")},
	content.MicroDialogue: {Fields: fields("$.image", "$.audio", "$.dialogue[*].audio")},
	content.CultureMinute: {Fields: fields("$.image", "$.audio")},
	content.ErreurVivante: {Fields: fields("$.image", "$.audio")},
	content.AssociationSensorielle: {
		Fields: fields("$.sensoryElements[?(@.type == 'image' || @.type == 'sound')].value"),
		Keep:   webRooted,
	},
}

// Extract applies the rule for sceneType to a decoded scene record. Paths are returned
// de-duplicated in first-seen order; the result is never nil.
func Extract(sceneType content.SceneType, record any) []string {
	out := []string{}
	rule, ok := Rules[sceneType]
	if !ok || record == nil {
		return out
	}
	seen := make(map[string]bool)
	for _, x := range rule.Fields {
		for _, v := range x.Get(record) {
			s, ok := v.(string)
			if !ok || s == "" || seen[s] {
				continue
			}
			if rule.Keep != nil && !rule.Keep(s) {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Referenced returns the asset paths of a parsed scene.
func Referenced(s *content.Scene) []string {
	if s == nil {
		return []string{}
	}
	return Extract(s.Type, s.Record)
}
