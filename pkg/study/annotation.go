package study

import "github.com/matzehuels/studytree/pkg/pgn"

// Annotation is the move assessment shown on a diagram. It is a closed set:
// every NAG outside the six move-assessment codes maps to AnnotationNone.
type Annotation int

const (
	AnnotationNone Annotation = iota
	AnnotationGood
	AnnotationMistake
	AnnotationBrilliant
	AnnotationBlunder
	AnnotationSpeculative
	AnnotationDubious
)

type annotationInfo struct {
	name  string
	glyph string
	color string
}

var annotations = [...]annotationInfo{
	AnnotationNone:        {"none", "", ""},
	AnnotationGood:        {"good", "!", "#5b8bb0"},
	AnnotationMistake:     {"mistake", "?", "#D99342"},
	AnnotationBrilliant:   {"brilliant", "!!", "#1aada6"},
	AnnotationBlunder:     {"blunder", "??", "#ca3431"},
	AnnotationSpeculative: {"speculative", "!?", "#f7c046"},
	AnnotationDubious:     {"dubious", "?!", "#e58f2a"},
}

var nagAnnotations = map[pgn.NAG]Annotation{
	pgn.NAGGood:        AnnotationGood,
	pgn.NAGMistake:     AnnotationMistake,
	pgn.NAGBrilliant:   AnnotationBrilliant,
	pgn.NAGBlunder:     AnnotationBlunder,
	pgn.NAGSpeculative: AnnotationSpeculative,
	pgn.NAGDubious:     AnnotationDubious,
}

// Annotations lists every assessment except AnnotationNone, in NAG order.
func Annotations() []Annotation {
	return []Annotation{
		AnnotationGood,
		AnnotationMistake,
		AnnotationBrilliant,
		AnnotationBlunder,
		AnnotationSpeculative,
		AnnotationDubious,
	}
}

// AnnotationOf returns the assessment of a position. Only the first NAG is
// consulted; later codes are ignored.
func AnnotationOf(p *pgn.Position) Annotation {
	if p == nil || len(p.NAGs) == 0 {
		return AnnotationNone
	}
	return nagAnnotations[p.NAGs[0]]
}

func (a Annotation) info() annotationInfo {
	if a < 0 || int(a) >= len(annotations) {
		return annotations[AnnotationNone]
	}
	return annotations[a]
}

// String returns the lower-case name, e.g. "blunder".
func (a Annotation) String() string { return a.info().name }

// Glyph returns the suffix written after the move, e.g. "??".
// AnnotationNone has no glyph.
func (a Annotation) Glyph() string { return a.info().glyph }

// Color returns the default accent color ("#rrggbb"), or "" for
// AnnotationNone.
func (a Annotation) Color() string { return a.info().color }

// ParseAnnotation looks an assessment up by its String name.
func ParseAnnotation(name string) (Annotation, bool) {
	for i, info := range annotations {
		if info.name == name {
			return Annotation(i), true
		}
	}
	return AnnotationNone, false
}

// Palette maps assessments to accent colors. A nil or partial palette falls
// back to the default colors.
type Palette map[Annotation]string

// Color returns the palette's color for a, or a.Color() if unset.
func (p Palette) Color(a Annotation) string {
	if a == AnnotationNone {
		return ""
	}
	if c, ok := p[a]; ok && c != "" {
		return c
	}
	return a.Color()
}
