package gta

import "regexp"

// horizontalPattern matches the inline row layout seen in some GTA variants:
// "Bovídeos Bovinos - 13 a 24 meses Fêmea 10"
var horizontalPattern = regexp.MustCompile(
	`(?i)(Bovideos|Bovídeos)` + space + `+(Bovinos)` + space + `+-` + space + `+(.+?)` +
		space + `+(Macho|Fêmea|Femea)` + space + `+(` + digit + `+)`,
)

// PatternRows extracts one CategoryLine per non-overlapping match of a
// whole-text pattern with five groups: grupo, especie, faixa, sexo, quantidade.
type PatternRows struct {
	Pattern *regexp.Regexp
}

// HorizontalTable is the inline fallback layout. It carries no category marker.
var HorizontalTable = PatternRows{Pattern: horizontalPattern}

// Categories implements CategorySource
func (p PatternRows) Categories(doc *Document) []CategoryLine {
	var lines []CategoryLine
	for _, m := range p.Pattern.FindAllStringSubmatch(doc.Raw, -1) {
		quantidade, ok := ParseQuantity(m[5])
		if !ok {
			continue
		}
		lines = append(lines, CategoryLine{
			Grupo:      m[1],
			Especie:    m[2],
			Faixa:      m[3],
			Sexo:       m[4],
			Quantidade: quantidade,
		})
	}
	return lines
}
