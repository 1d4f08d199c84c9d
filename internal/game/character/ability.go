package character

import "strings"

// Ability identifies one of the six ability scores.
type Ability int

const (
	Strength Ability = iota
	Dexterity
	Constitution
	Intelligence
	Wisdom
	Charisma
)

// String returns the canonical short key for the ability ("STR", "DEX", ...).
func (a Ability) String() string {
	switch a {
	case Strength:
		return "STR"
	case Dexterity:
		return "DEX"
	case Constitution:
		return "CON"
	case Intelligence:
		return "INT"
	case Wisdom:
		return "WIS"
	case Charisma:
		return "CHA"
	default:
		return "UNKNOWN"
	}
}

// statAliases maps every historical stat-key spelling to its canonical
// ability. Characters imported from older clients carry long-form keys
// ("strength") while newer ones use the short form ("STR", "str"); keys
// are compared lower-cased so casing never matters.
var statAliases = map[string]Ability{
	"str": Strength, "strength": Strength,
	"dex": Dexterity, "dexterity": Dexterity,
	"con": Constitution, "constitution": Constitution,
	"int": Intelligence, "intelligence": Intelligence,
	"wis": Wisdom, "wisdom": Wisdom,
	"cha": Charisma, "charisma": Charisma,
}

// DefaultScore is the score assumed for any ability absent from a stat map.
const DefaultScore = 10

// Stats holds a character's raw ability scores as stored, keyed by whatever
// spelling the client used. Lookup goes through Score, never direct indexing.
type Stats map[string]int

// Score returns the value for the given ability, accepting any known alias
// spelling and defaulting to DefaultScore when absent.
//
// Postcondition: Returns the stored score or DefaultScore.
func (s Stats) Score(a Ability) int {
	for key, value := range s {
		if alias, ok := statAliases[strings.ToLower(key)]; ok && alias == a {
			return value
		}
	}
	return DefaultScore
}
