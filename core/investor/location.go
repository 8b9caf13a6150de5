package investor

// LocationAliases expands composite region names into the phrases matched
// against the headquarters location. Any other location is matched as a
// substring of itself.
var LocationAliases = map[string][]string{
	"US":   {"United States"},
	"MENA": {"Middle East", "North Africa"},
}

// LocationPredicate matches investors headquartered in location.
func LocationPredicate(location string) Predicate {
	phrases, ok := LocationAliases[location]
	if !ok {
		phrases = []string{location}
	}

	p := Predicate{AnyOf: make([]Condition, 0, len(phrases))}
	for _, phrase := range phrases {
		p.AnyOf = append(p.AnyOf, Condition{Column: ColumnLocation, Op: OpILike, Value: Contains(phrase)})
	}
	return p
}
