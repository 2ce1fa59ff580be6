package gta

// Dedupe concatenates the given lists in order and drops every line whose
// key was already seen. The first occurrence keeps its position.
func Dedupe(lists ...[]CategoryLine) []CategoryLine {
	seen := make(map[CategoryKey]bool)
	unique := []CategoryLine{}

	for _, list := range lists {
		for _, line := range list {
			key := line.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			unique = append(unique, line)
		}
	}
	return unique
}
