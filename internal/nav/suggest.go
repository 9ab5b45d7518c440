package nav

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

const suggestThreshold = 0.75

type scoredName struct {
	name  string
	score float32
}

// Suggest returns up to limit names similar to query, best first. Matching
// is case-insensitive Jaro-Winkler; a name containing the query always
// qualifies.
func Suggest(names []string, query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	scored := make([]scoredName, 0, len(names))
	for _, name := range names {
		lower := strings.ToLower(name)
		score, err := edlib.StringsSimilarity(query, lower, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if strings.Contains(lower, query) && score < suggestThreshold {
			score = suggestThreshold
		}
		if score < suggestThreshold {
			continue
		}
		scored = append(scored, scoredName{name: name, score: score})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].name < scored[j].name
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]string, 0, len(scored))
	for _, item := range scored {
		out = append(out, item.name)
	}
	return out
}
