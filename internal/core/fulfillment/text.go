package fulfillment

import "strings"

// andJoin renders "A", "A and B" or "A, B, and C".
func andJoin(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func whatDoesMean(names []string) []string {
	chips := make([]string, len(names))
	for i, n := range names {
		chips[i] = "What does " + n + " mean?"
	}
	return chips
}
