// Package selection turns free-form user input into an ordered list of
// catalog networks.
package selection

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"adbuild/internal/logging"
	"adbuild/internal/network"
)

// ErrNoSelection is returned when the input resolves to no network.
var ErrNoSelection = errors.New("no valid networks selected")

// AllKeyword selects the whole catalog.
const AllKeyword = "all"

var numericList = regexp.MustCompile(`^\d+(\s*,\s*\d+)*$`)

// Resolve parses raw against the catalog.
//
//   - "all" (any case) returns the catalog in order.
//   - a comma-separated list of integers selects 1-based positions; out-of-range
//     positions are dropped, input order and duplicates are kept.
//   - anything else is a comma-separated list of names matched case-insensitively;
//     the result follows catalog order.
func Resolve(catalog *network.Catalog, raw string) ([]string, error) {
	input := strings.TrimSpace(raw)

	var selected []string
	switch {
	case strings.EqualFold(input, AllKeyword):
		selected = catalog.IDs()
	case numericList.MatchString(input):
		selected = resolveIndices(catalog, input)
	default:
		selected = resolveNames(catalog, input)
	}

	if len(selected) == 0 {
		return nil, ErrNoSelection
	}
	return selected, nil
}

func resolveIndices(catalog *network.Catalog, input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if named := catalog.Position(part); named > 0 {
			logging.BuildWarn("selection token %q is also the network at position %d; using it as a position", part, named)
		}
		pos, err := strconv.Atoi(part)
		if err != nil {
			continue // overflow
		}
		if id, ok := catalog.At(pos); ok {
			out = append(out, id)
		}
	}
	return out
}

func resolveNames(catalog *network.Catalog, input string) []string {
	tokens := make(map[string]struct{})
	for _, part := range strings.Split(input, ",") {
		if tok := strings.ToLower(strings.TrimSpace(part)); tok != "" {
			tokens[tok] = struct{}{}
		}
	}

	var out []string
	for _, id := range catalog.IDs() {
		if _, ok := tokens[strings.ToLower(id)]; ok {
			out = append(out, id)
		}
	}
	return out
}
