package search

import (
	"fmt"
	"slices"
)

// Generation is the api generation an index belongs to.
type Generation int

const (
	V1 Generation = iota + 1
	V2
	Platform
)

func (g Generation) String() string {
	switch g {
	case V1:
		return "v1"
	case V2:
		return "v2"
	case Platform:
		return "platform"
	default:
		return "auto"
	}
}

// Paginated reports whether searches against this generation are cursor paginated.
func (g Generation) Paginated() bool { return g == V2 || g == Platform }

// IndexSpec describes one searchable index.
type IndexSpec struct {
	Generation Generation
	Name       string // name used on the command line
	Path       string // path segment used by the api
}

// indexes is the routing table. "certs" is listed for both v1 and v2: the two are different
// resources with different schemas, and a bare "certs" resolves to the first (v1) entry.
var indexes = []IndexSpec{
	{Generation: V1, Name: "ipv4", Path: "ipv4"},
	{Generation: V1, Name: "certs", Path: "certificates"},
	{Generation: V1, Name: "websites", Path: "websites"},
	{Generation: V2, Name: "hosts", Path: "hosts"},
	{Generation: V2, Name: "certs", Path: "certificates"},
	{Generation: Platform, Name: "platform", Path: "global"},
}

// DefaultIndex is searched when no index is given.
const DefaultIndex = "hosts"

// Route returns the generation that serves index.
func Route(index string) (Generation, error) {
	spec, err := Resolve(index, 0)
	if err != nil {
		return 0, err
	}
	return spec.Generation, nil
}

// Resolve finds the index spec for name. A zero generation picks the first matching entry of the
// routing table; otherwise the index must exist in that generation.
func Resolve(name string, gen Generation) (IndexSpec, error) {
	for _, spec := range indexes {
		if spec.Name != name {
			continue
		}
		if gen == 0 || spec.Generation == gen {
			return spec, nil
		}
	}

	if gen != 0 {
		return IndexSpec{}, fmt.Errorf("%w: %q is not a %s index", ErrUnknownIndex, name, gen)
	}
	return IndexSpec{}, fmt.Errorf("%w: %q", ErrUnknownIndex, name)
}

// Indexes returns the index names served by gen, in routing table order.
func Indexes(gen Generation) []string {
	var out []string
	for _, spec := range indexes {
		if spec.Generation == gen {
			out = append(out, spec.Name)
		}
	}
	return out
}

// IndexNames returns every distinct index name.
func IndexNames() []string {
	var out []string
	for _, spec := range indexes {
		if !slices.Contains(out, spec.Name) {
			out = append(out, spec.Name)
		}
	}
	return out
}

// Generations lists the generations in the routing table.
func Generations() []Generation { return []Generation{V1, V2, Platform} }
