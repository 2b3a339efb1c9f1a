package schema

import "github.com/digital-profile/internal/domain"

var (
	all    []*domain.Schema
	byKind map[string]*domain.Schema
)

func init() {
	all = []*domain.Schema{
		Farm(),
		FishFarm(),
		Grassland(),
		AgricZone(),
		ProcessingCenter(),
	}

	byKind = make(map[string]*domain.Schema, len(all))
	for _, s := range all {
		byKind[s.Kind] = s
	}
}

// ByKind - lookup by URL segment, e.g. "fish-farms"
func ByKind(kind string) (*domain.Schema, bool) {
	s, ok := byKind[kind]
	return s, ok
}

// All - registered schemas in a stable order
func All() []*domain.Schema {
	out := make([]*domain.Schema, len(all))
	copy(out, all)
	return out
}

// Kinds - URL segments of every registered entity
func Kinds() []string {
	kinds := make([]string, 0, len(all))
	for _, s := range all {
		kinds = append(kinds, s.Kind)
	}
	return kinds
}
