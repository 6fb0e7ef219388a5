package models

// MediaKind discriminates the variants of a media summary
type MediaKind string

const (
	KindMovie  MediaKind = "movie"
	KindTV     MediaKind = "tv"
	KindPerson MediaKind = "person"
)

// Valid reports whether the kind is one of the known variants
func (k MediaKind) Valid() bool {
	switch k {
	case KindMovie, KindTV, KindPerson:
		return true
	}
	return false
}

// TimeWindow selects the aggregation window for trending queries
type TimeWindow string

const (
	WindowDay  TimeWindow = "day"
	WindowWeek TimeWindow = "week"
)
