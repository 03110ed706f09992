package domain

// Keyword elements computed by the data model instead of stored.
const (
	KeywordChildren = "_children"
	KeywordCount    = "_count"
	KeywordVersion  = "_version"
)

// DefaultRoot is the root element prepended by bulk hydration when the data has no
// recognizable top-level element.
const DefaultRoot = "cmi"
