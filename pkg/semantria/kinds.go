package semantria

import "strings"

// Kind enumerates the resources managed through the generic dispatcher.
type Kind int

const (
	KindConfiguration Kind = iota + 1
	KindCategory
	KindBlacklist
	KindQuery
	KindEntity
	KindSentimentPhrase
	KindTaxonomy
)

type kindSpec struct {
	Name   string
	Path   string
	Plural string
	Item   string
}

var kindTable = map[Kind]kindSpec{
	KindConfiguration:   {Name: "configuration", Path: "configurations", Plural: "configurations", Item: "configuration"},
	KindCategory:        {Name: "category", Path: "categories", Plural: "categories", Item: "category"},
	KindBlacklist:       {Name: "blacklist", Path: "blacklist", Plural: "blacklist", Item: "item"},
	KindQuery:           {Name: "query", Path: "queries", Plural: "queries", Item: "query"},
	KindEntity:          {Name: "entity", Path: "entities", Plural: "entities", Item: "entity"},
	KindSentimentPhrase: {Name: "phrase", Path: "phrases", Plural: "phrases", Item: "phrase"},
	KindTaxonomy:        {Name: "taxonomy", Path: "taxonomy", Plural: "taxonomies", Item: "node"},
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindConfiguration, KindCategory, KindBlacklist, KindQuery, KindEntity, KindSentimentPhrase, KindTaxonomy}
}

func (k Kind) spec() (kindSpec, error) {
	s, ok := kindTable[k]
	if !ok {
		return kindSpec{}, &UnsupportedResourceError{Kind: k}
	}
	return s, nil
}

func (k Kind) String() string {
	if s, ok := kindTable[k]; ok {
		return s.Name
	}
	return "unknown"
}

// Path returns the URL tag of the kind, or "" for an unsupported kind.
func (k Kind) Path() string { return kindTable[k].Path }

// XMLNames returns the list container and item element names.
func (k Kind) XMLNames() (plural, item string) {
	s := kindTable[k]
	return s.Plural, s.Item
}

// ParseKind accepts a kind's name or URL tag ("query", "queries").
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds() {
		spec := kindTable[k]
		if s == spec.Name || s == spec.Path || s == spec.Plural {
			return k, nil
		}
	}
	return 0, ErrUnsupportedResource.Msgf("unsupported resource kind %q", s)
}
