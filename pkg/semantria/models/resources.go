// Package models holds the payload shapes exchanged with the service. Field
// names follow the service schema: snake case JSON keys and identically named
// XML elements.
package models

// Resource is an account scoped object managed through the generic
// list/add/update/delete endpoints.
type Resource interface {
	ResourceID() string
}

// Configuration is a named analysis profile.
type Configuration struct {
	ID                     string              `json:"config_id,omitempty" xml:"config_id,omitempty"`
	Name                   string              `json:"name" xml:"name"`
	Template               string              `json:"template,omitempty" xml:"template,omitempty"`
	IsPrimary              bool                `json:"is_primary" xml:"is_primary"`
	AutoResponse           bool                `json:"auto_response" xml:"auto_response"`
	Language               string              `json:"language,omitempty" xml:"language,omitempty"`
	OneSentence            bool                `json:"one_sentence,omitempty" xml:"one_sentence,omitempty"`
	ProcessHTML            bool                `json:"process_html,omitempty" xml:"process_html,omitempty"`
	AlphanumericThreshold  int                 `json:"alphanumeric_threshold,omitempty" xml:"alphanumeric_threshold,omitempty"`
	ConceptTopicsThreshold float64             `json:"concept_topics_threshold,omitempty" xml:"concept_topics_threshold,omitempty"`
	EntitiesThreshold      int                 `json:"entities_threshold,omitempty" xml:"entities_threshold,omitempty"`
	CharsThreshold         int                 `json:"chars_threshold,omitempty" xml:"chars_threshold,omitempty"`
	Callback               string              `json:"callback,omitempty" xml:"callback,omitempty"`
	Document               *DocumentSettings   `json:"document,omitempty" xml:"document,omitempty"`
	Collection             *CollectionSettings `json:"collection,omitempty" xml:"collection,omitempty"`
	Timestamp              int64               `json:"timestamp,omitempty" xml:"timestamp,omitempty"`
}

func (c Configuration) ResourceID() string { return c.ID }

// DocumentSettings are the per-configuration limits applied to documents.
type DocumentSettings struct {
	ConceptTopicsLimit   int    `json:"concept_topics_limit,omitempty" xml:"concept_topics_limit,omitempty"`
	QueryTopicsLimit     int    `json:"query_topics_limit,omitempty" xml:"query_topics_limit,omitempty"`
	NamedEntitiesLimit   int    `json:"named_entities_limit,omitempty" xml:"named_entities_limit,omitempty"`
	UserEntitiesLimit    int    `json:"user_entities_limit,omitempty" xml:"user_entities_limit,omitempty"`
	EntityThemesLimit    int    `json:"entity_themes_limit,omitempty" xml:"entity_themes_limit,omitempty"`
	ThemesLimit          int    `json:"themes_limit,omitempty" xml:"themes_limit,omitempty"`
	PhrasesLimit         int    `json:"phrases_limit,omitempty" xml:"phrases_limit,omitempty"`
	SummaryLimit         int    `json:"summary_limit,omitempty" xml:"summary_limit,omitempty"`
	AutoCategoriesLimit  int    `json:"auto_categories_limit,omitempty" xml:"auto_categories_limit,omitempty"`
	PossiblePhrasesLimit int    `json:"possible_phrases_limit,omitempty" xml:"possible_phrases_limit,omitempty"`
	DetectLanguage       bool   `json:"detect_language,omitempty" xml:"detect_language,omitempty"`
	PosTypes             string `json:"pos_types,omitempty" xml:"pos_types,omitempty"`
}

// CollectionSettings are the per-configuration limits applied to collections.
type CollectionSettings struct {
	FacetsLimit        int `json:"facets_limit,omitempty" xml:"facets_limit,omitempty"`
	FacetMentionsLimit int `json:"facet_mentions_limit,omitempty" xml:"facet_mentions_limit,omitempty"`
	AttributesLimit    int `json:"attributes_limit,omitempty" xml:"attributes_limit,omitempty"`
	ThemesLimit        int `json:"themes_limit,omitempty" xml:"themes_limit,omitempty"`
	ConceptTopicsLimit int `json:"concept_topics_limit,omitempty" xml:"concept_topics_limit,omitempty"`
	QueryTopicsLimit   int `json:"query_topics_limit,omitempty" xml:"query_topics_limit,omitempty"`
	NamedEntitiesLimit int `json:"named_entities_limit,omitempty" xml:"named_entities_limit,omitempty"`
}

// Category is a user defined concept category with sample terms.
type Category struct {
	ID        string   `json:"id,omitempty" xml:"id,omitempty"`
	Name      string   `json:"name" xml:"name"`
	Weight    float64  `json:"weight,omitempty" xml:"weight,omitempty"`
	Samples   []string `json:"samples,omitempty" xml:"samples>sample,omitempty"`
	Timestamp int64    `json:"timestamp,omitempty" xml:"timestamp,omitempty"`
}

func (c Category) ResourceID() string { return c.ID }

// BlacklistItem is a term or pattern excluded from analysis.
type BlacklistItem struct {
	ID        string `json:"id,omitempty" xml:"id,omitempty"`
	Name      string `json:"name" xml:"name"`
	Timestamp int64  `json:"timestamp,omitempty" xml:"timestamp,omitempty"`
}

func (b BlacklistItem) ResourceID() string { return b.ID }

// Query is a boolean query topic.
type Query struct {
	ID        string `json:"id,omitempty" xml:"id,omitempty"`
	Name      string `json:"name" xml:"name"`
	Query     string `json:"query" xml:"query"`
	Timestamp int64  `json:"timestamp,omitempty" xml:"timestamp,omitempty"`
}

func (q Query) ResourceID() string { return q.ID }

// UserEntity is a caller defined named entity.
type UserEntity struct {
	ID         string `json:"id,omitempty" xml:"id,omitempty"`
	Name       string `json:"name" xml:"name"`
	Type       string `json:"type" xml:"type"`
	Label      string `json:"label,omitempty" xml:"label,omitempty"`
	Normalized string `json:"normalized,omitempty" xml:"normalized,omitempty"`
	Timestamp  int64  `json:"timestamp,omitempty" xml:"timestamp,omitempty"`
}

func (e UserEntity) ResourceID() string { return e.ID }

// SentimentPhrase overrides the sentiment weight of a phrase.
type SentimentPhrase struct {
	ID        string  `json:"id,omitempty" xml:"id,omitempty"`
	Name      string  `json:"name" xml:"name"`
	Weight    float64 `json:"weight" xml:"weight"`
	Timestamp int64   `json:"timestamp,omitempty" xml:"timestamp,omitempty"`
}

func (p SentimentPhrase) ResourceID() string { return p.ID }

// TaxonomyNode is one node of the customer taxonomy tree.
type TaxonomyNode struct {
	ID                    string          `json:"id,omitempty" xml:"id,omitempty"`
	Name                  string          `json:"name" xml:"name"`
	EnforceParentMatching bool            `json:"enforce_parent_matching,omitempty" xml:"enforce_parent_matching,omitempty"`
	Topics                []TaxonomyTopic `json:"topics,omitempty" xml:"topics>topic,omitempty"`
	Nodes                 []TaxonomyNode  `json:"nodes,omitempty" xml:"nodes>node,omitempty"`
	Timestamp             int64           `json:"timestamp,omitempty" xml:"timestamp,omitempty"`
}

func (n TaxonomyNode) ResourceID() string { return n.ID }

// TaxonomyTopic links a taxonomy node to a query or category.
type TaxonomyTopic struct {
	ID   string `json:"id" xml:"id"`
	Type string `json:"type" xml:"type"`
}
