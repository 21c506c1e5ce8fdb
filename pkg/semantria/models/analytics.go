package models

// Task status values reported for queued documents and collections.
const (
	StatusQueued    = "QUEUED"
	StatusProcessed = "PROCESSED"
	StatusFailed    = "FAILED"
)

// Document is a single text submitted for analysis.
type Document struct {
	ID    string `json:"id" xml:"id" validate:"required,max=36"`
	Text  string `json:"text" xml:"text" validate:"required"`
	Tag   string `json:"tag,omitempty" xml:"tag,omitempty"`
	JobID string `json:"job_id,omitempty" xml:"job_id,omitempty"`
}

// Collection is a group of texts analysed together.
type Collection struct {
	ID        string   `json:"id" xml:"id" validate:"required,max=36"`
	Documents []string `json:"documents" xml:"documents>document" validate:"required,min=1,dive,required"`
	Tag       string   `json:"tag,omitempty" xml:"tag,omitempty"`
	JobID     string   `json:"job_id,omitempty" xml:"job_id,omitempty"`
}

// DocAnalyticData is the result of a processed document.
type DocAnalyticData struct {
	ID                string   `json:"id" xml:"id"`
	ConfigID          string   `json:"config_id,omitempty" xml:"config_id,omitempty"`
	JobID             string   `json:"job_id,omitempty" xml:"job_id,omitempty"`
	Tag               string   `json:"tag,omitempty" xml:"tag,omitempty"`
	Status            string   `json:"status" xml:"status"`
	Language          string   `json:"language,omitempty" xml:"language,omitempty"`
	LanguageScore     float64  `json:"language_score,omitempty" xml:"language_score,omitempty"`
	SentimentScore    float64  `json:"sentiment_score" xml:"sentiment_score"`
	SentimentPolarity string   `json:"sentiment_polarity,omitempty" xml:"sentiment_polarity,omitempty"`
	Summary           string   `json:"summary,omitempty" xml:"summary,omitempty"`
	SourceText        string   `json:"source_text,omitempty" xml:"source_text,omitempty"`
	Themes            []Theme  `json:"themes,omitempty" xml:"themes>theme,omitempty"`
	Entities          []Entity `json:"entities,omitempty" xml:"entities>entity,omitempty"`
	Topics            []Topic  `json:"topics,omitempty" xml:"topics>topic,omitempty"`
	Phrases           []Phrase `json:"phrases,omitempty" xml:"phrases>phrase,omitempty"`
	AutoCategories    []Topic  `json:"auto_categories,omitempty" xml:"auto_categories>category,omitempty"`
}

// CollAnalyticData is the result of a processed collection.
type CollAnalyticData struct {
	ID       string   `json:"id" xml:"id"`
	ConfigID string   `json:"config_id,omitempty" xml:"config_id,omitempty"`
	JobID    string   `json:"job_id,omitempty" xml:"job_id,omitempty"`
	Tag      string   `json:"tag,omitempty" xml:"tag,omitempty"`
	Status   string   `json:"status" xml:"status"`
	Facets   []Facet  `json:"facets,omitempty" xml:"facets>facet,omitempty"`
	Themes   []Theme  `json:"themes,omitempty" xml:"themes>theme,omitempty"`
	Entities []Entity `json:"entities,omitempty" xml:"entities>entity,omitempty"`
	Topics   []Topic  `json:"topics,omitempty" xml:"topics>topic,omitempty"`
}

type Theme struct {
	Title             string  `json:"title" xml:"title"`
	Evidence          int     `json:"evidence,omitempty" xml:"evidence,omitempty"`
	StrengthScore     float64 `json:"strength_score,omitempty" xml:"strength_score,omitempty"`
	SentimentScore    float64 `json:"sentiment_score,omitempty" xml:"sentiment_score,omitempty"`
	SentimentPolarity string  `json:"sentiment_polarity,omitempty" xml:"sentiment_polarity,omitempty"`
}

type Entity struct {
	Title             string  `json:"title" xml:"title"`
	Type              string  `json:"type,omitempty" xml:"type,omitempty"`
	EntityType        string  `json:"entity_type,omitempty" xml:"entity_type,omitempty"`
	Label             string  `json:"label,omitempty" xml:"label,omitempty"`
	Count             int     `json:"count,omitempty" xml:"count,omitempty"`
	SentimentScore    float64 `json:"sentiment_score,omitempty" xml:"sentiment_score,omitempty"`
	SentimentPolarity string  `json:"sentiment_polarity,omitempty" xml:"sentiment_polarity,omitempty"`
}

type Topic struct {
	ID             string  `json:"id,omitempty" xml:"id,omitempty"`
	Title          string  `json:"title" xml:"title"`
	Type           string  `json:"type,omitempty" xml:"type,omitempty"`
	Hitcount       int     `json:"hitcount,omitempty" xml:"hitcount,omitempty"`
	StrengthScore  float64 `json:"strength_score,omitempty" xml:"strength_score,omitempty"`
	SentimentScore float64 `json:"sentiment_score,omitempty" xml:"sentiment_score,omitempty"`
}

type Phrase struct {
	Title             string  `json:"title" xml:"title"`
	SentimentScore    float64 `json:"sentiment_score,omitempty" xml:"sentiment_score,omitempty"`
	SentimentPolarity string  `json:"sentiment_polarity,omitempty" xml:"sentiment_polarity,omitempty"`
	IsNegated         bool    `json:"is_negated,omitempty" xml:"is_negated,omitempty"`
	Type              string  `json:"type,omitempty" xml:"type,omitempty"`
}

type Facet struct {
	Label         string `json:"label" xml:"label"`
	Count         int    `json:"count,omitempty" xml:"count,omitempty"`
	NegativeCount int    `json:"negative_count,omitempty" xml:"negative_count,omitempty"`
	NeutralCount  int    `json:"neutral_count,omitempty" xml:"neutral_count,omitempty"`
	PositiveCount int    `json:"positive_count,omitempty" xml:"positive_count,omitempty"`
}
