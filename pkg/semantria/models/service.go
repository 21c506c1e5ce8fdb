package models

import "time"

// ServiceStatus describes the API host.
type ServiceStatus struct {
	APIVersion           string   `json:"api_version" xml:"api_version"`
	ServiceVersion       string   `json:"service_version" xml:"service_version"`
	ServiceStatus        string   `json:"service_status" xml:"service_status"`
	SupportedCompression string   `json:"supported_compression,omitempty" xml:"supported_compression,omitempty"`
	SupportedEncoding    string   `json:"supported_encoding,omitempty" xml:"supported_encoding,omitempty"`
	SupportedLanguages   []string `json:"supported_languages,omitempty" xml:"supported_languages>language,omitempty"`
}

// Subscription describes the account's limits and balances.
type Subscription struct {
	Name                string `json:"name" xml:"name"`
	Status              string `json:"status" xml:"status"`
	Priority            string `json:"priority,omitempty" xml:"priority,omitempty"`
	ExpirationDate      int64  `json:"expiration_date,omitempty" xml:"expiration_date,omitempty"`
	CallsBalance        int64  `json:"calls_balance" xml:"calls_balance"`
	CallsLimit          int64  `json:"calls_limit" xml:"calls_limit"`
	CallsLimitInterval  int64  `json:"calls_limit_interval,omitempty" xml:"calls_limit_interval,omitempty"`
	DocsBalance         int64  `json:"docs_balance" xml:"docs_balance"`
	DocsLimit           int64  `json:"docs_limit" xml:"docs_limit"`
	DocsLimitInterval   int64  `json:"docs_limit_interval,omitempty" xml:"docs_limit_interval,omitempty"`
	ConfigurationsLimit int64  `json:"configurations_limit,omitempty" xml:"configurations_limit,omitempty"`
	BatchLimit          int64  `json:"batch_limit,omitempty" xml:"batch_limit,omitempty"`
	CollectionLimit     int64  `json:"collection_limit,omitempty" xml:"collection_limit,omitempty"`
	AutoResponseLimit   int64  `json:"auto_response_limit,omitempty" xml:"auto_response_limit,omitempty"`
	CharactersLimit     int64  `json:"characters_limit,omitempty" xml:"characters_limit,omitempty"`
}

// Statistics holds usage counters for an interval.
type Statistics struct {
	Name           string `json:"name,omitempty" xml:"name,omitempty"`
	Status         string `json:"status,omitempty" xml:"status,omitempty"`
	TotalAPICalls  int64  `json:"total_api_calls" xml:"total_api_calls"`
	CallsSettings  int64  `json:"calls_settings" xml:"calls_settings"`
	CallsPolling   int64  `json:"calls_polling" xml:"calls_polling"`
	CallsData      int64  `json:"calls_data" xml:"calls_data"`
	DocsQueued     int64  `json:"docs_queued" xml:"docs_queued"`
	DocsSuccessful int64  `json:"docs_successful" xml:"docs_successful"`
	DocsFailed     int64  `json:"docs_failed" xml:"docs_failed"`
	DocsRetrieved  int64  `json:"docs_retrieved" xml:"docs_retrieved"`
	BatchesQueued  int64  `json:"batches_queued" xml:"batches_queued"`
}

// GroupedStatistics is one row of a grouped statistics report.
type GroupedStatistics struct {
	Statistics
	ConfigID   string `json:"config_id,omitempty" xml:"config_id,omitempty"`
	ConfigName string `json:"config_name,omitempty" xml:"config_name,omitempty"`
	UserID     string `json:"user_id,omitempty" xml:"user_id,omitempty"`
	UserEmail  string `json:"user_email,omitempty" xml:"user_email,omitempty"`
	Language   string `json:"language,omitempty" xml:"language,omitempty"`
	App        string `json:"app,omitempty" xml:"app,omitempty"`
	Time       string `json:"time,omitempty" xml:"time,omitempty"`
}

// FeaturesSet lists the features available for one language.
type FeaturesSet struct {
	ID              string   `json:"id,omitempty" xml:"id,omitempty"`
	Language        string   `json:"language" xml:"language"`
	HTMLProcessing  bool     `json:"html_processing" xml:"html_processing"`
	OneSentenceMode bool     `json:"one_sentence_mode" xml:"one_sentence_mode"`
	Detailed        []string `json:"detailed_mode,omitempty" xml:"detailed_mode>feature,omitempty"`
	Discovery       []string `json:"discovery_mode,omitempty" xml:"discovery_mode>feature,omitempty"`
}

// StatsInterval is a predefined statistics window.
type StatsInterval string

const (
	IntervalHour  StatsInterval = "hour"
	IntervalDay   StatsInterval = "day"
	IntervalWeek  StatsInterval = "week"
	IntervalMonth StatsInterval = "month"
	IntervalYear  StatsInterval = "year"
)

// StatsTimeLayout is the layout of the from/to statistics parameters.
const StatsTimeLayout = "2006-01-02T15:04:05Z"

// StatsQuery selects a statistics window: either Interval or a From/To
// range, optionally grouped (e.g. "language,app,10m").
type StatsQuery struct {
	Interval StatsInterval `validate:"omitempty,oneof=hour day week month year"`
	From     time.Time
	To       time.Time
	Group    string
}
