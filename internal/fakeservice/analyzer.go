package fakeservice

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/semantria/semantria-go/pkg/semantria/models"
	"golang.org/x/text/cases"
)

var lexicon = map[string]float64{
	"good": 0.6, "great": 0.8, "excellent": 0.9, "love": 0.9, "like": 0.4,
	"happy": 0.6, "works": 0.4, "fast": 0.3, "nice": 0.5, "best": 0.8,
	"bad": -0.6, "poor": -0.5, "terrible": -0.9, "hate": -0.9, "broken": -0.7,
	"slow": -0.4, "fails": -0.6, "worst": -0.8, "awful": -0.8, "angry": -0.6,
}

var negators = map[string]bool{"not": true, "no": true, "never": true, "don't": true, "doesn't": true}

var stopwords = map[string]bool{
	"the": true, "and": true, "that": true, "this": true, "with": true, "from": true,
	"have": true, "were": true, "they": true, "their": true, "there": true, "about": true,
	"would": true, "could": true, "which": true, "when": true, "what": true, "your": true,
}

var fold = cases.Fold()

// analyzer produces deterministic pseudo analysis from a configuration's
// user data: blacklist, sentiment phrases, queries, entities and categories.
type analyzer struct {
	config     *models.Configuration
	blacklist  []models.BlacklistItem
	phrases    []models.SentimentPhrase
	queries    []models.Query
	entities   []models.UserEntity
	categories []models.Category
}

func (s *Service) analyzer(cfg *models.Configuration) *analyzer {
	scope := ""
	if cfg != nil {
		scope = cfg.ID
	}
	return &analyzer{
		config:     cfg,
		blacklist:  s.blacklist.list(scope),
		phrases:    s.phrases.list(scope),
		queries:    s.queries.list(scope),
		entities:   s.entities.list(scope),
		categories: s.categories.list(scope),
	}
}

func (a *analyzer) configID() string {
	if a.config == nil {
		return ""
	}
	return a.config.ID
}

func (a *analyzer) language() string {
	if a.config == nil || a.config.Language == "" {
		return "English"
	}
	return a.config.Language
}

func words(text string) []string {
	return strings.FieldsFunc(fold.String(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func containsWord(ws []string, term string) bool {
	tw := words(term)
	if len(tw) == 0 {
		return false
	}
	for i := 0; i+len(tw) <= len(ws); i++ {
		if slices.Equal(ws[i:i+len(tw)], tw) {
			return true
		}
	}
	return false
}

func countWord(ws []string, term string) int {
	tw := words(term)
	n := 0
	for i := 0; len(tw) > 0 && i+len(tw) <= len(ws); i++ {
		if slices.Equal(ws[i:i+len(tw)], tw) {
			n++
		}
	}
	return n
}

func polarity(score float64) string {
	switch {
	case score > 0.3:
		return "positive"
	case score < -0.3:
		return "negative"
	}
	return "neutral"
}

func (a *analyzer) blacklisted(word string) bool {
	for _, b := range a.blacklist {
		if fold.String(b.Name) == word {
			return true
		}
	}
	return false
}

func (a *analyzer) document(doc models.Document) models.DocAnalyticData {
	ws := words(doc.Text)
	out := models.DocAnalyticData{
		ID:            doc.ID,
		ConfigID:      a.configID(),
		JobID:         doc.JobID,
		Tag:           doc.Tag,
		Status:        models.StatusProcessed,
		Language:      a.language(),
		LanguageScore: 1,
		SourceText:    doc.Text,
		Summary:       summary(doc.Text),
	}

	var total float64
	var hits int
	for i, w := range ws {
		weight, ok := lexicon[w]
		if !ok || a.blacklisted(w) {
			continue
		}
		if i > 0 && negators[ws[i-1]] {
			weight = -weight
		}
		total += weight
		hits++
	}
	for _, p := range a.phrases {
		n := countWord(ws, p.Name)
		if n == 0 {
			continue
		}
		total += p.Weight * float64(n)
		hits += n
		out.Phrases = append(out.Phrases, models.Phrase{
			Title:             p.Name,
			SentimentScore:    p.Weight,
			SentimentPolarity: polarity(p.Weight),
			Type:              "user",
		})
	}
	if hits > 0 {
		out.SentimentScore = round(total / math.Sqrt(float64(hits)))
	}
	out.SentimentPolarity = polarity(out.SentimentScore)

	for _, e := range a.entities {
		if n := countWord(ws, e.Name); n > 0 {
			out.Entities = append(out.Entities, models.Entity{
				Title:             e.Name,
				Type:              "named",
				EntityType:        e.Type,
				Label:             e.Label,
				Count:             n,
				SentimentScore:    out.SentimentScore,
				SentimentPolarity: out.SentimentPolarity,
			})
		}
	}
	for _, q := range a.queries {
		if n := queryHits(ws, q.Query); n > 0 {
			out.Topics = append(out.Topics, models.Topic{ID: q.ID, Title: q.Name, Type: "query", Hitcount: n, SentimentScore: out.SentimentScore})
		}
	}
	for _, c := range a.categories {
		n := 0
		for _, sample := range c.Samples {
			n += countWord(ws, sample)
		}
		if n > 0 {
			out.Topics = append(out.Topics, models.Topic{ID: c.ID, Title: c.Name, Type: "concept", Hitcount: n, StrengthScore: c.Weight})
		}
	}
	out.Themes = a.themes(ws, out.SentimentScore)
	return out
}

// queryHits evaluates a query of OR separated groups of AND separated terms
// and returns the number of groups that matched.
func queryHits(ws []string, query string) int {
	n := 0
	for _, group := range strings.Split(query, " OR ") {
		terms := strings.Split(group, " AND ")
		matched := true
		for _, term := range terms {
			term = strings.Trim(strings.TrimSpace(term), `"()`)
			negate := strings.HasPrefix(term, "NOT ")
			term = strings.TrimPrefix(term, "NOT ")
			if containsWord(ws, term) == negate {
				matched = false
				break
			}
		}
		if matched {
			n++
		}
	}
	return n
}

func (a *analyzer) themes(ws []string, score float64) []models.Theme {
	freq := map[string]int{}
	for _, w := range ws {
		if len(w) < 4 || stopwords[w] || a.blacklisted(w) {
			continue
		}
		freq[w]++
	}
	var themes []models.Theme
	for w, n := range freq {
		if n < 2 {
			continue
		}
		themes = append(themes, models.Theme{
			Title:             w,
			Evidence:          n,
			StrengthScore:     float64(n),
			SentimentScore:    score,
			SentimentPolarity: polarity(score),
		})
	}
	slices.SortFunc(themes, func(x, y models.Theme) int {
		if c := cmp.Compare(y.Evidence, x.Evidence); c != 0 {
			return c
		}
		return strings.Compare(x.Title, y.Title)
	})
	if len(themes) > 5 {
		themes = themes[:5]
	}
	return themes
}

func (a *analyzer) collection(coll models.Collection) models.CollAnalyticData {
	out := models.CollAnalyticData{
		ID:       coll.ID,
		ConfigID: a.configID(),
		JobID:    coll.JobID,
		Tag:      coll.Tag,
		Status:   models.StatusProcessed,
	}
	facets := map[string]*models.Facet{}
	entities := map[string]*models.Entity{}
	topics := map[string]*models.Topic{}
	var themeWords []string
	for _, text := range coll.Documents {
		doc := a.document(models.Document{ID: coll.ID, Text: text})
		seen := map[string]bool{}
		for _, w := range words(text) {
			if len(w) < 4 || stopwords[w] || a.blacklisted(w) || seen[w] {
				continue
			}
			seen[w] = true
			f, ok := facets[w]
			if !ok {
				f = &models.Facet{Label: w}
				facets[w] = f
			}
			f.Count++
			switch doc.SentimentPolarity {
			case "positive":
				f.PositiveCount++
			case "negative":
				f.NegativeCount++
			default:
				f.NeutralCount++
			}
		}
		for _, e := range doc.Entities {
			if agg, ok := entities[e.Title]; ok {
				agg.Count += e.Count
				continue
			}
			e.SentimentScore, e.SentimentPolarity = 0, ""
			entities[e.Title] = &e
		}
		for _, t := range doc.Topics {
			if agg, ok := topics[t.Title]; ok {
				agg.Hitcount += t.Hitcount
				continue
			}
			t.SentimentScore = 0
			topics[t.Title] = &t
		}
		themeWords = append(themeWords, words(text)...)
	}
	for _, f := range facets {
		if f.Count > 1 || len(coll.Documents) == 1 {
			out.Facets = append(out.Facets, *f)
		}
	}
	slices.SortFunc(out.Facets, func(x, y models.Facet) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		return strings.Compare(x.Label, y.Label)
	})
	for _, e := range entities {
		out.Entities = append(out.Entities, *e)
	}
	slices.SortFunc(out.Entities, func(x, y models.Entity) int { return strings.Compare(x.Title, y.Title) })
	for _, t := range topics {
		out.Topics = append(out.Topics, *t)
	}
	slices.SortFunc(out.Topics, func(x, y models.Topic) int { return strings.Compare(x.Title, y.Title) })
	out.Themes = a.themes(themeWords, 0)
	return out
}

func summary(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		return text[:i+1]
	}
	return text
}

func round(f float64) float64 {
	return math.Round(f*1000) / 1000
}
