package fakeservice

import (
	"archive/tar"
	"bytes"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/semantria/semantria-go/internal/common/httpx"
	"github.com/semantria/semantria-go/pkg/semantria/models"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
)

var languages = []string{"English", "French", "German", "Italian", "Portuguese", "Spanish"}

func (s *Service) mountInfo(r chi.Router) {
	r.Get("/status.{format}", httpx.WrapHttpRsp(s.getStatus))
	r.Get("/subscription.{format}", httpx.WrapHttpRsp(s.getSubscription))
	r.Get("/statistics.{format}", httpx.WrapHttpRsp(s.getStatistics))
	r.Get("/features.{format}", httpx.WrapHttpRsp(s.getFeatures))
	r.Get("/salience/user-directory.{archive}", httpx.WrapHttpRsp(s.getUserDirectory))
}

func (s *Service) getStatus(r *http.Request) (*httpx.Response, error) {
	ser, err := codec(r)
	if err != nil {
		return nil, err
	}
	version := r.Header.Get("x-api-version")
	if version == "" {
		version = "4.2"
	}
	return respond(ser, http.StatusOK, &serializer.Element[models.ServiceStatus]{Name: "status", Value: models.ServiceStatus{
		APIVersion:           version,
		ServiceVersion:       Version,
		ServiceStatus:        "available",
		SupportedCompression: "gzip,deflate",
		SupportedEncoding:    "UTF-8",
		SupportedLanguages:   languages,
	}})
}

func (s *Service) getSubscription(r *http.Request) (*httpx.Response, error) {
	ser, err := codec(r)
	if err != nil {
		return nil, err
	}
	used := s.stats.overall()
	const callsLimit, docsLimit = 100000, 50000
	return respond(ser, http.StatusOK, &serializer.Element[models.Subscription]{Name: "subscription", Value: models.Subscription{
		Name:                "mock",
		Status:              "active",
		Priority:            "normal",
		ExpirationDate:      s.now().AddDate(1, 0, 0).Unix(),
		CallsBalance:        callsLimit - used.TotalAPICalls,
		CallsLimit:          callsLimit,
		CallsLimitInterval:  60,
		DocsBalance:         docsLimit - used.DocsQueued,
		DocsLimit:           docsLimit,
		DocsLimitInterval:   60,
		ConfigurationsLimit: 10,
		BatchLimit:          100,
		CollectionLimit:     1000,
		AutoResponseLimit:   2,
		CharactersLimit:     8192,
	}})
}

func (s *Service) getStatistics(r *http.Request) (*httpx.Response, error) {
	ser, err := codec(r)
	if err != nil {
		return nil, err
	}
	q := r.URL.Query()
	interval, from, to := q.Get("interval"), q.Get("from"), q.Get("to")
	switch {
	case interval != "" && (from != "" || to != ""):
		return nil, httpx.ErrInvalidRequest("interval and from/to are mutually exclusive")
	case interval != "" && !slices.Contains([]string{"hour", "day", "week", "month", "year"}, interval):
		return nil, httpx.ErrInvalidRequest(fmt.Sprintf("unknown interval %q", interval))
	case from != "" || to != "":
		f, err1 := time.Parse(models.StatsTimeLayout, from)
		t, err2 := time.Parse(models.StatsTimeLayout, to)
		if err1 != nil || err2 != nil || !f.Before(t) {
			return nil, httpx.ErrInvalidRequest("from and to must be ordered timestamps")
		}
	}
	group := q.Get("group")
	if group == "" {
		return respondList(ser, "statistics", "statistic", []models.Statistics{s.stats.overall()})
	}
	rows := s.stats.byApp()
	if !slices.Contains(strings.Split(group, ","), "app") {
		overall := models.GroupedStatistics{Statistics: s.stats.overall()}
		rows = []models.GroupedStatistics{overall}
	}
	return respondList(ser, "statistics", "statistic", rows)
}

func (s *Service) getFeatures(r *http.Request) (*httpx.Response, error) {
	ser, err := codec(r)
	if err != nil {
		return nil, err
	}
	want := r.URL.Query().Get("language")
	var sets []models.FeaturesSet
	for _, lang := range languages {
		if want != "" && !strings.EqualFold(want, lang) {
			continue
		}
		sets = append(sets, models.FeaturesSet{
			ID:              strings.ToLower(lang[:2]),
			Language:        lang,
			HTMLProcessing:  true,
			OneSentenceMode: true,
			Detailed:        []string{"sentiment", "entities", "themes", "queries", "user_categories"},
			Discovery:       []string{"facets", "themes", "entities"},
		})
	}
	return respondList(ser, "features", "feature", sets)
}

// getUserDirectory exports the user data of a configuration as an archive.
func (s *Service) getUserDirectory(r *http.Request) (*httpx.Response, error) {
	cfg, err := s.configuration(r.URL.Query().Get("config_id"))
	if err != nil {
		return nil, err
	}
	files := s.userFiles(cfg)
	var body []byte
	var contentType string
	switch archive := chi.URLParam(r, "archive"); archive {
	case "zip":
		body, err = zipFiles(files)
		contentType = "application/zip"
	case "tar":
		body, err = tarFiles(files)
		contentType = "application/x-tar"
	case "tar.gz":
		body, err = tarFiles(files)
		if err == nil {
			body, err = gzipBytes(body)
		}
		contentType = "application/gzip"
	default:
		return nil, httpx.ErrNotFound(fmt.Sprintf("unsupported archive %q", archive))
	}
	if err != nil {
		return nil, httpx.ErrApplicationError(err.Error())
	}
	return &httpx.Response{StatusCode: http.StatusOK, ContentType: contentType, Body: body}, nil
}

type userFile struct {
	name string
	body string
}

func (s *Service) userFiles(cfg *models.Configuration) []userFile {
	a := s.analyzer(cfg)
	name := "default"
	if cfg != nil {
		name = cfg.Name
	}
	lines := func(n int, line func(i int) string) string {
		var b strings.Builder
		for i := range n {
			b.WriteString(line(i))
			b.WriteByte('\n')
		}
		return b.String()
	}
	return []userFile{
		{"user_directory.txt", fmt.Sprintf("configuration: %s\nlanguage: %s\n", name, a.language())},
		{"blacklist.dat", lines(len(a.blacklist), func(i int) string { return a.blacklist[i].Name })},
		{"sentiment.dat", lines(len(a.phrases), func(i int) string {
			return fmt.Sprintf("%s\t%g", a.phrases[i].Name, a.phrases[i].Weight)
		})},
		{"queries.dat", lines(len(a.queries), func(i int) string {
			return a.queries[i].Name + "\t" + a.queries[i].Query
		})},
		{"user_entities.dat", lines(len(a.entities), func(i int) string {
			return a.entities[i].Name + "\t" + a.entities[i].Type
		})},
	}
}

func zipFiles(files []userFile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tarFiles(files []userFile) ([]byte, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, f := range files {
		hdr := &tar.Header{Name: f.name, Mode: 0o644, Size: int64(len(f.body)), Format: tar.FormatUSTAR}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, err
		}
		if _, err := tw.Write([]byte(f.body)); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
