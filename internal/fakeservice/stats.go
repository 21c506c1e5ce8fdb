package fakeservice

import (
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/semantria/semantria-go/pkg/semantria/models"
)

// usage counts API activity overall and per x-app-name.
type usage struct {
	mu    sync.Mutex
	total models.Statistics
	apps  map[string]*models.Statistics
}

func appName(r *http.Request) string {
	if name := r.Header.Get("x-app-name"); name != "" {
		return name
	}
	return "unknown"
}

// record counts one signed API call.
func (u *usage) record(r *http.Request) {
	data := strings.HasPrefix(r.URL.Path, "/document") || strings.HasPrefix(r.URL.Path, "/collection")
	u.add(r, func(st *models.Statistics) {
		st.TotalAPICalls++
		switch {
		case data && r.Method == http.MethodGet:
			st.CallsPolling++
		case data:
			st.CallsData++
		default:
			st.CallsSettings++
		}
	})
}

func (u *usage) add(r *http.Request, fn func(*models.Statistics)) {
	app := appName(r)
	u.mu.Lock()
	defer u.mu.Unlock()
	st, ok := u.apps[app]
	if !ok {
		st = &models.Statistics{Name: app, Status: "active"}
		u.apps[app] = st
	}
	fn(&u.total)
	fn(st)
}

func (u *usage) overall() models.Statistics {
	u.mu.Lock()
	defer u.mu.Unlock()
	st := u.total
	st.Name, st.Status = "overall", "active"
	return st
}

func (u *usage) byApp() []models.GroupedStatistics {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]models.GroupedStatistics, 0, len(u.apps))
	for app, st := range u.apps {
		out = append(out, models.GroupedStatistics{Statistics: *st, App: app})
	}
	slices.SortFunc(out, func(a, b models.GroupedStatistics) int { return strings.Compare(a.App, b.App) })
	return out
}
