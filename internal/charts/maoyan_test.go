package charts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/doumiao/listsync/internal/models"
)

func TestMaoyanClient(t *testing.T) {
	ctx := context.Background()

	t.Run("MovieBoxOffice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/dashboard-ajax/movie" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			if r.Header.Get("User-Agent") == "" {
				t.Error("Expected a User-Agent header")
			}
			w.Write([]byte(`{"movieList":{"list":[
				{"movieInfo":{"movieName":"热辣滚烫","releaseInfo":"上映15天"},"sumBoxDesc":"34.2亿"},
				{"movieInfo":{"movieName":"飞驰人生2","releaseInfo":"上映15天"},"sumBoxDesc":"30.1亿"},
				{"movieInfo":{"movieName":"第二十条","releaseInfo":"上映15天"},"sumBoxDesc":"22.3亿"}
			]}}`))
		}))
		defer server.Close()

		client := NewMaoyanClient(server.URL, server.Client())
		entries, err := client.MovieBoxOffice(ctx, 2)
		if err != nil {
			t.Fatalf("MovieBoxOffice failed: %v", err)
		}

		if len(entries) != 2 {
			t.Fatalf("Expected top 2 entries, got %d", len(entries))
		}
		if entries[0].Title != "热辣滚烫" || entries[0].Rank != 1 {
			t.Errorf("Unexpected first entry: %+v", entries[0])
		}
		if entries[1].Metric != "30.1亿" {
			t.Errorf("Expected box office metric, got %q", entries[1].Metric)
		}
	})

	t.Run("WebHeat Merges Series Boards", func(t *testing.T) {
		var queries []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/dashboard/webHeatData" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			queries = append(queries, r.URL.Query().Get("seriesType"))
			if r.URL.Query().Get("showDate") == "" {
				t.Error("Expected showDate parameter")
			}
			w.Write([]byte(`{"dataList":{"list":[
				{"seriesInfo":{"name":"繁花","releaseInfo":"已完结","platformDesc":"腾讯视频"},"currHeatDesc":"9800"},
				{"seriesInfo":{"name":"繁花","releaseInfo":"已完结","platformDesc":"腾讯视频"},"currHeatDesc":"9800"}
			]}}`))
		}))
		defer server.Close()

		client := NewMaoyanClient(server.URL, server.Client())
		entries, err := client.WebHeat(ctx, []int{SeriesDrama, SeriesWebDrama, SeriesVariety}, PlatformAll, 10)
		if err != nil {
			t.Fatalf("WebHeat failed: %v", err)
		}

		// drama+web-drama collapse into one untyped query, variety gets its own
		if len(queries) != 2 || queries[0] != "" || queries[1] != "2" {
			t.Errorf("Unexpected series queries: %v", queries)
		}
		// duplicate titles across boards kept once
		if len(entries) != 1 {
			t.Fatalf("Expected 1 deduplicated entry, got %d", len(entries))
		}
		if entries[0].Platform != "腾讯视频" {
			t.Errorf("Expected platform description, got %q", entries[0].Platform)
		}
	})

	t.Run("Server Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewMaoyanClient(server.URL, server.Client())
		if _, err := client.MovieBoxOffice(ctx, 10); err == nil {
			t.Error("Expected error on 502 response")
		}
	})
}

func TestNewEntrants(t *testing.T) {
	previous := []models.ChartEntry{{Title: "热辣滚烫"}, {Title: "第二十条"}}
	current := []models.ChartEntry{{Title: "热辣滚烫"}, {Title: "沙丘2"}}

	fresh := NewEntrants(current, previous)
	if len(fresh) != 1 || fresh[0].Title != "沙丘2" {
		t.Errorf("Expected only 沙丘2 as new entrant, got %+v", fresh)
	}

	if got := NewEntrants(current, nil); len(got) != 2 {
		t.Errorf("Expected everything new on first refresh, got %d", len(got))
	}
}
