// Package charts fetches Maoyan dashboard rankings.
//
// Two boards are supported: the movie box office dashboard and the web-heat
// dashboard for drama/web-drama/variety series. Entries are trimmed to the
// configured top-N and compared against stored snapshots to surface new
// chart entrants.
package charts

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/shared"
)

const defaultMaoyanBaseURL = "https://piaofang.maoyan.com"

// Web-heat platform codes.
const (
	PlatformAll     = 0
	PlatformYouku   = 1
	PlatformIQiyi   = 2
	PlatformTencent = 3
	PlatformLeTV    = 4
	PlatformSohu    = 5
	PlatformPPTV    = 6
	PlatformMango   = 7
)

// Web-heat series type codes.
const (
	SeriesDrama    = 0
	SeriesWebDrama = 1
	SeriesVariety  = 2
)

var desktopUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36 Edg/121.0.0.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36 Edg/121.0.0.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
}

// MaoyanClient talks to the Maoyan piaofang dashboard endpoints.
type MaoyanClient struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewMaoyanClient creates a dashboard client. baseURL defaults to the
// production endpoint; tests point it at a local server.
func NewMaoyanClient(baseURL string, client *http.Client) *MaoyanClient {
	if baseURL == "" {
		baseURL = defaultMaoyanBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &MaoyanClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: client, now: time.Now}
}

type maoyanMovieResponse struct {
	MovieList struct {
		List []struct {
			MovieInfo struct {
				MovieName   string `json:"movieName"`
				ReleaseInfo string `json:"releaseInfo"`
			} `json:"movieInfo"`
			SumBoxDesc string `json:"sumBoxDesc"`
		} `json:"list"`
	} `json:"movieList"`
}

type maoyanHeatResponse struct {
	DataList struct {
		List []struct {
			SeriesInfo struct {
				Name         string `json:"name"`
				ReleaseInfo  string `json:"releaseInfo"`
				PlatformDesc string `json:"platformDesc"`
			} `json:"seriesInfo"`
			CurrHeatDesc string `json:"currHeatDesc"`
		} `json:"list"`
	} `json:"dataList"`
}

func (m *MaoyanClient) doRequest(ctx context.Context, rawURL string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", desktopUserAgents[rand.Intn(len(desktopUserAgents))])
	req.Header.Set("Referer", m.baseURL+"/dashboard")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: maoyan dashboard: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// MovieBoxOffice returns the top entries of the real-time movie box office
// board. top <= 0 returns the whole board.
func (m *MaoyanClient) MovieBoxOffice(ctx context.Context, top int) ([]models.ChartEntry, error) {
	var movieResp maoyanMovieResponse
	if err := m.doRequest(ctx, m.baseURL+"/dashboard-ajax/movie", &movieResp); err != nil {
		return nil, err
	}

	entries := make([]models.ChartEntry, 0, len(movieResp.MovieList.List))
	for i, movie := range movieResp.MovieList.List {
		if top > 0 && i >= top {
			break
		}
		entries = append(entries, models.ChartEntry{
			Rank:        i + 1,
			Title:       movie.MovieInfo.MovieName,
			Metric:      movie.SumBoxDesc,
			ReleaseInfo: movie.MovieInfo.ReleaseInfo,
		})
	}
	return entries, nil
}

// WebHeat returns the top entries of the web-heat board for the given series
// types and platform, deduplicated by title across series boards.
//
// Requesting drama and web-drama together collapses to a single untyped query
// because the board merges them when seriesType is omitted.
func (m *MaoyanClient) WebHeat(ctx context.Context, seriesTypes []int, platform, top int) ([]models.ChartEntry, error) {
	if len(seriesTypes) == 0 {
		seriesTypes = []int{SeriesDrama, SeriesWebDrama}
	}

	var entries []models.ChartEntry
	seen := make(map[string]struct{})
	for _, heatURL := range m.webHeatURLs(seriesTypes, platform) {
		var heatResp maoyanHeatResponse
		if err := m.doRequest(ctx, heatURL, &heatResp); err != nil {
			return nil, err
		}
		for i, series := range heatResp.DataList.List {
			if top > 0 && i >= top {
				break
			}
			if _, dup := seen[series.SeriesInfo.Name]; dup {
				continue
			}
			seen[series.SeriesInfo.Name] = struct{}{}
			entries = append(entries, models.ChartEntry{
				Rank:        len(entries) + 1,
				Title:       series.SeriesInfo.Name,
				Metric:      series.CurrHeatDesc,
				ReleaseInfo: series.SeriesInfo.ReleaseInfo,
				Platform:    series.SeriesInfo.PlatformDesc,
			})
		}
	}
	return entries, nil
}

func (m *MaoyanClient) webHeatURLs(seriesTypes []int, platform int) []string {
	base := m.baseURL + "/dashboard/webHeatData"
	showDate := m.now().Format("20060102")

	query := func(seriesType string) string {
		values := url.Values{
			"showDate":     {showDate},
			"platformType": {strconv.Itoa(platform)},
		}
		if seriesType != "" {
			values.Set("seriesType", seriesType)
		}
		return base + "?" + values.Encode()
	}

	has := func(want int) bool {
		for _, s := range seriesTypes {
			if s == want {
				return true
			}
		}
		return false
	}

	switch {
	case has(SeriesDrama) && has(SeriesWebDrama) && has(SeriesVariety):
		return []string{query(""), query(strconv.Itoa(SeriesVariety))}
	case has(SeriesDrama) && has(SeriesWebDrama):
		return []string{query("")}
	default:
		urls := make([]string, 0, len(seriesTypes))
		for _, s := range seriesTypes {
			urls = append(urls, query(strconv.Itoa(s)))
		}
		return urls
	}
}
