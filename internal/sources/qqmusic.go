// QQ Music [Adapter] implementation
//
// Fetches public playlists through the musicu.fcg aggregate endpoint used by
// the mobile client. A cookie is optional and only needed for restricted
// playlists.
package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/shared"
	"github.com/google/uuid"
)

const defaultQQBaseURL = "https://u.y.qq.com"

// QQClient implements Adapter for QQ Music.
type QQClient struct {
	baseURL    string
	cookie     string
	httpClient *http.Client
}

// NewQQClient creates a new QQ Music adapter. baseURL defaults to the
// production endpoint; tests point it at a local server.
func NewQQClient(baseURL, cookie string, client *http.Client) *QQClient {
	if baseURL == "" {
		baseURL = defaultQQBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &QQClient{baseURL: baseURL, cookie: cookie, httpClient: client}
}

// Name returns the source name.
func (q *QQClient) Name() string { return "qq" }

type qqSinger struct {
	Name string `json:"name"`
}

type qqSong struct {
	ID     int64      `json:"id"`
	Mid    string     `json:"mid"`
	Name   string     `json:"name"`
	Singer []qqSinger `json:"singer"`
}

type qqPlaylistResponse struct {
	GetMusicPlaylist struct {
		Code int `json:"code"`
		Data struct {
			SongList []qqSong `json:"songlist"`
		} `json:"data"`
	} `json:"getMusicPlaylist"`
}

// FetchPlaylist retrieves a playlist by its dissid.
func (q *QQClient) FetchPlaylist(ctx context.Context, playlistID string) ([]models.RawTrack, error) {
	dissID, err := strconv.ParseInt(playlistID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: qq playlist id %q is not numeric", shared.ErrInvalidInput, playlistID)
	}

	guid := uuid.New().String()
	payload := map[string]any{
		"getMusicPlaylist": map[string]any{
			"module": "music.srfDissInfo.aiDissInfo",
			"method": "uniform_get_Dissinfo",
			"param": map[string]any{
				"disstid":  dissID,
				"userinfo": 1,
				"tag":      1,
				"is_pc":    1,
				"guid":     guid,
			},
		},
		"comm": map[string]any{
			"g_tk":     0,
			"uin":      "",
			"format":   "json",
			"ct":       6,
			"cv":       80600,
			"platform": "wk_v17",
			"uid":      "",
			"guid":     guid,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := q.baseURL + "/cgi-bin/musicu.fcg"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Referer", "http://y.qq.com")
	req.Header.Set("User-Agent", "QQ音乐/73222 CFNetwork/1406.0.2 Darwin/22.4.0")
	if q.cookie != "" {
		req.Header.Set("Cookie", q.cookie)
	}

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: qq playlist %s: status %d", shared.ErrAPIRequest, playlistID, resp.StatusCode)
	}

	var playlist qqPlaylistResponse
	if err := json.NewDecoder(resp.Body).Decode(&playlist); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if playlist.GetMusicPlaylist.Code != 0 {
		return nil, fmt.Errorf("%w: qq playlist %s: code %d", shared.ErrAPIRequest, playlistID, playlist.GetMusicPlaylist.Code)
	}

	tracks := make([]models.RawTrack, 0, len(playlist.GetMusicPlaylist.Data.SongList))
	for _, song := range playlist.GetMusicPlaylist.Data.SongList {
		track := models.RawTrack{Name: song.Name}
		for _, singer := range song.Singer {
			if singer.Name != "" {
				track.Artists = append(track.Artists, singer.Name)
			}
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}
