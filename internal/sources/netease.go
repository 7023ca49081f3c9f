// NetEase Cloud Music [Adapter] implementation
//
// Communicates with a NeteaseCloudMusicApi-compatible HTTP server. Login is
// only required for private playlists and daily recommendations; the server
// hands back a cookie on login that subsequent requests replay.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/shared"
)

const defaultNeteaseBaseURL = "http://localhost:3000"

// NeteaseClient implements Adapter for NetEase Cloud Music.
type NeteaseClient struct {
	baseURL    string
	cookie     string
	httpClient *http.Client
}

// NewNeteaseClient creates a new NetEase adapter pointed at a
// NeteaseCloudMusicApi server.
func NewNeteaseClient(baseURL string, client *http.Client) *NeteaseClient {
	if baseURL == "" {
		baseURL = defaultNeteaseBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &NeteaseClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: client}
}

// Name returns the source name.
func (n *NeteaseClient) Name() string { return "netease" }

type neteaseArtist struct {
	Name string `json:"name"`
}

type neteaseSong struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Artists []neteaseArtist `json:"ar"`
}

// doRequest performs a GET against the API server and decodes the JSON
// response into result when non-nil.
func (n *NeteaseClient) doRequest(ctx context.Context, path string, query url.Values, result any) error {
	apiURL := n.baseURL + path
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if n.cookie != "" {
		req.Header.Set("Cookie", n.cookie)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: netease %s: status %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Login authenticates with a cellphone number or email address. Numeric
// usernames go through the cellphone endpoint, everything else through the
// email one. The returned cookie is stored for subsequent requests.
func (n *NeteaseClient) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: netease username and password required", shared.ErrMissingCredentials)
	}

	path := "/login"
	query := url.Values{"email": {username}, "password": {password}}
	if isDigits(username) {
		path = "/login/cellphone"
		query = url.Values{"phone": {username}, "password": {password}}
	}

	var loginResp struct {
		Code   int    `json:"code"`
		Cookie string `json:"cookie"`
	}
	if err := n.doRequest(ctx, path, query, &loginResp); err != nil {
		return err
	}
	if loginResp.Code != 200 {
		return fmt.Errorf("%w: netease login code %d", shared.ErrAuthFailed, loginResp.Code)
	}

	n.cookie = loginResp.Cookie
	return nil
}

// LoginStatus returns the logged-in account's nickname, or an error when the
// session cookie is missing or expired.
func (n *NeteaseClient) LoginStatus(ctx context.Context) (string, error) {
	if n.cookie == "" {
		return "", shared.ErrNotAuthenticated
	}

	var statusResp struct {
		Data struct {
			Code    int `json:"code"`
			Profile struct {
				Nickname string `json:"nickname"`
			} `json:"profile"`
		} `json:"data"`
	}
	if err := n.doRequest(ctx, "/login/status", nil, &statusResp); err != nil {
		return "", err
	}
	if statusResp.Data.Code != 200 {
		return "", shared.ErrNotAuthenticated
	}
	return statusResp.Data.Profile.Nickname, nil
}

// FetchPlaylist retrieves all tracks of a playlist.
func (n *NeteaseClient) FetchPlaylist(ctx context.Context, playlistID string) ([]models.RawTrack, error) {
	var trackResp struct {
		Code  int           `json:"code"`
		Songs []neteaseSong `json:"songs"`
	}
	query := url.Values{"id": {playlistID}}
	if err := n.doRequest(ctx, "/playlist/track/all", query, &trackResp); err != nil {
		return nil, err
	}
	if trackResp.Code != 200 {
		return nil, fmt.Errorf("%w: netease playlist %s: code %d", shared.ErrAPIRequest, playlistID, trackResp.Code)
	}

	return songsToRawTracks(trackResp.Songs), nil
}

// DailySongs returns the account's daily recommended songs. Requires login.
func (n *NeteaseClient) DailySongs(ctx context.Context) ([]models.RawTrack, error) {
	if n.cookie == "" {
		return nil, shared.ErrNotAuthenticated
	}

	var dailyResp struct {
		Data struct {
			DailySongs []neteaseSong `json:"dailySongs"`
		} `json:"data"`
	}
	if err := n.doRequest(ctx, "/recommend/songs", nil, &dailyResp); err != nil {
		return nil, err
	}
	return songsToRawTracks(dailyResp.Data.DailySongs), nil
}

// DailyPlaylists returns up to limit recommended playlists as (id, name)
// pairs. Requires login.
func (n *NeteaseClient) DailyPlaylists(ctx context.Context, limit int) (map[string]string, error) {
	if n.cookie == "" {
		return nil, shared.ErrNotAuthenticated
	}

	var recResp struct {
		Recommend []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"recommend"`
	}
	if err := n.doRequest(ctx, "/recommend/resource", nil, &recResp); err != nil {
		return nil, err
	}

	playlists := make(map[string]string)
	for i, rec := range recResp.Recommend {
		if limit > 0 && i >= limit {
			break
		}
		playlists[fmt.Sprintf("%d", rec.ID)] = rec.Name
	}
	return playlists, nil
}

func songsToRawTracks(songs []neteaseSong) []models.RawTrack {
	tracks := make([]models.RawTrack, 0, len(songs))
	for _, song := range songs {
		track := models.RawTrack{Name: song.Name}
		for _, artist := range song.Artists {
			if artist.Name != "" {
				track.Artists = append(track.Artists, artist.Name)
			}
		}
		tracks = append(tracks, track)
	}
	return tracks
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
