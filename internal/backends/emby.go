// Emby [Backend] implementation
//
// Talks to the Emby HTTP API with api_key authentication. Emby returns item
// IDs from search and scopes playlists per user, so multi-user fan-out is
// supported by passing different principals to the playlist operations.
package backends

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/shared"
)

// EmbyClient implements Backend for an Emby server.
type EmbyClient struct {
	host       string
	apiKey     string
	user       string
	users      []string
	httpClient *http.Client
	logger     *log.Logger
}

// NewEmbyClient creates a new Emby backend client. user is the primary
// principal; users lists additional accounts for fan-out.
func NewEmbyClient(host, apiKey, user string, users []string, client *http.Client, logger *log.Logger) *EmbyClient {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &EmbyClient{
		host:       strings.TrimRight(host, "/"),
		apiKey:     apiKey,
		user:       user,
		users:      users,
		httpClient: client,
		logger:     shared.WithLogger(logger, "backend", "emby"),
	}
}

// Name returns the backend name.
func (e *EmbyClient) Name() string { return "emby" }

// Principals returns the primary user followed by the fan-out users.
func (e *EmbyClient) Principals() []models.Principal {
	principals := []models.Principal{models.Principal(e.user)}
	for _, u := range e.users {
		if u != e.user {
			principals = append(principals, models.Principal(u))
		}
	}
	return principals
}

// embyItem is the subset of an Emby item the client reads.
type embyItem struct {
	ID             string   `json:"Id"`
	Name           string   `json:"Name"`
	Type           string   `json:"Type"`
	CollectionType string   `json:"CollectionType"`
	Artists        []string `json:"Artists"`
	Bitrate        int      `json:"Bitrate"`
}

type embyItemsResponse struct {
	Items            []embyItem `json:"Items"`
	TotalRecordCount int        `json:"TotalRecordCount"`
}

// doRequest performs an authenticated request and decodes the JSON response
// into result when non-nil.
func (e *EmbyClient) doRequest(ctx context.Context, method, path string, query url.Values, result any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", e.apiKey)

	apiURL := fmt.Sprintf("%s%s?%s", e.host, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: emby %s: status %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// views lists the principal's media views (libraries and the playlists folder).
func (e *EmbyClient) views(ctx context.Context, principal models.Principal) ([]embyItem, error) {
	var resp embyItemsResponse
	path := fmt.Sprintf("/emby/Users/%s/Views", string(principal))
	if err := e.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// findPlaylist resolves a playlist name to its ID for the principal.
// Returns "" when the playlist does not exist.
func (e *EmbyClient) findPlaylist(ctx context.Context, name string, principal models.Principal) (string, error) {
	views, err := e.views(ctx, principal)
	if err != nil {
		return "", err
	}

	for _, view := range views {
		if view.CollectionType != "playlists" {
			continue
		}

		var resp embyItemsResponse
		path := fmt.Sprintf("/emby/Users/%s/Items", string(principal))
		query := url.Values{"ParentId": {view.ID}}
		if err := e.doRequest(ctx, http.MethodGet, path, query, &resp); err != nil {
			return "", err
		}

		for _, item := range resp.Items {
			if item.Name == name {
				return item.ID, nil
			}
		}
	}

	return "", nil
}

// GetState reads the named playlist as seen by the principal. Playlist
// contents may change between runs, so this is always a fresh read.
func (e *EmbyClient) GetState(ctx context.Context, name string, principal models.Principal) (models.PlaylistState, error) {
	id, err := e.findPlaylist(ctx, name, principal)
	if err != nil {
		return models.PlaylistState{}, err
	}
	if id == "" {
		e.logger.Debug("playlist not found, will be created", "playlist", name, "user", principal)
		return models.PlaylistState{}, nil
	}

	var resp embyItemsResponse
	path := fmt.Sprintf("/emby/Users/%s/Items", string(principal))
	query := url.Values{"ParentId": {id}}
	if err := e.doRequest(ctx, http.MethodGet, path, query, &resp); err != nil {
		return models.PlaylistState{}, err
	}

	state := models.PlaylistState{ID: id}
	for _, item := range resp.Items {
		if item.Type != "Audio" {
			continue
		}
		state.ExistingTrackIDs = append(state.ExistingTrackIDs, item.ID)
		state.ExistingTrackNames = append(state.ExistingTrackNames, item.Name)
	}
	return state, nil
}

// Search queries the music catalog under the primary user.
func (e *EmbyClient) Search(ctx context.Context, query string) ([]models.CatalogCandidate, error) {
	var resp embyItemsResponse
	path := fmt.Sprintf("/emby/Users/%s/Items", e.user)
	params := url.Values{
		"Recursive":        {"true"},
		"SearchTerm":       {query},
		"IncludeItemTypes": {"Audio"},
	}
	if err := e.doRequest(ctx, http.MethodGet, path, params, &resp); err != nil {
		return nil, err
	}

	var candidates []models.CatalogCandidate
	for _, item := range resp.Items {
		if item.Type != "Audio" {
			continue
		}
		candidates = append(candidates, models.CatalogCandidate{
			ID:           item.ID,
			DisplayName:  item.Name,
			ArtistNames:  item.Artists,
			QualityScore: item.Bitrate,
		})
	}
	return candidates, nil
}

// Create creates the named playlist for the principal with the given tracks.
func (e *EmbyClient) Create(ctx context.Context, name string, candidates []models.CatalogCandidate, principal models.Principal) (bool, error) {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	query := url.Values{
		"userId": {string(principal)},
		"Name":   {name},
		"Ids":    {strings.Join(ids, ",")},
	}
	if err := e.doRequest(ctx, http.MethodPost, "/emby/Playlists", query, nil); err != nil {
		return false, fmt.Errorf("%w: create playlist %q: %v", shared.ErrMutationFailed, name, err)
	}

	e.logger.Info("created playlist", "playlist", name, "user", principal, "tracks", len(ids))
	return true, nil
}

// Append adds tracks to an existing playlist for the principal.
func (e *EmbyClient) Append(ctx context.Context, playlistID string, trackIDs []string, principal models.Principal) (bool, error) {
	query := url.Values{
		"userId": {string(principal)},
		"Ids":    {strings.Join(trackIDs, ",")},
	}
	path := fmt.Sprintf("/emby/Playlists/%s/Items", playlistID)
	if err := e.doRequest(ctx, http.MethodPost, path, query, nil); err != nil {
		return false, fmt.Errorf("%w: append to playlist %s: %v", shared.ErrMutationFailed, playlistID, err)
	}

	e.logger.Info("appended tracks", "playlist_id", playlistID, "user", principal, "tracks", len(trackIDs))
	return true, nil
}
