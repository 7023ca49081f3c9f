// Plex [Backend] implementation
//
// Talks to the Plex HTTP API with X-Plex-Token authentication. Unlike Emby,
// Plex search returns full track objects and playlist state is token-scoped,
// so the principal arguments are accepted but ignored.
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

// PlexClient implements Backend for a Plex server.
type PlexClient struct {
	host       string
	token      string
	sectionID  int
	machineID  string
	httpClient *http.Client
	logger     *log.Logger
}

// NewPlexClient creates a new Plex backend client. sectionID restricts
// catalog search to one music library; zero searches the whole server.
func NewPlexClient(host, token string, sectionID int, client *http.Client, logger *log.Logger) *PlexClient {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlexClient{
		host:       strings.TrimRight(host, "/"),
		token:      token,
		sectionID:  sectionID,
		httpClient: client,
		logger:     shared.WithLogger(logger, "backend", "plex"),
	}
}

// Name returns the backend name.
func (p *PlexClient) Name() string { return "plex" }

// Principals returns a single empty principal: Plex playlist state belongs to
// the token's account, so there is nothing to fan out to.
func (p *PlexClient) Principals() []models.Principal {
	return []models.Principal{""}
}

// plexMedia carries the per-part stream info the client reads.
type plexMedia struct {
	Bitrate int `json:"bitrate"`
}

// plexMetadata is the subset of a Plex metadata item the client reads.
type plexMetadata struct {
	RatingKey        string      `json:"ratingKey"`
	Title            string      `json:"title"`
	Type             string      `json:"type"`
	GrandparentTitle string      `json:"grandparentTitle"`
	OriginalTitle    string      `json:"originalTitle"`
	PlaylistType     string      `json:"playlistType"`
	Media            []plexMedia `json:"Media"`
}

type plexContainer struct {
	MediaContainer struct {
		MachineIdentifier string         `json:"machineIdentifier"`
		Metadata          []plexMetadata `json:"Metadata"`
	} `json:"MediaContainer"`
}

// doRequest performs an authenticated request and decodes the JSON response
// into result when non-nil.
func (p *PlexClient) doRequest(ctx context.Context, method, path string, query url.Values, result any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("X-Plex-Token", p.token)

	apiURL := fmt.Sprintf("%s%s?%s", p.host, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: plex %s: status %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// machineIdentifier fetches and caches the server's machine identifier,
// needed to build playlist item URIs.
func (p *PlexClient) machineIdentifier(ctx context.Context) (string, error) {
	if p.machineID != "" {
		return p.machineID, nil
	}

	var container plexContainer
	if err := p.doRequest(ctx, http.MethodGet, "/", nil, &container); err != nil {
		return "", err
	}
	if container.MediaContainer.MachineIdentifier == "" {
		return "", fmt.Errorf("%w: plex did not report a machine identifier", shared.ErrAPIRequest)
	}

	p.machineID = container.MediaContainer.MachineIdentifier
	return p.machineID, nil
}

// metadataURI builds the server:// URI addressing the given tracks.
func (p *PlexClient) metadataURI(ctx context.Context, trackIDs []string) (string, error) {
	machineID, err := p.machineIdentifier(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("server://%s/com.plexapp.plugins.library/library/metadata/%s",
		machineID, strings.Join(trackIDs, ",")), nil
}

// Search queries the music catalog for tracks (type 10).
func (p *PlexClient) Search(ctx context.Context, query string) ([]models.CatalogCandidate, error) {
	path := "/search"
	if p.sectionID > 0 {
		path = fmt.Sprintf("/library/sections/%d/search", p.sectionID)
	}

	var container plexContainer
	params := url.Values{"type": {"10"}, "query": {query}}
	if err := p.doRequest(ctx, http.MethodGet, path, params, &container); err != nil {
		return nil, err
	}

	var candidates []models.CatalogCandidate
	for _, item := range container.MediaContainer.Metadata {
		if item.Type != "" && item.Type != "track" {
			continue
		}

		// grandparentTitle is the album artist; originalTitle carries the
		// track artist when it differs.
		var artists []string
		if item.GrandparentTitle != "" {
			artists = append(artists, item.GrandparentTitle)
		}
		if item.OriginalTitle != "" && item.OriginalTitle != item.GrandparentTitle {
			artists = append(artists, item.OriginalTitle)
		}

		bitrate := 0
		if len(item.Media) > 0 {
			bitrate = item.Media[0].Bitrate
		}

		candidates = append(candidates, models.CatalogCandidate{
			ID:           item.RatingKey,
			DisplayName:  item.Title,
			ArtistNames:  artists,
			QualityScore: bitrate,
		})
	}
	return candidates, nil
}

// GetState reads the named audio playlist. The principal is ignored.
func (p *PlexClient) GetState(ctx context.Context, name string, _ models.Principal) (models.PlaylistState, error) {
	var container plexContainer
	params := url.Values{"playlistType": {"audio"}}
	if err := p.doRequest(ctx, http.MethodGet, "/playlists", params, &container); err != nil {
		return models.PlaylistState{}, err
	}

	var playlistKey string
	for _, item := range container.MediaContainer.Metadata {
		if item.Title == name {
			playlistKey = item.RatingKey
			break
		}
	}
	if playlistKey == "" {
		p.logger.Debug("playlist not found, will be created", "playlist", name)
		return models.PlaylistState{}, nil
	}

	var items plexContainer
	path := fmt.Sprintf("/playlists/%s/items", playlistKey)
	if err := p.doRequest(ctx, http.MethodGet, path, nil, &items); err != nil {
		return models.PlaylistState{}, err
	}

	state := models.PlaylistState{ID: playlistKey}
	for _, item := range items.MediaContainer.Metadata {
		state.ExistingTrackIDs = append(state.ExistingTrackIDs, item.RatingKey)
		state.ExistingTrackNames = append(state.ExistingTrackNames, item.Title)
	}
	return state, nil
}

// Create creates the named audio playlist with the given tracks.
func (p *PlexClient) Create(ctx context.Context, name string, candidates []models.CatalogCandidate, _ models.Principal) (bool, error) {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	uri, err := p.metadataURI(ctx, ids)
	if err != nil {
		return false, fmt.Errorf("%w: create playlist %q: %v", shared.ErrMutationFailed, name, err)
	}

	params := url.Values{
		"type":  {"audio"},
		"smart": {"0"},
		"title": {name},
		"uri":   {uri},
	}
	if err := p.doRequest(ctx, http.MethodPost, "/playlists", params, nil); err != nil {
		return false, fmt.Errorf("%w: create playlist %q: %v", shared.ErrMutationFailed, name, err)
	}

	p.logger.Info("created playlist", "playlist", name, "tracks", len(ids))
	return true, nil
}

// Append adds tracks to an existing playlist.
func (p *PlexClient) Append(ctx context.Context, playlistID string, trackIDs []string, _ models.Principal) (bool, error) {
	uri, err := p.metadataURI(ctx, trackIDs)
	if err != nil {
		return false, fmt.Errorf("%w: append to playlist %s: %v", shared.ErrMutationFailed, playlistID, err)
	}

	path := fmt.Sprintf("/playlists/%s/items", playlistID)
	params := url.Values{"uri": {uri}}
	if err := p.doRequest(ctx, http.MethodPut, path, params, nil); err != nil {
		return false, fmt.Errorf("%w: append to playlist %s: %v", shared.ErrMutationFailed, playlistID, err)
	}

	p.logger.Info("appended tracks", "playlist_id", playlistID, "tracks", len(trackIDs))
	return true, nil
}
