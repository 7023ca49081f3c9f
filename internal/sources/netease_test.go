package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/doumiao/listsync/internal/shared"
)

func TestNeteaseClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Login With Cellphone", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/login/cellphone" {
				t.Errorf("Expected cellphone login for numeric username, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("phone") != "13800000000" {
				t.Errorf("Missing phone parameter: %v", r.URL.Query())
			}
			w.Write([]byte(`{"code":200,"cookie":"MUSIC_U=abc"}`))
		}))
		defer server.Close()

		client := NewNeteaseClient(server.URL, server.Client())
		if err := client.Login(ctx, "13800000000", "secret"); err != nil {
			t.Fatalf("Login failed: %v", err)
		}
	})

	t.Run("Login With Email", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/login" {
				t.Errorf("Expected email login, got %s", r.URL.Path)
			}
			w.Write([]byte(`{"code":200,"cookie":"MUSIC_U=abc"}`))
		}))
		defer server.Close()

		client := NewNeteaseClient(server.URL, server.Client())
		if err := client.Login(ctx, "user@example.com", "secret"); err != nil {
			t.Fatalf("Login failed: %v", err)
		}
	})

	t.Run("Login Failure Code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":502}`))
		}))
		defer server.Close()

		client := NewNeteaseClient(server.URL, server.Client())
		if err := client.Login(ctx, "user@example.com", "wrong"); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("Expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		client := NewNeteaseClient("", nil)
		if err := client.Login(ctx, "", ""); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("Expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Cookie Replayed After Login", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/login/cellphone":
				w.Write([]byte(`{"code":200,"cookie":"MUSIC_U=abc"}`))
			case "/login/status":
				if r.Header.Get("Cookie") != "MUSIC_U=abc" {
					t.Errorf("Expected replayed cookie, got %q", r.Header.Get("Cookie"))
				}
				w.Write([]byte(`{"data":{"code":200,"profile":{"nickname":"豆苗"}}}`))
			default:
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
		}))
		defer server.Close()

		client := NewNeteaseClient(server.URL, server.Client())
		if err := client.Login(ctx, "13800000000", "secret"); err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		nickname, err := client.LoginStatus(ctx)
		if err != nil {
			t.Fatalf("LoginStatus failed: %v", err)
		}
		if nickname != "豆苗" {
			t.Errorf("Expected nickname 豆苗, got %q", nickname)
		}
	})

	t.Run("LoginStatus Without Cookie", func(t *testing.T) {
		client := NewNeteaseClient("", nil)
		if _, err := client.LoginStatus(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("Expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("FetchPlaylist", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlist/track/all" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			if r.URL.Query().Get("id") != "123456" {
				t.Errorf("Missing playlist id: %v", r.URL.Query())
			}
			w.Write([]byte(`{"code":200,"songs":[
				{"id":1,"name":"有何不可","ar":[{"name":"许嵩"}]},
				{"id":2,"name":"珊瑚海","ar":[{"name":"周杰伦"},{"name":"梁心颐"}]}
			]}`))
		}))
		defer server.Close()

		client := NewNeteaseClient(server.URL, server.Client())
		tracks, err := client.FetchPlaylist(ctx, "123456")
		if err != nil {
			t.Fatalf("FetchPlaylist failed: %v", err)
		}

		if len(tracks) != 2 {
			t.Fatalf("Expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].Name != "有何不可" || tracks[0].Artists[0] != "许嵩" {
			t.Errorf("Unexpected first track: %+v", tracks[0])
		}
		if len(tracks[1].Artists) != 2 {
			t.Errorf("Expected both duet artists, got %v", tracks[1].Artists)
		}
	})

	t.Run("DailySongs Requires Login", func(t *testing.T) {
		client := NewNeteaseClient("", nil)
		if _, err := client.DailySongs(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("Expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("DailyPlaylists Limits Results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/login/cellphone":
				w.Write([]byte(`{"code":200,"cookie":"MUSIC_U=abc"}`))
			case "/recommend/resource":
				w.Write([]byte(`{"recommend":[
					{"id":1,"name":"每日雷达"},
					{"id":2,"name":"私人雷达"},
					{"id":3,"name":"华语经典"}
				]}`))
			}
		}))
		defer server.Close()

		client := NewNeteaseClient(server.URL, server.Client())
		if err := client.Login(ctx, "13800000000", "secret"); err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		playlists, err := client.DailyPlaylists(ctx, 2)
		if err != nil {
			t.Fatalf("DailyPlaylists failed: %v", err)
		}
		if len(playlists) != 2 {
			t.Errorf("Expected 2 playlists, got %d", len(playlists))
		}
	})
}
