package normalize

import (
	"errors"
	"testing"

	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/shared"
)

func TestTitle(t *testing.T) {
	t.Run("Bracket Stripping", func(t *testing.T) {
		cases := []struct {
			name string
			in   string
			want string
		}{
			{"ascii brackets", "有何不可 (Live)", "有何不可"},
			{"fullwidth brackets", "稻香（伴奏）", "稻香"},
			{"plain title unchanged", "Plain Title", "Plain Title"},
			{"square brackets", "晴天 [2003 remaster]", "晴天"},
			{"cjk title marks", "告白气球《周杰伦的床边故事》", "告白气球"},
			{"angle brackets", "夜曲 <钢琴版>", "夜曲"},
			{"multiple spans", "七里香 (Live) [Remix]", "七里香"},
			{"interior span joins", "before (x) after", "beforeafter"},
			{"mixed width pair", "曲名（demo)", "曲名"},
			{"unclosed opener kept", "歌名 (unfinished", "歌名 (unfinished"},
			{"empty after stripping", "(instrumental)", ""},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				got, err := Title(tc.in)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if got != tc.want {
					t.Errorf("Title(%q) = %q, want %q", tc.in, got, tc.want)
				}
			})
		}
	})

	t.Run("Idempotence", func(t *testing.T) {
		inputs := []string{"有何不可 (Live)", "稻香（伴奏）", "Plain Title", "a (b) c (d) e", "((x))", "歌名 (unfinished"}
		for _, in := range inputs {
			once, err := Title(in)
			if err != nil {
				t.Fatalf("first pass failed for %q: %v", in, err)
			}
			if once == "" {
				continue // empty output cannot be re-normalized
			}
			twice, err := Title(once)
			if err != nil {
				t.Fatalf("second pass failed for %q: %v", once, err)
			}
			if once != twice {
				t.Errorf("Title not idempotent for %q: %q != %q", in, once, twice)
			}
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		_, err := Title("")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestArtist(t *testing.T) {
	t.Run("CJK Run Extraction", func(t *testing.T) {
		cases := []struct {
			name string
			in   string
			want string
		}{
			{"romanized plus chinese", "Eason Chan 陈奕迅", "陈奕迅"},
			{"no cjk unchanged", "Beyond", "Beyond"},
			{"chinese only", "许嵩", "许嵩"},
			{"first run wins", "陈奕迅 aka 医生 Chan", "陈奕迅"},
			{"bracket strip before extraction", "周杰伦 (Jay Chou)", "周杰伦"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				got, err := Artist(tc.in)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if got != tc.want {
					t.Errorf("Artist(%q) = %q, want %q", tc.in, got, tc.want)
				}
			})
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		_, err := Artist("")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestTrack(t *testing.T) {
	t.Run("Normalizes Title And Artists", func(t *testing.T) {
		raw := models.RawTrack{
			Name:    "断桥残雪 (Live)",
			Artists: []string{"Vae 许嵩", "许嵩", ""},
		}

		track, err := Track(raw)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track.Key != "断桥残雪" {
			t.Errorf("expected key 断桥残雪, got %q", track.Key)
		}
		if len(track.ArtistKeys) != 1 || track.ArtistKeys[0] != "许嵩" {
			t.Errorf("expected deduplicated artist keys [许嵩], got %v", track.ArtistKeys)
		}
	})

	t.Run("Empty Artist List", func(t *testing.T) {
		track, err := Track(models.RawTrack{Name: "晴天"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(track.ArtistKeys) != 0 {
			t.Errorf("expected no artist keys, got %v", track.ArtistKeys)
		}
	})

	t.Run("Missing Title", func(t *testing.T) {
		_, err := Track(models.RawTrack{Artists: []string{"许嵩"}})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("HasArtistKey", func(t *testing.T) {
		track := models.CanonicalTrack{Key: "k", ArtistKeys: []string{"陈奕迅"}}
		if !track.HasArtistKey("陈奕迅") {
			t.Error("expected key to be present")
		}
		if track.HasArtistKey("周杰伦") {
			t.Error("expected key to be absent")
		}
	})
}
