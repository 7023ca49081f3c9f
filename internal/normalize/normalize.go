// Package normalize produces canonical comparison keys for track titles and
// artist names.
//
// Source playlists decorate titles with annotations like "(Live)" or "（伴奏）"
// that defeat catalog search, and some sources interleave romanized and
// Chinese artist names in one field ("Eason Chan 陈奕迅"). Keys produced here
// are used for playlist-membership equality and as search queries; they are
// never shown to users.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/shared"
)

const (
	openers = "(（[【<《"
	closers = ")）]】>》"
)

// Title strips every bracketed annotation from a raw track title, together
// with the whitespace around the removed span. Mixed-width bracket variants
// are all recognized and a span closes at the first closing bracket of any
// kind. The result may be empty; that is a valid key, not an error.
func Title(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty track title", shared.ErrInvalidInput)
	}
	return strings.TrimSpace(stripBrackets(raw)), nil
}

// Artist applies the same bracket stripping as Title and then, when the
// result contains any CJK ideograph, reduces it to the first maximal
// contiguous run of CJK characters. Catalogs for the sources' primary market
// are indexed by the Chinese name, so only that run is usable as a key.
func Artist(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty artist name", shared.ErrInvalidInput)
	}
	s := strings.TrimSpace(stripBrackets(raw))
	if run := firstCJKRun(s); run != "" {
		return run, nil
	}
	return s, nil
}

// Track converts a raw track into its canonical form. The title must
// normalize; artists that fail to normalize or normalize to nothing are
// skipped, and duplicates are dropped while preserving encounter order.
func Track(raw models.RawTrack) (models.CanonicalTrack, error) {
	key, err := Title(raw.Name)
	if err != nil {
		return models.CanonicalTrack{}, err
	}

	seen := make(map[string]struct{}, len(raw.Artists))
	var keys []string
	for _, artist := range raw.Artists {
		ak, err := Artist(artist)
		if err != nil || ak == "" {
			continue
		}
		if _, ok := seen[ak]; ok {
			continue
		}
		seen[ak] = struct{}{}
		keys = append(keys, ak)
	}

	return models.CanonicalTrack{Key: key, ArtistKeys: keys}, nil
}

// stripBrackets removes every span running from an opening bracket to the
// first closing bracket after it, plus surrounding whitespace. An opener with
// no closer after it is kept literally, so a single pass is idempotent.
func stripBrackets(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))

	i := 0
	for i < len(runes) {
		r := runes[i]
		if isOpener(r) {
			j := i + 1
			for j < len(runes) && !isCloser(runes[j]) {
				j++
			}
			if j < len(runes) {
				for len(out) > 0 && unicode.IsSpace(out[len(out)-1]) {
					out = out[:len(out)-1]
				}
				i = j + 1
				for i < len(runes) && unicode.IsSpace(runes[i]) {
					i++
				}
				continue
			}
		}
		out = append(out, r)
		i++
	}

	return string(out)
}

func isOpener(r rune) bool { return strings.ContainsRune(openers, r) }
func isCloser(r rune) bool { return strings.ContainsRune(closers, r) }

// isCJK reports whether r falls in the CJK Unified Ideographs range.
func isCJK(r rune) bool { return r >= 0x4E00 && r <= 0x9FA5 }

// firstCJKRun returns the first maximal contiguous run of CJK characters in
// s, or "" when s contains none.
func firstCJKRun(s string) string {
	var run []rune
	for _, r := range s {
		if isCJK(r) {
			run = append(run, r)
			continue
		}
		if len(run) > 0 {
			break
		}
	}
	return string(run)
}
