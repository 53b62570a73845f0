// Package profile picks the decorative profile picture assigned to a new user.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yukikurage/taskboard/internal/constants"
)

// Source picks a random image from a picsum-compatible service. The image
// is cosmetic, so ProfilePic never fails: when the service cannot confirm the
// picked image it falls back to the service's random-image URL.
type Source struct {
	client  *http.Client
	baseURL string
	intn    func(n int) int
}

type Option func(*Source)

// WithHTTPClient replaces the default client (5s timeout).
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) {
		s.client = client
	}
}

// WithRandom replaces the id picker, mostly for tests.
func WithRandom(intn func(n int) int) Option {
	return func(s *Source) {
		s.intn = intn
	}
}

func NewSource(baseURL string, opts ...Option) *Source {
	if baseURL == "" {
		baseURL = constants.DefaultProfilePicBase
	}
	s := &Source{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		intn:    rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type imageInfo struct {
	ID     string `json:"id"`
	Author string `json:"author"`
}

// ProfilePic returns a non-empty image URL.
func (s *Source) ProfilePic(ctx context.Context) string {
	id := s.intn(constants.ProfilePicIDRange)

	if err := s.lookup(ctx, id); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Int("image_id", id).Msg("profile picture lookup failed, using fallback")
		return s.FallbackURL(id)
	}

	return fmt.Sprintf("%s/id/%d/%d/%d", s.baseURL, id, constants.ProfilePicSize, constants.ProfilePicSize)
}

// FallbackURL is the deterministic URL used when the image service is unreachable.
func (s *Source) FallbackURL(id int) string {
	return fmt.Sprintf("%s/%d/%d?random=%d", s.baseURL, constants.ProfilePicSize, constants.ProfilePicSize, id)
}

func (s *Source) lookup(ctx context.Context, id int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/id/%d/info", s.baseURL, id), nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var info imageInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("failed to decode image info: %w", err)
	}
	return nil
}
