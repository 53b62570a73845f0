package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixedID(id int) Option {
	return WithRandom(func(int) int { return id })
}

func TestProfilePic_ServiceAvailable(t *testing.T) {
	var requested string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"42","author":"Someone"}`))
	}))
	defer srv.Close()

	s := NewSource(srv.URL, fixedID(42))

	assert.Equal(t, srv.URL+"/id/42/150/150", s.ProfilePic(context.Background()))
	assert.Equal(t, "/id/42/info", requested)
}

func TestProfilePic_FallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>oops</html>"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			s := NewSource(srv.URL, fixedID(7))
			assert.Equal(t, srv.URL+"/150/150?random=7", s.ProfilePic(context.Background()))
		})
	}
}

func TestProfilePic_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := NewSource(url, fixedID(999))
	pic := s.ProfilePic(context.Background())

	assert.NotEmpty(t, pic)
	assert.Equal(t, s.FallbackURL(999), pic)
}

func TestNewSource_DefaultBaseURL(t *testing.T) {
	s := NewSource("", fixedID(1))
	assert.Equal(t, "https://picsum.photos/150/150?random=1", s.FallbackURL(1))
}
