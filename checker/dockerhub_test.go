package checker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/imagespy/archcheck/registry"
	"github.com/stretchr/testify/assert"
)

func TestChecker_Check_DockerHub(t *testing.T) {
	var manifestCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Write([]byte(`{"token":"abc"}`))
		case "/v2/library/nginx/manifests/1.27":
			atomic.AddInt32(&manifestCalls, 1)
			if r.Header.Get("Authorization") != "Bearer abc" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			w.Header().Set("Content-Type", registry.MediaTypeManifestList)
			w.Write([]byte(`{"schemaVersion":2,"manifests":[{"platform":{"architecture":"arm64","os":"linux"}},{"platform":{"architecture":"amd64","os":"linux"}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewChecker(registry.NewClient(registry.Opts{AuthURL: srv.URL + "/token", RegistryURL: srv.URL}))
	r := c.Check(context.Background(), "nginx:1.27")
	assert.Equal(t, Result{
		Status:        StatusSuccess,
		Message:       "Image nginx:1.27 supports all required architectures",
		Architectures: []string{"arm64", "amd64"},
	}, r)
	assert.Equal(t, int32(1), atomic.LoadInt32(&manifestCalls))
}

func TestChecker_Check_AuthUnreachable(t *testing.T) {
	var manifestCalls int32
	regSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&manifestCalls, 1)
	}))
	defer regSrv.Close()

	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	authURL := authSrv.URL
	authSrv.Close()

	c := NewChecker(registry.NewClient(registry.Opts{AuthURL: authURL, RegistryURL: regSrv.URL}))
	r := c.Check(context.Background(), "ubuntu")
	assert.Equal(t, StatusError, r.Status)
	assert.Contains(t, r.Message, "Failed to get auth token: ")
	assert.Equal(t, int32(0), atomic.LoadInt32(&manifestCalls))
}

func TestChecker_Check_PlatformWithoutArchitecture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Write([]byte(`{"token":"abc"}`))
		default:
			w.Write([]byte(`{"manifests":[{"digest":"sha256:aa"},{"platform":{"os":"linux"}}]}`))
		}
	}))
	defer srv.Close()

	c := NewChecker(registry.NewClient(registry.Opts{AuthURL: srv.URL + "/token", RegistryURL: srv.URL}))
	r := c.Check(context.Background(), "ubuntu")
	assert.Equal(t, StatusError, r.Status)
	assert.Contains(t, r.Message, "Failed to get manifest: manifest 0 of library/ubuntu:latest has no platform architecture")
	assert.Nil(t, r.Available)
	assert.Nil(t, r.Missing)
}
