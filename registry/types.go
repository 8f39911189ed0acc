package registry

import (
	"fmt"
	"time"

	"github.com/docker/distribution/manifest/manifestlist"
	"github.com/pkg/errors"
)

const (
	// DefaultAuthURL is the token service of Docker Hub.
	DefaultAuthURL = "https://auth.docker.io/token"
	// DefaultRegistryURL is the registry API of Docker Hub.
	DefaultRegistryURL = "https://registry-1.docker.io"
	// DefaultTimeout bounds every request sent to Docker Hub.
	DefaultTimeout = 10 * time.Second

	service = "registry.docker.io"
)

// MediaTypeManifestList is the only manifest type requested from the registry.
const MediaTypeManifestList = manifestlist.MediaTypeManifestList

var (
	// ErrNoToken is returned if the token service answers without a token.
	ErrNoToken = errors.New("response does not contain a token")
)

// StatusError is returned if an endpoint responds with a status other than 2xx.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

type tokenResponse struct {
	Token string `json:"token"`
}
