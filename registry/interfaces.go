package registry

import (
	"context"

	"github.com/docker/distribution/manifest/manifestlist"
)

//go:generate mockgen -destination=mock/mock.go -package=mock github.com/imagespy/archcheck/registry Client

// Client talks to the token service and the registry of Docker Hub.
type Client interface {
	FetchToken(ctx context.Context, repository string) (string, error)
	FetchManifest(ctx context.Context, repository string, tag string, token string) (*manifestlist.ManifestList, error)
}
