package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/docker/distribution/manifest/manifestlist"
	"github.com/pkg/errors"
)

// Opts configures the Docker Hub client. Zero values fall back to the defaults.
type Opts struct {
	AuthURL     string
	HTTPClient  *http.Client
	RegistryURL string
	Timeout     time.Duration
}

type hub struct {
	authURL     string
	httpClient  *http.Client
	registryURL string
}

// NewClient returns a Client for Docker Hub. Requests are never retried and
// tokens are not cached.
func NewClient(o Opts) Client {
	h := &hub{
		authURL:     o.AuthURL,
		httpClient:  o.HTTPClient,
		registryURL: strings.TrimSuffix(o.RegistryURL, "/"),
	}

	if h.authURL == "" {
		h.authURL = DefaultAuthURL
	}

	if h.registryURL == "" {
		h.registryURL = DefaultRegistryURL
	}

	if h.httpClient == nil {
		timeout := o.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}

		h.httpClient = &http.Client{
			Timeout:   timeout,
			Transport: &InstrumentedTransport{},
		}
	}

	return h
}

func (h *hub) FetchToken(ctx context.Context, repository string) (string, error) {
	u, err := url.Parse(h.authURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing auth url")
	}

	q := u.Query()
	q.Set("service", service)
	q.Set("scope", fmt.Sprintf("repository:%s:pull", repository))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", errors.Wrap(err, "creating token request")
	}

	log.Debugf("requesting token for repository %s", repository)
	resp := &tokenResponse{}
	err = h.do(req, resp)
	if err != nil {
		return "", err
	}

	if resp.Token == "" {
		return "", ErrNoToken
	}

	return resp.Token, nil
}

func (h *hub) FetchManifest(ctx context.Context, repository string, tag string, token string) (*manifestlist.ManifestList, error) {
	u := fmt.Sprintf("%s/v2/%s/manifests/%s", h.registryURL, repository, tag)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating manifest request")
	}

	req.Header.Set("Accept", MediaTypeManifestList)
	req.Header.Set("Authorization", "Bearer "+token)

	log.Debugf("requesting manifest list of %s:%s", repository, tag)
	ml := &manifestlist.ManifestList{}
	err = h.do(req, ml)
	if err != nil {
		return nil, err
	}

	for i, m := range ml.Manifests {
		if m.Platform.Architecture == "" {
			return nil, errors.Errorf("manifest %d of %s:%s has no platform architecture", i, repository, tag)
		}
	}

	return ml, nil
}

func (h *hub) do(req *http.Request, v interface{}) error {
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}

	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, URL: req.URL.Redacted()}
		log.Warnf("%s", statusErr)
		return errors.WithStack(statusErr)
	}

	err = json.NewDecoder(resp.Body).Decode(v)
	if err != nil {
		return errors.Wrapf(err, "decoding response of %s", req.URL.Redacted())
	}

	return nil
}
