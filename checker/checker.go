package checker

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/distribution/manifest/manifestlist"
	applog "github.com/imagespy/archcheck/log"
	"github.com/imagespy/archcheck/registry"
	log "github.com/sirupsen/logrus"
)

// Status classifies the outcome of a check.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Result is the outcome of checking one image.
type Result struct {
	Status        Status   `json:"status" jsonschema:"one of success, warning or error"`
	Message       string   `json:"message" jsonschema:"human readable summary"`
	Architectures []string `json:"architectures,omitempty" jsonschema:"architectures of the image if all required ones are present"`
	Available     []string `json:"available,omitempty" jsonschema:"architectures of the image if some required ones are missing"`
	Missing       []string `json:"missing,omitempty" jsonschema:"required architectures the image does not provide"`
}

var targetArchitectures = []string{"amd64", "arm64"}

// TargetArchitectures returns the architectures every image has to support,
// in declaration order.
func TargetArchitectures() []string {
	return append([]string(nil), targetArchitectures...)
}

// CheckArchitectures returns the architecture of every platform in the
// manifest list, in the order of the list.
func CheckArchitectures(ml *manifestlist.ManifestList) []string {
	archs := []string{}
	if ml == nil {
		return archs
	}

	for _, m := range ml.Manifests {
		archs = append(archs, m.Platform.Architecture)
	}

	return archs
}

// Checker verifies that images on Docker Hub provide all target architectures.
type Checker struct {
	client  registry.Client
	targets []string
}

// NewChecker returns a Checker that queries Docker Hub through c.
func NewChecker(c registry.Client) *Checker {
	return &Checker{
		client:  c,
		targets: TargetArchitectures(),
	}
}

// Check resolves the manifest list of image and compares its architectures
// with the target architectures. Failures are reported through the status of
// the Result.
func (c *Checker) Check(ctx context.Context, image string) Result {
	r := c.check(ctx, image)
	checksTotal.WithLabelValues(string(r.Status)).Inc()
	return r
}

func (c *Checker) check(ctx context.Context, image string) Result {
	repository, tag := registry.ParseImage(image)
	token, err := c.client.FetchToken(ctx, repository)
	if err != nil {
		log.WithFields(applog.ErrorFields(log.StandardLogger(), err)).Infof("fetching token for %s failed", image)
		return errorResult(fmt.Sprintf("Failed to get auth token: %s", err))
	}

	ml, err := c.client.FetchManifest(ctx, repository, tag, token)
	if err != nil {
		log.WithFields(applog.ErrorFields(log.StandardLogger(), err)).Infof("fetching manifest of %s failed", image)
		return errorResult(fmt.Sprintf("Failed to get manifest: %s", err))
	}

	archs := CheckArchitectures(ml)
	if len(archs) == 0 {
		return errorResult(fmt.Sprintf("No architectures found for %s", image))
	}

	missing := c.missing(archs)
	if len(missing) == 0 {
		return Result{
			Status:        StatusSuccess,
			Message:       fmt.Sprintf("Image %s supports all required architectures", image),
			Architectures: archs,
		}
	}

	log.Debugf("%s is missing %v", image, missing)
	return Result{
		Status:    StatusWarning,
		Message:   fmt.Sprintf("Image %s is missing architectures: %s", image, strings.Join(missing, ", ")),
		Available: archs,
		Missing:   missing,
	}
}

func (c *Checker) missing(archs []string) []string {
	present := map[string]struct{}{}
	for _, a := range archs {
		present[a] = struct{}{}
	}

	var missing []string
	for _, t := range c.targets {
		if _, ok := present[t]; !ok {
			missing = append(missing, t)
		}
	}

	return missing
}

func errorResult(msg string) Result {
	return Result{
		Status:  StatusError,
		Message: msg,
	}
}
