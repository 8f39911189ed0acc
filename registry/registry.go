package registry

import (
	"strings"
)

const (
	defaultNamespace = "library"
	defaultTag       = "latest"
)

// ParseImage splits an image reference of the form name[:tag] into the
// Docker Hub repository and the tag. Official images without a namespace are
// placed in "library/". The repository is lowercased, the tag is kept as is.
func ParseImage(n string) (string, string) {
	repository, tag := n, defaultTag
	if i := strings.Index(n, ":"); i != -1 {
		repository, tag = n[:i], n[i+1:]
	}

	if !strings.Contains(repository, "/") {
		repository = defaultNamespace + "/" + repository
	}

	return strings.ToLower(repository), tag
}
