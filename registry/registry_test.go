package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseImage(t *testing.T) {
	testcases := []struct {
		image      string
		repository string
		tag        string
	}{
		{
			image:      "ubuntu",
			repository: "library/ubuntu",
			tag:        "latest",
		},
		{
			image:      "myuser/app:v2",
			repository: "myuser/app",
			tag:        "v2",
		},
		{
			image:      "UBUNTU:LATEST",
			repository: "library/ubuntu",
			tag:        "LATEST",
		},
		{
			image:      "debian:bookworm:slim",
			repository: "library/debian",
			tag:        "bookworm:slim",
		},
		{
			image:      "Org/Team/App",
			repository: "org/team/app",
			tag:        "latest",
		},
		{
			image:      "",
			repository: "library/",
			tag:        "latest",
		},
		{
			image:      "redis:",
			repository: "library/redis",
			tag:        "",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.image, func(t *testing.T) {
			repository, tag := ParseImage(tc.image)
			assert.Equal(t, tc.repository, repository)
			assert.Equal(t, tc.tag, tag)
		})
	}
}
