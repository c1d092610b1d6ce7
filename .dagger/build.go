package main

import (
	"fmt"
	"strings"
	"time"

	"context"

	"dagger/litemind/internal/dagger"
)

// Build and return directory of go binaries
func (l *Litemind) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	// The sqlite-vec driver needs CGO, so builds stay on the native
	// toolchain per architecture instead of a cross-compile matrix.
	goarches := []string{"amd64", "arm64"}

	// create empty directory to put build artifacts
	outputs := dag.Directory()

	for _, goarch := range goarches {
		path := fmt.Sprintf("linux/%s/", goarch)

		build := l.goContainer().
			WithEnvVariable("GOOS", "linux").
			WithEnvVariable("GOARCH", goarch).
			WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", path, "./cli/litemind"})

		outputs = outputs.WithDirectory(path, build.Directory(path))
	}

	// return build directory
	return outputs
}

// BuildRelease compiles versioned release binaries with embedded version info
func (l *Litemind) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	buildtime := time.Now()

	ldflags := []string{
		"-s",
		"-w",
		fmt.Sprintf("-X 'github.com/litemindhq/litemind/pkg/utils.Version=%s'", version),
		fmt.Sprintf("-X 'github.com/litemindhq/litemind/pkg/utils.Sha=%s'", commit),
		fmt.Sprintf("-X 'github.com/litemindhq/litemind/pkg/utils.Buildtime=%s'", buildtime),
	}

	return l.Build(ctx, strings.Join(ldflags, " "))
}
