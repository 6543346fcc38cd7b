package builder

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/oshokin/forgeline/internal/catalog"
	"github.com/oshokin/forgeline/internal/logger"
)

// Container builds the target inside a container image and extracts the
// binary through a short-lived container materialized from that image.
type Container struct {
	runner Runner
	engine string
}

// Build runs the image build and then the extraction.
func (c *Container) Build(ctx context.Context, toolDir string, target catalog.Target) (string, error) {
	imageTag, err := c.BuildImage(ctx, toolDir, target)
	if err != nil {
		return "", err
	}

	return c.ExtractBinary(ctx, toolDir, target, imageTag)
}

// BuildImage builds the container image from the target's containerfile and
// returns its deterministic tag <tool>-builder:<triple>. Requesting an image
// build for a target without a containerfile is a configuration error,
// detected before any external process is spawned.
func (c *Container) BuildImage(ctx context.Context, toolDir string, target catalog.Target) (string, error) {
	if !target.Containerized() {
		return "", fmt.Errorf("%s/%s: %w", target.Tool, target.Triple, ErrNoContainerfile)
	}

	imageTag := fmt.Sprintf("%s-builder:%s", target.Tool, target.Triple)

	logger.InfoKV(ctx, "Building container image", "image", imageTag)

	_, err := c.runner.Run(ctx, toolDir, c.engine, "build", "-f", target.Containerfile, "-t", imageTag, ".")
	if err != nil {
		return "", err
	}

	return imageTag, nil
}

// ExtractBinary materializes an ephemeral container from the image, copies
// the built binary out of the well-known in-image path to the fixed
// tool-local path, and removes the container. Removal is attempted even when
// the copy fails so a broken extraction does not leak containers.
func (c *Container) ExtractBinary(ctx context.Context, toolDir string, target catalog.Target, imageTag string) (destPath string, err error) {
	containerName := fmt.Sprintf("temp-%s-%s", target.Tool, target.Triple)

	logger.InfoKV(ctx, "Extracting binary from image", "image", imageTag, "container", containerName)

	if _, err = c.runner.Run(ctx, toolDir, c.engine, "create", "--name", containerName, imageTag); err != nil {
		return "", err
	}

	defer func() {
		if _, rmErr := c.runner.Run(ctx, toolDir, c.engine, "rm", containerName); rmErr != nil {
			if err == nil {
				err = rmErr
				return
			}

			// The copy failure is the actionable error; the leak is only logged.
			logger.WarnKV(ctx, "Failed to remove ephemeral container", "container", containerName, "error", rmErr)
		}
	}()

	destPath = filepath.Join(toolDir, target.Tool)
	inImagePath := fmt.Sprintf("/build/target/%s/release/%s", target.Triple, target.Tool)

	if _, err = c.runner.Run(ctx, toolDir, c.engine, "cp", containerName+":"+inImagePath, destPath); err != nil {
		return "", err
	}

	return destPath, nil
}
