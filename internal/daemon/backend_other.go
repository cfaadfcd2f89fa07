//go:build !linux

package daemon

import (
	"errors"

	"github.com/1broseidon/tilecore/internal/config"
	"github.com/1broseidon/tilecore/internal/platform"
)

func openBackend(*config.Config) (platform.Backend, func(), error) {
	return nil, nil, errors.New("the tilecore daemon requires X11 on Linux")
}
