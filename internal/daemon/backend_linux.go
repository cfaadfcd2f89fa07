//go:build linux

package daemon

import (
	"os"

	"github.com/1broseidon/tilecore/internal/config"
	"github.com/1broseidon/tilecore/internal/platform"
)

func openBackend(cfg *config.Config) (platform.Backend, func(), error) {
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		return nil, nil, err
	}
	return backend, backend.Disconnect, nil
}
