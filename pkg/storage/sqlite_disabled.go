//go:build !sqlite
// +build !sqlite

package storage

import (
	"fmt"

	"crontask/pkg/logx"
)

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	_ = cfg
	_ = log
	return nil, fmt.Errorf("%w: sqlite storage not built: build with -tags sqlite", ErrUnavailable)
}
