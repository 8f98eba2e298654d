//go:build !sqlite
// +build !sqlite

package storage

import (
	"errors"
	"testing"

	"crontask/pkg/logx"
)

func TestOpenSQLiteNotBuilt(t *testing.T) {
	t.Parallel()
	_, err := Open(Config{Driver: "sqlite"}, logx.Nop())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Open(sqlite) error = %v, want ErrUnavailable", err)
	}
}
