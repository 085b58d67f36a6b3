package envsim

import (
	"testing"
	"time"
)

func TestWallTickerFires(t *testing.T) {
	w := newWallTicker(50*time.Millisecond, 0, "dev-01", nil, nil)
	defer w.Stop()

	select {
	case <-w.C:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not fire")
	}
}
