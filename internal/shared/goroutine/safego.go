// Package goroutine runs background work that must not take the process down.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/unical-dimes/professors/internal/shared/logger"
)

// SafeGo runs fn on its own goroutine. The returned channel yields fn's
// error, or the recovered panic as an error, and is closed when fn returns.
// A nil result closes the channel without sending.
func SafeGo(log logger.Interface, name string, fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				done <- fmt.Errorf("%s panicked: %v", name, r)
			}
		}()
		if err := fn(); err != nil {
			done <- err
		}
	}()
	return done
}
