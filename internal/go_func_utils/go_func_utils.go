package go_func_utils

import (
	"fmt"
	"log"
	"runtime/debug"
)

// SafeGo runs fn on its own goroutine. The curses UI owns the terminal, so a
// panic is written to logger with its stack before it is re-raised.
func SafeGo(logger *log.Logger, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
				panic(r)
			}
		}()
		fn()
	}()
}

// SafeCall runs fn on the calling goroutine and turns a panic into an error,
// logging the stack. Used where one failed command must not take the editor
// down with it.
func SafeCall(logger *log.Logger, name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
			err = fmt.Errorf("%s: panic: %v", name, r)
		}
	}()
	return fn()
}
