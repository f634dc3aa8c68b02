//go:build windows

package main

import (
	"os"

	"golang.org/x/sys/windows"
)

// enableVT turns on virtual terminal input and output so arrow keys arrive
// as ANSI sequences and colors render. The returned func restores the
// previous console modes.
func enableVT() func() {
	hIn := windows.Handle(os.Stdin.Fd())
	hOut := windows.Handle(os.Stdout.Fd())

	var inMode, outMode uint32
	inOK := windows.GetConsoleMode(hIn, &inMode) == nil
	outOK := windows.GetConsoleMode(hOut, &outMode) == nil
	if inOK {
		_ = windows.SetConsoleMode(hIn, inMode|windows.ENABLE_VIRTUAL_TERMINAL_INPUT)
	}
	if outOK {
		_ = windows.SetConsoleMode(hOut, outMode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
	}

	return func() {
		if inOK {
			_ = windows.SetConsoleMode(hIn, inMode)
		}
		if outOK {
			_ = windows.SetConsoleMode(hOut, outMode)
		}
	}
}
