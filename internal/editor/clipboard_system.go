//go:build !js

package editor

import "github.com/atotto/clipboard"

// SystemClipboard is the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboardAvailable reports whether the host has a usable clipboard
// (on Linux: xclip, xsel or wl-clipboard).
func SystemClipboardAvailable() bool { return !clipboard.Unsupported }
