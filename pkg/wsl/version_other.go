//go:build !windows

package wsl

func windowsBuild() uint32 { return 0 }
