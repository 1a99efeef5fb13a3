//go:build windows

package wsl

import "golang.org/x/sys/windows"

func windowsBuild() uint32 {
	v := windows.RtlGetVersion()
	if v == nil {
		return 0
	}
	return v.BuildNumber
}
