package wsl

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ParseDistributionList decodes `wsl.exe --list --quiet` output. wsl.exe
// writes UTF-16LE unless WSL_UTF8=1 is set, so both encodings are accepted.
func ParseDistributionList(raw []byte) []string {
	text := string(raw)
	if looksUTF16(raw) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		if b, _, err := transform.Bytes(dec, raw); err == nil {
			text = string(b)
		}
	}
	text = strings.TrimPrefix(text, "\ufeff")

	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "\x00\r"))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func looksUTF16(raw []byte) bool {
	if len(raw) >= 2 && raw[0] == 0xFF && raw[1] == 0xFE {
		return true
	}
	return bytes.IndexByte(raw, 0) >= 0
}
