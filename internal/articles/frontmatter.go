// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package articles

import (
	"bytes"

	"go.yaml.in/yaml/v3"
)

const fmDelim = "---"

// renderFrontmatter prepends fm as a YAML block to content.
func renderFrontmatter(fm map[string]interface{}, content string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fmDelim + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteString(fmDelim + "\n\n")
	buf.WriteString(content)
	return buf.Bytes(), nil
}

// parseFrontmatter extracts a leading YAML block. ok is false when the
// document has none or it does not decode to a mapping.
func parseFrontmatter(data []byte) (map[string]interface{}, bool) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(data, []byte(fmDelim+"\n")) && !bytes.HasPrefix(data, []byte(fmDelim+"\r\n")) {
		return nil, false
	}
	rest := data[bytes.IndexByte(data, '\n')+1:]

	var block []byte
	for {
		nl := bytes.IndexByte(rest, '\n')
		line := rest
		if nl >= 0 {
			line = rest[:nl]
		}
		if string(bytes.TrimRight(line, "\r")) == fmDelim {
			break
		}
		if nl < 0 {
			return nil, false
		}
		block = append(block, rest[:nl+1]...)
		rest = rest[nl+1:]
	}

	fm := map[string]interface{}{}
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return nil, false
	}
	return fm, true
}
