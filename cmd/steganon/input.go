package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

// resolve turns a data or seed argument into bytes. An existing file is read,
// then a hex string is decoded, and anything else is taken as text.
func resolve(arg string) ([]byte, error) {
	if info, err := os.Stat(arg); err == nil && info.Mode().IsRegular() {
		b, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", arg, err)
		}
		return b, nil
	}
	if b, err := hex.DecodeString(strings.TrimPrefix(arg, "0x")); err == nil && len(b) > 0 {
		return b, nil
	}
	return []byte(arg), nil
}

func resolveAll(args []string) ([][]byte, error) {
	out := make([][]byte, len(args))
	for i, a := range args {
		b, err := resolve(a)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}
