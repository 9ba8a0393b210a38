/*
 * rvsim - Configuration file parser.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package simconfig parses the simulator's configuration file: one
// `key = value` pair per line, '#' starts a line comment, blank lines
// ignored. There is no device model grammar to speak of here -- this
// simulator has one CPU and one memory interface -- so the format is
// flat, unlike a multi-device mainframe's per-unit option lines.
package simconfig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config holds every simulator parameter that can come from a file or
// flag, with defaults matching the spec's fixed constants.
type Config struct {
	ELFPath     string // program image to load
	MemWords    int    // main memory size, in 32-bit words
	ResetVector uint32 // initial program counter
	Uncached    bool   // select the uncached memory interface variant
	LogPath     string // slog output file
	ResultsPath string // append-mode host-output text log
}

// Default returns the configuration the spec's fixed constants
// describe, before any file or flag overrides are applied.
func Default() Config {
	return Config{
		MemWords:    1024 * 1024,
		ResetVector: 0x200,
		ResultsPath: "CachedResults.txt",
	}
}

// LoadFile reads key=value pairs from path into cfg, overriding only
// the fields a recognized key names. Unknown keys are an error: a
// typoed key should not silently do nothing.
func LoadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("simconfig: %w", err)
	}
	defer f.Close()
	return parse(f, cfg)
}

func parse(r io.Reader, cfg *Config) error {
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := parseLine(line, cfg); err != nil {
			return fmt.Errorf("simconfig: line %d: %w", lineNumber, err)
		}
	}
	return scanner.Err()
}

func parseLine(line string, cfg *Config) error {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return fmt.Errorf("expected key = value, got %q", line)
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	switch key {
	case "elf":
		cfg.ELFPath = value
	case "memwords":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("memwords: %w", err)
		}
		cfg.MemWords = n
	case "reset":
		n, err := strconv.ParseUint(strings.TrimPrefix(value, "0x"), 16, 32)
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		cfg.ResetVector = uint32(n)
	case "uncached":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("uncached: %w", err)
		}
		cfg.Uncached = b
	case "log":
		cfg.LogPath = value
	case "results":
		cfg.ResultsPath = value
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}
