package simconfig

import (
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg := Default()
	src := strings.NewReader(`
# comment line
elf = program.elf
memwords = 2048
reset = 0x400
uncached = true
log = sim.log
`)
	if err := parse(src, &cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.ELFPath != "program.elf" || cfg.MemWords != 2048 || cfg.ResetVector != 0x400 || !cfg.Uncached || cfg.LogPath != "sim.log" {
		t.Errorf("got %+v", cfg)
	}
	if cfg.ResultsPath != "CachedResults.txt" {
		t.Errorf("ResultsPath should keep its default, got %q", cfg.ResultsPath)
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	cfg := Default()
	if err := parse(strings.NewReader("bogus = 1"), &cfg); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestParseRejectsMalformedLine(t *testing.T) {
	cfg := Default()
	if err := parse(strings.NewReader("not-a-key-value-pair"), &cfg); err == nil {
		t.Fatalf("expected error for line without '='")
	}
}
