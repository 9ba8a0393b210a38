/*
 * rvsim - Main process.
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

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	simconfig "github.com/rvsim/rvsim/config/simconfig"
	"github.com/rvsim/rvsim/internal/cpu"
	"github.com/rvsim/rvsim/internal/csr"
	"github.com/rvsim/rvsim/internal/disasm"
	"github.com/rvsim/rvsim/internal/elfload"
	"github.com/rvsim/rvsim/internal/isa"
	"github.com/rvsim/rvsim/internal/meminterface"
	"github.com/rvsim/rvsim/internal/memory"
	logger "github.com/rvsim/rvsim/util/logger"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optELF := getopt.StringLong("elf", 'e', "", "ELF program to load")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optResults := getopt.StringLong("results", 'r', "", "Host-output results file")
	optUncached := getopt.BoolLong("uncached", 'u', "Use the uncached memory interface")
	optMemWords := getopt.IntLong("memwords", 'm', 0, "Main memory size in words")
	optDebug := getopt.BoolLong("debug", 'd', "Trace every retired instruction")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	cfg := simconfig.Default()
	if *optConfig != "" {
		if err := simconfig.LoadFile(*optConfig, &cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *optELF != "" {
		cfg.ELFPath = *optELF
	}
	if *optLogFile != "" {
		cfg.LogPath = *optLogFile
	}
	if *optResults != "" {
		cfg.ResultsPath = *optResults
	}
	if *optMemWords != 0 {
		cfg.MemWords = *optMemWords
	}
	if *optUncached {
		cfg.Uncached = true
	}

	var logWriter io.Writer
	if cfg.LogPath != "" {
		logFile, err := os.Create(cfg.LogPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logWriter = logFile
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	if *optDebug {
		programLevel.Set(slog.LevelDebug)
	}
	debug := *optDebug
	Logger = slog.New(logger.NewHandler(logWriter, &slog.HandlerOptions{Level: programLevel}, &debug))
	slog.SetDefault(Logger)

	Logger.Info("rvsim started", "elf", cfg.ELFPath, "uncached", cfg.Uncached)

	if cfg.ELFPath == "" {
		Logger.Error("no ELF program specified")
		os.Exit(1)
	}

	mem := memory.New(cfg.MemWords)
	if err := elfload.LoadFile(cfg.ELFPath, mem); err != nil {
		Logger.Error("load failed", "error", err)
		os.Exit(1)
	}

	var mi meminterface.Interface
	if cfg.Uncached {
		mi = meminterface.NewUncached(mem)
	} else {
		mi = meminterface.NewCached(mem)
	}

	core := cpu.New(mi, cfg.ResetVector)
	if *optDebug {
		core.Trace = func(ip uint32, in *isa.Instruction) {
			Logger.Debug("retire", "ip", fmt.Sprintf("%#x", ip), "asm", disasm.String(in))
		}
	}

	results, err := os.OpenFile(cfg.ResultsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		Logger.Error("opening results file failed", "error", err)
		os.Exit(1)
	}

	exitCode := run(core, mi, results)
	results.Close()
	os.Exit(exitCode)
}

// run ticks the CPU and memory interface once per cycle until the
// guest writes ExitCode, printing host messages to both stderr and
// results as they retire. It returns the process exit status.
func run(core *cpu.CPU, mi meminterface.Interface, results *os.File) int {
	var printInt int32
	for {
		core.Clock()
		mi.Clock()

		if err := core.Err(); err != nil {
			Logger.Error("halted", "error", err, "ip", core.IP())
			return 1
		}

		msg, ok := core.GetMessage()
		if !ok {
			continue
		}

		switch msg.Kind {
		case csr.KindExitCode:
			if msg.Value == 0 {
				fmt.Fprintln(os.Stderr, "PASSED")
				fmt.Fprintln(results, "PASSED")
				return 0
			}
			fmt.Fprintf(os.Stderr, "FAILED: exit code = %d\n", msg.Value)
			fmt.Fprintf(results, "FAILED: exit code = %d\n", msg.Value)
			return int(msg.Value)

		case csr.KindPrintChar:
			fmt.Fprintf(os.Stderr, "%c", rune(msg.Value))
			fmt.Fprintf(results, "%c", rune(msg.Value))

		case csr.KindPrintIntLow:
			printInt = int32(msg.Value & 0xffff)

		case csr.KindPrintIntHigh:
			printInt |= int32(msg.Value&0xffff) << 16
			fmt.Fprintf(os.Stderr, "%d", printInt)
			fmt.Fprintf(results, "%d", printInt)
		}
	}
}
