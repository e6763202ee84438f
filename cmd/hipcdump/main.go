/*
hipcdump builds a single HIPC command from command-line flags and hex-dumps the
resulting bytes. It exists mainly to eyeball what a given combination of
descriptors produces on the wire without writing a test.
*/
package main

import (
	"encoding/hex"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/switchbrew/hipc"
)

func main() {
	kind := pflag.Uint16P("kind", "k", 4, "command kind (0=Invalid .. 7=ControlWithContext)")
	rawWords := pflag.IntSliceP("raw", "r", nil, "raw data words, decimal")
	inlineHex := pflag.StringP("inline", "i", "", "inline buffer payload, as hex")
	pid := pflag.Uint64P("pid", "p", 0, "process ID to request; omitted unless --with-pid is set")
	withPID := pflag.Bool("with-pid", false, "attach a special header requesting the process ID")
	help := pflag.Bool("help", false, "display help text")

	pflag.Usage = func() {
		os.Stderr.WriteString("Usage: hipcdump [options]\n\nBuild one HIPC command and hex-dump it.\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	builder := hipc.NewCommandBuilder(hipc.CommandType(*kind))

	if *withPID {
		sh, err := hipc.SpecialHeaderBuilder{}.WithProgramID(*pid)
		if err != nil {
			logger.Fatal("building special header", "err", err)
		}
		builder, err = builder.WithSpecialHeader(sh)
		if err != nil {
			logger.Fatal("attaching special header", "err", err)
		}
	}

	if len(*rawWords) > 0 {
		words := make([]uint32, len(*rawWords))
		for i, w := range *rawWords {
			words[i] = uint32(w)
		}
		var err error
		builder, err = builder.WithRawData(words)
		if err != nil {
			logger.Fatal("setting raw data", "err", err)
		}
	}

	if *inlineHex != "" {
		data, err := hex.DecodeString(*inlineHex)
		if err != nil {
			logger.Fatal("decoding --inline", "err", err)
		}
		builder, err = builder.WithInlineBuffer(data)
		if err != nil {
			logger.Fatal("setting inline buffer", "err", err)
		}
	}

	out := builder.Build()
	logger.Info("built command", "kind", hipc.CommandType(*kind), "bytes", len(out))
	os.Stdout.WriteString(hex.Dump(out))
}
