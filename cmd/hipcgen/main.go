/*
hipcgen reads a YAML manifest describing a batch of named HIPC commands, builds
each one, and writes its hex dump to stdout (or a fixtures directory). It is the
batch counterpart to hipcdump, intended for generating golden fixtures for a set
of scenarios in one pass.
*/
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/switchbrew/hipc"
)

// manifestEntry describes one command to build. Fields not relevant to a given
// command (e.g. CopyHandles on a command with no special header) are simply left
// empty.
type manifestEntry struct {
	Name         string   `yaml:"name"`
	Kind         uint16   `yaml:"kind"`
	SendStatics  []desc   `yaml:"send_statics"`
	SendBuffers  []buf    `yaml:"send_buffers"`
	RecvBuffers  []buf    `yaml:"recv_buffers"`
	ExchBuffers  []buf    `yaml:"exch_buffers"`
	RecvStatics  []entry  `yaml:"recv_statics"`
	PointerBuf   *entry   `yaml:"pointer_buffer"`
	RawData      []uint32 `yaml:"raw_data"`
	InlineBuffer string   `yaml:"inline_buffer"`
	ProcessID    *uint64  `yaml:"process_id"`
	CopyHandles  []uint32 `yaml:"copy_handles"`
	MoveHandles  []uint32 `yaml:"move_handles"`
}

type desc struct {
	Index   int    `yaml:"index"`
	Size    int    `yaml:"size"`
	Address uint64 `yaml:"address"`
}

type buf struct {
	Address uint64 `yaml:"address"`
	Size    int    `yaml:"size"`
	Mode    uint8  `yaml:"mode"`
}

type entry struct {
	Address uint64 `yaml:"address"`
	Size    int    `yaml:"size"`
}

func main() {
	manifestPath := pflag.StringP("manifest", "m", "", "path to a YAML manifest of commands to build")
	outDir := pflag.StringP("out", "o", "", "directory to write per-command .hex files to; stdout if empty")
	help := pflag.Bool("help", false, "display help text")

	pflag.Usage = func() {
		os.Stderr.WriteString("Usage: hipcgen --manifest commands.yaml [--out dir]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	if *help || *manifestPath == "" {
		pflag.Usage()
		if *manifestPath == "" {
			os.Exit(2)
		}
		return
	}

	raw, err := os.ReadFile(*manifestPath)
	if err != nil {
		logger.Fatal("reading manifest", "path", *manifestPath, "err", err)
	}

	var entries []manifestEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		logger.Fatal("parsing manifest", "err", err)
	}

	for _, e := range entries {
		out, err := buildEntry(e)
		if err != nil {
			logger.Error("building command", "name", e.Name, "err", err)
			continue
		}

		if *outDir == "" {
			fmt.Printf("# %s (%d bytes)\n%s\n", e.Name, len(out), hex.Dump(out))
			continue
		}

		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			logger.Fatal("creating output directory", "path", *outDir, "err", err)
		}
		dest := filepath.Join(*outDir, e.Name+".hex")
		if err := os.WriteFile(dest, []byte(hex.EncodeToString(out)+"\n"), 0o644); err != nil {
			logger.Fatal("writing fixture", "path", dest, "err", err)
		}
		logger.Info("wrote fixture", "name", e.Name, "path", dest, "bytes", len(out))
	}
}

func buildEntry(e manifestEntry) ([]byte, error) {
	b := hipc.NewCommandBuilder(hipc.CommandType(e.Kind))
	var err error

	if e.ProcessID != nil || len(e.CopyHandles) > 0 || len(e.MoveHandles) > 0 {
		sh := hipc.SpecialHeaderBuilder{}
		if e.ProcessID != nil {
			if sh, err = sh.WithProgramID(*e.ProcessID); err != nil {
				return nil, err
			}
		}
		for _, h := range e.CopyHandles {
			if sh, err = sh.WithCopyHandle(h); err != nil {
				return nil, err
			}
		}
		for _, h := range e.MoveHandles {
			if sh, err = sh.WithMoveHandle(h); err != nil {
				return nil, err
			}
		}
		if b, err = b.WithSpecialHeader(sh); err != nil {
			return nil, err
		}
	}

	for _, d := range e.SendStatics {
		if b, err = b.WithSendStatic(hipc.NewStaticDescriptor(d.Index, d.Size, d.Address)); err != nil {
			return nil, err
		}
	}
	for _, d := range e.SendBuffers {
		if b, err = b.WithSendBuffer(hipc.NewBufferDescriptor(d.Address, d.Size, d.Mode)); err != nil {
			return nil, err
		}
	}
	for _, d := range e.RecvBuffers {
		if b, err = b.WithRecvBuffer(hipc.NewBufferDescriptor(d.Address, d.Size, d.Mode)); err != nil {
			return nil, err
		}
	}
	for _, d := range e.ExchBuffers {
		if b, err = b.WithExchBuffer(hipc.NewBufferDescriptor(d.Address, d.Size, d.Mode)); err != nil {
			return nil, err
		}
	}

	if len(e.RawData) > 0 {
		if b, err = b.WithRawData(e.RawData); err != nil {
			return nil, err
		}
	}

	if e.InlineBuffer != "" {
		data, decodeErr := hex.DecodeString(e.InlineBuffer)
		if decodeErr != nil {
			return nil, decodeErr
		}
		if b, err = b.WithInlineBuffer(data); err != nil {
			return nil, err
		}
	} else if e.PointerBuf != nil {
		if b, err = b.WithPointerBuffer(hipc.NewReceiveListEntry(e.PointerBuf.Address, e.PointerBuf.Size)); err != nil {
			return nil, err
		}
	} else {
		for _, d := range e.RecvStatics {
			if b, err = b.WithRecvStatic(hipc.NewReceiveListEntry(d.Address, d.Size)); err != nil {
				return nil, err
			}
		}
	}

	return b.Build(), nil
}
