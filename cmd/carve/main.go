// carve is a CLI for evaluating carve solid-modeling scripts and applying
// boolean operations to STL meshes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/carve/internal/config"
	"github.com/chazu/carve/internal/logger"
	"github.com/chazu/carve/pkg/csg"
	"github.com/chazu/carve/pkg/engine"
	"github.com/chazu/carve/pkg/eval"
	"github.com/chazu/carve/pkg/mesh"
	"go.uber.org/zap"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "eval":
		cmdEval(cfg, args)
	case "bool":
		cmdBool(cfg, args)
	case "info":
		cmdInfo(args)
	case "config":
		cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`carve - solid modeling with mesh booleans

Usage:
  carve [options] <command> [args]

Options:
  -config <path>   Path to config file
  -debug           Enable debug logging
  -cells <n>       Marching cubes grid resolution
  -out <dir>       Output directory
  -ascii           Write ASCII STL output

Commands:
  eval <script.carve>          Evaluate a script, write emitted solids as STL
  bool <op> <a.stl> <b.stl>    Apply union/intersect/minus/xor/resolve
  info <file.stl>              Show mesh statistics
  config init                  Write a default config file

Examples:
  carve eval bracket.carve
  carve -out parts eval bracket.carve
  carve bool minus stock.stl hole.stl
  carve info bracket.stl`)
}

func cmdEval(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: carve eval <script.carve>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	source, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading script", zap.Error(err))
	}

	tree, evalErrs, err := engine.NewEngine().Evaluate(string(source))
	if err != nil {
		logger.Fatal("evaluation failed", zap.Error(err))
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			logger.Error("script error", zap.String("script", path), zap.String("detail", e.Error()))
		}
		os.Exit(1)
	}

	ev := eval.New()
	ev.Cells = cfg.Mesh.Cells
	parts, err := ev.Evaluate(tree)
	if err != nil {
		logger.Fatal("evaluating solids", zap.Error(err))
	}
	if len(parts) == 0 {
		logger.Warn("script emitted no solids", zap.String("script", path))
		return
	}

	for _, p := range parts {
		out := filepath.Join(cfg.Output.Dir, p.Name+".stl")
		if err := writeMesh(cfg, out, p.Mesh, p.Name); err != nil {
			logger.Fatal("writing output", zap.String("path", out), zap.Error(err))
		}
		logger.Info("wrote solid",
			zap.String("path", out),
			zap.String("name", p.Name),
			zap.Int("faces", p.Mesh.FaceCount()))
	}
}

func cmdBool(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("bool", flag.ExitOnError)
	outPath := fs.String("o", "", "Output STL path (default <op>.stl in the output dir)")
	fs.Parse(args)
	if fs.NArg() < 3 {
		fmt.Fprintln(os.Stderr, "Usage: carve bool <op> <a.stl> <b.stl>")
		os.Exit(1)
	}

	op, err := csg.ParseOp(fs.Arg(0))
	if err != nil {
		logger.Fatal("bad operation", zap.Error(err))
	}

	a, err := readMesh(fs.Arg(1))
	if err != nil {
		logger.Fatal("reading first mesh", zap.Error(err))
	}
	b, err := readMesh(fs.Arg(2))
	if err != nil {
		logger.Fatal("reading second mesh", zap.Error(err))
	}

	result, err := csg.Boolean(a, b, op)
	if err != nil {
		logger.Fatal("boolean failed", zap.String("op", op.String()), zap.Error(err))
	}

	out := *outPath
	if out == "" {
		out = filepath.Join(cfg.Output.Dir, op.String()+".stl")
	}
	if err := writeMesh(cfg, out, result, op.String()); err != nil {
		logger.Fatal("writing output", zap.String("path", out), zap.Error(err))
	}
	logger.Info("wrote result",
		zap.String("path", out),
		zap.String("op", op.String()),
		zap.Int("faces", result.FaceCount()))
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: carve info <file.stl>")
		os.Exit(1)
	}

	m, err := readMesh(args[0])
	if err != nil {
		logger.Fatal("reading mesh", zap.Error(err))
	}

	fmt.Printf("File:     %s\n", args[0])
	fmt.Printf("Vertices: %d\n", m.VertexCount())
	fmt.Printf("Faces:    %d\n", m.FaceCount())
	fmt.Printf("Closed:   %v\n", m.IsClosed())
	if m.IsClosed() {
		fmt.Printf("Volume:   %.6g\n", m.SignedVolume())
	}
	if !m.IsEmpty() {
		lo, hi := m.Vertices[0], m.Vertices[0]
		for _, v := range m.Vertices {
			lo.X, lo.Y, lo.Z = min(lo.X, v.X), min(lo.Y, v.Y), min(lo.Z, v.Z)
			hi.X, hi.Y, hi.Z = max(hi.X, v.X), max(hi.Y, v.Y), max(hi.Z, v.Z)
		}
		fmt.Printf("Bounds:   (%g, %g, %g) .. (%g, %g, %g)\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	}
}

func cmdConfig(cfg *config.Config, args []string) {
	if len(args) < 1 || args[0] != "init" {
		fmt.Fprintln(os.Stderr, "Usage: carve config init")
		os.Exit(1)
	}

	if err := cfg.Save(); err != nil {
		logger.Fatal("writing config", zap.Error(err))
	}
	fmt.Printf("Wrote %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
}

func readMesh(path string) (mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return mesh.Mesh{}, err
	}
	defer f.Close()
	return mesh.ReadSTL(f)
}

func writeMesh(cfg *config.Config, path string, m mesh.Mesh, name string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if cfg.Output.ASCII {
		return mesh.WriteSTLASCII(f, m, name)
	}
	return mesh.WriteSTL(f, m)
}
