// Command fulano-run instantiates a guest module against the fulano host
// functions and invokes one of the guest's exports.
//
// Usage:
//
//	fulano-run -wasm guest.wasm -entry run 1 2.5
//
// Arguments after the flags are passed to the entry function, parsed
// according to its signature. With no -entry the guest's exported functions
// are listed instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/partite-ai/fulano/fulano"
	"github.com/partite-ai/fulano/wasm"
	"github.com/partite-ai/fulano/wasmhost"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

func main() {
	wasmFileName := flag.String("wasm", "", "the guest module to run")
	entry := flag.String("entry", "", "the guest export to invoke")
	flag.Parse()
	if *wasmFileName == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -wasm <file.wasm> [-entry <export>] [args...]\n", os.Args[0])
		os.Exit(1)
	}

	guest, err := os.ReadFile(*wasmFileName)
	if err != nil {
		log.Fatalf("Failed to read guest module: %v", err)
	}

	if *entry == "" {
		exports, err := wasm.ReadExports(guest)
		if err != nil {
			log.Fatalf("Failed to read guest exports: %v", err)
		}
		for _, name := range exports.Funcs {
			fmt.Println(name)
		}
		return
	}

	ctx := context.Background()
	runtime := wazero.NewRuntime(ctx)
	defer runtime.Close(ctx)

	wasi_snapshot_preview1.MustInstantiate(ctx, runtime)

	if _, err := wasmhost.Mount(ctx, runtime, fulano.Module()); err != nil {
		log.Fatalf("Failed to mount host module: %v", err)
	}

	mod, err := runtime.Instantiate(ctx, guest)
	if err != nil {
		log.Fatalf("Failed to instantiate guest module: %v", err)
	}

	fn := mod.ExportedFunction(*entry)
	if fn == nil {
		log.Fatalf("Guest does not export function %q", *entry)
	}

	args, err := encodeArgs(fn.Definition(), flag.Args())
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	results, err := fn.Call(ctx, args...)
	if err != nil {
		log.Fatalf("Failed to invoke %s: %v", *entry, err)
	}

	for i, result := range results {
		switch fn.Definition().ResultTypes()[i] {
		case api.ValueTypeF32:
			fmt.Println(api.DecodeF32(result))
		case api.ValueTypeF64:
			fmt.Println(api.DecodeF64(result))
		default:
			fmt.Println(int64(result))
		}
	}
}

func encodeArgs(def api.FunctionDefinition, raw []string) ([]uint64, error) {
	paramTypes := def.ParamTypes()
	if len(raw) != len(paramTypes) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", def.Name(), len(paramTypes), len(raw))
	}

	args := make([]uint64, len(raw))
	for i, s := range raw {
		switch paramTypes[i] {
		case api.ValueTypeF32:
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			args[i] = api.EncodeF32(float32(v))
		case api.ValueTypeF64:
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			args[i] = api.EncodeF64(v)
		default:
			v, err := strconv.ParseInt(s, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			args[i] = uint64(v)
		}
	}
	return args, nil
}
