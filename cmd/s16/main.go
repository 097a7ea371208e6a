// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/s16/cpu"
	"github.com/ezrec/s16/emulator"
	"github.com/ezrec/s16/langserver"
	"github.com/ezrec/s16/monitor"
	"github.com/ezrec/s16/remote"
)

func main() {
	var compile string
	var image string
	var save string
	var base uint
	var listing bool
	var disassemble bool
	var interactive bool
	var input string
	var output string
	var limit int
	var verbose bool
	var lsp bool
	var lspAddr string
	var wsAddr string

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&image, "img", "", ".img binary image to load")
	flag.StringVar(&save, "s", "", "Save binary image to file, do not execute")
	flag.UintVar(&base, "base", 0, "Load address")
	flag.BoolVar(&listing, "l", false, "Print assembly listing, do not execute")
	flag.BoolVar(&disassemble, "d", false, "Disassemble the image, do not execute")
	flag.BoolVar(&interactive, "m", false, "Interactive monitor")
	flag.StringVar(&input, "i", "-", "Console input")
	flag.StringVar(&output, "o", "-", "Console output")
	flag.IntVar(&limit, "limit", 0, "Step limit, 0 for none")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&lsp, "lsp", false, "Serve the language server on stdio")
	flag.StringVar(&lspAddr, "lsp-addr", "", "Serve the language server on a TCP address")
	flag.StringVar(&wsAddr, "ws", "", "Serve the websocket emulator on an HTTP address")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if lsp {
		langserver.ListenAndServe()
		return
	}
	if lspAddr != "" {
		log.Fatal(langserver.ListenAndServeTCP(lspAddr))
	}
	if wsAddr != "" {
		log.Fatal(remote.ListenAndServe(wsAddr))
	}

	if base > 0xffff {
		log.Fatalf("-base %v: out of range", base)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	// Assemble a new program, or load a prebuilt image.
	var words []uint16
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		emu.Program = prog
		words = prog.Words()
		if err = emu.LoadWords(uint16(base), words); err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	} else if len(image) != 0 {
		var err error
		words, err = emu.LoadImageFile(image, uint16(base))
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	} else {
		log.Fatalf("%v: One of -c or -img is required", os.Args[0])
	}

	if listing {
		fmt.Print(emu.Program.Listing())
		return
	}

	if len(save) != 0 {
		ouf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		defer ouf.Close()

		if err = cpu.WriteImage(ouf, words); err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	if disassemble {
		fmt.Print(cpu.Disassemble(words, uint16(base)))
		return
	}

	if input == "-" {
		emu.Console.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Console.Input = inf
	}

	if output == "-" {
		emu.Console.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Console.Output = ouf
	}

	if interactive {
		if err := monitor.NewMonitor(emu).Run(); err != nil {
			log.Fatal(err)
		}
		return
	}

	done, err := emu.Run(limit)
	if err != nil {
		log.Fatal(err)
	}
	if !done {
		log.Fatalf("step limit of %v reached", limit)
	}
}
