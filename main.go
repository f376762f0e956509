// Command riscv-core is the thin CLI glue spec.md §1 keeps out of the core's
// scope ("a thin front end that reads files/stdin, calls the core, prints
// output"). Grounded on the teacher's root main.go os.Args switch style --
// no CLI framework, consistent with "thin glue" staying out of scope.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/danielcbailey/riscv-core/asm"
	"github.com/danielcbailey/riscv-core/disasm"
	"github.com/danielcbailey/riscv-core/util"
	"github.com/danielcbailey/riscv-core/vm"
	"github.com/danielcbailey/riscv-core/vmconfig"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "asm":
		if len(os.Args) != 4 {
			usage()
		}
		cmdAssemble(os.Args[2], os.Args[3])
	case "disasm":
		if len(os.Args) != 3 {
			usage()
		}
		cmdDisassemble(os.Args[2])
	case "run":
		if len(os.Args) < 3 {
			usage()
		}
		profilePath := ""
		if len(os.Args) >= 4 {
			profilePath = os.Args[3]
		}
		cmdRun(os.Args[2], profilePath)
	case "debug":
		util.LoggingEnabled = true
		if len(os.Args) < 4 {
			usage()
		}
		cmdRun(os.Args[2], os.Args[3])
	default:
		usage()
	}
}

func usage() {
	log.Fatalln("usage: riscv-core asm <src.s> <out.bin> | disasm <in.bin> | run <in.bin> [profile.toml]")
}

func cmdAssemble(srcPath, outPath string) {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		log.Fatalf("could not read %s: %v", srcPath, err)
	}
	result, err := asm.Assemble(string(src))
	if err != nil {
		log.Fatalf("assemble error: %v", err)
	}
	if err := os.WriteFile(outPath, result.Bytes(), 0o644); err != nil {
		log.Fatalf("could not write %s: %v", outPath, err)
	}
}

func cmdDisassemble(inPath string) {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		log.Fatalf("could not read %s: %v", inPath, err)
	}
	if len(raw)%4 != 0 {
		log.Fatalf("%s is not a whole number of 32-bit words", inPath)
	}
	fmt.Print(disasm.Disassemble(raw))
}

func cmdRun(inPath, profilePath string) {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		log.Fatalf("could not read %s: %v", inPath, err)
	}

	profile := vmconfig.DefaultProfile()
	if profilePath != "" {
		profile, err = vmconfig.Load(profilePath)
		if err != nil {
			log.Fatalf("could not load profile %s: %v", profilePath, err)
		}
	}

	p, err := vm.NewProcessor(profile, raw, 0)
	if err != nil {
		log.Fatalf("could not start processor: %v", err)
	}

	for {
		ok, err := p.Step()
		if err != nil {
			log.Fatalf("execution error: %v", err)
		}
		if !ok {
			break
		}
	}

	for i, v := range p.Registers {
		if v != 0 {
			fmt.Printf("x%-2d = 0x%08x\n", i, uint32(v))
		}
	}
	fmt.Printf("pc  = 0x%08x\n", uint32(p.PC))
}
