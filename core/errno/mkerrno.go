//go:build ignore

// mkerrno fetches the kernel's errno headers and writes the errno table of
// one architecture family. mips and powerpc override parts of the generic
// numbering.
//
//	go run mkerrno.go -version 6.9 -arch mipsx
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const linuxRepo = "https://raw.githubusercontent.com/torvalds/linux"

type family struct {
	constraint string
	headers    []string
}

// Headers are read in order. An #undef drops what earlier headers defined.
var families = map[string]family{
	"generic": {
		constraint: "linux && !mips && !mipsle && !mips64 && !mips64le && !ppc64 && !ppc64le",
		headers: []string{
			"include/uapi/asm-generic/errno-base.h",
			"include/uapi/asm-generic/errno.h",
			"include/linux/errno.h",
		},
	},
	"mipsx": {
		constraint: "linux && (mips || mipsle || mips64 || mips64le)",
		headers: []string{
			"include/uapi/asm-generic/errno-base.h",
			"arch/mips/include/uapi/asm/errno.h",
			"include/linux/errno.h",
		},
	},
	"ppc64x": {
		constraint: "linux && (ppc64 || ppc64le)",
		headers: []string{
			"include/uapi/asm-generic/errno-base.h",
			"include/uapi/asm-generic/errno.h",
			"arch/powerpc/include/uapi/asm/errno.h",
			"include/linux/errno.h",
		},
	},
}

// kernel-internal codes without a comment in the header
var fallbackDesc = map[string]string{
	"ERESTARTSYS":    "Restart syscall",
	"ERESTARTNOINTR": "Restart if no interrupt",
}

var (
	defineRe = regexp.MustCompile(`^#\s*define\s+(E[A-Z0-9_]+)\s+(\S+)\s*(?:/\*\s*(.*?)\s*\*/)?`)
	undefRe  = regexp.MustCompile(`^#\s*undef\s+(E[A-Z0-9_]+)`)
)

type def struct {
	name string
	code int
	desc string
}

func main() {
	version := flag.String("version", "6.9", "kernel version tag to read the headers from")
	arch := flag.String("arch", "generic", "architecture family: generic, mipsx or ppc64x")
	out := flag.String("o", "", "output file, zerrno_linux_<arch>.go by default")
	flag.Parse()

	fam, ok := families[*arch]
	if !ok {
		slog.Error("Unknown architecture family:", slog.String("Arch", *arch))
		os.Exit(1)
	}
	if *out == "" {
		*out = "zerrno_linux_" + *arch + ".go"
	}

	defs := map[string]def{}
	aliases := map[string]string{}
	for _, h := range fam.headers {
		body, err := fetch(*version, h)
		if err != nil {
			slog.Error("Failed to fetch header:", slog.String("Header", h), slog.Any("Error", err))
			os.Exit(1)
		}
		if err := parse(body, defs, aliases); err != nil {
			slog.Error("Failed to parse header:", slog.String("Header", h), slog.Any("Error", err))
			os.Exit(1)
		}
	}

	src, err := render(fam.constraint, defs, aliases)
	if err != nil {
		slog.Error("Failed to render table:", slog.Any("Error", err))
		os.Exit(1)
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil {
		slog.Error("Failed to write table:", slog.String("Output", *out), slog.Any("Error", err))
		os.Exit(1)
	}
	slog.Info("Finish to generate errno table:", slog.String("Output", *out), slog.Int("Count", len(defs)))
}

func fetch(version, path string) ([]byte, error) {
	url := fmt.Sprintf("%s/v%s/%s", linuxRepo, version, path)
	slog.Info("Fetching header:", slog.String("URL", url))
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}
	return io.ReadAll(resp.Body)
}

func parse(body []byte, defs map[string]def, aliases map[string]string) error {
	s := bufio.NewScanner(bytes.NewReader(body))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if m := undefRe.FindStringSubmatch(line); m != nil {
			delete(defs, m[1])
			delete(aliases, m[1])
			continue
		}
		m := defineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, value, desc := m[1], m[2], m[3]
		if strings.HasPrefix(value, "E") {
			delete(defs, name)
			aliases[name] = value
			continue
		}
		code, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		if desc == "" {
			desc = fallbackDesc[name]
		}
		if desc == "" {
			return fmt.Errorf("no description for %s", name)
		}
		if prev, ok := defs[name]; ok && prev.code != code {
			return fmt.Errorf("%s defined as both %d and %d", name, prev.code, code)
		}
		delete(aliases, name)
		defs[name] = def{name: name, code: code, desc: desc}
	}
	return s.Err()
}

func render(constraint string, defs map[string]def, aliases map[string]string) ([]byte, error) {
	sorted := make([]def, 0, len(defs))
	for _, d := range defs {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].code < sorted[j].code })

	aliasNames := make([]string, 0, len(aliases))
	for a, target := range aliases {
		if _, ok := defs[target]; !ok {
			return nil, fmt.Errorf("alias %s refers to unknown %s", a, target)
		}
		aliasNames = append(aliasNames, a)
	}
	sort.Strings(aliasNames)

	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by mkerrno.go; DO NOT EDIT.\n\n//go:build %s\n\npackage errno\n\nconst (\n", constraint)
	for _, d := range sorted {
		fmt.Fprintf(&b, "\t%s Errno = %d // %s\n", d.name, d.code, d.desc)
	}
	b.WriteString("\n")
	for _, a := range aliasNames {
		fmt.Fprintf(&b, "\t%s = %s\n", a, aliases[a])
	}
	b.WriteString(")\n\nvar table = [...]entry{\n")
	for _, d := range sorted {
		fmt.Fprintf(&b, "\t%s: {%q, %q},\n", d.name, d.name, d.desc)
	}
	b.WriteString("}\n")
	return format.Source(b.Bytes())
}
