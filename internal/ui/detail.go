package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mohsinsiddi/w3deploy/internal/contract"
	"github.com/Mohsinsiddi/w3deploy/internal/ctorargs"
)

// DetailView is everything shown by the contract detail screen.
type DetailView struct {
	Contract *contract.Contract

	// Draft holds the constructor arguments. DraftErr is set instead when the
	// constructor could not be read from the ABI.
	Draft    *ctorargs.Draft
	DraftErr error

	Address    string // random candidate address, "" when not fetched
	AddressErr error

	Networks       []string
	DefaultNetwork string

	FullBytecode bool
	ShowSource   bool
}

// Render returns the detail screen as a string.
func (v DetailView) Render() string {
	c := v.Contract
	var sb strings.Builder

	sb.WriteString(StyleTitle.Render("  "+c.Name) + "  " + StyleMeta.Render(string(c.Format)) + "\n")
	sb.WriteString(KeyValueBlock("Compiler", v.compilerPairs()) + "\n\n")
	sb.WriteString(KeyValueBlock("Bytecode", v.bytecodePairs()) + "\n\n")

	sb.WriteString(section("ABI"))
	sb.WriteString(abiSummary(c))
	sb.WriteString(indent(c.PrettyABI(), "  ") + "\n\n")

	if v.ShowSource {
		sb.WriteString(section("Source"))
		if c.SourceCode == "" {
			sb.WriteString("  " + StyleMeta.Render("(no source in file)") + "\n\n")
		} else {
			sb.WriteString(indent(c.SourceCode, "  ") + "\n\n")
		}
	}

	sb.WriteString(section("Constructor arguments"))
	sb.WriteString(RenderParams(v.Draft, v.DraftErr))
	sb.WriteString("\n")

	sb.WriteString(section("Deployment"))
	sb.WriteString(v.deploymentLines())
	return sb.String()
}

// abiSummary lists entry counts and the signature of every entry.
func abiSummary(c *contract.Contract) string {
	entries, err := c.Entries()
	if err != nil {
		return ""
	}
	s := contract.Summarize(entries)
	var sb strings.Builder
	sb.WriteString("  " + StyleMeta.Render(fmt.Sprintf("%d read, %d write, %d events", s.Reads, s.Writes, s.Events)) + "\n")
	for _, e := range entries {
		if e.Type == "function" || e.Type == "constructor" {
			sb.WriteString("  " + StyleValue.Render(e.Signature()) + "\n")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func (v DetailView) compilerPairs() [][2]string {
	m := v.Contract.Metadata
	if m == nil {
		return [][2]string{{"Metadata", "not available"}}
	}
	optimizer := "disabled"
	if m.Settings.Optimizer.Enabled {
		optimizer = "enabled"
	}
	return [][2]string{
		{"Language", orDash(m.Language)},
		{"Version", orDash(m.Compiler.Version)},
		{"Optimizer", optimizer},
		{"Runs", strconv.FormatUint(m.Settings.Optimizer.Runs, 10)},
	}
}

func (v DetailView) bytecodePairs() [][2]string {
	code := v.Contract.Bytecode
	if len(code) == 0 {
		return [][2]string{{"Bytecode", "none (ABI only)"}}
	}
	pairs := [][2]string{
		{"Keccak-256", contract.CodeHash(code)},
		{"Size", fmt.Sprintf("%d bytes", len(code))},
	}
	if v.FullBytecode {
		pairs = append(pairs, [2]string{"Object", fmt.Sprintf("%x", code)})
	}
	return pairs
}

func (v DetailView) deploymentLines() string {
	var sb strings.Builder
	switch {
	case v.AddressErr != nil:
		sb.WriteString("  " + StyleMeta.Render(padR("Address", 12)) + Warn("unavailable: "+v.AddressErr.Error()) + "\n")
	case v.Address != "":
		sb.WriteString("  " + StyleMeta.Render(padR("Address", 12)) + Addr(v.Address) + "\n")
	}

	names := make([]string, len(v.Networks))
	for i, n := range v.Networks {
		names[i] = NetworkName(n)
		if n == v.DefaultNetwork {
			names[i] += StyleMeta.Render(" (default)")
		}
	}
	sb.WriteString("  " + StyleMeta.Render(padR("Networks", 12)) + strings.Join(names, ", ") + "\n")
	return sb.String()
}

// RenderParams shows the constructor hex and the decoded parameter table. An
// undecodable blob shows the status message in place of the table.
func RenderParams(d *ctorargs.Draft, abiErr error) string {
	var sb strings.Builder
	if abiErr != nil {
		sb.WriteString("  " + Err(abiErr.Error()) + "\n")
		return sb.String()
	}

	sb.WriteString("  " + StyleMeta.Render("0x") + StyleAddress.Render(wrapHex(d.Blob(), 64, "    ")) + "\n\n")

	params := d.Params()
	if len(params) == 0 {
		sb.WriteString("  " + StyleMeta.Render("constructor takes no arguments") + "\n")
		return sb.String()
	}

	values, err := d.Values()
	if err != nil {
		sb.WriteString("  " + StyleError.Render(d.Status().Message()) + "\n")
		return sb.String()
	}

	t := NewTable([]Column{
		{Title: "#", Width: 3},
		{Title: "Name", Width: 18},
		{Title: "Type", Width: 8},
		{Title: "Value", Width: 78},
	})
	for i, p := range params {
		name := p.Name
		if name == "" {
			name = "(unnamed)"
		}
		t.AddRow(Row{strconv.Itoa(i), name, p.Type, values[i].String()})
	}
	sb.WriteString(indent(strings.TrimRight(t.Render(), "\n"), "  ") + "\n")
	return sb.String()
}

func section(title string) string {
	return StyleHeader.Render("  "+title) + "\n"
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
