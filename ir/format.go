package ir

import (
	"fmt"
	"strings"
)

// Format returns a readable text representation of the assembly.
func Format(a *Assembly) string {
	if a == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "assembly %s\n", a.Name)
	fmt.Fprintf(&b, "mvid %s\n", a.Mvid)
	if a.EntryPoint != nil {
		fmt.Fprintf(&b, "entry %s\n", a.EntryPoint.Name)
	} else {
		b.WriteString("entry <none>\n")
	}
	writeModule(&b, a.Root, "")
	return b.String()
}

// FormatProcedure returns the text representation of a single procedure.
func FormatProcedure(p *Procedure) string {
	var b strings.Builder
	writeProcedure(&b, p, "")
	return b.String()
}

func writeModule(b *strings.Builder, m *Module, indent string) {
	fmt.Fprintf(b, "\n%smodule %s\n", indent, m.Name)
	inner := indent + "  "
	for _, f := range m.Fields {
		writeField(b, f, inner)
	}
	for _, p := range m.Properties {
		fmt.Fprintf(b, "%sproperty %s", inner, p.Name)
		if p.Getter != nil {
			fmt.Fprintf(b, " get %s", p.Getter.Name)
		}
		if p.Setter != nil {
			fmt.Fprintf(b, " set %s", p.Setter.Name)
		}
		b.WriteString("\n")
	}
	if m.HasGlobalInitializer() {
		writeProcedure(b, m.GlobalInitializer(), inner)
	}
	for _, p := range m.Procedures() {
		writeProcedure(b, p, inner)
	}
	for _, c := range m.Classes {
		fmt.Fprintf(b, "%sclass %s\n", inner, c.Name)
		for _, f := range c.Fields {
			writeField(b, f, inner+"  ")
		}
		for _, p := range c.Procedures() {
			writeProcedure(b, p, inner+"  ")
		}
	}
	for _, sub := range m.Submodules {
		writeModule(b, sub, inner)
	}
}

func writeField(b *strings.Builder, f *Field, indent string) {
	if f.Static {
		fmt.Fprintf(b, "%sfield static %s: %s\n", indent, f.Name, f.Type)
		return
	}
	fmt.Fprintf(b, "%sfield %s: %s\n", indent, f.Name, f.Type)
}

func writeProcedure(b *strings.Builder, p *Procedure, indent string) {
	fmt.Fprintf(b, "%sproc %s(", indent, p.Name)
	for i, param := range p.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s %s: %s", param, param.Name, param.Type())
	}
	fmt.Fprintf(b, ") -> %s\n", p.ReturnType)

	inner := indent + "  "
	for _, l := range p.Locals() {
		if l.Synthesized {
			fmt.Fprintf(b, "%slocal %s <%s>: %s\n", inner, l, l.Name, l.Type())
		} else {
			fmt.Fprintf(b, "%slocal %s %s: %s\n", inner, l, l.Name, l.Type())
		}
	}
	for _, block := range p.Blocks() {
		if block.Label != nil {
			fmt.Fprintf(b, "%s%s (%s):\n", inner, block.Name(), block.Label.Name())
		} else {
			fmt.Fprintf(b, "%s%s:\n", inner, block.Name())
		}
		for _, instr := range block.Instructions {
			fmt.Fprintf(b, "%s  %s\n", inner, instr)
		}
	}
}
