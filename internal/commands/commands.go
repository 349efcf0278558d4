// Package commands is the table of command names offered while a command
// is typed, with the template each one inserts.
package commands

import (
	"sort"
	"strings"

	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/editor"
	"github.com/dshills/mathfield/internal/latex"
)

// Command is one entry of the table.
type Command struct {
	// Name includes the leading backslash.
	Name string
	// Template is the LaTeX inserted when the command is accepted.
	Template string
	// Kind is the kind of the atom the template produces.
	Kind atom.Kind
	// Weight ranks commonly used commands first.
	Weight int
}

// Table is a set of commands. The zero value is empty and usable.
type Table struct {
	byName map[string]Command
}

// New returns a table holding the given commands.
func New(cmds ...Command) *Table {
	t := &Table{}
	for _, c := range cmds {
		t.Add(c)
	}
	return t
}

// Default returns the built-in table: structural templates plus every
// symbol the latex package knows.
func Default() *Table {
	t := New(structural...)
	for _, name := range latex.SymbolNames() {
		if _, ok := t.byName[name]; ok || !isWord(name) {
			continue
		}
		t.Add(Command{Name: name, Template: name, Kind: atom.KindOrd, Weight: weights[name]})
	}
	return t
}

// Add registers or replaces a command.
func (t *Table) Add(c Command) {
	if t.byName == nil {
		t.byName = make(map[string]Command)
	}
	if !strings.HasPrefix(c.Name, `\`) {
		c.Name = `\` + c.Name
	}
	if c.Template == "" {
		c.Template = c.Name
	}
	t.byName[c.Name] = c
}

// Lookup returns the command with the given name.
func (t *Table) Lookup(name string) (Command, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Len returns the number of commands.
func (t *Table) Len() int {
	return len(t.byName)
}

// Suggest returns the commands starting with partial: an exact match
// first, then by descending weight, then alphabetically. A bare
// backslash matches nothing.
func (t *Table) Suggest(partial string) []editor.Suggestion {
	if len(partial) < 2 || !strings.HasPrefix(partial, `\`) {
		return nil
	}
	var found []Command
	for name, c := range t.byName {
		if strings.HasPrefix(name, partial) {
			found = append(found, c)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if (a.Name == partial) != (b.Name == partial) {
			return a.Name == partial
		}
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		return a.Name < b.Name
	})
	out := make([]editor.Suggestion, len(found))
	for i, c := range found {
		out[i] = editor.Suggestion{Match: c.Name, Value: c.Template}
	}
	return out
}

func isWord(name string) bool {
	if len(name) < 3 {
		return false
	}
	for _, r := range name[1:] {
		if r < 'A' || r > 'z' || (r > 'Z' && r < 'a') {
			return false
		}
	}
	return true
}

var structural = []Command{
	{Name: `\frac`, Template: `\frac{#@}{#?}`, Kind: atom.KindFraction, Weight: 10},
	{Name: `\dfrac`, Template: `\dfrac{#@}{#?}`, Kind: atom.KindFraction},
	{Name: `\sqrt`, Template: `\sqrt{#@}`, Kind: atom.KindRadical, Weight: 8},
	{Name: `\nthroot`, Template: `\sqrt[#?]{#@}`, Kind: atom.KindRadical},
	{Name: `\pmatrix`, Template: `\begin{pmatrix}#?&#?\\#?&#?\end{pmatrix}`, Kind: atom.KindArray, Weight: 2},
	{Name: `\bmatrix`, Template: `\begin{bmatrix}#?&#?\\#?&#?\end{bmatrix}`, Kind: atom.KindArray, Weight: 1},
	{Name: `\cases`, Template: `\begin{cases}#?&#?\\#?&#?\end{cases}`, Kind: atom.KindArray},
	{Name: `\text`, Template: `\text{#@}`, Kind: atom.KindTextOrd},
	{Name: `\boxed`, Template: `\boxed{#@}`, Kind: atom.KindBox},
	{Name: `\overset`, Template: `\overset{#?}{#@}`, Kind: atom.KindOverUnder},
	{Name: `\underset`, Template: `\underset{#?}{#@}`, Kind: atom.KindOverUnder},
}

var weights = map[string]int{
	`\alpha`: 5,
	`\beta`:  4,
	`\pi`:    6,
	`\theta`: 4,
	`\sum`:   5,
	`\int`:   5,
	`\infty`: 5,
	`\times`: 4,
}
