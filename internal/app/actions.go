package app

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/editor"
)

// action is one script command.
type action struct {
	usage string
	run   func(a *Application, arg string) error
}

var actions = map[string]action{
	"type":     {"type TEXT", func(a *Application, arg string) error { return a.model.Type(arg) }},
	"latex":    {"latex LATEX", insertAs(editor.FormatLatex)},
	"text":     {"text TEXT", insertAs(editor.FormatText)},
	"set":      {"set LATEX", func(a *Application, arg string) error { return a.model.SetValue(arg) }},
	"move":     {"move left|right|up|down|home|end|word-left|word-right", navigate(false)},
	"extend":   {"extend left|right|up|down|home|end|word-left|word-right", navigate(true)},
	"delete":   {"delete back|forward|selection", deleteAction},
	"select":   {"select all|PATH", selectAction},
	"collapse": {"collapse start|end", withDir("collapse", (*editor.Model).Collapse)},
	"leap":     {"leap next|prev", withDir("leap", (*editor.Model).Leap)},
	"row":      {"row before|after|remove", arrayAction("row")},
	"col":      {"col before|after|remove", arrayAction("col")},
	"script":   {"script sup|sub", scriptAction},
	"fence":    {"fence DELIMITER", fenceAction},
	"style":    {"style KEY=VALUE...", styleAction},
	"mode":     {"mode math|text", modeAction},
	"cmd":      {"cmd [NAME]", commandAction},
	"complete": {"complete [typed]", completeAction},
	"cycle":    {"cycle next|prev", withDir("cycle", (*editor.Model).CycleSuggestion)},
	"escape":   {"escape", refusable((*editor.Model).ExitCommandMode)},
	"compose":  {"compose TEXT", composeAction},
	"commit":   {"commit", func(a *Application, _ string) error { return a.model.CommitComposition() }},
	"undo":     {"undo", func(a *Application, _ string) error { return a.recorder.Undo() }},
	"redo":     {"redo", func(a *Application, _ string) error { return a.recorder.Redo() }},
	"print":    {"print", func(*Application, string) error { return nil }},
	"quit":     {"quit", func(*Application, string) error { return ErrQuit }},
}

func lookup(name string) (action, bool) {
	act, ok := actions[name]
	return act, ok
}

// Usage returns one usage line per script action, sorted by name.
func Usage() []string {
	out := make([]string, 0, len(actions))
	for _, name := range slices.Sorted(maps.Keys(actions)) {
		out = append(out, actions[name].usage)
	}
	return out
}

func refused(ok bool) error {
	if !ok {
		return ErrRefused
	}
	return nil
}

func refusable(fn func(*editor.Model) bool) func(*Application, string) error {
	return func(a *Application, _ string) error { return refused(fn(a.model)) }
}

func badArg(arg string) error {
	return fmt.Errorf("%w: %q", ErrBadArgument, arg)
}

func insertAs(format editor.Format) func(*Application, string) error {
	return func(a *Application, arg string) error {
		s := a.model.Settings()
		return a.model.InsertText(arg, editor.InsertOptions{
			Mode:      s.InsertMode,
			Selection: s.SelectionMode,
			Format:    format,
		})
	}
}

var directions = map[string]int{
	"left": -1, "prev": -1, "back": -1, "start": -1, "before": -1,
	"right": 1, "next": 1, "forward": 1, "end": 1, "after": 1,
}

func withDir(name string, fn func(*editor.Model, int) bool) func(*Application, string) error {
	return func(a *Application, arg string) error {
		dir, ok := directions[arg]
		if !ok {
			return badArg(arg)
		}
		return refused(fn(a.model, dir))
	}
}

func navigate(extend bool) func(*Application, string) error {
	return func(a *Application, arg string) error {
		m := a.model
		switch arg {
		case "left", "right":
			if extend {
				return refused(m.Extend(directions[arg]))
			}
			return refused(m.Move(directions[arg]))
		case "up":
			return refused(m.MoveUp(extend))
		case "down":
			return refused(m.MoveDown(extend))
		case "home":
			return refused(m.Jump(-1, extend))
		case "end":
			return refused(m.Jump(1, extend))
		case "word-left":
			return refused(m.Skip(-1, extend))
		case "word-right":
			return refused(m.Skip(1, extend))
		}
		return badArg(arg)
	}
}

func deleteAction(a *Application, arg string) error {
	switch arg {
	case "", "back":
		return refused(a.model.Delete(-1))
	case "forward":
		return refused(a.model.Delete(1))
	case "selection":
		return refused(a.model.Delete(0))
	}
	return badArg(arg)
}

func selectAction(a *Application, arg string) error {
	if arg == "all" {
		a.model.SelectAll()
		return nil
	}
	return a.model.SetSelectionString(arg)
}

func arrayAction(kind string) func(*Application, string) error {
	return func(a *Application, arg string) error {
		m := a.model
		ops := map[string]func() bool{
			"row before": m.AddRowBefore,
			"row after":  m.AddRowAfter,
			"row remove": m.RemoveRow,
			"col before": m.AddColumnBefore,
			"col after":  m.AddColumnAfter,
			"col remove": m.RemoveColumn,
		}
		op, ok := ops[kind+" "+arg]
		if !ok {
			return badArg(arg)
		}
		return refused(op())
	}
}

func scriptAction(a *Application, arg string) error {
	switch arg {
	case "sup":
		return refused(a.model.AddScript(atom.Superscript))
	case "sub":
		return refused(a.model.AddScript(atom.Subscript))
	}
	return badArg(arg)
}

func fenceAction(a *Application, arg string) error {
	if !editor.IsFence(arg) {
		return badArg(arg)
	}
	return refused(a.model.InsertFence(arg, atom.Style{}))
}

// styleAction parses "color=red weight=bold" into a style and toggles it
// on the selection.
func styleAction(a *Application, arg string) error {
	var st atom.Style
	fields := map[string]*string{
		"family":     &st.Family,
		"weight":     &st.Weight,
		"shape":      &st.Shape,
		"size":       &st.Size,
		"color":      &st.Color,
		"background": &st.Background,
	}
	for _, kv := range strings.Fields(arg) {
		k, v, ok := strings.Cut(kv, "=")
		dst, known := fields[k]
		if !ok || !known || v == "" {
			return badArg(kv)
		}
		*dst = v
	}
	if st.IsZero() {
		return badArg(arg)
	}
	return refused(a.model.ApplyStyle(st))
}

func modeAction(a *Application, arg string) error {
	mode, ok := atom.ParseMode(arg)
	if !ok || mode == atom.ModeCommand {
		return badArg(arg)
	}
	a.model.SetMode(mode)
	return nil
}

// commandAction starts a command and types name into it.
func commandAction(a *Application, arg string) error {
	m := a.model
	if !m.InCommandMode() && !m.EnterCommandMode() {
		return ErrRefused
	}
	for _, r := range arg {
		if !m.TypeCommand(r) {
			return ErrRefused
		}
	}
	return nil
}

func completeAction(a *Application, arg string) error {
	switch arg {
	case "":
		return refused(a.model.CompleteCommand(true))
	case "typed":
		return refused(a.model.CompleteCommand(false))
	}
	return badArg(arg)
}

func composeAction(a *Application, arg string) error {
	if arg == "" {
		return refused(a.model.CancelComposition())
	}
	return refused(a.model.SetComposition(arg))
}
