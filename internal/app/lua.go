package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/mathfield/internal/event"
	"github.com/dshills/mathfield/internal/event/topic"
)

// LuaModule is the global table a Lua script drives the session through.
const LuaModule = "mf"

// luaHost binds one Lua state to a session for the length of a script.
//
// gopher-lua's LState is not goroutine-safe. Event handlers registered
// with mf.on run on the goroutine that publishes, which is the one running
// the script, because only script actions change the model.
type luaHost struct {
	app *Application
	L   *lua.LState
	out io.Writer

	// busy is set while an action runs. Handlers it triggers may read the
	// model but not start another action.
	busy       bool
	quit       bool
	handlerErr error
	subs       map[string]*event.Subscription
}

// RunLua executes the Lua script read from r; name labels it in error
// messages. The global table mf has one function per script action taking
// the action's argument as a string, e.g. mf.type("x^2") or
// mf.row("after"). Each writes the state line to w as Run does and
// returns it, or writes the error line and returns nil and the message.
// mf.value, mf.selection and mf.mode read the model; mf.on, mf.once and
// mf.off subscribe functions to model events. mf.quit ends the script.
//
// Only the base, table, string and math libraries are available, and
// print writes to w. A Lua error stops the script with ErrScript.
func (a *Application) RunLua(ctx context.Context, name string, r io.Reader, w io.Writer) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	L.SetContext(ctx)

	h := &luaHost{app: a, L: L, out: w, subs: make(map[string]*event.Subscription)}
	defer h.unsubscribeAll()
	h.openLibraries()
	h.register()

	fn, err := L.Load(r, name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrScript, luaMessage(err))
	}
	a.logger.Debug("lua script loaded", zap.String("name", name))

	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		if h.quit {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s", ErrScript, luaMessage(err))
	}
	return nil
}

// openLibraries opens the libraries that cannot reach outside the session.
func (h *luaHost) openLibraries() {
	L := h.L
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(h.print))
}

func (h *luaHost) register() {
	L := h.L
	mod := L.NewTable()
	for name := range actions {
		L.SetField(mod, name, L.NewFunction(h.action(name)))
	}
	L.SetField(mod, "quit", L.NewFunction(h.quitScript))
	L.SetField(mod, "value", L.NewFunction(h.value))
	L.SetField(mod, "selection", L.NewFunction(h.selection))
	L.SetField(mod, "mode", L.NewFunction(h.mode))
	L.SetField(mod, "on", L.NewFunction(h.on))
	L.SetField(mod, "once", L.NewFunction(h.once))
	L.SetField(mod, "off", L.NewFunction(h.off))
	L.SetGlobal(LuaModule, mod)
}

// action(arg) -> state | nil, message
func (h *luaHost) action(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		if h.busy {
			L.RaiseError("%s.%s called from an event handler", LuaModule, name)
			return 0
		}
		arg := L.OptString(1, "")
		state, err := h.exec(name, arg)
		if herr := h.handlerErr; herr != nil {
			h.handlerErr = nil
			L.RaiseError("event handler: %s", luaMessage(herr))
			return 0
		}
		if err != nil {
			fmt.Fprintf(h.out, "error: %v\n", err)
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		fmt.Fprintln(h.out, state)
		L.Push(lua.LString(state))
		return 1
	}
}

func (h *luaHost) exec(name, arg string) (string, error) {
	h.busy = true
	defer func() { h.busy = false }()
	return h.app.exec(h.line(), name, arg)
}

// line returns the script line calling the current Go function.
func (h *luaHost) line() int {
	where := strings.TrimSuffix(h.L.Where(1), ":")
	n, err := strconv.Atoi(where[strings.LastIndexByte(where, ':')+1:])
	if err != nil {
		return 0
	}
	return n
}

// quit() stops the script without an error.
func (h *luaHost) quitScript(L *lua.LState) int {
	h.quit = true
	L.RaiseError("quit")
	return 0
}

// read runs fn under the session lock, unless an action already holds it.
func (h *luaHost) read(fn func()) {
	if !h.busy {
		h.app.mu.Lock()
		defer h.app.mu.Unlock()
	}
	fn()
}

// value() -> latex
func (h *luaHost) value(L *lua.LState) int {
	var v string
	var err error
	h.read(func() { v, err = h.app.model.Value() })
	if err != nil {
		L.RaiseError("value: %v", err)
		return 0
	}
	L.Push(lua.LString(v))
	return 1
}

// selection() -> path string
func (h *luaHost) selection(L *lua.LState) int {
	var s string
	h.read(func() { s = h.app.model.SelectionString() })
	L.Push(lua.LString(s))
	return 1
}

// mode() -> "math" | "text" | "command"
func (h *luaHost) mode(L *lua.LState) int {
	var s string
	h.read(func() { s = h.app.model.Mode().String() })
	L.Push(lua.LString(s))
	return 1
}

// on(pattern, fn) -> id
// fn receives the event topic, and the affected atom count for
// announcements.
func (h *luaHost) on(L *lua.LState) int {
	return h.subscribe(L)
}

// once(pattern, fn) -> id
func (h *luaHost) once(L *lua.LState) int {
	return h.subscribe(L, event.WithOnce())
}

func (h *luaHost) subscribe(L *lua.LState, opts ...event.SubscriptionOption) int {
	pattern := topic.Topic(L.CheckString(1))
	fn := L.CheckFunction(2)

	sub, err := h.app.hub.SubscribeFunc(pattern, func(ev event.Event) error {
		args := []lua.LValue{lua.LString(ev.Topic)}
		if ev.Announcement() != "" {
			args = append(args, lua.LNumber(len(ev.Atoms)))
		}
		err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
		if err != nil && h.handlerErr == nil {
			h.handlerErr = err
		}
		return err
	}, opts...)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	h.subs[sub.ID()] = sub
	L.Push(lua.LString(sub.ID()))
	return 1
}

// off(id) -> bool
func (h *luaHost) off(L *lua.LState) int {
	id := L.CheckString(1)
	sub, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
		ok = h.app.hub.Unsubscribe(sub) == nil
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (h *luaHost) unsubscribeAll() {
	for id, sub := range h.subs {
		// once-subscriptions that fired are already gone.
		if err := h.app.hub.Unsubscribe(sub); err != nil && !errors.Is(err, event.ErrSubscriptionNotFound) {
			h.app.logger.Warn("lua unsubscribe failed", zap.String("id", id), zap.Error(err))
		}
		delete(h.subs, id)
	}
}

// print(...) writes its arguments to the script output, tab separated.
func (h *luaHost) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(h.out, strings.Join(parts, "\t"))
	return 0
}

// luaMessage returns the Lua error value without the traceback.
func luaMessage(err error) string {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		return apiErr.Object.String()
	}
	return err.Error()
}
