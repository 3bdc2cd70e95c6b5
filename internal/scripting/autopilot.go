package scripting

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/staws/sim/internal/physics"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// PilotContext is the state handed to an autopilot function.
type PilotContext struct {
	Name         string
	Time         float64 // simulated seconds since start
	Dt           float64
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Acceleration mgl64.Vec3
	Heading      float64 // degrees counter-clockwise from +Y
	Mass         float64
	Fuel         float64
	MaxThrust    float64
}

// Command is what an autopilot resolved for one tick. A nil Throttle leaves
// the engine setting as it is.
type Command struct {
	Throttle physics.Throttle
	Turn     float64 // [-1,1]
}

// Autopilot calls the Lua function fn with ctx. The script returns a table
// with either engine (bool) or throttle (number), and optionally turn.
// ok is false when the function is missing, fails, or returns a non-table.
func (e *Engine) Autopilot(fn string, ctx PilotContext) (Command, bool) {
	f := e.vm.GetGlobal(fn)
	if f == lua.LNil {
		e.log.Error("lua autopilot function not found", zap.String("func", fn))
		return Command{}, false
	}

	t := e.vm.NewTable()
	t.RawSetString("name", lua.LString(ctx.Name))
	t.RawSetString("time", lua.LNumber(ctx.Time))
	t.RawSetString("dt", lua.LNumber(ctx.Dt))
	t.RawSetString("position", e.vec(ctx.Position.X(), ctx.Position.Y(), ctx.Position.Z()))
	t.RawSetString("velocity", e.vec(ctx.Velocity.X(), ctx.Velocity.Y(), ctx.Velocity.Z()))
	t.RawSetString("acceleration", e.vec(ctx.Acceleration.X(), ctx.Acceleration.Y(), ctx.Acceleration.Z()))
	t.RawSetString("heading", lua.LNumber(ctx.Heading))
	t.RawSetString("mass", lua.LNumber(ctx.Mass))
	t.RawSetString("fuel", lua.LNumber(ctx.Fuel))
	t.RawSetString("max_thrust", lua.LNumber(ctx.MaxThrust))

	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua autopilot error", zap.String("func", fn), zap.Error(err))
		return Command{}, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua autopilot returned non-table", zap.String("func", fn))
		return Command{}, false
	}

	var cmd Command
	if v := rt.RawGetString("engine"); v != lua.LNil {
		cmd.Throttle = physics.Fixed{On: lua.LVAsBool(v)}
	} else if v := rt.RawGetString("throttle"); v != lua.LNil {
		amount := float64(lua.LVAsNumber(v))
		if !finite(amount) {
			e.log.Error("lua autopilot returned non-finite throttle",
				zap.String("func", fn), zap.Float64("throttle", amount))
			return Command{}, false
		}
		cmd.Throttle = physics.Variable{Amount: amount}
	}
	turn := lNum(rt, "turn")
	if !finite(turn) {
		e.log.Error("lua autopilot returned non-finite turn",
			zap.String("func", fn), zap.Float64("turn", turn))
		return Command{}, false
	}
	cmd.Turn = math.Max(-1, math.Min(1, turn))
	return cmd, true
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// HeadingOf converts an orientation to degrees counter-clockwise from +Y.
func HeadingOf(q mgl64.Quat) float64 {
	f := q.Rotate(physics.Forward)
	return mgl64.RadToDeg(math.Atan2(-f.X(), f.Y()))
}
