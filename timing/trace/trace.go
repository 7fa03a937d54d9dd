// Package trace turns simulator hook events into structured log entries.
package trace

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rvsim/timing/cache"
	"github.com/sarchlab/rvsim/timing/core"
)

// LogHook logs cache events and retired instructions at Debug level.
// Attach it to a cache.Cache or a core.Core with AcceptHook.
type LogHook struct {
	logger logrus.FieldLogger
}

// NewLogHook creates a LogHook that writes to logger.
func NewLogHook(logger logrus.FieldLogger) *LogHook {
	return &LogHook{logger: logger}
}

// Func implements sim.Hook.
func (h *LogHook) Func(ctx sim.HookCtx) {
	switch item := ctx.Item.(type) {
	case core.Retired:
		h.retired(item)
	case cache.Event:
		h.cacheEvent(ctx.Pos, item)
	}
}

func (h *LogHook) retired(r core.Retired) {
	fields := logrus.Fields{
		"pc":   hex(r.PC),
		"next": hex(r.NextPC),
	}
	if r.Written {
		fields["rd"] = fmt.Sprintf("x%d", r.Rd)
		fields["value"] = hex(r.Value)
	}

	h.logger.WithFields(fields).Debug(r.Inst.String())
}

func (h *LogHook) cacheEvent(pos *sim.HookPos, e cache.Event) {
	h.logger.WithFields(logrus.Fields{
		"set":  e.Set,
		"tag":  hex(e.Tag),
		"addr": hex(e.Addr),
	}).Debug(pos.Name)
}

func hex(v uint64) string {
	return fmt.Sprintf("0x%x", v)
}
