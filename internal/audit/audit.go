// Package audit wraps mutating operations and durably records who did what,
// from where, with what outcome. The wrapper observes only: it never swallows
// or alters the wrapped operation's result.
package audit

import (
	"encoding/json"
	"time"

	"go-cms-admin/internal/model"

	"go.uber.org/zap"
)

// Recorder persists audit entries. The audit log repository implements it.
type Recorder interface {
	Record(entry *model.AuditLog) error
}

type Auditor struct {
	recorder Recorder
	locator  Locator
	logger   *zap.Logger
}

func NewAuditor(recorder Recorder, locator Locator, logger *zap.Logger) *Auditor {
	return &Auditor{recorder: recorder, locator: locator, logger: logger}
}

// Run invokes fn and writes exactly one audit entry for it, success or fail.
// The geo lookup happens up front and is best effort; the duration covers fn
// only, not the lookup. fn's error is returned unchanged; a failed log write
// is logged but does not fail the call.
func (a *Auditor) Run(actor Actor, module, action, description string, params interface{}, fn func() error) error {
	location := unknownLocation
	if a.locator != nil {
		location = a.locator.Locate(actor.IP)
	}

	operator := actor.Username
	if operator == "" {
		operator = "unknown"
	}

	start := time.Now()
	err := fn()

	entry := &model.AuditLog{
		Module:      module,
		Action:      action,
		Description: description,
		Operator:    operator,
		IP:          actor.IP,
		Location:    location,
		Status:      model.AuditSuccess,
		DurationMs:  time.Since(start).Milliseconds(),
		Params:      marshalParams(params),
	}
	if err != nil {
		entry.Status = model.AuditFail
		entry.ErrorMsg = err.Error()
	}

	if recErr := a.recorder.Record(entry); recErr != nil {
		a.logger.Error("failed to write audit entry",
			zap.String("module", module),
			zap.String("action", action),
			zap.Error(recErr),
		)
	}

	return err
}

func marshalParams(params interface{}) string {
	if params == nil {
		return ""
	}
	data, err := json.Marshal(params)
	if err != nil {
		return ""
	}
	return string(data)
}
