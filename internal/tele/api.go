package tele

import (
	"context"
	"encoding/json"

	tele_api "github.com/edomo/edomo/tele"
	"github.com/juju/errors"
)

const logMsgDisabled = "tele disabled"

func (self *tele) Error(e error) {
	if e == nil {
		return
	}
	if !self.config.Enabled {
		self.log.Debugf(logMsgDisabled)
		return
	}
	self.log.Debugf("tele.Error: %s", errors.ErrorStack(e))
	self.pushError(e.Error())
}

func (self *tele) Report(ctx context.Context, s *tele_api.Status) error {
	if !self.config.Enabled {
		self.log.Debugf(logMsgDisabled)
		return nil
	}

	errs := self.takeErrors()
	wire := *s
	wire.Errors = append(append([]string(nil), s.Errors...), errs...)
	payload, err := json.Marshal(&wire)
	if err != nil {
		self.returnErrors(errs)
		return errors.Annotate(err, "tele status marshal")
	}
	topic := TopicStatus(self.config.TopicPrefix)
	if err = self.transport.Publish(ctx, topic, payload); err != nil {
		self.returnErrors(errs)
		return errors.Annotatef(err, "tele publish topic=%s", topic)
	}
	self.log.Debugf("tele status sent bytes=%d errors=%d", len(payload), len(errs))
	return nil
}
