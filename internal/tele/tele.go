package tele

import (
	"context"
	"sync"
	"time"

	"github.com/edomo/edomo/helpers"
	"github.com/edomo/edomo/log2"
	tele_api "github.com/edomo/edomo/tele"
	tele_config "github.com/edomo/edomo/tele/config"
	"github.com/juju/errors"
)

const (
	DefaultConnectTimeout = 10 * time.Second
	defaultErrorBuffer    = 32
	defaultTopicPrefix    = "edomo"
)

// Tele contract:
// - Init() fails only with invalid config, network issues ignored
// - Error() never blocks on network, text is kept in memory until Report
// - Report() publishes once, network is expected to be up for the call
// - on Report failure buffered errors are kept for next attempt
type tele struct {
	config    tele_config.Config
	log       *log2.Log
	transport Transporter

	mu   sync.Mutex
	errs []string
}

func New() tele_api.Teler {
	return &tele{}
}
func NewWithTransporter(trans Transporter) tele_api.Teler {
	return &tele{transport: trans}
}

func (self *tele) Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config) error {
	self.config = teleConfig
	self.log = log
	if self.config.LogDebug {
		self.log.SetLevel(log2.LDebug)
	}
	if self.config.TopicPrefix == "" {
		self.config.TopicPrefix = defaultTopicPrefix
	}
	if self.config.ClientID == "" {
		self.config.ClientID = self.config.TopicPrefix
	}
	if self.config.ErrorBuffer <= 0 {
		self.config.ErrorBuffer = defaultErrorBuffer
	}
	if !self.config.Enabled {
		return nil
	}

	// test code sets .transport
	if self.transport == nil { // production path
		self.transport = &transportMqtt{}
	}
	if err := self.transport.Init(ctx, log, self.config); err != nil {
		return errors.Annotate(err, "tele transport")
	}
	return nil
}

func (self *tele) Close() {
	if self.transport != nil {
		self.transport.Close()
	}
}

func (self *tele) pushError(s string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if n := self.config.ErrorBuffer; n > 0 && len(self.errs) >= n {
		copy(self.errs, self.errs[1:])
		self.errs = self.errs[:len(self.errs)-1]
	}
	self.errs = append(self.errs, s)
}

func (self *tele) takeErrors() (errs []string) {
	helpers.WithLock(&self.mu, func() { errs, self.errs = self.errs, nil })
	return errs
}

// returnErrors puts not delivered errors back before newer ones.
func (self *tele) returnErrors(errs []string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	all := append(errs, self.errs...)
	if over := len(all) - self.config.ErrorBuffer; over > 0 {
		all = all[over:]
	}
	self.errs = all
}

func TopicStatus(prefix string) string { return prefix + "/status" }
