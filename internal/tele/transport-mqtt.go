package tele

import (
	"context"
	"net/url"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/edomo/edomo/helpers"
	"github.com/edomo/edomo/log2"
	tele_config "github.com/edomo/edomo/tele/config"
	"github.com/juju/errors"
)

// disconnect quiesce, milliseconds
const disconnectQuiesce = 250

type transportMqtt struct {
	log     *log2.Log
	mopt    *mqtt.ClientOptions
	timeout time.Duration
}

func (self *transportMqtt) Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config) error {
	self.log = log
	mqtt.ERROR = log
	mqtt.CRITICAL = log
	mqtt.WARN = log
	if teleConfig.LogDebug {
		mqtt.DEBUG = log
	}

	if _, err := url.ParseRequestURI(teleConfig.MqttBroker); err != nil {
		return errors.Annotatef(err, "tele mqtt_broker=%q", teleConfig.MqttBroker)
	}
	self.timeout = helpers.IntSecondDefault(teleConfig.ConnectTimeoutSec, DefaultConnectTimeout)
	self.mopt = mqtt.NewClientOptions().
		AddBroker(teleConfig.MqttBroker).
		SetClientID(teleConfig.ClientID).
		SetCleanSession(true).
		SetConnectTimeout(self.timeout).
		SetWriteTimeout(self.timeout).
		SetAutoReconnect(false).
		SetOnConnectHandler(self.onConnectHandler).
		SetConnectionLostHandler(self.connectLostHandler)
	if teleConfig.MqttUsername != "" {
		self.mopt.SetUsername(teleConfig.MqttUsername).SetPassword(teleConfig.MqttPassword)
	}
	return nil
}

func (self *transportMqtt) Publish(ctx context.Context, topic string, payload []byte) error {
	timeout := self.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	m := mqtt.NewClient(self.mopt)
	if token := m.Connect(); !token.WaitTimeout(timeout) {
		return errors.Timeoutf("mqtt connect")
	} else if err := token.Error(); err != nil {
		return errors.Annotate(err, "mqtt connect")
	}
	defer m.Disconnect(disconnectQuiesce)

	token := m.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(timeout) {
		return errors.Timeoutf("mqtt publish topic=%s", topic)
	}
	return errors.Annotate(token.Error(), "mqtt publish")
}

func (self *transportMqtt) Close() {}

func (self *transportMqtt) connectLostHandler(c mqtt.Client, err error) {
	self.log.Infof("mqtt disconnect err=%v", err)
}

func (self *transportMqtt) onConnectHandler(c mqtt.Client) {
	self.log.Debugf("mqtt connect")
}
