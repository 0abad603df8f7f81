package tele_config

type Config struct {
	Enabled           bool   `hcl:"enable"`
	LogDebug          bool   `hcl:"log_debug"`
	MqttBroker        string `hcl:"mqtt_broker"`
	MqttUsername      string `hcl:"mqtt_username"`
	MqttPassword      string `hcl:"mqtt_password"`
	ClientID          string `hcl:"client_id"`
	TopicPrefix       string `hcl:"topic_prefix"`
	ConnectTimeoutSec int    `hcl:"connect_timeout_sec"`
	// Errors buffered between reports, oldest dropped first.
	ErrorBuffer int `hcl:"error_buffer"`
}
