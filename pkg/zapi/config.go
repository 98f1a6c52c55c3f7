package zapi

import "time"

type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	InstanceID  string        `mapstructure:"instance_id"`
	Token       string        `mapstructure:"token"`
	ClientToken string        `mapstructure:"client_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (c Config) instanceURL() string {
	return c.BaseURL + "/instances/" + c.InstanceID + "/token/" + c.Token
}
