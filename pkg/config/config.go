package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Proxy struct {
		Version              uint8         `mapstructure:"version"`
		MaxConnections       int           `mapstructure:"max_connections"`
		OutgoingQueueLength  int           `mapstructure:"outgoing_queue_length"`
		IngressQueueLength   int           `mapstructure:"ingress_queue_length"`
		IngressFragmentSize  int           `mapstructure:"ingress_fragment_size"`
		MaxClientPacketSize  int           `mapstructure:"max_packet_size"`
		DisconnectReportWait time.Duration `mapstructure:"disconnect_report_timeout"`
	} `mapstructure:"proxy"`

	Tcp struct {
		Enabled       bool    `mapstructure:"enabled"`
		ListenAddress string  `mapstructure:"listen_address"`
		AcceptRate    float64 `mapstructure:"accept_rate"`
		AcceptBurst   int     `mapstructure:"accept_burst"`
		NoDelay       bool    `mapstructure:"no_delay"`
	} `mapstructure:"tcp"`

	Backend struct {
		Address            string        `mapstructure:"address"`
		DialTimeout        time.Duration `mapstructure:"dial_timeout"`
		MaxFrameSize       int           `mapstructure:"max_frame_size"`
		SendQueueLength    int           `mapstructure:"send_queue_length"`
		ReceiveQueueLength int           `mapstructure:"receive_queue_length"`
	} `mapstructure:"backend"`

	Egress struct {
		Workers               int   `mapstructure:"workers"`
		LocalBroadcastRadius  int32 `mapstructure:"local_broadcast_radius"`
		MaxStagedInstructions int   `mapstructure:"max_staged_instructions"`
	} `mapstructure:"egress"`

	Websocket struct {
		Enabled            bool     `mapstructure:"enabled"`
		ListenAddress      string   `mapstructure:"listen_address"`
		ListenEndpoint     string   `mapstructure:"listen_endpoint"`
		AllowAllHosts      bool     `mapstructure:"allow_all_hosts"`
		AllowlistedHosts   []string `mapstructure:"allowlisted_hosts"`
		DenylistedHosts    []string `mapstructure:"denylisted_hosts"`
		MaxReadMessageSize int64    `mapstructure:"max_read_message_size"`
	} `mapstructure:"websocket"`

	Webtransport struct {
		Enabled          bool     `mapstructure:"enabled"`
		ListenAddress    string   `mapstructure:"listen_address"`
		ListenEndpoint   string   `mapstructure:"listen_endpoint"`
		CertPath         string   `mapstructure:"cert_path"`
		KeyPath          string   `mapstructure:"key_path"`
		AllowAllHosts    bool     `mapstructure:"allow_all_hosts"`
		AllowlistedHosts []string `mapstructure:"allowlisted_hosts"`
		DenylistedHosts  []string `mapstructure:"denylisted_hosts"`
	} `mapstructure:"webtransport"`

	Metrics struct {
		ListenAddress string `mapstructure:"listen_address"`
	} `mapstructure:"metrics"`

	Log struct {
		Development bool   `mapstructure:"development"`
		Level       string `mapstructure:"level"`
		FilePath    string `mapstructure:"file_path"`
		MaxSizeMB   int    `mapstructure:"max_size_mb"`
		MaxBackups  int    `mapstructure:"max_backups"`
		MaxAgeDays  int    `mapstructure:"max_age_days"`
	} `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("proxy.version", 0)
	v.SetDefault("proxy.max_connections", 0)
	v.SetDefault("proxy.outgoing_queue_length", 256)
	v.SetDefault("proxy.ingress_queue_length", 64)
	v.SetDefault("proxy.ingress_fragment_size", 16*1024)
	v.SetDefault("proxy.max_packet_size", 2*1024*1024)
	v.SetDefault("proxy.disconnect_report_timeout", 2*time.Second)

	v.SetDefault("tcp.enabled", true)
	v.SetDefault("tcp.listen_address", ":25565")
	v.SetDefault("tcp.accept_rate", 0)
	v.SetDefault("tcp.accept_burst", 32)
	v.SetDefault("tcp.no_delay", true)

	v.SetDefault("backend.address", "127.0.0.1:30321")
	v.SetDefault("backend.dial_timeout", 5*time.Second)
	v.SetDefault("backend.max_frame_size", 2*1024*1024)
	v.SetDefault("backend.send_queue_length", 1024)
	v.SetDefault("backend.receive_queue_length", 1024)

	v.SetDefault("egress.workers", 8)
	v.SetDefault("egress.local_broadcast_radius", 16)
	v.SetDefault("egress.max_staged_instructions", 16384)

	v.SetDefault("websocket.enabled", false)
	v.SetDefault("websocket.listen_address", ":3000")
	v.SetDefault("websocket.listen_endpoint", "/ws")
	v.SetDefault("websocket.allow_all_hosts", false)
	v.SetDefault("websocket.allowlisted_hosts", []string{})
	v.SetDefault("websocket.denylisted_hosts", []string{})
	v.SetDefault("websocket.max_read_message_size", 64*1024)

	v.SetDefault("webtransport.enabled", false)
	v.SetDefault("webtransport.listen_address", ":3443")
	v.SetDefault("webtransport.listen_endpoint", "/wt")
	v.SetDefault("webtransport.cert_path", "")
	v.SetDefault("webtransport.key_path", "")
	v.SetDefault("webtransport.allow_all_hosts", false)
	v.SetDefault("webtransport.allowlisted_hosts", []string{})
	v.SetDefault("webtransport.denylisted_hosts", []string{})

	v.SetDefault("metrics.listen_address", "")

	v.SetDefault("log.development", false)
	v.SetDefault("log.level", "")
	v.SetDefault("log.file_path", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// LoadConfig reads path (if any) over the defaults. Environment variables
// such as SPANREED_BACKEND_ADDRESS override both.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SPANREED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if c.Backend.Address == "" {
		return fmt.Errorf("backend.address must be set")
	}
	if !c.Tcp.Enabled && !c.Websocket.Enabled && !c.Webtransport.Enabled {
		return fmt.Errorf("at least one of tcp, websocket or webtransport must be enabled")
	}
	if c.Webtransport.Enabled && (c.Webtransport.CertPath == "" || c.Webtransport.KeyPath == "") {
		return fmt.Errorf("webtransport requires cert_path and key_path")
	}
	if c.Egress.LocalBroadcastRadius < 0 {
		return fmt.Errorf("egress.local_broadcast_radius must not be negative")
	}
	return nil
}
