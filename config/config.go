package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the agent configuration
type Config struct {
	Server      ServerConfig
	Remote      RemoteConfig
	Storage     StorageConfig
	Attachments AttachmentsConfig
}

// ServerConfig holds the local API server configuration
type ServerConfig struct {
	Port int
	Mode string // debug, release, test
}

// RemoteConfig holds the remote delivery service configuration
type RemoteConfig struct {
	BaseURL string
	// ShortTimeout applies to login; BulkTimeout to record fetch/push and
	// image uploads.
	ShortTimeout time.Duration
	BulkTimeout  time.Duration
}

// StorageConfig holds the local persistence configuration
type StorageConfig struct {
	DatabasePath string
	// MediaDir is where captured photo binaries live until upload.
	MediaDir string
	// GalleryDir, when GalleryEnabled, receives a per-day mirror of every
	// captured photo so it shows up in the device gallery.
	GalleryDir     string
	GalleryEnabled bool
}

// AttachmentsConfig holds the photo staging policy
type AttachmentsConfig struct {
	MaxPerInstitution int
}

// InitConfig initializes the configuration using Viper
func InitConfig(cfgFile string) error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/fieldtrack-agent")
		viper.SetConfigName("config")
	}

	// AGENT_REMOTE_BASEURL overrides remote.baseurl, and so on.
	viper.SetEnvPrefix("AGENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("No config file found, using defaults and environment variables")
		} else {
			return fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("server.port", 8095)
	viper.SetDefault("server.mode", "release")

	viper.SetDefault("remote.baseurl", "https://desayunosdifcoah.com/api/")
	viper.SetDefault("remote.shorttimeout", "8s")
	viper.SetDefault("remote.bulktimeout", "60s")

	viper.SetDefault("storage.databasepath", "fieldtrack.sqlite3")
	viper.SetDefault("storage.mediadir", "media")
	viper.SetDefault("storage.gallerydir", "")
	viper.SetDefault("storage.galleryenabled", false)

	viper.SetDefault("attachments.maxperinstitution", 1)
}

// Load loads the configuration
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("server.port"),
			Mode: viper.GetString("server.mode"),
		},
		Remote: RemoteConfig{
			BaseURL:      viper.GetString("remote.baseurl"),
			ShortTimeout: viper.GetDuration("remote.shorttimeout"),
			BulkTimeout:  viper.GetDuration("remote.bulktimeout"),
		},
		Storage: StorageConfig{
			DatabasePath:   viper.GetString("storage.databasepath"),
			MediaDir:       viper.GetString("storage.mediadir"),
			GalleryDir:     viper.GetString("storage.gallerydir"),
			GalleryEnabled: viper.GetBool("storage.galleryenabled"),
		},
		Attachments: AttachmentsConfig{
			MaxPerInstitution: viper.GetInt("attachments.maxperinstitution"),
		},
	}

	if cfg.Attachments.MaxPerInstitution < 1 {
		cfg.Attachments.MaxPerInstitution = 1
	}
	if !strings.HasSuffix(cfg.Remote.BaseURL, "/") {
		cfg.Remote.BaseURL += "/"
	}

	return cfg, nil
}
