// Package config provides configuration management for the upload gateway
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Settings holds the application configuration. It is loaded once at startup
// and passed explicitly to the components that need it.
type Settings struct {
	Server  ServerConfig  `json:"server"`
	Storage StorageConfig `json:"storage"`
	Auth    AuthConfig    `json:"auth"`
	Upload  UploadConfig  `json:"upload"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host            string   `json:"host"`
	Port            int      `json:"port"`
	ShutdownTimeout int      `json:"shutdownTimeout"`
	AllowedOrigins  []string `json:"allowedOrigins"`
}

// StorageConfig contains object store configuration
type StorageConfig struct {
	Provider        string `json:"provider"`
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	AccessKeyID     string `json:"accessKeyID"`
	SecretAccessKey string `json:"secretAccessKey"`
	// CredentialFile is only used by the gcs provider.
	CredentialFile string `json:"credentialFile"`
	// BasePath and BaseURL are only used by the local provider.
	BasePath string `json:"basePath"`
	BaseURL  string `json:"baseURL"`
}

// AuthConfig contains bearer-token verification configuration
type AuthConfig struct {
	Enabled      bool   `json:"enabled"`
	JWTSecret    string `json:"jwtSecret"`
	JWTAlgorithm string `json:"jwtAlgorithm"`
	ServiceID    string `json:"serviceID"`
}

// UploadConfig contains pipeline tuning knobs
type UploadConfig struct {
	FetchTimeoutSeconds int `json:"fetchTimeoutSeconds"`
	Fanout              int `json:"fanout"`
}

// Load reads configuration from an optional JSON file, then overrides with
// environment variables, then validates. Missing mandatory storage
// credentials fail here, at startup, never at request time.
func Load(configFile string) (*Settings, error) {
	settings := &Settings{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 30,
		},
		Storage: StorageConfig{
			Provider: "s3",
		},
		Auth: AuthConfig{
			Enabled:      true,
			JWTAlgorithm: "HS256",
		},
		Upload: UploadConfig{
			FetchTimeoutSeconds: 30,
			Fanout:              4,
		},
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
			if err := json.Unmarshal(data, settings); err != nil {
				return nil, fmt.Errorf("error parsing config file: %w", err)
			}
		}
	}

	overrideWithEnv(settings)

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// overrideWithEnv overrides configuration with environment variables. The
// storage and auth names match what callers already deploy with.
func overrideWithEnv(s *Settings) {
	// Server
	if host := os.Getenv("UG_HOST"); host != "" {
		s.Server.Host = host
	}
	if port := os.Getenv("UG_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			s.Server.Port = p
		}
	}
	if origins := os.Getenv("UG_ALLOWED_ORIGINS"); origins != "" {
		s.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	// Storage
	if provider := os.Getenv("UG_STORAGE_PROVIDER"); provider != "" {
		s.Storage.Provider = provider
	}
	if bucket := os.Getenv("FILE_UPLOAD_BUCKET"); bucket != "" {
		s.Storage.Bucket = bucket
	}
	if keyID := os.Getenv("FILE_UPLOAD_KEY_ID"); keyID != "" {
		s.Storage.AccessKeyID = keyID
	}
	if accessKey := os.Getenv("FILE_UPLOAD_ACCESS_KEY"); accessKey != "" {
		s.Storage.SecretAccessKey = accessKey
	}
	if region := os.Getenv("FILE_UPLOAD_REGION"); region != "" {
		s.Storage.Region = region
	}
	if credFile := os.Getenv("UG_GCS_CREDENTIAL_FILE"); credFile != "" {
		s.Storage.CredentialFile = credFile
	}
	if basePath := os.Getenv("UG_LOCAL_BASE_PATH"); basePath != "" {
		s.Storage.BasePath = basePath
	}

	// Auth
	if enabled := os.Getenv("UG_ENABLE_AUTH"); enabled != "" {
		s.Auth.Enabled = enabled == "true" || enabled == "1"
	}
	if secret := os.Getenv("API_JWT_SECRET_KEY"); secret != "" {
		s.Auth.JWTSecret = secret
	}
	if alg := os.Getenv("API_JWT_ALGORITHM"); alg != "" {
		s.Auth.JWTAlgorithm = alg
	}
	if serviceID := os.Getenv("API_SERVICE_ID"); serviceID != "" {
		s.Auth.ServiceID = serviceID
	}

	// Upload
	if timeout := os.Getenv("UG_FETCH_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			s.Upload.FetchTimeoutSeconds = t
		}
	}
	if fanout := os.Getenv("UG_UPLOAD_FANOUT"); fanout != "" {
		if n, err := strconv.Atoi(fanout); err == nil {
			s.Upload.Fanout = n
		}
	}
}

// Validate checks that mandatory settings are present.
func (s *Settings) Validate() error {
	switch s.Storage.Provider {
	case "s3", "amazon", "aws":
		if s.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required")
		}
		if s.Storage.AccessKeyID == "" || s.Storage.SecretAccessKey == "" {
			return fmt.Errorf("storage credentials (FILE_UPLOAD_KEY_ID, FILE_UPLOAD_ACCESS_KEY) are required")
		}
	case "gcs", "google":
		if s.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required")
		}
	case "local":
		if s.Storage.BasePath == "" {
			return fmt.Errorf("storage basePath is required for the local provider")
		}
	default:
		return fmt.Errorf("unsupported storage provider: %s", s.Storage.Provider)
	}

	if s.Auth.Enabled {
		if s.Auth.JWTSecret == "" {
			return fmt.Errorf("auth jwt secret (API_JWT_SECRET_KEY) is required when auth is enabled")
		}
		if s.Auth.ServiceID == "" {
			return fmt.Errorf("auth service id (API_SERVICE_ID) is required when auth is enabled")
		}
	}
	return nil
}

// ProviderConfig maps the storage settings into provider initialization
// options.
func (s *Settings) ProviderConfig() map[string]string {
	return map[string]string{
		"bucket":          s.Storage.Bucket,
		"region":          s.Storage.Region,
		"accessKeyID":     s.Storage.AccessKeyID,
		"secretAccessKey": s.Storage.SecretAccessKey,
		"credentialFile":  s.Storage.CredentialFile,
		"basePath":        s.Storage.BasePath,
		"baseURL":         s.Storage.BaseURL,
	}
}

// Address returns the host:port string for the server to listen on
func (s *Settings) Address() string {
	return fmt.Sprintf("%s:%d", s.Server.Host, s.Server.Port)
}
