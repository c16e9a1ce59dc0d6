package minio

// Config represents the connection options for the photo bucket.
type Config struct {
	Endpoint           string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKeyID        string `mapstructure:"access_key_id"`
	SecretAccessKey    string `mapstructure:"secret_access_key"`
	UseSSL             bool   `mapstructure:"use_ssl" default:"false"`
	Bucket             string `mapstructure:"bucket" default:"kerbside-photos"`
	PresignExpiryHours int    `mapstructure:"presign_expiry_hours" default:"168"`
}
