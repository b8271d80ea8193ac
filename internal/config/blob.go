package config

type Blob struct {
	Root      string `env:"BLOB_ROOT" envDefault:"./data/blobs"`
	PublicURL string `env:"BLOB_PUBLIC_URL" envDefault:"http://localhost:8000/files"`
	MaxBytes  int64  `env:"BLOB_MAX_BYTES" envDefault:"5242880"`
}
