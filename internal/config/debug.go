package config

import "os"

func IsDebug() bool {
	return os.Getenv("TECHASSIST_DEBUG") == "1"
}
