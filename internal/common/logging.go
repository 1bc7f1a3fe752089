// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// InitLogging configures the process-wide logger. The level defaults to
// info and can be overridden by LODKIT_LOG_LEVEL or a CLI flag later.
func InitLogging() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	if env := os.Getenv("LODKIT_LOG_LEVEL"); env != "" {
		level, err := log.ParseLevel(env)
		if err != nil {
			log.Warnf("invalid LODKIT_LOG_LEVEL %q; keeping info", env)
			return
		}
		log.SetLevel(level)
	}
}
