// Copyright 2026 Lodkit Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResourceConfigProperties(t *testing.T) {
	props := ResourceConfig{CacheControl: "max-age=3600"}.Properties()
	require.Equal(t, "max-age=3600", props["cache-control"])

	// unset cache control leaves the map without the key entirely
	props = ResourceConfig{}.Properties()
	_, ok := props["cache-control"]
	require.False(t, ok)
}
