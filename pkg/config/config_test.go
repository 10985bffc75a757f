/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

import (
	"testing"

	"gotest.tools/assert"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, GetDBSslMode(), "require")
	assert.Equal(t, GetDBMaxOpenConns(), 100)
	assert.Equal(t, GetDBMaxIdleConns(), 10)
	assert.Equal(t, GetDBConnectTimeoutSecond(), 10)
	assert.Equal(t, GetDBRequestTimeoutSecond(), 30)
	assert.Equal(t, IsCryptoEnable(), false)
	assert.Equal(t, IsHealthCheckEnabled(), true)
}

func TestSetValue(t *testing.T) {
	SetValue(serverPort, "8080")
	assert.Equal(t, GetServerPort(), 8080)

	SetValue(dbHost, "db.internal")
	assert.Equal(t, GetDBHost(), "db.internal")

	SetValue(dbSslMode, "disable")
	assert.Equal(t, GetDBSslMode(), "disable")
}
