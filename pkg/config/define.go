/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

const (
	// server
	serverPrefix = "server."
	serverPort   = serverPrefix + "port"

	// health_check
	healthCheckPrefix = "health_check."
	healthCheckEnable = healthCheckPrefix + "enable"

	// crypto
	cryptoPrefix     = "crypto."
	cryptoEnable     = cryptoPrefix + "enable"
	cryptoSecretPath = cryptoPrefix + "secret_path"

	// db
	dbPrefix               = "db."
	dbSecretPath           = dbPrefix + "secret_path"
	dbHost                 = dbPrefix + "host"
	dbPort                 = dbPrefix + "port"
	dbName                 = dbPrefix + "dbname"
	dbUser                 = dbPrefix + "user"
	dbPassword             = dbPrefix + "password"
	dbSslMode              = dbPrefix + "ssl_mode"
	dbMaxOpenConns         = dbPrefix + "max_open_conns"
	dbMaxIdleConns         = dbPrefix + "max_idle_conns"
	dbMaxLifetime          = dbPrefix + "max_life_time_second"
	dbMaxIdleTimeSecond    = dbPrefix + "max_idle_time_second"
	dbConnectTimeoutSecond = dbPrefix + "connect_timeout_second"
	dbRequestTimeoutSecond = dbPrefix + "request_timeout_second"

	// audit
	auditPrefix = "audit."
	auditEnable = auditPrefix + "enable"
)
