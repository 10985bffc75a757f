/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package main

import (
	"fmt"

	apiserver "github.com/brightmark/postdash/pkg/server"
)

func main() {
	s, err := apiserver.NewServer()
	if err != nil {
		fmt.Println("failed to new server")
		return
	}
	s.Start()
}
