// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build ikvmnative.debug

package ikvmnative

import (
	"go.uber.org/zap"

	"github.com/ikvm-go/ikvmnative/internal/log"
)

func init() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	log.SetLogger(logger)
}
