/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAlreadyExist(t *testing.T) {
	err := NewAlreadyExist("test")
	assert.Equal(t, IsAlreadyExist(err), true)
	err2 := fmt.Errorf("test")
	assert.Equal(t, IsAlreadyExist(err2), false)
	err3 := NewInternalError("test")
	assert.Equal(t, IsAlreadyExist(err3), false)
}

func TestIsNotFound(t *testing.T) {
	assert.Equal(t, IsNotFound(NewNotFound(KindAssignment, "42")), true)
	assert.Equal(t, IsNotFound(NewNotFound(KindClient, "7")), true)
	assert.Equal(t, IsNotFound(NewNotFoundWithMessage("gone")), true)
	assert.Equal(t, IsNotFound(NewBadRequest("nope")), false)
	assert.Equal(t, IsNotFound(nil), false)
}

func TestIsGenerationNotReady(t *testing.T) {
	err := NewGenerationNotReady("2 tasks pending qc")
	assert.Equal(t, IsGenerationNotReady(err), true)
	assert.Equal(t, IsBadRequest(err), false)
	assert.Equal(t, int(err.Status().Code), http.StatusBadRequest)
}

func TestNotFoundErrorCode(t *testing.T) {
	assert.Equal(t, string(NotFoundErrorCode(KindTask)), TaskNotFound)
	assert.Equal(t, string(NotFoundErrorCode(KindAssignment)), AssignmentNotFound)
	assert.Equal(t, string(NotFoundErrorCode(KindClient)), ClientNotFound)
	assert.Equal(t, string(NotFoundErrorCode("Widget")), NotFound)
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, GetErrorCode(NewInternalError("boom")), InternalError)
	assert.Equal(t, GetErrorCode(fmt.Errorf("plain")), "")
	assert.Equal(t, GetErrorCode(nil), "")
}

func TestIgnoreFound(t *testing.T) {
	assert.NoError(t, IgnoreFound(NewNotFound(KindTask, "t1")))
	assert.Error(t, IgnoreFound(NewInternalError("boom")))
}
