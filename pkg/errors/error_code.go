/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package errors

import (
	"fmt"
	"net/http"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const PostdashPrefix = "Postdash."

/*
   5-digit Error Code Convention: [xx][yyy]
   [xx] Business ID (00–99), used to distinguish errors from different business interfaces.
   00: General errors
   01: Generation-related errors
   02: Assignment-related errors
   03: Client-related errors
   [yyy] Error code range (000–999)
*/

// public: 00xxx
const (
	InternalError  = PostdashPrefix + "00001"
	BadRequest     = PostdashPrefix + "00002"
	Forbidden      = PostdashPrefix + "00003"
	AlreadyExist   = PostdashPrefix + "00004"
	NotFound       = PostdashPrefix + "00005"
	NotImplemented = PostdashPrefix + "00006"
	Unauthorized   = PostdashPrefix + "00007"
)

// generation: 01xxx
const (
	GenerationNotReady = PostdashPrefix + "01001"
	TaskNotFound       = PostdashPrefix + "01002"
)

// assignment: 02xxx
const (
	AssignmentNotFound = PostdashPrefix + "02001"
)

// client: 03xxx
const (
	ClientNotFound = PostdashPrefix + "03001"
)

// entity kinds used to pick not-found reasons.
const (
	KindTask       = "Task"
	KindAssignment = "Assignment"
	KindClient     = "Client"
)

// IsPostdash returns true if the specified error carries a postdash error reason.
func IsPostdash(err error) bool {
	if err == nil {
		return false
	}
	return strings.HasPrefix(string(apierrors.ReasonForError(err)), PostdashPrefix)
}

func IsAlreadyExist(err error) bool {
	return apierrors.ReasonForError(err) == AlreadyExist
}

func IsBadRequest(err error) bool {
	return apierrors.ReasonForError(err) == BadRequest
}

func IsInternal(err error) bool {
	return apierrors.ReasonForError(err) == InternalError
}

func IsGenerationNotReady(err error) bool {
	return apierrors.ReasonForError(err) == GenerationNotReady
}

func IsNotFound(err error) bool {
	reason := apierrors.ReasonForError(err)
	if reason == NotFound || reason == TaskNotFound ||
		reason == AssignmentNotFound || reason == ClientNotFound {
		return true
	}
	return false
}

func IgnoreFound(err error) error {
	if err == nil || IsNotFound(err) {
		return nil
	}
	return err
}

func GetErrorCode(err error) string {
	if err == nil || !IsPostdash(err) {
		return ""
	}
	return string(apierrors.ReasonForError(err))
}

func NewBadRequest(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusBadRequest,
		Reason:  BadRequest,
		Message: fmt.Sprintf("Bad request. %s", message),
	}}
}

func NewInternalError(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusInternalServerError,
		Reason:  InternalError,
		Message: fmt.Sprintf("Internal error. %s", message),
	}}
}

func NewAlreadyExist(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusConflict,
		Reason:  AlreadyExist,
		Message: message,
	}}
}

func NewForbidden(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusForbidden,
		Reason:  Forbidden,
		Message: message,
	}}
}

func NewUnauthorized(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusUnauthorized,
		Reason:  Unauthorized,
		Message: message,
	}}
}

// NewGenerationNotReady reports a commit attempt while some source tasks are
// still outside qc_approved. The blocking ids travel in the message; the
// handler layer carries the structured histogram.
func NewGenerationNotReady(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusBadRequest,
		Reason:  GenerationNotReady,
		Message: message,
	}}
}

func NotFoundErrorCode(kind string) metav1.StatusReason {
	switch kind {
	case KindTask:
		return TaskNotFound
	case KindAssignment:
		return AssignmentNotFound
	case KindClient:
		return ClientNotFound
	default:
		return NotFound
	}
}

func NewNotFound(kind, name string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status: metav1.StatusFailure,
		Code:   http.StatusNotFound,
		Reason: NotFoundErrorCode(kind),
		Details: &metav1.StatusDetails{
			Kind: kind,
			Name: name,
		},
		Message: fmt.Sprintf("%s %s not found.", kind, name),
	}}
}

func NewNotFoundWithMessage(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusNotFound,
		Reason:  NotFound,
		Message: message,
	}}
}

func NewNotImplemented(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusNotImplemented,
		Reason:  NotImplemented,
		Message: message,
	}}
}
