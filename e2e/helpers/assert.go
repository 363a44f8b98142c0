// Package helpers provides narrowly-scoped utilities for E2E testing.
package helpers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gti/booking-qa/internal/apiclient"
)

// Assert provides assertion capabilities for E2E tests.
//
// This is a thin wrapper around testify/assert to provide a consistent
// interface for E2E test assertions. All assertions log failures but
// do not stop test execution (use require package for fatal assertions).
//
// Usage:
//
//	a := NewAssert(t)
//	a.Equal(200, resp.StatusCode, "expected success status")
//	a.Contains(resp.String(), "Bookings", "page should show the heading")
type Assert struct {
	t *testing.T
}

// NewAssert creates a new assertion helper for the given test.
func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t}
}

// Equal asserts that expected and actual are equal.
//
//	a.Equal(200, resp.StatusCode)
//	a.Equal("admin", user.Role, "user should have admin role")
func (a *Assert) Equal(expected, actual interface{}, msgAndArgs ...interface{}) bool {
	return assert.Equal(a.t, expected, actual, msgAndArgs...)
}

// NotEqual asserts that expected and actual are not equal.
//
//	a.NotEqual("", booking.ID, "booking ID should not be empty")
func (a *Assert) NotEqual(expected, actual interface{}, msgAndArgs ...interface{}) bool {
	return assert.NotEqual(a.t, expected, actual, msgAndArgs...)
}

// Nil asserts that the specified object is nil.
//
//	a.Nil(err, "operation should succeed without error")
func (a *Assert) Nil(object interface{}, msgAndArgs ...interface{}) bool {
	return assert.Nil(a.t, object, msgAndArgs...)
}

// NotNil asserts that the specified object is not nil.
//
//	a.NotNil(booking, "booking should be returned")
func (a *Assert) NotNil(object interface{}, msgAndArgs ...interface{}) bool {
	return assert.NotNil(a.t, object, msgAndArgs...)
}

// True asserts that the specified value is true.
//
//	a.True(booking.DepositPaid, "deposit should be marked paid")
func (a *Assert) True(value bool, msgAndArgs ...interface{}) bool {
	return assert.True(a.t, value, msgAndArgs...)
}

// False asserts that the specified value is false.
//
//	a.False(exists, "booking should be gone after delete")
func (a *Assert) False(value bool, msgAndArgs ...interface{}) bool {
	return assert.False(a.t, value, msgAndArgs...)
}

// NoError asserts that err is nil.
//
//	resp, err := api.Health(ctx)
//	a.NoError(err, "health check should not return error")
func (a *Assert) NoError(err error, msgAndArgs ...interface{}) bool {
	return assert.NoError(a.t, err, msgAndArgs...)
}

// Error asserts that err is not nil.
func (a *Assert) Error(err error, msgAndArgs ...interface{}) bool {
	return assert.Error(a.t, err, msgAndArgs...)
}

// Contains asserts that the string s contains the substring.
//
//	a.Contains(resp.String(), "Brown", "response should contain the guest")
func (a *Assert) Contains(s, contains string, msgAndArgs ...interface{}) bool {
	return assert.Contains(a.t, s, contains, msgAndArgs...)
}

// NotContains asserts that the string s does not contain the substring.
func (a *Assert) NotContains(s, contains string, msgAndArgs ...interface{}) bool {
	return assert.NotContains(a.t, s, contains, msgAndArgs...)
}

// Len asserts that the specified object has the expected length.
//
//	a.Len(bookings, 3, "should return 3 bookings")
func (a *Assert) Len(object interface{}, length int, msgAndArgs ...interface{}) bool {
	return assert.Len(a.t, object, length, msgAndArgs...)
}

// Empty asserts that the specified object is empty.
func (a *Assert) Empty(object interface{}, msgAndArgs ...interface{}) bool {
	return assert.Empty(a.t, object, msgAndArgs...)
}

// NotEmpty asserts that the specified object is not empty.
//
//	a.NotEmpty(bookings, "should return at least one booking")
func (a *Assert) NotEmpty(object interface{}, msgAndArgs ...interface{}) bool {
	return assert.NotEmpty(a.t, object, msgAndArgs...)
}

// Status asserts that the response is present and has the expected status code.
//
//	_, resp, err := api.Booking(ctx, id)
//	a.NoError(err)
//	a.Status(404, resp, "deleted booking should be gone")
func (a *Assert) Status(expected int, resp *apiclient.Response, msgAndArgs ...interface{}) bool {
	if !assert.NotNil(a.t, resp, msgAndArgs...) {
		return false
	}
	return assert.Equal(a.t, expected, resp.StatusCode, msgAndArgs...)
}

// JSONField asserts that the response body is a JSON object whose named
// field equals the expected value.
//
//	a.JSONField(resp, "error", "booking not found")
func (a *Assert) JSONField(resp *apiclient.Response, field string, expected interface{}, msgAndArgs ...interface{}) bool {
	if !assert.NotNil(a.t, resp, msgAndArgs...) {
		return false
	}

	var body map[string]interface{}
	if err := resp.JSON(&body); err != nil {
		return assert.Fail(a.t, fmt.Sprintf("response body is not a JSON object: %v", err), msgAndArgs...)
	}
	return assert.Equal(a.t, expected, body[field], msgAndArgs...)
}
