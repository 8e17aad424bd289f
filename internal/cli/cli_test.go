package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub-dev/eventhub/internal/auth"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCmd()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestPasswordCheckValid(t *testing.T) {
	out, _, err := runCLI(t, "password", "check", "ValidPassword123!")
	require.NoError(t, err)
	assert.Contains(t, out, "password is valid")
	assert.NotContains(t, out, "Violations")
}

func TestPasswordCheckListsViolationsInOrder(t *testing.T) {
	out, _, err := runCLI(t, "password", "check", "short")
	require.ErrorIs(t, err, errWeakPassword)

	lengthAt := bytes.Index([]byte(out), []byte(auth.ErrMsgMinLength))
	upperAt := bytes.Index([]byte(out), []byte(auth.ErrMsgUpperCase))
	digitAt := bytes.Index([]byte(out), []byte(auth.ErrMsgDigit))
	specialAt := bytes.Index([]byte(out), []byte(auth.ErrMsgSpecialChar))
	require.True(t, lengthAt >= 0 && upperAt >= 0 && digitAt >= 0 && specialAt >= 0, out)
	assert.Less(t, lengthAt, upperAt)
	assert.Less(t, upperAt, digitAt)
	assert.Less(t, digitAt, specialAt)
	assert.NotContains(t, out, auth.ErrMsgLowerCase)
}

func TestPasswordCheckRequiresArgument(t *testing.T) {
	_, _, err := runCLI(t, "password", "check")
	assert.Error(t, err)
}

func TestStatusPrintsEveryDatabase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"EventHub API","databases":{"mongodb":"error","postgresql":"connected"}}`))
	}))
	defer srv.Close()

	out, _, err := runCLI(t, "status", "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "EventHub API")
	assert.Regexp(t, `mongodb\s+error`, out)
	assert.Regexp(t, `postgresql\s+connected`, out)
	assert.Regexp(t, `redis\s+disconnected`, out)
}

func TestStatusReportsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, stderr, err := runCLI(t, "status", "--url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, stderr, "unexpected response 500")
}
