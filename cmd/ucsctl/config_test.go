package main

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

func TestLoadEndpointEnv_Defaults(t *testing.T) {
	for _, name := range []string{"UCSM_IP", "UCSM_USER", "UCSM_PASSWORD", "UCSM_PORT", "UCSM_SECURE", "UCSM_TIMEOUT"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	e, err := LoadEndpointEnv()
	require.NoError(t, err)
	assert.Equal(t, "localhost", e.Host)
	assert.Equal(t, "admin", e.Username)
	assert.Equal(t, "password", e.Password)
	assert.Equal(t, 443, e.Port)
	assert.True(t, e.Secure)
	assert.Equal(t, 30*time.Second, e.Timeout)
}

func TestLoadEndpointEnv_Invalid(t *testing.T) {
	t.Setenv("UCSM_PORT", "not-a-port")

	_, err := LoadEndpointEnv()
	require.Error(t, err)
	assert.True(t, ucs.IsInvalidArgument(err))
}

func TestConnectionConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("UCSM_IP", "ucsm.example.com")
	t.Setenv("UCSM_USER", "ops")
	t.Setenv("UCSM_PORT", "8443")
	t.Setenv("UCSM_SECURE", "true")

	root := newRootCmd()
	require.NoError(t, root.PersistentFlags().Parse([]string{"--hostname", "10.0.0.5", "--secure=false"}))

	opts := optionsOf(t, root)
	config, err := opts.connectionConfig(root.PersistentFlags())
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", config.Host)
	assert.Equal(t, "ops", config.Username)
	assert.Equal(t, 8443, config.Port)
	assert.False(t, config.Secure)
	assert.Equal(t, "http://10.0.0.5:8443/nuova", config.URL())
}

func TestConnectionConfig_InvalidPort(t *testing.T) {
	t.Setenv("UCSM_PORT", "70000")

	root := newRootCmd()
	opts := optionsOf(t, root)
	_, err := opts.connectionConfig(root.PersistentFlags())
	require.Error(t, err)
	assert.True(t, ucs.IsInvalidArgument(err))
}

// optionsOf recovers the options bound to root's persistent flags.
func optionsOf(t *testing.T, root *cobra.Command) *globalOptions {
	t.Helper()
	opts := &globalOptions{}
	flags := root.PersistentFlags()
	var err error
	opts.hostname, err = flags.GetString("hostname")
	require.NoError(t, err)
	opts.username, _ = flags.GetString("username")
	opts.password, _ = flags.GetString("password")
	opts.port, _ = flags.GetInt("port")
	opts.secure, _ = flags.GetBool("secure")
	return opts
}
