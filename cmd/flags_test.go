// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("name", "flag-default", "")
	cmd.Flags().Int("port", 0, "")
	cmd.Flags().Bool("enabled", false, "")
	cmd.Flags().Duration("timeout", 0, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestFlagLoader_Precedence(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("name", "from-config")
	v.Set("port", 9000)
	v.Set("enabled", true)
	v.Set("timeout", "5s")

	f := NewFlagLoaderWith(newTestCommand(t), v)
	assert.Equal(t, "from-config", f.String("name"))
	assert.Equal(t, 9000, f.Int("port"))
	assert.True(t, f.Bool("enabled"))
	assert.Equal(t, 5*time.Second, f.Duration("timeout"))

	f = NewFlagLoaderWith(newTestCommand(t, "--name=cli", "--port=1", "--enabled=false", "--timeout=1m"), v)
	assert.Equal(t, "cli", f.String("name"))
	assert.Equal(t, 1, f.Int("port"))
	assert.False(t, f.Bool("enabled"))
	assert.Equal(t, time.Minute, f.Duration("timeout"))
}

func TestFlagLoader_Viper(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("name", "from-config")
	v.Set("port", 9000)

	got := NewFlagLoaderWith(newTestCommand(t, "--timeout=45s"), v).Viper()
	assert.Same(t, v, got)
	assert.Equal(t, "from-config", got.GetString("name"))
	assert.Equal(t, 45*time.Second, got.GetDuration("timeout"))

	got = NewFlagLoaderWith(newTestCommand(t, "--name=cli"), v).Viper()
	assert.Equal(t, "cli", got.GetString("name"))
	assert.Equal(t, 9000, got.GetInt("port"))
}
