package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/gift-catalog/internal/config"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd(config.New())

	for _, path := range [][]string{{"serve"}, {"migrate", "up"}, {"migrate", "down"}, {"migrate", "status"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, "find %v", path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestRootCmd_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	for _, args := range [][]string{{}, {"serve"}, {"migrate", "status"}} {
		root := newRootCmd(config.New())
		root.SetArgs(args)

		err := root.Execute()

		require.Error(t, err, "args %v", args)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	}
}

func TestRootCmd_PortFlagOverridesEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/catalog")
	t.Setenv("PORT", "9090")
	v := config.New()
	cmd, _, err := newRootCmd(v).Find([]string{"serve"})
	require.NoError(t, err)

	require.NoError(t, cmd.Flags().Set("port", "7070"))
	cfg, _, err := loadConfig(v)

	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
}
