package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cuemby/whale/pkg/command/commandtest"
	"github.com/cuemby/whale/pkg/config"
	"github.com/cuemby/whale/pkg/docker"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pgdataJSON = `[{"Name":"pgdata","Driver":"local","Mountpoint":"/var/lib/docker/volumes/pgdata/_data","Scope":"local"}]`

// run executes the root command against rec and returns stdout. The
// resolved options are stored in *opts when opts is not nil.
func run(t *testing.T, rec *commandtest.Recorder, opts *config.Options, args ...string) (string, error) {
	t.Helper()

	newClient = func(o config.Options) (*docker.Client, error) {
		if opts != nil {
			*opts = o
		}
		cfg, err := config.New(o, rec)
		if err != nil {
			return nil, err
		}
		return docker.NewClient(cfg), nil
	}
	t.Cleanup(func() {
		resetFlags(rootCmd)
		client = nil
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag of cmd and its children to its default
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestVolumeList(t *testing.T) {
	rec := commandtest.NewRecorder().
		On("docker volume list --quiet", "pgdata\ncache\npgdata\n")

	out, err := run(t, rec, nil, "volume", "ls")
	require.NoError(t, err)
	assert.Equal(t, "pgdata\ncache\n", out)
	assert.Equal(t, 1, rec.CallCount())
}

func TestVolumeInspectYAML(t *testing.T) {
	rec := commandtest.NewRecorder().
		On("docker volume inspect pgdata", pgdataJSON)

	out, err := run(t, rec, nil, "volume", "inspect", "-o", "yaml", "pgdata")
	require.NoError(t, err)
	assert.Contains(t, out, "name: pgdata")
	assert.Contains(t, out, "mountpoint: /var/lib/docker/volumes/pgdata/_data")
}

func TestVolumeInspectJSON(t *testing.T) {
	rec := commandtest.NewRecorder().
		On("docker volume inspect pgdata", pgdataJSON)

	out, err := run(t, rec, nil, "volume", "inspect", "pgdata")
	require.NoError(t, err)
	assert.Contains(t, out, `"Name": "pgdata"`)
}

func TestInspectUnsupportedFormat(t *testing.T) {
	rec := commandtest.NewRecorder().
		On("docker volume inspect pgdata", pgdataJSON)

	_, err := run(t, rec, nil, "volume", "inspect", "-o", "toml", "pgdata")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestNetworkRemoveBatched(t *testing.T) {
	rec := commandtest.NewRecorder().
		On("docker network remove --force front back", "front\nback\n")

	out, err := run(t, rec, nil, "network", "rm", "-f", "front", "back")
	require.NoError(t, err)
	assert.Equal(t, "front\nback\n", out)
	assert.Equal(t, []string{"docker network remove --force front back"}, rec.Calls())
}

func TestNetworkCreate(t *testing.T) {
	rec := commandtest.NewRecorder().
		On("docker network create --driver bridge --label app=web --subnet 10.0.0.0/24 web", "9f3c2a\n")

	out, err := run(t, rec, nil, "network", "create",
		"--driver", "bridge", "--label", "app=web", "--subnet", "10.0.0.0/24", "web")
	require.NoError(t, err)
	assert.Equal(t, "9f3c2a\n", out)
}

func TestNetworkCreateInvalidLabel(t *testing.T) {
	rec := commandtest.NewRecorder()

	_, err := run(t, rec, nil, "network", "create", "--label", "novalue", "web")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --label")
	assert.Zero(t, rec.CallCount())
}

func TestContextRemoveFailure(t *testing.T) {
	rec := commandtest.NewRecorder().
		OnError("docker context remove prod", 1, "context \"prod\" does not exist")

	_, err := run(t, rec, nil, "context", "rm", "prod")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to remove contexts")
}

func TestGlobalFlags(t *testing.T) {
	rec := commandtest.NewRecorder().
		On("docker --host tcp://10.0.0.2:2376 --tlsverify volume list --quiet", "")

	var opts config.Options
	_, err := run(t, rec, &opts, "--host", "tcp://10.0.0.2:2376", "--tlsverify", "volume", "ls")
	require.NoError(t, err)
	assert.Equal(t, "tcp://10.0.0.2:2376", opts.Host)
	assert.True(t, opts.TLSVerify)
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whale.yaml")
	require.NoError(t, os.WriteFile(path, []byte("context: staging\nlog_level: info\n"), 0o600))

	rec := commandtest.NewRecorder().
		On("docker --context prod --log-level info volume list --quiet", "")

	var opts config.Options
	_, err := run(t, rec, &opts, "--config-file", path, "--context", "prod", "volume", "ls")
	require.NoError(t, err)
	assert.Equal(t, "prod", opts.Context)
	assert.Equal(t, "info", opts.LogLevel)
}

func TestContextAndHostRejected(t *testing.T) {
	rec := commandtest.NewRecorder()

	_, err := run(t, rec, nil, "--context", "prod", "--host", "unix:///var/run/docker.sock", "volume", "ls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
	assert.Zero(t, rec.CallCount())
}

func TestParseLabels(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", values: nil, want: nil},
		{name: "pairs", values: []string{"a=1", "b="}, want: map[string]string{"a": "1", "b": ""}},
		{name: "value with equals", values: []string{"k=x=y"}, want: map[string]string{"k": "x=y"}},
		{name: "missing separator", values: []string{"a"}, wantErr: true},
		{name: "empty key", values: []string{"=v"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLabels(tt.values)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
