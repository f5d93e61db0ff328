package cmd

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jes-seguranca/jesctl/internal/api"
	"github.com/jes-seguranca/jesctl/internal/apitest"
	"github.com/jes-seguranca/jesctl/internal/remote"
	"github.com/jes-seguranca/jesctl/internal/roster"
)

type memClipboard struct {
	text   string
	writes int
}

func (c *memClipboard) WriteText(text string) error {
	c.text = text
	c.writes++
	return nil
}

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes jesctl against srv with an empty config file.
func run(t *testing.T, srv *apitest.Server, clip roster.Clipboard, args ...string) result {
	t.Helper()
	t.Setenv("JESCTL_API_URL", "")
	t.Setenv("JESCTL_TOKEN", "")
	t.Setenv("JESCTL_LOG_LEVEL", "")

	var stdout, stderr bytes.Buffer
	root := NewRootCmd(&stdout, &stderr, WithClipboard(clip))
	base := []string{
		"--" + FlagConfig, filepath.Join(t.TempDir(), "config.yaml"),
		"--" + FlagAPIURL, srv.URL,
		"--" + FlagLogLevel, "off",
	}
	root.SetArgs(append(args, base...))
	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func guards(srv *apitest.Server) {
	srv.SetEmployees(
		api.Employee{ID: "1", Nome: "caio lima", CPF: "33344455566"},
		api.Employee{ID: "2", Nome: "ANA DE SOUZA", CPF: "11122233344"},
		api.Employee{ID: "3", Nome: "Beto Dias", CPF: "222.333.444-55"},
	)
}

func TestList(t *testing.T) {
	srv := apitest.New(t)
	guards(srv)

	res := run(t, srv, nil, "list")
	require.NoError(t, res.err)
	lines := splitLines(res.stdout)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Ana de Souza")
	assert.Contains(t, lines[0], "111.222.333-44")
	assert.Contains(t, lines[1], "Beto Dias")
	assert.Contains(t, lines[2], "Caio Lima")
}

func TestListFilter(t *testing.T) {
	srv := apitest.New(t)
	guards(srv)

	res := run(t, srv, nil, "list", "--filter", "BETO")
	require.NoError(t, res.err)
	lines := splitLines(res.stdout)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "222.333.444-55")
}

func TestListServerDown(t *testing.T) {
	srv := apitest.New(t)
	srv.Fail("GET /", http.StatusServiceUnavailable)

	res := run(t, srv, nil, "list")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, roster.ErrLoadFailed)
	assert.True(t, remote.IsNetwork(res.err))
}

func TestCopyByCPF(t *testing.T) {
	srv := apitest.New(t)
	guards(srv)
	clip := &memClipboard{}

	res := run(t, srv, clip, "copy", "111.222.333-44", "33344455566")
	require.NoError(t, res.err)
	assert.Equal(t, "copied 2 record(s) to the clipboard\n", res.stdout)
	assert.Equal(t,
		"NOME: Ana de Souza\nCPF: 111.222.333-44\n\nNOME: Caio Lima\nCPF: 333.444.555-66\n",
		clip.text)
}

func TestCopyAllToStdout(t *testing.T) {
	srv := apitest.New(t)
	guards(srv)
	clip := &memClipboard{}

	res := run(t, srv, clip, "copy", "--all", "--stdout")
	require.NoError(t, res.err)
	assert.Equal(t, 3, bytes.Count([]byte(res.stdout), []byte("NOME: ")))
	assert.Zero(t, clip.writes)
}

func TestCopyFilter(t *testing.T) {
	srv := apitest.New(t)
	guards(srv)

	res := run(t, srv, nil, "copy", "--filter", "dias", "--stdout")
	require.NoError(t, res.err)
	assert.Equal(t, "NOME: Beto Dias\nCPF: 222.333.444-55\n", res.stdout)
}

func TestCopyErrors(t *testing.T) {
	srv := apitest.New(t)
	guards(srv)

	res := run(t, srv, nil, "copy")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "nothing to copy")

	res = run(t, srv, nil, "copy", "99999999999")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "not in the roster")

	res = run(t, srv, nil, "copy", "--filter", "zzz", "--stdout")
	assert.ErrorIs(t, res.err, roster.ErrNothingSelected)
}

func TestRegisterFlags(t *testing.T) {
	srv := apitest.New(t)

	res := run(t, srv, nil, "register", "--nome", "maria da silva", "--cpf", "12345678901")
	require.NoError(t, res.err)
	assert.Equal(t, "registered Maria da Silva (123.456.789-01)\n", res.stdout)
	require.Len(t, srv.Employees(), 1)
	assert.Equal(t, "maria da silva", srv.Employees()[0].Nome)
}

func TestRegisterMissingCPF(t *testing.T) {
	srv := apitest.New(t)

	res := run(t, srv, nil, "register", "--nome", "maria")
	require.Error(t, res.err)
	assert.True(t, remote.IsValidation(res.err))
	assert.Zero(t, srv.CountRequests(http.MethodPost, "/usuarios"))
}

func TestEditFlags(t *testing.T) {
	srv := apitest.New(t)
	guards(srv)

	res := run(t, srv, nil, "edit", "3", "--cpf", "22233344400")
	require.NoError(t, res.err)
	assert.Equal(t, "updated 3\n", res.stdout)
	for _, e := range srv.Employees() {
		if e.ID == "3" {
			assert.Equal(t, "Beto Dias", e.Nome)
			assert.Equal(t, "22233344400", e.CPF)
		}
	}
	assert.Zero(t, srv.CountRequests(http.MethodGet, "/"))
}

func TestEditUnknownID(t *testing.T) {
	srv := apitest.New(t)
	guards(srv)

	res := run(t, srv, nil, "edit", "42", "--nome", "X")
	require.Error(t, res.err)
	assert.True(t, remote.IsNetwork(res.err))
}

func TestEquipment(t *testing.T) {
	srv := apitest.New(t)
	srv.SetEquipment(
		api.Equipment{ID: "1", Nome: "Capacete", Quantidade: 2},
		api.Equipment{ID: "2", Nome: "Rádio", Quantidade: 5},
	)

	res := run(t, srv, nil, "equipment", "list")
	require.NoError(t, res.err)
	lines := splitLines(res.stdout)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "helmet")
	assert.Contains(t, lines[2], "radio")

	res = run(t, srv, nil, "equipment", "add", "1")
	require.NoError(t, res.err)
	assert.Equal(t, "Capacete: 3\n", res.stdout)

	res = run(t, srv, nil, "equipment", "remove", "2")
	require.NoError(t, res.err)
	assert.Equal(t, "Rádio: 4\n", res.stdout)
}

func TestEquipmentMutationFailureShowsServerValue(t *testing.T) {
	srv := apitest.New(t)
	srv.SetEquipment(api.Equipment{ID: "1", Nome: "Capacete", Quantidade: 2})
	srv.Fail("POST /equipamentos/{id}/{op}", http.StatusInternalServerError)

	res := run(t, srv, nil, "equipment", "add", "1")
	require.Error(t, res.err)
	assert.Equal(t, "Capacete: 2\n", res.stdout)
}

func TestDashboard(t *testing.T) {
	srv := apitest.New(t)
	guards(srv)
	srv.SetEquipment(
		api.Equipment{ID: "1", Nome: "Capacete", Quantidade: 2},
		api.Equipment{ID: "2", Nome: "Tonfa", Quantidade: 5},
	)

	res := run(t, srv, nil, "dashboard")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Vigilantes:   3")
	assert.Contains(t, res.stdout, "2 items, 7 units")
	assert.Contains(t, res.stdout, "sha256:")
	assert.Contains(t, res.stdout, "over 2 requests")
}

func TestDashboardFailure(t *testing.T) {
	srv := apitest.New(t)
	srv.Fail("GET /equipamentos", http.StatusBadGateway)

	res := run(t, srv, nil, "dashboard")
	require.Error(t, res.err)
	assert.True(t, remote.IsNetwork(res.err))
}

func TestInvalidAPIURL(t *testing.T) {
	var stdout, stderr bytes.Buffer
	root := NewRootCmd(&stdout, &stderr)
	root.SetArgs([]string{"list", "--" + FlagConfig, filepath.Join(t.TempDir(), "c.yaml"), "--" + FlagAPIURL, "localhost:8080"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must start with http://")
}

func TestTokenFromEnvironment(t *testing.T) {
	srv := apitest.New(t, apitest.WithToken("s3cret"))
	guards(srv)

	var stdout, stderr bytes.Buffer
	t.Setenv("JESCTL_TOKEN", "s3cret")
	t.Setenv("JESCTL_API_URL", srv.URL)
	t.Setenv("JESCTL_LOG_LEVEL", "off")
	root := NewRootCmd(&stdout, &stderr)
	root.SetArgs([]string{"list", "--" + FlagConfig, filepath.Join(t.TempDir(), "c.yaml")})
	require.NoError(t, root.Execute())
	assert.Len(t, splitLines(stdout.String()), 3)
}

func splitLines(s string) []string {
	var out []string
	for _, l := range bytes.Split([]byte(s), []byte("\n")) {
		if len(l) > 0 {
			out = append(out, string(l))
		}
	}
	return out
}

func TestInitRunsOnBrokenConfig(t *testing.T) {
	t.Setenv("JESCTL_API_URL", "")
	t.Setenv("JESCTL_TOKEN", "")
	t.Setenv("JESCTL_LOG_LEVEL", "off")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: localhost:8080\n"), 0600))

	var stdout, stderr bytes.Buffer
	list := NewRootCmd(&stdout, &stderr)
	list.SetArgs([]string{"list", "--" + FlagConfig, path})
	require.Error(t, list.Execute())

	// Without --reinit the wizard is not opened, so this runs without a terminal.
	root := NewRootCmd(&stdout, &stderr)
	root.SetArgs([]string{"init", "--" + FlagConfig, path, "--" + FlagAPIURL, "nope"})
	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "already exists")
}
