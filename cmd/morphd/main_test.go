package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/morphd/pkg/morph"
)

// reexecEnv makes the test binary behave as morphd, for tests that need a
// real process to signal.
const reexecEnv = "E2E_RUN_MORPHD"

func TestMain(m *testing.M) {
	if os.Getenv(reexecEnv) == "1" {
		os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
	}
	os.Exit(m.Run())
}

// --- E2E Tests ---
// These exercise the full pipeline: stdin → source → adapter → sink → stdout

type result struct {
	stdout, stderr string
	code           int
}

func runMorphd(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("NO_COLOR", "")

	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func records(t *testing.T, out string) []morph.AnalysisResult {
	t.Helper()
	var recs []morph.AnalysisResult
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if line == "" {
			continue
		}
		var r morph.AnalysisResult
		require.NoError(t, json.Unmarshal([]byte(line), &r), line)
		recs = append(recs, r)
	}
	return recs
}

func TestE2E_OneRecordPerNonBlankLine(t *testing.T) {
	res := runMorphd(t, "ev\n  \n\nkitaplar\r\n\t\nxyz\n")

	require.Equal(t, 0, res.code, res.stderr)
	recs := records(t, res.stdout)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"ev", "kitaplar", "xyz"}, []string{recs[0].Word, recs[1].Word, recs[2].Word})
	assert.Empty(t, recs[2].Analyses)
	assert.Nil(t, recs[2].Error)
	assert.Contains(t, res.stderr, "msg=done")
	assert.Contains(t, res.stderr, "words=3")
	assert.Contains(t, res.stderr, "blank=3")
}

func TestE2E_ExactRecord(t *testing.T) {
	res := runMorphd(t, "ev\n")

	require.Equal(t, 0, res.code)
	assert.Equal(t,
		`{"word":"ev","analyses":[{"stem":"ev","morphemes":[{"surface":"ev","lexicalForm":"ev","id":"ev","type":"Noun","labels":["common"],"hasChange":false}]}],"error":null}`+"\n",
		res.stdout)
}

func TestE2E_PerWordErrorDoesNotStopStream(t *testing.T) {
	res := runMorphd(t, "ev1\nev\n")

	require.Equal(t, 0, res.code)
	lines := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"word":"ev1","analyses":[],"error":"unsupported character '1'"}`, lines[0])

	recs := records(t, res.stdout)
	assert.False(t, recs[1].Failed())
}

func TestE2E_MultipleAnalysesKeepOrderAndHasChange(t *testing.T) {
	res := runMorphd(t, "kitabı\n")

	require.Equal(t, 0, res.code)
	recs := records(t, res.stdout)
	require.Len(t, recs, 1)
	require.Len(t, recs[0].Analyses, 2)
	assert.Equal(t, "P3SG", recs[0].Analyses[0].Morphemes[1].ID)
	assert.Equal(t, "ACC", recs[0].Analyses[1].Morphemes[1].ID)

	for _, a := range recs[0].Analyses {
		for _, m := range a.Morphemes {
			assert.Equal(t, m.Surface != m.LexicalForm, m.HasChange, m.ID)
		}
	}
	// ı realizes the I archiphoneme.
	assert.True(t, recs[0].Analyses[0].Morphemes[1].HasChange)
}

func TestE2E_Deterministic(t *testing.T) {
	input := "gidiyordum\nyazı\nevlerde\n"
	first := runMorphd(t, input)
	second := runMorphd(t, input)

	require.Equal(t, 0, first.code)
	if diff := cmp.Diff(records(t, first.stdout), records(t, second.stdout)); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
}

func TestE2E_WordTooLong(t *testing.T) {
	res := runMorphd(t, "kitaplar\nev\n", "--max-word-length", "4")

	require.Equal(t, 0, res.code)
	recs := records(t, res.stdout)
	require.Len(t, recs, 2)
	require.True(t, recs[0].Failed())
	assert.Equal(t, "word too long: exceeds 4 bytes", *recs[0].Error)
	assert.False(t, recs[1].Failed())
}

func TestE2E_TextFormat(t *testing.T) {
	res := runMorphd(t, "kitaplar\nxyz\nev1\n", "--format", "text", "--color", "never", "--theme", "mono")

	require.Equal(t, 0, res.code)
	assert.Equal(t, strings.Join([]string{
		"kitaplar          kitap = kitap[kitap] + lar[lAr PLU]",
		"xyz               - no analyses",
		"ev1               x unsupported character '1'",
	}, "\n")+"\n", res.stdout)
	assert.NotContains(t, res.stdout, "\033[")
}

func TestE2E_EmptyInput(t *testing.T) {
	res := runMorphd(t, "")

	assert.Equal(t, 0, res.code)
	assert.Empty(t, res.stdout)
}

func TestE2E_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "morphd.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format: text\ncolor: never\ntheme: mono\n"), 0o600))

	res := runMorphd(t, "xyz\n", "--config", cfg)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "xyz               - no analyses\n", res.stdout)
}

func TestE2E_YAMLLexicon(t *testing.T) {
	dir := t.TempDir()
	lex := filepath.Join(dir, "lex.yaml")
	require.NoError(t, os.WriteFile(lex, []byte(`roots:
  - {id: foo, lexical: foo, type: Noun}
`), 0o600))

	res := runMorphd(t, "foo\nev\n", "--lexicon", lex)
	require.Equal(t, 0, res.code, res.stderr)
	lines := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`{"word":"foo","analyses":[{"stem":"foo","morphemes":[{"surface":"foo","lexicalForm":"foo","id":"foo","type":"Noun","labels":[],"hasChange":false}]}],"error":null}`,
		lines[0])
	assert.Equal(t, `{"word":"ev","analyses":[],"error":null}`, lines[1])
}

func TestE2E_ImportThenServeFromSQLite(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "lex.db")

	src := filepath.Join(dir, "lex.yaml")
	require.NoError(t, os.WriteFile(src, []byte(`roots:
  - {id: kitap, lexical: kitap, type: Noun, alternates: [kitab]}
suffixes:
  - {id: PLU, lexical: lAr, type: Inflectional, follows: [Noun]}
  - {id: ACC, lexical: (y)I, type: Inflectional, follows: [Noun, PLU]}
`), 0o600))

	res := runMorphd(t, "", "lexicon", "import", src, db)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "imported 1 roots and 2 suffixes into "+db+" (schema v1)\n", res.stdout)

	res = runMorphd(t, "kitapları\n", "--lexicon", db)
	require.Equal(t, 0, res.code, res.stderr)
	recs := records(t, res.stdout)
	require.Len(t, recs, 1)
	require.Len(t, recs[0].Analyses, 1)
	ids := []string{}
	for _, m := range recs[0].Analyses[0].Morphemes {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"kitap", "PLU", "ACC"}, ids)

	res = runMorphd(t, "", "lexicon", "stats", db)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Lexicon: "+db)
	assert.Contains(t, res.stdout, "Imported from: "+src+" at ")
}

func TestE2E_LexiconStats(t *testing.T) {
	res := runMorphd(t, "", "lexicon", "stats")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Lexicon: built-in")
	assert.Contains(t, res.stdout, "Inflectional")
	assert.Contains(t, res.stdout, "ROOTS")
	assert.Contains(t, res.stdout, "21")
	assert.NotContains(t, res.stdout, "Imported from")
}

func TestE2E_Version(t *testing.T) {
	res := runMorphd(t, "", "version")

	require.Equal(t, 0, res.code)
	assert.True(t, strings.HasPrefix(res.stdout, "morphd "), res.stdout)
}

func TestE2E_FatalErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing lexicon", []string{"--lexicon", "does-not-exist.yaml"}, "lexicon"},
		{"invalid config value", []string{"--format", "xml"}, "invalid configuration"},
		{"missing config file", []string{"--config", "nope.yaml"}, "config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runMorphd(t, "ev\n", tt.args...)

			assert.Equal(t, 1, res.code)
			assert.Empty(t, res.stdout, "no records before a startup failure")
			assert.Contains(t, res.stderr, "level=ERROR")
			assert.Contains(t, res.stderr, tt.want)
		})
	}
}

func TestE2E_UsageErrors(t *testing.T) {
	tests := [][]string{
		{"--no-such-flag"},
		{"extra-arg"},
		{"lexicon", "import", "only-one"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			res := runMorphd(t, "", args...)

			assert.Equal(t, 2, res.code)
			assert.Empty(t, res.stdout)
			assert.Contains(t, res.stderr, "morphd --help")
		})
	}
}

func TestE2E_Interactive(t *testing.T) {
	res := runMorphd(t, "ev\n\nxyz\n", "--interactive")

	require.Equal(t, 0, res.code)
	recs := records(t, res.stdout)
	require.Len(t, recs, 2)
	assert.Equal(t, "ev", recs[0].Word)
	assert.Equal(t, "xyz", recs[1].Word)
}

func TestE2E_InterruptWhileWaitingForInput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("os.Interrupt cannot be sent to a process on windows")
	}
	dir := t.TempDir()
	cmd := exec.Command(os.Args[0])
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), reexecEnv+"=1", "XDG_CONFIG_HOME="+filepath.Join(dir, "xdg"), "NO_COLOR=")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	defer stdin.Close()
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	_, err = stdin.Write([]byte("ev\n"))
	require.NoError(t, err)
	line, err := bufio.NewReader(stdout).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"word":"ev"`)

	// stdin stays open, so morphd is blocked reading the next word.
	require.NoError(t, cmd.Process.Signal(os.Interrupt))

	waited := make(chan error, 1)
	go func() { waited <- cmd.Wait() }()
	select {
	case err := <-waited:
		require.NoError(t, err, stderr.String())
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		<-waited
		t.Fatalf("morphd did not exit after interrupt; stderr:\n%s", stderr.String())
	}
	assert.Contains(t, stderr.String(), "msg=interrupted")
	assert.Contains(t, stderr.String(), "words=1")
}
