package document

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/tooring/model/machine"
	"github.com/viant/tooring/model/task"
	"strings"
	"testing"
)

func TestService_LoadMachine(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	srv := New(WithFS(fs))
	testCases := []struct {
		name        string
		URL         string
		content     string
		expectErr   bool
		expectTrans int
	}{
		{name: "json", URL: "mem://localhost/tooring/equal.json", content: machine.SampleEqualWords, expectTrans: 22},
		{
			name: "yaml",
			URL:  "mem://localhost/tooring/flip.yaml",
			content: `startState: q0
acceptState: qa
tape: "01"
transitionSpace:
  - {readState: q0, readSymbol: "0", writeState: q0, writeSymbol: "1", moveDirection: true}
  - {readState: q0, readSymbol: "1", writeState: q0, writeSymbol: "0", moveDirection: true}
  - {readState: q0, readSymbol: "_", writeState: qa, writeSymbol: null, moveDirection: null}
`,
			expectTrans: 3,
		},
		{name: "invalid", URL: "mem://localhost/tooring/invalid.json", content: `{"startState":"q0"}`, expectErr: true},
		{name: "missing", URL: "mem://localhost/tooring/missing.json", expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.content != "" {
				require.NoError(t, fs.Upload(ctx, tc.URL, file.DefaultFileOsMode, strings.NewReader(tc.content)))
			}
			actual, err := srv.LoadMachine(ctx, tc.URL)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, actual.Transitions, tc.expectTrans)
		})
	}
}

func TestService_SaveResult(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	srv := New(WithFS(fs))
	m, err := machine.Decode([]byte(machine.SampleEqualWords), machine.FormatJSON)
	require.NoError(t, err)
	aTask := task.NewTask("t1", m)
	aTask.Schedule("u1")
	aTask.Machine.Tape = "xxxxxxxxxxxx#xxxxxxxxxxxx"
	aTask.Finish(machine.HaltAccepted, 338)

	for _, URL := range []string{"mem://localhost/tooring/result.json", "mem://localhost/tooring/result.yaml"} {
		t.Run(URL, func(t *testing.T) {
			require.NoError(t, srv.SaveResult(ctx, URL, NewResult(aTask)))
			data, err := fs.DownloadWithURL(ctx, URL)
			require.NoError(t, err)

			actual := &Result{}
			require.NoError(t, srv.Load(ctx, URL, actual))
			assert.Equal(t, "t1", actual.ID)
			assert.True(t, actual.Done)
			assert.Equal(t, machine.HaltAccepted, actual.Halt)
			assert.Equal(t, "u1", actual.Owner)
			assert.Equal(t, 338, actual.Steps)
			assert.Equal(t, "xxxxxxxxxxxx#xxxxxxxxxxxx", actual.Tape)
			assert.Len(t, actual.Transitions, 22)
			assert.Contains(t, string(data), "transitionSpace")

			// a result document is a valid machine document
			resubmitted, err := srv.LoadMachine(ctx, URL)
			require.NoError(t, err)
			assert.Equal(t, "q1", resubmitted.StartState)
		})
	}
}

func TestService_Load_Env(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	t.Setenv("TOORING_TEST_PREFIX", "jobs")
	URL := "mem://localhost/tooring/config.yaml"
	require.NoError(t, fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader("prefix: ${env.TOORING_TEST_PREFIX}\n")))
	target := struct {
		Prefix string `yaml:"prefix"`
	}{}
	require.NoError(t, New(WithFS(fs)).Load(ctx, URL, &target))
	assert.Equal(t, "jobs", target.Prefix)
}
